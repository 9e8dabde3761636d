package world

import "github.com/go-gl/mathgl/mgl32"

// Face enumerates the six cube-aligned directions.
type Face int

const (
	FaceTop Face = iota
	FaceBottom
	FaceFront // +Z
	FaceBack  // -Z
	FaceRight // +X
	FaceLeft  // -X

	faceCount
)

// faceDirs maps a face to the neighbor offset it culls against.
var faceDirs = [faceCount]Vec3i{
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
	FaceFront:  {0, 0, 1},
	FaceBack:   {0, 0, -1},
	FaceRight:  {1, 0, 0},
	FaceLeft:   {-1, 0, 0},
}

// faceQuads holds the four corners of each unit-cube face, counter-clockwise
// when viewed from outside so the winding yields the outward normal.
var faceQuads = [faceCount][4]mgl32.Vec3{
	FaceTop:    {{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	FaceBottom: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	FaceFront:  {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	FaceBack:   {{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	FaceRight:  {{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
	FaceLeft:   {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
}

var faceNormals = [faceCount]mgl32.Vec3{
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
	FaceFront:  {0, 0, 1},
	FaceBack:   {0, 0, -1},
	FaceRight:  {1, 0, 0},
	FaceLeft:   {-1, 0, 0},
}

// faceIndices is the two-triangle pattern for one quad, relative to its first
// vertex.
var faceIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// faceUVCorners maps quad corners into a UVRect: bottom-left, bottom-right,
// top-right, top-left, with V growing downward in the atlas.
var faceUVCorners = [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

func (f Face) Dir() Vec3i { return faceDirs[f] }

func (f Face) String() string {
	switch f {
	case FaceTop:
		return "TOP"
	case FaceBottom:
		return "BOTTOM"
	case FaceFront:
		return "FRONT"
	case FaceBack:
		return "BACK"
	case FaceRight:
		return "RIGHT"
	case FaceLeft:
		return "LEFT"
	}
	return "?"
}
