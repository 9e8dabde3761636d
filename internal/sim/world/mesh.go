package world

import "github.com/go-gl/mathgl/mgl32"

// Vertex is one corner of an emitted quad.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// MeshData is an indexed triangle list. Triangle count is len(Indices)/3.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

// FaceCount returns the number of emitted quads.
func (m *MeshData) FaceCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 6
}

// buildChunkMesh sweeps every cell and emits one quad per solid-block face
// whose neighbor is transparent. Interior neighbors are array lookups;
// boundary cells resolve through the manager into adjacent chunks, with
// unloaded neighbors reading as AIR (the face is emitted). Triangle count is
// therefore proportional to exposed surface, not volume.
func buildChunkMesh(c *Chunk) *MeshData {
	m := &MeshData{}
	for y := 0; y < ChunkSize; y++ {
		for z := 0; z < ChunkSize; z++ {
			for x := 0; x < ChunkSize; x++ {
				t := c.blocks[c.index(x, y, z)]
				if !IsSolid(t) {
					continue
				}
				for f := Face(0); f < faceCount; f++ {
					d := faceDirs[f]
					if !IsTransparent(c.Block(x+d.X, y+d.Y, z+d.Z)) {
						continue
					}
					emitFace(m, t, f, x, y, z)
				}
			}
		}
	}
	return m
}

func emitFace(m *MeshData, t BlockType, f Face, x, y, z int) {
	base := uint32(len(m.Vertices))
	origin := mgl32.Vec3{float32(x), float32(y), float32(z)}
	rect := FaceUV(t, f)
	for i := 0; i < 4; i++ {
		m.Vertices = append(m.Vertices, Vertex{
			Position: faceQuads[f][i].Add(origin),
			Normal:   faceNormals[f],
			UV: mgl32.Vec2{
				rect.U + faceUVCorners[i][0]*rect.W,
				rect.V + faceUVCorners[i][1]*rect.H,
			},
		})
	}
	for _, idx := range faceIndices {
		m.Indices = append(m.Indices, base+idx)
	}
}
