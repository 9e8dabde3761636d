package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkSize is the edge length of a chunk in blocks. The engine's lookup
// tables and the dense chunk arrays assume this value; it is validated against
// the tuning file at world construction.
const ChunkSize = 16

type Vec3i struct {
	X, Y, Z int
}

func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3i) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// ChunkKey identifies a chunk in chunk space.
type ChunkKey struct {
	CX, CY, CZ int
}

// Origin returns the world position of the chunk's (0,0,0) corner.
func (k ChunkKey) Origin() Vec3i {
	return Vec3i{k.CX * ChunkSize, k.CY * ChunkSize, k.CZ * ChunkSize}
}

// Center returns the world-space center of the chunk.
func (k ChunkKey) Center() mgl32.Vec3 {
	o := k.Origin()
	h := float32(ChunkSize) / 2
	return mgl32.Vec3{float32(o.X) + h, float32(o.Y) + h, float32(o.Z) + h}
}

// ChunkKeyFor maps a world position to its chunk. Floor division, not
// truncation: world x = -1 lives in chunk -1 at local 15.
func ChunkKeyFor(p Vec3i) ChunkKey {
	return ChunkKey{
		CX: floorDiv(p.X, ChunkSize),
		CY: floorDiv(p.Y, ChunkSize),
		CZ: floorDiv(p.Z, ChunkSize),
	}
}

// LocalFor maps a world position to coordinates relative to its chunk origin.
// Each component is in [0, ChunkSize).
func LocalFor(p Vec3i) Vec3i {
	return Vec3i{
		X: mod(p.X, ChunkSize),
		Y: mod(p.Y, ChunkSize),
		Z: mod(p.Z, ChunkSize),
	}
}

// BlockAtPoint floors a continuous position to the integer block containing it.
func BlockAtPoint(p mgl32.Vec3) Vec3i {
	return Vec3i{
		X: int(math.Floor(float64(p.X()))),
		Y: int(math.Floor(float64(p.Y()))),
		Z: int(math.Floor(float64(p.Z()))),
	}
}

func floorDiv(a, b int) int {
	// b > 0
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

func mod(a, b int) int {
	// b > 0
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
