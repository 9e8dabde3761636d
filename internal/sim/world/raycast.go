package world

import "github.com/go-gl/mathgl/mgl32"

// RaycastHit is the structured result of a voxel raycast. A miss is a zero
// value with Hit=false, never an error.
type RaycastHit struct {
	Hit  bool
	Pos  Vec3i // the solid block that was struck
	Prev Vec3i // the last air block sampled before it (the placement face)
	Type BlockType
}

// Raycast marches a sample point along the ray in fixed increments, flooring
// to a block each step, and returns the first solid block. Unloaded chunks
// read as AIR, so rays pass through them. The step must be <= 1 block so
// axis-aligned rays cannot skip a cell; tuning validation enforces that.
func (m *ChunkManager) Raycast(origin, dir mgl32.Vec3, maxDist float32) RaycastHit {
	if dir.Len() == 0 {
		return RaycastHit{}
	}
	d := dir.Normalize()
	step := m.cfg.RaycastStep

	prev := BlockAtPoint(origin)
	for t := float32(0); t <= maxDist; t += step {
		cell := BlockAtPoint(origin.Add(d.Mul(t)))
		bt := m.BlockAt(cell)
		if IsSolid(bt) {
			return RaycastHit{Hit: true, Pos: cell, Prev: prev, Type: bt}
		}
		prev = cell
	}
	return RaycastHit{}
}
