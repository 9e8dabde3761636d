package world

// chunkInView is the best-effort per-chunk visibility test. It is a render
// cost optimization, not a correctness requirement, so it errs toward
// visible: chunks near the camera are always kept, and otherwise a chunk is
// kept if its center or any corner lies in the host's frustum.
func chunkInView(cam Camera, key ChunkKey) bool {
	center := key.Center()
	eye := cam.Position()
	near := float32(2 * ChunkSize)
	if center.Sub(eye).Len() <= near {
		return true
	}
	if cam.PointInFrustum(center) {
		return true
	}
	o := key.Origin().Vec3()
	s := float32(ChunkSize)
	for i := 0; i < 8; i++ {
		corner := o
		if i&1 != 0 {
			corner[0] += s
		}
		if i&2 != 0 {
			corner[1] += s
		}
		if i&4 != 0 {
			corner[2] += s
		}
		if cam.PointInFrustum(corner) {
			return true
		}
	}
	return false
}
