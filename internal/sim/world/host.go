package world

import "github.com/go-gl/mathgl/mgl32"

// The engine never talks to a renderer or physics engine directly. The host
// provides these capabilities; the engine only submits geometry and queries
// the camera through them.

// MeshSink accepts indexed triangle geometry for a chunk and returns an opaque
// handle. Submitting again for the same key replaces the previous geometry.
type MeshSink interface {
	SubmitChunkMesh(key ChunkKey, m *MeshData, material uint32) uint64
	RemoveChunkMesh(key ChunkKey)
	SetChunkVisible(key ChunkKey, visible bool)
}

// CollisionSink accepts a triangle-mesh collider derived from the same
// geometry as the render mesh.
type CollisionSink interface {
	SubmitChunkCollider(key ChunkKey, m *MeshData) uint64
	RemoveChunkCollider(key ChunkKey)
}

// Camera is the host's view into the scene. PointInFrustum is best-effort:
// visibility culling built on it must never hide a chunk that is in view.
type Camera interface {
	Position() mgl32.Vec3
	LookDirection() mgl32.Vec3
	PointInFrustum(p mgl32.Vec3) bool
}

// Host bundles the capabilities a world needs from its embedding engine.
// Material is the texture-atlas handle attached to every submitted mesh.
type Host struct {
	Mesh      MeshSink
	Collision CollisionSink
	Material  uint32
}

type nullMeshSink struct{}

func (nullMeshSink) SubmitChunkMesh(ChunkKey, *MeshData, uint32) uint64 { return 0 }
func (nullMeshSink) RemoveChunkMesh(ChunkKey)                          {}
func (nullMeshSink) SetChunkVisible(ChunkKey, bool)                    {}

type nullCollisionSink struct{}

func (nullCollisionSink) SubmitChunkCollider(ChunkKey, *MeshData) uint64 { return 0 }
func (nullCollisionSink) RemoveChunkCollider(ChunkKey)                   {}

// NullHost is used when running headless (no renderer attached).
func NullHost() Host {
	return Host{Mesh: nullMeshSink{}, Collision: nullCollisionSink{}}
}

// MemoryHost records submissions in maps. It backs tests and the headless
// server, where the observer endpoint reads geometry sizes from it.
type MemoryHost struct {
	Meshes    map[ChunkKey]*MeshData
	Colliders map[ChunkKey]*MeshData
	Visible   map[ChunkKey]bool
	Material  uint32

	nextHandle uint64
}

func NewMemoryHost() *MemoryHost {
	return &MemoryHost{
		Meshes:    make(map[ChunkKey]*MeshData),
		Colliders: make(map[ChunkKey]*MeshData),
		Visible:   make(map[ChunkKey]bool),
	}
}

func (h *MemoryHost) Host() Host {
	return Host{Mesh: h, Collision: h, Material: h.Material}
}

func (h *MemoryHost) SubmitChunkMesh(key ChunkKey, m *MeshData, material uint32) uint64 {
	h.Meshes[key] = m
	h.Visible[key] = true
	h.nextHandle++
	return h.nextHandle
}

func (h *MemoryHost) RemoveChunkMesh(key ChunkKey) {
	delete(h.Meshes, key)
	delete(h.Visible, key)
}

func (h *MemoryHost) SetChunkVisible(key ChunkKey, visible bool) {
	if _, ok := h.Meshes[key]; ok {
		h.Visible[key] = visible
	}
}

func (h *MemoryHost) SubmitChunkCollider(key ChunkKey, m *MeshData) uint64 {
	h.Colliders[key] = m
	h.nextHandle++
	return h.nextHandle
}

func (h *MemoryHost) RemoveChunkCollider(key ChunkKey) {
	delete(h.Colliders, key)
}
