package world

import (
	"crypto/sha256"
	"encoding/binary"
)

// Chunk is a dense ChunkSize^3 block container. A chunk is created all-AIR,
// filled once by the generator, then mutated in place by edits. It is owned
// exclusively by its ChunkManager and never moves between coordinates.
type Chunk struct {
	Key ChunkKey

	blocks []BlockType
	mgr    *ChunkManager // for cross-chunk neighbor reads; may be nil in tests

	dirty bool
	solid int

	meshData       *MeshData
	meshVersion    uint64
	meshHandle     uint64
	colliderHandle uint64
	visible        bool

	hash      [32]byte
	hashStale bool
}

func NewChunk(key ChunkKey, mgr *ChunkManager) *Chunk {
	return &Chunk{
		Key:       key,
		blocks:    make([]BlockType, ChunkSize*ChunkSize*ChunkSize),
		mgr:       mgr,
		dirty:     true,
		hashStale: true,
		visible:   true,
	}
}

func (c *Chunk) index(x, y, z int) int {
	// x fastest, then z, then y
	return x + z*ChunkSize + y*ChunkSize*ChunkSize
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}

// Block reads a block by local coordinates. Out-of-bounds coordinates resolve
// through the owning manager's world-space lookup, so face culling at chunk
// boundaries sees into loaded neighbors; an unloaded neighbor reads as AIR.
func (c *Chunk) Block(x, y, z int) BlockType {
	if inBounds(x, y, z) {
		return c.blocks[c.index(x, y, z)]
	}
	if c.mgr == nil {
		return Air
	}
	o := c.Key.Origin()
	return c.mgr.BlockAt(Vec3i{o.X + x, o.Y + y, o.Z + z})
}

// SetBlock writes a block by local coordinates. Out-of-bounds writes are
// no-ops; callers editing across chunks must go through the manager's
// world-space API. The solid counter tracks AIR transitions and the chunk is
// marked dirty.
func (c *Chunk) SetBlock(x, y, z int, t BlockType) {
	if !inBounds(x, y, z) {
		return
	}
	i := c.index(x, y, z)
	old := c.blocks[i]
	if old == t {
		return
	}
	if IsSolid(old) && !IsSolid(t) {
		c.solid--
	} else if !IsSolid(old) && IsSolid(t) {
		c.solid++
	}
	c.blocks[i] = t
	c.dirty = true
	c.hashStale = true
}

func (c *Chunk) SolidCount() int { return c.solid }

func (c *Chunk) Dirty() bool { return c.dirty }

// MarkDirty schedules a mesh rebuild, typically because a neighbor chunk
// changed along the shared boundary.
func (c *Chunk) MarkDirty() { c.dirty = true }

// MeshVersion increments on every rebuild that actually did work.
func (c *Chunk) MeshVersion() uint64 { return c.meshVersion }

// Mesh returns the last built geometry, nil for empty or never-meshed chunks.
func (c *Chunk) Mesh() *MeshData { return c.meshData }

// Blocks exposes the raw palette array for encoding. Callers must not mutate.
func (c *Chunk) Blocks() []BlockType { return c.blocks }

// Digest is a deterministic hash of the block array, cached until the next
// edit. Used for change detection in the observer stream and for determinism
// checks in tests.
func (c *Chunk) Digest() [32]byte {
	if c.hashStale {
		h := sha256.New()
		var tmp [2]byte
		for _, v := range c.blocks {
			binary.LittleEndian.PutUint16(tmp[:], uint16(v))
			h.Write(tmp[:])
		}
		copy(c.hash[:], h.Sum(nil))
		c.hashStale = false
	}
	return c.hash
}

// RebuildMesh rebuilds the chunk's geometry if dirty and submits it to the
// host. Returns true when new geometry was produced, meaning a collider build
// should be scheduled from the same vertex data.
func (c *Chunk) RebuildMesh(host Host) bool {
	if !c.dirty {
		return false
	}
	c.dirty = false

	if c.solid == 0 {
		// Empty fast path: all-air chunks own no geometry at all.
		c.releaseGeometry(host)
		return false
	}

	c.meshData = buildChunkMesh(c)
	c.meshVersion++
	c.meshHandle = host.Mesh.SubmitChunkMesh(c.Key, c.meshData, host.Material)
	return true
}

// BuildCollider submits collision geometry derived from the current mesh.
// Kept separate from RebuildMesh so the manager can defer it by one tick.
func (c *Chunk) BuildCollider(host Host) {
	if c.meshData == nil {
		return
	}
	c.colliderHandle = host.Collision.SubmitChunkCollider(c.Key, c.meshData)
}

func (c *Chunk) releaseGeometry(host Host) {
	if c.meshData != nil {
		host.Mesh.RemoveChunkMesh(c.Key)
		host.Collision.RemoveChunkCollider(c.Key)
	}
	c.meshData = nil
	c.meshHandle = 0
	c.colliderHandle = 0
}

func (c *Chunk) setVisible(host Host, visible bool) {
	if c.visible == visible {
		return
	}
	c.visible = visible
	host.Mesh.SetChunkVisible(c.Key, visible)
}
