package world

import (
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

type ManagerConfig struct {
	LoadRadius            int
	VerticalRadius        int
	InitialRadius         int
	InitialVerticalRadius int

	// Per-tick budgets. Loads stop at whichever cap hits first, but at least
	// one queued chunk is processed per tick so the queue always drains.
	ChunksPerTick int
	LoadBudget    time.Duration
	DirtyPerTick  int

	RaycastStep float32
}

func (c *ManagerConfig) applyDefaults() {
	if c.LoadRadius <= 0 {
		c.LoadRadius = 4
	}
	if c.VerticalRadius <= 0 {
		c.VerticalRadius = 2
	}
	if c.InitialRadius <= 0 {
		c.InitialRadius = 2
	}
	if c.InitialVerticalRadius <= 0 {
		c.InitialVerticalRadius = 1
	}
	if c.ChunksPerTick <= 0 {
		c.ChunksPerTick = 2
	}
	if c.LoadBudget <= 0 {
		c.LoadBudget = 6 * time.Millisecond
	}
	if c.DirtyPerTick <= 0 {
		c.DirtyPerTick = 1
	}
	if c.RaycastStep <= 0 {
		c.RaycastStep = 0.1
	}
}

// UpdateStats summarizes one streaming tick for logging and the observer feed.
type UpdateStats struct {
	Loaded    int
	Unloaded  int
	Meshed    int
	Colliders int

	ActiveChunks int
	QueueLen     int
	DirtyLen     int
}

// ChunkManager owns the active chunk set. It is the only component that
// creates or destroys chunks and the sole entry point for world-space block
// access, streaming and raycasts. All methods must be called from the world
// loop goroutine.
type ChunkManager struct {
	cfg  ManagerConfig
	gen  ChunkGenerator
	host Host
	cam  Camera

	chunks  map[ChunkKey]*Chunk
	queue   []ChunkKey
	queued  map[ChunkKey]struct{}
	desired map[ChunkKey]struct{}

	dirty    []ChunkKey
	dirtySet map[ChunkKey]struct{}

	// Collider builds deferred by one tick to smooth the cost of an edit or
	// load that already rebuilt a mesh this tick.
	pendingColliders []ChunkKey

	now func() time.Time
}

func NewChunkManager(cfg ManagerConfig, gen ChunkGenerator, host Host) *ChunkManager {
	cfg.applyDefaults()
	if host.Mesh == nil || host.Collision == nil {
		null := NullHost()
		if host.Mesh == nil {
			host.Mesh = null.Mesh
		}
		if host.Collision == nil {
			host.Collision = null.Collision
		}
	}
	return &ChunkManager{
		cfg:      cfg,
		gen:      gen,
		host:     host,
		chunks:   make(map[ChunkKey]*Chunk),
		queued:   make(map[ChunkKey]struct{}),
		desired:  make(map[ChunkKey]struct{}),
		dirtySet: make(map[ChunkKey]struct{}),
		now:      time.Now,
	}
}

func (m *ChunkManager) SetCamera(cam Camera) { m.cam = cam }

// Chunk returns the active chunk at key, or nil.
func (m *ChunkManager) Chunk(key ChunkKey) *Chunk { return m.chunks[key] }

func (m *ChunkManager) ActiveCount() int { return len(m.chunks) }

func (m *ChunkManager) QueuedCount() int { return len(m.queue) }

// ActiveKeys returns the active chunk coordinates in deterministic order.
func (m *ChunkManager) ActiveKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(m.chunks))
	for k := range m.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

// BlockAt reads a block in world space. A missing chunk reads as AIR, so
// in-progress streaming and unbounded raycasts stay safe.
func (m *ChunkManager) BlockAt(p Vec3i) BlockType {
	c, ok := m.chunks[ChunkKeyFor(p)]
	if !ok {
		return Air
	}
	l := LocalFor(p)
	return c.blocks[c.index(l.X, l.Y, l.Z)]
}

// SetBlockAt writes a block in world space. Writes into unloaded chunks are
// dropped (returns false). Writing the value a cell already holds is a no-op:
// no geometry changed, so nothing is rebuilt. Edits are latency-sensitive:
// the touched chunk is rebuilt immediately, and if the edit sits on a chunk
// face the adjacent neighbor is rebuilt immediately too, since its visible
// faces changed.
func (m *ChunkManager) SetBlockAt(p Vec3i, t BlockType) bool {
	key := ChunkKeyFor(p)
	c, ok := m.chunks[key]
	if !ok {
		return false
	}
	l := LocalFor(p)
	if c.blocks[c.index(l.X, l.Y, l.Z)] == t {
		return true
	}
	c.SetBlock(l.X, l.Y, l.Z, t)
	if c.RebuildMesh(m.host) {
		m.scheduleCollider(key)
	}

	for _, n := range boundaryNeighbors(key, l) {
		nc, ok := m.chunks[n]
		if !ok {
			continue
		}
		nc.MarkDirty()
		if nc.RebuildMesh(m.host) {
			m.scheduleCollider(n)
		}
	}
	return true
}

// boundaryNeighbors lists the chunk keys adjacent to a local position that
// sits on a chunk face (up to 3 for a corner cell).
func boundaryNeighbors(key ChunkKey, l Vec3i) []ChunkKey {
	var out []ChunkKey
	if l.X == 0 {
		out = append(out, ChunkKey{key.CX - 1, key.CY, key.CZ})
	}
	if l.X == ChunkSize-1 {
		out = append(out, ChunkKey{key.CX + 1, key.CY, key.CZ})
	}
	if l.Y == 0 {
		out = append(out, ChunkKey{key.CX, key.CY - 1, key.CZ})
	}
	if l.Y == ChunkSize-1 {
		out = append(out, ChunkKey{key.CX, key.CY + 1, key.CZ})
	}
	if l.Z == 0 {
		out = append(out, ChunkKey{key.CX, key.CY, key.CZ - 1})
	}
	if l.Z == ChunkSize-1 {
		out = append(out, ChunkKey{key.CX, key.CY, key.CZ + 1})
	}
	return out
}

// GenerateInitial synchronously loads a fixed neighborhood around origin,
// colliders included, so dependent systems (player physics) can rely on solid
// ground existing before the first tick. The whole neighborhood is generated
// before any chunk is meshed; meshing a chunk while its neighbor does not
// exist yet would emit boundary faces that nothing ever invalidates.
func (m *ChunkManager) GenerateInitial(origin Vec3i) {
	center := ChunkKeyFor(origin)
	r := m.cfg.InitialRadius
	vr := m.cfg.InitialVerticalRadius

	fresh := make(map[ChunkKey]*Chunk)
	for dy := -vr; dy <= vr; dy++ {
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				key := ChunkKey{center.CX + dx, center.CY + dy, center.CZ + dz}
				if _, ok := m.chunks[key]; ok {
					continue
				}
				c := NewChunk(key, m)
				m.gen.Generate(c)
				m.chunks[key] = c
				fresh[key] = c
			}
		}
	}

	for key, c := range fresh {
		c.RebuildMesh(m.host)
		c.BuildCollider(m.host)

		// Pre-existing chunks bordering a fresh one culled against AIR when
		// they were meshed; schedule their remesh like the queued-load path.
		for f := Face(0); f < faceCount; f++ {
			d := f.Dir()
			n := ChunkKey{key.CX + d.X, key.CY + d.Y, key.CZ + d.Z}
			if _, isNew := fresh[n]; isNew {
				continue
			}
			if nc, ok := m.chunks[n]; ok {
				nc.MarkDirty()
				m.markDirtyQueued(n)
			}
		}
	}
}

// Update runs one streaming tick around the viewpoint: deferred collider
// builds, desired-set reconciliation (enqueue missing, unload out-of-range
// immediately), the budgeted load drain, and — on ticks with no load — a
// bounded dirty-chunk remesh.
func (m *ChunkManager) Update(viewpoint mgl32.Vec3) UpdateStats {
	var st UpdateStats

	st.Colliders = m.drainColliders()

	center := ChunkKeyFor(BlockAtPoint(viewpoint))
	m.reconcileDesired(center, &st)

	st.Loaded = m.processLoadQueue(center)
	if st.Loaded == 0 {
		st.Meshed = m.drainDirty()
	}

	m.updateVisibility()

	st.ActiveChunks = len(m.chunks)
	st.QueueLen = len(m.queue)
	st.DirtyLen = len(m.dirty)
	return st
}

func (m *ChunkManager) reconcileDesired(center ChunkKey, st *UpdateStats) {
	r := m.cfg.LoadRadius
	vr := m.cfg.VerticalRadius

	for k := range m.desired {
		delete(m.desired, k)
	}
	for dy := -vr; dy <= vr; dy++ {
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				m.desired[ChunkKey{center.CX + dx, center.CY + dy, center.CZ + dz}] = struct{}{}
			}
		}
	}

	// Unload is immediate; only loading is budgeted.
	for key, c := range m.chunks {
		if _, want := m.desired[key]; want {
			continue
		}
		c.releaseGeometry(m.host)
		delete(m.chunks, key)
		st.Unloaded++
	}

	added := false
	for key := range m.desired {
		if _, ok := m.chunks[key]; ok {
			continue
		}
		if _, ok := m.queued[key]; ok {
			continue
		}
		m.queue = append(m.queue, key)
		m.queued[key] = struct{}{}
		added = true
	}
	if added {
		m.sortQueue(center)
	}
}

// sortQueue orders pending loads nearest-first, with a deterministic
// tie-break.
func (m *ChunkManager) sortQueue(center ChunkKey) {
	dist := func(k ChunkKey) int {
		dx := k.CX - center.CX
		dy := k.CY - center.CY
		dz := k.CZ - center.CZ
		return dx*dx + dy*dy + dz*dz
	}
	sort.SliceStable(m.queue, func(i, j int) bool {
		di, dj := dist(m.queue[i]), dist(m.queue[j])
		if di != dj {
			return di < dj
		}
		return keyLess(m.queue[i], m.queue[j])
	})
}

func keyLess(a, b ChunkKey) bool {
	if a.CX != b.CX {
		return a.CX < b.CX
	}
	if a.CY != b.CY {
		return a.CY < b.CY
	}
	return a.CZ < b.CZ
}

// processLoadQueue drains queued loads under both the count cap and the
// wall-clock budget, always making progress on a non-empty queue. Entries for
// coordinates that were loaded or went out of range while queued are stale and
// skipped; skips do not count against the load budget.
func (m *ChunkManager) processLoadQueue(center ChunkKey) int {
	deadline := m.now().Add(m.cfg.LoadBudget)
	loaded := 0
	for len(m.queue) > 0 {
		if loaded >= m.cfg.ChunksPerTick {
			break
		}
		if loaded > 0 && m.now().After(deadline) {
			break
		}

		key := m.queue[0]
		m.queue = m.queue[1:]
		delete(m.queued, key)

		if _, ok := m.chunks[key]; ok {
			continue
		}
		if _, want := m.desired[key]; !want {
			continue
		}

		c := m.loadChunk(key)
		m.scheduleCollider(c.Key)
		loaded++

		// Boundary faces of existing neighbors may now be occluded or newly
		// exposed; defer their rebuild to the dirty drain instead of paying
		// for up to six remeshes this tick.
		for f := Face(0); f < faceCount; f++ {
			d := f.Dir()
			n := ChunkKey{key.CX + d.X, key.CY + d.Y, key.CZ + d.Z}
			if nc, ok := m.chunks[n]; ok {
				nc.MarkDirty()
				m.markDirtyQueued(n)
			}
		}
	}
	return loaded
}

// loadChunk constructs, generates and meshes a chunk, and records it active.
func (m *ChunkManager) loadChunk(key ChunkKey) *Chunk {
	c := NewChunk(key, m)
	m.gen.Generate(c)
	c.RebuildMesh(m.host)
	m.chunks[key] = c
	return c
}

func (m *ChunkManager) markDirtyQueued(key ChunkKey) {
	if _, ok := m.dirtySet[key]; ok {
		return
	}
	m.dirtySet[key] = struct{}{}
	m.dirty = append(m.dirty, key)
}

func (m *ChunkManager) drainDirty() int {
	meshed := 0
	for meshed < m.cfg.DirtyPerTick && len(m.dirty) > 0 {
		key := m.dirty[0]
		m.dirty = m.dirty[1:]
		delete(m.dirtySet, key)

		c, ok := m.chunks[key]
		if !ok || !c.Dirty() {
			continue
		}
		if c.RebuildMesh(m.host) {
			m.scheduleCollider(key)
		}
		meshed++
	}
	return meshed
}

func (m *ChunkManager) scheduleCollider(key ChunkKey) {
	m.pendingColliders = append(m.pendingColliders, key)
}

func (m *ChunkManager) drainColliders() int {
	built := 0
	for _, key := range m.pendingColliders {
		c, ok := m.chunks[key]
		if !ok {
			continue
		}
		c.BuildCollider(m.host)
		built++
	}
	m.pendingColliders = m.pendingColliders[:0]
	return built
}

func (m *ChunkManager) updateVisibility() {
	if m.cam == nil {
		return
	}
	for _, c := range m.chunks {
		c.setVisible(m.host, chunkInView(m.cam, c.Key))
	}
}
