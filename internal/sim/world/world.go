package world

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Dr-Tesla/AG-minecraft-clone/internal/sim/tuning"
)

type WorldConfig struct {
	ID         string
	TickRateHz int
	ChunkSize  int

	Seed           int64
	NoiseAlpha     float64
	NoiseBeta      float64
	NoiseOctaves   int
	NoiseFrequency float64
	MinHeight      int
	MaxHeight      int
	DirtDepth      int

	LoadRadius            int
	VerticalRadius        int
	InitialRadius         int
	InitialVerticalRadius int
	ChunksPerTick         int
	LoadBudget            time.Duration
	DirtyPerTick          int

	ReachDistance float32
	RaycastStep   float32
	EyeHeight     float32

	DigestEveryTicks int
}

// ConfigFromTuning maps the yaml tuning onto a world config.
func ConfigFromTuning(id string, t tuning.Tuning) WorldConfig {
	return WorldConfig{
		ID:                    id,
		TickRateHz:            t.TickRateHz,
		ChunkSize:             t.ChunkSize,
		Seed:                  t.Seed,
		NoiseAlpha:            t.NoiseAlpha,
		NoiseBeta:             t.NoiseBeta,
		NoiseOctaves:          t.NoiseOctaves,
		NoiseFrequency:        t.NoiseFrequency,
		MinHeight:             t.MinHeight,
		MaxHeight:             t.MaxHeight,
		DirtDepth:             t.DirtDepth,
		LoadRadius:            t.LoadRadius,
		VerticalRadius:        t.VerticalRadius,
		InitialRadius:         t.InitialRadius,
		InitialVerticalRadius: t.InitialVerticalRadius,
		ChunksPerTick:         t.ChunksPerTick,
		LoadBudget:            time.Duration(t.LoadBudgetMs) * time.Millisecond,
		DirtyPerTick:          t.DirtyPerTick,
		ReachDistance:         float32(t.ReachDistance),
		RaycastStep:           float32(t.RaycastStep),
		EyeHeight:             float32(t.EyeHeight),
		DigestEveryTicks:      t.DigestEveryTicks,
	}
}

func (c *WorldConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = "world_1"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 20
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = ChunkSize
	}
	if c.Seed == 0 {
		c.Seed = 1337
	}
	if c.NoiseAlpha <= 0 {
		c.NoiseAlpha = 2.0
	}
	if c.NoiseBeta <= 0 {
		c.NoiseBeta = 2.0
	}
	if c.NoiseOctaves <= 0 {
		c.NoiseOctaves = 3
	}
	if c.NoiseFrequency <= 0 {
		c.NoiseFrequency = 0.03
	}
	if c.MinHeight <= 0 {
		c.MinHeight = 5
	}
	if c.MaxHeight <= 0 {
		c.MaxHeight = 40
	}
	if c.DirtDepth <= 0 {
		c.DirtDepth = 3
	}
	if c.ReachDistance <= 0 {
		c.ReachDistance = 6.0
	}
	if c.RaycastStep <= 0 {
		c.RaycastStep = 0.1
	}
	if c.EyeHeight <= 0 {
		c.EyeHeight = 1.6
	}
	if c.DigestEveryTicks <= 0 {
		c.DigestEveryTicks = 60
	}
}

type InteractionKind int

const (
	InteractBreak InteractionKind = iota
	InteractPlace
)

// InteractionEvent is a discrete break/place trigger from the host. The
// target block is resolved against the camera ray at apply time, not at
// delivery time. Block selects the type to place (ignored for breaks);
// zero-valued Block places DIRT.
type InteractionEvent struct {
	Kind  InteractionKind
	Block BlockType
}

// ViewpointUpdate moves the streaming/interaction viewpoint when no in-process
// camera capability is attached (e.g. a remote viewer driving the world).
type ViewpointUpdate struct {
	Pos mgl32.Vec3
	Dir mgl32.Vec3
}

// TickLogger receives one entry per tick; implemented by persistence/log.
type TickLogger interface {
	WriteTick(e TickLogEntry) error
}

type TickLogEntry struct {
	Tick         uint64 `json:"tick"`
	ActiveChunks int    `json:"active_chunks"`
	QueueLen     int    `json:"queue_len"`
	DirtyLen     int    `json:"dirty_len"`
	Loaded       int    `json:"loaded,omitempty"`
	Unloaded     int    `json:"unloaded,omitempty"`
	Meshed       int    `json:"meshed,omitempty"`
	Colliders    int    `json:"colliders,omitempty"`
	Edits        int    `json:"edits,omitempty"`
	Digest       string `json:"digest,omitempty"`
}

// World drives the engine: it owns the chunk manager and generator, applies
// interaction events, and streams state to observers. All world state is
// accessed only from the loop goroutine (or from StepOnce in tests).
type World struct {
	cfg  WorldConfig
	gen  *Generator
	mgr  *ChunkManager
	host Host
	cam  Camera

	tick atomic.Uint64

	viewpoint mgl32.Vec3
	lookDir   mgl32.Vec3

	inbox      chan InteractionEvent
	viewpoints chan ViewpointUpdate
	obsJoin    chan observerJoinReq
	obsLeave   chan uint64
	stop       chan struct{}

	observers  map[uint64]*observerClient
	nextObsID  atomic.Uint64
	tickLogger TickLogger

	metricsMu sync.Mutex
	metrics   WorldMetrics
}

// WorldMetrics is a point-in-time snapshot for the /metrics endpoint. Safe to
// read from any goroutine.
type WorldMetrics struct {
	Tick         uint64  `json:"tick"`
	ActiveChunks int     `json:"active_chunks"`
	QueueLen     int     `json:"queue_len"`
	DirtyLen     int     `json:"dirty_len"`
	Observers    int     `json:"observers"`
	StepMS       float64 `json:"step_ms"`
}

func (w *World) Metrics() WorldMetrics {
	w.metricsMu.Lock()
	defer w.metricsMu.Unlock()
	return w.metrics
}

func New(cfg WorldConfig, host Host) (*World, error) {
	cfg.applyDefaults()
	if cfg.ChunkSize != ChunkSize {
		return nil, fmt.Errorf("chunk_size %d unsupported: engine tables assume %d", cfg.ChunkSize, ChunkSize)
	}
	if cfg.RaycastStep > 1 {
		return nil, fmt.Errorf("raycast_step %v > 1 can tunnel through blocks", cfg.RaycastStep)
	}
	if cfg.MaxHeight <= cfg.MinHeight {
		return nil, fmt.Errorf("max_height %d must exceed min_height %d", cfg.MaxHeight, cfg.MinHeight)
	}

	gen := NewGenerator(GeneratorConfig{
		Seed:           cfg.Seed,
		NoiseAlpha:     cfg.NoiseAlpha,
		NoiseBeta:      cfg.NoiseBeta,
		NoiseOctaves:   cfg.NoiseOctaves,
		NoiseFrequency: cfg.NoiseFrequency,
		MinHeight:      cfg.MinHeight,
		MaxHeight:      cfg.MaxHeight,
		DirtDepth:      cfg.DirtDepth,
	})
	mgr := NewChunkManager(ManagerConfig{
		LoadRadius:            cfg.LoadRadius,
		VerticalRadius:        cfg.VerticalRadius,
		InitialRadius:         cfg.InitialRadius,
		InitialVerticalRadius: cfg.InitialVerticalRadius,
		ChunksPerTick:         cfg.ChunksPerTick,
		LoadBudget:            cfg.LoadBudget,
		DirtyPerTick:          cfg.DirtyPerTick,
		RaycastStep:           cfg.RaycastStep,
	}, gen, host)

	w := &World{
		cfg:        cfg,
		gen:        gen,
		mgr:        mgr,
		host:       host,
		inbox:      make(chan InteractionEvent, 64),
		viewpoints: make(chan ViewpointUpdate, 16),
		obsJoin:    make(chan observerJoinReq, 4),
		obsLeave:   make(chan uint64, 4),
		stop:       make(chan struct{}),
		observers:  make(map[uint64]*observerClient),
	}

	// Solid ground must exist before any dependent system runs a tick.
	spawn := w.Spawn()
	mgr.GenerateInitial(spawn)
	w.viewpoint = spawn.Vec3().Add(mgl32.Vec3{0.5, cfg.EyeHeight, 0.5})
	w.lookDir = mgl32.Vec3{0, 0, 1}
	return w, nil
}

// Spawn is the world origin column's safe standing position.
func (w *World) Spawn() Vec3i {
	return Vec3i{X: 0, Y: w.gen.SpawnHeight(0, 0), Z: 0}
}

func (w *World) Config() WorldConfig { return w.cfg }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

// Manager exposes the chunk manager for in-process hosts (single-threaded
// embedding); remote hosts go through the channel APIs instead.
func (w *World) Manager() *ChunkManager { return w.mgr }

// SetCamera attaches an in-process camera capability. When set, it overrides
// viewpoint updates sent over the channel API.
func (w *World) SetCamera(cam Camera) {
	w.cam = cam
	w.mgr.SetCamera(cam)
}

func (w *World) SetTickLogger(l TickLogger) { w.tickLogger = l }

// SubmitInteraction queues a break/place event for the next tick. Drops the
// event if the inbox is full; interaction is best-effort by design.
func (w *World) SubmitInteraction(ev InteractionEvent) {
	select {
	case w.inbox <- ev:
	default:
	}
}

// SubmitViewpoint queues a viewpoint move for the next tick.
func (w *World) SubmitViewpoint(v ViewpointUpdate) {
	select {
	case w.viewpoints <- v:
	default:
	}
}

func (w *World) applyInteraction(ev InteractionEvent) bool {
	r := w.mgr.Raycast(w.viewpoint, w.lookDir, w.cfg.ReachDistance)
	if !r.Hit {
		return false
	}
	switch ev.Kind {
	case InteractBreak:
		return w.mgr.SetBlockAt(r.Pos, Air)
	case InteractPlace:
		t := ev.Block
		if t == Air {
			t = Dirt
		}
		if w.insideViewer(r.Prev) {
			return false
		}
		return w.mgr.SetBlockAt(r.Prev, t)
	}
	return false
}

// insideViewer rejects placements into the two cells the viewer's body
// occupies (feet and head), derived from the eye position.
func (w *World) insideViewer(p Vec3i) bool {
	feet := BlockAtPoint(w.viewpoint.Sub(mgl32.Vec3{0, w.cfg.EyeHeight, 0}))
	return p == feet || p == feet.Add(Vec3i{0, 1, 0})
}

// stateDigest hashes the digests of all active chunks in key order.
func (w *World) stateDigest() string {
	h := sha256.New()
	for _, k := range w.mgr.ActiveKeys() {
		d := w.mgr.Chunk(k).Digest()
		h.Write(d[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
