package world

import (
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/Dr-Tesla/AG-minecraft-clone/internal/observerproto"
	"github.com/Dr-Tesla/AG-minecraft-clone/internal/sim/encoding"
)

// Full chunk payloads sent per observer per tick. Chunks beyond the budget
// catch up on later ticks; the digest map makes resends cheap to detect.
const observerMaxChunksPerTick = 4

type observerJoinReq struct {
	out  chan []byte
	cfg  observerproto.SubscribeMsg
	resp chan uint64
}

type observerClient struct {
	id        uint64
	out       chan []byte
	radius    int
	maxChunks int

	// Digest of the last payload sent per chunk; unchanged chunks are not
	// resent.
	sent map[ChunkKey][32]byte
}

// ObserverJoin registers a viewer stream and returns its id. Must be called
// while Run is active.
func (w *World) ObserverJoin(out chan []byte, cfg observerproto.SubscribeMsg) uint64 {
	resp := make(chan uint64, 1)
	w.obsJoin <- observerJoinReq{out: out, cfg: cfg, resp: resp}
	return <-resp
}

func (w *World) ObserverLeave(id uint64) {
	select {
	case w.obsLeave <- id:
	case <-w.stop:
	}
}

func (w *World) handleObserverJoin(req observerJoinReq) {
	id := w.nextObsID.Add(1)
	c := &observerClient{
		id:        id,
		out:       req.out,
		radius:    req.cfg.ChunkRadius,
		maxChunks: req.cfg.MaxChunks,
		sent:      make(map[ChunkKey][32]byte),
	}
	if c.radius <= 0 {
		c.radius = 2
	}
	if c.radius > 8 {
		c.radius = 8
	}
	if c.maxChunks <= 0 {
		c.maxChunks = 64
	}
	if c.maxChunks > 256 {
		c.maxChunks = 256
	}
	w.observers[id] = c
	req.resp <- id
}

func (w *World) handleObserverLeave(id uint64) {
	delete(w.observers, id)
}

func (w *World) stepObservers(tick uint64, st UpdateStats) {
	if len(w.observers) == 0 {
		return
	}

	tm := observerproto.TickMsg{
		Type:            observerproto.TypeTick,
		ProtocolVersion: observerproto.Version,
		Tick:            tick,
		Viewpoint:       [3]float32{w.viewpoint.X(), w.viewpoint.Y(), w.viewpoint.Z()},
		ActiveChunks:    st.ActiveChunks,
		QueueLen:        st.QueueLen,
		DirtyLen:        st.DirtyLen,
		Loaded:          st.Loaded,
		Unloaded:        st.Unloaded,
		Meshed:          st.Meshed,
	}
	tb, err := json.Marshal(tm)
	if err != nil {
		return
	}

	center := ChunkKeyFor(BlockAtPoint(w.viewpoint))
	for _, c := range w.observers {
		sendLatest(c.out, tb)
		w.streamChunksToObserver(c, center)
	}
}

func (w *World) streamChunksToObserver(c *observerClient, center ChunkKey) {
	want := w.wantedObserverChunks(c, center)
	wantSet := make(map[ChunkKey]struct{}, len(want))
	for _, k := range want {
		wantSet[k] = struct{}{}
	}

	budget := observerMaxChunksPerTick
	for _, k := range want {
		if budget == 0 {
			break
		}
		ch := w.mgr.Chunk(k)
		if ch == nil {
			continue
		}
		d := ch.Digest()
		if prev, ok := c.sent[k]; ok && prev == d {
			continue
		}
		if !trySend(c.out, marshalChunkVoxels(ch, d)) {
			// Channel full; stop spending CPU on this client this tick.
			break
		}
		c.sent[k] = d
		budget--
	}

	// Evict chunks the viewer holds that are unloaded or out of its window.
	for k := range c.sent {
		if _, ok := wantSet[k]; ok && w.mgr.Chunk(k) != nil {
			continue
		}
		msg := observerproto.ChunkEvictMsg{
			Type:            observerproto.TypeChunkEvict,
			ProtocolVersion: observerproto.Version,
			CX:              k.CX, CY: k.CY, CZ: k.CZ,
		}
		if b, err := json.Marshal(msg); err == nil {
			_ = trySend(c.out, b)
		}
		delete(c.sent, k)
	}
}

// wantedObserverChunks lists active chunks within the client's window,
// nearest-first, capped at its max chunk count.
func (w *World) wantedObserverChunks(c *observerClient, center ChunkKey) []ChunkKey {
	var want []ChunkKey
	for _, k := range w.mgr.ActiveKeys() {
		if absInt(k.CX-center.CX) > c.radius ||
			absInt(k.CY-center.CY) > c.radius ||
			absInt(k.CZ-center.CZ) > c.radius {
			continue
		}
		want = append(want, k)
	}
	dist := func(k ChunkKey) int {
		dx, dy, dz := k.CX-center.CX, k.CY-center.CY, k.CZ-center.CZ
		return dx*dx + dy*dy + dz*dz
	}
	sort.SliceStable(want, func(i, j int) bool {
		di, dj := dist(want[i]), dist(want[j])
		if di != dj {
			return di < dj
		}
		return keyLess(want[i], want[j])
	})
	if len(want) > c.maxChunks {
		want = want[:c.maxChunks]
	}
	return want
}

func marshalChunkVoxels(c *Chunk, digest [32]byte) []byte {
	blocks := c.Blocks()
	ids := make([]uint16, len(blocks))
	for i, b := range blocks {
		ids[i] = uint16(b)
	}
	msg := observerproto.ChunkVoxelsMsg{
		Type:            observerproto.TypeChunkVoxels,
		ProtocolVersion: observerproto.Version,
		CX:              c.Key.CX, CY: c.Key.CY, CZ: c.Key.CZ,
		Blocks:     encoding.EncodeRLE(ids),
		Digest:     hex.EncodeToString(digest[:]),
		SolidCount: c.SolidCount(),
	}
	if mesh := c.Mesh(); mesh != nil {
		msg.MeshVertices = len(mesh.Vertices)
		msg.MeshIndices = len(mesh.Indices)
	}
	b, _ := json.Marshal(msg)
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func trySend(ch chan []byte, b []byte) bool {
	select {
	case ch <- b:
		return true
	default:
		return false
	}
}

// sendLatest prefers fresh data: if the channel is full, one stale message is
// dropped to make room.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
