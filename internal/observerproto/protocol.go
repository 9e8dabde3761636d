// Package observerproto defines the JSON messages exchanged with remote
// viewers over the observer WebSocket. The canonical shapes live in
// schemas/ as JSON Schema; the structs here must stay in sync with them.
package observerproto

// Version is the observer protocol version.
const Version = "0.1"

// Message type tags.
const (
	TypeSubscribe   = "SUBSCRIBE"
	TypeTick        = "TICK"
	TypeChunkVoxels = "CHUNK_VOXELS"
	TypeChunkEvict  = "CHUNK_EVICT"
	TypeViewpoint   = "VIEWPOINT"
	TypeAct         = "ACT"
	TypeError       = "ERROR"
)

// Base carries the fields every message has; used to dispatch on type.
type Base struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// Client -> Server. First message on the observer WS connection; may be
// re-sent to resize the streaming window.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ChunkRadius     int    `json:"chunk_radius"`
	MaxChunks       int    `json:"max_chunks"`
}

// HTTP response for GET /v1/observer/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string      `json:"protocol_version"`
	WorldID         string      `json:"world_id"`
	Tick            uint64      `json:"tick"`
	WorldParams     WorldParams `json:"world_params"`
	BlockPalette    []string    `json:"block_palette"`
}

type WorldParams struct {
	TickRateHz  int    `json:"tick_rate_hz"`
	ChunkSize   int    `json:"chunk_size"`
	Seed        int64  `json:"seed"`
	LoadRadius  int    `json:"load_radius"`
	MinHeight   int    `json:"min_height"`
	MaxHeight   int    `json:"max_height"`
	SpawnHeight int    `json:"spawn_height"`
	Spawn       [3]int `json:"spawn"`
}

// Server -> Client. Sent every tick.
type TickMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`

	Viewpoint [3]float32 `json:"viewpoint"`

	ActiveChunks int `json:"active_chunks"`
	QueueLen     int `json:"queue_len"`
	DirtyLen     int `json:"dirty_len"`
	Loaded       int `json:"loaded,omitempty"`
	Unloaded     int `json:"unloaded,omitempty"`
	Meshed       int `json:"meshed,omitempty"`
}

// Server -> Client. Full voxel contents of one 16^3 chunk.
// Blocks is base64(varint pairs of (block_id, run_len)) over the chunk's
// cells in x-fastest, then z, then y order.
type ChunkVoxelsMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	CX              int    `json:"cx"`
	CY              int    `json:"cy"`
	CZ              int    `json:"cz"`
	Blocks          string `json:"blocks"`
	Digest          string `json:"digest"`
	SolidCount      int    `json:"solid_count"`
	MeshVertices    int    `json:"mesh_vertices,omitempty"`
	MeshIndices     int    `json:"mesh_indices,omitempty"`
}

// Server -> Client. Drop a chunk from the client cache.
type ChunkEvictMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	CX              int    `json:"cx"`
	CY              int    `json:"cy"`
	CZ              int    `json:"cz"`
}

// Client -> Server. Move the world's streaming viewpoint.
type ViewpointMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Pos             [3]float32 `json:"pos"`
	Dir             [3]float32 `json:"dir"`
}

// Client -> Server. Trigger a break or place at the current look ray.
// Action is "BREAK" or "PLACE"; Block names the palette entry to place
// (PLACE only; empty means dirt).
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Action          string `json:"action"`
	Block           string `json:"block,omitempty"`
}

// Server -> Client. Terminal protocol error before close.
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
