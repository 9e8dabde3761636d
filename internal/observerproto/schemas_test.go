package observerproto_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Dr-Tesla/AG-minecraft-clone/internal/observerproto"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	subscribeSchema := compile("subscribe.schema.json")
	tickSchema := compile("tick.schema.json")
	voxelsSchema := compile("chunk_voxels.schema.json")
	evictSchema := compile("chunk_evict.schema.json")
	viewpointSchema := compile("viewpoint.schema.json")
	actSchema := compile("act.schema.json")
	bootstrapSchema := compile("bootstrap.schema.json")

	var sub any
	_ = json.Unmarshal([]byte(`{
	  "type":"SUBSCRIBE",
	  "protocol_version":"0.1",
	  "chunk_radius":2,
	  "max_chunks":64
	}`), &sub)
	validate(subscribeSchema, sub)

	var tick any
	_ = json.Unmarshal([]byte(`{
	  "type":"TICK",
	  "protocol_version":"0.1",
	  "tick":42,
	  "viewpoint":[0.5,21.6,0.5],
	  "active_chunks":75,
	  "queue_len":12,
	  "dirty_len":3,
	  "loaded":2,
	  "meshed":1
	}`), &tick)
	validate(tickSchema, tick)

	var voxels any
	_ = json.Unmarshal([]byte(`{
	  "type":"CHUNK_VOXELS",
	  "protocol_version":"0.1",
	  "cx":-1,"cy":0,"cz":3,
	  "blocks":"AxAA",
	  "digest":"6a09e667f3bcc908b2fb1366ea957d3e3adec17512775099da2f590b0667322a",
	  "solid_count":2048,
	  "mesh_vertices":96,
	  "mesh_indices":144
	}`), &voxels)
	validate(voxelsSchema, voxels)

	var evict any
	_ = json.Unmarshal([]byte(`{
	  "type":"CHUNK_EVICT",
	  "protocol_version":"0.1",
	  "cx":-1,"cy":0,"cz":3
	}`), &evict)
	validate(evictSchema, evict)

	var vp any
	_ = json.Unmarshal([]byte(`{
	  "type":"VIEWPOINT",
	  "protocol_version":"0.1",
	  "pos":[0.5,21.6,0.5],
	  "dir":[0,0,1]
	}`), &vp)
	validate(viewpointSchema, vp)

	var act any
	_ = json.Unmarshal([]byte(`{
	  "type":"ACT",
	  "protocol_version":"0.1",
	  "action":"PLACE",
	  "block":"STONE"
	}`), &act)
	validate(actSchema, act)

	var boot any
	_ = json.Unmarshal([]byte(`{
	  "protocol_version":"0.1",
	  "world_id":"world_1",
	  "tick":0,
	  "world_params":{
	    "tick_rate_hz":20,
	    "chunk_size":16,
	    "seed":1337,
	    "load_radius":4,
	    "min_height":5,
	    "max_height":40,
	    "spawn_height":24,
	    "spawn":[0,24,0]
	  },
	  "block_palette":["AIR","GRASS","DIRT","STONE"]
	}`), &boot)
	validate(bootstrapSchema, boot)
}

// The structs must produce JSON the schemas accept, so viewers can validate
// the live stream against schemas/ directly.
func TestSchemas_MatchStructEncoding(t *testing.T) {
	p, err := filepath.Abs(filepath.Join("..", "..", "schemas", "tick.schema.json"))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	b, err := json.Marshal(observerproto.TickMsg{
		Type:            observerproto.TypeTick,
		ProtocolVersion: observerproto.Version,
		Tick:            7,
		Viewpoint:       [3]float32{1, 2, 3},
		ActiveChunks:    27,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := s.Validate(v); err != nil {
		t.Fatalf("TickMsg encoding rejected by its schema: %v", err)
	}
}
