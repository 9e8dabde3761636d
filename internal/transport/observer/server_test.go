package observer

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Dr-Tesla/AG-minecraft-clone/internal/observerproto"
	"github.com/Dr-Tesla/AG-minecraft-clone/internal/sim/world"
)

func TestWSHandler_SessionSurvivesWorldStop(t *testing.T) {
	w, err := world.New(world.WorldConfig{
		Seed:                  12345,
		TickRateHz:            100,
		LoadRadius:            1,
		VerticalRadius:        1,
		InitialRadius:         1,
		InitialVerticalRadius: 1,
		LoadBudget:            50 * time.Millisecond,
	}, world.NullHost())
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	s := NewServer(w, log.New(io.Discard, "", 0))
	srv := httptest.NewServer(s.WSHandler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	sub := observerproto.SubscribeMsg{
		Type:            observerproto.TypeSubscribe,
		ProtocolVersion: observerproto.Version,
		ChunkRadius:     1,
		MaxChunks:       8,
	}
	if err := conn.WriteJSON(sub); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("no stream traffic after subscribe: %v", err)
	}
	var base observerproto.Base
	if err := json.Unmarshal(msg, &base); err != nil {
		t.Fatalf("unmarshal %q: %v", msg, err)
	}
	if base.Type != observerproto.TypeTick && base.Type != observerproto.TypeChunkVoxels {
		t.Fatalf("first stream message type = %q", base.Type)
	}

	// Stop the world before the socket; the session must still unwind rather
	// than leave its writer parked on a channel nothing feeds anymore. The
	// deferred srv.Close surfaces a stuck handler as a test timeout.
	cancel()
	if err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(time.Second)); err != nil {
		t.Fatalf("close: %v", err)
	}
	_ = conn.Close()
}

func TestDecodeAct(t *testing.T) {
	ev, ok := decodeAct(observerproto.ActMsg{Action: "BREAK"})
	if !ok || ev.Kind != world.InteractBreak {
		t.Fatalf("BREAK: %+v ok=%v", ev, ok)
	}

	ev, ok = decodeAct(observerproto.ActMsg{Action: "PLACE", Block: "STONE"})
	if !ok || ev.Kind != world.InteractPlace || ev.Block != world.Stone {
		t.Fatalf("PLACE STONE: %+v ok=%v", ev, ok)
	}

	ev, ok = decodeAct(observerproto.ActMsg{Action: "PLACE"})
	if !ok || ev.Block != world.Air {
		t.Fatalf("PLACE without block must pass through the default: %+v", ev)
	}

	if _, ok := decodeAct(observerproto.ActMsg{Action: "PLACE", Block: "BEDROCK"}); ok {
		t.Fatalf("unknown block name must be rejected")
	}
	if _, ok := decodeAct(observerproto.ActMsg{Action: "JUMP"}); ok {
		t.Fatalf("unknown action must be rejected")
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:51234", true},
		{"[::1]:51234", true},
		{"192.168.1.5:80", false},
		{"example.com:80", false},
		{"garbage", false},
	}
	for _, tc := range cases {
		if got := isLoopbackRemote(tc.addr); got != tc.want {
			t.Fatalf("isLoopbackRemote(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}
