// Package observer serves the viewer endpoints: an HTTP bootstrap describing
// the world and a WebSocket stream of per-tick state and chunk voxel data.
// Viewers can also drive the world: VIEWPOINT moves the streaming viewpoint
// and ACT triggers break/place interactions.
package observer

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"github.com/Dr-Tesla/AG-minecraft-clone/internal/observerproto"
	"github.com/Dr-Tesla/AG-minecraft-clone/internal/sim/world"
)

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	return &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		cfg := s.world.Config()
		spawn := s.world.Spawn()
		resp := observerproto.BootstrapResponse{
			ProtocolVersion: observerproto.Version,
			WorldID:         cfg.ID,
			Tick:            s.world.CurrentTick(),
			WorldParams: observerproto.WorldParams{
				TickRateHz:  cfg.TickRateHz,
				ChunkSize:   world.ChunkSize,
				Seed:        cfg.Seed,
				LoadRadius:  cfg.LoadRadius,
				MinHeight:   cfg.MinHeight,
				MaxHeight:   cfg.MaxHeight,
				SpawnHeight: spawn.Y,
				Spawn:       [3]int{spawn.X, spawn.Y, spawn.Z},
			},
			BlockPalette: world.BlockPalette(),
		}

		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake: must send SUBSCRIBE first.
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub observerproto.SubscribeMsg
		if err := json.Unmarshal(msg, &sub); err != nil {
			closeWith(conn, websocket.ClosePolicyViolation, "bad subscribe")
			return
		}
		if sub.Type != observerproto.TypeSubscribe || sub.ProtocolVersion != observerproto.Version {
			closeWith(conn, websocket.ClosePolicyViolation, "expected SUBSCRIBE")
			return
		}

		out := make(chan []byte, 1024)
		id := s.world.ObserverJoin(out, sub)
		defer func() { s.world.ObserverLeave(id) }()
		s.log.Printf("[observer] session %d connected from %s", id, r.RemoteAddr)

		// Writer goroutine drains the world's stream onto the socket. The
		// session context is its exit path: a stopped world never closes out,
		// so the writer must not depend on a write error to unwind.
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		writeDone := make(chan struct{})
		go func() {
			defer close(writeDone)
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						return
					}
				}
			}
		}()

		s.readLoop(conn, &id, out)
		cancel()

		closeWith(conn, websocket.CloseNormalClosure, "bye")
		s.log.Printf("[observer] session %d disconnected", id)
		<-writeDone
	}
}

// readLoop dispatches client messages until the connection drops. A repeat
// SUBSCRIBE resizes the window by rejoining, which also restarts the chunk
// stream from scratch.
func (s *Server) readLoop(conn *websocket.Conn, id *uint64, out chan []byte) {
	for {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var base observerproto.Base
		if err := json.Unmarshal(msg, &base); err != nil {
			continue
		}
		if base.ProtocolVersion != observerproto.Version {
			continue
		}
		switch base.Type {
		case observerproto.TypeSubscribe:
			var sub observerproto.SubscribeMsg
			if err := json.Unmarshal(msg, &sub); err != nil {
				continue
			}
			s.world.ObserverLeave(*id)
			*id = s.world.ObserverJoin(out, sub)
		case observerproto.TypeViewpoint:
			var vp observerproto.ViewpointMsg
			if err := json.Unmarshal(msg, &vp); err != nil {
				continue
			}
			s.world.SubmitViewpoint(world.ViewpointUpdate{
				Pos: mgl32.Vec3{vp.Pos[0], vp.Pos[1], vp.Pos[2]},
				Dir: mgl32.Vec3{vp.Dir[0], vp.Dir[1], vp.Dir[2]},
			})
		case observerproto.TypeAct:
			var act observerproto.ActMsg
			if err := json.Unmarshal(msg, &act); err != nil {
				continue
			}
			ev, ok := decodeAct(act)
			if !ok {
				continue
			}
			s.world.SubmitInteraction(ev)
		}
	}
}

func decodeAct(act observerproto.ActMsg) (world.InteractionEvent, bool) {
	switch act.Action {
	case "BREAK":
		return world.InteractionEvent{Kind: world.InteractBreak}, true
	case "PLACE":
		ev := world.InteractionEvent{Kind: world.InteractPlace}
		if act.Block != "" {
			bt, ok := world.BlockTypeByName(act.Block)
			if !ok {
				return world.InteractionEvent{}, false
			}
			ev.Block = bt
		}
		return ev, true
	}
	return world.InteractionEvent{}, false
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
