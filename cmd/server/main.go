// The server runs a headless voxel world and exposes it over HTTP: a
// bootstrap endpoint describing the world, a WebSocket stream of chunk voxel
// data for viewers, health and metrics endpoints, and optional pprof.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	persistlog "github.com/Dr-Tesla/AG-minecraft-clone/internal/persistence/log"
	"github.com/Dr-Tesla/AG-minecraft-clone/internal/sim/tuning"
	"github.com/Dr-Tesla/AG-minecraft-clone/internal/sim/world"
	"github.com/Dr-Tesla/AG-minecraft-clone/internal/transport/observer"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		worldID    = flag.String("world", "world_1", "world id")
		seed       = flag.Int64("seed", 0, "world seed (0: use tuning value)")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		noTickLog  = flag.Bool("disable_tick_log", false, "disable the compressed per-tick log")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Default()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	cfg := world.ConfigFromTuning(*worldID, tune)
	if *seed != 0 {
		cfg.Seed = *seed
	}

	// Headless: geometry lands in an in-memory host so viewers can read mesh
	// sizes, and nothing is rendered server-side.
	host := world.NewMemoryHost()
	w, err := world.New(cfg, host.Host())
	if err != nil {
		logger.Fatalf("world: %v", err)
	}
	logger.Printf("world %s seed=%d spawn=%v chunks=%d", *worldID, cfg.Seed, w.Spawn(), w.Manager().ActiveCount())

	ctx, cancel := signalContext()
	defer cancel()

	if !*noTickLog {
		worldDir := filepath.Join(*dataDir, "worlds", *worldID)
		_ = os.MkdirAll(worldDir, 0o755)
		tickLog := persistlog.NewTickLogger(worldDir)
		defer tickLog.Close()
		w.SetTickLogger(tickLog)
	}

	go func() {
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		m := w.Metrics()
		tick := m.Tick
		if tick == 0 {
			tick = w.CurrentTick()
		}

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP voxelworld_tick Current world tick.\n")
		fmt.Fprintf(rw, "# TYPE voxelworld_tick gauge\n")
		fmt.Fprintf(rw, "voxelworld_tick{world=%q} %d\n", *worldID, tick)

		fmt.Fprintf(rw, "# HELP voxelworld_active_chunks Loaded chunk count.\n")
		fmt.Fprintf(rw, "# TYPE voxelworld_active_chunks gauge\n")
		fmt.Fprintf(rw, "voxelworld_active_chunks{world=%q} %d\n", *worldID, m.ActiveChunks)

		fmt.Fprintf(rw, "# HELP voxelworld_queue_len Pending chunk loads.\n")
		fmt.Fprintf(rw, "# TYPE voxelworld_queue_len gauge\n")
		fmt.Fprintf(rw, "voxelworld_queue_len{world=%q} %d\n", *worldID, m.QueueLen)

		fmt.Fprintf(rw, "# HELP voxelworld_dirty_len Chunks awaiting remesh.\n")
		fmt.Fprintf(rw, "# TYPE voxelworld_dirty_len gauge\n")
		fmt.Fprintf(rw, "voxelworld_dirty_len{world=%q} %d\n", *worldID, m.DirtyLen)

		fmt.Fprintf(rw, "# HELP voxelworld_observers Connected viewer sessions.\n")
		fmt.Fprintf(rw, "# TYPE voxelworld_observers gauge\n")
		fmt.Fprintf(rw, "voxelworld_observers{world=%q} %d\n", *worldID, m.Observers)

		fmt.Fprintf(rw, "# HELP voxelworld_step_ms Last tick step duration in milliseconds.\n")
		fmt.Fprintf(rw, "# TYPE voxelworld_step_ms gauge\n")
		fmt.Fprintf(rw, "voxelworld_step_ms{world=%q} %.3f\n", *worldID, m.StepMS)
	})
	mux.HandleFunc("/v1/state", func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		resp := struct {
			WorldID string             `json:"world_id"`
			Tick    uint64             `json:"tick"`
			Metrics world.WorldMetrics `json:"metrics"`
		}{
			WorldID: *worldID,
			Tick:    w.CurrentTick(),
			Metrics: w.Metrics(),
		}
		_ = json.NewEncoder(rw).Encode(resp)
	})

	obsSrv := observer.NewServer(w, logger)
	mux.HandleFunc("/v1/observer/bootstrap", obsSrv.BootstrapHandler())
	mux.HandleFunc("/v1/observer/ws", obsSrv.WSHandler())

	if envBool("VW_ENABLE_PPROF_HTTP", false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func envBool(name string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
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
