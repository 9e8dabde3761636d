package world

import (
	"context"
	"time"
)

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending []InteractionEvent

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case v := <-w.viewpoints:
			if w.cam == nil {
				w.viewpoint = v.Pos
				if v.Dir.Len() > 0 {
					w.lookDir = v.Dir.Normalize()
				}
			}
		case req := <-w.obsJoin:
			w.handleObserverJoin(req)
		case id := <-w.obsLeave:
			w.handleObserverLeave(id)
		case ev := <-w.inbox:
			pending = append(pending, ev)
		case <-ticker.C:
			w.stepInternal(pending)
			pending = pending[:0]
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// StepOnce advances the world by one tick with the given events. It exists
// for deterministic tests and replay; the server uses Run.
func (w *World) StepOnce(events []InteractionEvent) (tick uint64, st UpdateStats) {
	st = w.stepInternal(events)
	return w.tick.Load(), st
}

func (w *World) stepInternal(events []InteractionEvent) UpdateStats {
	start := time.Now()
	tick := w.tick.Add(1)

	if w.cam != nil {
		w.viewpoint = w.cam.Position()
		if d := w.cam.LookDirection(); d.Len() > 0 {
			w.lookDir = d.Normalize()
		}
	}

	edits := 0
	for _, ev := range events {
		if w.applyInteraction(ev) {
			edits++
		}
	}

	st := w.mgr.Update(w.viewpoint)

	w.stepObservers(tick, st)

	w.metricsMu.Lock()
	w.metrics = WorldMetrics{
		Tick:         tick,
		ActiveChunks: st.ActiveChunks,
		QueueLen:     st.QueueLen,
		DirtyLen:     st.DirtyLen,
		Observers:    len(w.observers),
		StepMS:       float64(time.Since(start).Microseconds()) / 1000.0,
	}
	w.metricsMu.Unlock()

	if w.tickLogger != nil {
		e := TickLogEntry{
			Tick:         tick,
			ActiveChunks: st.ActiveChunks,
			QueueLen:     st.QueueLen,
			DirtyLen:     st.DirtyLen,
			Loaded:       st.Loaded,
			Unloaded:     st.Unloaded,
			Meshed:       st.Meshed,
			Colliders:    st.Colliders,
			Edits:        edits,
		}
		if tick%uint64(w.cfg.DigestEveryTicks) == 0 {
			e.Digest = w.stateDigest()
		}
		_ = w.tickLogger.WriteTick(e)
	}
	return st
}
