package watch

import (
	"context"
	"log"
	"time"

	"github.com/datdenkikniet/Peroxidecast/internal/config"
)

// Sink receives the full panel after each successful pass. The redis
// mirror and the snapshot publisher both plug in here.
type Sink interface {
	Publish(ctx context.Context, blocks []DisplayBlock) error
}

// Watcher drives the poll/reconcile cycle. A failed fetch keeps the
// previous panel state; only a successful fetch reshapes it.
type Watcher struct {
	cfg      *config.Config
	poller   *Poller
	panel    *Panel
	recorder *Recorder
	sinks    []Sink
}

func NewWatcher(cfg *config.Config, poller *Poller, panel *Panel, recorder *Recorder, sinks ...Sink) *Watcher {
	return &Watcher{cfg: cfg, poller: poller, panel: panel, recorder: recorder, sinks: sinks}
}

func (w *Watcher) Run(ctx context.Context) {
	interval := time.Duration(w.cfg.Watcher.PollingInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("👀 Watcher started on '%s' (every %s)", w.cfg.Watcher.ServerURL, interval)
	w.pass(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("👋 Watcher stopped")
			return
		case <-ticker.C:
			w.pass(ctx)
		}
	}
}

func (w *Watcher) pass(ctx context.Context) {
	records, err := w.poller.Fetch(ctx)
	if err != nil {
		pollsTotal.WithLabelValues("error").Inc()
		log.Printf("Error fetching mount_info: %v (keeping previous state)", err)
		return
	}
	pollsTotal.WithLabelValues("ok").Inc()

	changes := w.panel.Reconcile(records)
	blocksGauge.Set(float64(w.panel.Len()))
	liveBlocksGauge.Set(float64(w.panel.Live()))

	for _, name := range changes.Created {
		changesTotal.WithLabelValues("created").Inc()
		log.Printf("🆕 Mount appeared: %s", name)
	}
	for _, name := range changes.Removed {
		changesTotal.WithLabelValues("removed").Inc()
		log.Printf("🗑️ Mount removed: %s", name)
	}
	for _, sc := range changes.Songs {
		changesTotal.WithLabelValues("song").Inc()
		log.Printf("🎵 %s: %s", sc.Mount, sc.Song)
	}
	for _, oc := range changes.OnAir {
		changesTotal.WithLabelValues("on_air").Inc()
		if oc.Live {
			log.Printf("🔴 %s went live", oc.Mount)
		} else {
			log.Printf("⚪ %s went off air", oc.Mount)
		}
	}

	if w.recorder != nil {
		if err := w.recorder.Record(changes); err != nil {
			log.Printf("Error recording history: %v", err)
		}
	}

	if len(w.sinks) > 0 {
		blocks := w.panel.Blocks()
		for _, sink := range w.sinks {
			if err := sink.Publish(ctx, blocks); err != nil {
				log.Printf("Error publishing status: %v", err)
			}
		}
	}
}
