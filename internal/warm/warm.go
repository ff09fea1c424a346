// Package warm pre-fills the result cache on a schedule so user traffic
// lands on fresh entries instead of paying for a full aggregation.
package warm

import (
	"context"
	"time"

	"joyfeed/internal/logger"
	"joyfeed/internal/metrics"
)

// Refresher re-resolves the cached base result for one region.
type Refresher interface {
	Refresh(ctx context.Context, region string) error
}

// Warmer periodically warms the all-regions key and every region key.
type Warmer struct {
	refresher Refresher
	regions   []string
	interval  time.Duration
	stats     *metrics.Metrics
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a Warmer over the given region names. The empty region warms
// the all-regions base result.
func New(refresher Refresher, regions []string, interval time.Duration, stats *metrics.Metrics) *Warmer {
	return &Warmer{
		refresher: refresher,
		regions:   append([]string{""}, regions...),
		interval:  interval,
		stats:     stats,
	}
}

// Start launches the warm loop in its own goroutine.
func (w *Warmer) Start() {
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.done = make(chan struct{})
	go w.run()
}

// Stop cancels the loop and waits for the current cycle to finish.
func (w *Warmer) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}

func (w *Warmer) run() {
	defer close(w.done)
	logger.Info("cache warmer started", "interval", w.interval.String(), "targets", len(w.regions))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.warmAll()
	for {
		select {
		case <-ticker.C:
			w.warmAll()
		case <-w.ctx.Done():
			logger.Info("cache warmer stopping")
			return
		}
	}
}

// warmAll refreshes every target sequentially. Fetch concurrency is already
// bounded per aggregation, so one region at a time keeps the fan-out sane.
func (w *Warmer) warmAll() {
	start := time.Now()
	failed := 0
	for _, region := range w.regions {
		if w.ctx.Err() != nil {
			return
		}
		if err := w.refresher.Refresh(w.ctx, region); err != nil {
			failed++
			w.stats.SetError(err.Error())
			logger.Error("cache warm failed", "region", region, "error", err)
		}
	}
	logger.Info("cache warm cycle completed",
		"targets", len(w.regions),
		"failed", failed,
		"duration", time.Since(start).String(),
	)
}
