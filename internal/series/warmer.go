package series

import (
	"context"
	"log/slog"
	"time"
)

// Warmer refreshes every widget series on a periodic interval so dashboards
// load from the cache.
type Warmer struct {
	interval time.Duration
	workers  int
	service  *Service
}

// NewWarmer creates a warmer running up to workers computations at once.
func NewWarmer(service *Service, interval time.Duration, workers int) *Warmer {
	if workers <= 0 {
		workers = 1
	}
	return &Warmer{
		interval: interval,
		workers:  workers,
		service:  service,
	}
}

// Start warms once, then on every tick until ctx is cancelled.
func (w *Warmer) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("[Warmer] Starting series warmer",
		"interval", w.interval,
		"workers", w.workers,
	)

	w.warm(ctx)

	for {
		select {
		case <-ticker.C:
			w.warm(ctx)
		case <-ctx.Done():
			slog.Info("[Warmer] Stopping (context cancelled)")
			return nil
		}
	}
}

func (w *Warmer) warm(ctx context.Context) {
	start := time.Now()
	warmed, failed, err := w.service.Warm(ctx, w.workers)
	if err != nil {
		slog.Error("[Warmer] Warm run failed", "error", err)
		return
	}
	slog.Info("[Warmer] Warm run complete",
		"warmed", warmed,
		"failed", failed,
		"duration", time.Since(start),
	)
}
