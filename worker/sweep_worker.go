package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hn-gems/internal/sweep"
)

// SweepWorker triggers ingestion sweeps on a fixed interval. Overlap
// is handled inside the sweeper's single-flight guard.
type SweepWorker struct {
	Sweeper       *sweep.Sweeper
	Interval      time.Duration
	WindowMinutes int
}

func (w *SweepWorker) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 5 * time.Minute
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SweepWorker) runOnce(ctx context.Context) {
	err := w.Sweeper.Run(ctx, w.WindowMinutes)
	switch {
	case err == nil, errors.Is(err, sweep.ErrSweepInProgress):
	case errors.Is(err, context.Canceled):
	default:
		slog.Error("sweep-worker: run failed", "error", err)
	}
}
