package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hn-gems/internal/monitor"
)

// MonitorWorker triggers hall-of-fame re-checks on a fixed interval.
type MonitorWorker struct {
	Monitor  *monitor.Monitor
	Interval time.Duration
}

func (w *MonitorWorker) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 6 * time.Hour
	}

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			err := w.Monitor.Run(ctx)
			switch {
			case err == nil, errors.Is(err, monitor.ErrMonitorInProgress):
			case errors.Is(err, context.Canceled):
			default:
				slog.Error("monitor-worker: run failed", "error", err)
			}
		}
	}
}
