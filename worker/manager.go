package worker

import (
	"context"
	"sync"
)

// Worker is a long-running job loop tied to a context.
type Worker interface {
	Start(ctx context.Context) error
}

// Manager starts and supervises a fixed set of workers, one goroutine
// per job type. The pool is sized to the number of schedulable job
// types, not to workload.
type Manager struct {
	workers []Worker
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

// Start runs all workers until ctx is cancelled, then waits for them
// to drain. In-flight per-item work may be lost on shutdown; committed
// items stay correct because commits are per item.
func (m *Manager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make(chan error, len(m.workers))
	for _, w := range m.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := w.Start(ctx); err != nil {
				errs <- err
			}
		}(w)
	}
	<-ctx.Done()
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
