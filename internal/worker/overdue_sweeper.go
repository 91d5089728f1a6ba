package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OverdueMarker moves past pending sessions to incomplete
type OverdueMarker interface {
	MarkOverdueIncomplete(ctx context.Context) (int64, error)
}

// OverdueSweeper runs the overdue sweep once at start and then on every tick.
type OverdueSweeper struct {
	marker   OverdueMarker
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewOverdueSweeper creates the worker; interval defaults to one hour
func NewOverdueSweeper(marker OverdueMarker, logger *zap.Logger, interval time.Duration) *OverdueSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &OverdueSweeper{
		marker:   marker,
		log:      logger,
		interval: interval,
		timeout:  30 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background loop
func (w *OverdueSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("overdue sweeper started", zap.Duration("interval", w.interval))
}

// Stop signals the loop to exit and waits for a running sweep to finish.
// Calling Stop more than once is safe.
func (w *OverdueSweeper) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("overdue sweeper stopped")
	})
}

func (w *OverdueSweeper) run() {
	defer w.wg.Done()

	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *OverdueSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	n, err := w.marker.MarkOverdueIncomplete(ctx)
	if err != nil {
		w.log.Error("overdue sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		w.log.Info("sessions marked incomplete", zap.Int64("count", n))
	}
}
