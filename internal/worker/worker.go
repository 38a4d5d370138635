// Package worker runs the periodic auto-reject sweep. Expiry is also
// evaluated lazily on every active-list read; the sweep keeps orders from
// sitting visibly pending when nobody is reading.
package worker

import (
	"context"
	"time"

	"orderrelay/internal/services"

	"github.com/sirupsen/logrus"
)

type Worker struct {
	Lifecycle *services.LifecycleService
	Interval  time.Duration
	Log       *logrus.Logger
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		if err := w.SweepOnce(ctx); err != nil {
			w.Log.WithError(err).Error("sweep error")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) SweepOnce(ctx context.Context) error {
	rejected, err := w.Lifecycle.SweepExpired(ctx)
	if err != nil {
		return err
	}
	if rejected > 0 {
		w.Log.WithField("rejected", rejected).Info("expired orders auto-rejected")
	}
	return nil
}
