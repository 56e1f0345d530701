package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"cowork-booking/internal/pkg/config"
	"cowork-booking/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// Scheduler ticks the reconciler on a fixed interval. SkipIfStillRunning
// keeps passes from overlapping when one runs longer than the interval.
type Scheduler struct {
	cron *cron.Cron
}

func New(reconciler *Reconciler, cfg config.BookingConfig) (*Scheduler, error) {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
		cron.Recover(cron.DefaultLogger),
	))

	spec := fmt.Sprintf("@every %s", cfg.ReconcileInterval)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*cfg.ReconcileInterval)
		defer cancel()
		reconciler.Pass(ctx)
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to register reconcile job")
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("reconciliation scheduler started")
}

// Stop waits for a running pass to finish before returning.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("reconciliation scheduler stopped")
}
