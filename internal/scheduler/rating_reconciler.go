// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultRunTimeout = 10 * time.Minute

// RatingRecalculator rebuilds every course rating summary from stored ratings.
type RatingRecalculator interface {
	RecalculateAll(ctx context.Context) (int, error)
}

// RatingReconciler periodically rewrites every course rating summary from the
// stored enrollment ratings.
type RatingReconciler struct {
	cron       *cron.Cron
	ratings    RatingRecalculator
	logger     *slog.Logger
	schedule   string
	runTimeout time.Duration
}

func NewRatingReconciler(ratings RatingRecalculator, schedule string, logger *slog.Logger) *RatingReconciler {
	return &RatingReconciler{
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		ratings:    ratings,
		logger:     logger,
		schedule:   schedule,
		runTimeout: defaultRunTimeout,
	}
}

// Start registers the job and starts the cron loop. An empty schedule leaves
// the reconciler disabled.
func (r *RatingReconciler) Start() error {
	if r.schedule == "" {
		r.logger.Info("Rating reconciler disabled")
		return nil
	}

	if _, err := r.cron.AddFunc(r.schedule, r.run); err != nil {
		return fmt.Errorf("invalid rating reconcile schedule %q: %w", r.schedule, err)
	}

	r.cron.Start()
	r.logger.Info("Rating reconciler started", "schedule", r.schedule)
	return nil
}

// Stop halts scheduling and waits for a running job until ctx is done.
func (r *RatingReconciler) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		r.logger.Warn("Rating reconciler stop timed out")
	}
}

// RunOnce performs a single reconciliation pass.
func (r *RatingReconciler) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()
	processed, err := r.ratings.RecalculateAll(ctx)
	if err != nil {
		r.logger.Error("Rating reconciliation finished with errors",
			"processed", processed,
			"duration", time.Since(start).String(),
			"error", err)
		return processed, err
	}

	r.logger.Info("Rating reconciliation finished",
		"processed", processed,
		"duration", time.Since(start).String())
	return processed, nil
}

func (r *RatingReconciler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.runTimeout)
	defer cancel()

	_, _ = r.RunOnce(ctx)
}
