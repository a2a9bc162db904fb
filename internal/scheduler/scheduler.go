// Package scheduler re-runs collection passes for a project on a fixed
// interval. It is a best-effort control loop, not a durable job queue; a
// process restart drops the schedule.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/aeo-monitor/internal/model"
)

// CollectFunc runs one collection pass. *collector.Collector's
// CollectForProject satisfies it.
type CollectFunc func(ctx context.Context, projectID string) ([]model.CollectionResult, error)

// Scheduler drives periodic collection.
type Scheduler struct {
	collect CollectFunc
}

// New creates a Scheduler around a collection function.
func New(collect CollectFunc) *Scheduler {
	return &Scheduler{collect: collect}
}

// Run executes one pass immediately, then one per interval until ctx is
// cancelled. Pass errors are logged and swallowed; the loop only exits on
// cancellation.
func (s *Scheduler) Run(ctx context.Context, projectID string, interval time.Duration) error {
	zap.L().Info("scheduler: starting",
		zap.String("project_id", projectID),
		zap.Duration("interval", interval),
	)

	s.runPass(ctx, projectID)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("scheduler: stopping", zap.String("project_id", projectID))
			return ctx.Err()
		case <-ticker.C:
			s.runPass(ctx, projectID)
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context, projectID string) {
	if ctx.Err() != nil {
		return
	}

	results, err := s.collect(ctx, projectID)
	if err != nil {
		zap.L().Error("scheduler: collection pass failed",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		return
	}

	summary := model.Summarize(results)
	zap.L().Info("scheduler: collection pass finished",
		zap.String("project_id", projectID),
		zap.Int("total", summary.Total),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
	)
}
