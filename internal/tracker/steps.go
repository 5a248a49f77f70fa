package tracker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	stepGuest     = "guest_analysis"
	stepHost      = "host_analysis"
	stepScoring   = "scoring"
	stepNarration = "narration"
	stepReport    = "report"
)

type step struct {
	name string
	run  func(ctx context.Context) error
}

// runSteps executes steps in order and stops at the first failure.
func (t *Tracker) runSteps(ctx context.Context, logger *zap.Logger, steps []step) (map[string]time.Duration, error) {
	elapsed := make(map[string]time.Duration, len(steps))
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return elapsed, fmt.Errorf("%s: %w", s.name, err)
		}

		started := t.now()
		err := s.run(ctx)
		took := t.now().Sub(started)
		t.metrics.ObserveStep(s.name, took)

		if err != nil {
			logger.Warn("analysis step failed", zap.String("name", s.name), zap.Duration("elapsed", took), zap.Error(err))
			return elapsed, fmt.Errorf("%s: %w", s.name, err)
		}

		logger.Info("analysis step", zap.String("name", s.name), zap.Duration("elapsed", took))
		elapsed[s.name] = took
	}
	return elapsed, nil
}
