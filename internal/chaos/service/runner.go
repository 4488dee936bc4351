package service

import (
	"context"
	"time"

	"github.com/matheusmosca/distributed-transactions-benchmark/internal/chaos/model"
	"go.uber.org/zap"
)

const restoreTimeout = 30 * time.Second

// Runner executes the attack schedule against live containers. It waits out
// the stabilization period first so the load generator reaches a steady rate
// before the first fault.
type Runner struct {
	planner       AttackPlanner
	controller    ContainerController
	targets       []string
	stabilization time.Duration
	logger        *zap.Logger
}

func NewRunner(
	planner AttackPlanner,
	controller ContainerController,
	targets []string,
	stabilization time.Duration,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		planner:       planner,
		controller:    controller,
		targets:       targets,
		stabilization: stabilization,
		logger:        logger,
	}
}

// Run attacks until ctx ends, which is either the load window closing or an
// interrupt. Every target is started again before Run returns, whatever state
// the schedule was in.
func (r *Runner) Run(ctx context.Context) []model.Window {
	defer r.restoreAll()

	r.logger.Info("Waiting for the load to stabilize", zap.Duration("stabilization", r.stabilization))
	if !r.sleep(ctx, r.stabilization) {
		return nil
	}

	var windows []model.Window
	for {
		attack := r.planner.Next()
		r.logger.Info(
			"Attacking target",
			zap.String("target", attack.Target),
			zap.Duration("downtime", attack.Downtime),
		)
		killedAt := time.Now()
		if err := r.controller.Kill(ctx, attack.Target); err != nil {
			r.logger.Error("Failed to kill target", zap.String("target", attack.Target), zap.Error(err))
		}

		if !r.sleep(ctx, attack.Downtime) {
			return windows
		}

		if err := r.controller.Start(ctx, attack.Target); err != nil {
			r.logger.Error("Failed to restart target", zap.String("target", attack.Target), zap.Error(err))
		}
		windows = append(windows, model.Window{
			Target: attack.Target,
			Start:  killedAt,
			End:    time.Now(),
		})
		r.logger.Info(
			"Restored target, pausing before next attack",
			zap.String("target", attack.Target),
			zap.Duration("pause", attack.Pause),
		)

		if !r.sleep(ctx, attack.Pause) {
			return windows
		}
	}
}

// restoreAll starts every target under a fresh context, since the run context
// is usually already cancelled by the time the schedule winds down.
func (r *Runner) restoreAll() {
	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	defer cancel()

	r.logger.Info("Restoring all targets")
	for _, target := range r.targets {
		if err := r.controller.Start(ctx, target); err != nil {
			r.logger.Error("Failed to restore target", zap.String("target", target), zap.Error(err))
		}
	}
}

// sleep waits for d unless ctx ends first, reporting whether the full wait
// elapsed.
func (r *Runner) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
