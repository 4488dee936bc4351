package service

import (
	"testing"
	"time"

	"github.com/matheusmosca/distributed-transactions-benchmark/internal/chaos/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var logger, _ = zap.NewDevelopment()

func TestPlanner_Next(t *testing.T) {
	t.Run("should replay the same schedule for the same seed", func(t *testing.T) {
		first := NewPlanner(benchmarkPlan())
		second := NewPlanner(benchmarkPlan())

		for i := 0; i < 20; i++ {
			assert.Equal(t, first.Next(), second.Next())
		}
	})

	t.Run("should keep draws inside the configured bounds", func(t *testing.T) {
		plan := benchmarkPlan()
		planner := NewPlanner(plan)

		for i := 0; i < 100; i++ {
			attack := planner.Next()
			assert.Contains(t, plan.Targets, attack.Target)
			assert.GreaterOrEqual(t, attack.Pause, 5*time.Second)
			assert.LessOrEqual(t, attack.Pause, 10*time.Second)
			if attack.Target == plan.CoordinatorName {
				assert.Equal(t, time.Second, attack.Downtime)
			} else {
				assert.GreaterOrEqual(t, attack.Downtime, 2*time.Second)
				assert.LessOrEqual(t, attack.Downtime, 8*time.Second)
			}
		}
	})

	t.Run("should override the coordinator downtime without shifting the sequence", func(t *testing.T) {
		overridden := NewPlanner(benchmarkPlan())
		plain := benchmarkPlan()
		plain.CoordinatorName = ""
		unmodified := NewPlanner(plain)

		for i := 0; i < 50; i++ {
			withOverride := overridden.Next()
			withoutOverride := unmodified.Next()
			assert.Equal(t, withoutOverride.Target, withOverride.Target)
			assert.Equal(t, withoutOverride.Pause, withOverride.Pause)
			if withOverride.Target != "dtm" {
				assert.Equal(t, withoutOverride.Downtime, withOverride.Downtime)
			} else {
				assert.Equal(t, time.Second, withOverride.Downtime)
			}
		}
	})

	t.Run("should spread attacks over every target", func(t *testing.T) {
		planner := NewPlanner(benchmarkPlan())
		attacked := make(map[string]bool)
		for i := 0; i < 50; i++ {
			attacked[planner.Next().Target] = true
		}
		assert.Len(t, attacked, 3)
	})
}

func benchmarkPlan() model.Plan {
	return model.Plan{
		Seed:                   44,
		Targets:                []string{"dtm", "inventory_service", "payments_service"},
		MinDowntimeSec:         2,
		MaxDowntimeSec:         8,
		MinPauseSec:            5,
		MaxPauseSec:            10,
		CoordinatorName:        "dtm",
		CoordinatorDowntimeSec: 1,
	}
}
