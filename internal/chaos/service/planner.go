package service

import (
	"math/rand"
	"time"

	"github.com/matheusmosca/distributed-transactions-benchmark/internal/chaos/model"
)

// AttackPlanner produces the next attack of the schedule.
type AttackPlanner interface {
	Next() model.Attack
}

// Planner draws attacks from a seeded source so that a run can be replayed
// exactly by reusing its seed.
type Planner struct {
	plan model.Plan
	rng  *rand.Rand
}

func NewPlanner(plan model.Plan) *Planner {
	return &Planner{
		plan: plan,
		rng:  rand.New(rand.NewSource(plan.Seed)),
	}
}

// Next draws target, downtime and pause, in that order. The coordinator
// override replaces the drawn downtime without consuming an extra draw, so it
// never shifts the sequence of later attacks.
func (p *Planner) Next() model.Attack {
	target := p.plan.Targets[p.rng.Intn(len(p.plan.Targets))]
	downtime := p.drawSeconds(p.plan.MinDowntimeSec, p.plan.MaxDowntimeSec)
	pause := p.drawSeconds(p.plan.MinPauseSec, p.plan.MaxPauseSec)
	if target == p.plan.CoordinatorName {
		downtime = time.Duration(p.plan.CoordinatorDowntimeSec) * time.Second
	}
	return model.Attack{
		Target:   target,
		Downtime: downtime,
		Pause:    pause,
	}
}

func (p *Planner) drawSeconds(minSec int, maxSec int) time.Duration {
	return time.Duration(p.rng.Intn(maxSec-minSec+1)+minSec) * time.Second
}
