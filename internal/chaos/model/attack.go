package model

import "time"

// Plan bounds the random draws of the attack schedule. Downtime and pause are
// drawn as whole seconds, matching the granularity the benchmark was tuned
// with.
type Plan struct {
	Seed                   int64
	Targets                []string
	MinDowntimeSec         int
	MaxDowntimeSec         int
	MinPauseSec            int
	MaxPauseSec            int
	CoordinatorName        string
	CoordinatorDowntimeSec int
}

// Attack is one planned fault: kill Target, keep it down for Downtime, then
// wait Pause before the next attack.
type Attack struct {
	Target   string
	Downtime time.Duration
	Pause    time.Duration
}

// Window is the interval during which one target was held down.
type Window struct {
	Target string    `json:"target"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Timeline is the chaos artifact for one run: every executed attack window in
// order, plus the seed needed to replay the schedule.
type Timeline struct {
	Seed      int64     `json:"seed"`
	StartedAt time.Time `json:"started_at"`
	Windows   []Window  `json:"windows"`
}
