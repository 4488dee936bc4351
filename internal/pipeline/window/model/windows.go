package model

// Windows positions the chaos experiment phases on the run-relative axis,
// in seconds. The gap between PreChaosEndSec and PostChaosStartSec covers
// the first fault injection and belongs to neither window.
type Windows struct {
	RampUpSec         float64 `json:"ramp_up_sec"`
	PreChaosEndSec    float64 `json:"pre_chaos_end_sec"`
	PostChaosStartSec float64 `json:"post_chaos_start_sec"`
}

// DefaultWindows matches the benchmark harness schedule: five seconds of
// ramp-up, chaos starting shortly after the first minute.
func DefaultWindows() Windows {
	return Windows{
		RampUpSec:         5,
		PreChaosEndSec:    60,
		PostChaosStartSec: 69,
	}
}
