package service

import (
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/model"
	"strings"
)

// DurationStrategy turns the spans of one transaction into a single duration
// measurement in nanoseconds. The boolean is false when the spans carry no
// usable measurement and the trace should be excluded.
type DurationStrategy interface {
	Name() string
	TraceDuration(spans []model.SpanTiming) (uint64, bool)
}

// WallClockExtent measures a transaction as the wall-clock distance between
// the earliest span start and the latest span end. It reflects end-to-end
// latency including queueing between services.
type WallClockExtent struct{}

func (WallClockExtent) Name() string {
	return "wall_clock_extent"
}

func (e WallClockExtent) TraceDuration(spans []model.SpanTiming) (uint64, bool) {
	start, end, ok := e.Extent(spans)
	if !ok {
		return 0, false
	}
	return end - start, true
}

// Extent returns the trace bounds over all spans with observed timestamps.
// Spans missing either timestamp are skipped without invalidating the trace,
// and a trace whose bounds never widen past zero is rejected.
func (WallClockExtent) Extent(spans []model.SpanTiming) (start uint64, end uint64, ok bool) {
	for _, s := range spans {
		if s.StartTimeNs == 0 || s.EndTimeNs == 0 {
			continue
		}
		if start == 0 || s.StartTimeNs < start {
			start = s.StartTimeNs
		}
		if s.EndTimeNs > end {
			end = s.EndTimeNs
		}
	}
	if start == 0 || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// ActorWorkSum measures a transaction as the summed duration of the spans
// whose operation name carries the action marker, counting time actually
// spent executing transaction steps rather than waiting between them.
type ActorWorkSum struct {
	ActionPrefix string
}

func (ActorWorkSum) Name() string {
	return "actor_work_sum"
}

func (a ActorWorkSum) TraceDuration(spans []model.SpanTiming) (uint64, bool) {
	var total uint64
	qualifying := 0
	for _, s := range spans {
		if !strings.HasPrefix(s.Operation, a.ActionPrefix) {
			continue
		}
		qualifying++
		if s.EndTimeNs > s.StartTimeNs {
			total += s.EndTimeNs - s.StartTimeNs
		}
	}
	if qualifying == 0 {
		return 0, false
	}
	return total, true
}
