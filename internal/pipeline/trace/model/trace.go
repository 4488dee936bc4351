package model

// SpanTiming is the minimal view of a span the duration strategies need,
// shared by the offline file pipeline and the live scrape pipeline.
type SpanTiming struct {
	Operation   string
	StartTimeNs uint64
	EndTimeNs   uint64
}

// Valid reports whether both timestamps were observed and are ordered.
func (s SpanTiming) Valid() bool {
	return s.StartTimeNs != 0 && s.EndTimeNs != 0 && s.EndTimeNs > s.StartTimeNs
}

// TraceRecord is one reconstructed transaction with absolute bounds taken
// over all of its spans.
type TraceRecord struct {
	TraceID     string `json:"trace_id"`
	StartTimeNs uint64 `json:"start_time_ns"`
	EndTimeNs   uint64 `json:"end_time_ns"`
}

func (r TraceRecord) DurationNs() uint64 {
	return r.EndTimeNs - r.StartTimeNs
}

func (r TraceRecord) DurationMs() float64 {
	return float64(r.DurationNs()) / 1e6
}

// ProtocolRecord is a dataset entry for one transaction, positioned relative
// to the first transaction observed in the same export file so that runs
// recorded at different absolute times line up on a common axis.
type ProtocolRecord struct {
	TraceID         string  `json:"trace_id"`
	RelativeTimeSec float64 `json:"relative_time_sec"`
	RelativeEndSec  float64 `json:"relative_end_sec"`
	DurationMs      float64 `json:"duration_ms"`
}
