package model

// State identifies the phase of the scrape loop. The loop cycles through the
// states indefinitely and only stops on process shutdown.
type State string

const (
	StateIdle       State = "IDLE"
	StateScraping   State = "SCRAPING"
	StateAnalyzing  State = "ANALYZING"
	StatePublishing State = "PUBLISHING"
	StateSleeping   State = "SLEEPING"
)

// CycleReport is the complete outcome of one scrape cycle, built from a single
// consistent sample of traces. It is handed to the metrics sink in one piece
// so that a failed cycle never publishes partial numbers.
//
// SampleCount, RollbackCount and the duration statistics describe every
// analyzable trace in the fetched lookback window. NewCompleted and
// NewRollbacks only count traces seen for the first time, because consecutive
// lookback windows overlap and counters must not move twice for one trace.
// Durations are milliseconds.
type CycleReport struct {
	SampleCount   int
	RollbackCount int
	NewCompleted  int
	NewRollbacks  int
	RollbackRate  float64
	P50           float64
	P95           float64
	P99           float64
	Mean          float64
}
