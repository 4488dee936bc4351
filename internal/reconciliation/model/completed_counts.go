package model

// CompletedCounts maps how many completed orders each user and product took
// part in. It drives the expected-state derivation during reconciliation.
type CompletedCounts struct {
	ByUser    map[string]int
	ByProduct map[string]int
}

func NewCompletedCounts() CompletedCounts {
	return CompletedCounts{
		ByUser:    make(map[string]int),
		ByProduct: make(map[string]int),
	}
}
