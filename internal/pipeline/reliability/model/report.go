package model

// Report scores one protocol's reliability over a benchmark run. Rates are
// percentages of the total reconstructed transactions. FailureRate counts
// technical failures only; transactions that rolled back cleanly are a
// separate measure, and TotalFailureRate is the sum of both.
type Report struct {
	Protocol          string  `json:"protocol"`
	TotalTransactions int     `json:"total_transactions"`
	Rollbacks         int     `json:"rollbacks"`
	Failures          int     `json:"failures"`
	RollbackRate      float64 `json:"rollback_rate"`
	FailureRate       float64 `json:"failure_rate"`
	TotalFailureRate  float64 `json:"total_failure_rate"`
}
