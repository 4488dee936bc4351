package model

// Transaction counter keys as they appear in consistency snapshots. The map
// form is kept so consolidation can merge snapshots key-wise without caring
// which DTM statuses a given run produced.
const (
	KeyTotal     = "total"
	KeySucceed   = "succeed"
	KeyAborting  = "aborting"
	KeySubmitted = "submitted"
	KeyPrepared  = "prepared"
	KeyFailed    = "failed"
	KeyRollbacks = "rollbacks"
	KeyCompleted = "completed"
	KeyPending   = "pending"
)

// Snapshot is one reconciliation run over the protocol's databases, written
// as <timestamp>.json under the protocol's consistency directory.
type Snapshot struct {
	Protocol                 string         `json:"protocol"`
	Timestamp                string         `json:"timestamp,omitempty"`
	DTMTransactions          map[string]int `json:"dtm_transactions"`
	Orders                   map[string]int `json:"orders"`
	InventoryInconsistencies int64          `json:"inventory_inconsistencies"`
	PaymentInconsistencies   int64          `json:"payment_inconsistencies"`
}

// NewSnapshot returns a snapshot with every expected counter present so that
// merges and reports never hit missing keys.
func NewSnapshot(protocol string) *Snapshot {
	return &Snapshot{
		Protocol: protocol,
		DTMTransactions: map[string]int{
			KeyTotal:     0,
			KeySucceed:   0,
			KeyAborting:  0,
			KeySubmitted: 0,
			KeyPrepared:  0,
			KeyFailed:    0,
			KeyRollbacks: 0,
		},
		Orders: map[string]int{
			KeyTotal:     0,
			KeyCompleted: 0,
			KeyPending:   0,
			KeyFailed:    0,
		},
	}
}

// Result is the outcome of reconciling one entity table against the order
// history: the summed absolute drift and how many entities diverged at all.
type Result struct {
	Drift             int64 `json:"drift"`
	DivergentEntities int   `json:"divergent_entities"`
}
