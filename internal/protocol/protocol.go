package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Protocol identifies one of the benchmarked distributed-transaction protocols.
type Protocol string

const (
	TwoPhaseCommit Protocol = "2pc"
	TCC            Protocol = "tcc"
	Saga           Protocol = "saga"
)

var ErrUnsupportedProtocol = errors.New("unsupported protocol")

// All returns the supported protocols in the order reports present them.
func All() []Protocol {
	return []Protocol{TwoPhaseCommit, Saga, TCC}
}

// Parse validates a protocol name given on the command line or in configuration.
func Parse(raw string) (Protocol, error) {
	p := Protocol(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case TwoPhaseCommit, TCC, Saga:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedProtocol, raw, supportedList())
}

func supportedList() string {
	names := make([]string, 0, len(All()))
	for _, p := range All() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

func (p Protocol) String() string {
	return string(p)
}

// FailedOrderStatus returns the order status that marks a failed order.
// The saga services reject orders, the 2pc and tcc services cancel them.
func (p Protocol) FailedOrderStatus() string {
	if p == Saga {
		return "rejected"
	}
	return "cancelled"
}

// InventoryIDColumn returns the column identifying a product in the
// products_inventory table. The saga schema keys products by a plain id,
// the 2pc and tcc schemas carry the order service's foreign key.
func (p Protocol) InventoryIDColumn() string {
	if p == Saga {
		return "id"
	}
	return "product_id"
}

// ActionSpanPrefix returns the operation-name prefix instrumented on spans
// that perform a forward transaction step.
func (p Protocol) ActionSpanPrefix() string {
	return fmt.Sprintf("%s_action_", p)
}

// CompensationSpanPrefix returns the operation-name prefix instrumented on
// spans that undo a transaction step. Its presence in a trace marks a rollback.
func (p Protocol) CompensationSpanPrefix() string {
	return fmt.Sprintf("%s_compensation_", p)
}
