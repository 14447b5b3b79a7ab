package checkout

type State string

const (
	StateValidating State = "VALIDATING"
	StatePricing    State = "PRICING"
	StatePersisting State = "PERSISTING"
	StateClearing   State = "CLEARING"
	StateDone       State = "DONE"
	StateRejected   State = "REJECTED"
)

func (s State) IsTerminal() bool {
	return s == StateDone || s == StateRejected
}

// CanTransitionTo encodes the single path a checkout attempt may take.
// Rejection is only reachable before the ledger write; once persisting
// has begun only Clearing and Done remain.
func (s State) CanTransitionTo(next State) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StateRejected {
		return s == StateValidating || s == StatePricing
	}
	switch s {
	case StateValidating:
		return next == StatePricing
	case StatePricing:
		return next == StatePersisting
	case StatePersisting:
		return next == StateClearing
	case StateClearing:
		return next == StateDone
	default:
		return false
	}
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}
