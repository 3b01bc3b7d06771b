package workflow

// State represents a lifecycle state of a petty-cash document
type State string

const (
	StateDraft     State = "DRAFT"
	StatePending   State = "PENDING"
	StateSubmitted State = "SUBMITTED"
	StateApproved  State = "APPROVED"
	StatePaid      State = "PAID"
	StateCompleted State = "COMPLETED"
	StateRejected  State = "REJECTED"
)

var validStates = map[State]bool{
	StateDraft:     true,
	StatePending:   true,
	StateSubmitted: true,
	StateApproved:  true,
	StatePaid:      true,
	StateCompleted: true,
	StateRejected:  true,
}

var terminalStates = map[State]bool{
	StatePaid:      true,
	StateCompleted: true,
	StateRejected:  true,
}

// IsTerminal returns true if the state admits no further transitions
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known lifecycle state
func (s State) IsValid() bool {
	return validStates[s]
}
