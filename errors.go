package fsm

import "fmt"

// ErrAmbiguousRule is the panic value raised when a transition table declares
// two rules for the same (event, source state) pair. The machine's behavior
// would be ambiguous, so the table is rejected at construction time rather
// than resolved by declaration order at trigger time.
type ErrAmbiguousRule struct {
	From  State
	Event Event
}

func (e *ErrAmbiguousRule) Error() string {
	return fmt.Sprintf("fsm: duplicate rule for event %q from state %q", e.Event, e.From)
}

// ErrUnknownState is the panic value raised when a machine is constructed
// with an initial state that no rule in its transition table mentions. Such a
// machine could never leave its initial state, which is always a programmer
// error.
type ErrUnknownState struct {
	State State
}

func (e *ErrUnknownState) Error() string {
	return fmt.Sprintf("fsm: initial state %q is not part of the transition table", e.State)
}
