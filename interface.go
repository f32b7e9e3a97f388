package fsm

import "github.com/enetx/g"

// Machine is the contract shared by FSM and its thread-safe wrapper.
type Machine interface {
	Trigger(Event, ...Context) bool
	UpdateContext(Context)
	Reset()
	Current() State
	Context() Context
	CanTrigger(Event) bool
	AvailableEvents() g.Slice[Event]
	Matches(...State) bool
	States() g.Slice[State]
	History() g.Slice[Snapshot]
	Subscribe(Subscriber) Unsubscribe
	ToDOT() g.String
	MarshalJSON() ([]byte, error)
}

var (
	_ Machine = (*FSM)(nil)
	_ Machine = (*SyncFSM)(nil)
)
