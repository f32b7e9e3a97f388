package fsm

import "github.com/enetx/g"

// Trigger is the thread-safe version of FSM.Trigger.
// It atomically executes a state transition in response to an event.
func (sf *SyncFSM) Trigger(event Event, delta ...Context) bool {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	return sf.fsm.Trigger(event, delta...)
}

// UpdateContext is the thread-safe version of FSM.UpdateContext.
func (sf *SyncFSM) UpdateContext(delta Context) {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	sf.fsm.UpdateContext(delta)
}

// Reset is the thread-safe version of FSM.Reset.
func (sf *SyncFSM) Reset() {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	sf.fsm.Reset()
}

// Current is the thread-safe version of FSM.Current.
func (sf *SyncFSM) Current() State {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.Current()
}

// Context is the thread-safe version of FSM.Context.
// It returns a copy of the machine's current context.
func (sf *SyncFSM) Context() Context {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.Context()
}

// CanTrigger is the thread-safe version of FSM.CanTrigger.
func (sf *SyncFSM) CanTrigger(event Event) bool {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.CanTrigger(event)
}

// AvailableEvents is the thread-safe version of FSM.AvailableEvents.
func (sf *SyncFSM) AvailableEvents() g.Slice[Event] {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.AvailableEvents()
}

// Matches is the thread-safe version of FSM.Matches.
func (sf *SyncFSM) Matches(states ...State) bool {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.Matches(states...)
}

// States is the thread-safe version of FSM.States.
func (sf *SyncFSM) States() g.Slice[State] {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.States()
}

// History is the thread-safe version of FSM.History.
func (sf *SyncFSM) History() g.Slice[Snapshot] {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.History()
}

// Subscribe is the thread-safe version of FSM.Subscribe. The immediate replay
// and the returned unsubscribe handle both take the wrapper's lock.
func (sf *SyncFSM) Subscribe(fn Subscriber) Unsubscribe {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	unsub := sf.fsm.Subscribe(fn)

	return func() {
		sf.mu.Lock()
		defer sf.mu.Unlock()

		unsub()
	}
}

// ToDOT is the thread-safe version of FSM.ToDOT.
func (sf *SyncFSM) ToDOT() g.String {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.ToDOT()
}

// MarshalJSON implements the json.Marshaler interface for thread-safe
// serialization of the machine's state to JSON.
func (sf *SyncFSM) MarshalJSON() ([]byte, error) {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	return sf.fsm.MarshalJSON()
}
