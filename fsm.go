// Package fsm provides a generic finite state machine engine for modeling the
// lifecycle of long-running operations. A machine owns one current state, one
// context value, a bounded snapshot history and a set of change subscribers;
// transitions are validated against a declarative rule table supplied at
// construction. It is built with types and utilities from the
// github.com/enetx/g library and reports diagnostics through go.uber.org/zap.
package fsm

import (
	"encoding/json"

	"github.com/enetx/g"
	"go.uber.org/zap"
)

// ruleKey identifies one (source state, event) pair for ambiguity detection.
type ruleKey struct {
	from  State
	event Event
}

// New constructs a machine from a transition table, an initial state and an
// initial context, and records the first snapshot.
//
// The table is validated eagerly: a duplicate (event, source state) pair
// panics with *ErrAmbiguousRule, and an initial state that no rule mentions
// panics with *ErrUnknownState. Both are programmer errors; ordinary domain
// flow never panics.
func New(initial State, table g.Slice[Rule], initialCtx Context, opts ...Option) *FSM {
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	f := &FSM{
		initial: initial,
		current: initial,
		log:     cfg.log,
	}

	if initialCtx != nil {
		f.initialCtx = initialCtx.Iter().Collect()
	} else {
		f.initialCtx = g.NewMap[g.String, any]()
	}

	seen := g.NewSet[ruleKey]()
	states := g.NewSet[State]()

	for r := range table.Iter() {
		for from := range r.From.Iter() {
			key := ruleKey{from: from, event: r.Event}
			if seen.Contains(key) {
				panic(&ErrAmbiguousRule{From: from, Event: r.Event})
			}

			seen.Insert(key)
			states.Insert(from)
			f.rules.Push(rule{from: from, event: r.Event, to: r.To})
		}

		states.Insert(r.To)
	}

	if table.NotEmpty() && !states.Contains(initial) {
		panic(&ErrUnknownState{State: initial})
	}

	f.ctx = f.initialCtx.Iter().Collect()
	f.record()

	return f
}

// Sync wraps the machine in a mutex so it can be shared across goroutines.
func (f *FSM) Sync() *SyncFSM {
	return &SyncFSM{fsm: f}
}

// Current returns the machine's current state.
func (f *FSM) Current() State {
	return f.current
}

// Context returns a copy of the machine's current context.
func (f *FSM) Context() Context {
	return f.ctx.Iter().Collect()
}

// match finds the first rule, in declaration order, for (event, current).
func (f *FSM) match(event Event) (rule, bool) {
	for r := range f.rules.Iter() {
		if r.event == event && r.from == f.current {
			return r, true
		}
	}

	return rule{}, false
}

// CanTrigger reports whether some rule matches event from the current state.
// It is a pure query with no side effects.
func (f *FSM) CanTrigger(event Event) bool {
	_, ok := f.match(event)
	return ok
}

// AvailableEvents returns the events with at least one matching rule from the
// current state, in declaration order and without duplicates.
func (f *FSM) AvailableEvents() g.Slice[Event] {
	seen := g.NewSet[Event]()

	var events g.Slice[Event]

	for r := range f.rules.Iter() {
		if r.from == f.current && !seen.Contains(r.event) {
			seen.Insert(r.event)
			events.Push(r.event)
		}
	}

	return events
}

// Matches reports whether the current state equals one of the given states.
func (f *FSM) Matches(states ...State) bool {
	for _, s := range states {
		if f.current == s {
			return true
		}
	}

	return false
}

// States returns every unique state mentioned by the transition table,
// including the initial state.
func (f *FSM) States() g.Slice[State] {
	states := g.NewSet[State]()
	states.Insert(f.initial)

	for r := range f.rules.Iter() {
		states.Insert(r.from)
		states.Insert(r.to)
	}

	return states.ToSlice()
}

// Trigger attempts to transition using the given event, optionally merging a
// context delta into the context as part of the same change.
//
// When no rule matches (event, current state) nothing mutates: the call logs
// a debug diagnostic and returns false. Invalid triggers are ordinary domain
// flow, not errors, since helpers routinely probe before acting.
//
// When a rule matches, the state and context change together, a snapshot is
// recorded and every subscriber is notified synchronously, in subscription
// order, with the new state and a copy of the new context. Returns true.
func (f *FSM) Trigger(event Event, delta ...Context) bool {
	r, ok := f.match(event)
	if !ok {
		f.log.Debug("transition rejected",
			zap.String("state", string(f.current)),
			zap.String("event", string(event)))

		return false
	}

	f.current = r.to

	if len(delta) > 0 && delta[0] != nil {
		f.ctx = merge(f.ctx, delta[0])
	}

	f.record()
	f.notify()

	return true
}

// UpdateContext merges delta into the context without consulting the rule
// table or changing state, then notifies subscribers. It never fails and does
// not record a snapshot; history tracks transitions only.
func (f *FSM) UpdateContext(delta Context) {
	if delta == nil {
		return
	}

	f.ctx = merge(f.ctx, delta)
	f.notify()
}

// Subscribe registers a callback and immediately invokes it once with the
// current state and context, so late subscribers never miss the current
// snapshot. The returned function removes the subscription; each call to
// Subscribe is independent and has its own handle.
func (f *FSM) Subscribe(fn Subscriber) Unsubscribe {
	sub := &subscription{fn: fn}
	f.subs.Push(sub)
	f.invoke(sub)

	return func() {
		f.subs = f.subs.
			Iter().
			Exclude(func(s *subscription) bool { return s == sub }).
			Collect()
	}
}

// notify fans the committed change out to every subscriber in subscription
// order. The mutation is already committed by the time this runs, so a
// faulty subscriber can never corrupt the machine.
func (f *FSM) notify() {
	for sub := range f.subs.Clone().Iter() {
		f.invoke(sub)
	}
}

// invoke calls one subscriber with its own context copy, containing panics so
// one faulty callback cannot starve the ones after it.
func (f *FSM) invoke(sub *subscription) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Warn("subscriber panicked",
				zap.String("state", string(f.current)),
				zap.Any("panic", r))
		}
	}()

	sub.fn(f.current, f.ctx.Iter().Collect())
}

// Reset restores the initial state and context, clears the history, records
// a fresh snapshot and notifies subscribers. Resetting an already-reset
// machine is observationally a no-op.
func (f *FSM) Reset() {
	f.current = f.initial
	f.ctx = f.initialCtx.Iter().Collect()
	f.history = nil
	f.seq = 0
	f.record()
	f.notify()
}

// machineState is the serializable point-in-time view of a machine, consumed
// by UIs and log tooling. Machines are never restored from it; state does not
// survive the process.
type machineState struct {
	Current State             `json:"current"`
	Context Context           `json:"context"`
	History g.Slice[Snapshot] `json:"history"`
}

// MarshalJSON implements the json.Marshaler interface.
func (f *FSM) MarshalJSON() ([]byte, error) {
	return json.Marshal(machineState{
		Current: f.current,
		Context: f.ctx.Iter().Collect(),
		History: f.History(),
	})
}
