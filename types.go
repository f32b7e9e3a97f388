package fsm

import (
	"sync"

	"github.com/enetx/g"
	"go.uber.org/zap"
)

type (
	// State represents a finite state of a machine.
	State g.String
	// Event represents an event that triggers a transition.
	Event g.String

	// Subscriber is a function invoked after every committed change with the
	// new state and a copy of the new context.
	Subscriber func(state State, ctx Context)
	// Unsubscribe removes the subscriber it was returned for.
	Unsubscribe func()

	// Rule declares a legal transition: any of the From states moves to To
	// when Event is triggered.
	Rule struct {
		From  g.Slice[State]
		Event Event
		To    State
	}

	// rule is the flattened internal form with a single source state.
	rule struct {
		from  State
		event Event
		to    State
	}

	// FSM is the machine itself. It is not safe for concurrent use; a machine
	// is expected to have a single owner. Wrap it with Sync for shared access.
	FSM struct {
		initial    State
		initialCtx Context
		current    State
		ctx        Context
		rules      g.Slice[rule]
		history    g.Slice[Snapshot]
		subs       g.Slice[*subscription]
		seq        int64
		log        *zap.Logger
	}

	// SyncFSM is a thread-safe wrapper around an FSM. It protects every
	// state-mutating and state-reading operation with a sync.RWMutex and is
	// the mutual-exclusion boundary for machines shared across goroutines.
	SyncFSM struct {
		fsm *FSM
		mu  sync.RWMutex
	}

	subscription struct {
		fn Subscriber
	}

	config struct {
		log *zap.Logger
	}

	// Option configures a machine or a manager at construction time.
	Option func(*config)
)

// WithLogger sets the zap logger used for diagnostics (rejected triggers,
// recovered subscriber panics). The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// On declares a rule with a single source state.
func On(from State, event Event, to State) Rule {
	return Rule{From: g.SliceOf(from), Event: event, To: to}
}

// OnAny declares a rule shared by several source states.
func OnAny(from g.Slice[State], event Event, to State) Rule {
	return Rule{From: from, Event: event, To: to}
}
