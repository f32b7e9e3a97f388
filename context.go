package fsm

import "github.com/enetx/g"

// Context holds the data associated with a machine's current state. It is an
// open mapping of named fields; domains decide what lives in it. The machine
// only ever hands out copies, so callers cannot alias its internal map.
type Context = g.Map[g.String, any]

// merge returns a fresh map holding base overlaid with delta. Neither input
// is modified, which keeps context swaps atomic: the machine's context is
// replaced in one assignment after the merged copy is fully built.
func merge(base, delta Context) Context {
	next := base.Iter().Collect()
	for k, v := range delta.Iter() {
		next.Set(k, v)
	}

	return next
}

// intField reads an integer counter from a machine's context, defaulting to
// zero when the field is absent or holds a different type.
func intField(m *FSM, key g.String) int {
	if v := m.Context().Get(key); v.IsSome() {
		if n, ok := v.Some().(int); ok {
			return n
		}
	}

	return 0
}
