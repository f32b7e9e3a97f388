package fsm

import "github.com/enetx/g"

// HistoryCap is the number of snapshots a machine retains. When a transition
// would push the history past the cap, the oldest snapshot is evicted first.
const HistoryCap = 10

// Snapshot is an immutable record of a machine's observable state at one
// point in time. Seq is a logical timestamp, monotonic per machine and reset
// together with the machine, so identical input sequences produce identical
// histories.
type Snapshot struct {
	State   State   `json:"state"`
	Context Context `json:"context"`
	Seq     int64   `json:"seq"`
}

// record appends a snapshot of the current state and context, evicting the
// oldest entry when the history is full.
func (f *FSM) record() {
	f.seq++

	f.history.Push(Snapshot{
		State:   f.current,
		Context: f.ctx.Iter().Collect(),
		Seq:     f.seq,
	})

	if len(f.history) > HistoryCap {
		f.history = f.history[len(f.history)-HistoryCap:]
	}
}

// History returns a copy of the retained snapshots, oldest first. Snapshot
// contexts are copied too, so mutating a returned snapshot never touches the
// machine.
func (f *FSM) History() g.Slice[Snapshot] {
	var out g.Slice[Snapshot]

	for s := range f.history.Iter() {
		s.Context = s.Context.Iter().Collect()
		out.Push(s)
	}

	return out
}
