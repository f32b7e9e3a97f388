package fsm

import (
	"github.com/enetx/g"
	"github.com/enetx/g/cmp"
)

// edgeKey groups rules that share a source and a target state into one edge.
type edgeKey struct {
	from State
	to   State
}

// ToDOT generates a DOT language string representation of the machine for
// visualization. The current state is highlighted; states without outgoing
// rules render as final.
func (f *FSM) ToDOT() g.String {
	b := g.NewBuilder()

	b.WriteString("digraph FSM {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(
		"  node [shape=circle, style=filled, fillcolor=\"#f8f8f8\", color=\"#444444\", fontname=\"Helvetica\"];\n",
	)
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	b.WriteString("  __start [shape=point, style=invis];\n")
	b.WriteString(g.Format("  __start -> \"{}\" [label=\" initial\"];\n\n", f.initial))

	grouped := g.NewMap[edgeKey, g.Slice[g.String]]()

	var order g.Slice[edgeKey]

	outgoing := g.NewSet[State]()

	for r := range f.rules.Iter() {
		key := edgeKey{from: r.from, to: r.to}
		if !grouped.Contains(key) {
			order.Push(key)
		}

		label := g.String(r.event)

		grouped.Entry(key).
			AndModify(func(s *g.Slice[g.String]) { s.Push(label) }).
			OrInsert(g.SliceOf(label))

		outgoing.Insert(r.from)
	}

	states := f.States()
	states.SortBy(cmp.Cmp)

	for state := range states.Iter() {
		var attrs g.Slice[g.String]
		attrs.Push(g.Format("label=\"{}\"", state))

		switch {
		case state == f.current:
			attrs.Push("fillcolor=\"#90ee90\"", "shape=doublecircle")
		case !outgoing.Contains(state):
			attrs.Push("fillcolor=\"#d3d3d3\"", "shape=doublecircle")
		}

		b.WriteString(g.Format("  \"{}\" [{}];\n", state, attrs.Join(", ")))
	}

	b.WriteByte('\n')

	for key := range order.Iter() {
		labels := grouped.Get(key).UnwrapOr(nil)

		b.WriteString(g.Format("  \"{}\" -> \"{}\" [label=\" {} \"];\n", key.from, key.to, labels.Join("\\n")))
	}

	b.WriteString("}\n")

	return b.String()
}
