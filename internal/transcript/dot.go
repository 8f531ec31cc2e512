package transcript

import (
	"fmt"
	"strings"

	"github.com/comalice/calcx"
)

// ExportDOT generates Graphviz DOT source for the chart. The current mode is
// filled; internal transitions are drawn as dashed self-loops and guarded
// ones carry a [guarded] suffix.
func ExportDOT(chart calcx.Chart, current string) string {
	var b strings.Builder
	b.WriteString("digraph Calculator {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	b.WriteString("  edge [fontsize=9];\n")
	b.WriteString("  __start [shape=point];\n")

	for _, s := range chart.States {
		style := ""
		if s == current {
			style = ` style="rounded,filled" fillcolor=lightgreen`
		}
		fmt.Fprintf(&b, "  %q [label=%q%s];\n", s, s, style)
	}
	if chart.Initial != "" {
		fmt.Fprintf(&b, "  __start -> %q;\n", chart.Initial)
	}

	for _, e := range chart.Edges {
		label := e.Event
		if e.Guarded {
			label += " [guarded]"
		}
		attrs := fmt.Sprintf("label=%q", label)
		if e.Internal {
			attrs += " style=dashed"
		}
		fmt.Fprintf(&b, "  %q -> %q [%s];\n", e.From, e.To, attrs)
	}

	b.WriteString("}\n")
	return b.String()
}
