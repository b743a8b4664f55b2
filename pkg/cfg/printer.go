package cfg

import (
	"fmt"
	"io"
	"strings"

	"github.com/OliverRoss/mcc/pkg/ir"
)

// PrintDot renders g as a Graphviz dot graph for the --dcfg entry point:
// one node per basic block (labeled with its row range and contents) and
// one edge per Left/Right successor link.
func PrintDot(w io.Writer, g *Graph) {
	fmt.Fprintln(w, "digraph cfg {")
	fmt.Fprintln(w, "\tnode [shape=box, fontname=monospace];")
	for _, b := range g.Blocks {
		fmt.Fprintf(w, "\tB%d [label=%q];\n", b.Index, blockLabel(g.List, b))
	}
	for _, b := range g.Blocks {
		if b.Left >= 0 {
			fmt.Fprintf(w, "\tB%d -> B%d [label=\"fall\"];\n", b.Index, b.Left)
		}
		if b.Right >= 0 {
			fmt.Fprintf(w, "\tB%d -> B%d [label=\"jump\"];\n", b.Index, b.Right)
		}
	}
	fmt.Fprintln(w, "}")
}

func blockLabel(list *ir.List, b *Block) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("B%d [%d,%d)", b.Index, b.Start, b.End))
	for i := b.Start; i < b.End; i++ {
		row := list.Rows[i]
		lines = append(lines, fmt.Sprintf("%d: %s", row.Index, row.Tag))
	}
	return strings.Join(lines, "\\l") + "\\l"
}
