package netgraph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteTGF writes the graph in trivial graph format: one "id label" line
// per node, a "#" separator and one "from to [label]" line per edge.
func (g *Graph) WriteTGF(w io.Writer) error {
	out := bufio.NewWriter(w)
	for _, n := range g.Nodes {
		fmt.Fprintf(out, "%d %s\n", n.ID, n.Label)
	}
	fmt.Fprintln(out, "#")
	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(out, "%d %d %s\n", e.From, e.To, e.Label)
		} else {
			fmt.Fprintf(out, "%d %d\n", e.From, e.To)
		}
	}
	return out.Flush()
}

func dotQuote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

// WriteDot writes the graph as a graphviz digraph. Nets are drawn as
// boxes, signal nodes as plain text.
func (g *Graph) WriteDot(w io.Writer) error {
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "digraph netlist\n{\n")
	fmt.Fprintf(out, "  overlap=scale;\n")
	fmt.Fprintf(out, "  node\t[fontname=\"Helvetica\"];\n")

	fmt.Fprintf(out, "  {\n    node [shape=box];\n")
	for _, n := range g.Nodes {
		if n.Net != nil {
			fmt.Fprintf(out, "    n%d\t[label=%s];\n", n.ID, dotQuote(n.Label))
		}
	}
	fmt.Fprintf(out, "  }\n")

	fmt.Fprintf(out, "  {\n    node [shape=plaintext];\n")
	for _, n := range g.Nodes {
		if n.Net == nil {
			fmt.Fprintf(out, "    n%d\t[label=%s];\n", n.ID, dotQuote(n.Label))
		}
	}
	fmt.Fprintf(out, "  }\n")

	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(out, "  n%d -> n%d\t[label=%s];\n", e.From, e.To, dotQuote(e.Label))
		} else {
			fmt.Fprintf(out, "  n%d -> n%d;\n", e.From, e.To)
		}
	}
	fmt.Fprintf(out, "}\n")
	return out.Flush()
}

// sexpAtom renders the label as a bare symbol when possible.
func sexpAtom(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\r()\"\\;#") {
		return strconv.Quote(s)
	}
	return s
}

// WriteSExpr writes the graph as an s-expression:
//
//	(netgraph
//	  (nodes (node 1 &) (node 2 a))
//	  (edges (edge 2 1 a)))
func (g *Graph) WriteSExpr(w io.Writer) error {
	out := bufio.NewWriter(w)
	fmt.Fprintln(out, "(netgraph")
	fmt.Fprint(out, "  (nodes")
	for _, n := range g.Nodes {
		fmt.Fprintf(out, "\n    (node %d %s)", n.ID, sexpAtom(n.Label))
	}
	fmt.Fprintln(out, ")")
	fmt.Fprint(out, "  (edges")
	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(out, "\n    (edge %d %d %s)", e.From, e.To, sexpAtom(e.Label))
		} else {
			fmt.Fprintf(out, "\n    (edge %d %d)", e.From, e.To)
		}
	}
	fmt.Fprintln(out, "))")
	return out.Flush()
}
