// Package netgraph builds a node/edge view of an rtl block and renders it
// as trivial graph format, graphviz dot or an s-expression netlist.
//
// Every net becomes a node, as do the input, output and constant signals.
// Signals connect the node producing them with the nodes consuming them.
// Signals without a producer or consumer get a placeholder node, so
// partially built blocks can still be drawn.
package netgraph

import (
	"strconv"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/rtl"
)

// Placeholder is the label of synthesized nodes.
const Placeholder = "unknown"

// Node is a graph node. Exactly one of Net and Wire is set for nodes built
// from a block; decoded graphs carry neither.
type Node struct {
	ID    int
	Label string
	Net   *rtl.Net
	Wire  *rtl.Wire
}

// Edge connects two nodes by id. The label is the name of the signal
// carried, empty for synthesized signal names.
type Edge struct {
	From  int
	To    int
	Label string
}

// Graph is the node/edge view of a block. Nodes and edges are kept in
// insertion order; node ids start at 1.
type Graph struct {
	Nodes []*Node
	Edges []*Edge
}

type edgeKey struct {
	from, to int
}

type builder struct {
	g     *Graph
	nets  map[*rtl.Net]*Node
	wires map[*rtl.Wire]*Node
	edges map[edgeKey]*Edge
}

// Build creates the graph of the block. Nets come first, followed by the
// inputs, the outputs and the constants.
func Build(b *rtl.Block) *Graph {
	gb := &builder{
		g:     &Graph{},
		nets:  make(map[*rtl.Net]*Node),
		wires: make(map[*rtl.Wire]*Node),
		edges: make(map[edgeKey]*Edge),
	}

	nets := b.Nets()
	for _, n := range nets {
		gb.nets[n] = gb.add(n.Label(), n, nil)
	}
	for _, w := range b.WiresOfKind(rtl.Input) {
		gb.wires[w] = gb.add(w.Name, nil, w)
	}
	for _, w := range b.WiresOfKind(rtl.Output) {
		gb.wires[w] = gb.add(w.Name, nil, w)
	}
	for _, w := range b.WiresOfKind(rtl.Const) {
		gb.wires[w] = gb.add(strconv.FormatUint(w.Value, 10), nil, w)
	}

	for _, n := range nets {
		node := gb.nets[n]
		for _, a := range n.Args {
			gb.connect(gb.producer(a), node, a)
		}
		for _, d := range n.Dests {
			gb.connect(node, gb.consumer(d), nil)
		}
	}
	return gb.g
}

func (gb *builder) add(label string, n *rtl.Net, w *rtl.Wire) *Node {
	node := &Node{
		ID:    len(gb.g.Nodes) + 1,
		Label: label,
		Net:   n,
		Wire:  w,
	}
	gb.g.Nodes = append(gb.g.Nodes, node)
	return node
}

// producer returns the node driving the signal.
func (gb *builder) producer(w *rtl.Wire) *Node {
	if node, ok := gb.wires[w]; ok {
		return node
	}
	if d := w.Driver(); d != nil {
		return gb.nets[d]
	}
	node := gb.add(Placeholder, nil, w)
	gb.wires[w] = node
	return node
}

// consumer returns the first node reading the signal.
func (gb *builder) consumer(w *rtl.Wire) *Node {
	if node, ok := gb.wires[w]; ok {
		return node
	}
	if users := w.Users(); len(users) > 0 {
		return gb.nets[users[0]]
	}
	node := gb.add(Placeholder, nil, w)
	gb.wires[w] = node
	return node
}

func (gb *builder) connect(from, to *Node, w *rtl.Wire) {
	var label string
	if w != nil && !w.Temporary() {
		label = w.Name
	}
	key := edgeKey{from: from.ID, to: to.ID}
	if e, ok := gb.edges[key]; ok {
		if e.Label == "" {
			e.Label = label
		}
		return
	}
	e := &Edge{From: from.ID, To: to.ID, Label: label}
	gb.edges[key] = e
	gb.g.Edges = append(gb.g.Edges, e)
}

// Node returns the node with the id.
func (g *Graph) Node(id int) (*Node, bool) {
	if id >= 1 && id <= len(g.Nodes) && g.Nodes[id-1].ID == id {
		return g.Nodes[id-1], true
	}
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}
