// Package analysis provides diagnostics over rtl blocks.
package analysis

import (
	"github.com/OpenTraceLab/OpenTraceRTL/pkg/rtl"
)

// FindCycle searches the block for a combinational loop. It returns nil
// when there is none, otherwise the signals on the loop starting and
// ending with the same signal. Register and memory write nets end a
// combinational path.
//
// The search starts from every input and then from every signal not yet
// visited, in block order.
func FindCycle(b *rtl.Block) []*rtl.Wire {
	s := &cycleSearch{
		visited: make(map[*rtl.Wire]bool),
		onStack: make(map[*rtl.Wire]int),
	}
	for _, w := range b.WiresOfKind(rtl.Input) {
		if path := s.visit(w); path != nil {
			return path
		}
	}
	for _, w := range b.Wires() {
		if path := s.visit(w); path != nil {
			return path
		}
	}
	return nil
}

type cycleSearch struct {
	visited map[*rtl.Wire]bool
	onStack map[*rtl.Wire]int
	stack   []*rtl.Wire
}

func (s *cycleSearch) visit(w *rtl.Wire) []*rtl.Wire {
	if s.visited[w] {
		return nil
	}
	s.visited[w] = true
	s.onStack[w] = len(s.stack)
	s.stack = append(s.stack, w)

	for _, n := range w.Users() {
		if n.Op.Sequential() {
			continue
		}
		for _, d := range n.Dests {
			if idx, ok := s.onStack[d]; ok {
				path := append([]*rtl.Wire(nil), s.stack[idx:]...)
				return append(path, d)
			}
			if path := s.visit(d); path != nil {
				return path
			}
		}
	}

	s.stack = s.stack[:len(s.stack)-1]
	delete(s.onStack, w)
	return nil
}
