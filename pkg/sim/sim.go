// Package sim implements a cycle based simulator for rtl blocks.
//
// Each Step applies one set of input values, evaluates the combinational
// logic in dependency order, records the traced signals and then clocks
// the registers and memory write ports. Registers start at zero.
package sim

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/rtl"
	"github.com/OpenTraceLab/OpenTraceRTL/pkg/trace"
)

// Simulation holds the state of one simulated block.
type Simulation struct {
	block  *rtl.Block
	order  []*rtl.Net
	seq    []*rtl.Net
	inputs []*rtl.Wire
	values []uint64
	state  []uint64
	mems   map[int]map[uint64]uint64
	traced []*rtl.Wire
	trace  *trace.Trace
	cycle  int
}

// New creates a simulation of the block. The trace selects the recorded
// signals; a nil trace records all inputs and outputs.
func New(b *rtl.Block, tr *trace.Trace) (*Simulation, error) {
	s := &Simulation{
		block:  b,
		inputs: b.WiresOfKind(rtl.Input),
		values: make([]uint64, len(b.Wires())),
		state:  make([]uint64, len(b.Wires())),
		mems:   make(map[int]map[uint64]uint64),
	}
	for _, w := range b.Wires() {
		if w.Width > 64 {
			return nil, fmt.Errorf("sim: signal %s wider than 64 bits", w)
		}
		if w.Kind == rtl.Const {
			s.values[w.ID()] = w.Value
		}
	}

	if tr == nil {
		var names []string
		for _, w := range b.WiresOfKind(rtl.Input, rtl.Output) {
			names = append(names, w.Name)
		}
		tr = trace.New(names...)
	}
	for _, name := range tr.Names() {
		w, ok := b.WireByName(name)
		if !ok {
			return nil, fmt.Errorf("sim: traced signal %s not found", name)
		}
		s.traced = append(s.traced, w)
	}
	s.trace = tr

	if err := s.sort(); err != nil {
		return nil, err
	}
	return s, nil
}

// sort orders the combinational nets so every net follows the nets
// producing its arguments.
func (s *Simulation) sort() error {
	pending := make(map[*rtl.Net]int)
	var ready []*rtl.Net
	var comb int

	for _, n := range s.block.Nets() {
		if n.Op.Sequential() {
			s.seq = append(s.seq, n)
			continue
		}
		comb++
		var deps int
		for _, a := range n.Args {
			if d := a.Driver(); d != nil && !d.Op.Sequential() {
				deps++
			}
		}
		if deps == 0 {
			ready = append(ready, n)
		} else {
			pending[n] = deps
		}
	}

	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		s.order = append(s.order, n)
		for _, d := range n.Dests {
			for _, u := range d.Users() {
				if u.Op.Sequential() {
					continue
				}
				// Users holds one entry per argument slot.
				pending[u]--
				if pending[u] == 0 {
					delete(pending, u)
					ready = append(ready, u)
				}
			}
		}
	}
	if len(s.order) != comb {
		return fmt.Errorf("sim: combinational loop through %d nets", comb-len(s.order))
	}
	return nil
}

// Cycle returns the number of completed steps.
func (s *Simulation) Cycle() int {
	return s.cycle
}

// Trace returns the recorded trace.
func (s *Simulation) Trace() *trace.Trace {
	return s.trace
}

// Value returns the value the signal had in the last step.
func (s *Simulation) Value(name string) (uint64, error) {
	w, ok := s.block.WireByName(name)
	if !ok {
		return 0, fmt.Errorf("sim: unknown signal %s", name)
	}
	return s.values[w.ID()], nil
}

// Step simulates one clock cycle. Every input must have a value that fits
// its width.
func (s *Simulation) Step(inputs map[string]uint64) error {
	for _, in := range s.inputs {
		v, ok := inputs[in.Name]
		if !ok {
			return fmt.Errorf("sim: no value for input %s in cycle %d", in.Name, s.cycle)
		}
		if v&^in.Mask() != 0 {
			return fmt.Errorf("sim: value %d does not fit input %s", v, in)
		}
		s.values[in.ID()] = v
	}
	for _, n := range s.seq {
		for _, d := range n.Dests {
			s.values[d.ID()] = s.state[d.ID()]
		}
	}

	for _, n := range s.order {
		v, err := s.eval(n)
		if err != nil {
			return err
		}
		d := n.Dests[0]
		s.values[d.ID()] = v & d.Mask()
	}

	for _, w := range s.traced {
		s.trace.Add(w.Name, s.values[w.ID()])
	}

	for _, n := range s.seq {
		switch n.Op {
		case rtl.REG:
			d := n.Dests[0]
			s.state[d.ID()] = s.values[n.Args[0].ID()] & d.Mask()

		case rtl.MEMWRITE:
			if s.values[n.Args[2].ID()] == 0 {
				continue
			}
			mem := s.memory(n.Mem)
			addr := s.values[n.Args[0].ID()] & (n.Mem.Depth() - 1)
			mem[addr] = s.values[n.Args[1].ID()] & dataMask(n.Mem)

		default:
			return rtl.Internalf("sequential net %s", n)
		}
	}
	s.cycle++
	return nil
}

func dataMask(m *rtl.Memory) uint64 {
	if m.DataWidth >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(m.DataWidth)) - 1
}

func (s *Simulation) memory(m *rtl.Memory) map[uint64]uint64 {
	mem, ok := s.mems[m.ID]
	if !ok {
		mem = make(map[uint64]uint64)
		for addr, v := range m.Initial {
			mem[addr] = v
		}
		s.mems[m.ID] = mem
	}
	return mem
}

func (s *Simulation) eval(n *rtl.Net) (uint64, error) {
	arg := func(i int) uint64 {
		return s.values[n.Args[i].ID()]
	}
	bool2int := func(b bool) uint64 {
		if b {
			return 1
		}
		return 0
	}

	switch n.Op {
	case rtl.WIRE:
		return arg(0), nil
	case rtl.NOT:
		return ^arg(0), nil
	case rtl.AND:
		return arg(0) & arg(1), nil
	case rtl.OR:
		return arg(0) | arg(1), nil
	case rtl.XOR:
		return arg(0) ^ arg(1), nil
	case rtl.ADD:
		return arg(0) + arg(1), nil
	case rtl.SUB:
		return arg(0) - arg(1), nil
	case rtl.MUL:
		return arg(0) * arg(1), nil
	case rtl.LT:
		return bool2int(arg(0) < arg(1)), nil
	case rtl.GT:
		return bool2int(arg(0) > arg(1)), nil
	case rtl.EQ:
		return bool2int(arg(0) == arg(1)), nil

	case rtl.MUX:
		if arg(2) != 0 {
			return arg(1), nil
		}
		return arg(0), nil

	case rtl.CONCAT:
		var v uint64
		for i, a := range n.Args {
			v = v<<uint(a.Width) | arg(i)
		}
		return v, nil

	case rtl.SELECT:
		var v uint64
		for i, bit := range n.Sel {
			v |= ((arg(0) >> uint(bit)) & 1) << uint(i)
		}
		return v, nil

	case rtl.MEMREAD:
		mem := s.memory(n.Mem)
		return mem[arg(0)&(n.Mem.Depth()-1)], nil

	default:
		return 0, rtl.Internalf("cannot simulate %s", n)
	}
}
