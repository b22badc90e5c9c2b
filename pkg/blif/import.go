package blif

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/rtl"
)

// Options controls the importer.
type Options struct {
	// MergeIOVectors groups inputs and outputs named base[i] into one bus
	// signal per base (default: true).
	MergeIOVectors bool

	// ClockName is the input treated as the design clock (default: "clk").
	ClockName string
}

// DefaultOptions returns the importer defaults.
func DefaultOptions() *Options {
	return &Options{
		MergeIOVectors: true,
		ClockName:      "clk",
	}
}

// Validate checks the options, filling in defaults for empty fields.
func (o *Options) Validate() error {
	if o.ClockName == "" {
		o.ClockName = "clk"
	}
	if strings.ContainsAny(o.ClockName, " \t\n") {
		return fmt.Errorf("blif: invalid clock name %q", o.ClockName)
	}
	return nil
}

// Netlist is the result of importing one BLIF model.
type Netlist struct {
	Model string
	Block *rtl.Block

	// Clocks lists the clock input and every signal found to alias it.
	Clocks []string

	// FlipFlopClocks lists the clock signals named by flip-flop instances.
	// A single shared clock is assumed; the set is not cross-checked
	// against Clocks.
	FlipFlopClocks []string
}

// ImportString imports a BLIF document. A nil opts uses DefaultOptions.
func ImportString(text string, opts *Options) (*Netlist, error) {
	return Import(strings.NewReader(text), opts)
}

// Import reads a BLIF document holding exactly one flattened model and
// builds its structural graph. All errors are *FormatError.
func Import(r io.Reader, opts *Options) (*Netlist, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, &FormatError{Msg: "invalid options", Err: err}
	}

	parser, err := NewParser()
	if err != nil {
		return nil, &FormatError{Msg: "parser setup", Err: err}
	}
	file, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}
	if len(file.Models) != 1 {
		return nil, &FormatError{
			Line: file.Models[1].Pos.Line,
			Msg: fmt.Sprintf("expected exactly one model, found %d",
				len(file.Models)),
		}
	}
	model := file.Models[0]

	imp := newImporter(opts)
	imp.reserve(model)
	if err := imp.inputs(model); err != nil {
		return nil, err
	}
	if err := imp.outputs(model); err != nil {
		return nil, err
	}
	for _, cmd := range model.Commands {
		if err := imp.command(cmd); err != nil {
			return nil, err
		}
	}

	return &Netlist{
		Model:          model.Name,
		Block:          imp.block,
		Clocks:         imp.clocks.list,
		FlipFlopClocks: imp.ffClocks.list,
	}, nil
}

type nameSet struct {
	list []string
	set  map[string]bool
}

func newNameSet() *nameSet {
	return &nameSet{set: make(map[string]bool)}
}

func (s *nameSet) add(name string) {
	if !s.set[name] {
		s.set[name] = true
		s.list = append(s.list, name)
	}
}

func (s *nameSet) has(name string) bool {
	return s.set[name]
}

type importer struct {
	opts     *Options
	block    *rtl.Block
	signals  map[string]*rtl.Wire
	clocks   *nameSet
	ffClocks *nameSet
}

func newImporter(opts *Options) *importer {
	return &importer{
		opts:     opts,
		block:    rtl.NewBlock(),
		signals:  make(map[string]*rtl.Wire),
		clocks:   newNameSet(),
		ffClocks: newNameSet(),
	}
}

// reserve keeps synthesized temporaries from taking names the model uses
// later on.
func (imp *importer) reserve(m *Model) {
	names := append(append([]string{}, m.Inputs...), m.Outputs...)
	for _, cmd := range m.Commands {
		switch {
		case cmd.Names != nil:
			names = append(names, cmd.Names.Signals...)
		case cmd.AsyncFlop != nil:
			names = append(names, cmd.AsyncFlop.D, cmd.AsyncFlop.Q)
		case cmd.SyncFlop != nil:
			names = append(names, cmd.SyncFlop.D, cmd.SyncFlop.Q)
		}
	}
	imp.block.Reserve(names...)
}

// wire finds or makes the 1-bit signal with the name.
func (imp *importer) wire(line int, name string) (*rtl.Wire, error) {
	if w, ok := imp.signals[name]; ok {
		return w, nil
	}
	return imp.newWire(line, rtl.Plain, 1, name)
}

func (imp *importer) newWire(line int, kind rtl.Kind, width int,
	name string) (*rtl.Wire, error) {

	w, err := imp.block.AddWire(kind, width, name)
	if err != nil {
		return nil, &FormatError{
			Line: line,
			Msg:  fmt.Sprintf("cannot create signal %s", name),
			Err:  err,
		}
	}
	imp.signals[name] = w
	return w, nil
}

func driveError(line int, name string, err error) error {
	return &FormatError{
		Line: line,
		Msg:  fmt.Sprintf("cannot drive signal %s", name),
		Err:  err,
	}
}

var reBusBit = regexp.MustCompile(`^(.*)\[([0-9]+)\]$`)

type ioGroup struct {
	base  string
	names []string
	bits  []int
}

// groupIO groups the names by bus base name in order of first appearance.
// Names without an index, and all names when merging is disabled, form
// single-member groups of their own.
func (imp *importer) groupIO(names []string) []*ioGroup {
	var groups []*ioGroup
	byBase := make(map[string]*ioGroup)
	for _, name := range names {
		m := reBusBit.FindStringSubmatch(name)
		if !imp.opts.MergeIOVectors || m == nil {
			groups = append(groups, &ioGroup{names: []string{name}})
			continue
		}
		bit, _ := strconv.Atoi(m[2])
		g, ok := byBase[m[1]]
		if !ok {
			g = &ioGroup{base: m[1]}
			byBase[m[1]] = g
			groups = append(groups, g)
		}
		g.names = append(g.names, name)
		g.bits = append(g.bits, bit)
	}
	return groups
}

func (g *ioGroup) check(line int) error {
	seen := make([]bool, len(g.bits))
	for i, bit := range g.bits {
		if g.names[i] != bitName(g.base, bit) {
			return &FormatError{
				Line: line,
				Msg:  fmt.Sprintf("bus %s: bit %s has a non-canonical index", g.base, g.names[i]),
			}
		}
		if bit >= len(g.bits) || seen[bit] {
			return &FormatError{
				Line: line,
				Msg: fmt.Sprintf("bus %s: bit %s is not part of a contiguous range [0,%d)",
					g.base, g.names[i], len(g.bits)),
			}
		}
		seen[bit] = true
	}
	return nil
}

func bitName(base string, bit int) string {
	return base + "[" + strconv.Itoa(bit) + "]"
}

func (imp *importer) inputs(m *Model) error {
	line := m.Pos.Line
	var names []string
	for _, name := range m.Inputs {
		if name == imp.opts.ClockName {
			imp.clocks.add(name)
			continue
		}
		names = append(names, name)
	}

	for _, g := range imp.groupIO(names) {
		if len(g.names) == 1 {
			if _, err := imp.newWire(line, rtl.Input, 1, g.names[0]); err != nil {
				return err
			}
			continue
		}
		if err := g.check(line); err != nil {
			return err
		}
		bus, err := imp.newWire(line, rtl.Input, len(g.names), g.base)
		if err != nil {
			return err
		}
		for i := 0; i < len(g.names); i++ {
			name := bitName(g.base, i)
			bit, err := imp.newWire(line, rtl.Plain, 1, name)
			if err != nil {
				return err
			}
			if _, err := imp.block.AddSelect(bus, []int{i}, bit); err != nil {
				return driveError(line, name, err)
			}
		}
	}
	return nil
}

func (imp *importer) outputs(m *Model) error {
	line := m.Pos.Line
	for _, g := range imp.groupIO(m.Outputs) {
		if len(g.names) == 1 {
			if _, err := imp.newWire(line, rtl.Output, 1, g.names[0]); err != nil {
				return err
			}
			continue
		}
		if err := g.check(line); err != nil {
			return err
		}
		bus, err := imp.newWire(line, rtl.Output, len(g.names), g.base)
		if err != nil {
			return err
		}
		bits := make([]*rtl.Wire, len(g.names))
		for i := range bits {
			bits[i], err = imp.newWire(line, rtl.Plain, 1, bitName(g.base, i))
			if err != nil {
				return err
			}
		}
		// The most significant bit comes first.
		args := make([]*rtl.Wire, len(bits))
		for i, bit := range bits {
			args[len(bits)-1-i] = bit
		}
		if _, err := imp.block.AddNet(rtl.CONCAT, args, []*rtl.Wire{bus}); err != nil {
			return driveError(line, g.base, err)
		}
	}
	return nil
}

func (imp *importer) command(cmd *Command) error {
	switch {
	case cmd.Names != nil:
		return imp.cover(cmd.Names)
	case cmd.AsyncFlop != nil:
		f := cmd.AsyncFlop
		// The reset is external to the generated flip-flop.
		return imp.flop(f.Pos.Line, f.Clock, f.D, f.Q)
	case cmd.SyncFlop != nil:
		f := cmd.SyncFlop
		return imp.flop(f.Pos.Line, f.Clock, f.D, f.Q)
	default:
		return &FormatError{Msg: "unknown command type"}
	}
}

func (imp *importer) cover(n *Names) error {
	line := n.Pos.Line
	numInputs := len(n.Signals) - 1
	coverText := strings.Join(n.Cover, " ")

	cover, err := ParseCover(numInputs, n.Cover)
	if err != nil {
		return &FormatError{Line: line, Msg: "malformed cover", Cover: coverText, Err: err}
	}
	shape, ok := Classify(numInputs, cover)
	if !ok {
		return &FormatError{Line: line, Msg: "unsupported cover", Cover: coverText}
	}

	if shape == ShapeBuffer {
		from, to := n.Signals[0], n.Signals[1]
		switch {
		case imp.clocks.has(to):
			imp.clocks.add(from)
			return nil
		case imp.clocks.has(from):
			imp.clocks.add(to)
			return nil
		}
	}

	args := make([]*rtl.Wire, numInputs)
	for i := range args {
		args[i], err = imp.wire(line, n.Signals[i])
		if err != nil {
			return err
		}
	}
	out, err := imp.wire(line, n.Output())
	if err != nil {
		return err
	}
	if err := imp.emit(shape, args, out); err != nil {
		return driveError(line, out.Name, err)
	}
	return nil
}

// emit builds the logic of the shape with out as the final destination.
func (imp *importer) emit(shape Shape, args []*rtl.Wire, out *rtl.Wire) error {
	b := imp.block
	dest := []*rtl.Wire{out}
	var err error

	switch shape {
	case ShapeConst0:
		_, err = b.Assign(out, b.Const(0, 1))

	case ShapeConst1:
		_, err = b.Assign(out, b.Const(1, 1))

	case ShapeBuffer:
		_, err = b.Assign(out, args[0])

	case ShapeNot:
		_, err = b.AddNet(rtl.NOT, args, dest)

	case ShapeAnd:
		_, err = b.AddNet(rtl.AND, args, dest)

	case ShapeOr:
		_, err = b.AddNet(rtl.OR, args, dest)

	case ShapeXor:
		_, err = b.AddNet(rtl.XOR, args, dest)

	case ShapeNor:
		var t *rtl.Wire
		t, err = b.Apply(rtl.OR, args[0], args[1])
		if err == nil {
			_, err = b.AddNet(rtl.NOT, []*rtl.Wire{t}, dest)
		}

	case ShapeMux:
		// a & ~c | b & c selects b when c is set.
		_, err = b.AddNet(rtl.MUX, []*rtl.Wire{args[0], args[1], args[2]}, dest)

	case ShapeMuxComplement:
		// ~b & ~c | ~a & ~c = ~((a & b) | c)
		var ab, abc *rtl.Wire
		ab, err = b.Apply(rtl.AND, args[0], args[1])
		if err == nil {
			abc, err = b.Apply(rtl.OR, ab, args[2])
		}
		if err == nil {
			_, err = b.AddNet(rtl.NOT, []*rtl.Wire{abc}, dest)
		}

	default:
		return rtl.Internalf("cover shape %s has no primitive", shape)
	}
	return err
}

// flop creates a register for the flip-flop output q, fed by d.
func (imp *importer) flop(line int, clock, d, q string) error {
	imp.ffClocks.add(clock)

	name := q + "_reg"
	for i := 1; ; i++ {
		if _, taken := imp.block.WireByName(name); !taken && !imp.block.Reserved(name) {
			break
		}
		name = fmt.Sprintf("%s_reg_%d", q, i)
	}
	reg, err := imp.newWire(line, rtl.Register, 1, name)
	if err != nil {
		return err
	}
	next, err := imp.wire(line, d)
	if err != nil {
		return err
	}
	if _, err := imp.block.SetNext(reg, next); err != nil {
		return driveError(line, name, err)
	}
	out, err := imp.wire(line, q)
	if err != nil {
		return err
	}
	if _, err := imp.block.Assign(out, reg); err != nil {
		return driveError(line, q, err)
	}
	return nil
}
