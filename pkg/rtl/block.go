package rtl

import (
	"fmt"
	"strings"
)

// Block is a structural graph of wires and nets. Wires and nets are kept
// in creation order, which is the iteration order of every accessor.
type Block struct {
	wires    []*Wire
	nets     []*Net
	byName   map[string]*Wire
	reserved map[string]bool
	mems     int
	temps    int
}

// NewBlock creates an empty block.
func NewBlock() *Block {
	return &Block{
		byName:   make(map[string]*Wire),
		reserved: make(map[string]bool),
	}
}

// Reserve keeps the names from being used for synthesized temporaries.
// Reserved names can still be claimed with AddWire.
func (b *Block) Reserve(names ...string) {
	for _, name := range names {
		b.reserved[name] = true
	}
}

// Reserved reports whether the name was reserved.
func (b *Block) Reserved(name string) bool {
	return b.reserved[name]
}

// AddWire creates a new wire. An empty name is replaced with a synthesized
// temporary name.
func (b *Block) AddWire(kind Kind, width int, name string) (*Wire, error) {
	if width < 1 {
		return nil, fmt.Errorf("rtl: invalid width %d for signal %q", width, name)
	}
	if kind == Const {
		return nil, fmt.Errorf("rtl: constants are created with Const")
	}
	temporary := false
	if name == "" {
		name = b.tempName("tmp")
		temporary = true
	}
	if _, ok := b.byName[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	w := &Wire{
		Name:      name,
		Width:     width,
		Kind:      kind,
		id:        len(b.wires),
		temporary: temporary,
	}
	b.wires = append(b.wires, w)
	b.byName[name] = w
	return w, nil
}

func (b *Block) tempName(prefix string) string {
	for {
		name := fmt.Sprintf("%s%d", prefix, b.temps)
		b.temps++
		if _, ok := b.byName[name]; !ok && !b.reserved[name] {
			return name
		}
	}
}

func (b *Block) mustWire(kind Kind, width int, name string) *Wire {
	w, err := b.AddWire(kind, width, name)
	if err != nil {
		panic(err)
	}
	return w
}

// Input creates an input wire. It panics if the name is already used or
// the width is invalid; use AddWire to handle those cases as errors.
func (b *Block) Input(width int, name string) *Wire {
	return b.mustWire(Input, width, name)
}

// Output creates an output wire. It panics like Input.
func (b *Block) Output(width int, name string) *Wire {
	return b.mustWire(Output, width, name)
}

// Register creates a register wire. It panics like Input.
func (b *Block) Register(width int, name string) *Wire {
	return b.mustWire(Register, width, name)
}

// Wire creates a plain wire; an empty name creates a temporary. It panics
// like Input.
func (b *Block) Wire(width int, name string) *Wire {
	return b.mustWire(Plain, width, name)
}

// Const creates a constant wire of the given width. A width of zero uses
// the minimal width holding the value.
func (b *Block) Const(value uint64, width int) *Wire {
	if width <= 0 {
		width = 1
		for v := value >> 1; v != 0; v >>= 1 {
			width++
		}
	}
	w := &Wire{
		Name:      b.tempName(fmt.Sprintf("const%d_", value)),
		Width:     width,
		Kind:      Const,
		Value:     value,
		id:        len(b.wires),
		temporary: true,
	}
	w.Value &= w.Mask()
	b.wires = append(b.wires, w)
	b.byName[w.Name] = w
	return w
}

// NewMemory creates a memory descriptor with a fresh id. The initial
// content may be nil.
func (b *Block) NewMemory(name string, addrWidth, dataWidth int,
	initial map[uint64]uint64) *Memory {

	m := &Memory{
		ID:        b.mems,
		Name:      name,
		AddrWidth: addrWidth,
		DataWidth: dataWidth,
		Initial:   initial,
	}
	b.mems++
	return m
}

// Rename changes the name of the wire. The new name must be unused.
func (b *Block) Rename(w *Wire, name string) error {
	if name == "" {
		return fmt.Errorf("rtl: empty name for %s", w)
	}
	if b.byName[w.Name] != w {
		return fmt.Errorf("rtl: %s is not part of the block", w)
	}
	if other, ok := b.byName[name]; ok && other != w {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	delete(b.byName, w.Name)
	w.Name = name
	w.temporary = false
	b.byName[name] = w
	return nil
}

// WireByName returns the wire with the name.
func (b *Block) WireByName(name string) (*Wire, bool) {
	w, ok := b.byName[name]
	return w, ok
}

// Wires returns all wires in creation order.
func (b *Block) Wires() []*Wire {
	out := make([]*Wire, len(b.wires))
	copy(out, b.wires)
	return out
}

// Nets returns all nets in creation order.
func (b *Block) Nets() []*Net {
	out := make([]*Net, len(b.nets))
	copy(out, b.nets)
	return out
}

// WiresOfKind returns the wires of the given kinds in creation order.
func (b *Block) WiresOfKind(kinds ...Kind) []*Wire {
	var out []*Wire
	for _, w := range b.wires {
		for _, k := range kinds {
			if w.Kind == k {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

// NetsOfOp returns the nets with the given operations in creation order.
func (b *Block) NetsOfOp(ops ...Op) []*Net {
	var out []*Net
	for _, n := range b.nets {
		for _, op := range ops {
			if n.Op == op {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

func arity(op Op) (int, bool) {
	switch op {
	case WIRE, NOT, SELECT, REG, MEMREAD:
		return 1, true
	case AND, OR, XOR, ADD, SUB, MUL, LT, GT, EQ:
		return 2, true
	case MUX, MEMWRITE:
		return 3, true
	case CONCAT:
		return -1, true
	default:
		return 0, false
	}
}

// AddNet creates a net with the operation, arguments and destinations.
// SELECT, MEMREAD and MEMWRITE nets carry parameters and are created with
// AddSelect, AddMemRead and AddMemWrite.
func (b *Block) AddNet(op Op, args, dests []*Wire) (*Net, error) {
	switch op {
	case SELECT, MEMREAD, MEMWRITE:
		return nil, fmt.Errorf("rtl: %s nets need parameters", op.Name())
	}
	return b.addNet(&Net{Op: op, Args: args, Dests: dests})
}

// AddSelect creates a SELECT net. Bit sel[0] of arg becomes the least
// significant bit of dest.
func (b *Block) AddSelect(arg *Wire, sel []int, dest *Wire) (*Net, error) {
	for _, s := range sel {
		if s < 0 || s >= arg.Width {
			return nil, fmt.Errorf("rtl: select index %d out of range for %s",
				s, arg)
		}
	}
	return b.addNet(&Net{
		Op:    SELECT,
		Args:  []*Wire{arg},
		Dests: []*Wire{dest},
		Sel:   append([]int(nil), sel...),
	})
}

// AddMemRead creates a memory read port.
func (b *Block) AddMemRead(mem *Memory, addr, data *Wire) (*Net, error) {
	if mem == nil {
		return nil, fmt.Errorf("rtl: memory read without memory")
	}
	return b.addNet(&Net{
		Op:    MEMREAD,
		Args:  []*Wire{addr},
		Dests: []*Wire{data},
		Mem:   mem,
	})
}

// AddMemWrite creates a memory write port guarded by the write enable.
func (b *Block) AddMemWrite(mem *Memory, addr, data, enable *Wire) (*Net, error) {
	if mem == nil {
		return nil, fmt.Errorf("rtl: memory write without memory")
	}
	return b.addNet(&Net{
		Op:   MEMWRITE,
		Args: []*Wire{addr, data, enable},
		Mem:  mem,
	})
}

// SetNext connects the next value of the register. It can be called only
// once per register.
func (b *Block) SetNext(reg, next *Wire) (*Net, error) {
	if reg.Kind != Register {
		return nil, fmt.Errorf("rtl: %s is not a register", reg.Name)
	}
	if reg.driver != nil {
		return nil, fmt.Errorf("%w: %s", ErrNextAssigned, reg.Name)
	}
	return b.addNet(&Net{Op: REG, Args: []*Wire{next}, Dests: []*Wire{reg}})
}

// Assign drives dest from src with a passthrough net.
func (b *Block) Assign(dest, src *Wire) (*Net, error) {
	return b.addNet(&Net{Op: WIRE, Args: []*Wire{src}, Dests: []*Wire{dest}})
}

// Apply creates a net for the operation with a fresh temporary destination
// and returns the destination.
func (b *Block) Apply(op Op, args ...*Wire) (*Wire, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("rtl: %s without arguments", op.Name())
	}
	var width int
	switch op {
	case WIRE, NOT:
		width = args[0].Width
	case AND, OR, XOR, SUB:
		width = maxWidth(args...)
	case ADD:
		width = maxWidth(args...) + 1
	case MUL:
		for _, a := range args {
			width += a.Width
		}
	case LT, GT, EQ:
		width = 1
	case MUX:
		if len(args) != 3 {
			return nil, fmt.Errorf("rtl: MUX needs 3 arguments, got %d", len(args))
		}
		width = maxWidth(args[0], args[1])
	case CONCAT:
		for _, a := range args {
			width += a.Width
		}
	default:
		return nil, fmt.Errorf("rtl: Apply does not support %s", op.Name())
	}
	dest, err := b.AddWire(Plain, width, "")
	if err != nil {
		return nil, err
	}
	if _, err := b.AddNet(op, args, []*Wire{dest}); err != nil {
		return nil, err
	}
	return dest, nil
}

func maxWidth(args ...*Wire) int {
	var width int
	for _, a := range args {
		if a.Width > width {
			width = a.Width
		}
	}
	return width
}

func (b *Block) addNet(n *Net) (*Net, error) {
	want, ok := arity(n.Op)
	if !ok {
		return nil, Internalf("unknown operation %s", n.Op)
	}
	if want >= 0 && len(n.Args) != want {
		return nil, fmt.Errorf("rtl: %s needs %d arguments, got %d",
			n.Op.Name(), want, len(n.Args))
	}
	if n.Op == CONCAT && len(n.Args) == 0 {
		return nil, fmt.Errorf("rtl: CONCAT without arguments")
	}
	for _, a := range n.Args {
		if a == nil {
			return nil, fmt.Errorf("rtl: %s with nil argument", n.Op.Name())
		}
	}
	wantDests := 1
	if n.Op == MEMWRITE {
		wantDests = 0
	}
	if len(n.Dests) != wantDests {
		return nil, fmt.Errorf("rtl: %s needs %d destinations, got %d",
			n.Op.Name(), wantDests, len(n.Dests))
	}
	for _, d := range n.Dests {
		switch {
		case d.driver != nil:
			return nil, fmt.Errorf("%w: %s", ErrMultipleDrivers, d.Name)
		case d.Kind == Input || d.Kind == Const:
			return nil, fmt.Errorf("%w: %s %s", ErrNotDrivable, d.Kind, d.Name)
		case d.Kind == Register && n.Op != REG:
			return nil, fmt.Errorf("%w: register %s is driven with SetNext",
				ErrNotDrivable, d.Name)
		}
	}

	n.id = len(b.nets)
	b.nets = append(b.nets, n)
	for _, d := range n.Dests {
		d.driver = n
	}
	for _, a := range n.Args {
		a.users = append(a.users, n)
	}
	return n, nil
}

// Dump returns a debug listing of the block.
func (b *Block) Dump() string {
	var sb strings.Builder
	for _, w := range b.wires {
		fmt.Fprintf(&sb, "%s\t%s\n", w.Kind, w)
	}
	for _, n := range b.nets {
		fmt.Fprintf(&sb, "%04d\t%s\n", n.id, n)
	}
	return sb.String()
}
