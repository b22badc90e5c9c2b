package rtl

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by the block mutation API.
var (
	ErrMultipleDrivers = errors.New("rtl: signal already has a driver")
	ErrNextAssigned    = errors.New("rtl: register next value already assigned")
	ErrNotDrivable     = errors.New("rtl: signal cannot be driven")
	ErrDuplicateName   = errors.New("rtl: duplicate signal name")
)

// InternalError reports a graph state the data model should make
// impossible. It is a consistency bug, not bad user input, and callers must
// abort the operation that produced it.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "rtl: internal error: " + e.Msg
}

// Internalf creates an InternalError with a formatted message.
func Internalf(format string, args ...any) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}

// Kind classifies a signal.
type Kind byte

// Signal kinds.
const (
	Plain Kind = iota
	Input
	Output
	Const
	Register
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "wire"
	case Input:
		return "input"
	case Output:
		return "output"
	case Const:
		return "const"
	case Register:
		return "register"
	default:
		return fmt.Sprintf("{Kind %d}", k)
	}
}

// Op specifies the operation of a net.
type Op byte

// Net operations.
const (
	WIRE Op = iota
	NOT
	AND
	OR
	XOR
	ADD
	SUB
	MUL
	LT
	GT
	EQ
	MUX
	CONCAT
	SELECT
	REG
	MEMREAD
	MEMWRITE
)

// NumOps is the number of operation kinds.
const NumOps = int(MEMWRITE) + 1

// String returns the operation symbol used in graph labels.
func (op Op) String() string {
	switch op {
	case WIRE:
		return "w"
	case NOT:
		return "~"
	case AND:
		return "&"
	case OR:
		return "|"
	case XOR:
		return "^"
	case ADD:
		return "+"
	case SUB:
		return "-"
	case MUL:
		return "*"
	case LT:
		return "<"
	case GT:
		return ">"
	case EQ:
		return "="
	case MUX:
		return "x"
	case CONCAT:
		return "c"
	case SELECT:
		return "s"
	case REG:
		return "r"
	case MEMREAD:
		return "m"
	case MEMWRITE:
		return "@"
	default:
		return fmt.Sprintf("{Op %d}", op)
	}
}

// Name returns the upper case mnemonic of the operation.
func (op Op) Name() string {
	switch op {
	case WIRE:
		return "WIRE"
	case NOT:
		return "NOT"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case XOR:
		return "XOR"
	case ADD:
		return "ADD"
	case SUB:
		return "SUB"
	case MUL:
		return "MUL"
	case LT:
		return "LT"
	case GT:
		return "GT"
	case EQ:
		return "EQ"
	case MUX:
		return "MUX"
	case CONCAT:
		return "CONCAT"
	case SELECT:
		return "SELECT"
	case REG:
		return "REG"
	case MEMREAD:
		return "MEMREAD"
	case MEMWRITE:
		return "MEMWRITE"
	default:
		return fmt.Sprintf("{Op %d}", op)
	}
}

// Sequential reports whether the operation breaks combinational paths.
func (op Op) Sequential() bool {
	return op == REG || op == MEMWRITE
}

// Wire is a bit-width tagged signal.
type Wire struct {
	Name  string
	Width int
	Kind  Kind
	Value uint64 // constant value, valid for Const

	id        int
	temporary bool
	driver    *Net
	users     []*Net
}

// ID returns the creation index of the wire within its block.
func (w *Wire) ID() int {
	return w.id
}

// Temporary reports whether the wire name was synthesized by the block.
func (w *Wire) Temporary() bool {
	return w.temporary
}

// Driver returns the net producing the wire, or nil.
func (w *Wire) Driver() *Net {
	return w.driver
}

// Users returns the nets consuming the wire in creation order.
func (w *Wire) Users() []*Net {
	return w.users
}

// Mask returns the bit mask covering the wire width.
func (w *Wire) Mask() uint64 {
	if w.Width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(w.Width)) - 1
}

func (w *Wire) String() string {
	return fmt.Sprintf("%s/%d", w.Name, w.Width)
}

// Memory describes a memory element shared by its read and write ports.
type Memory struct {
	ID        int
	Name      string
	AddrWidth int
	DataWidth int
	Initial   map[uint64]uint64 // static content, nil for RAMs
}

// Depth returns the number of addressable words.
func (m *Memory) Depth() uint64 {
	return uint64(1) << uint(m.AddrWidth)
}

// Read returns the initial content of the address, zero when unset.
func (m *Memory) Read(addr uint64) uint64 {
	if m.Initial == nil {
		return 0
	}
	return m.Initial[addr]
}

// Net is an operation node.
type Net struct {
	Op    Op
	Args  []*Wire
	Dests []*Wire
	Sel   []int   // bit indices for SELECT
	Mem   *Memory // memory for MEMREAD and MEMWRITE

	id int
}

// ID returns the creation index of the net within its block.
func (n *Net) ID() int {
	return n.id
}

// Label returns the operation symbol followed by its parameter.
func (n *Net) Label() string {
	switch n.Op {
	case SELECT:
		parts := make([]string, len(n.Sel))
		for i, s := range n.Sel {
			parts[i] = fmt.Sprintf("%d", s)
		}
		return n.Op.String() + "(" + strings.Join(parts, ", ") + ")"
	case MEMREAD, MEMWRITE:
		if n.Mem != nil {
			return fmt.Sprintf("%s(%d)", n.Op, n.Mem.ID)
		}
	}
	return n.Op.String()
}

func (n *Net) String() string {
	var args, dests []string
	for _, a := range n.Args {
		args = append(args, a.Name)
	}
	for _, d := range n.Dests {
		dests = append(dests, d.Name)
	}
	return fmt.Sprintf("%v %s %v", dests, n.Label(), args)
}
