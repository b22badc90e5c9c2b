package blif

import (
	"fmt"
	"strings"
)

// Trit is one input column of a cover row.
type Trit byte

// Cover symbols.
const (
	Zero     Trit = '0'
	One      Trit = '1'
	DontCare Trit = '-'
)

// Row is one cover row: input columns and the output bit.
type Row struct {
	Inputs []Trit
	Output Trit
}

func (r Row) String() string {
	if len(r.Inputs) == 0 {
		return string(rune(r.Output))
	}
	return string(r.Inputs) + " " + string(rune(r.Output))
}

// Matches reports whether the input values select the row.
func (r Row) Matches(inputs []bool) bool {
	for i, t := range r.Inputs {
		switch t {
		case Zero:
			if inputs[i] {
				return false
			}
		case One:
			if !inputs[i] {
				return false
			}
		}
	}
	return true
}

// Cover is the ordered row set of a logic definition.
type Cover []Row

// ParseCover normalises the cover atoms of a logic definition with the
// given number of inputs. With no inputs every atom is an output bit;
// otherwise atoms come in input/output pairs.
func ParseCover(numInputs int, atoms []string) (Cover, error) {
	var cover Cover
	if numInputs == 0 {
		for _, a := range atoms {
			out, err := parseOutput(a)
			if err != nil {
				return nil, err
			}
			cover = append(cover, Row{Output: out})
		}
		return cover, nil
	}
	if len(atoms)%2 != 0 {
		return nil, fmt.Errorf("cover row without output")
	}
	for i := 0; i < len(atoms); i += 2 {
		in, outAtom := atoms[i], atoms[i+1]
		if len(in) != numInputs {
			return nil, fmt.Errorf("cover row %q has %d columns, expected %d",
				in, len(in), numInputs)
		}
		row := Row{
			Inputs: make([]Trit, len(in)),
		}
		for j := 0; j < len(in); j++ {
			switch t := Trit(in[j]); t {
			case Zero, One, DontCare:
				row.Inputs[j] = t
			default:
				return nil, fmt.Errorf("invalid cover symbol %q", in[j])
			}
		}
		out, err := parseOutput(outAtom)
		if err != nil {
			return nil, err
		}
		row.Output = out
		cover = append(cover, row)
	}
	return cover, nil
}

func parseOutput(atom string) (Trit, error) {
	if len(atom) != 1 || (atom[0] != '0' && atom[0] != '1') {
		return 0, fmt.Errorf("invalid cover output %q", atom)
	}
	return Trit(atom[0]), nil
}

func (c Cover) String() string {
	rows := make([]string, len(c))
	for i, r := range c {
		rows[i] = r.String()
	}
	return strings.Join(rows, ", ")
}

// Equal compares two covers row by row.
func (c Cover) Equal(o Cover) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i].Output != o[i].Output || string(c[i].Inputs) != string(o[i].Inputs) {
			return false
		}
	}
	return true
}

// Eval evaluates the cover. Rows with output 1 define the on-set; a cover
// whose rows all have output 0 defines the off-set. An empty cover is
// constant false.
func (c Cover) Eval(inputs []bool) bool {
	if len(c) == 0 {
		return false
	}
	offSet := true
	for _, r := range c {
		if r.Output == One {
			offSet = false
		}
	}
	for _, r := range c {
		if r.Matches(inputs) {
			return !offSet
		}
	}
	return offSet
}

// Shape is one of the cover patterns the importer maps to primitives.
type Shape int

// Supported cover shapes.
const (
	ShapeConst0 Shape = iota
	ShapeConst1
	ShapeBuffer
	ShapeNot
	ShapeAnd
	ShapeNor
	ShapeOr
	ShapeXor
	ShapeMux
	ShapeMuxComplement
)

var shapeNames = map[Shape]string{
	ShapeConst0:        "const0",
	ShapeConst1:        "const1",
	ShapeBuffer:        "buffer",
	ShapeNot:           "not",
	ShapeAnd:           "and",
	ShapeNor:           "nor",
	ShapeOr:            "or",
	ShapeXor:           "xor",
	ShapeMux:           "mux",
	ShapeMuxComplement: "mux-complement",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("{Shape %d}", s)
}

func row(inputs string, output Trit) Row {
	return Row{Inputs: []Trit(inputs), Output: output}
}

// shapes lists the canonical cover of every shape.
var shapes = []struct {
	shape  Shape
	inputs int
	cover  Cover
}{
	{ShapeConst0, 0, Cover{}},
	{ShapeConst1, 0, Cover{row("", One)}},
	{ShapeBuffer, 1, Cover{row("1", One)}},
	{ShapeNot, 1, Cover{row("0", One)}},
	{ShapeAnd, 2, Cover{row("11", One)}},
	{ShapeNor, 2, Cover{row("00", One)}},
	{ShapeOr, 2, Cover{row("1-", One), row("-1", One)}},
	{ShapeXor, 2, Cover{row("10", One), row("01", One)}},
	{ShapeMux, 3, Cover{row("1-0", One), row("-11", One)}},
	{ShapeMuxComplement, 3, Cover{row("-00", One), row("0-0", One)}},
}

// Shapes returns all supported shapes.
func Shapes() []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.shape
	}
	return out
}

// Arity returns the number of cover inputs of the shape.
func (s Shape) Arity() int {
	for _, e := range shapes {
		if e.shape == s {
			return e.inputs
		}
	}
	return -1
}

// Cover returns the canonical cover of the shape.
func (s Shape) Cover() Cover {
	for _, e := range shapes {
		if e.shape == s {
			out := make(Cover, len(e.cover))
			for i, r := range e.cover {
				out[i] = Row{
					Inputs: append([]Trit(nil), r.Inputs...),
					Output: r.Output,
				}
			}
			return out
		}
	}
	return nil
}

// Classify finds the shape of the cover of a logic definition with the
// given number of inputs.
func Classify(numInputs int, c Cover) (Shape, bool) {
	for _, e := range shapes {
		if e.inputs == numInputs && e.cover.Equal(c) {
			return e.shape, true
		}
	}
	return 0, false
}
