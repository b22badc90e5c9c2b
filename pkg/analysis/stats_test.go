package analysis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/rtl"
)

func TestCollect(t *testing.T) {
	b := rtl.NewBlock()
	a := b.Input(4, "a")
	c := b.Input(4, "c")
	o := b.Output(4, "o")
	r := b.Register(4, "r")
	sum, err := b.Apply(rtl.ADD, a, c)
	if err != nil {
		t.Fatal(err)
	}
	x, err := b.Apply(rtl.XOR, sum, r)
	if err != nil {
		t.Fatal(err)
	}
	b.Assign(o, x)
	if _, err := b.SetNext(r, x); err != nil {
		t.Fatal(err)
	}

	s := Collect(b)
	if s.Ops[rtl.ADD] != 1 || s.Ops[rtl.XOR] != 1 || s.Ops[rtl.WIRE] != 1 || s.Ops[rtl.REG] != 1 {
		t.Errorf("unexpected op counts %v", s.Ops)
	}
	if s.NumNets() != 4 {
		t.Errorf("NumNets = %d", s.NumNets())
	}
	if s.Kinds[rtl.Input] != 2 || s.Bits[rtl.Input] != 8 {
		t.Errorf("inputs: %d signals, %d bits", s.Kinds[rtl.Input], s.Bits[rtl.Input])
	}
	if s.Kinds[rtl.Register] != 1 || s.Kinds[rtl.Output] != 1 {
		t.Errorf("unexpected kind counts %v", s.Kinds)
	}
	if s.NumWires() != len(b.Wires()) {
		t.Errorf("NumWires = %d, block has %d", s.NumWires(), len(b.Wires()))
	}
	if s.Memories != 0 {
		t.Errorf("Memories = %d", s.Memories)
	}
}

func TestCollectMemories(t *testing.T) {
	b := rtl.NewBlock()
	mem := b.NewMemory("ram", 2, 8, nil)
	addr := b.Input(2, "addr")
	data := b.Input(8, "data")
	we := b.Input(1, "we")
	q := b.Output(8, "q")
	if _, err := b.AddMemRead(mem, addr, q); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddMemWrite(mem, addr, data, we); err != nil {
		t.Fatal(err)
	}
	if s := Collect(b); s.Memories != 1 || s.Ops[rtl.MEMREAD] != 1 || s.Ops[rtl.MEMWRITE] != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestPrint(t *testing.T) {
	b := rtl.NewBlock()
	a := b.Input(1, "a")
	o := b.Output(1, "o")
	not, err := b.Apply(rtl.NOT, a)
	if err != nil {
		t.Fatal(err)
	}
	b.Assign(o, not)

	var buf bytes.Buffer
	Collect(b).Print(&buf)
	out := buf.String()
	for _, want := range []string{"NOT", "WIRE", "Total", "input", "register"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "MUL") {
		t.Errorf("unused operations should be omitted:\n%s", out)
	}
}
