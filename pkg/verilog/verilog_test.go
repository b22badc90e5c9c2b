package verilog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/rtl"
)

func TestCheckName(t *testing.T) {
	valid := []string{"abc", "a", "BC", "Kabc", "B_ac", "_asdvqa", "_Bs_",
		"fd$oeoe", "_B$$s", "B", strings.Repeat("a", MaxNameLength)}
	for _, name := range valid {
		if err := CheckName(name); err != nil {
			t.Errorf("CheckName(%q) failed: %v", name, err)
		}
	}

	invalid := []string{"carne asda", "", "asd%kask", "flipin'", " jklol",
		strings.Repeat("a", MaxNameLength+1), strings.Repeat("a", 2000), "wire", "module", "9lives", "a[0]"}
	for _, name := range invalid {
		err := CheckName(name)
		var nerr *NameError
		if !errors.As(err, &nerr) {
			t.Errorf("CheckName(%q) = %v, expected *NameError", name, err)
			continue
		}
		if nerr.Name != name {
			t.Errorf("NameError.Name = %q, expected %q", nerr.Name, name)
		}
	}
}

func TestIsReserved(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"wire", true},
		{"always", true},
		{"uwire", true},
		{"endmodule", true},
		{"Wire", false},
		{"data", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsReserved(tt.word); got != tt.want {
			t.Errorf("IsReserved(%q) = %v, expected %v", tt.word, got, tt.want)
		}
	}
}

func TestExportAnd(t *testing.T) {
	b := rtl.NewBlock()
	a := b.Input(2, "a")
	c := b.Input(2, "b")
	o := b.Output(2, "o")
	if _, err := b.AddNet(rtl.AND, []*rtl.Wire{a, c}, []*rtl.Wire{o}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Export(&buf, b, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"module toplevel(a, b, o, clk);",
		"    input[1:0] a;",
		"    input clk;",
		"    output[1:0] o;",
		"    assign o = a & b;",
		"    always @( posedge clk )",
		"endmodule",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExportReservedName(t *testing.T) {
	b := rtl.NewBlock()
	in := b.Input(1, "wire")
	o := b.Output(1, "o")
	if _, err := b.AddNet(rtl.NOT, []*rtl.Wire{in}, []*rtl.Wire{o}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := Export(&buf, b, nil)
	var nerr *NameError
	if !errors.As(err, &nerr) || nerr.Name != "wire" {
		t.Fatalf("expected NameError for wire, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("partial output written on error")
	}

	if err := b.Rename(in, "data"); err != nil {
		t.Fatal(err)
	}
	if err := Export(&buf, b, nil); err != nil {
		t.Fatalf("Export after rename failed: %v", err)
	}
	if !strings.Contains(buf.String(), "assign o = ~data;") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestExportNameCollisions(t *testing.T) {
	b := rtl.NewBlock()
	b.Input(1, "clk")

	var buf bytes.Buffer
	if err := Export(&buf, b, nil); err == nil {
		t.Errorf("expected clock port collision")
	}
	if err := Export(&buf, b, &Options{ModuleName: "reg"}); err == nil {
		t.Errorf("expected invalid module name")
	}
	if err := Export(&buf, b, &Options{ModuleName: "top", ClockName: "clock"}); err != nil {
		t.Errorf("Export with renamed clock failed: %v", err)
	}
	if !strings.Contains(buf.String(), "module top(clk, clock);") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestExportRegisterAndMux(t *testing.T) {
	b := rtl.NewBlock()
	zero := b.Input(1, "zero")
	out := b.Output(3, "counter_output")
	cnt := b.Register(3, "counter")

	one := b.Const(1, 0)
	inc, err := b.Apply(rtl.ADD, cnt, one)
	if err != nil {
		t.Fatal(err)
	}
	next, err := b.Apply(rtl.MUX, inc, b.Const(0, 3), zero)
	if err != nil {
		t.Fatal(err)
	}
	b.SetNext(cnt, next)
	b.Assign(out, cnt)

	var buf bytes.Buffer
	if err := Export(&buf, b, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	text := buf.String()
	for _, want := range []string{
		"    reg[2:0] counter;",
		"    wire[3:0] " + inc.Name + ";",
		"    assign " + one.Name + " = 1;",
		"    assign " + inc.Name + " = counter + " + one.Name + ";",
		"    assign " + next.Name + " = zero ? ",
		"        counter <= " + next.Name + ";",
		"    assign counter_output = counter;",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestExportRom(t *testing.T) {
	b := rtl.NewBlock()
	a := b.Input(3, "a")
	c := b.Input(3, "b")
	o := b.Output(3, "o")

	sum, err := b.Apply(rtl.ADD, a, c)
	if err != nil {
		t.Fatal(err)
	}
	addr := b.Wire(3, "addr")
	if _, err := b.AddSelect(sum, []int{0, 1, 2}, addr); err != nil {
		t.Fatal(err)
	}
	rom := b.NewMemory("rom", 3, 3, map[uint64]uint64{0: 1, 1: 2, 2: 5, 5: 0})
	if _, err := b.AddMemRead(rom, addr, o); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Export(&buf, b, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	text := buf.String()
	for _, want := range []string{
		"    reg[2:0] mem_0[7:0];",
		"    initial begin",
		"        mem_0[0]=3'h1;",
		"        mem_0[2]=3'h5;",
		"        mem_0[7]=3'h0;",
		"    assign addr = {" + sum.Name + "[2], " + sum.Name + "[1], " + sum.Name + "[0]};",
		"    assign o = mem_0[addr];",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if n := strings.Count(text, "=3'h"); n != 8 {
		t.Errorf("initial block has %d entries, expected 8", n)
	}
}

func TestExportMemoryPorts(t *testing.T) {
	b := rtl.NewBlock()
	addr := b.Input(2, "addr")
	data := b.Input(8, "data")
	we := b.Input(1, "we")
	we2 := b.Input(1, "we2")
	o := b.Output(8, "o")

	ram := b.NewMemory("ram", 2, 8, nil)
	b.AddMemRead(ram, addr, o)
	b.AddMemWrite(ram, addr, data, we)
	b.AddMemWrite(ram, addr, data, we2)

	var buf bytes.Buffer
	if err := Export(&buf, b, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	text := buf.String()
	if n := strings.Count(text, "mem_0[3:0];"); n != 1 {
		t.Errorf("memory declared %d times, expected once:\n%s", n, text)
	}
	if strings.Contains(text, "initial begin") {
		t.Errorf("unexpected initial block for RAM")
	}
	for _, want := range []string{
		"        if (we) begin\n                mem_0[addr] <= data;\n        end",
		"        if (we2) begin",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestExportUnknownOp(t *testing.T) {
	b := rtl.NewBlock()
	a := b.Input(1, "a")
	o := b.Output(1, "o")
	n, err := b.Assign(o, a)
	if err != nil {
		t.Fatal(err)
	}
	n.Op = rtl.Op(rtl.NumOps + 3)

	var buf bytes.Buffer
	err = Export(&buf, b, nil)
	var ierr *rtl.InternalError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected InternalError, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("partial output written on error")
	}
}
