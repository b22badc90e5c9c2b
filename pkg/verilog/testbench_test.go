package verilog

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/rtl"
	"github.com/OpenTraceLab/OpenTraceRTL/pkg/sim"
	"github.com/OpenTraceLab/OpenTraceRTL/pkg/trace"
)

func counterBlock(t *testing.T) *rtl.Block {
	t.Helper()
	b := rtl.NewBlock()
	zero := b.Input(1, "zero")
	out := b.Output(3, "counter_output")
	cnt := b.Register(3, "counter")

	inc, err := b.Apply(rtl.ADD, cnt, b.Const(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	next, err := b.Apply(rtl.MUX, inc, b.Const(0, 3), zero)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.SetNext(cnt, next); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Assign(out, cnt); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestTestbenchCounter(t *testing.T) {
	b := counterBlock(t)
	s, err := sim.New(b, trace.New("counter_output", "zero"))
	if err != nil {
		t.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(1))
	for cycle := 0; cycle < 15; cycle++ {
		zero := uint64(0)
		if rnd.Intn(4) == 0 {
			zero = 1
		}
		if err := s.Step(map[string]uint64{"zero": zero}); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := Testbench(&buf, b, s.Trace(), nil); err != nil {
		t.Fatalf("Testbench failed: %v", err)
	}
	text := buf.String()
	for _, want := range []string{
		"module tb();",
		"    reg clk;",
		"    reg zero;",
		"    wire[2:0] counter_output;",
		"    toplevel block(.zero(zero), .counter_output(counter_output), .clk(clk));",
		"        #1 clk = ~clk;",
		"        $dumpfile (\"waveform.vcd\");",
		"        clk = 0;",
		"        $finish;",
		"endmodule",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if n := strings.Count(text, "        #2\n"); n != 15 {
		t.Errorf("%d clock advances, expected 15", n)
	}
	if n := strings.Count(text, "zero = 1'd"); n != 15 {
		t.Errorf("%d input assignments, expected 15", n)
	}
}

func TestTestbenchOptions(t *testing.T) {
	b := counterBlock(t)
	tr := trace.New("zero")
	tr.Add("zero", 1)

	opts := &TestbenchOptions{
		ModuleName: "counter_top",
		DumpFile:   "counter.vcd",
		HalfPeriod: 0.5,
	}
	var buf bytes.Buffer
	if err := Testbench(&buf, b, tr, opts); err != nil {
		t.Fatalf("Testbench failed: %v", err)
	}
	text := buf.String()
	for _, want := range []string{
		"    counter_top block(",
		"        #0.5 clk = ~clk;",
		"$dumpfile (\"counter.vcd\");",
		"        zero = 1'd1;\n\n        #1\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestTestbenchErrors(t *testing.T) {
	b := counterBlock(t)

	var buf bytes.Buffer
	if err := Testbench(&buf, b, trace.New("counter_output"), nil); err == nil ||
		!strings.Contains(err.Error(), "missing from trace") {
		t.Errorf("expected missing input error, got %v", err)
	}

	tr := trace.New("zero")
	tr.Add("zero", 3)
	if err := Testbench(&buf, b, tr, nil); err == nil {
		t.Errorf("expected width error")
	}
	if err := Testbench(&buf, b, nil, nil); err == nil {
		t.Errorf("expected error without trace")
	}
	if err := Testbench(&buf, b, trace.New("zero"), &TestbenchOptions{HalfPeriod: -1}); err == nil {
		t.Errorf("expected half period error")
	}
	if buf.Len() != 0 {
		t.Errorf("partial output written on error")
	}
}
