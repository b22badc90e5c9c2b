package verilog

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/rtl"
	"github.com/OpenTraceLab/OpenTraceRTL/pkg/trace"
)

// TestbenchOptions controls the test bench generator.
type TestbenchOptions struct {
	ModuleName   string  // module under test (default: "toplevel")
	InstanceName string  // instance of the module under test (default: "block")
	ClockName    string  // clock port (default: "clk")
	DumpFile     string  // waveform file (default: "waveform.vcd")
	HalfPeriod   float64 // clock half period in time units (default: 1)
}

// DefaultTestbenchOptions returns the test bench defaults.
func DefaultTestbenchOptions() *TestbenchOptions {
	return &TestbenchOptions{
		ModuleName:   "toplevel",
		InstanceName: "block",
		ClockName:    "clk",
		DumpFile:     "waveform.vcd",
		HalfPeriod:   1,
	}
}

// Validate fills in empty fields and checks the options.
func (o *TestbenchOptions) Validate() error {
	def := DefaultTestbenchOptions()
	if o.ModuleName == "" {
		o.ModuleName = def.ModuleName
	}
	if o.InstanceName == "" {
		o.InstanceName = def.InstanceName
	}
	if o.ClockName == "" {
		o.ClockName = def.ClockName
	}
	if o.DumpFile == "" {
		o.DumpFile = def.DumpFile
	}
	if o.HalfPeriod == 0 {
		o.HalfPeriod = def.HalfPeriod
	}
	if o.HalfPeriod < 0 {
		return fmt.Errorf("verilog: invalid clock half period %v", o.HalfPeriod)
	}
	if strings.ContainsAny(o.DumpFile, "\"\\\n") {
		return fmt.Errorf("verilog: invalid dump file name %q", o.DumpFile)
	}
	for _, name := range []string{o.ModuleName, o.InstanceName, o.ClockName} {
		if err := CheckName(name); err != nil {
			return err
		}
	}
	return nil
}

func formatDelay(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// Testbench writes a Verilog test bench that instantiates the exported
// module and replays the input values recorded in the trace, one clock
// period per trace cycle. Every input of the block must be traced. A nil
// opts uses DefaultTestbenchOptions.
func Testbench(w io.Writer, b *rtl.Block, tr *trace.Trace, opts *TestbenchOptions) error {
	if opts == nil {
		opts = DefaultTestbenchOptions()
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := checkNames(b, opts.ClockName); err != nil {
		return err
	}
	if tr == nil {
		return fmt.Errorf("verilog: test bench without trace")
	}

	inputs := b.WiresOfKind(rtl.Input)
	cycles := tr.Len()
	values := make([][]uint64, len(inputs))
	for i, in := range inputs {
		v, ok := tr.Values(in.Name)
		if !ok {
			return fmt.Errorf("verilog: input %s missing from trace", in.Name)
		}
		if len(v) != cycles {
			return fmt.Errorf("verilog: input %s has %d values, expected %d",
				in.Name, len(v), cycles)
		}
		for cycle, value := range v {
			if value&^in.Mask() != 0 {
				return fmt.Errorf("verilog: cycle %d: value %d does not fit input %s",
					cycle, value, in)
			}
		}
		values[i] = v
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "module tb();")
	fmt.Fprintf(&buf, "    reg %s;\n", opts.ClockName)
	for _, in := range inputs {
		fmt.Fprintf(&buf, "    reg%s %s;\n", vectorDecl(in.Width), in.Name)
	}
	for _, out := range b.WiresOfKind(rtl.Output) {
		fmt.Fprintf(&buf, "    wire%s %s;\n", vectorDecl(out.Width), out.Name)
	}
	fmt.Fprintln(&buf)

	var conns []string
	for _, name := range ports(b, opts.ClockName) {
		conns = append(conns, fmt.Sprintf(".%s(%s)", name, name))
	}
	fmt.Fprintf(&buf, "    %s %s(%s);\n\n", opts.ModuleName, opts.InstanceName,
		strings.Join(conns, ", "))

	fmt.Fprintln(&buf, "    always")
	fmt.Fprintf(&buf, "        #%s %s = ~%s;\n\n", formatDelay(opts.HalfPeriod),
		opts.ClockName, opts.ClockName)

	fmt.Fprintln(&buf, "    initial begin")
	fmt.Fprintf(&buf, "        $dumpfile (\"%s\");\n", opts.DumpFile)
	fmt.Fprintln(&buf, "        $dumpvars;")
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "        %s = 0;\n", opts.ClockName)

	period := formatDelay(2 * opts.HalfPeriod)
	for cycle := 0; cycle < cycles; cycle++ {
		for i, in := range inputs {
			fmt.Fprintf(&buf, "        %s = %d'd%d;\n", in.Name, in.Width, values[i][cycle])
		}
		fmt.Fprintf(&buf, "\n        #%s\n", period)
	}

	fmt.Fprintln(&buf, "        $finish;")
	fmt.Fprintln(&buf, "    end")
	fmt.Fprintln(&buf, "endmodule")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("verilog: failed to write test bench: %w", err)
	}
	return nil
}
