// Package verilog exports rtl blocks as synthesizable Verilog modules and
// generates test benches replaying recorded traces.
package verilog

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/rtl"
)

// maxInitialAddrWidth limits the size of emitted initial blocks.
const maxInitialAddrWidth = 20

// Options controls the Verilog exporter.
type Options struct {
	ModuleName string // top level module name (default: "toplevel")
	ClockName  string // implicit clock port (default: "clk")
	Header     bool   // emit the generator comment header (default: true)
}

// DefaultOptions returns the exporter defaults.
func DefaultOptions() *Options {
	return &Options{
		ModuleName: "toplevel",
		ClockName:  "clk",
		Header:     true,
	}
}

// Validate fills in empty fields and checks the names.
func (o *Options) Validate() error {
	if o.ModuleName == "" {
		o.ModuleName = "toplevel"
	}
	if o.ClockName == "" {
		o.ClockName = "clk"
	}
	if err := CheckName(o.ModuleName); err != nil {
		return err
	}
	return CheckName(o.ClockName)
}

// Export writes the block as a synthesizable Verilog module. Nothing is
// written unless the whole module renders successfully. A nil opts uses
// DefaultOptions.
func Export(w io.Writer, b *rtl.Block, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := checkNames(b, opts.ClockName); err != nil {
		return err
	}

	var buf bytes.Buffer
	e := &exporter{
		out:  &buf,
		b:    b,
		opts: opts,
		mems: memories(b),
	}
	if err := e.header(); err != nil {
		return err
	}
	if err := e.combinational(); err != nil {
		return err
	}
	if err := e.sequential(); err != nil {
		return err
	}
	fmt.Fprintln(e.out, "endmodule")

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("verilog: failed to write module: %w", err)
	}
	return nil
}

func memName(m *rtl.Memory) string {
	return fmt.Sprintf("mem_%d", m.ID)
}

// checkNames verifies every signal name of the block.
func checkNames(b *rtl.Block, clock string) error {
	reserved := map[string]string{
		clock: "collides with the clock port",
	}
	for _, m := range memories(b) {
		reserved[memName(m)] = "collides with a memory array"
	}
	for _, w := range b.Wires() {
		if err := CheckName(w.Name); err != nil {
			return err
		}
		if reason, ok := reserved[w.Name]; ok {
			return &NameError{Name: w.Name, Reason: reason}
		}
	}
	return nil
}

// memories returns one descriptor per memory id in order of first use.
func memories(b *rtl.Block) []*rtl.Memory {
	var result []*rtl.Memory
	seen := make(map[int]bool)
	for _, n := range b.NetsOfOp(rtl.MEMREAD, rtl.MEMWRITE) {
		if n.Mem == nil || seen[n.Mem.ID] {
			continue
		}
		seen[n.Mem.ID] = true
		result = append(result, n.Mem)
	}
	return result
}

func vectorDecl(width int) string {
	if width == 1 {
		return ""
	}
	return fmt.Sprintf("[%d:0]", width-1)
}

func ports(b *rtl.Block, clock string) []string {
	var names []string
	for _, w := range b.WiresOfKind(rtl.Input, rtl.Output) {
		names = append(names, w.Name)
	}
	return append(names, clock)
}

type exporter struct {
	out  *bytes.Buffer
	b    *rtl.Block
	opts *Options
	mems []*rtl.Memory
}

func (e *exporter) header() error {
	if e.opts.Header {
		fmt.Fprintln(e.out, "// Generated automatically by OpenTraceRTL")
		fmt.Fprintln(e.out, "// As one initial test of synthesis, map to FPGA with:")
		fmt.Fprintf(e.out, "//   yosys -p \"synth_xilinx -top %s\" thisfile.v\n\n",
			e.opts.ModuleName)
	}
	fmt.Fprintf(e.out, "module %s(%s);\n", e.opts.ModuleName,
		strings.Join(ports(e.b, e.opts.ClockName), ", "))

	for _, w := range e.b.WiresOfKind(rtl.Input) {
		fmt.Fprintf(e.out, "    input%s %s;\n", vectorDecl(w.Width), w.Name)
	}
	fmt.Fprintf(e.out, "    input %s;\n", e.opts.ClockName)
	for _, w := range e.b.WiresOfKind(rtl.Output) {
		fmt.Fprintf(e.out, "    output%s %s;\n", vectorDecl(w.Width), w.Name)
	}
	fmt.Fprintln(e.out)

	for _, w := range e.b.WiresOfKind(rtl.Register) {
		fmt.Fprintf(e.out, "    reg%s %s;\n", vectorDecl(w.Width), w.Name)
	}
	for _, w := range e.b.WiresOfKind(rtl.Plain, rtl.Const) {
		fmt.Fprintf(e.out, "    wire%s %s;\n", vectorDecl(w.Width), w.Name)
	}
	fmt.Fprintln(e.out)

	for _, m := range e.mems {
		fmt.Fprintf(e.out, "    reg%s %s[%d:0];\n", vectorDecl(m.DataWidth),
			memName(m), m.Depth()-1)
	}
	if len(e.mems) > 0 {
		fmt.Fprintln(e.out)
	}

	for _, m := range e.mems {
		if m.Initial == nil {
			continue
		}
		if m.AddrWidth > maxInitialAddrWidth {
			return fmt.Errorf("verilog: memory %s: %d address bits too many for an initial block",
				m.Name, m.AddrWidth)
		}
		fmt.Fprintln(e.out, "    initial begin")
		for addr := uint64(0); addr < m.Depth(); addr++ {
			fmt.Fprintf(e.out, "        %s[%d]=%d'h%x;\n", memName(m), addr,
				m.DataWidth, m.Read(addr))
		}
		fmt.Fprintln(e.out, "    end")
		fmt.Fprintln(e.out)
	}
	return nil
}

func (e *exporter) combinational() error {
	for _, w := range e.b.WiresOfKind(rtl.Const) {
		fmt.Fprintf(e.out, "    assign %s = %d;\n", w.Name, w.Value)
	}

	for _, n := range e.b.Nets() {
		switch n.Op {
		case rtl.WIRE:
			e.assign(n, n.Args[0].Name)

		case rtl.NOT:
			e.assign(n, "~"+n.Args[0].Name)

		case rtl.AND, rtl.OR, rtl.XOR, rtl.ADD, rtl.SUB, rtl.MUL, rtl.LT, rtl.GT:
			e.assign(n, fmt.Sprintf("%s %s %s", n.Args[0].Name, n.Op, n.Args[1].Name))

		case rtl.EQ:
			e.assign(n, fmt.Sprintf("%s == %s", n.Args[0].Name, n.Args[1].Name))

		case rtl.MUX:
			// Arguments are (false, true, select).
			e.assign(n, fmt.Sprintf("%s ? %s : %s",
				n.Args[2].Name, n.Args[1].Name, n.Args[0].Name))

		case rtl.CONCAT:
			var names []string
			for _, a := range n.Args {
				names = append(names, a.Name)
			}
			e.assign(n, "{"+strings.Join(names, ", ")+"}")

		case rtl.SELECT:
			arg := n.Args[0]
			bits := make([]string, len(n.Sel))
			for i, s := range n.Sel {
				// Verilog concatenation starts from the most significant bit.
				idx := len(n.Sel) - 1 - i
				if arg.Width == 1 {
					bits[idx] = arg.Name
				} else {
					bits[idx] = fmt.Sprintf("%s[%d]", arg.Name, s)
				}
			}
			e.assign(n, "{"+strings.Join(bits, ", ")+"}")

		case rtl.MEMREAD:
			e.assign(n, fmt.Sprintf("%s[%s]", memName(n.Mem), n.Args[0].Name))

		case rtl.REG, rtl.MEMWRITE:

		default:
			return rtl.Internalf("cannot export %s", n)
		}
	}
	fmt.Fprintln(e.out)
	return nil
}

func (e *exporter) assign(n *rtl.Net, expr string) {
	fmt.Fprintf(e.out, "    assign %s = %s;\n", n.Dests[0].Name, expr)
}

func (e *exporter) sequential() error {
	fmt.Fprintf(e.out, "    always @( posedge %s )\n", e.opts.ClockName)
	fmt.Fprintln(e.out, "    begin")
	for _, n := range e.b.NetsOfOp(rtl.REG, rtl.MEMWRITE) {
		switch n.Op {
		case rtl.REG:
			fmt.Fprintf(e.out, "        %s <= %s;\n", n.Dests[0].Name, n.Args[0].Name)

		case rtl.MEMWRITE:
			fmt.Fprintf(e.out, "        if (%s) begin\n", n.Args[2].Name)
			fmt.Fprintf(e.out, "                %s[%s] <= %s;\n", memName(n.Mem),
				n.Args[0].Name, n.Args[1].Name)
			fmt.Fprintln(e.out, "        end")

		default:
			return rtl.Internalf("unexpected sequential net %s", n)
		}
	}
	fmt.Fprintln(e.out, "    end")
	return nil
}
