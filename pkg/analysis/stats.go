package analysis

import (
	"fmt"
	"io"

	"github.com/markkurossi/tabulate"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/rtl"
)

// Stats counts the nets and signals of a block.
type Stats struct {
	Ops      [rtl.NumOps]int
	Kinds    map[rtl.Kind]int
	Bits     map[rtl.Kind]int
	Memories int
}

// NumNets returns the total number of nets.
func (s *Stats) NumNets() int {
	var count int
	for _, c := range s.Ops {
		count += c
	}
	return count
}

// NumWires returns the total number of signals.
func (s *Stats) NumWires() int {
	var count int
	for _, c := range s.Kinds {
		count += c
	}
	return count
}

// Collect computes the statistics of the block.
func Collect(b *rtl.Block) *Stats {
	s := &Stats{
		Kinds: make(map[rtl.Kind]int),
		Bits:  make(map[rtl.Kind]int),
	}
	mems := make(map[int]bool)
	for _, n := range b.Nets() {
		if int(n.Op) < rtl.NumOps {
			s.Ops[n.Op]++
		}
		if n.Mem != nil {
			mems[n.Mem.ID] = true
		}
	}
	for _, w := range b.Wires() {
		s.Kinds[w.Kind]++
		s.Bits[w.Kind] += w.Width
	}
	s.Memories = len(mems)
	return s
}

// Print renders the statistics as two tables: nets per operation and
// signals per kind.
func (s *Stats) Print(w io.Writer) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Op").SetAlign(tabulate.ML)
	tab.Header("Symbol").SetAlign(tabulate.MC)
	tab.Header("Count").SetAlign(tabulate.MR)
	tab.Header("%").SetAlign(tabulate.MR)

	total := s.NumNets()
	for op := 0; op < rtl.NumOps; op++ {
		count := s.Ops[op]
		if count == 0 {
			continue
		}
		row := tab.Row()
		row.Column(rtl.Op(op).Name())
		row.Column(rtl.Op(op).String())
		row.Column(fmt.Sprintf("%d", count))
		row.Column(fmt.Sprintf("%.2f%%", float64(count)/float64(total)*100))
	}
	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column(fmt.Sprintf("%d", total)).SetFormat(tabulate.FmtBold)
	row.Column("")
	tab.Print(w)

	tab = tabulate.New(tabulate.UnicodeLight)
	tab.Header("Kind").SetAlign(tabulate.ML)
	tab.Header("Signals").SetAlign(tabulate.MR)
	tab.Header("Bits").SetAlign(tabulate.MR)
	for _, kind := range []rtl.Kind{rtl.Input, rtl.Output, rtl.Register, rtl.Plain, rtl.Const} {
		row := tab.Row()
		row.Column(kind.String())
		row.Column(fmt.Sprintf("%d", s.Kinds[kind]))
		row.Column(fmt.Sprintf("%d", s.Bits[kind]))
	}
	if s.Memories > 0 {
		row := tab.Row()
		row.Column("memory")
		row.Column(fmt.Sprintf("%d", s.Memories))
		row.Column("")
	}
	row = tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d", s.NumWires())).SetFormat(tabulate.FmtBold)
	row.Column("")
	tab.Print(w)
}
