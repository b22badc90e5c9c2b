package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/netgraph"
	"github.com/chewxy/sexp"
	"github.com/spf13/cobra"
)

var graphFormat string

var graphCmd = &cobra.Command{
	Use:   "graph <blif-file>",
	Short: "Render the net graph of a BLIF netlist",
	Long: `Build the node and edge graph of the netlist and render it in trivial
graph format (tgf), as a graphviz digraph (dot) or as an s-expression
(sexp).

Examples:
  netlist graph adder.blif
  netlist graph --format dot adder.blif | dot -Tpdf > adder.pdf
  netlist graph --format sexp -o adder.sexp adder.blif`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	graphCmd.Flags().StringVarP(&graphFormat, "format", "f", "tgf", "output format: tgf, dot or sexp")
}

func runGraph(cmd *cobra.Command, args []string) error {
	var render func(g *netgraph.Graph, w io.Writer) error
	switch graphFormat {
	case "tgf":
		render = (*netgraph.Graph).WriteTGF
	case "dot":
		render = (*netgraph.Graph).WriteDot
	case "sexp":
		render = writeCheckedSExpr(cmd)
	default:
		return fmt.Errorf("unknown graph format %q (expected tgf, dot or sexp)", graphFormat)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	nl, err := importFile(cmd, cfg, args[0])
	if err != nil {
		return err
	}
	g := netgraph.Build(nl.Block)
	logf(cmd, "Graph: %d nodes, %d edges\n", len(g.Nodes), len(g.Edges))

	return writeOutput(cmd, outputFile, func(w io.Writer) error {
		return render(g, w)
	})
}

// writeCheckedSExpr renders the s-expression and, in verbose mode, parses
// it back with a general purpose reader.
func writeCheckedSExpr(cmd *cobra.Command) func(g *netgraph.Graph, w io.Writer) error {
	return func(g *netgraph.Graph, w io.Writer) error {
		var buf bytes.Buffer
		if err := g.WriteSExpr(&buf); err != nil {
			return err
		}
		if verbose {
			exprs, err := sexp.ParseString(buf.String())
			if err != nil {
				logf(cmd, "Warning: s-expression check failed: %v\n", err)
			} else if len(exprs) > 0 && !exprs[0].IsLeaf() {
				logf(cmd, "S-expression: %d leaves\n", exprs[0].LeafCount())
			}
		}
		_, err := w.Write(buf.Bytes())
		return err
	}
}
