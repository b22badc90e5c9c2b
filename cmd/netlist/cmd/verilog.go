package cmd

import (
	"io"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/verilog"
	"github.com/spf13/cobra"
)

var (
	outputFile string
	moduleName string
	noHeader   bool
)

var verilogCmd = &cobra.Command{
	Use:   "verilog <blif-file>",
	Short: "Export a BLIF netlist as a Verilog module",
	Long: `Import a BLIF netlist and write it as a synthesizable Verilog module.
Signal names must be valid Verilog identifiers; the export fails otherwise.

Examples:
  netlist verilog adder.blif
  netlist verilog --module adder -o adder.v adder.blif`,
	Args: cobra.ExactArgs(1),
	RunE: runVerilog,
}

func init() {
	rootCmd.AddCommand(verilogCmd)

	verilogCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	verilogCmd.Flags().StringVarP(&moduleName, "module", "m", "", "module name")
	verilogCmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the generator comment")
}

func runVerilog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if moduleName != "" {
		cfg.ModuleName = moduleName
	}
	nl, err := importFile(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	opts := cfg.ExportOptions()
	opts.Header = !noHeader
	return writeOutput(cmd, outputFile, func(w io.Writer) error {
		return verilog.Export(w, nl.Block, opts)
	})
}
