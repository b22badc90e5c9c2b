package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/analysis"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <blif-file>",
	Short: "Show net and signal statistics of a BLIF netlist",
	Long: `Import the netlist and print the number of nets per operation and the
number of signals and bits per signal kind.

Examples:
  netlist stats adder.blif
  netlist stats --no-merge statem.blif`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	nl, err := importFile(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Model: %s\n", nl.Model)
	if len(nl.Clocks) > 0 {
		fmt.Fprintf(out, "Clocks: %v\n", nl.Clocks)
	}
	fmt.Fprintln(out)
	analysis.Collect(nl.Block).Print(out)
	return nil
}
