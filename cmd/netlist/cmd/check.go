package cmd

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/analysis"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <blif-file>...",
	Short: "Check BLIF netlists for combinational loops",
	Long: `Import each netlist and search it for a combinational loop, a cycle of
signals not broken by a register. The command fails on the first netlist
containing a loop and prints the signals on it.

Examples:
  netlist check adder.blif
  netlist check -v designs/*.blif`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, filename := range args {
		nl, err := importFile(cmd, cfg, filename)
		if err != nil {
			return err
		}
		loop := analysis.FindCycle(nl.Block)
		if loop == nil {
			fmt.Fprintf(out, "%s: no combinational loops\n", filename)
			continue
		}
		names := make([]string, len(loop))
		for i, w := range loop {
			names[i] = w.Name
		}
		return fmt.Errorf("%s: combinational loop: %s", filename, strings.Join(names, " -> "))
	}
	return nil
}
