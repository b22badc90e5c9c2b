package cmd

import (
	"fmt"
	"math/rand"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/rtl"
	"github.com/OpenTraceLab/OpenTraceRTL/pkg/sim"
	"github.com/OpenTraceLab/OpenTraceRTL/pkg/trace"
	"github.com/spf13/cobra"
)

var (
	cycles    int
	seed      int64
	zeroInput bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <blif-file>",
	Short: "Simulate a BLIF netlist and record a JSON trace",
	Long: `Simulate the netlist for a number of clock cycles with random input
values, or all zero inputs with --zero, and write the trace of every input
and output as JSON. The trace can be passed to the testbench command.

Examples:
  netlist simulate --cycles 16 counter.blif
  netlist simulate --zero --cycles 4 -o trace.json counter.blif`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	addStimulusFlags(simulateCmd)
}

func addStimulusFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&cycles, "cycles", "n", 10, "number of simulated cycles")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random stimulus seed")
	cmd.Flags().BoolVar(&zeroInput, "zero", false, "drive all inputs with zero")
}

// stimulate simulates the block with generated input values and returns
// the recorded trace.
func stimulate(b *rtl.Block) (*trace.Trace, error) {
	if cycles < 1 {
		return nil, fmt.Errorf("cycle count must be positive, got %d", cycles)
	}
	s, err := sim.New(b, nil)
	if err != nil {
		return nil, err
	}
	rnd := rand.New(rand.NewSource(seed))
	inputs := b.WiresOfKind(rtl.Input)
	for i := 0; i < cycles; i++ {
		values := make(map[string]uint64, len(inputs))
		for _, in := range inputs {
			if !zeroInput {
				values[in.Name] = rnd.Uint64() & in.Mask()
			} else {
				values[in.Name] = 0
			}
		}
		if err := s.Step(values); err != nil {
			return nil, err
		}
	}
	return s.Trace(), nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	nl, err := importFile(cmd, cfg, args[0])
	if err != nil {
		return err
	}
	tr, err := stimulate(nl.Block)
	if err != nil {
		return err
	}
	logf(cmd, "Simulated %d cycles\n", tr.Len())
	return writeOutput(cmd, outputFile, tr.Write)
}
