package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceRTL/pkg/trace"
	"github.com/OpenTraceLab/OpenTraceRTL/pkg/verilog"
	"github.com/spf13/cobra"
)

var (
	traceFile string
	dumpFile  string
)

var testbenchCmd = &cobra.Command{
	Use:   "testbench <blif-file>",
	Short: "Generate a Verilog test bench for a BLIF netlist",
	Long: `Generate a Verilog test bench that instantiates the exported module
and replays the input values of a trace. Without --trace the inputs are
generated by simulating the netlist, as the simulate command does.

Examples:
  netlist testbench --trace trace.json counter.blif
  netlist testbench --cycles 32 --seed 7 -o counter_tb.v counter.blif`,
	Args: cobra.ExactArgs(1),
	RunE: runTestbench,
}

func init() {
	rootCmd.AddCommand(testbenchCmd)

	testbenchCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	testbenchCmd.Flags().StringVarP(&traceFile, "trace", "t", "", "JSON trace with the input values")
	testbenchCmd.Flags().StringVar(&dumpFile, "dump", "", "waveform dump file")
	addStimulusFlags(testbenchCmd)
}

func readTrace(filename string) (*trace.Trace, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()
	return trace.Parse(f)
}

func runTestbench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	nl, err := importFile(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	var tr *trace.Trace
	if traceFile != "" {
		if tr, err = readTrace(traceFile); err != nil {
			return err
		}
		logf(cmd, "Loaded trace %s: %d cycles\n", traceFile, tr.Len())
	} else {
		if tr, err = stimulate(nl.Block); err != nil {
			return err
		}
		logf(cmd, "Simulated %d cycles\n", tr.Len())
	}

	opts := cfg.TestbenchOptions()
	if dumpFile != "" {
		opts.DumpFile = dumpFile
	}
	return writeOutput(cmd, outputFile, func(w io.Writer) error {
		return verilog.Testbench(w, nl.Block, tr, opts)
	})
}
