package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceRTL/internal/config"
	"github.com/OpenTraceLab/OpenTraceRTL/pkg/blif"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	configPath string
	noMerge    bool
)

var rootCmd = &cobra.Command{
	Use:   "netlist",
	Short: "BLIF netlist importer and Verilog exporter",
	Long: `Import flattened BLIF netlists as produced by logic synthesis and
export them as Verilog, Verilog test benches and graph drawings.

Examples:
  netlist verilog adder.blif                       # Print the Verilog module
  netlist testbench --cycles 20 counter.blif       # Test bench with random stimulus
  netlist graph --format dot adder.blif | dot -Tsvg > adder.svg
  netlist check adder.blif                         # Look for combinational loops`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"JSON configuration file")
	rootCmd.PersistentFlags().BoolVar(&noMerge, "no-merge", false,
		"keep base[i] ports as separate 1-bit signals")
}

func logf(cmd *cobra.Command, format string, args ...any) {
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
	}
}

// loadConfig returns the configuration with the command line overrides
// applied.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
		logf(cmd, "Loaded configuration: %s\n", configPath)
	}
	if noMerge {
		cfg.MergeIOVectors = false
	}
	return cfg, nil
}

// importFile reads and imports a BLIF file.
func importFile(cmd *cobra.Command, cfg *config.Config, filename string) (*blif.Netlist, error) {
	logf(cmd, "Importing BLIF file: %s\n", filename)

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	nl, err := blif.Import(f, cfg.ImportOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	logf(cmd, "Model %s: %d signals, %d nets\n",
		nl.Model, len(nl.Block.Wires()), len(nl.Block.Nets()))
	return nl, nil
}

// writeOutput renders into memory and then writes the result to the file,
// or to the command output when the file name is empty. Nothing is written
// when rendering fails.
func writeOutput(cmd *cobra.Command, filename string, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if filename == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logf(cmd, "Wrote %s (%d bytes)\n", filename, buf.Len())
	return nil
}
