// Package config loads the netlist tool configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/OpenTraceLab/OpenTraceRTL/internal/schema"
	"github.com/OpenTraceLab/OpenTraceRTL/pkg/blif"
	"github.com/OpenTraceLab/OpenTraceRTL/pkg/verilog"
)

// Config controls import and export of netlists.
type Config struct {
	MergeIOVectors bool      `json:"mergeIOVectors"` // group base[i] ports into buses (default: true)
	ModuleName     string    `json:"moduleName"`     // exported module (default: "toplevel")
	ClockName      string    `json:"clockName"`      // design clock (default: "clk")
	Testbench      Testbench `json:"testbench"`
}

// Testbench holds the test bench settings.
type Testbench struct {
	DumpFile   string  `json:"dumpFile"`   // waveform file (default: "waveform.vcd")
	HalfPeriod float64 `json:"halfPeriod"` // clock half period (default: 1)
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		MergeIOVectors: true,
		ModuleName:     "toplevel",
		ClockName:      "clk",
		Testbench: Testbench{
			DumpFile:   "waveform.vcd",
			HalfPeriod: 1,
		},
	}
}

// Load reads a JSON config file. Fields missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON config document.
func Parse(data []byte) (*Config, error) {
	v, err := schema.Default()
	if err != nil {
		return nil, err
	}
	if err := v.ValidateJSON(schema.Config, data); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c := DefaultConfig()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate fills in empty fields and checks the names.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.ModuleName == "" {
		c.ModuleName = def.ModuleName
	}
	if c.ClockName == "" {
		c.ClockName = def.ClockName
	}
	if c.Testbench.DumpFile == "" {
		c.Testbench.DumpFile = def.Testbench.DumpFile
	}
	if c.Testbench.HalfPeriod <= 0 {
		c.Testbench.HalfPeriod = def.Testbench.HalfPeriod
	}
	if err := verilog.CheckName(c.ModuleName); err != nil {
		return fmt.Errorf("config: module name: %w", err)
	}
	if err := verilog.CheckName(c.ClockName); err != nil {
		return fmt.Errorf("config: clock name: %w", err)
	}
	return nil
}

// ImportOptions returns the BLIF importer options.
func (c *Config) ImportOptions() *blif.Options {
	return &blif.Options{
		MergeIOVectors: c.MergeIOVectors,
		ClockName:      c.ClockName,
	}
}

// ExportOptions returns the Verilog exporter options.
func (c *Config) ExportOptions() *verilog.Options {
	opts := verilog.DefaultOptions()
	opts.ModuleName = c.ModuleName
	opts.ClockName = c.ClockName
	return opts
}

// TestbenchOptions returns the test bench generator options.
func (c *Config) TestbenchOptions() *verilog.TestbenchOptions {
	opts := verilog.DefaultTestbenchOptions()
	opts.ModuleName = c.ModuleName
	opts.ClockName = c.ClockName
	opts.DumpFile = c.Testbench.DumpFile
	opts.HalfPeriod = c.Testbench.HalfPeriod
	return opts
}
