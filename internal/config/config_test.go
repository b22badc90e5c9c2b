package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErr    bool
		merge      bool
		module     string
		halfPeriod float64
	}{
		{"empty", `{}`, false, true, "toplevel", 1},
		{"module", `{"moduleName":"adder"}`, false, true, "adder", 1},
		{"no merge", `{"mergeIOVectors":false}`, false, false, "toplevel", 1},
		{"testbench", `{"testbench":{"halfPeriod":0.5}}`, false, true, "toplevel", 0.5},
		{"reserved module", `{"moduleName":"module"}`, true, false, "", 0},
		{"bad identifier", `{"moduleName":"9adder"}`, true, false, "", 0},
		{"negative period", `{"testbench":{"halfPeriod":-1}}`, true, false, "", 0},
		{"unknown field", `{"verbose":true}`, true, false, "", 0},
		{"truncated", `{"moduleName":`, true, false, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", c)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if c.MergeIOVectors != tt.merge || c.ModuleName != tt.module ||
				c.Testbench.HalfPeriod != tt.halfPeriod {
				t.Errorf("unexpected config %+v", c)
			}
			if c.Testbench.DumpFile != "waveform.vcd" || c.ClockName != "clk" {
				t.Errorf("defaults not kept: %+v", c)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netlist.json")
	if err := os.WriteFile(path, []byte(`{"moduleName":"fsm","clockName":"clock"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := c.ExportOptions(); got.ModuleName != "fsm" || got.ClockName != "clock" || !got.Header {
		t.Errorf("unexpected export options %+v", got)
	}
	if got := c.ImportOptions(); got.ClockName != "clock" || !got.MergeIOVectors {
		t.Errorf("unexpected import options %+v", got)
	}
	if got := c.TestbenchOptions(); got.ModuleName != "fsm" || got.InstanceName != "block" ||
		got.HalfPeriod != 1 {
		t.Errorf("unexpected test bench options %+v", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
