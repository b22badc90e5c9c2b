package blif

import (
	"errors"
	"testing"
)

func TestParseModel(t *testing.T) {
	input := `
# comment line
.model top
.inputs a b clk
.outputs y q
.names a b y
11 1
.subckt $_DFF_PN0_ C=clk R=rst D=y Q=q
.latch y q2 re clk 2
.end
`
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	file, err := parser.ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(file.Models) != 1 {
		t.Fatalf("Expected 1 model, got %d", len(file.Models))
	}

	m := file.Models[0]
	if m.Name != "top" {
		t.Errorf("Expected model name 'top', got '%s'", m.Name)
	}
	if len(m.Inputs) != 3 || len(m.Outputs) != 2 {
		t.Errorf("Unexpected ports %v %v", m.Inputs, m.Outputs)
	}
	if len(m.Commands) != 3 {
		t.Fatalf("Expected 3 commands, got %d", len(m.Commands))
	}

	names := m.Commands[0].Names
	if names == nil || names.Output() != "y" || len(names.Cover) != 2 {
		t.Errorf("Unexpected logic definition %+v", names)
	}
	if names != nil && names.Pos.Line != 6 {
		t.Errorf("Expected logic definition on line 6, got %d", names.Pos.Line)
	}

	ff := m.Commands[1].AsyncFlop
	if ff == nil {
		t.Fatal("Expected asynchronous flip-flop")
	}
	if ff.Type != "$_DFF_PN0_" || ff.Clock != "clk" || ff.Reset != "rst" ||
		ff.D != "y" || ff.Q != "q" {
		t.Errorf("Unexpected flip-flop %+v", ff)
	}

	latch := m.Commands[2].SyncFlop
	if latch == nil {
		t.Fatal("Expected latch")
	}
	if latch.D != "y" || latch.Q != "q2" || latch.Clock != "clk" || latch.Init != "2" {
		t.Errorf("Unexpected latch %+v", latch)
	}
}

func TestParseYosysNames(t *testing.T) {
	input := `.model m
.inputs $abc$129$n11_1 state[2]
.outputs $auto$fsm_map.cc:238:map_fsm$30[0]
.names $abc$129$n11_1 state[2] $auto$fsm_map.cc:238:map_fsm$30[0]
1- 1
-1 1
.end`
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	file, err := parser.ParseString(input)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	names := file.Models[0].Commands[0].Names
	if names.Output() != "$auto$fsm_map.cc:238:map_fsm$30[0]" {
		t.Errorf("Unexpected output name %q", names.Output())
	}
	if len(names.Signals) != 3 {
		t.Errorf("Expected 3 signals, got %v", names.Signals)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"unknown directive", ".model m\n.inputs a\n.outputs y\n.foo\n.end\n", 4},
		{"missing end", ".model m\n.inputs a\n.outputs y\n", 0},
		{"unknown flop", ".model m\n.inputs a\n.outputs y\n.subckt $_DFF_N_ C=a D=a Q=y\n.end\n", 4},
	}

	parser, err := NewParser()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseString(tt.input)
			var ferr *FormatError
			if !errors.As(err, &ferr) {
				t.Fatalf("Expected *FormatError, got %v", err)
			}
			if tt.line > 0 && ferr.Line != tt.line {
				t.Errorf("Expected error on line %d, got %d (%v)", tt.line, ferr.Line, err)
			}
		})
	}
}
