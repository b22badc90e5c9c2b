package blif

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File represents a BLIF document. Only documents with exactly one model
// are imported.
type File struct {
	Models []*Model `@@+`
}

// Model represents one .model ... .end block.
// Example: .model full_adder .inputs x y cin .outputs sum cout ... .end
type Model struct {
	Pos      lexer.Position
	Name     string     `KwModel @Ident`
	Inputs   []string   `KwInputs @Ident*`
	Outputs  []string   `KwOutputs @Ident*`
	Commands []*Command `@@*`
	End      bool       `@KwEnd`
}

// Command is a logic definition or a flip-flop instance.
type Command struct {
	Names     *Names     `  @@`
	AsyncFlop *AsyncFlop `| @@`
	SyncFlop  *SyncFlop  `| @@`
}

// Names is a logic definition: the signals followed by the cover rows.
// The last signal is the output.
// Example: .names a b y 11 1
type Names struct {
	Pos     lexer.Position
	Signals []string `KwNames @Ident+`
	Cover   []string `@Cover*`
}

// Output returns the output signal name.
func (n *Names) Output() string {
	return n.Signals[len(n.Signals)-1]
}

// AsyncFlop is a flip-flop with asynchronous reset.
// Example: .subckt $_DFF_PN0_ C=clk R=rst D=d Q=q
type AsyncFlop struct {
	Pos   lexer.Position
	Type  string `KwSubckt @( "$_DFF_PN0_" | "$_DFF_PP0_" )`
	Clock string `"C" Assign @Ident`
	Reset string `"R" Assign @Ident`
	D     string `"D" Assign @Ident`
	Q     string `"Q" Assign @Ident`
}

// SyncFlop is a rising edge latch without reset.
// Example: .latch d q re clk 2
type SyncFlop struct {
	Pos   lexer.Position
	D     string `KwLatch @Ident`
	Q     string `@Ident`
	Clock string `"re" @Ident`
	Init  string `@Cover?`
}
