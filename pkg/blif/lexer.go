package blif

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// BLIFLexer defines the lexical structure of flattened BLIF netlists as
// written by Yosys. Newlines carry no meaning: cover rows are recognised by
// their symbols, which can never start a signal name.
var BLIFLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run from # to the end of the line
	{Name: "Comment", Pattern: `#[^\n]*`},

	{Name: "Whitespace", Pattern: `[\s]+`},

	// Model structure
	{Name: "KwModel", Pattern: `\.model\b`},
	{Name: "KwInputs", Pattern: `\.inputs\b`},
	{Name: "KwOutputs", Pattern: `\.outputs\b`},
	{Name: "KwEnd", Pattern: `\.end\b`},

	// Commands
	{Name: "KwNames", Pattern: `\.names\b`},
	{Name: "KwSubckt", Pattern: `\.subckt\b`},
	{Name: "KwLatch", Pattern: `\.latch\b`},

	// Any other dot command; never accepted by the grammar
	{Name: "Directive", Pattern: `\.[A-Za-z_][A-Za-z0-9_]*`},

	{Name: "Assign", Pattern: `=`},

	// Cover rows and latch init values. Symbols other than 0, 1 and - are
	// rejected when the cover is normalised.
	{Name: "Cover", Pattern: `[0-9\-]+`},

	// Signal names, Yosys style
	{Name: "Ident", Pattern: `[a-zA-Z$:\[\]_<>\\/][a-zA-Z0-9$:\[\]_<>\\/.]*`},
})
