package blif

import (
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
)

// Parser represents a BLIF parser.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new BLIF parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(BLIFLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a BLIF document from a reader.
func (p *Parser) Parse(r io.Reader) (*File, error) {
	file, err := p.parser.Parse("", r)
	if err != nil {
		return nil, parseError(err)
	}
	return file, nil
}

// ParseString parses a BLIF document from a string.
func (p *Parser) ParseString(input string) (*File, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, parseError(err)
	}
	return file, nil
}

func parseError(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &FormatError{
			Line: perr.Position().Line,
			Msg:  perr.Message(),
			Err:  err,
		}
	}
	return &FormatError{Msg: "parse error", Err: err}
}
