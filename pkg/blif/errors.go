package blif

import (
	"fmt"
	"strings"
)

// FormatError reports malformed or unsupported netlist input.
type FormatError struct {
	Line  int    // source line, 0 when unknown
	Msg   string // what is wrong
	Cover string // offending cover rows, if any
	Err   error  // underlying cause, if any
}

func (e *FormatError) Error() string {
	var sb strings.Builder
	sb.WriteString("blif: ")
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Msg)
	if e.Cover != "" {
		fmt.Fprintf(&sb, " %q", e.Cover)
	}
	if e.Err != nil && !strings.Contains(e.Err.Error(), e.Msg) {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
