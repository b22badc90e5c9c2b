package verilog

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxNameLength is the longest accepted identifier.
const MaxNameLength = 1024

var reIdentifier = regexp.MustCompile(`^[_A-Za-z][_A-Za-z0-9$]*$`)

var reservedWords = make(map[string]bool)

func init() {
	for _, word := range strings.Fields(`
always and assign automatic begin buf bufif0 bufif1 case casex casez cell
cmos config deassign default defparam design disable edge else end endcase
endconfig endfunction endgenerate endmodule endprimitive endspecify endtable
endtask event for force forever fork function generate genvar highz0 highz1
if ifnone incdir include initial inout input instance integer join large
liblist library localparam macromodule medium module nand negedge nmos nor
noshowcancelled not notif0 notif1 or output parameter pmos posedge primitive
pull0 pull1 pulldown pullup pulsestyle_onevent pulsestyle_ondetect rcmos
real realtime reg release repeat rnmos rpmos rtran rtranif0 rtranif1
scalared showcancelled signed small specify specparam strong0 strong1
supply0 supply1 table task time tran tranif0 tranif1 tri tri0 tri1 triand
trior trireg unsigned use uwire vectored wait wand weak0 weak1 while wire
wor xnor xor`) {
		reservedWords[word] = true
	}
}

// NameError reports a signal or module name that is not a valid Verilog
// identifier.
type NameError struct {
	Name   string
	Reason string
}

func (e *NameError) Error() string {
	name := e.Name
	if len(name) > 40 {
		name = name[:40] + "..."
	}
	return fmt.Sprintf("verilog: name %q %s", name, e.Reason)
}

// IsReserved reports whether the word is a Verilog keyword.
func IsReserved(word string) bool {
	return reservedWords[word]
}

// CheckName verifies that the name can be used as a Verilog identifier
// without escaping.
func CheckName(name string) error {
	switch {
	case len(name) > MaxNameLength:
		return &NameError{
			Name:   name,
			Reason: fmt.Sprintf("is longer than %d characters", MaxNameLength),
		}
	case !reIdentifier.MatchString(name):
		return &NameError{Name: name, Reason: "is not a valid Verilog identifier"}
	case IsReserved(name):
		return &NameError{Name: name, Reason: "is a Verilog reserved keyword"}
	}
	return nil
}
