// Package trace records per-cycle signal values.
//
// A Trace maps signal names to ordered value sequences, one value per
// simulated cycle. Traces are produced by the simulator, consumed by the
// Verilog test bench generator and stored as JSON:
//
//	{"signals": [{"name": "a", "values": [0, 1, 1]}]}
package trace

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceRTL/internal/schema"
)

// Trace holds recorded signal values.
type Trace struct {
	names  []string
	values map[string][]uint64
}

// New creates an empty trace recording the named signals.
func New(names ...string) *Trace {
	t := &Trace{
		values: make(map[string][]uint64),
	}
	for _, name := range names {
		t.track(name)
	}
	return t
}

func (t *Trace) track(name string) {
	if _, ok := t.values[name]; ok {
		return
	}
	t.names = append(t.names, name)
	t.values[name] = nil
}

// Names returns the recorded signal names in insertion order.
func (t *Trace) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Add appends a value for the signal, tracking it if needed.
func (t *Trace) Add(name string, value uint64) {
	t.track(name)
	t.values[name] = append(t.values[name], value)
}

// Values returns the recorded values of the signal.
func (t *Trace) Values(name string) ([]uint64, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Len returns the number of recorded cycles.
func (t *Trace) Len() int {
	var n int
	for _, v := range t.values {
		if len(v) > n {
			n = len(v)
		}
	}
	return n
}

// Check verifies that every signal has a value for every cycle.
func (t *Trace) Check() error {
	n := t.Len()
	for _, name := range t.names {
		if len(t.values[name]) != n {
			return fmt.Errorf("trace: signal %q has %d values, expected %d",
				name, len(t.values[name]), n)
		}
	}
	return nil
}

type signalJSON struct {
	Name   string   `json:"name"`
	Values []uint64 `json:"values"`
}

type traceJSON struct {
	Signals []signalJSON `json:"signals"`
}

func (t *Trace) document() traceJSON {
	out := traceJSON{
		Signals: make([]signalJSON, 0, len(t.names)),
	}
	for _, name := range t.names {
		values := t.values[name]
		if values == nil {
			values = []uint64{}
		}
		out.Signals = append(out.Signals, signalJSON{Name: name, Values: values})
	}
	return out
}

// MarshalJSON encodes the trace in signal order.
func (t *Trace) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.document())
}

// Write writes the trace as indented JSON.
func (t *Trace) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.document())
}

// Parse reads a JSON trace, validating it against the trace schema.
func Parse(r io.Reader) (*Trace, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("trace: failed to read: %w", err)
	}
	v, err := schema.Default()
	if err != nil {
		return nil, err
	}
	if err := v.ValidateJSON(schema.Trace, data); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	var in traceJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("trace: failed to decode: %w", err)
	}
	t := New()
	for _, sig := range in.Signals {
		if _, ok := t.values[sig.Name]; ok {
			return nil, fmt.Errorf("trace: duplicate signal %q", sig.Name)
		}
		t.track(sig.Name)
		t.values[sig.Name] = append([]uint64{}, sig.Values...)
	}
	if err := t.Check(); err != nil {
		return nil, err
	}
	return t, nil
}
