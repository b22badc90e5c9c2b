package trace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTraceRecord(t *testing.T) {
	tr := New("a", "b")
	tr.Add("a", 1)
	tr.Add("b", 0)
	tr.Add("a", 2)

	if tr.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", tr.Len())
	}
	if err := tr.Check(); err == nil {
		t.Errorf("expected ragged trace to fail Check")
	}
	tr.Add("b", 1)
	if err := tr.Check(); err != nil {
		t.Errorf("Check failed: %v", err)
	}
	if got := strings.Join(tr.Names(), ","); got != "a,b" {
		t.Errorf("Names() = %s", got)
	}
}

func TestTraceJSON(t *testing.T) {
	tr := New("x")
	for _, v := range []uint64{3, 0, 7} {
		tr.Add("x", v)
	}
	tr.Add("en", 1)
	tr.Add("en", 0)
	tr.Add("en", 1)

	var buf bytes.Buffer
	if err := tr.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	back, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	values, ok := back.Values("x")
	if !ok || len(values) != 3 || values[2] != 7 {
		t.Errorf("unexpected values %v", values)
	}
	if got := strings.Join(back.Names(), ","); got != "x,en" {
		t.Errorf("signal order not preserved: %s", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `signals`},
		{"schema", `{"signals":[{"name":"a","values":[-3]}]}`},
		{"ragged", `{"signals":[{"name":"a","values":[1]},{"name":"b","values":[]}]}`},
		{"duplicate", `{"signals":[{"name":"a","values":[1]},{"name":"a","values":[0]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestTraceMarshalJSON(t *testing.T) {
	tr := New("b", "a")
	tr.Add("b", 5)
	tr.Add("a", 1)

	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"signals":[{"name":"b","values":[5]},{"name":"a","values":[1]}]}`
	if string(data) != want {
		t.Errorf("json.Marshal = %s, expected %s", data, want)
	}

	empty, err := json.Marshal(New("x"))
	if err != nil {
		t.Fatal(err)
	}
	if string(empty) != `{"signals":[{"name":"x","values":[]}]}` {
		t.Errorf("json.Marshal of empty trace = %s", empty)
	}
}
