package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"sstlower/internal/source"
)

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: source.PathBasename})
	if err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "OBL5003" || d.Severity != "ERROR" || d.Label != "at this exit" {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	if d.Location.File != "lib.rs" || d.Location.StartLine != 2 || d.Location.StartCol != 13 {
		t.Fatalf("unexpected location: %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 1 {
		t.Fatalf("unexpected notes: %+v", d.Notes)
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)
	bag.Merge(sampleBag(fs))
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Diagnostics[0].Notes != nil {
		t.Fatalf("unexpected output: %+v", out)
	}
}
