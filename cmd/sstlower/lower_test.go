package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sstlower/internal/driver"
)

const cliKrate = `{
  "functions": [
    {"name": "id", "mode": "exec",
     "params": [{"name": "x", "typ": "u8"}],
     "ret": {"name": "r", "typ": "u8"},
     "body": {"kind": "var", "name": "x", "typ": "u8"}},
    {"name": "bad", "mode": "exec",
     "body": {"kind": "call", "fun": "nowhere", "typ": "()", "args": []}}
  ]
}`

func writeKrate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "krate.json")
	if err := os.WriteFile(path, []byte(cliKrate), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunLowerText(t *testing.T) {
	var out, errOut bytes.Buffer
	opts := lowerOptions{format: "text", ui: uiModeOff, driverOpts: driver.Options{MaxDiagnostics: 10}}
	failed, err := runLower(context.Background(), &out, &errOut, writeKrate(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !failed {
		t.Fatal("expected failure for unknown callee")
	}
	if !strings.Contains(out.String(), "exec fn id") {
		t.Errorf("stdout lacks SST dump:\n%s", out.String())
	}
	stderr := errOut.String()
	for _, want := range []string{"LOW4010", "could not find function nowhere", "lowered 2 functions (0 cached, 1 failed)"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr lacks %q:\n%s", want, stderr)
		}
	}
}

func TestRunLowerJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	opts := lowerOptions{format: "json", ui: uiModeOff, driverOpts: driver.Options{MaxDiagnostics: 10}}
	failed, err := runLower(context.Background(), &out, &errOut, writeKrate(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !failed {
		t.Fatal("expected failure")
	}
	var payload lowerOutputJSON
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(payload.Functions) != 2 || payload.Functions[0].Name != "bad" || payload.Functions[0].OK {
		t.Fatalf("unexpected functions: %+v", payload.Functions)
	}
	if !payload.Functions[1].OK || payload.Functions[1].SST == "" {
		t.Fatalf("id should lower: %+v", payload.Functions[1])
	}
	if payload.Diagnostics.Count != 1 || payload.Diagnostics.Diagnostics[0].Code != "LOW4010" {
		t.Fatalf("unexpected diagnostics: %+v", payload.Diagnostics)
	}
}

func TestRunLowerMissingFile(t *testing.T) {
	var out, errOut bytes.Buffer
	_, err := runLower(context.Background(), &out, &errOut, filepath.Join(t.TempDir(), "none.json"), lowerOptions{format: "text", ui: uiModeOff})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{" On ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestRunLowerTimings(t *testing.T) {
	var out, errOut bytes.Buffer
	opts := lowerOptions{format: "json", ui: uiModeOff, timings: true, driverOpts: driver.Options{Jobs: 1}}
	if _, err := runLower(context.Background(), &out, &errOut, writeKrate(t), opts); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"read krate", "// 2 functions", "lower", "slowest functions:"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("timings lack %q:\n%s", want, errOut.String())
		}
	}
}
