package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `
[lower]
view_as_spec = true

[driver]
jobs = 4

[trace]
level = "detail"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Lower.ViewAsSpec || cfg.Driver.Jobs != 4 || cfg.Trace.Level != "detail" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.Driver.Cache || cfg.Driver.MaxDiagnostics != 100 || cfg.Trace.Format != "auto" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Path != path {
		t.Fatalf("path = %q", cfg.Path)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[lower\n", "failed to parse TOML"},
		{"unknown key", "[lower]\nfast = true\n", "unknown keys: lower.fast"},
		{"negative jobs", "[driver]\njobs = -1\n", "jobs must not be negative"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", "[trace].level"},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), FileName)
		writeFile(t, path, tt.content)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %v, want substring %q", tt.name, err, tt.want)
		}
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "[driver]\njobs = 2\n")
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := Find(deep)
	if err != nil || !ok {
		t.Fatalf("Find: %v %v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %s", path)
	}
	cfg, err := Resolve("", deep)
	if err != nil || cfg.Driver.Jobs != 2 {
		t.Fatalf("Resolve: %+v %v", cfg, err)
	}
}
