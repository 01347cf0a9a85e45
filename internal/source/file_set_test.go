package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lib.rs", []byte("fn f() {\n    x + y\n}\n"))

	start, end := fs.Resolve(Span{File: id, Start: 13, End: 18})
	if start != (LineCol{Line: 2, Col: 5}) {
		t.Errorf("start = %+v, want 2:5", start)
	}
	if end != (LineCol{Line: 2, Col: 10}) {
		t.Errorf("end = %+v, want 2:10", end)
	}

	f := fs.Get(id)
	if got := f.GetLine(2); got != "    x + y" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(1); got != "fn f() {" {
		t.Errorf("GetLine(1) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q, want empty", got)
	}
	if f.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag to be set")
	}
}

func TestFileSetUnknownFile(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(3) != nil {
		t.Fatal("expected nil for unknown file id")
	}
	start, _ := fs.Resolve(Span{File: 3, Start: 4, End: 6})
	if start != (LineCol{Line: 1, Col: 5}) {
		t.Errorf("fallback start = %+v", start)
	}
}

func TestFileSetLoadNormalizesCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	if err := os.WriteFile(path, []byte("a\r\nb\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("expected FileNormalizedCRLF flag")
	}
	if got, ok := fs.GetByPath(path); !ok || got.ID != id {
		t.Error("GetByPath did not find the loaded file")
	}
}

func TestFileSetLoadMissingKeepsPath(t *testing.T) {
	fs := NewFileSet()
	id, err := fs.Load(filepath.Join(t.TempDir(), "nope.rs"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if f := fs.Get(id); f == nil || f.Flags&FileMissing == 0 {
		t.Fatal("missing file should still be registered with FileMissing")
	}
}

func TestSpanString(t *testing.T) {
	if got := (Span{File: 2, Start: 4, End: 9}).String(); got != "2:4-9" {
		t.Fatalf("String() = %q", got)
	}
}

func TestFormatPath(t *testing.T) {
	f := &File{Path: "/srv/krates/very/deep/directory/tree/lib.rs"}
	tests := []struct {
		mode PathMode
		base string
		want string
	}{
		{PathBasename, "", "lib.rs"},
		{PathAuto, "", "lib.rs"},
		{PathRelative, "/srv/krates", "very/deep/directory/tree/lib.rs"},
		{PathAbsolute, "", "/srv/krates/very/deep/directory/tree/lib.rs"},
	}
	for _, tt := range tests {
		if got := f.FormatPath(tt.mode, tt.base); got != tt.want {
			t.Errorf("FormatPath(%d) = %q, want %q", tt.mode, got, tt.want)
		}
	}
	short := &File{Path: "src/lib.rs"}
	if got := short.FormatPath(PathAuto, ""); got != "src/lib.rs" {
		t.Errorf("auto kept %q", got)
	}
}
