package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"sstlower/internal/diag"
	"sstlower/internal/source"
)

func sampleBag(fs *source.FileSet) *diag.Bag {
	file := fs.AddVirtual("/home/user/proj/src/lib.rs", []byte("fn f() {\n    let y = x + 1;\n}\n"))
	bag := diag.NewBag(10)
	d := diag.NewError(diag.ObligationPostcondition,
		source.Span{File: file, Start: 21, End: 26},
		"postcondition not satisfied").
		WithLabel("at this exit").
		WithNote(source.Span{File: file, Start: 0, End: 2}, "failed this postcondition")
	bag.Add(d)
	return bag
}

func TestPrettyHeaderAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	bag := sampleBag(fs)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: source.PathBasename, ShowNotes: true})
	out := buf.String()

	for _, want := range []string{
		"lib.rs:2:13: ERROR OBL5003: postcondition not satisfied",
		"2 |     let y = x + 1;",
		" |" + strings.Repeat(" ", 13) + "^~~~~ at this exit",
		"note: lib.rs:1:1: failed this postcondition",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("color codes emitted with Color=false")
	}
}

func TestPrettyPathModes(t *testing.T) {
	tests := []struct {
		name string
		mode source.PathMode
		want string
	}{
		{"absolute", source.PathAbsolute, "/home/user/proj/src/lib.rs:2:13"},
		{"basename", source.PathBasename, "lib.rs:2:13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			var buf bytes.Buffer
			Pretty(&buf, sampleBag(fs), fs, PrettyOpts{PathMode: tt.mode})
			if !strings.HasPrefix(buf.String(), tt.want) {
				t.Fatalf("got %q", buf.String())
			}
		})
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	line := "let 名前 = oops;"
	file := fs.AddVirtual("w.rs", []byte(line+"\n"))
	start := uint32(strings.Index(line, "oops"))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LowerExpectedPure, source.Span{File: file, Start: start, End: start + 4}, "expected pure mathematical expression"))
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	// "let " (4) + two wide runes (4) + " = " (3)
	if !strings.Contains(buf.String(), " | "+strings.Repeat(" ", 11)+"^~~~\n") {
		t.Fatalf("caret misaligned:\n%s", buf.String())
	}
}

func TestPrettyMissingFile(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LowerUnknownFunction, source.Span{File: 3, Start: 7, End: 9}, "could not find function g"))
	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	if got := buf.String(); got != "<file 3>:7: ERROR LOW4010: could not find function g\n" {
		t.Fatalf("got %q", got)
	}
}
