package virjson

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sstlower/internal/diag"
	"sstlower/internal/source"
	"sstlower/internal/vir"
)

func TestReadFile(t *testing.T) {
	fs := source.NewFileSet()
	res, err := ReadFile(fs, filepath.Join("testdata", "krate.json"))
	if err != nil {
		t.Fatal(err)
	}
	names := res.Krate.Names()
	if len(names) != 3 || names[0] != "caller" || names[1] != "inc" || names[2] != "twice" {
		t.Fatalf("functions: %v", names)
	}
	inc, _ := res.Krate.Function("inc")
	if inc.Mode != vir.ModeExec || len(inc.Params) != 1 || inc.Ret == nil {
		t.Fatalf("inc: %+v", inc)
	}
	body := inc.Body.Data.(vir.BinaryData)
	if body.Op.Kind != vir.BinArith || body.Op.Arith != vir.ArithAdd || body.Op.Mode != vir.ModeExec {
		t.Fatalf("body op: %+v", body.Op)
	}
	if !inc.Body.Typ.IsBoundedInt() {
		t.Fatalf("body type %s", inc.Body.Typ)
	}
	if inc.Body.Span.Start != 40 || inc.Body.Span.End != 45 {
		t.Fatalf("body span %s", inc.Body.Span)
	}
	// lib.rs does not exist; it is still registered so spans stay resolvable.
	f := fs.Get(inc.Body.Span.File)
	if f == nil || f.Flags&source.FileMissing == 0 {
		t.Fatalf("expected a missing-file entry, got %+v", f)
	}
	if len(res.Raw["twice"]) == 0 || !strings.Contains(string(res.Raw["twice"]), `"twice"`) {
		t.Fatalf("raw JSON not kept")
	}

	caller, _ := res.Krate.Function("caller")
	blk := caller.Body.Data.(vir.BlockData)
	if len(blk.Stmts) != 3 || blk.Stmts[0].Kind != vir.StmtDecl || blk.Stmts[0].Decl.Pattern.Name != "y" {
		t.Fatalf("caller block: %+v", blk)
	}
	loop := blk.Stmts[2].Expr.Data.(vir.WhileData)
	if len(loop.Invs) != 1 || loop.Invs[0].Kind != vir.ExprQuant {
		t.Fatalf("loop invariants: %+v", loop.Invs)
	}
}

func TestDecodeTypes(t *testing.T) {
	data := `{"functions": [{"name": "f", "mode": "spec", "params": [
		{"name": "a", "typ": {"kind": "datatype", "name": "Vec", "args": ["u8"]}},
		{"name": "b", "typ": {"kind": "boxed", "elem": {"kind": "param", "name": "T"}}},
		{"name": "c", "typ": {"kind": "lambda", "args": ["int"], "elem": "bool"}},
		{"name": "d", "typ": "()"},
		{"name": "e", "typ": "type_id"}
	]}]}`
	res, err := Decode(nil, []byte(data), "")
	if err != nil {
		t.Fatal(err)
	}
	f, _ := res.Krate.Function("f")
	want := []string{"Vec<u8>", "Box<T>", "FnSpec(int) -> bool", "()", "type_id"}
	for i, p := range f.Params {
		if p.Typ.String() != want[i] {
			t.Errorf("param %s: %s, want %s", p.Name, p.Typ, want[i])
		}
	}
}

func TestIdentifiersAreNFC(t *testing.T) {
	data := "{\"functions\": [{\"name\": \"caf\\u0065\\u0301\", \"params\": [{\"name\": \"\\u0065\\u0301\", \"typ\": \"int\"}]}]}"
	res, err := Decode(nil, []byte(data), "")
	if err != nil {
		t.Fatal(err)
	}
	fn, ok := res.Krate.Function("café")
	if !ok {
		t.Fatalf("function not found under its NFC name: %v", res.Krate.Names())
	}
	if fn.Params[0].Name != "é" {
		t.Fatalf("param name %q", fn.Params[0].Name)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code diag.Code
		path string
	}{
		{"bad json", `{"functions": [`, diag.ReadBadJSON, ""},
		{"unknown kind", `{"functions": [{"name": "f", "body": {"kind": "lambda"}}]}`, diag.ReadUnknownKind, "functions[0](f).body"},
		{"missing child", `{"functions": [{"name": "f", "body": {"kind": "loc"}}]}`, diag.ReadMissingNode, "functions[0](f).body<loc>.expr"},
		{"bad span", `{"functions": [{"name": "f", "span": {"start": 5, "end": 2}}]}`, diag.ReadBadSpan, "functions[0](f)"},
		{"file index", `{"files": ["a"], "functions": [{"name": "f", "span": {"file": 3}}]}`, diag.ReadBadSpan, "functions[0](f)"},
		{"bad operator", `{"functions": [{"name": "f", "body": {"kind": "binary", "op": "pow"}}]}`, diag.ReadUnknownKind, "functions[0](f).body<binary>"},
		{"no name", `{"functions": [{}]}`, diag.ReadMissingNode, "functions[0]"},
	}
	for _, tt := range tests {
		_, err := Decode(nil, []byte(tt.data), "")
		var re *Error
		if !errors.As(err, &re) {
			t.Fatalf("%s: expected *Error, got %v", tt.name, err)
		}
		if re.Diag.Code != tt.code {
			t.Errorf("%s: code %s, want %s", tt.name, re.Diag.Code.ID(), tt.code.ID())
		}
		if re.Path != tt.path {
			t.Errorf("%s: path %q, want %q", tt.name, re.Path, tt.path)
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(nil, filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
