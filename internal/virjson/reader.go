package virjson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"sstlower/internal/diag"
	"sstlower/internal/source"
	"sstlower/internal/vir"
)

// Error is a malformed-input failure. Path locates the offending node.
type Error struct {
	Diag diag.Diagnostic
	Path string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Diag.Code.ID(), e.Diag.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Diag.Code.ID(), e.Path, e.Diag.Message)
}

// Result is a decoded krate.
type Result struct {
	Krate *vir.Krate
	// Raw keeps each function's undecoded JSON, the input of cache keys.
	Raw map[vir.Fun][]byte
	// Files maps the krate's file indices to FileSet IDs.
	Files []source.FileID
}

// ReadFile decodes the krate at path. Referenced source files are resolved
// relative to the krate's directory.
func ReadFile(fs *source.FileSet, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(fs, data, filepath.Dir(path))
}

// Decode decodes a krate. fs may be nil, in which case spans keep the raw
// file indices.
func Decode(fs *source.FileSet, data []byte, baseDir string) (*Result, error) {
	var k krateJSON
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, &Error{Diag: diag.NewError(diag.ReadBadJSON, source.Span{}, err.Error())}
	}
	d := &decoder{}
	for _, path := range k.Files {
		var id source.FileID
		if fs != nil {
			full := path
			if !filepath.IsAbs(full) && baseDir != "" {
				full = filepath.Join(baseDir, path)
			}
			// A missing source only costs the excerpt in diagnostics.
			id, _ = fs.Load(full)
		} else {
			n, err := safecast.Conv[uint32](len(d.files))
			if err != nil {
				return nil, &Error{Diag: diag.NewError(diag.ReadBadSpan, source.Span{}, "too many files")}
			}
			id = source.FileID(n)
		}
		d.files = append(d.files, id)
	}

	res := &Result{Raw: make(map[vir.Fun][]byte, len(k.Functions)), Files: d.files}
	fns := make([]*vir.Function, 0, len(k.Functions))
	for i, raw := range k.Functions {
		var fj funcJSON
		path := fmt.Sprintf("functions[%d]", i)
		if err := json.Unmarshal(raw, &fj); err != nil {
			return nil, &Error{Diag: diag.NewError(diag.ReadBadJSON, source.Span{}, err.Error()), Path: path}
		}
		fn, err := d.function(path, &fj)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
		res.Raw[fn.Name] = append([]byte(nil), raw...)
	}
	res.Krate = vir.NewKrate(fns)
	return res, nil
}

type decoder struct {
	files []source.FileID
}

func (d *decoder) fail(code diag.Code, path, format string, args ...any) error {
	return &Error{Diag: diag.NewError(code, source.Span{}, fmt.Sprintf(format, args...)), Path: path}
}

func ident(s string) string {
	return norm.NFC.String(s)
}

func (d *decoder) span(path string, s *spanJSON) (source.Span, error) {
	if s == nil {
		return source.Span{}, nil
	}
	start, err := safecast.Conv[uint32](s.Start)
	if err != nil {
		return source.Span{}, d.fail(diag.ReadBadSpan, path, "span start %d out of range", s.Start)
	}
	end, err := safecast.Conv[uint32](s.End)
	if err != nil || end < start {
		return source.Span{}, d.fail(diag.ReadBadSpan, path, "span end %d out of range", s.End)
	}
	var file source.FileID
	if len(d.files) > 0 || s.File != 0 {
		if s.File < 0 || s.File >= int64(len(d.files)) {
			return source.Span{}, d.fail(diag.ReadBadSpan, path, "file index %d out of range", s.File)
		}
		file = d.files[s.File]
	}
	return source.Span{File: file, Start: start, End: end}, nil
}

func (d *decoder) typ(path string, t *typJSON) (*vir.Typ, error) {
	if t == nil {
		return nil, d.fail(diag.ReadMissingNode, path, "missing type")
	}
	if t.Short != "" {
		switch t.Short {
		case "bool":
			return vir.BoolTyp(), nil
		case "type_id":
			return vir.TypeIdTyp(), nil
		case "()":
			return vir.UnitTyp(), nil
		}
		if r, err := vir.ParseIntRange(t.Short); err == nil {
			return vir.IntTyp(r), nil
		}
		return vir.DatatypeTyp(ident(t.Short)), nil
	}
	args := make([]*vir.Typ, 0, len(t.Args))
	for i, a := range t.Args {
		at, err := d.typ(fmt.Sprintf("%s.args[%d]", path, i), a)
		if err != nil {
			return nil, err
		}
		args = append(args, at)
	}
	switch t.Kind {
	case "bool":
		return vir.BoolTyp(), nil
	case "int":
		r, err := vir.ParseIntRange(t.Range)
		if err != nil {
			return nil, d.fail(diag.ReadUnknownKind, path, "%v", err)
		}
		return vir.IntTyp(r), nil
	case "datatype":
		return vir.DatatypeTyp(ident(t.Name), args...), nil
	case "boxed":
		elem, err := d.typ(path+".elem", t.Elem)
		if err != nil {
			return nil, err
		}
		return vir.BoxedTyp(elem), nil
	case "param":
		return vir.TypParamTyp(ident(t.Name)), nil
	case "type_id":
		return vir.TypeIdTyp(), nil
	case "lambda":
		elem, err := d.typ(path+".elem", t.Elem)
		if err != nil {
			return nil, err
		}
		return vir.LambdaTyp(args, elem), nil
	}
	return nil, d.fail(diag.ReadUnknownKind, path, "unknown type kind %q", t.Kind)
}

func (d *decoder) param(path string, p *paramJSON) (vir.Param, error) {
	typ, err := d.typ(path+".typ", p.Typ)
	if err != nil {
		return vir.Param{}, err
	}
	sp, err := d.span(path, p.Span)
	if err != nil {
		return vir.Param{}, err
	}
	var purpose vir.ParPurpose
	switch p.Purpose {
	case "", "regular":
		purpose = vir.ParRegular
	case "mut_pre":
		purpose = vir.ParMutPre
	case "mut_post":
		purpose = vir.ParMutPost
	default:
		return vir.Param{}, d.fail(diag.ReadUnknownKind, path, "unknown parameter purpose %q", p.Purpose)
	}
	return vir.Param{Name: ident(p.Name), Typ: typ, Mutable: p.Mutable, Purpose: purpose, Span: sp}, nil
}

func (d *decoder) function(path string, f *funcJSON) (*vir.Function, error) {
	if f.Name == "" {
		return nil, d.fail(diag.ReadMissingNode, path, "function without a name")
	}
	path = fmt.Sprintf("%s(%s)", path, f.Name)
	mode, err := vir.ParseMode(f.Mode)
	if err != nil {
		return nil, d.fail(diag.ReadUnknownKind, path, "%v", err)
	}
	sp, err := d.span(path, f.Span)
	if err != nil {
		return nil, err
	}
	fn := &vir.Function{Name: vir.Fun(ident(f.Name)), Mode: mode, IsConst: f.IsConst, Span: sp}
	for i := range f.Params {
		p, err := d.param(fmt.Sprintf("%s.params[%d]", path, i), &f.Params[i])
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, p)
	}
	if f.Ret != nil {
		p, err := d.param(path+".ret", f.Ret)
		if err != nil {
			return nil, err
		}
		fn.Ret = &p
	}
	if fn.Require, err = d.exprs(path+".require", f.Require); err != nil {
		return nil, err
	}
	if fn.Ensure, err = d.exprs(path+".ensure", f.Ensure); err != nil {
		return nil, err
	}
	if f.Body != nil {
		if fn.Body, err = d.expr(path+".body", f.Body); err != nil {
			return nil, err
		}
	}
	return fn, nil
}
