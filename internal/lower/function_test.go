package lower

import (
	"strings"
	"testing"

	"sstlower/internal/sst"
	"sstlower/internal/trace"
	"sstlower/internal/vir"
)

func incFunction(body *vir.Expr) *vir.Function {
	x := v("x", u8)
	result := v("result", u8)
	return &vir.Function{
		Name:    "inc",
		Mode:    vir.ModeExec,
		Params:  []vir.Param{param("x", u8)},
		Ret:     &vir.Param{Name: "result", Typ: u8},
		Require: []*vir.Expr{cmp(vir.BinLt, x, n("255"))},
		Ensure:  []*vir.Expr{cmp(vir.BinEq, result, arith(vir.ArithAdd, vir.ModeSpec, x, n("1")))},
		Body:    body,
	}
}

func TestLowerFunction(t *testing.T) {
	fn := incFunction(arith(vir.ArithAdd, vir.ModeExec, v("x", u8), n("1")))
	out, err := LowerFunction(newCtx(), fn)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Reqs) != 1 || sst.ExpString(out.Reqs[0]) != "(x@0 < 255)" {
		t.Fatalf("requires: %v", out.Reqs)
	}
	if len(out.Enss) != 1 || sst.ExpString(out.Enss[0]) != "(result@0 == (x@0 + 1))" {
		t.Fatalf("ensures: %v", out.Enss)
	}
	if out.RetDest == nil || *out.RetDest != sst.Numbered("result", 0) {
		t.Fatalf("return destination: %v", out.RetDest)
	}
	if len(out.Params) != 1 || out.Params[0].Ident != sst.Numbered("x", 0) {
		t.Fatalf("params: %+v", out.Params)
	}
	want := lines(
		"{",
		"  assert has_type<u8>((x@0 + 1)) // possible arithmetic underflow/overflow",
		"  result@0 := (x@0 + 1)",
		"}",
	)
	if got := sst.StmString(out.Body); got != want {
		t.Fatalf("body:\n%s\nwant:\n%s", got, want)
	}
	if out.SkipEnsures {
		t.Fatalf("normal exit must keep ensures")
	}
	decls := append(append([]sst.LocalDecl(nil), out.Params...), out.LocalDecls...)
	if err := sst.Validate(out.Body, decls); err != nil {
		t.Fatalf("validate: %v", err)
	}
	text := out.String()
	for _, s := range []string{"exec fn inc", "param x@0: u8", "returns result@0", "requires (x@0 < 255)"} {
		if !strings.Contains(text, s) {
			t.Errorf("dump lacks %q:\n%s", s, text)
		}
	}
}

func TestLowerFunctionEarlyReturn(t *testing.T) {
	out, err := LowerFunction(newCtx(), incFunction(ret(v("x", u8))))
	if err != nil {
		t.Fatal(err)
	}
	if !out.SkipEnsures {
		t.Fatalf("body never completes; ensures are checked at the return")
	}
	want := lines(
		"{",
		"  result@0 := x@0",
		"  assert (result@0 == (x@0 + 1)) // postcondition not satisfied",
		"  assume false",
		"}",
	)
	if got := sst.StmString(out.Body); got != want {
		t.Fatalf("body:\n%s\nwant:\n%s", got, want)
	}
}

func TestLowerFunctionViewAsSpec(t *testing.T) {
	ctx := newCtx()
	ctx.ViewAsSpec = true
	out, err := LowerFunction(ctx, incFunction(arith(vir.ArithAdd, vir.ModeExec, v("x", u8), n("1"))))
	if err != nil {
		t.Fatal(err)
	}
	if got := sst.StmString(out.Body); got != lines("result@0 := (x@0 + 1)") {
		t.Fatalf("body:\n%s", got)
	}
}

func TestLowerConstFunctionViewsAsSpec(t *testing.T) {
	fn := incFunction(arith(vir.ArithAdd, vir.ModeExec, v("x", u8), n("1")))
	fn.IsConst = true
	out, err := LowerFunction(newCtx(), fn)
	if err != nil {
		t.Fatal(err)
	}
	if got := sst.StmString(out.Body); got != lines("result@0 := (x@0 + 1)") {
		t.Fatalf("constant body must not check overflow:\n%s", got)
	}
}

func TestLowerSpecFunction(t *testing.T) {
	fn := &vir.Function{
		Name:   "double",
		Mode:   vir.ModeSpec,
		Params: []vir.Param{param("x", u8)},
		Ret:    &vir.Param{Name: "r", Typ: u8},
		Body:   arith(vir.ArithAdd, vir.ModeExec, v("x", u8), v("x", u8)),
	}
	out, err := LowerFunction(newCtx(), fn)
	if err != nil {
		t.Fatal(err)
	}
	if out.Body != nil || out.SpecBody == nil {
		t.Fatalf("spec function should have a pure body")
	}
	if got := sst.ExpString(out.SpecBody); got != "(x@0 + x@0)" {
		t.Fatalf("spec body %s", got)
	}
}

func TestLowerBodilessFunction(t *testing.T) {
	fn := incFunction(nil)
	out, err := LowerFunction(newCtx(), fn)
	if err != nil {
		t.Fatal(err)
	}
	if out.Body != nil || out.SpecBody != nil || len(out.Reqs) != 1 {
		t.Fatalf("unexpected lowering: %+v", out)
	}
}

func TestLowerFunctionTraces(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := newCtx()
	ctx.Tracer = ring
	body := vir.MkIf(sp, u8, cmp(vir.BinLt, v("x", u8), n("3")), call(u8, "f", v("x", u8)), v("x", u8))
	if _, err := LowerFunction(ctx, incFunction(body)); err != nil {
		t.Fatal(err)
	}
	var begin, temp bool
	for _, ev := range ring.Snapshot() {
		switch {
		case ev.Kind == trace.KindSpanBegin && ev.Name == "lower:inc":
			begin = true
		case ev.Kind == trace.KindPoint && ev.Name == "temp":
			temp = true
		}
	}
	if !begin || !temp {
		t.Fatalf("missing events: begin=%v temp=%v", begin, temp)
	}
}

func TestOneStmDestWritesUnit(t *testing.T) {
	st := stateWith(param("result", unitT))
	dest := sst.Numbered("result", 0)
	stm, skip, err := ExprToOneStmDest(newCtx(), st, call(unitT, "g"), &dest)
	if err != nil {
		t.Fatal(err)
	}
	if skip {
		t.Fatal("unit body completes normally")
	}
	want := lines(
		"{",
		"  call g()",
		"  result@0 := ()",
		"}",
	)
	if got := sst.StmString(stm); got != want {
		t.Fatalf("body:\n%s\nwant:\n%s", got, want)
	}
}
