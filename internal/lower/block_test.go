package lower

import (
	"testing"

	"sstlower/internal/diag"
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

func TestPureBlockFoldsIntoLet(t *testing.T) {
	e := block(u8, v("y", u8),
		vir.MkLet(sp, u8, "y", false, arith(vir.ArithAdd, vir.ModeSpec, v("x", u8), n("1"))))
	got, err := ExprToExp(newCtx(), []vir.Param{param("x", u8)}, e)
	if err != nil {
		t.Fatal(err)
	}
	if s := sst.ExpString(got); s != "(let y = (x@0 + 1) in y)" {
		t.Fatalf("got %s", s)
	}
}

func TestNestedPureLetsKeepOrder(t *testing.T) {
	e := block(u8, v("z", u8),
		vir.MkLet(sp, u8, "y", false, v("x", u8)),
		vir.MkLet(sp, u8, "z", false, v("y", u8)))
	got, err := ExprToExp(newCtx(), []vir.Param{param("x", u8)}, e)
	if err != nil {
		t.Fatal(err)
	}
	if s := sst.ExpString(got); s != "(let y = x@0 in (let z = y in z))" {
		t.Fatalf("got %s", s)
	}
}

func TestImpureBlockKeepsStatements(t *testing.T) {
	st := stateWith(param("x", u8))
	e := block(u8, v("y", u8), vir.MkLet(sp, u8, "y", false, call(u8, "f", v("x", u8))))
	stms, rv := lowerIn(t, st, e)
	want := lines(
		"{",
		"  y@0 := call f(x@0)",
		"}",
	)
	if got := dump(stms); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if sst.ExpString(rv.Exp) != "y@0" {
		t.Fatalf("value %s", sst.ExpString(rv.Exp))
	}
	last := st.LocalDecls[len(st.LocalDecls)-1]
	if last.Ident != sst.Numbered("y", 0) {
		t.Fatalf("decls: %+v", st.LocalDecls)
	}

	_, err := ExprToExp(newCtx(), []vir.Param{param("x", u8)}, e)
	wantCode(t, err, diag.LowerExpectedPure)
}

func TestShadowingGetsFreshGenerations(t *testing.T) {
	st := stateWith(param("x", u8))
	e := block(u8, v("y", u8),
		vir.MkLet(sp, u8, "y", false, call(u8, "f", v("x", u8))),
		vir.MkLet(sp, u8, "y", false, call(u8, "f", v("y", u8))))
	stms, rv := lowerIn(t, st, e)
	want := lines(
		"{",
		"  y@0 := call f(x@0)",
		"  y@1 := call f(y@0)",
		"}",
	)
	if got := dump(stms); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if sst.ExpString(rv.Exp) != "y@1" {
		t.Fatalf("value %s", sst.ExpString(rv.Exp))
	}
	seen := map[sst.UniqueIdent]bool{}
	for _, d := range st.LocalDecls {
		if seen[d.Ident] {
			t.Fatalf("duplicate local %s", d.Ident)
		}
		seen[d.Ident] = true
	}
}

func TestSiblingBlocksDoNotCollide(t *testing.T) {
	st := stateWith(param("x", u8))
	inner := func() *vir.Expr {
		return block(unitT, nil,
			vir.MkLet(sp, u8, "t", false, call(u8, "f", v("x", u8))),
			vir.ExprStmt(call(unitT, "g", v("t", u8))))
	}
	e := block(unitT, nil, vir.ExprStmt(inner()), vir.ExprStmt(inner()))
	lowerIn(t, st, e)
	var names []string
	for _, d := range st.LocalDecls {
		if d.Ident.Name == "t" {
			names = append(names, d.Ident.String())
		}
	}
	if len(names) != 2 || names[0] != "t@0" || names[1] != "t@1" {
		t.Fatalf("locals named t: %v", names)
	}
}

func TestUninitialisedDeclaration(t *testing.T) {
	st := stateWith(param("x", u8))
	e := block(unitT, nil,
		vir.MkLet(sp, u8, "y", true, nil),
		vir.ExprStmt(vir.MkAssign(sp, vir.MkVarLoc(sp, u8, "y"), v("x", u8), true)))
	stms, rv := lowerIn(t, st, e)
	want := lines(
		"{",
		"  y@0 := x@0",
		"}",
	)
	if got := dump(stms); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if rv.Kind != RetImplicitUnit {
		t.Fatalf("kind %s", rv.Kind)
	}
}

func TestExpressionStatementsNeedEffects(t *testing.T) {
	e := block(unitT, nil, vir.ExprStmt(v("x", u8)))
	_, _, err := ExprToStm(newCtx(), stateWith(param("x", u8)), e)
	wantCode(t, err, diag.LowerNoEffectExpression)

	// A discarded call result lives in a temporary and is accepted.
	e = block(unitT, nil, vir.ExprStmt(call(u8, "f", v("x", u8))))
	if _, _, err := ExprToStm(newCtx(), stateWith(param("x", u8)), e); err != nil {
		t.Fatalf("discarded call: %v", err)
	}
}

func TestPreStateOfShadowedParameter(t *testing.T) {
	pre := vir.NewExpr(sp, u8, vir.VarAtData{Name: "x", At: vir.AtPre})
	e := block(u8, pre, vir.MkLet(sp, u8, "x", false, n("1")))
	_, _, err := ExprToStm(newCtx(), stateWith(param("x", u8)), e)
	wantCode(t, err, diag.LowerParamShadowed)
}

func TestScopesBalance(t *testing.T) {
	quant := vir.NewExpr(sp, boolT, vir.QuantData{
		Quant:   vir.Forall,
		Binders: []vir.TypBinder{{Name: "i", Value: intT}},
		Body:    cmp(vir.BinGe, v("i", intT), v("i", intT)),
	})
	good := block(unitT, nil,
		vir.MkLet(sp, u8, "y", false, call(u8, "f", v("x", u8))),
		vir.MkLet(sp, boolT, "q", false, quant),
		vir.ExprStmt(block(unitT, nil, vir.MkLet(sp, u8, "z", false, v("y", u8)))))
	bad := block(unitT, nil,
		vir.MkLet(sp, u8, "y", false, n("1")),
		vir.ExprStmt(v("y", u8)))
	diverging := block(unitT, nil,
		vir.MkLet(sp, u8, "y", false, n("1")),
		vir.ExprStmt(ret(nil)),
		vir.MkLet(sp, u8, "z", false, n("2")))

	for name, e := range map[string]*vir.Expr{"good": good, "error": bad, "never": diverging} {
		st := stateWith(param("x", u8))
		st.SetReturnContext(&RetPost{})
		_, _, _ = ExprToStm(newCtx(), st, e)
		if d := st.ScopeDepth(); d != 1 {
			t.Errorf("%s: scope depth %d after lowering, want 1", name, d)
		}
	}
}
