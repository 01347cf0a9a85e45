package lower

import (
	"errors"
	"strings"
	"testing"

	"sstlower/internal/diag"
	"sstlower/internal/source"
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

var (
	sp     = source.Span{Start: 0, End: 1}
	u8     = vir.IntTyp(vir.IntRange{Kind: vir.RangeU, Bits: 8})
	intT   = vir.IntTyp(vir.IntRange{Kind: vir.RangeInt})
	usizeT = vir.IntTyp(vir.IntRange{Kind: vir.RangeUSize})
	isizeT = vir.IntTyp(vir.IntRange{Kind: vir.RangeISize})
	boolT  = vir.BoolTyp()
	unitT  = vir.UnitTyp()
)

// testKrate: f(a: u8) -> u8 and g(a, b) are exec, spec_f is spec.
func testKrate() *vir.Krate {
	ret := &vir.Param{Name: "r", Typ: u8}
	return vir.NewKrate([]*vir.Function{
		{Name: "f", Mode: vir.ModeExec, Params: []vir.Param{{Name: "a", Typ: u8}}, Ret: ret},
		{Name: "g", Mode: vir.ModeExec},
		{Name: "spec_f", Mode: vir.ModeSpec, Params: []vir.Param{{Name: "a", Typ: u8}}, Ret: ret},
		{Name: "lemma", Mode: vir.ModeProof},
	})
}

func newCtx() *Ctx {
	return &Ctx{Funcs: testKrate()}
}

func param(name string, typ *vir.Typ) vir.Param {
	return vir.Param{Name: name, Typ: typ}
}

func stateWith(params ...vir.Param) *State {
	st := NewState()
	for _, p := range params {
		st.declareNewVar(p.Name, p.Typ, p.Mutable, false)
	}
	return st
}

func v(name string, typ *vir.Typ) *vir.Expr { return vir.MkVar(sp, typ, name) }
func n(lit string) *vir.Expr                { return vir.MkNat(sp, u8, lit) }

func arith(op vir.ArithOp, mode vir.Mode, l, r *vir.Expr) *vir.Expr {
	return vir.MkBinary(sp, l.Typ, vir.ArithBinOp(op, mode), l, r)
}

func cmp(kind vir.BinaryOpKind, l, r *vir.Expr) *vir.Expr {
	return vir.MkBinary(sp, boolT, vir.BinaryOp{Kind: kind}, l, r)
}

func call(typ *vir.Typ, fun vir.Fun, args ...*vir.Expr) *vir.Expr {
	return vir.MkCall(sp, typ, fun, args...)
}

func ret(value *vir.Expr) *vir.Expr {
	return vir.NewExpr(sp, unitT, vir.ReturnData{Value: value})
}

func block(typ *vir.Typ, tail *vir.Expr, stmts ...*vir.Stmt) *vir.Expr {
	return vir.MkBlock(sp, typ, tail, stmts...)
}

func lowerIn(t *testing.T, st *State, e *vir.Expr) ([]*sst.Stm, ReturnValue) {
	t.Helper()
	stms, rv, err := ExprToStm(newCtx(), st, e)
	if err != nil {
		t.Fatalf("lowering failed: %v", err)
	}
	return stms, rv
}

func dump(stms []*sst.Stm) string {
	var sb strings.Builder
	for _, s := range stms {
		sb.WriteString(sst.StmString(s))
	}
	return sb.String()
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func wantCode(t *testing.T, err error, code diag.Code) {
	t.Helper()
	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("expected lowering error %s, got %v", code.ID(), err)
	}
	if le.Diag.Code != code {
		t.Fatalf("expected %s, got %s (%s)", code.ID(), le.Diag.Code.ID(), le.Diag.Message)
	}
}

func wantInternal(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if _, ok := r.(InternalError); !ok {
			t.Fatalf("expected InternalError panic, got %v", r)
		}
	}()
	fn()
}
