package lower

import (
	"fmt"

	"sstlower/internal/source"
	"sstlower/internal/sst"
	"sstlower/internal/trace"
	"sstlower/internal/vir"
)

// ExprToPureExp lowers expr, which must be a pure value, in st.
func ExprToPureExp(ctx *Ctx, st *State, expr *vir.Expr) (*sst.Exp, error) {
	l := &lowerer{ctx: ctx, st: st}
	return l.pure(expr)
}

// ExprToStmOrError lowers expr, which must produce a value, in st.
func ExprToStmOrError(ctx *Ctx, st *State, expr *vir.Expr) ([]*sst.Stm, *sst.Exp, error) {
	l := &lowerer{ctx: ctx, st: st}
	return l.stmOrError(expr)
}

// ExprToStm lowers expr in st and returns the raw outcome.
func ExprToStm(ctx *Ctx, st *State, expr *vir.Expr) ([]*sst.Stm, ReturnValue, error) {
	l := &lowerer{ctx: ctx, st: st}
	return l.expr(expr)
}

func newExprState(ctx *Ctx, viewAsSpec bool) *State {
	st := NewState()
	st.viewAsSpec = viewAsSpec
	if ctx != nil {
		st.SetTracer(ctx.Tracer, ctx.TraceParent)
	}
	return st
}

// ExprToDeclsExp lowers a pure expression over params (requires, ensures,
// spec bodies) in a fresh state. Params are numbered locals; the returned
// declarations list every local the expression needed.
func ExprToDeclsExp(ctx *Ctx, viewAsSpec bool, params []vir.Param, expr *vir.Expr) ([]sst.LocalDecl, *sst.Exp, error) {
	st := newExprState(ctx, viewAsSpec)
	for _, p := range params {
		if p.Purpose == vir.ParMutPost {
			continue
		}
		st.declareNewVar(p.Name, p.Typ, p.Mutable, false)
	}
	exp, err := ExprToPureExp(ctx, st, expr)
	if err != nil {
		return nil, nil, err
	}
	exp = st.finalizeExp(exp)
	st.finalize()
	return st.LocalDecls, exp, nil
}

// ExprToBindDeclsExp lowers a pure expression whose params are later bound
// by a quantifier or let; their references come out unnumbered.
func ExprToBindDeclsExp(ctx *Ctx, params []vir.Param, expr *vir.Expr) (*sst.Exp, error) {
	st := newExprState(ctx, false)
	for _, p := range params {
		id := st.declareNewVar(p.Name, p.Typ, p.Mutable, false)
		st.dontRename[id] = struct{}{}
	}
	exp, err := ExprToPureExp(ctx, st, expr)
	if err != nil {
		return nil, err
	}
	exp = st.finalizeExp(exp)
	st.finalize()
	return exp, nil
}

func ExprToExp(ctx *Ctx, params []vir.Param, expr *vir.Expr) (*sst.Exp, error) {
	_, exp, err := ExprToDeclsExp(ctx, false, params, expr)
	return exp, err
}

// ExprToExpAsSpec is ExprToExp with every operation viewed as spec-mode.
func ExprToExpAsSpec(ctx *Ctx, params []vir.Param, expr *vir.Expr) (*sst.Exp, error) {
	_, exp, err := ExprToDeclsExp(ctx, true, params, expr)
	return exp, err
}

// ExprToOneStmDest lowers a function body into one statement. When dest is
// set, the body's value is written to it. skipEnsures reports that the body
// never completes normally, so its postconditions were already checked at
// every return.
func ExprToOneStmDest(ctx *Ctx, st *State, expr *vir.Expr, dest *sst.UniqueIdent) (stm *sst.Stm, skipEnsures bool, err error) {
	l := &lowerer{ctx: ctx, st: st}
	stms, rv, err := l.expr(expr)
	if err != nil {
		return nil, false, err
	}
	if rv.IsNever() {
		skipEnsures = true
	} else if dest != nil {
		stms = append(stms, initVar(expr.Span, *dest, rv.ToValue()))
	}
	return StmsToOneStm(expr.Span, stms), skipEnsures, nil
}

// FunctionSST is the lowered form of one function.
type FunctionSST struct {
	Name   vir.Fun
	Mode   vir.Mode
	Params []sst.LocalDecl
	Reqs   []*sst.Exp
	Enss   []*sst.Exp
	// RetDest receives the return value; nil for unit functions.
	RetDest *sst.UniqueIdent
	// Body is the statement body of proof and exec functions.
	Body *sst.Stm
	// SpecBody is the pure body of spec functions.
	SpecBody    *sst.Exp
	LocalDecls  []sst.LocalDecl
	SkipEnsures bool
	Span        source.Span
}

// LowerFunction lowers the contract and body of fn with a fresh State.
// ctx must not be nil.
func LowerFunction(ctx *Ctx, fn *vir.Function) (_ *FunctionSST, err error) {
	tr := ctx.tracer()
	span := trace.Begin(tr, trace.ScopeFunc, "lower:"+string(fn.Name), ctx.TraceParent)
	defer func() {
		if err != nil {
			span.End("error")
			return
		}
		span.End("ok")
	}()
	fctx := *ctx
	fctx.TraceParent = span.ID()

	// constant bodies are evaluated as spec code
	viewAsSpec := ctx.ViewAsSpec || fn.IsConst
	out := &FunctionSST{Name: fn.Name, Mode: fn.Mode, Span: fn.Span}

	for _, req := range fn.Require {
		exp, err := ExprToExp(&fctx, fn.Params, req)
		if err != nil {
			return nil, err
		}
		out.Reqs = append(out.Reqs, exp)
	}
	ensParams := fn.Params
	if fn.Ret != nil {
		ensParams = append(append([]vir.Param(nil), fn.Params...), *fn.Ret)
	}
	for _, ens := range fn.Ensure {
		exp, err := ExprToExp(&fctx, ensParams, ens)
		if err != nil {
			return nil, err
		}
		out.Enss = append(out.Enss, exp)
	}
	if fn.Body == nil {
		return out, nil
	}

	if fn.Mode == vir.ModeSpec {
		decls, exp, err := ExprToDeclsExp(&fctx, true, fn.Params, fn.Body)
		if err != nil {
			return nil, err
		}
		out.Params = decls[:countParams(fn.Params)]
		out.SpecBody = exp
		out.LocalDecls = decls[len(out.Params):]
		return out, nil
	}

	st := newExprState(&fctx, viewAsSpec)
	for _, p := range fn.Params {
		if p.Purpose == vir.ParMutPost {
			continue
		}
		st.declareNewVar(p.Name, p.Typ, p.Mutable, false)
	}
	nparams := len(st.LocalDecls)
	if fn.Ret != nil {
		id := st.declareNewVar(fn.Ret.Name, fn.Ret.Typ, true, false)
		out.RetDest = &id
	}
	st.SetReturnContext(&RetPost{Dest: out.RetDest, Enss: out.Enss})

	body, skip, err := ExprToOneStmDest(&fctx, st, fn.Body, out.RetDest)
	if err != nil {
		return nil, err
	}
	out.Body = st.finalizeStm(body)
	st.finalize()
	out.SkipEnsures = skip
	out.Params = st.LocalDecls[:nparams]
	out.LocalDecls = st.LocalDecls[nparams:]
	trace.Point(tr, trace.ScopeNode, "locals", fmt.Sprintf("%d", len(out.LocalDecls)), span.ID())
	return out, nil
}

func countParams(params []vir.Param) int {
	n := 0
	for _, p := range params {
		if p.Purpose != vir.ParMutPost {
			n++
		}
	}
	return n
}
