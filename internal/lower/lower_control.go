package lower

import (
	"sstlower/internal/diag"
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

// checkUnitOrNever rejects statement positions that produce a value. Reads
// of compiler temporaries are tolerated: they come from calls whose result
// is discarded.
func checkUnitOrNever(rv ReturnValue) error {
	if rv.Kind != RetValue {
		return nil
	}
	if id, ok := rv.Exp.IsVar(); ok && vir.IsTempVar(id.Name) {
		return nil
	}
	return errorAt(diag.LowerNoEffectExpression, rv.Exp.Span, "expressions with no effect are not supported")
}

// canControlFlowReachAfterLoop is conservative: only a loop whose condition
// is the literal true is treated as non-terminating.
func canControlFlowReachAfterLoop(cond *vir.Expr) bool {
	if c, ok := cond.Data.(vir.ConstData); ok && c.Value.Kind == vir.ConstBool && c.Value.Bool {
		return false
	}
	return true
}

func (l *lowerer) lowerWhile(e *vir.Expr, d vir.WhileData) ([]*sst.Stm, ReturnValue, error) {
	condStms, crv, err := l.expr(d.Cond)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	switch crv.Kind {
	case RetImplicitUnit:
		internalf("loop condition at %s produces no value", d.Cond.Span)
	case RetNever:
		return condStms, Never(), nil
	}
	bodyStms, brv, err := l.expr(d.Body)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	if err := checkUnitOrNever(brv); err != nil {
		return nil, ReturnValue{}, err
	}
	invs := make([]*sst.Exp, 0, len(d.Invs))
	for _, inv := range d.Invs {
		v, err := l.pure(inv)
		if err != nil {
			return nil, ReturnValue{}, err
		}
		invs = append(invs, v)
	}
	loop := sst.NewStm(e.Span, sst.WhileStm{
		CondStms:     condStms,
		CondExp:      crv.Exp,
		Body:         StmsToOneStm(d.Body.Span, bodyStms),
		Invs:         invs,
		TypInvVars:   []sst.UniqueIdent{},
		ModifiedVars: []sst.UniqueIdent{},
	})
	if canControlFlowReachAfterLoop(d.Cond) {
		return []*sst.Stm{loop}, ImplicitUnit(e.Span), nil
	}
	return []*sst.Stm{loop, assumeFalse(e.Span)}, Never(), nil
}

func (l *lowerer) lowerOpenInvariant(e *vir.Expr, d vir.OpenInvariantData) ([]*sst.Stm, ReturnValue, error) {
	stms, irv, err := l.expr(d.Inv)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	inv := irv.ToValue()
	if inv == nil {
		return stms, Never(), nil
	}
	// Freeze the invariant object so the body cannot change which one is open.
	name, tmp := l.st.nextTemp(d.Inv.Span, d.Inv.Typ)
	tmpID := l.st.declareNewVar(name, d.Inv.Typ, false, false)
	stms = append(stms, initVar(d.Inv.Span, tmpID, inv))

	l.st.pushScope()
	id := l.st.declareNewVar(d.Binder.Name, d.Binder.Value, true, true)
	bodyStms, brv, err := l.expr(d.Body)
	l.st.popScope()
	if err != nil {
		return nil, ReturnValue{}, err
	}
	if err := checkUnitOrNever(brv); err != nil {
		return nil, ReturnValue{}, err
	}
	stms = append(stms, sst.NewStm(e.Span, sst.OpenInvariantStm{
		Inv:       tmp,
		Ident:     id,
		Typ:       d.Binder.Value,
		Body:      StmsToOneStm(d.Body.Span, bodyStms),
		Atomicity: d.Atomicity,
	}))
	if brv.IsNever() {
		return stms, Never(), nil
	}
	return stms, ImplicitUnit(e.Span), nil
}

// lowerReturn writes the return value, checks every postcondition at this
// exit and ends the path.
func (l *lowerer) lowerReturn(e *vir.Expr, d vir.ReturnData) ([]*sst.Stm, ReturnValue, error) {
	rp := l.st.retPost
	if rp == nil {
		return nil, ReturnValue{}, errorAt(diag.LowerReturnOutsideFunction, e.Span, "return expression not allowed here")
	}
	var stms []*sst.Stm
	switch {
	case rp.Dest == nil && d.Value != nil:
		return nil, ReturnValue{}, errorAt(diag.LowerReturnValueNotAllowed, d.Value.Span, "return value not allowed here")
	case rp.Dest != nil && d.Value == nil:
		return nil, ReturnValue{}, errorAt(diag.LowerExpectedValue, e.Span, "return requires a value here")
	case rp.Dest != nil:
		s, rv, err := l.expr(d.Value)
		if err != nil {
			return nil, ReturnValue{}, err
		}
		stms = append(stms, s...)
		v := rv.ToValue()
		if v == nil {
			return stms, Never(), nil
		}
		stms = append(stms, initVar(e.Span, *rp.Dest, v))
	}
	for _, ens := range rp.Enss {
		obl := diag.NewError(diag.ObligationPostcondition, e.Span, "postcondition not satisfied").
			WithLabel("at this exit").
			WithNote(ens.Span, "failed this postcondition")
		stms = append(stms, sst.NewStm(e.Span, sst.AssertStm{Error: &obl, Exp: ens}))
	}
	stms = append(stms, assumeFalse(e.Span))
	return stms, Never(), nil
}
