package lower

import (
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

func (l *lowerer) lowerIf(e *vir.Expr, d vir.IfData) ([]*sst.Stm, ReturnValue, error) {
	stms0, rv0, err := l.expr(d.Cond)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	if rv0.IsNever() {
		return stms0, Never(), nil
	}
	stms1, rv1, err := l.expr(d.Then)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	var (
		stms2 []*sst.Stm
		rv2   = ImplicitUnit(e.Span)
	)
	if d.Else != nil {
		stms2, rv2, err = l.expr(d.Else)
		if err != nil {
			return nil, ReturnValue{}, err
		}
	}
	stms, rv := l.ifToStm(e, stms0, rv0, stms1, rv1, stms2, rv2)
	return stms, rv, nil
}

// ifToStm assembles a conditional from its lowered parts. Branches with no
// statements and a value on both sides collapse into a pure conditional
// expression. When one branch never completes, the other branch's result stands for
// the whole conditional.
func (l *lowerer) ifToStm(
	e *vir.Expr,
	stms0 []*sst.Stm, rv0 ReturnValue,
	stms1 []*sst.Stm, rv1 ReturnValue,
	stms2 []*sst.Stm, rv2 ReturnValue,
) ([]*sst.Stm, ReturnValue) {
	if rv0.IsNever() {
		return stms0, Never()
	}
	cond := rv0.ExpectValue()
	stms := stms0

	switch {
	case rv1.Kind == RetImplicitUnit || rv2.Kind == RetImplicitUnit:
		if !vir.TypEqual(e.Typ, vir.UnitTyp()) {
			internalf("conditional at %s has a unit branch but type %s", e.Span, e.Typ)
		}
		stms = append(stms, sst.NewStm(e.Span, sst.IfStm{
			Cond: cond,
			Then: StmsToOneStm(e.Span, stms1),
			Else: stmsToOneStmOpt(e.Span, stms2),
		}))
		return stms, ImplicitUnit(e.Span)
	case rv1.IsNever() && rv2.IsNever():
		stms = append(stms, sst.NewStm(e.Span, sst.IfStm{
			Cond: cond,
			Then: StmsToOneStm(e.Span, stms1),
			Else: stmsToOneStmOpt(e.Span, stms2),
		}))
		return stms, Never()
	case rv1.IsNever() || rv2.IsNever():
		stms = append(stms, sst.NewStm(e.Span, sst.IfStm{
			Cond: cond,
			Then: StmsToOneStm(e.Span, stms1),
			Else: stmsToOneStmOpt(e.Span, stms2),
		}))
		if rv1.IsNever() {
			return stms, rv2
		}
		return stms, rv1
	case rv1.Kind == RetValue && rv2.Kind == RetValue && len(stms1) == 0 && len(stms2) == 0:
		return stms, Value(sst.NewExp(e.Span, e.Typ, sst.IfExp{Cond: cond, Then: rv1.Exp, Else: rv2.Exp}))
	}

	name, tmp := l.st.nextTemp(e.Span, e.Typ)
	id := l.st.declareNewVar(name, e.Typ, false, false)
	stms1 = append(stms1, initVar(e.Span, id, rv1.Exp))
	stms2 = append(stms2, initVar(e.Span, id, rv2.Exp))
	stms = append(stms, sst.NewStm(e.Span, sst.IfStm{
		Cond: cond,
		Then: StmsToOneStm(e.Span, stms1),
		Else: StmsToOneStm(e.Span, stms2),
	}))
	return stms, Value(tmp)
}
