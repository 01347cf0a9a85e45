package lower

import (
	"sstlower/internal/diag"
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

type lowerer struct {
	ctx *Ctx
	st  *State
}

// pure lowers e, which must produce a value without statements.
func (l *lowerer) pure(e *vir.Expr) (*sst.Exp, error) {
	stms, rv, err := l.expr(e)
	if err != nil {
		return nil, err
	}
	if len(stms) == 0 && rv.Kind == RetValue {
		return rv.Exp, nil
	}
	return nil, errorAt(diag.LowerExpectedPure, e.Span, "expected pure mathematical expression")
}

// stmOrError lowers e, which must produce a value.
func (l *lowerer) stmOrError(e *vir.Expr) ([]*sst.Stm, *sst.Exp, error) {
	stms, rv, err := l.expr(e)
	if err != nil {
		return nil, nil, err
	}
	if rv.Kind != RetValue {
		return nil, nil, errorAt(diag.LowerExpectedValue, e.Span, "expression must produce a value")
	}
	return stms, rv.Exp, nil
}

// expr lowers e into the statements that must run first and the outcome.
func (l *lowerer) expr(e *vir.Expr) ([]*sst.Stm, ReturnValue, error) {
	mk := func(data sst.ExpData) *sst.Exp { return sst.NewExp(e.Span, e.Typ, data) }

	switch d := e.Data.(type) {
	case vir.ConstData:
		return nil, Value(mk(sst.ConstExp{Value: d.Value})), nil
	case vir.VarData:
		return nil, Value(mk(sst.VarExp{Ident: l.st.getVarUniqueID(d.Name)})), nil
	case vir.VarLocData:
		return nil, Value(mk(sst.VarLocExp{Ident: l.st.getVarUniqueID(d.Name)})), nil
	case vir.VarAtData:
		if scope, ok := l.st.renameMap.ScopeOf(d.Name); ok && scope != 0 {
			return nil, ReturnValue{}, errorAt(diag.LowerParamShadowed, e.Span, "the parameter is shadowed here")
		}
		return nil, Value(mk(sst.VarAtExp{Ident: l.st.getVarUniqueID(d.Name), At: d.At})), nil
	case vir.ConstVarData:
		internalf("constant %s at %s should have been inlined", d.Fun, e.Span)
	case vir.LocData:
		stms, rv, err := l.expr(d.Expr)
		if err != nil {
			return nil, ReturnValue{}, err
		}
		v := rv.ToValue()
		if v == nil {
			return stms, Never(), nil
		}
		return stms, Value(mk(sst.LocExp{Exp: v})), nil
	case vir.AssignData:
		return l.lowerAssign(e, d)
	case vir.CallData:
		if d.Target == vir.CallFnSpec {
			return l.lowerLambdaCall(e)
		}
		return l.lowerStaticCall(e)
	case vir.TupleData:
		internalf("tuple at %s should have been desugared", e.Span)
	case vir.CtorData:
		return l.lowerCtor(e, d)
	case vir.UnaryData:
		stms, rv, err := l.expr(d.Operand)
		if err != nil {
			return nil, ReturnValue{}, err
		}
		v := rv.ToValue()
		if v == nil {
			return stms, Never(), nil
		}
		return stms, Value(mk(sst.UnaryExp{Op: d.Op, Operand: v})), nil
	case vir.UnaryOprData:
		stms, rv, err := l.expr(d.Operand)
		if err != nil {
			return nil, ReturnValue{}, err
		}
		v := rv.ToValue()
		if v == nil {
			return stms, Never(), nil
		}
		return stms, Value(mk(sst.UnaryOprExp{Op: d.Op, Operand: v})), nil
	case vir.BinaryData:
		return l.lowerBinary(e, d)
	case vir.QuantData:
		return l.lowerQuant(e, d)
	case vir.ClosureData:
		return l.lowerClosure(e, d)
	case vir.ChooseData:
		return l.lowerChoose(e, d)
	case vir.FuelData:
		stm := sst.NewStm(e.Span, sst.FuelStm{Fun: d.Fun, Fuel: d.Fuel})
		return []*sst.Stm{stm}, ImplicitUnit(e.Span), nil
	case vir.HeaderData:
		return nil, ReturnValue{}, errorAt(diag.LowerHeaderNotAllowed, e.Span, "header expression not allowed here")
	case vir.AdmitData:
		return []*sst.Stm{assumeFalse(e.Span)}, ImplicitUnit(e.Span), nil
	case vir.ForallData:
		return l.lowerForall(e, d)
	case vir.AssertBVData:
		v, err := l.pure(d.Expr)
		if err != nil {
			return nil, ReturnValue{}, err
		}
		stm := sst.NewStm(e.Span, sst.AssertBVStm{Exp: v})
		return []*sst.Stm{stm}, ImplicitUnit(e.Span), nil
	case vir.IfData:
		return l.lowerIf(e, d)
	case vir.MatchData:
		internalf("match at %s should have been desugared", e.Span)
	case vir.WhileData:
		return l.lowerWhile(e, d)
	case vir.OpenInvariantData:
		return l.lowerOpenInvariant(e, d)
	case vir.ReturnData:
		return l.lowerReturn(e, d)
	case vir.BlockData:
		return l.lowerBlock(e, d)
	default:
		internalf("unexpected expression %T at %s", e.Data, e.Span)
	}
	return nil, ReturnValue{}, nil
}

func (l *lowerer) lowerCtor(e *vir.Expr, d vir.CtorData) ([]*sst.Stm, ReturnValue, error) {
	if d.Update != nil {
		internalf("functional update at %s should have been desugared", e.Span)
	}
	var stms []*sst.Stm
	fields := make([]vir.Binder[*sst.Exp], 0, len(d.Fields))
	for _, f := range d.Fields {
		s, rv, err := l.expr(f.Value)
		if err != nil {
			return nil, ReturnValue{}, err
		}
		stms = append(stms, s...)
		v := rv.ToValue()
		if v == nil {
			return stms, Never(), nil
		}
		fields = append(fields, vir.Binder[*sst.Exp]{Name: f.Name, Value: v})
	}
	return stms, Value(sst.NewExp(e.Span, e.Typ, sst.CtorExp{
		Datatype: d.Datatype,
		Variant:  d.Variant,
		Fields:   fields,
	})), nil
}

// lowerAssign writes the right-hand side into the location on the left.
// A call on the right writes straight into a simple variable; compound
// locations go through a temporary.
func (l *lowerer) lowerAssign(e *vir.Expr, d vir.AssignData) ([]*sst.Stm, ReturnValue, error) {
	stms, lrv, err := l.expr(d.Lhs)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	lhs := lrv.ToValue()
	if lhs == nil {
		return stms, Never(), nil
	}
	if lhs.Kind != sst.ExpVarLoc && lhs.Kind != sst.ExpLoc {
		return nil, ReturnValue{}, errorAt(diag.LowerAssignNotLocation, d.Lhs.Span, "assignment to non-location")
	}
	simple := lhs.Kind == sst.ExpVarLoc

	callStms, call, err := l.exprMustBeCallStm(d.Rhs)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	if call != nil {
		stms = append(stms, callStms...)
		if call.never {
			return stms, Never(), nil
		}
		if simple {
			dest := &sst.Dest{Dest: lhs, IsInit: d.InitNotMut}
			stms = append(stms, l.stmCall(e.Span, call, dest))
			return stms, ImplicitUnit(e.Span), nil
		}
		if d.InitNotMut {
			internalf("first write of a call result into compound location at %s", d.Lhs.Span)
		}
		name, tmp := l.st.nextTemp(d.Rhs.Span, d.Rhs.Typ)
		id := l.st.declareNewVar(name, d.Rhs.Typ, false, false)
		dest := &sst.Dest{Dest: sst.MkVarLoc(d.Rhs.Span, d.Rhs.Typ, id), IsInit: true}
		stms = append(stms, l.stmCall(e.Span, call, dest))
		stms = append(stms, sst.NewStm(e.Span, sst.AssignStm{
			Lhs: sst.Dest{Dest: lhs},
			Rhs: tmp,
		}))
		return stms, ImplicitUnit(e.Span), nil
	}

	rstms, rrv, err := l.expr(d.Rhs)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	stms = append(stms, rstms...)
	rhs := rrv.ToValue()
	if rhs == nil {
		return stms, Never(), nil
	}
	if !simple && !isSmallExp(rhs) {
		name, tmp := l.st.nextTemp(rhs.Span, rhs.Typ)
		id := l.st.declareNewVar(name, rhs.Typ, false, false)
		stms = append(stms, initVar(rhs.Span, id, rhs))
		rhs = tmp
	}
	stms = append(stms, sst.NewStm(e.Span, sst.AssignStm{
		Lhs: sst.Dest{Dest: lhs, IsInit: d.InitNotMut},
		Rhs: rhs,
	}))
	return stms, ImplicitUnit(e.Span), nil
}
