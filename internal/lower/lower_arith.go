package lower

import (
	"sstlower/internal/diag"
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

// shortCircuit returns, for a short-circuiting connective, the value of the
// left operand on which the right one is evaluated, and the result of the
// whole expression otherwise.
func shortCircuit(op vir.BinaryOpKind) (proceedOn, other bool, ok bool) {
	switch op {
	case vir.BinAnd:
		return true, false, true
	case vir.BinImplies:
		return true, true, true
	case vir.BinOr:
		return false, true, true
	}
	return false, false, false
}

func (l *lowerer) lowerBinary(e *vir.Expr, d vir.BinaryData) ([]*sst.Stm, ReturnValue, error) {
	stms1, rv1, err := l.expr(d.Left)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	if rv1.IsNever() {
		return stms1, Never(), nil
	}
	stms2, rv2, err := l.expr(d.Right)
	if err != nil {
		return nil, ReturnValue{}, err
	}

	if proceedOn, other, ok := shortCircuit(d.Op.Kind); ok && len(stms2) > 0 {
		// The right operand has effects: only evaluate it when the left
		// operand does not already decide the result.
		constRV := Value(sst.MkBool(e.Span, other))
		var out []*sst.Stm
		var rv ReturnValue
		if proceedOn {
			out, rv = l.ifToStm(e, stms1, rv1, stms2, rv2, nil, constRV)
		} else {
			out, rv = l.ifToStm(e, stms1, rv1, nil, constRV, stms2, rv2)
		}
		return out, rv, nil
	}

	stms := append(stms1, stms2...)
	e1 := rv1.ToValue()
	e2 := rv2.ToValue()
	if e2 == nil {
		return stms, Never(), nil
	}
	bin := sst.NewExp(e.Span, e.Typ, sst.BinaryExp{Op: d.Op, Left: e1, Right: e2})

	if d.Op.Kind == vir.BinArith && !l.st.viewAsSpec && d.Op.Mode != vir.ModeSpec && e.Typ.IsFixedWidthInt() {
		var check *sst.Stm
		switch d.Op.Arith {
		case vir.ArithAdd, vir.ArithSub, vir.ArithMul:
			check = sst.NewStm(e.Span, sst.AssertStm{
				Error: diag.NewObligation(diag.ObligationArithOverflow, e.Span, "possible arithmetic underflow/overflow"),
				Exp:   hasType(e.Span, e.Typ, bin),
			})
		case vir.ArithEuclideanDiv, vir.ArithEuclideanMod:
			zero := sst.NewExp(e.Span, e2.Typ, sst.ConstExp{Value: vir.NatConst("0")})
			ne := sst.NewExp(e.Span, vir.BoolTyp(), sst.BinaryExp{
				Op:    vir.BinaryOp{Kind: vir.BinNe},
				Left:  e2,
				Right: zero,
			})
			check = sst.NewStm(e.Span, sst.AssertStm{
				Error: diag.NewObligation(diag.ObligationDivByZero, e.Span, "possible division by zero"),
				Exp:   ne,
			})
		}
		if check != nil {
			stms = append(stms, check)
		}
	}
	return stms, Value(bin), nil
}
