package lower

import (
	"errors"

	"sstlower/internal/diag"
	"sstlower/internal/source"
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

// pureInScope lowers body as a pure expression inside a fresh scope that
// binds names as expression-level variables.
func (l *lowerer) pureInScope(names []vir.TypBinder, body *vir.Expr) (*sst.Exp, error) {
	l.st.pushScope()
	for _, b := range names {
		l.st.declareExpressionVar(b.Name)
	}
	exp, err := l.pure(body)
	l.st.popScope()
	return exp, err
}

func (l *lowerer) triggers(sp source.Span, binders []vir.TypBinder, body *sst.Exp) ([]sst.Trigger, error) {
	if l.ctx == nil || l.ctx.Triggers == nil {
		return nil, nil
	}
	vars := make([]string, len(binders))
	for i, b := range binders {
		if b.Value.Kind == vir.TypTypeId {
			vars[i] = vir.SuffixTypParamID(b.Name)
		} else {
			vars[i] = b.Name
		}
	}
	trigs, err := l.ctx.Triggers.BuildTriggers(sp, vars, body)
	if err != nil {
		var le *Error
		if errors.As(err, &le) {
			return nil, err
		}
		return nil, errorAt(diag.LowerNoTriggers, sp, err.Error())
	}
	return trigs, nil
}

func (l *lowerer) lowerQuant(e *vir.Expr, d vir.QuantData) ([]*sst.Stm, ReturnValue, error) {
	body, err := l.pureInScope(d.Binders, d.Body)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	trigs, err := l.triggers(d.Body.Span, d.Binders, body)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	bnd := &sst.Bnd{
		Kind:     sst.BndQuant,
		Span:     d.Body.Span,
		Quant:    d.Quant,
		Params:   d.Binders,
		Triggers: trigs,
	}
	return nil, Value(sst.NewExp(e.Span, e.Typ, sst.BindExp{Bnd: bnd, Body: body})), nil
}

// lowerClosure builds a lambda over boxed parameters. Parameters of
// non-uniform type are unboxed on entry and a non-uniform body is boxed on
// exit, so that every closure has the uniform calling convention.
func (l *lowerer) lowerClosure(e *vir.Expr, d vir.ClosureData) ([]*sst.Stm, ReturnValue, error) {
	body, err := l.pureInScope(d.Params, d.Body)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	if !body.Typ.IsUniform() {
		body = sst.NewExp(body.Span, vir.BoxedTyp(body.Typ), sst.UnaryOprExp{
			Op:      vir.UnaryOpr{Kind: vir.OprBox, Typ: body.Typ},
			Operand: body,
		})
	}
	params := make([]vir.TypBinder, 0, len(d.Params))
	var unboxes []vir.Binder[*sst.Exp]
	for _, p := range d.Params {
		if p.Value.IsUniform() {
			params = append(params, p)
			continue
		}
		boxed := vir.BoxedTyp(p.Value)
		params = append(params, vir.TypBinder{Name: p.Name, Value: boxed})
		unboxes = append(unboxes, vir.Binder[*sst.Exp]{
			Name: p.Name,
			Value: sst.NewExp(e.Span, p.Value, sst.UnaryOprExp{
				Op:      vir.UnaryOpr{Kind: vir.OprUnbox, Typ: p.Value},
				Operand: sst.MkVar(e.Span, boxed, sst.Plain(p.Name)),
			}),
		})
	}
	if len(unboxes) > 0 {
		body = sst.NewExp(body.Span, body.Typ, sst.BindExp{
			Bnd:  &sst.Bnd{Kind: sst.BndLet, Span: e.Span, Lets: unboxes},
			Body: body,
		})
	}
	bnd := &sst.Bnd{Kind: sst.BndLambda, Span: e.Span, Params: params}
	return nil, Value(sst.NewExp(e.Span, e.Typ, sst.BindExp{Bnd: bnd, Body: body})), nil
}

func (l *lowerer) lowerChoose(e *vir.Expr, d vir.ChooseData) ([]*sst.Stm, ReturnValue, error) {
	l.st.pushScope()
	for _, p := range d.Params {
		l.st.declareExpressionVar(p.Name)
	}
	cond, err := l.pure(d.Cond)
	var body *sst.Exp
	if err == nil {
		body, err = l.pure(d.Body)
	}
	l.st.popScope()
	if err != nil {
		return nil, ReturnValue{}, err
	}
	trigs, err := l.triggers(d.Cond.Span, d.Params, cond)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	bnd := &sst.Bnd{
		Kind:     sst.BndChoose,
		Span:     d.Body.Span,
		Params:   d.Params,
		Triggers: trigs,
		Cond:     cond,
	}
	return nil, Value(sst.NewExp(e.Span, e.Typ, sst.BindExp{Bnd: bnd, Body: body})), nil
}

// lowerForall checks a universally quantified proof block in isolation
// (assume the precondition, run the proof, assert the postcondition) and
// then assumes the resulting quantified implication.
func (l *lowerer) lowerForall(e *vir.Expr, d vir.ForallData) ([]*sst.Stm, ReturnValue, error) {
	var body []*sst.Stm
	l.st.pushScope()
	for _, v := range d.Vars {
		id := l.st.declareNewVar(v.Name, v.Value, false, true)
		x := sst.MkVar(e.Span, v.Value, id)
		body = append(body, assume(d.Require.Span, hasType(e.Span, v.Value, x)))
	}
	proofStms, rv, err := l.expr(d.Proof)
	if err == nil && rv.Kind == RetValue {
		err = errorAt(diag.LowerProofEndsWithValue, d.Proof.Span, "forall/assert-by cannot end with an expression")
	}
	var req, ens *sst.Exp
	if err == nil {
		req, err = l.pure(d.Require)
	}
	if err == nil {
		ens, err = l.pure(d.Ensure)
	}
	l.st.popScope()
	if err != nil {
		return nil, ReturnValue{}, err
	}
	body = append(body, assume(d.Require.Span, req))
	body = append(body, proofStms...)
	body = append(body, sst.NewStm(d.Ensure.Span, sst.AssertStm{Exp: ens}))
	block := sst.NewStm(e.Span, sst.BlockStm{Stms: body})
	stms := []*sst.Stm{sst.NewStm(e.Span, sst.DeadEndStm{Body: block})}

	implies := vir.MkBinary(d.Ensure.Span, vir.BoolTyp(), vir.BinaryOp{Kind: vir.BinImplies}, d.Require, d.Ensure)
	quant := vir.NewExpr(d.Ensure.Span, vir.BoolTyp(), vir.QuantData{Quant: vir.Forall, Binders: d.Vars, Body: implies})
	fact, err := l.pure(quant)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	stms = append(stms, assume(e.Span, fact))
	return stms, ImplicitUnit(e.Span), nil
}
