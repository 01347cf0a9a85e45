package lower

import (
	"fmt"

	"sstlower/internal/diag"
	"sstlower/internal/source"
	"sstlower/internal/sst"
	"sstlower/internal/vir"
)

// loweredCall is a static call whose arguments have been lowered. When never
// is set an argument diverged and the remaining fields are unset.
type loweredCall struct {
	never     bool
	fun       vir.Fun
	typArgs   []*vir.Typ
	hasReturn bool
	canBeExp  bool
	args      []*sst.Exp
}

func (l *lowerer) lookup(sp source.Span, name vir.Fun) (*vir.Function, error) {
	if l.ctx != nil && l.ctx.Funcs != nil {
		if fn, ok := l.ctx.Funcs.Function(name); ok {
			return fn, nil
		}
	}
	return nil, errorAt(diag.LowerUnknownFunction, sp, fmt.Sprintf("could not find function %s", name))
}

// exprGetCall lowers the arguments of a static call left to right.
func (l *lowerer) exprGetCall(e *vir.Expr) ([]*sst.Stm, *loweredCall, error) {
	d := e.Data.(vir.CallData)
	if d.Target != vir.CallStatic {
		internalf("closure call at %s lowered as a statement call", e.Span)
	}
	var stms []*sst.Stm
	args := make([]*sst.Exp, 0, len(d.Args))
	for _, arg := range d.Args {
		s, rv, err := l.expr(arg)
		if err != nil {
			return nil, nil, err
		}
		stms = append(stms, s...)
		v := rv.ToValue()
		if v == nil {
			return stms, &loweredCall{never: true}, nil
		}
		args = append(args, v)
	}
	fn, err := l.lookup(e.Span, d.Fun)
	if err != nil {
		return nil, nil, err
	}
	return stms, &loweredCall{
		fun:       d.Fun,
		typArgs:   d.TypArgs,
		hasReturn: fn.Ret != nil,
		canBeExp:  fn.Mode == vir.ModeSpec,
		args:      args,
	}, nil
}

// exprMustBeCallStm lowers e as a call when it is a static call of a
// non-spec function. It returns a nil call for anything else.
func (l *lowerer) exprMustBeCallStm(e *vir.Expr) ([]*sst.Stm, *loweredCall, error) {
	d, ok := e.Data.(vir.CallData)
	if !ok || d.Target != vir.CallStatic {
		return nil, nil, nil
	}
	fn, err := l.lookup(e.Span, d.Fun)
	if err != nil {
		return nil, nil, err
	}
	if fn.Mode == vir.ModeSpec {
		return nil, nil, nil
	}
	return l.exprGetCall(e)
}

// stmCall emits a call statement, first moving every argument that is
// neither small nor a location into a fresh temporary.
func (l *lowerer) stmCall(sp source.Span, call *loweredCall, dest *sst.Dest) *sst.Stm {
	var stms []*sst.Stm
	args := make([]*sst.Exp, 0, len(call.args))
	for _, arg := range call.args {
		if isSmallExpOrLoc(arg) {
			args = append(args, arg)
			continue
		}
		name, tmp := l.st.nextTemp(arg.Span, arg.Typ)
		id := l.st.declareNewVar(name, arg.Typ, false, false)
		stms = append(stms, initVar(arg.Span, id, arg))
		args = append(args, tmp)
	}
	stms = append(stms, sst.NewStm(sp, sst.CallStm{
		Fun:     call.fun,
		TypArgs: call.typArgs,
		Args:    args,
		Dest:    dest,
	}))
	return StmsToOneStm(sp, stms)
}

func (l *lowerer) lowerStaticCall(e *vir.Expr) ([]*sst.Stm, ReturnValue, error) {
	stms, call, err := l.exprGetCall(e)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	switch {
	case call.never:
		return stms, Never(), nil
	case call.canBeExp:
		return stms, Value(sst.NewExp(e.Span, e.Typ, sst.CallExp{
			Fun:     call.fun,
			TypArgs: call.typArgs,
			Args:    call.args,
		})), nil
	case call.hasReturn:
		name, tmp := l.st.nextTemp(e.Span, e.Typ)
		id := l.st.declareNewVar(name, e.Typ, false, false)
		dest := &sst.Dest{Dest: sst.MkVarLoc(e.Span, e.Typ, id), IsInit: true}
		stms = append(stms, l.stmCall(e.Span, call, dest))
		return stms, Value(tmp), nil
	default:
		stms = append(stms, l.stmCall(e.Span, call, nil))
		return stms, ImplicitUnit(e.Span), nil
	}
}

// lowerLambdaCall applies a spec closure; callee and arguments must be pure.
func (l *lowerer) lowerLambdaCall(e *vir.Expr) ([]*sst.Stm, ReturnValue, error) {
	d := e.Data.(vir.CallData)
	fn, err := l.pure(d.Callee)
	if err != nil {
		return nil, ReturnValue{}, err
	}
	args := make([]*sst.Exp, 0, len(d.Args))
	for _, arg := range d.Args {
		a, err := l.pure(arg)
		if err != nil {
			return nil, ReturnValue{}, err
		}
		args = append(args, a)
	}
	return nil, Value(sst.NewExp(e.Span, e.Typ, sst.CallLambdaExp{Typ: e.Typ, Fn: fn, Args: args})), nil
}
