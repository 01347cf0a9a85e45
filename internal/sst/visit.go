package sst

import "sstlower/internal/vir"

// MapExp rebuilds e bottom-up, applying f to every subexpression after its
// children have been mapped. Binder payloads (let values, triggers, choose
// conditions) are mapped too.
func MapExp(e *Exp, f func(*Exp) *Exp) *Exp {
	if e == nil {
		return nil
	}
	var out *Exp
	switch d := e.Data.(type) {
	case ConstExp, VarExp, VarLocExp, VarAtExp, OldExp:
		out = e
	case LocExp:
		out = e.WithData(LocExp{Exp: MapExp(d.Exp, f)})
	case CallExp:
		out = e.WithData(CallExp{Fun: d.Fun, TypArgs: d.TypArgs, Args: mapExps(d.Args, f)})
	case CallLambdaExp:
		out = e.WithData(CallLambdaExp{Typ: d.Typ, Fn: MapExp(d.Fn, f), Args: mapExps(d.Args, f)})
	case CtorExp:
		out = e.WithData(CtorExp{Datatype: d.Datatype, Variant: d.Variant, Fields: mapBinders(d.Fields, f)})
	case UnaryExp:
		out = e.WithData(UnaryExp{Op: d.Op, Operand: MapExp(d.Operand, f)})
	case UnaryOprExp:
		out = e.WithData(UnaryOprExp{Op: d.Op, Operand: MapExp(d.Operand, f)})
	case BinaryExp:
		out = e.WithData(BinaryExp{Op: d.Op, Left: MapExp(d.Left, f), Right: MapExp(d.Right, f)})
	case IfExp:
		out = e.WithData(IfExp{Cond: MapExp(d.Cond, f), Then: MapExp(d.Then, f), Else: MapExp(d.Else, f)})
	case BindExp:
		out = e.WithData(BindExp{Bnd: mapBnd(d.Bnd, f), Body: MapExp(d.Body, f)})
	default:
		out = e
	}
	return f(out)
}

func mapExps(es []*Exp, f func(*Exp) *Exp) []*Exp {
	if es == nil {
		return nil
	}
	out := make([]*Exp, len(es))
	for i, e := range es {
		out[i] = MapExp(e, f)
	}
	return out
}

func mapBinders(bs []vir.Binder[*Exp], f func(*Exp) *Exp) []vir.Binder[*Exp] {
	if bs == nil {
		return nil
	}
	out := make([]vir.Binder[*Exp], len(bs))
	for i, b := range bs {
		out[i] = vir.Binder[*Exp]{Name: b.Name, Value: MapExp(b.Value, f)}
	}
	return out
}

func mapBnd(b *Bnd, f func(*Exp) *Exp) *Bnd {
	nb := *b
	nb.Lets = mapBinders(b.Lets, f)
	nb.Cond = MapExp(b.Cond, f)
	if b.Triggers != nil {
		nb.Triggers = make([]Trigger, len(b.Triggers))
		for i, trig := range b.Triggers {
			nb.Triggers[i] = mapExps(trig, f)
		}
	}
	return &nb
}

// MapStmExp rebuilds s, applying MapExp with f to every expression it
// contains, including destinations and nested statements.
func MapStmExp(s *Stm, f func(*Exp) *Exp) *Stm {
	if s == nil {
		return nil
	}
	me := func(e *Exp) *Exp { return MapExp(e, f) }
	md := func(d *Dest) *Dest {
		if d == nil {
			return nil
		}
		return &Dest{Dest: me(d.Dest), IsInit: d.IsInit}
	}
	ms := func(ss []*Stm) []*Stm {
		if ss == nil {
			return nil
		}
		out := make([]*Stm, len(ss))
		for i, s := range ss {
			out[i] = MapStmExp(s, f)
		}
		return out
	}
	var data StmData
	switch d := s.Data.(type) {
	case CallStm:
		data = CallStm{Fun: d.Fun, TypArgs: d.TypArgs, Args: mapExps(d.Args, f), Dest: md(d.Dest)}
	case AssertStm:
		data = AssertStm{Error: d.Error, Exp: me(d.Exp)}
	case AssertBVStm:
		data = AssertBVStm{Exp: me(d.Exp)}
	case AssumeStm:
		data = AssumeStm{Exp: me(d.Exp)}
	case AssignStm:
		data = AssignStm{Lhs: *md(&d.Lhs), Rhs: me(d.Rhs)}
	case FuelStm:
		data = d
	case DeadEndStm:
		data = DeadEndStm{Body: MapStmExp(d.Body, f)}
	case IfStm:
		data = IfStm{Cond: me(d.Cond), Then: MapStmExp(d.Then, f), Else: MapStmExp(d.Else, f)}
	case WhileStm:
		data = WhileStm{
			CondStms:     ms(d.CondStms),
			CondExp:      me(d.CondExp),
			Body:         MapStmExp(d.Body, f),
			Invs:         mapExps(d.Invs, f),
			TypInvVars:   d.TypInvVars,
			ModifiedVars: d.ModifiedVars,
		}
	case OpenInvariantStm:
		data = OpenInvariantStm{Inv: me(d.Inv), Ident: d.Ident, Typ: d.Typ, Body: MapStmExp(d.Body, f), Atomicity: d.Atomicity}
	case BlockStm:
		data = BlockStm{Stms: ms(d.Stms)}
	default:
		return s
	}
	return NewStm(s.Span, data)
}

// WalkExp visits e in pre-order. Returning false from visit skips the
// children of the current node.
func WalkExp(e *Exp, visit func(*Exp) bool) {
	if e == nil || !visit(e) {
		return
	}
	switch d := e.Data.(type) {
	case LocExp:
		WalkExp(d.Exp, visit)
	case CallExp:
		walkExps(d.Args, visit)
	case CallLambdaExp:
		WalkExp(d.Fn, visit)
		walkExps(d.Args, visit)
	case CtorExp:
		for _, f := range d.Fields {
			WalkExp(f.Value, visit)
		}
	case UnaryExp:
		WalkExp(d.Operand, visit)
	case UnaryOprExp:
		WalkExp(d.Operand, visit)
	case BinaryExp:
		WalkExp(d.Left, visit)
		WalkExp(d.Right, visit)
	case IfExp:
		WalkExp(d.Cond, visit)
		WalkExp(d.Then, visit)
		WalkExp(d.Else, visit)
	case BindExp:
		for _, l := range d.Bnd.Lets {
			WalkExp(l.Value, visit)
		}
		for _, trig := range d.Bnd.Triggers {
			walkExps(trig, visit)
		}
		WalkExp(d.Bnd.Cond, visit)
		WalkExp(d.Body, visit)
	}
}

func walkExps(es []*Exp, visit func(*Exp) bool) {
	for _, e := range es {
		WalkExp(e, visit)
	}
}

// WalkStm visits s and its nested statements in pre-order, passing every
// contained expression to exp. Either callback may be nil.
func WalkStm(s *Stm, stm func(*Stm), exp func(*Exp)) {
	if s == nil {
		return
	}
	if stm != nil {
		stm(s)
	}
	e := func(x *Exp) {
		if x != nil && exp != nil {
			exp(x)
		}
	}
	switch d := s.Data.(type) {
	case CallStm:
		for _, a := range d.Args {
			e(a)
		}
		if d.Dest != nil {
			e(d.Dest.Dest)
		}
	case AssertStm:
		e(d.Exp)
	case AssertBVStm:
		e(d.Exp)
	case AssumeStm:
		e(d.Exp)
	case AssignStm:
		e(d.Lhs.Dest)
		e(d.Rhs)
	case DeadEndStm:
		WalkStm(d.Body, stm, exp)
	case IfStm:
		e(d.Cond)
		WalkStm(d.Then, stm, exp)
		WalkStm(d.Else, stm, exp)
	case WhileStm:
		for _, c := range d.CondStms {
			WalkStm(c, stm, exp)
		}
		e(d.CondExp)
		for _, inv := range d.Invs {
			e(inv)
		}
		WalkStm(d.Body, stm, exp)
	case OpenInvariantStm:
		e(d.Inv)
		WalkStm(d.Body, stm, exp)
	case BlockStm:
		for _, c := range d.Stms {
			WalkStm(c, stm, exp)
		}
	}
}
