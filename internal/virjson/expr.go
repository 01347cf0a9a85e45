package virjson

import (
	"fmt"

	"sstlower/internal/diag"
	"sstlower/internal/vir"
)

var unaryOps = map[string]vir.UnaryOpKind{
	"not":  vir.UnaryNot,
	"clip": vir.UnaryClip,
}

var unaryOprs = map[string]vir.UnaryOprKind{
	"box":        vir.OprBox,
	"unbox":      vir.OprUnbox,
	"has_type":   vir.OprHasType,
	"is_variant": vir.OprIsVariant,
	"field":      vir.OprField,
}

var binaryOps = map[string]vir.BinaryOp{
	"and":     {Kind: vir.BinAnd},
	"or":      {Kind: vir.BinOr},
	"xor":     {Kind: vir.BinXor},
	"implies": {Kind: vir.BinImplies},
	"eq":      {Kind: vir.BinEq},
	"ne":      {Kind: vir.BinNe},
	"le":      {Kind: vir.BinLe},
	"ge":      {Kind: vir.BinGe},
	"lt":      {Kind: vir.BinLt},
	"gt":      {Kind: vir.BinGt},
	"add":     {Kind: vir.BinArith, Arith: vir.ArithAdd},
	"sub":     {Kind: vir.BinArith, Arith: vir.ArithSub},
	"mul":     {Kind: vir.BinArith, Arith: vir.ArithMul},
	"div":     {Kind: vir.BinArith, Arith: vir.ArithEuclideanDiv},
	"mod":     {Kind: vir.BinArith, Arith: vir.ArithEuclideanMod},
}

func (d *decoder) exprs(path string, es []*exprJSON) ([]*vir.Expr, error) {
	out := make([]*vir.Expr, 0, len(es))
	for i, e := range es {
		x, err := d.expr(fmt.Sprintf("%s[%d]", path, i), e)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

// optExpr decodes an optional child.
func (d *decoder) optExpr(path string, e *exprJSON) (*vir.Expr, error) {
	if e == nil {
		return nil, nil
	}
	return d.expr(path, e)
}

func (d *decoder) binders(path string, bs []binderJSON) ([]vir.TypBinder, error) {
	out := make([]vir.TypBinder, 0, len(bs))
	for i, b := range bs {
		typ, err := d.typ(fmt.Sprintf("%s[%d].typ", path, i), b.Typ)
		if err != nil {
			return nil, err
		}
		out = append(out, vir.TypBinder{Name: ident(b.Name), Value: typ})
	}
	return out, nil
}

func (d *decoder) expr(path string, e *exprJSON) (*vir.Expr, error) {
	if e == nil {
		return nil, d.fail(diag.ReadMissingNode, path, "missing expression")
	}
	kind, ok := vir.ParseExprKind(e.Kind)
	if !ok {
		return nil, d.fail(diag.ReadUnknownKind, path, "unknown expression kind %q", e.Kind)
	}
	path = path + "<" + e.Kind + ">"
	sp, err := d.span(path, e.Span)
	if err != nil {
		return nil, err
	}
	typ := vir.UnitTyp()
	if e.Typ != nil {
		if typ, err = d.typ(path+".typ", e.Typ); err != nil {
			return nil, err
		}
	}

	// child decodes a required sub-expression, remembering the first error.
	var firstErr error
	child := func(name string, c *exprJSON) *vir.Expr {
		if firstErr != nil {
			return nil
		}
		x, err := d.expr(path+"."+name, c)
		if err != nil {
			firstErr = err
		}
		return x
	}
	optChild := func(name string, c *exprJSON) *vir.Expr {
		if c == nil {
			return nil
		}
		return child(name, c)
	}
	children := func(name string, cs []*exprJSON) []*vir.Expr {
		if firstErr != nil {
			return nil
		}
		xs, err := d.exprs(path+"."+name, cs)
		if err != nil {
			firstErr = err
		}
		return xs
	}

	var data vir.ExprData
	switch kind {
	case vir.ExprConst:
		switch {
		case e.Bool != nil:
			data = vir.ConstData{Value: vir.BoolConst(*e.Bool)}
		case e.Nat != "":
			data = vir.ConstData{Value: vir.NatConst(e.Nat)}
		default:
			return nil, d.fail(diag.ReadMissingNode, path, "constant without bool or nat")
		}
	case vir.ExprVar:
		data = vir.VarData{Name: ident(e.Name)}
	case vir.ExprVarLoc:
		data = vir.VarLocData{Name: ident(e.Name)}
	case vir.ExprVarAt:
		if e.At != "" && e.At != "pre" {
			return nil, d.fail(diag.ReadUnknownKind, path, "unknown state %q", e.At)
		}
		data = vir.VarAtData{Name: ident(e.Name), At: vir.AtPre}
	case vir.ExprConstVar:
		data = vir.ConstVarData{Fun: vir.Fun(ident(e.Fun))}
	case vir.ExprLoc:
		data = vir.LocData{Expr: child("expr", e.Expr)}
	case vir.ExprCall:
		if e.Callee != nil {
			data = vir.CallData{Target: vir.CallFnSpec, Callee: child("callee", e.Callee), Args: children("args", e.Args)}
			break
		}
		targs := make([]*vir.Typ, 0, len(e.TypArgs))
		for i, ta := range e.TypArgs {
			t, err := d.typ(fmt.Sprintf("%s.typ_args[%d]", path, i), ta)
			if err != nil {
				return nil, err
			}
			targs = append(targs, t)
		}
		data = vir.CallData{Target: vir.CallStatic, Fun: vir.Fun(ident(e.Fun)), TypArgs: targs, Args: children("args", e.Args)}
	case vir.ExprTuple:
		data = vir.TupleData{Elems: children("elems", e.Elems)}
	case vir.ExprCtor:
		fields := make([]vir.Binder[*vir.Expr], 0, len(e.Fields))
		for _, f := range e.Fields {
			fields = append(fields, vir.Binder[*vir.Expr]{Name: ident(f.Name), Value: child("fields."+f.Name, f.Value)})
		}
		data = vir.CtorData{
			Datatype: ident(e.Datatype),
			Variant:  ident(e.Variant),
			Fields:   fields,
			Update:   optChild("update", e.Update),
		}
	case vir.ExprUnary:
		op, ok := unaryOps[e.Op]
		if !ok {
			return nil, d.fail(diag.ReadUnknownKind, path, "unknown unary operator %q", e.Op)
		}
		uop := vir.UnaryOp{Kind: op}
		if op == vir.UnaryClip {
			r, err := vir.ParseIntRange(e.Range)
			if err != nil {
				return nil, d.fail(diag.ReadUnknownKind, path, "%v", err)
			}
			uop.Range = r
		}
		data = vir.UnaryData{Op: uop, Operand: child("operand", e.Operand)}
	case vir.ExprUnaryOpr:
		op, ok := unaryOprs[e.Op]
		if !ok {
			return nil, d.fail(diag.ReadUnknownKind, path, "unknown operator %q", e.Op)
		}
		opr := vir.UnaryOpr{Kind: op, Datatype: ident(e.Datatype), Variant: ident(e.Variant), Field: ident(e.Field)}
		if e.OprTyp != nil {
			if opr.Typ, err = d.typ(path+".opr_typ", e.OprTyp); err != nil {
				return nil, err
			}
		}
		data = vir.UnaryOprData{Op: opr, Operand: child("operand", e.Operand)}
	case vir.ExprBinary:
		op, ok := binaryOps[e.Op]
		if !ok {
			return nil, d.fail(diag.ReadUnknownKind, path, "unknown binary operator %q", e.Op)
		}
		if op.Kind == vir.BinArith {
			if op.Mode, err = vir.ParseMode(e.Mode); err != nil {
				return nil, d.fail(diag.ReadUnknownKind, path, "%v", err)
			}
		}
		data = vir.BinaryData{Op: op, Left: child("left", e.Left), Right: child("right", e.Right)}
	case vir.ExprQuant:
		q := vir.Forall
		switch e.Quant {
		case "", "forall":
		case "exists":
			q = vir.Exists
		default:
			return nil, d.fail(diag.ReadUnknownKind, path, "unknown quantifier %q", e.Quant)
		}
		bs, err := d.binders(path+".binders", e.Binders)
		if err != nil {
			return nil, err
		}
		data = vir.QuantData{Quant: q, Binders: bs, Body: child("body", e.Body)}
	case vir.ExprClosure:
		bs, err := d.binders(path+".binders", e.Binders)
		if err != nil {
			return nil, err
		}
		data = vir.ClosureData{Params: bs, Body: child("body", e.Body)}
	case vir.ExprChoose:
		bs, err := d.binders(path+".binders", e.Binders)
		if err != nil {
			return nil, err
		}
		data = vir.ChooseData{Params: bs, Cond: child("cond", e.Cond), Body: child("body", e.Body)}
	case vir.ExprAssign:
		data = vir.AssignData{InitNotMut: e.InitNotMut, Lhs: child("lhs", e.Lhs), Rhs: child("rhs", e.Rhs)}
	case vir.ExprFuel:
		data = vir.FuelData{Fun: vir.Fun(ident(e.Fun)), Fuel: e.Fuel}
	case vir.ExprHeader:
		data = vir.HeaderData{What: e.What}
	case vir.ExprAdmit:
		data = vir.AdmitData{}
	case vir.ExprForall:
		bs, err := d.binders(path+".binders", e.Binders)
		if err != nil {
			return nil, err
		}
		data = vir.ForallData{
			Vars:    bs,
			Require: child("require", e.Require),
			Ensure:  child("ensure", e.Ensure),
			Proof:   child("proof", e.Proof),
		}
	case vir.ExprAssertBV:
		data = vir.AssertBVData{Expr: child("expr", e.Expr)}
	case vir.ExprIf:
		data = vir.IfData{Cond: child("cond", e.Cond), Then: child("then", e.Then), Else: optChild("else", e.Else)}
	case vir.ExprMatch:
		data = vir.MatchData{Scrutinee: optChild("scrutinee", e.Scrutinee)}
	case vir.ExprWhile:
		data = vir.WhileData{Cond: child("cond", e.Cond), Body: child("body", e.Body), Invs: children("invs", e.Invs)}
	case vir.ExprOpenInvariant:
		if e.Binder == nil {
			return nil, d.fail(diag.ReadMissingNode, path, "open_invariant without binder")
		}
		bs, err := d.binders(path+".binder", []binderJSON{*e.Binder})
		if err != nil {
			return nil, err
		}
		atom := vir.InvAtomic
		switch e.Atomicity {
		case "", "atomic":
		case "non_atomic":
			atom = vir.InvNonAtomic
		default:
			return nil, d.fail(diag.ReadUnknownKind, path, "unknown atomicity %q", e.Atomicity)
		}
		data = vir.OpenInvariantData{Inv: child("inv", e.Inv), Binder: bs[0], Body: child("body", e.Body), Atomicity: atom}
	case vir.ExprReturn:
		data = vir.ReturnData{Value: optChild("value", e.Value)}
	case vir.ExprBlock:
		stmts := make([]*vir.Stmt, 0, len(e.Stmts))
		for i := range e.Stmts {
			s, err := d.stmt(fmt.Sprintf("%s.stmts[%d]", path, i), &e.Stmts[i])
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s)
		}
		data = vir.BlockData{Stmts: stmts, Tail: optChild("tail", e.Tail)}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return vir.NewExpr(sp, typ, data), nil
}

func (d *decoder) stmt(path string, s *stmtJSON) (*vir.Stmt, error) {
	switch s.Kind {
	case "expr":
		e, err := d.expr(path+".expr", s.Expr)
		if err != nil {
			return nil, err
		}
		return vir.ExprStmt(e), nil
	case "decl":
		if s.Pattern == nil {
			return nil, d.fail(diag.ReadMissingNode, path, "declaration without pattern")
		}
		sp, err := d.span(path, s.Span)
		if err != nil {
			return nil, err
		}
		pat, err := d.pattern(path+".pattern", s.Pattern)
		if err != nil {
			return nil, err
		}
		init, err := d.optExpr(path+".init", s.Init)
		if err != nil {
			return nil, err
		}
		return vir.DeclStmt(sp, pat, init), nil
	}
	return nil, d.fail(diag.ReadUnknownKind, path, "unknown statement kind %q", s.Kind)
}

func (d *decoder) pattern(path string, p *patternJSON) (vir.Pattern, error) {
	sp, err := d.span(path, p.Span)
	if err != nil {
		return vir.Pattern{}, err
	}
	typ, err := d.typ(path+".typ", p.Typ)
	if err != nil {
		return vir.Pattern{}, err
	}
	pat := vir.Pattern{Span: sp, Typ: typ, Name: ident(p.Name), Mutable: p.Mutable}
	switch p.Kind {
	case "", "var":
		pat.Kind = vir.PatVar
	case "wildcard":
		pat.Kind = vir.PatWildcard
	case "tuple":
		pat.Kind = vir.PatTuple
	case "ctor":
		pat.Kind = vir.PatCtor
	default:
		return vir.Pattern{}, d.fail(diag.ReadUnknownKind, path, "unknown pattern kind %q", p.Kind)
	}
	return pat, nil
}
