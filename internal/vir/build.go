package vir

import "sstlower/internal/source"

// Shorthand constructors used by the JSON reader and by tests.

func MkBool(sp source.Span, b bool) *Expr {
	return NewExpr(sp, BoolTyp(), ConstData{Value: BoolConst(b)})
}

func MkNat(sp source.Span, typ *Typ, n string) *Expr {
	return NewExpr(sp, typ, ConstData{Value: NatConst(n)})
}

func MkVar(sp source.Span, typ *Typ, name string) *Expr {
	return NewExpr(sp, typ, VarData{Name: name})
}

func MkVarLoc(sp source.Span, typ *Typ, name string) *Expr {
	return NewExpr(sp, typ, VarLocData{Name: name})
}

func MkBinary(sp source.Span, typ *Typ, op BinaryOp, l, r *Expr) *Expr {
	return NewExpr(sp, typ, BinaryData{Op: op, Left: l, Right: r})
}

func MkCall(sp source.Span, typ *Typ, fun Fun, args ...*Expr) *Expr {
	return NewExpr(sp, typ, CallData{Target: CallStatic, Fun: fun, Args: args})
}

func MkIf(sp source.Span, typ *Typ, cond, then, els *Expr) *Expr {
	return NewExpr(sp, typ, IfData{Cond: cond, Then: then, Else: els})
}

func MkBlock(sp source.Span, typ *Typ, tail *Expr, stmts ...*Stmt) *Expr {
	return NewExpr(sp, typ, BlockData{Stmts: stmts, Tail: tail})
}

func MkAssign(sp source.Span, lhs, rhs *Expr, initNotMut bool) *Expr {
	return NewExpr(sp, UnitTyp(), AssignData{InitNotMut: initNotMut, Lhs: lhs, Rhs: rhs})
}

func MkLet(sp source.Span, typ *Typ, name string, mutable bool, init *Expr) *Stmt {
	pat := Pattern{Kind: PatVar, Span: sp, Typ: typ, Name: name, Mutable: mutable}
	return DeclStmt(sp, pat, init)
}
