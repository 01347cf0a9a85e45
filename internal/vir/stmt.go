package vir

import "sstlower/internal/source"

// StmtKind enumerates statement forms.
type StmtKind uint8

const (
	StmtExpr StmtKind = iota
	StmtDecl
)

// PatternKind enumerates binding patterns. Only PatVar survives desugaring.
type PatternKind uint8

const (
	PatVar PatternKind = iota
	PatWildcard
	PatTuple
	PatCtor
)

type Pattern struct {
	Kind    PatternKind
	Span    source.Span
	Typ     *Typ
	Name    string // PatVar
	Mutable bool   // PatVar
}

// Stmt is a block statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Expr *Expr     // StmtExpr
	Decl *DeclData // StmtDecl
}

type DeclData struct {
	Pattern Pattern
	Init    *Expr // nil for an uninitialised declaration
}

// ExprStmt wraps an expression evaluated for its effect.
func ExprStmt(e *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Span: e.Span, Expr: e}
}

// DeclStmt declares a local.
func DeclStmt(span source.Span, pat Pattern, init *Expr) *Stmt {
	return &Stmt{Kind: StmtDecl, Span: span, Decl: &DeclData{Pattern: pat, Init: init}}
}
