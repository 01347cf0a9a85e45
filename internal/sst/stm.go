package sst

import (
	"sstlower/internal/diag"
	"sstlower/internal/source"
	"sstlower/internal/vir"
)

// StmKind enumerates statement forms.
type StmKind uint8

const (
	StmCall StmKind = iota
	StmAssert
	StmAssertBV
	StmAssume
	StmAssign
	StmFuel
	StmDeadEnd
	StmIf
	StmWhile
	StmOpenInvariant
	StmBlock
)

func (k StmKind) String() string {
	switch k {
	case StmCall:
		return "call"
	case StmAssert:
		return "assert"
	case StmAssertBV:
		return "assert_bv"
	case StmAssume:
		return "assume"
	case StmAssign:
		return "assign"
	case StmFuel:
		return "fuel"
	case StmDeadEnd:
		return "dead_end"
	case StmIf:
		return "if"
	case StmWhile:
		return "while"
	case StmOpenInvariant:
		return "open_invariant"
	case StmBlock:
		return "block"
	}
	return "unknown"
}

// Stm is a statement of the lowered body.
type Stm struct {
	Kind StmKind
	Span source.Span
	Data StmData
}

// StmData is implemented by every statement payload.
type StmData interface {
	stmKind() StmKind
}

// NewStm builds a statement whose Kind is taken from its payload.
func NewStm(span source.Span, data StmData) *Stm {
	return &Stm{Kind: data.stmKind(), Span: span, Data: data}
}

// CallStm invokes a non-spec function. Dest is nil for unit results.
type CallStm struct {
	Fun     vir.Fun
	TypArgs []*vir.Typ
	Args    []*Exp
	Dest    *Dest
}

// AssertStm is a proof obligation. Error, when set, is the diagnostic
// reported if the obligation fails.
type AssertStm struct {
	Error *diag.Diagnostic
	Exp   *Exp
}

type AssertBVStm struct{ Exp *Exp }

type AssumeStm struct{ Exp *Exp }

type AssignStm struct {
	Lhs Dest
	Rhs *Exp
}

type FuelStm struct {
	Fun  vir.Fun
	Fuel uint32
}

// DeadEndStm is checked on its own; control never continues past it.
type DeadEndStm struct{ Body *Stm }

type IfStm struct {
	Cond *Exp
	Then *Stm
	Else *Stm // nil when absent
}

type WhileStm struct {
	CondStms     []*Stm
	CondExp      *Exp
	Body         *Stm
	Invs         []*Exp
	TypInvVars   []UniqueIdent
	ModifiedVars []UniqueIdent
}

type OpenInvariantStm struct {
	Inv       *Exp
	Ident     UniqueIdent
	Typ       *vir.Typ
	Body      *Stm
	Atomicity vir.InvAtomicity
}

type BlockStm struct{ Stms []*Stm }

func (CallStm) stmKind() StmKind          { return StmCall }
func (AssertStm) stmKind() StmKind        { return StmAssert }
func (AssertBVStm) stmKind() StmKind      { return StmAssertBV }
func (AssumeStm) stmKind() StmKind        { return StmAssume }
func (AssignStm) stmKind() StmKind        { return StmAssign }
func (FuelStm) stmKind() StmKind          { return StmFuel }
func (DeadEndStm) stmKind() StmKind       { return StmDeadEnd }
func (IfStm) stmKind() StmKind            { return StmIf }
func (WhileStm) stmKind() StmKind         { return StmWhile }
func (OpenInvariantStm) stmKind() StmKind { return StmOpenInvariant }
func (BlockStm) stmKind() StmKind         { return StmBlock }
