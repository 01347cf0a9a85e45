package sst

import (
	"sstlower/internal/source"
	"sstlower/internal/vir"
)

// ExpKind enumerates pure expression forms.
type ExpKind uint8

const (
	ExpConst ExpKind = iota
	ExpVar
	ExpVarLoc
	ExpVarAt
	ExpLoc
	ExpOld
	ExpCall
	ExpCallLambda
	ExpCtor
	ExpUnary
	ExpUnaryOpr
	ExpBinary
	ExpIf
	ExpBind
)

func (k ExpKind) String() string {
	switch k {
	case ExpConst:
		return "const"
	case ExpVar:
		return "var"
	case ExpVarLoc:
		return "var_loc"
	case ExpVarAt:
		return "var_at"
	case ExpLoc:
		return "loc"
	case ExpOld:
		return "old"
	case ExpCall:
		return "call"
	case ExpCallLambda:
		return "call_lambda"
	case ExpCtor:
		return "ctor"
	case ExpUnary:
		return "unary"
	case ExpUnaryOpr:
		return "unary_opr"
	case ExpBinary:
		return "binary"
	case ExpIf:
		return "if"
	case ExpBind:
		return "bind"
	}
	return "unknown"
}

// Exp is a side-effect-free expression.
type Exp struct {
	Kind ExpKind
	Span source.Span
	Typ  *vir.Typ
	Data ExpData
}

// ExpData is implemented by every expression payload.
type ExpData interface {
	expKind() ExpKind
}

// NewExp builds an expression whose Kind is taken from its payload.
func NewExp(span source.Span, typ *vir.Typ, data ExpData) *Exp {
	return &Exp{Kind: data.expKind(), Span: span, Typ: typ, Data: data}
}

// WithData builds a sibling expression with the same span and type.
func (e *Exp) WithData(data ExpData) *Exp {
	return NewExp(e.Span, e.Typ, data)
}

// IsVar reports whether e is a plain variable reference.
func (e *Exp) IsVar() (UniqueIdent, bool) {
	if v, ok := e.Data.(VarExp); ok {
		return v.Ident, true
	}
	return UniqueIdent{}, false
}

type ConstExp struct{ Value vir.Constant }

type VarExp struct{ Ident UniqueIdent }

// VarLocExp is a variable used as a write target.
type VarLocExp struct{ Ident UniqueIdent }

type VarAtExp struct {
	Ident UniqueIdent
	At    vir.VarAt
}

// LocExp marks a compound write target (field of a local, and so on).
type LocExp struct{ Exp *Exp }

// OldExp reads a variable at a labelled earlier state.
type OldExp struct {
	Label string
	Ident UniqueIdent
}

// CallExp applies a spec function.
type CallExp struct {
	Fun     vir.Fun
	TypArgs []*vir.Typ
	Args    []*Exp
}

// CallLambdaExp applies a spec closure value.
type CallLambdaExp struct {
	Typ  *vir.Typ
	Fn   *Exp
	Args []*Exp
}

type CtorExp struct {
	Datatype string
	Variant  string
	Fields   []vir.Binder[*Exp]
}

type UnaryExp struct {
	Op      vir.UnaryOp
	Operand *Exp
}

type UnaryOprExp struct {
	Op      vir.UnaryOpr
	Operand *Exp
}

type BinaryExp struct {
	Op    vir.BinaryOp
	Left  *Exp
	Right *Exp
}

type IfExp struct {
	Cond *Exp
	Then *Exp
	Else *Exp
}

type BindExp struct {
	Bnd  *Bnd
	Body *Exp
}

func (ConstExp) expKind() ExpKind      { return ExpConst }
func (VarExp) expKind() ExpKind        { return ExpVar }
func (VarLocExp) expKind() ExpKind     { return ExpVarLoc }
func (VarAtExp) expKind() ExpKind      { return ExpVarAt }
func (LocExp) expKind() ExpKind        { return ExpLoc }
func (OldExp) expKind() ExpKind        { return ExpOld }
func (CallExp) expKind() ExpKind       { return ExpCall }
func (CallLambdaExp) expKind() ExpKind { return ExpCallLambda }
func (CtorExp) expKind() ExpKind       { return ExpCtor }
func (UnaryExp) expKind() ExpKind      { return ExpUnary }
func (UnaryOprExp) expKind() ExpKind   { return ExpUnaryOpr }
func (BinaryExp) expKind() ExpKind     { return ExpBinary }
func (IfExp) expKind() ExpKind         { return ExpIf }
func (BindExp) expKind() ExpKind       { return ExpBind }

// BndKind enumerates binder forms.
type BndKind uint8

const (
	BndLet BndKind = iota
	BndQuant
	BndLambda
	BndChoose
)

// Trigger is one quantifier instantiation pattern (a multi-term trigger
// when it has several terms).
type Trigger []*Exp

// Bnd is a binder attached to a Bind expression.
type Bnd struct {
	Kind     BndKind
	Span     source.Span
	Lets     []vir.Binder[*Exp] // BndLet
	Quant    vir.Quant          // BndQuant
	Params   []vir.TypBinder    // BndQuant, BndLambda, BndChoose
	Triggers []Trigger          // BndQuant, BndChoose
	Cond     *Exp               // BndChoose
}

// Mk helpers.

func MkBool(sp source.Span, b bool) *Exp {
	return NewExp(sp, vir.BoolTyp(), ConstExp{Value: vir.BoolConst(b)})
}

func MkVar(sp source.Span, typ *vir.Typ, id UniqueIdent) *Exp {
	return NewExp(sp, typ, VarExp{Ident: id})
}

func MkVarLoc(sp source.Span, typ *vir.Typ, id UniqueIdent) *Exp {
	return NewExp(sp, typ, VarLocExp{Ident: id})
}

// MkUnit builds the unit value: the only constructor of the zero-field
// tuple datatype.
func MkUnit(sp source.Span) *Exp {
	return NewExp(sp, vir.UnitTyp(), CtorExp{
		Datatype: vir.PrefixTupleType(0),
		Variant:  vir.PrefixTupleVariant(0),
	})
}
