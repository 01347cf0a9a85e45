package vir

import "sstlower/internal/source"

// ExprKind enumerates expression forms.
type ExprKind uint8

const (
	ExprConst ExprKind = iota
	ExprVar
	ExprVarLoc
	ExprVarAt
	ExprConstVar
	ExprLoc
	ExprCall
	ExprTuple
	ExprCtor
	ExprUnary
	ExprUnaryOpr
	ExprBinary
	ExprQuant
	ExprClosure
	ExprChoose
	ExprAssign
	ExprFuel
	ExprHeader
	ExprAdmit
	ExprForall
	ExprAssertBV
	ExprIf
	ExprMatch
	ExprWhile
	ExprOpenInvariant
	ExprReturn
	ExprBlock
)

var exprKindNames = [...]string{
	ExprConst:         "const",
	ExprVar:           "var",
	ExprVarLoc:        "var_loc",
	ExprVarAt:         "var_at",
	ExprConstVar:      "const_var",
	ExprLoc:           "loc",
	ExprCall:          "call",
	ExprTuple:         "tuple",
	ExprCtor:          "ctor",
	ExprUnary:         "unary",
	ExprUnaryOpr:      "unary_opr",
	ExprBinary:        "binary",
	ExprQuant:         "quant",
	ExprClosure:       "closure",
	ExprChoose:        "choose",
	ExprAssign:        "assign",
	ExprFuel:          "fuel",
	ExprHeader:        "header",
	ExprAdmit:         "admit",
	ExprForall:        "forall",
	ExprAssertBV:      "assert_bv",
	ExprIf:            "if",
	ExprMatch:         "match",
	ExprWhile:         "while",
	ExprOpenInvariant: "open_invariant",
	ExprReturn:        "return",
	ExprBlock:         "block",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "unknown"
}

// ParseExprKind maps a kind name back to ExprKind.
func ParseExprKind(s string) (ExprKind, bool) {
	for i, name := range exprKindNames {
		if name == s {
			return ExprKind(i), true
		}
	}
	return 0, false
}

// Expr is a typed surface expression.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Typ  *Typ
	Data ExprData
}

// ExprData is implemented by every expression payload.
type ExprData interface {
	exprKind() ExprKind
}

// NewExpr builds an expression whose Kind is taken from its payload.
func NewExpr(span source.Span, typ *Typ, data ExprData) *Expr {
	return &Expr{Kind: data.exprKind(), Span: span, Typ: typ, Data: data}
}

type ConstData struct{ Value Constant }

type VarData struct{ Name string }

// VarLocData is a variable used as an assignment target.
type VarLocData struct{ Name string }

type VarAtData struct {
	Name string
	At   VarAt
}

// ConstVarData references a global constant; removed before lowering.
type ConstVarData struct{ Fun Fun }

type LocData struct{ Expr *Expr }

// CallTargetKind distinguishes named calls from closure applications.
type CallTargetKind uint8

const (
	CallStatic CallTargetKind = iota
	CallFnSpec
)

type CallData struct {
	Target  CallTargetKind
	Fun     Fun    // CallStatic
	TypArgs []*Typ // CallStatic
	Callee  *Expr  // CallFnSpec
	Args    []*Expr
}

// TupleData is removed by tuple desugaring before lowering.
type TupleData struct{ Elems []*Expr }

type CtorData struct {
	Datatype string
	Variant  string
	Fields   []Binder[*Expr]
	// Update is the functional-update base; removed before lowering.
	Update *Expr
}

type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
}

type UnaryOprData struct {
	Op      UnaryOpr
	Operand *Expr
}

type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

type QuantData struct {
	Quant   Quant
	Binders []TypBinder
	Body    *Expr
}

type ClosureData struct {
	Params []TypBinder
	Body   *Expr
}

type ChooseData struct {
	Params []TypBinder
	Cond   *Expr
	Body   *Expr
}

type AssignData struct {
	// InitNotMut marks the first write of an immutable local.
	InitNotMut bool
	Lhs        *Expr
	Rhs        *Expr
}

type FuelData struct {
	Fun  Fun
	Fuel uint32
}

// HeaderData is a requires/ensures/invariant header outside its home.
type HeaderData struct{ What string }

type AdmitData struct{}

// ForallData is a universally quantified proof block.
type ForallData struct {
	Vars    []TypBinder
	Require *Expr
	Ensure  *Expr
	Proof   *Expr
}

type AssertBVData struct{ Expr *Expr }

type IfData struct {
	Cond *Expr
	Then *Expr
	Else *Expr // nil when absent
}

// MatchData is removed by pattern desugaring before lowering.
type MatchData struct {
	Scrutinee *Expr
}

type WhileData struct {
	Cond *Expr
	Body *Expr
	Invs []*Expr
}

type OpenInvariantData struct {
	Inv       *Expr
	Binder    TypBinder
	Body      *Expr
	Atomicity InvAtomicity
}

type ReturnData struct {
	Value *Expr // nil for a bare return
}

type BlockData struct {
	Stmts []*Stmt
	Tail  *Expr // nil when the block ends with a statement
}

func (ConstData) exprKind() ExprKind         { return ExprConst }
func (VarData) exprKind() ExprKind           { return ExprVar }
func (VarLocData) exprKind() ExprKind        { return ExprVarLoc }
func (VarAtData) exprKind() ExprKind         { return ExprVarAt }
func (ConstVarData) exprKind() ExprKind      { return ExprConstVar }
func (LocData) exprKind() ExprKind           { return ExprLoc }
func (CallData) exprKind() ExprKind          { return ExprCall }
func (TupleData) exprKind() ExprKind         { return ExprTuple }
func (CtorData) exprKind() ExprKind          { return ExprCtor }
func (UnaryData) exprKind() ExprKind         { return ExprUnary }
func (UnaryOprData) exprKind() ExprKind      { return ExprUnaryOpr }
func (BinaryData) exprKind() ExprKind        { return ExprBinary }
func (QuantData) exprKind() ExprKind         { return ExprQuant }
func (ClosureData) exprKind() ExprKind       { return ExprClosure }
func (ChooseData) exprKind() ExprKind        { return ExprChoose }
func (AssignData) exprKind() ExprKind        { return ExprAssign }
func (FuelData) exprKind() ExprKind          { return ExprFuel }
func (HeaderData) exprKind() ExprKind        { return ExprHeader }
func (AdmitData) exprKind() ExprKind         { return ExprAdmit }
func (ForallData) exprKind() ExprKind        { return ExprForall }
func (AssertBVData) exprKind() ExprKind      { return ExprAssertBV }
func (IfData) exprKind() ExprKind            { return ExprIf }
func (MatchData) exprKind() ExprKind         { return ExprMatch }
func (WhileData) exprKind() ExprKind         { return ExprWhile }
func (OpenInvariantData) exprKind() ExprKind { return ExprOpenInvariant }
func (ReturnData) exprKind() ExprKind        { return ExprReturn }
func (BlockData) exprKind() ExprKind         { return ExprBlock }
