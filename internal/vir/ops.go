package vir

import "fmt"

// Mode classifies code by its runtime presence.
type Mode uint8

const (
	ModeSpec Mode = iota
	ModeProof
	ModeExec
)

func (m Mode) String() string {
	switch m {
	case ModeSpec:
		return "spec"
	case ModeProof:
		return "proof"
	case ModeExec:
		return "exec"
	}
	return "unknown"
}

// ParseMode converts a string to Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "spec":
		return ModeSpec, nil
	case "proof":
		return ModeProof, nil
	case "exec", "":
		return ModeExec, nil
	}
	return ModeExec, fmt.Errorf("unknown mode %q", s)
}

// Fun names a function.
type Fun string

// ConstKind enumerates literal kinds.
type ConstKind uint8

const (
	ConstBool ConstKind = iota
	// ConstNat is a non-negative integer literal kept in decimal text form.
	ConstNat
)

type Constant struct {
	Kind ConstKind
	Bool bool
	Nat  string
}

func BoolConst(b bool) Constant  { return Constant{Kind: ConstBool, Bool: b} }
func NatConst(n string) Constant { return Constant{Kind: ConstNat, Nat: n} }

func (c Constant) String() string {
	if c.Kind == ConstBool {
		if c.Bool {
			return "true"
		}
		return "false"
	}
	return c.Nat
}

// UnaryOpKind enumerates operators on values.
type UnaryOpKind uint8

const (
	UnaryNot UnaryOpKind = iota
	// UnaryClip truncates an integer into Range.
	UnaryClip
)

type UnaryOp struct {
	Kind  UnaryOpKind
	Range IntRange // UnaryClip
}

// UnaryOprKind enumerates type-directed operators.
type UnaryOprKind uint8

const (
	OprBox UnaryOprKind = iota
	OprUnbox
	OprHasType
	OprIsVariant
	OprField
)

type UnaryOpr struct {
	Kind     UnaryOprKind
	Typ      *Typ   // OprBox, OprUnbox, OprHasType
	Datatype string // OprIsVariant, OprField
	Variant  string // OprIsVariant, OprField
	Field    string // OprField
}

// ArithOp enumerates arithmetic operators on integers.
type ArithOp uint8

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithEuclideanDiv
	ArithEuclideanMod
)

func (op ArithOp) String() string {
	switch op {
	case ArithAdd:
		return "+"
	case ArithSub:
		return "-"
	case ArithMul:
		return "*"
	case ArithEuclideanDiv:
		return "/"
	case ArithEuclideanMod:
		return "%"
	}
	return "?"
}

// BinaryOpKind enumerates binary operators.
type BinaryOpKind uint8

const (
	BinAnd BinaryOpKind = iota
	BinOr
	BinXor
	BinImplies
	BinEq
	BinNe
	BinLe
	BinGe
	BinLt
	BinGt
	BinArith
)

// BinaryOp is a binary operator. Arithmetic operators carry the mode the
// front end inferred for the operation; overflow checks depend on it.
type BinaryOp struct {
	Kind  BinaryOpKind
	Arith ArithOp
	Mode  Mode
}

// ArithBinOp builds an arithmetic operator evaluated in mode.
func ArithBinOp(op ArithOp, mode Mode) BinaryOp {
	return BinaryOp{Kind: BinArith, Arith: op, Mode: mode}
}

func (op BinaryOp) String() string {
	switch op.Kind {
	case BinAnd:
		return "&&"
	case BinOr:
		return "||"
	case BinXor:
		return "^"
	case BinImplies:
		return "==>"
	case BinEq:
		return "=="
	case BinNe:
		return "!="
	case BinLe:
		return "<="
	case BinGe:
		return ">="
	case BinLt:
		return "<"
	case BinGt:
		return ">"
	case BinArith:
		return op.Arith.String()
	}
	return "?"
}

// Quant is a quantifier kind.
type Quant uint8

const (
	Forall Quant = iota
	Exists
)

func (q Quant) String() string {
	if q == Exists {
		return "exists"
	}
	return "forall"
}

// VarAt selects a past state of a variable.
type VarAt uint8

const (
	// AtPre is the value on function entry.
	AtPre VarAt = iota
)

// InvAtomicity tags invariant blocks for the downstream atomicity checker.
type InvAtomicity uint8

const (
	InvAtomic InvAtomicity = iota
	InvNonAtomic
)

func (a InvAtomicity) String() string {
	if a == InvNonAtomic {
		return "non_atomic"
	}
	return "atomic"
}

// ParPurpose distinguishes the two halves of a &mut parameter.
type ParPurpose uint8

const (
	ParRegular ParPurpose = iota
	ParMutPre
	ParMutPost
)
