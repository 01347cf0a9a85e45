package lower

import (
	"sstlower/internal/source"
	"sstlower/internal/sst"
)

// RetKind classifies how an expression completes.
type RetKind uint8

const (
	// RetValue: control continues with a pure value.
	RetValue RetKind = iota
	// RetImplicitUnit: control continues with no value (unit).
	RetImplicitUnit
	// RetNever: control never continues.
	RetNever
)

func (k RetKind) String() string {
	switch k {
	case RetValue:
		return "value"
	case RetImplicitUnit:
		return "implicit_unit"
	case RetNever:
		return "never"
	}
	return "unknown"
}

// ReturnValue is the outcome of lowering one expression. Exp is set for
// RetValue; Span locates an implicit unit.
type ReturnValue struct {
	Kind RetKind
	Exp  *sst.Exp
	Span source.Span
}

func Value(e *sst.Exp) ReturnValue {
	return ReturnValue{Kind: RetValue, Exp: e, Span: e.Span}
}

func ImplicitUnit(sp source.Span) ReturnValue {
	return ReturnValue{Kind: RetImplicitUnit, Span: sp}
}

func Never() ReturnValue {
	return ReturnValue{Kind: RetNever}
}

func (r ReturnValue) IsNever() bool { return r.Kind == RetNever }

// ToValue materialises an implicit unit as the unit constructor. It returns
// nil for Never.
func (r ReturnValue) ToValue() *sst.Exp {
	switch r.Kind {
	case RetValue:
		return r.Exp
	case RetImplicitUnit:
		return sst.MkUnit(r.Span)
	}
	return nil
}

// ExpectValue returns the value of a Value outcome and panics otherwise.
func (r ReturnValue) ExpectValue() *sst.Exp {
	if r.Kind != RetValue {
		internalf("expected a value, got %s", r.Kind)
	}
	return r.Exp
}
