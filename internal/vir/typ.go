package vir

import (
	"fmt"
	"strconv"
	"strings"
)

// TypKind enumerates type constructors.
type TypKind uint8

const (
	TypBool TypKind = iota
	TypInt
	TypDatatype
	// TypBoxed is the uniform (polymorphic) representation of a concrete type.
	TypBoxed
	TypParam
	TypTypeId
	// TypLambda is the type of a spec closure.
	TypLambda
)

// IntRangeKind enumerates integer ranges.
type IntRangeKind uint8

const (
	RangeInt IntRangeKind = iota
	RangeNat
	RangeU
	RangeI
	RangeUSize
	RangeISize
)

// IntRange describes the mathematical range of an integer type.
type IntRange struct {
	Kind IntRangeKind
	Bits uint32 // for RangeU and RangeI
}

// Bounded reports whether the range is a machine integer, including the
// pointer-sized ones.
func (r IntRange) Bounded() bool {
	switch r.Kind {
	case RangeU, RangeI, RangeUSize, RangeISize:
		return true
	}
	return false
}

// FixedWidth reports whether the range has an explicit bit width.
// Pointer-sized ranges are bounded but not fixed-width.
func (r IntRange) FixedWidth() bool {
	return r.Kind == RangeU || r.Kind == RangeI
}

func (r IntRange) String() string {
	switch r.Kind {
	case RangeInt:
		return "int"
	case RangeNat:
		return "nat"
	case RangeU:
		return "u" + strconv.FormatUint(uint64(r.Bits), 10)
	case RangeI:
		return "i" + strconv.FormatUint(uint64(r.Bits), 10)
	case RangeUSize:
		return "usize"
	case RangeISize:
		return "isize"
	}
	return "?int"
}

// ParseIntRange accepts int, nat, usize, isize, uN and iN.
func ParseIntRange(s string) (IntRange, error) {
	switch s {
	case "int":
		return IntRange{Kind: RangeInt}, nil
	case "nat":
		return IntRange{Kind: RangeNat}, nil
	case "usize":
		return IntRange{Kind: RangeUSize}, nil
	case "isize":
		return IntRange{Kind: RangeISize}, nil
	}
	if len(s) > 1 && (s[0] == 'u' || s[0] == 'i') {
		bits, err := strconv.ParseUint(s[1:], 10, 32)
		if err == nil && bits > 0 {
			kind := RangeU
			if s[0] == 'i' {
				kind = RangeI
			}
			return IntRange{Kind: kind, Bits: uint32(bits)}, nil
		}
	}
	return IntRange{}, fmt.Errorf("unknown integer range %q", s)
}

// Typ is an immutable type term. Share pointers freely.
type Typ struct {
	Kind  TypKind
	Range IntRange // TypInt
	Name  string   // TypDatatype path, TypParam name
	Args  []*Typ   // TypDatatype arguments, TypLambda parameters
	Elem  *Typ     // TypBoxed payload, TypLambda result
}

var (
	boolTyp   = &Typ{Kind: TypBool}
	typeIDTyp = &Typ{Kind: TypTypeId}
	unitTyp   = &Typ{Kind: TypDatatype, Name: PrefixTupleType(0)}
)

func BoolTyp() *Typ   { return boolTyp }
func TypeIdTyp() *Typ { return typeIDTyp }

func IntTyp(r IntRange) *Typ {
	return &Typ{Kind: TypInt, Range: r}
}

func DatatypeTyp(path string, args ...*Typ) *Typ {
	return &Typ{Kind: TypDatatype, Name: path, Args: args}
}

func BoxedTyp(t *Typ) *Typ {
	return &Typ{Kind: TypBoxed, Elem: t}
}

func TypParamTyp(name string) *Typ {
	return &Typ{Kind: TypParam, Name: name}
}

func LambdaTyp(params []*Typ, ret *Typ) *Typ {
	return &Typ{Kind: TypLambda, Args: params, Elem: ret}
}

// UnitTyp is the unit type in the lowered form produced by tuple desugaring:
// a zero-field datatype named tuple%0.
func UnitTyp() *Typ { return unitTyp }

// IsUniform reports whether values of t already use the boxed representation.
func (t *Typ) IsUniform() bool {
	return t != nil && (t.Kind == TypParam || t.Kind == TypBoxed)
}

// IsBoundedInt reports whether t is a machine integer type.
func (t *Typ) IsBoundedInt() bool {
	return t != nil && t.Kind == TypInt && t.Range.Bounded()
}

// IsFixedWidthInt reports whether t is an integer type with an explicit
// bit width (u8, i32, ...).
func (t *Typ) IsFixedWidthInt() bool {
	return t != nil && t.Kind == TypInt && t.Range.FixedWidth()
}

// TypEqual compares two types structurally.
func TypEqual(a, b *Typ) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TypBool, TypTypeId:
		return true
	case TypInt:
		return a.Range == b.Range
	case TypParam:
		return a.Name == b.Name
	case TypBoxed:
		return TypEqual(a.Elem, b.Elem)
	case TypDatatype, TypLambda:
		if a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !TypEqual(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return TypEqual(a.Elem, b.Elem)
	}
	return false
}

func (t *Typ) String() string {
	if t == nil {
		return "_"
	}
	switch t.Kind {
	case TypBool:
		return "bool"
	case TypInt:
		return t.Range.String()
	case TypParam:
		return t.Name
	case TypTypeId:
		return "type_id"
	case TypBoxed:
		return "Box<" + t.Elem.String() + ">"
	case TypDatatype:
		if t.Name == PrefixTupleType(0) {
			return "()"
		}
		if len(t.Args) == 0 {
			return t.Name
		}
		return t.Name + "<" + joinTyps(t.Args) + ">"
	case TypLambda:
		return "FnSpec(" + joinTyps(t.Args) + ") -> " + t.Elem.String()
	}
	return "?"
}

func joinTyps(ts []*Typ) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
