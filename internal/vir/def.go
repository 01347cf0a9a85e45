package vir

import (
	"strconv"
	"strings"
)

// Reserved names. The '%' character cannot occur in surface identifiers,
// so these never collide with user variables.
const (
	tempVarPrefix    = "tmp%"
	tuplePrefix      = "tuple%"
	typParamIDSuffix = "%type_id"
)

// PrefixTempVar names the n-th temporary introduced by lowering.
func PrefixTempVar(n uint64) string {
	return tempVarPrefix + strconv.FormatUint(n, 10)
}

// IsTempVar reports whether name was produced by PrefixTempVar.
func IsTempVar(name string) bool {
	return strings.HasPrefix(name, tempVarPrefix)
}

// PrefixTupleType names the datatype of n-ary tuples after desugaring.
func PrefixTupleType(n int) string {
	return tuplePrefix + strconv.Itoa(n)
}

// PrefixTupleVariant names the single variant of the n-ary tuple datatype.
func PrefixTupleVariant(n int) string {
	return tuplePrefix + strconv.Itoa(n)
}

// SuffixTypParamID names the type-identity variable of a type binder.
func SuffixTypParamID(name string) string {
	return name + typParamIDSuffix
}

// Binder pairs a bound name with a payload (a type, or an expression).
type Binder[A any] struct {
	Name  string
	Value A
}

// TypBinder binds a name to its type.
type TypBinder = Binder[*Typ]
