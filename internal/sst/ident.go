package sst

import (
	"strconv"

	"sstlower/internal/vir"
)

// UniqueIdent is a variable name plus an optional disambiguating
// generation. Numbered identities name statement-level locals; plain ones
// name expression-level binders (quantifier, closure and let variables).
type UniqueIdent struct {
	Name     string
	Numbered bool
	Gen      uint64
}

// Plain builds the identity of an expression-level binder.
func Plain(name string) UniqueIdent {
	return UniqueIdent{Name: name}
}

// Numbered builds the identity of the gen-th declaration of name.
func Numbered(name string, gen uint64) UniqueIdent {
	return UniqueIdent{Name: name, Numbered: true, Gen: gen}
}

func (u UniqueIdent) String() string {
	if !u.Numbered {
		return u.Name
	}
	return u.Name + "@" + strconv.FormatUint(u.Gen, 10)
}

// LocalDecl declares a statement-level local of the lowered body.
type LocalDecl struct {
	Ident   UniqueIdent
	Typ     *vir.Typ
	Mutable bool
}

// Dest is the target of a write. IsInit marks the first write.
type Dest struct {
	Dest   *Exp
	IsInit bool
}
