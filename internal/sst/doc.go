// Package sst defines the statement-structured intermediate representation
// produced by lowering.
//
// Pure mathematical expressions (Exp) are kept apart from statements (Stm)
// that may have effects or introduce proof obligations. Every variable is a
// UniqueIdent; the renaming performed during lowering guarantees that each
// distinct declaration of a statement-level local gets a distinct identity.
package sst
