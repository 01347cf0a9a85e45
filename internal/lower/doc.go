// Package lower translates the typed surface tree (package vir) into the
// statement-structured IR (package sst).
//
// Lowering separates pure expressions from effectful statements, hoists
// non-trivial call arguments into temporaries, inserts checked-arithmetic
// obligations, short-circuits boolean connectives and renames locals so
// that every declaration has a distinct identity.
//
// Each function is lowered with a fresh State. A State is not safe for
// concurrent use; distinct States are independent.
package lower
