// Package vir defines the typed surface tree consumed by the lowering pass.
//
// The tree is produced by earlier front-end passes and is immutable here.
// Tuples, pattern matches and constant references are expected to have been
// desugared already; their node kinds exist only so that a leftover can be
// recognised and rejected.
//
// Every expression carries its span and its static type. Node payloads follow
// the Kind + Data layout: Kind is a cheap discriminator, Data holds the
// kind-specific fields.
package vir
