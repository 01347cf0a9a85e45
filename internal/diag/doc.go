// Package diag defines the diagnostic model shared by the reader, the
// lowering pass and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – numeric identifier with a stable string form (codes.go).
//     RD codes come from the krate reader, LOW codes are lowering errors and
//     OBL codes label deferred proof obligations.
//   - Message – short human text.
//   - Primary span plus an optional Label for it.
//   - Notes – secondary labelled spans, e.g. the postcondition clause that an
//     exit point failed.
//
// # Obligations versus errors
//
// A lowering error stops the lowering of the function it occurs in; the
// driver reports it through a Reporter. Obligation diagnostics are different: the pass
// attaches them to assert statements in its output and never reports them.
// Only the downstream verifier decides whether they fire.
//
// # Emitting diagnostics
//
// Phases use a Reporter to decouple emission from storage. BagReporter
// aggregates diagnostics into a Bag (sorting, deduplication, limits);
// DedupReporter filters repeated reports before forwarding.
package diag
