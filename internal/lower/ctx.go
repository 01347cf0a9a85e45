package lower

import (
	"sstlower/internal/source"
	"sstlower/internal/sst"
	"sstlower/internal/trace"
	"sstlower/internal/vir"
)

// FunctionTable resolves callee metadata. *vir.Krate implements it.
type FunctionTable interface {
	Function(name vir.Fun) (*vir.Function, bool)
}

// TriggerSelector chooses instantiation patterns for a quantifier body.
// vars lists the bound variable names as they occur in body.
type TriggerSelector interface {
	BuildTriggers(sp source.Span, vars []string, body *sst.Exp) ([]sst.Trigger, error)
}

// Ctx holds the read-only collaborators shared by every lowering of a krate.
type Ctx struct {
	Funcs FunctionTable
	// Triggers may be nil, in which case quantifiers carry no triggers.
	Triggers TriggerSelector
	// ViewAsSpec lowers bodies as if every operation were spec-mode.
	ViewAsSpec bool
	Tracer     trace.Tracer
	// TraceParent is the span lowering events are attached to.
	TraceParent uint64
}

func (c *Ctx) tracer() trace.Tracer {
	if c == nil || c.Tracer == nil {
		return trace.Nop
	}
	return c.Tracer
}
