package diag

import "sstlower/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// NewObligation builds the message attached to a deferred proof obligation.
// It is never reported on its own; the verifier surfaces it when the obligation fails.
func NewObligation(code Code, primary source.Span, msg string) *Diagnostic {
	d := New(SevError, code, primary, msg)
	return &d
}

// WithLabel sets the label shown under the primary span.
func (d Diagnostic) WithLabel(label string) Diagnostic {
	d.Label = label
	return d
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
