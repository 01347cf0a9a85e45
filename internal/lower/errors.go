package lower

import (
	"errors"
	"fmt"

	"sstlower/internal/diag"
	"sstlower/internal/source"
)

// Error is a user-facing lowering failure.
type Error struct {
	Diag diag.Diagnostic
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Diag.Code.ID(), e.Diag.Primary, e.Diag.Message)
}

func errorAt(code diag.Code, sp source.Span, msg string) error {
	return &Error{Diag: diag.NewError(code, sp, msg)}
}

// AsDiagnostic extracts the diagnostic carried by err. Errors that did not
// originate in lowering are wrapped under diag.UnknownCode at sp.
func AsDiagnostic(err error, sp source.Span) diag.Diagnostic {
	var le *Error
	if errors.As(err, &le) {
		return le.Diag
	}
	return diag.NewError(diag.UnknownCode, sp, err.Error())
}

// InternalError reports a broken precondition: input the earlier passes
// should have ruled out. It is raised with panic, never returned.
type InternalError struct {
	Msg string
}

func (e InternalError) Error() string {
	return "internal lowering error: " + e.Msg
}

func internalf(format string, args ...any) {
	panic(InternalError{Msg: fmt.Sprintf(format, args...)})
}
