package diag

import (
	"fmt"

	"loom/internal/source"
)

// Error is a semantic failure travelling up the checker call chain. Analysis
// of the enclosing function stops at the first Error; the driver converts it
// into a Diagnostic for display.
type Error struct {
	Code    Code
	Span    source.Span
	Message string
	Notes   []Note
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Diagnostic converts the error into a renderable diagnostic.
func (e *Error) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     e.Code,
		Message:  e.Message,
		Primary:  e.Span,
		Notes:    e.Notes,
	}
}

// Errorf builds an Error with a formatted message.
func Errorf(code Code, span source.Span, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithNote appends secondary context and returns the same error.
func (e *Error) WithNote(span source.Span, format string, args ...any) *Error {
	e.Notes = append(e.Notes, Note{Span: span, Msg: fmt.Sprintf(format, args...)})
	return e
}
