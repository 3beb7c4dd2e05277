package starlarks

import (
	"errors"
	"fmt"

	"github.com/reusee/tailambda/asts"
	"go.starlark.net/syntax"
)

var ErrUnsupported = errors.New("unsupported")

// Error is a source construct that has no script block form.
type Error struct {
	Span    asts.Span
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Span.File, e.Span.Line, e.Span.Column, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (l *lowerer) errorf(node syntax.Node, format string, args ...any) error {
	return &Error{
		Span:    l.span(node),
		Message: fmt.Sprintf(format, args...),
	}
}

func (l *lowerer) unsupported(node syntax.Node, what string) error {
	return &Error{
		Span:    l.span(node),
		Message: fmt.Sprintf("%s %s is not supported", what, l.span(node).Text),
		Err:     ErrUnsupported,
	}
}
