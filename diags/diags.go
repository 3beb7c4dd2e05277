// Package diags collects compile diagnostics.
package diags

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/reusee/tailambda/asts"
)

type ID string

const (
	MissingType              ID = "MissingType"
	TypeNotFound             ID = "TypeNotFound"
	MissingMember            ID = "MissingMember"
	NoMemberNameMatch        ID = "NoMemberNameMatch"
	NoMemberArgumentMatch    ID = "NoMemberArgumentMatch"
	UnsupportedConstruct     ID = "UnsupportedConstruct"
	UnsupportedOperator      ID = "UnsupportedOperator"
	MissingRequiredElement   ID = "MissingRequiredElement"
	InvalidExtensionSyntax   ID = "InvalidExtensionSyntax"
	NonConstantTypeOperand   ID = "NonConstantTypeOperand"
	InvalidVariableReference ID = "InvalidVariableReference"
	// InvalidOperation is reported when the IR rejects operand types.
	InvalidOperation ID = "InvalidOperation"
)

// Limit is the number of diagnostics after which compilation aborts.
const Limit = 3

type Error struct {
	Span    asts.Span
	ID      ID
	Message string
}

func (e *Error) Error() string {
	if e.Span.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Span, e.ID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.ID, e.Message)
}

// Errors is the batched failure of a compilation.
type Errors []*Error

func (e Errors) Error() string {
	lines := make([]string, len(e))
	for i, err := range e {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// Has reports whether a diagnostic with id is present.
func (e Errors) Has(id ID) bool {
	for _, err := range e {
		if err.ID == id {
			return true
		}
	}
	return false
}

var ErrProbeFailed = errors.New("probe compilation failed")

// Writer receives diagnostics. Report returns a non-nil error when the
// current pass must stop.
type Writer interface {
	Report(span asts.Span, id ID, message string) error
	// Err returns the accumulated failure, nil if nothing was reported.
	Err() error
}

// Accumulator records diagnostics until Limit is reached.
type Accumulator struct {
	mu     sync.Mutex
	errors Errors
}

var _ Writer = new(Accumulator)

func NewAccumulator() *Accumulator {
	return new(Accumulator)
}

func (a *Accumulator) Report(span asts.Span, id ID, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = append(a.errors, &Error{
		Span:    span,
		ID:      id,
		Message: message,
	})
	if len(a.errors) >= Limit {
		return append(Errors(nil), a.errors...)
	}
	return nil
}

func (a *Accumulator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.errors) == 0 {
		return nil
	}
	return append(Errors(nil), a.errors...)
}

func (a *Accumulator) Errors() Errors {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append(Errors(nil), a.errors...)
}

// Probe fails on the first report and keeps no diagnostics.
// It is used for speculative compilation that must stay silent.
type Probe struct {
	mu    sync.Mutex
	count int
}

var _ Writer = new(Probe)

func NewProbe() *Probe {
	return new(Probe)
}

func (p *Probe) Report(span asts.Span, id ID, message string) error {
	p.mu.Lock()
	p.count++
	p.mu.Unlock()
	return ErrProbeFailed
}

func (p *Probe) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.count > 0 {
		return ErrProbeFailed
	}
	return nil
}
