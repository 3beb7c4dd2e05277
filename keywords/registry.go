// Package keywords maps bare-word statements such as `with $x { ... }` to
// compile handlers.
package keywords

import (
	"sync"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/names"
	"github.com/reusee/tailambda/types"
)

// Context is the compiler surface available to handlers.
//
// Methods returning an error only do so when compilation must abort. A
// diagnostic that was reported and recovered from yields a placeholder
// expression, or a nil type from ResolveType, with a nil error.
type Context interface {
	Compile(stmt asts.Statement) (exprs.Expr, error)
	CompileBlock(block *asts.StatementBlock) (exprs.Expr, error)
	ResolveType(node asts.Node) (*types.Type, error)
	InvokeMember(node *asts.InvokeMember, generics []*types.Type) (exprs.Expr, error)
	// NewBlock runs build in a fresh variable scope and wraps the result in
	// a block declaring the scope's locals.
	NewBlock(build func() (exprs.Expr, error)) (exprs.Expr, error)
	NewTemp(hint string, t *types.Type) *exprs.Variable
	Report(span asts.Span, id diags.ID, message string) error
	// Check reports a rejected IR construction and returns a placeholder.
	Check(span asts.Span, expr exprs.Expr, err error) (exprs.Expr, error)
	// Poisoned reports whether expr is a placeholder whose diagnostic was
	// already reported.
	Poisoned(expr exprs.Expr) bool
}

type Handler interface {
	Name() string
	Compile(cmd *asts.Command, ctx Context) (exprs.Expr, error)
}

type funcHandler struct {
	name string
	fn   func(cmd *asts.Command, ctx Context) (exprs.Expr, error)
}

func (f *funcHandler) Name() string {
	return f.name
}

func (f *funcHandler) Compile(cmd *asts.Command, ctx Context) (exprs.Expr, error) {
	return f.fn(cmd, ctx)
}

// Func returns a Handler named name backed by fn.
func Func(name string, fn func(cmd *asts.Command, ctx Context) (exprs.Expr, error)) Handler {
	return &funcHandler{
		name: name,
		fn:   fn,
	}
}

// Registry is an append-only, case-insensitive handler table.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	order    []string
}

// NewRegistry returns a registry holding the built-in keywords.
func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[string]Handler),
	}
	r.Register(Default)
	r.Register(Generic)
	r.Register(Lock)
	r.Register(With)
	return r
}

// Register adds h unless a handler of the same name exists.
// It reports whether h was added.
func (r *Registry) Register(h Handler) bool {
	key := names.Fold(h.Name())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[key]; ok {
		return false
	}
	r.handlers[key] = h
	r.order = append(r.order, h.Name())
	return true
}

func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[names.Fold(name)]
	return h, ok
}

// Names returns registered keyword names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
