package compilers

import (
	"errors"
	"fmt"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/binders"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/keywords"
	"github.com/reusee/tailambda/names"
	"github.com/reusee/tailambda/scopes"
	"github.com/reusee/tailambda/types"
)

// pass is the state of one compilation. Probes for closure arguments run on
// the same pass with the writer and the wrapper staging swapped out.
type pass struct {
	compiler *Compiler
	writer   diags.Writer
	vars     *scopes.Variables
	loops    *scopes.Loops
	returns  *scopes.Returns

	captured map[string]*Variable
	context  exprs.Expr

	// wrappers created by this pass, committed to the caches on success
	staged map[*Variable]*exprs.Captured
	// staging maps of the enclosing probes, innermost last
	outer []map[*Variable]*exprs.Captured
	// wrappers created by probed closures, keyed by the probe result
	pending map[*exprs.Lambda]map[*Variable]*exprs.Captured

	seq int
}

var (
	_ keywords.Context = new(pass)
	_ binders.Host     = new(pass)
)

func (c *Compiler) newPass(writer diags.Writer, opts Options) *pass {
	captured := make(map[string]*Variable, len(opts.Variables))
	for _, v := range opts.Variables {
		captured[names.Fold(v.Name)] = v
	}
	contextType := opts.ContextType
	if contextType == nil {
		contextType = types.Any
	}
	return &pass{
		compiler: c,
		writer:   writer,
		vars:     scopes.NewVariables(),
		loops:    scopes.NewLoops(),
		returns:  scopes.NewReturns(),
		captured: captured,
		context:  exprs.NewConstant(opts.Context, contextType),
		staged:   make(map[*Variable]*exprs.Captured),
		pending:  make(map[*exprs.Lambda]map[*Variable]*exprs.Captured),
	}
}

func placeholder() exprs.Expr {
	return &exprs.Empty{}
}

func (p *pass) Report(span asts.Span, id diags.ID, message string) error {
	return p.writer.Report(span, id, message)
}

func (p *pass) reportf(span asts.Span, id diags.ID, format string, args ...any) (exprs.Expr, error) {
	if err := p.writer.Report(span, id, fmt.Sprintf(format, args...)); err != nil {
		return nil, err
	}
	return placeholder(), nil
}

// Check turns a rejected IR construction into an InvalidOperation
// diagnostic and a placeholder.
func (p *pass) Check(span asts.Span, expr exprs.Expr, err error) (exprs.Expr, error) {
	if err == nil {
		return expr, nil
	}
	if !errors.Is(err, exprs.ErrInvalidOperation) {
		return nil, err
	}
	return p.reportf(span, diags.InvalidOperation, "%s", err.Error())
}

// check is Check for constructors returning concrete node types.
func check[T exprs.Expr](p *pass, span asts.Span, expr T, err error) (exprs.Expr, error) {
	if err != nil {
		return p.Check(span, nil, err)
	}
	return expr, nil
}

// poisoned reports whether an operand is the placeholder of an earlier
// diagnostic, in which case the enclosing construct is skipped silently.
func (p *pass) poisoned(list ...exprs.Expr) bool {
	if p.writer.Err() == nil {
		return false
	}
	for _, e := range list {
		if _, ok := e.(*exprs.Empty); ok {
			return true
		}
	}
	return false
}

// Poisoned reports whether expr is a placeholder left by an earlier
// diagnostic.
func (p *pass) Poisoned(expr exprs.Expr) bool {
	return p.poisoned(expr)
}

func (p *pass) tempName(hint string) string {
	p.seq++
	return fmt.Sprintf("%s#%d", hint, p.seq)
}

func (p *pass) NewTemp(hint string, t *types.Type) *exprs.Variable {
	return p.vars.NewTemp(hint, t)
}

// NewBlock runs build in a fresh variable scope.
func (p *pass) NewBlock(build func() (exprs.Expr, error)) (exprs.Expr, error) {
	release := p.vars.NewScope()
	defer release()
	expr, err := build()
	if err != nil {
		return nil, err
	}
	return exprs.NewBlock(p.vars.Locals(), expr), nil
}

func (p *pass) newBlockList(build func() ([]exprs.Expr, error)) (exprs.Expr, error) {
	release := p.vars.NewScope()
	defer release()
	list, err := build()
	if err != nil {
		return nil, err
	}
	return exprs.NewBlock(p.vars.Locals(), list...), nil
}

func (p *pass) CompileBlock(block *asts.StatementBlock) (exprs.Expr, error) {
	return p.compileStatementBlock(block)
}

// CompileArgument compiles a plain method argument for the binder.
func (p *pass) CompileArgument(node asts.Expr) (exprs.Expr, error) {
	return p.Compile(node)
}

// wrap returns the expression reading host variable v.
func (p *pass) wrap(v *Variable) exprs.Expr {
	if c, ok := p.staged[v]; ok {
		return c
	}
	for i := len(p.outer) - 1; i >= 0; i-- {
		if c, ok := p.outer[i][v]; ok {
			return c
		}
	}
	if c, ok := p.compiler.caches.Wrapper(v); ok {
		return c
	}
	t := v.Type
	if t == nil {
		t = types.Any
	}
	c := &exprs.Captured{
		Name: v.Name,
		Ref:  v.Cell,
		T:    t,
	}
	p.staged[v] = c
	return c
}

// commitStaged publishes the wrappers of a successful compilation.
func (p *pass) commitStaged() {
	for v, c := range p.staged {
		p.compiler.caches.StoreWrapper(v, c)
	}
	p.staged = make(map[*Variable]*exprs.Captured)
}
