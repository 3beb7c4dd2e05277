package compilers

import (
	"errors"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/delegates"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/scopes"
	"github.com/reusee/tailambda/types"
)

// signature is the shape a closure is compiled against.
type signature struct {
	// fixed is set when params are given by the caller rather than by the
	// block's declarations.
	fixed  bool
	params []*types.Type
	// result is nil when it is fixed by the first return statement.
	result *types.Type
	// implicit lets a body of one bare statement yield its value without a
	// return statement.
	implicit bool
}

func signatureOf(t *types.Type) signature {
	return signature{
		fixed:    true,
		params:   t.In(),
		result:   t.Out(),
		implicit: !t.Out().IsVoid(),
	}
}

// bareStatement reports whether body is a single statement producing a value.
func bareStatement(body *asts.StatementBlock) bool {
	if len(body.Statements) != 1 {
		return false
	}
	stmt := body.Statements[0]
	if pipeline, ok := stmt.(*asts.Pipeline); ok {
		if len(pipeline.Elements) != 1 {
			return false
		}
		stmt = pipeline.Elements[0]
	}
	switch stmt.(type) {
	case *asts.Command, asts.Expr:
		return true
	}
	return false
}

func (p *pass) compileClosure(block *asts.ScriptBlock, sig signature, top bool) (exprs.Expr, error) {
	normalized, err := delegates.Normalize(block)
	if err != nil {
		var diag *diags.Error
		if !errors.As(err, &diag) {
			return nil, err
		}
		return p.reportf(diag.Span, diag.ID, "%s", diag.Message)
	}
	block = normalized

	if block.Begin != nil || block.Process != nil {
		return p.reportf(block.Span, diags.UnsupportedConstruct, "begin and process blocks are not supported")
	}
	if block.Body == nil {
		return p.reportf(block.Span, diags.MissingRequiredElement, "script block has no body")
	}

	var declared []*asts.Parameter
	if block.Params != nil {
		declared = block.Params.Params
	}
	if sig.fixed && len(declared) != len(sig.params) {
		return p.reportf(block.Span, diags.MissingRequiredElement,
			"expected %d parameters, got %d", len(sig.params), len(declared))
	}

	params := make([]*exprs.Variable, len(declared))
	for i, decl := range declared {
		var t *types.Type
		if decl.Type != nil {
			t, err = p.ResolveType(decl.Type)
			if err != nil {
				return nil, err
			}
			if t == nil {
				return placeholder(), nil
			}
		}
		if sig.fixed {
			if t != nil && t != sig.params[i] {
				return p.reportf(decl.Span, diags.InvalidOperation,
					"parameter $%s is declared as %s, expected %s", decl.Name, t, sig.params[i])
			}
			t = sig.params[i]
		}
		if t == nil {
			t = types.Any
		}
		params[i] = exprs.NewVariable(decl.Name, t)
	}

	// break and continue do not cross closure boundaries
	loops := p.loops
	p.loops = scopes.NewLoops()
	defer func() {
		p.loops = loops
	}()
	releaseVars := p.vars.NewScope(params...)
	defer releaseVars()
	releaseReturns := p.returns.NewScope(sig.result)
	defer releaseReturns()

	list, err := p.compileStatements(block.Body.Statements)
	if err != nil {
		return nil, err
	}

	implicit := sig.implicit && bareStatement(block.Body)
	if implicit && !p.returns.Requested() && len(list) == 1 {
		if t := p.returns.Type(); t != nil && !t.IsVoid() {
			list[0], err = p.convertTo(block.Body.Statements[0].Extent(), list[0], t)
			if err != nil {
				return nil, err
			}
		}
	}
	list, err = p.returns.WithReturn(list, !implicit)
	if err != nil {
		return p.Check(block.Span, nil, err)
	}

	result := p.returns.Type()
	if result == nil {
		result = types.Void
		if len(list) > 0 {
			result = list[len(list)-1].Type()
		}
	}
	if p.poisoned(list...) {
		return placeholder(), nil
	}
	body, err := exprs.NewTypedBlock(result, p.vars.Locals(), list...)
	if err != nil {
		return p.Check(block.Span, nil, err)
	}

	name := "lambda"
	if !top {
		name = p.tempName("closure")
	}
	lambda, err := exprs.NewLambda(name, params, body, result)
	if err != nil {
		return p.Check(block.Span, nil, err)
	}
	return lambda, nil
}

// ProbeClosure compiles block speculatively. Nothing it reports reaches the
// pass's writer, and the host variables it wraps stay pending until the
// closure is committed.
func (p *pass) ProbeClosure(block *asts.ScriptBlock, params []*types.Type, result *types.Type) (*exprs.Lambda, error) {
	sig := signature{
		fixed:    true,
		params:   params,
		result:   result,
		implicit: result == nil || !result.IsVoid(),
	}

	writer, staged := p.writer, p.staged
	probe := diags.NewProbe()
	p.writer = probe
	p.outer = append(p.outer, staged)
	p.staged = make(map[*Variable]*exprs.Captured)
	expr, err := p.compileClosure(block, sig, false)
	probed := p.staged
	p.writer, p.staged = writer, staged
	p.outer = p.outer[:len(p.outer)-1]

	if err != nil {
		if errors.Is(err, diags.ErrProbeFailed) {
			return nil, nil
		}
		return nil, err
	}
	if probe.Err() != nil {
		return nil, nil
	}
	lambda, ok := expr.(*exprs.Lambda)
	if !ok {
		return nil, nil
	}
	p.pending[lambda] = probed
	return lambda, nil
}

// CommitClosure adopts the wrappers a selected probe created.
func (p *pass) CommitClosure(lambda *exprs.Lambda) {
	probed, ok := p.pending[lambda]
	if !ok {
		return
	}
	delete(p.pending, lambda)
	for v, c := range probed {
		if _, ok := p.staged[v]; !ok {
			p.staged[v] = c
		}
	}
}

// compileTypedClosure compiles `[Func[...]]{ ... }`.
func (p *pass) compileTypedClosure(span asts.Span, t *types.Type, block *asts.ScriptBlock) (exprs.Expr, error) {
	if t.Kind() != types.KindFunc || t.ContainsTypeParams() {
		return p.reportf(span, diags.InvalidOperation, "cannot convert a script block to %s", t)
	}
	expr, err := p.compileClosure(block, signatureOf(t), false)
	if err != nil {
		return nil, err
	}
	if lambda, ok := expr.(*exprs.Lambda); ok && lambda.Type() != t {
		return p.reportf(span, diags.InvalidOperation, "closure of type %s does not convert to %s", lambda.Type(), t)
	}
	return expr, nil
}
