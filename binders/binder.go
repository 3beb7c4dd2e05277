// Package binders resolves method calls against overload sets, inferring
// generic type arguments and speculatively compiling closure arguments.
package binders

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/delegates"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/logs"
	"github.com/reusee/tailambda/names"
	"github.com/reusee/tailambda/types"
	"github.com/samber/lo"
)

// Host is the compiler surface the binder compiles arguments with.
type Host interface {
	// CompileArgument compiles a plain argument in the calling context.
	// Diagnostics are real; an error aborts binding.
	CompileArgument(node asts.Expr) (exprs.Expr, error)

	// ProbeClosure compiles block as a closure taking params. A nil result
	// asks for the result type to be inferred. Diagnostics raised while
	// probing must not escape: a failed probe returns a nil lambda and a nil
	// error.
	ProbeClosure(block *asts.ScriptBlock, params []*types.Type, result *types.Type) (*exprs.Lambda, error)

	// CommitClosure is called for each closure argument of the selected
	// candidate.
	CommitClosure(lambda *exprs.Lambda)

	// Poisoned reports whether expr stands in for an argument whose
	// diagnostic was already reported.
	Poisoned(expr exprs.Expr) bool

	Report(span asts.Span, id diags.ID, message string) error
}

type Binder struct {
	catalog    types.Catalog
	namespaces []string
	logger     logs.Logger

	extensionsOnce sync.Once
	extensions     []*types.Member
}

// New returns a binder whose extension methods are drawn from catalog,
// restricted to namespaces.
func New(catalog types.Catalog, namespaces []string, logger logs.Logger) *Binder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Binder{
		catalog:    catalog,
		namespaces: namespaces,
		logger:     logger,
	}
}

// Extensions returns the extension methods of the allowed namespaces, in
// catalog order.
func (b *Binder) Extensions() []*types.Member {
	b.extensionsOnce.Do(func() {
		if b.catalog == nil {
			return
		}
		b.extensions = lo.Filter(b.catalog.ExtensionMembers(), func(m *types.Member, _ int) bool {
			return m.Kind == types.MemberMethod &&
				lo.ContainsBy(b.namespaces, func(ns string) bool {
					return names.Equal(ns, m.Namespace)
				})
		})
	})
	return b.extensions
}

// Call describes a method invocation to bind.
type Call struct {
	Span asts.Span
	// Instance is nil for static calls.
	Instance exprs.Expr
	Receiver *types.Type
	Name     string
	Args     []*Argument
	// Generics are explicit type arguments.
	Generics []*types.Type
}

// Result is the outcome of binding. On failure Expr is nil and ID tells
// whether no member had the name or no overload accepted the arguments.
// Poisoned is set instead when an argument failed to compile, so the
// caller should not report again.
type Result struct {
	Expr     exprs.Expr
	Member   *types.Member
	ID       diags.ID
	Poisoned bool
}

func (r Result) OK() bool {
	return r.Expr != nil
}

// BindMethod selects the first declared overload that accepts the
// arguments. Instance calls fall back to extension methods taking the
// receiver as first argument. The error is non-nil only when compilation
// must abort.
func (b *Binder) BindMethod(host Host, call Call) (Result, error) {
	foundName := false

	if call.Receiver != nil {
		isStatic := call.Instance == nil
		for _, m := range call.Receiver.FindMembers(call.Name) {
			if m.Kind != types.MemberMethod || m.Static != isStatic {
				continue
			}
			foundName = true
			res, ok, err := b.tryCandidate(host, call, m, call.Instance, call.Args)
			if err != nil {
				return Result{}, err
			}
			if ok {
				return res, nil
			}
		}
	}

	if call.Instance != nil {
		args := append([]*Argument{Compiled(call.Instance)}, call.Args...)
		for _, m := range b.Extensions() {
			if !names.Equal(m.Name, call.Name) {
				continue
			}
			foundName = true
			res, ok, err := b.tryCandidate(host, call, m, nil, args)
			if err != nil {
				return Result{}, err
			}
			if ok {
				return res, nil
			}
		}
	}

	if !foundName {
		return Result{ID: diags.NoMemberNameMatch}, nil
	}
	if lo.ContainsBy(call.Args, func(arg *Argument) bool {
		return arg.poisoned
	}) {
		return Result{Poisoned: true}, nil
	}
	return Result{ID: diags.NoMemberArgumentMatch}, nil
}

func (b *Binder) tryCandidate(host Host, call Call, m *types.Member, instance exprs.Expr, args []*Argument) (Result, bool, error) {
	if len(call.Generics) > 0 {
		if !m.IsGeneric() || !validTypeArgs(m, call.Generics) {
			b.reject(m, "type arguments do not fit")
			return Result{}, false, nil
		}
		closed, err := m.Instantiate(call.Generics...)
		if err != nil {
			b.reject(m, err.Error())
			return Result{}, false, nil
		}
		m = closed
	}
	att := &attempt{
		binder:  b,
		host:    host,
		member:  m,
		generic: m.IsGeneric() || m.Definition() != nil,
		mapping: make(map[*types.Type]*types.Type),
	}
	expr, ok, err := att.bind(instance, args)
	if err != nil || !ok {
		return Result{}, false, err
	}
	for _, lambda := range att.closures {
		host.CommitClosure(lambda)
	}
	return Result{
		Expr:   expr,
		Member: expr.Method,
	}, true, nil
}

func (b *Binder) reject(m *types.Member, reason string) {
	b.logger.Debug("candidate rejected",
		"member", m.String(),
		"reason", reason,
	)
}

func validTypeArgs(m *types.Member, args []*types.Type) bool {
	if len(args) != len(m.TypeParams) {
		return false
	}
	for i, p := range m.TypeParams {
		for _, c := range p.Constraints() {
			if !args[i].AssignableTo(c) {
				return false
			}
		}
	}
	return true
}

// attempt is the state of binding one candidate. It is discarded when the
// candidate is rejected.
type attempt struct {
	binder   *Binder
	host     Host
	member   *types.Member
	generic  bool
	mapping  map[*types.Type]*types.Type
	closures []*exprs.Lambda
}

func (a *attempt) reject(format string, args ...any) (*exprs.Call, bool, error) {
	a.binder.reject(a.member, fmt.Sprintf(format, args...))
	return nil, false, nil
}

func (a *attempt) bind(instance exprs.Expr, args []*Argument) (*exprs.Call, bool, error) {
	m := a.member
	if len(m.Params) != len(args) {
		return a.reject("expects %d arguments, got %d", len(m.Params), len(args))
	}

	values := make([]exprs.Expr, len(args))
	for i, param := range m.Params {
		arg := args[i]

		if block, ok := arg.Closure(); ok {
			if param.Type.Kind() != types.KindFunc {
				return a.reject("argument %d is a closure, parameter is %s", i, param.Type)
			}
			lambda, err := a.bindClosure(param.Type, arg, block)
			if err != nil {
				return nil, false, err
			}
			if lambda == nil {
				return a.reject("closure argument %d does not fit %s", i, param.Type)
			}
			values[i] = lambda
			continue
		}

		if arg.Expr == nil {
			expr, err := a.host.CompileArgument(arg.Node)
			if err != nil {
				return nil, false, err
			}
			arg.Expr = expr
			arg.poisoned = a.host.Poisoned(expr)
		}
		if arg.poisoned {
			return a.reject("argument %d did not compile", i)
		}
		if !a.match(param.Type, arg.Expr.Type()) {
			return a.reject("argument %d of type %s does not fit %s", i, arg.Expr.Type(), param.Type)
		}
		values[i] = arg.Expr
	}

	if m.IsGeneric() {
		typeArgs := make([]*types.Type, len(m.TypeParams))
		for i, p := range m.TypeParams {
			t, ok := a.mapping[p]
			if !ok {
				return a.reject("type parameter %s not inferred", p)
			}
			typeArgs[i] = t
		}
		closed, err := m.Instantiate(typeArgs...)
		if err != nil {
			return a.reject("%v", err)
		}
		m = closed
	}

	for i, param := range m.Params {
		if param.Type.IsByRef() {
			continue
		}
		converted, err := exprs.ConvertIfNeeded(values[i], param.Type)
		if err != nil {
			return a.reject("%v", err)
		}
		values[i] = converted
	}

	call, err := exprs.NewCall(instance, m, values...)
	if err != nil {
		if errors.Is(err, exprs.ErrInvalidOperation) {
			return a.reject("%v", err)
		}
		return nil, false, err
	}
	return call, true, nil
}

func (a *attempt) bindClosure(paramType *types.Type, arg *Argument, block *asts.ScriptBlock) (*exprs.Lambda, error) {
	if !arg.normalized {
		normalized, err := delegates.Normalize(block)
		if err != nil {
			var diag *diags.Error
			if !errors.As(err, &diag) {
				return nil, err
			}
			if err := a.host.Report(diag.Span, diag.ID, diag.Message); err != nil {
				return nil, err
			}
			normalized = nil
		}
		arg.block = normalized
		arg.normalized = true
	}
	block = arg.block
	if block == nil {
		return nil, nil
	}

	out := paramType.Out()
	if hasReturn, withValue := explicitReturn(block); hasReturn && withValue && out.IsVoid() {
		return nil, nil
	}

	var declared []*asts.Parameter
	if block.Params != nil {
		declared = block.Params.Params
	}
	in := paramType.In()
	if len(declared) != len(in) {
		return nil, nil
	}

	params := make([]*types.Type, len(in))
	for i, t := range in {
		closed := types.Substitute(t, a.mapping)
		if closed.ContainsTypeParams() {
			// parameter types must be known before the body is compiled
			return nil, nil
		}
		params[i] = closed
	}

	var result *types.Type
	if closed := types.Substitute(out, a.mapping); !closed.ContainsTypeParams() {
		result = closed
	}

	key := signatureKey(params, result)
	lambda, ok := arg.closures[key]
	if !ok {
		var err error
		lambda, err = a.host.ProbeClosure(block, params, result)
		if err != nil {
			return nil, err
		}
		if arg.closures == nil {
			arg.closures = make(map[string]*exprs.Lambda)
		}
		arg.closures[key] = lambda
	}
	if lambda == nil {
		return nil, nil
	}

	if result == nil {
		if lambda.Result.IsVoid() {
			return nil, nil
		}
		if !a.match(out, lambda.Result) {
			return nil, nil
		}
	}

	a.closures = append(a.closures, lambda)
	return lambda, nil
}

// explicitReturn reports whether block contains a return statement outside
// nested closures and method arguments, and whether one of them has a value.
func explicitReturn(block *asts.ScriptBlock) (found bool, withValue bool) {
	asts.Inspect(block.Body, func(node asts.Node) bool {
		switch node := node.(type) {
		case *asts.InvokeMember, *asts.ScriptBlockExpr:
			return false
		case *asts.Return:
			found = true
			if node.Value != nil {
				withValue = true
			}
		}
		return true
	})
	return
}
