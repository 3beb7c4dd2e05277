package compilers

import (
	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/names"
	"github.com/reusee/tailambda/scopes"
	"github.com/reusee/tailambda/types"
)

// lookupVariable resolves name in order: constants, the current item,
// captured variables, the scope chain, the execution context, globals.
func (p *pass) lookupVariable(name string) (exprs.Expr, bool) {
	switch names.Fold(name) {
	case "true":
		return boolConstant(true), true
	case "false":
		return boolConstant(false), true
	case "null":
		return exprs.NewConstant(nil, types.Any), true
	case scopes.CurrentItemName:
		item, ok := p.vars.CurrentItem()
		if !ok {
			return nil, false
		}
		return item, true
	}
	if v, ok := p.captured[names.Fold(name)]; ok {
		return p.wrap(v), true
	}
	if v, ok := p.vars.Lookup(name); ok {
		return v, true
	}
	if names.Equal(name, ExecutionContextName) {
		return p.context, true
	}
	if g, ok := p.compiler.global(name); ok {
		return p.wrap(g), true
	}
	return nil, false
}

func (p *pass) compileVariable(n *asts.Variable) (exprs.Expr, error) {
	if expr, ok := p.lookupVariable(n.Name); ok {
		return expr, nil
	}
	return p.reportf(n.Span, diags.InvalidVariableReference, "variable $%s is not defined", n.Name)
}

func isNull(stmt asts.Statement) bool {
	if pipeline, ok := stmt.(*asts.Pipeline); ok && len(pipeline.Elements) == 1 {
		stmt = pipeline.Elements[0]
	}
	v, ok := stmt.(*asts.Variable)
	return ok && names.Equal(v.Name, "null")
}

var assignOps = map[asts.AssignOp]asts.BinaryOp{
	asts.AssignPlus:     asts.OpPlus,
	asts.AssignMinus:    asts.OpMinus,
	asts.AssignMultiply: asts.OpMultiply,
	asts.AssignDivide:   asts.OpDivide,
	asts.AssignRem:      asts.OpRem,
}

func (p *pass) compileAssignment(n *asts.Assignment) (exprs.Expr, error) {
	var target, value exprs.Expr
	var err error

	switch left := n.Left.(type) {

	case *asts.Variable:
		if existing, ok := p.lookupVariable(left.Name); ok {
			target = existing
			break
		}
		if n.Op != asts.AssignEquals {
			return p.reportf(left.Span, diags.InvalidVariableReference, "variable $%s is not defined", left.Name)
		}
		// the value is compiled before the variable exists
		if !isNull(n.Right) {
			value, err = p.Compile(n.Right)
			if err != nil {
				return nil, err
			}
			if p.poisoned(value) {
				return placeholder(), nil
			}
		}
		t := types.Any
		if value != nil && !value.Type().IsVoid() {
			t = value.Type()
		}
		target, _ = p.vars.GetOrCreate(left.Name, t)

	case *asts.Convert:
		v, ok := left.Child.(*asts.Variable)
		if !ok {
			return p.reportf(left.Span, diags.UnsupportedConstruct, "cannot assign to a conversion")
		}
		t, err := p.ResolveType(left.Type)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return placeholder(), nil
		}
		target, _ = p.vars.GetOrCreate(v.Name, t)

	case *asts.MemberAccess, *asts.Index:
		target, err = p.compileExpr(left)
		if err != nil {
			return nil, err
		}

	default:
		return p.reportf(n.Left.Extent(), diags.UnsupportedConstruct, "cannot assign to %T", n.Left)
	}

	if p.poisoned(target) {
		return placeholder(), nil
	}
	if !exprs.Assignable(target) {
		return p.reportf(n.Left.Extent(), diags.InvalidOperation, "%s is not assignable", n.Left.Extent().Text)
	}

	if n.Op == asts.AssignEquals && isNull(n.Right) {
		assign, err := exprs.NewAssign(target, &exprs.Default{T: target.Type()})
		return check(p, n.Span, assign, err)
	}

	if value == nil {
		value, err = p.Compile(n.Right)
		if err != nil {
			return nil, err
		}
		if p.poisoned(value) {
			return placeholder(), nil
		}
	}

	if op, ok := assignOps[n.Op]; ok {
		value, err = p.binary(n.Span, op, target, value, n.Left.Extent(), n.Right.Extent())
		if err != nil {
			return nil, err
		}
		if p.poisoned(value) {
			return placeholder(), nil
		}
	}

	value, err = p.convertTo(n.Right.Extent(), value, target.Type())
	if err != nil {
		return nil, err
	}
	assign, err := exprs.NewAssign(target, value)
	return check(p, n.Span, assign, err)
}
