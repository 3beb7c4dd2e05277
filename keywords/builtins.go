package keywords

import (
	"fmt"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/runtimes"
	"github.com/reusee/tailambda/types"
)

func placeholder() exprs.Expr {
	return &exprs.Empty{}
}

func unwrap(stmt asts.Statement) asts.Statement {
	for {
		switch s := stmt.(type) {
		case *asts.Pipeline:
			if len(s.Elements) != 1 {
				return stmt
			}
			stmt = s.Elements[0]
		case *asts.Paren:
			if s.Inner == nil {
				return stmt
			}
			stmt = s.Inner
		default:
			return stmt
		}
	}
}

// Default compiles `default([T])` and `default T` to the zero value of T.
var Default = Func("default", func(cmd *asts.Command, ctx Context) (exprs.Expr, error) {
	if len(cmd.Args) != 1 {
		if err := ctx.Report(cmd.Span, diags.MissingType, "default requires a type"); err != nil {
			return nil, err
		}
		return placeholder(), nil
	}
	var node asts.Node = unwrap(cmd.Args[0])
	if s, ok := node.(*asts.StringConstant); ok {
		node = &asts.TypeName{
			Span: s.Span,
			Name: s.Value,
		}
	}
	t, err := ctx.ResolveType(node)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return placeholder(), nil
	}
	return &exprs.Default{T: t}, nil
})

// Generic compiles `generic($obj.Method(args), [T1], [T2])`, invoking a
// method with explicit type arguments.
var Generic = Func("generic", func(cmd *asts.Command, ctx Context) (exprs.Expr, error) {
	invalid := func() (exprs.Expr, error) {
		if err := ctx.Report(cmd.Span, diags.InvalidExtensionSyntax,
			"expected generic($target.Method(args), [type], ...)"); err != nil {
			return nil, err
		}
		return placeholder(), nil
	}
	if len(cmd.Args) != 1 {
		return invalid()
	}
	paren, ok := cmd.Args[0].(*asts.Paren)
	if !ok {
		return invalid()
	}
	list, ok := unwrap(paren.Inner).(*asts.ArrayLiteral)
	if !ok || len(list.Elements) < 2 {
		return invalid()
	}
	invoke, ok := list.Elements[0].(*asts.InvokeMember)
	if !ok {
		return invalid()
	}
	generics := make([]*types.Type, 0, len(list.Elements)-1)
	for _, elem := range list.Elements[1:] {
		t, err := ctx.ResolveType(elem)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return placeholder(), nil
		}
		generics = append(generics, t)
	}
	return ctx.InvokeMember(invoke, generics)
})

// objectAndBody is the shape `keyword <object> { body }`.
func objectAndBody(
	name string,
	build func(cmd *asts.Command, target asts.Expr, body *asts.ScriptBlock, ctx Context) (exprs.Expr, error),
) Handler {
	return Func(name, func(cmd *asts.Command, ctx Context) (exprs.Expr, error) {
		if len(cmd.Args) != 2 {
			if err := ctx.Report(cmd.Span, diags.MissingRequiredElement,
				fmt.Sprintf("%s requires an object and a body", name)); err != nil {
				return nil, err
			}
			return placeholder(), nil
		}
		body, ok := cmd.Args[1].(*asts.ScriptBlockExpr)
		if !ok || body.Block == nil || body.Block.Body == nil {
			if err := ctx.Report(cmd.Span, diags.MissingRequiredElement,
				fmt.Sprintf("%s requires a body", name)); err != nil {
				return nil, err
			}
			return placeholder(), nil
		}
		return build(cmd, cmd.Args[0], body.Block, ctx)
	})
}

// Lock holds the runtime lock of an object while the body runs.
var Lock = objectAndBody("lock", func(cmd *asts.Command, target asts.Expr, body *asts.ScriptBlock, ctx Context) (exprs.Expr, error) {
	return ctx.NewBlock(func() (exprs.Expr, error) {
		obj, err := ctx.Compile(target)
		if err != nil {
			return nil, err
		}
		if ctx.Poisoned(obj) {
			return placeholder(), nil
		}
		lockVar := ctx.NewTemp("lock", types.Any)
		boxed, err := exprs.ConvertIfNeeded(obj, types.Any)
		if err != nil {
			return ctx.Check(target.Extent(), nil, err)
		}
		assign, err := exprs.NewAssign(lockVar, boxed)
		if err != nil {
			return ctx.Check(target.Extent(), nil, err)
		}
		enter, err := exprs.NewRuntimeCall(runtimes.LockEnter, nil, lockVar)
		if err != nil {
			return ctx.Check(cmd.Span, nil, err)
		}
		exit, err := exprs.NewRuntimeCall(runtimes.LockExit, nil, lockVar)
		if err != nil {
			return ctx.Check(cmd.Span, nil, err)
		}
		inner, err := ctx.CompileBlock(body.Body)
		if err != nil {
			return nil, err
		}
		try, err := exprs.NewTry(inner, nil, exit)
		if err != nil {
			return ctx.Check(cmd.Span, nil, err)
		}
		return exprs.NewBlock(nil, assign, enter, try, &exprs.Empty{}), nil
	})
})

// With disposes an object after the body runs.
var With = objectAndBody("with", func(cmd *asts.Command, target asts.Expr, body *asts.ScriptBlock, ctx Context) (exprs.Expr, error) {
	return ctx.NewBlock(func() (exprs.Expr, error) {
		obj, err := ctx.Compile(target)
		if err != nil {
			return nil, err
		}
		if ctx.Poisoned(obj) {
			return placeholder(), nil
		}
		disposeVar := ctx.NewTemp("dispose", types.Disposable)
		converted, err := exprs.ConvertIfNeeded(obj, types.Disposable)
		if err != nil {
			return ctx.Check(target.Extent(), nil, err)
		}
		assign, err := exprs.NewAssign(disposeVar, converted)
		if err != nil {
			return ctx.Check(target.Extent(), nil, err)
		}
		dispose, err := exprs.NewCall(disposeVar, types.Disposable.FindMembers("Dispose")[0])
		if err != nil {
			return ctx.Check(cmd.Span, nil, err)
		}
		inner, err := ctx.CompileBlock(body.Body)
		if err != nil {
			return nil, err
		}
		try, err := exprs.NewTry(inner, nil, dispose)
		if err != nil {
			return ctx.Check(cmd.Span, nil, err)
		}
		return exprs.NewBlock(nil, assign, try, &exprs.Empty{}), nil
	})
})
