// Package delegates rewrites the `(params) = > body` closure sugar into an
// explicit parameter block.
package delegates

import (
	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/diags"
)

// ArrowCommand is the command name the parser produces for the `=>` token.
const ArrowCommand = ">"

// Normalize returns block in canonical form. Blocks without the sugared shape
// are returned unchanged. A sugared statement sharing the body with other
// statements is an InvalidExtensionSyntax error.
func Normalize(block *asts.ScriptBlock) (*asts.ScriptBlock, error) {
	if block == nil || block.Params != nil || block.Body == nil {
		return block, nil
	}
	stmts := block.Body.Statements
	if len(stmts) == 0 {
		return block, nil
	}

	if len(stmts) > 1 {
		for _, stmt := range stmts {
			if _, _, ok := match(stmt); ok {
				return nil, &diags.Error{
					Span:    stmt.Extent(),
					ID:      diags.InvalidExtensionSyntax,
					Message: "closure arrow syntax must be the only statement of the block",
				}
			}
		}
		return block, nil
	}

	params, body, ok := match(stmts[0])
	if !ok {
		return block, nil
	}
	return &asts.ScriptBlock{
		Span:   block.Span,
		Params: params,
		Body:   body,
	}, nil
}

func match(stmt asts.Statement) (*asts.ParamBlock, *asts.StatementBlock, bool) {
	assign, ok := unwrapPipeline(stmt).(*asts.Assignment)
	if !ok || assign.Op != asts.AssignEquals {
		return nil, nil, false
	}
	cmd, ok := unwrapPipeline(assign.Right).(*asts.Command)
	if !ok || cmd.Name != ArrowCommand || len(cmd.Args) != 1 {
		return nil, nil, false
	}
	params, ok := collectParams(assign.Left, nil)
	if !ok {
		return nil, nil, false
	}

	var body *asts.StatementBlock
	if sb, ok := cmd.Args[0].(*asts.ScriptBlockExpr); ok {
		if sb.Block == nil || sb.Block.Body == nil {
			return nil, nil, false
		}
		body = sb.Block.Body
	} else {
		body = &asts.StatementBlock{
			Span:       cmd.Args[0].Extent(),
			Statements: []asts.Statement{cmd.Args[0]},
		}
	}

	return &asts.ParamBlock{
		Span:   assign.Left.Extent(),
		Params: params,
	}, body, true
}

func unwrapPipeline(stmt asts.Statement) asts.Statement {
	if p, ok := stmt.(*asts.Pipeline); ok && len(p.Elements) == 1 {
		return p.Elements[0]
	}
	return stmt
}

// collectParams accepts a variable, a typed variable, or a parenthesized
// list of those. Untyped parameters get a nil type.
func collectParams(expr asts.Expr, params []*asts.Parameter) ([]*asts.Parameter, bool) {
	switch expr := expr.(type) {
	case *asts.Variable:
		return append(params, &asts.Parameter{
			Span: expr.Span,
			Name: expr.Name,
		}), true
	case *asts.Convert:
		v, ok := expr.Child.(*asts.Variable)
		if !ok {
			return nil, false
		}
		return append(params, &asts.Parameter{
			Span: expr.Span,
			Name: v.Name,
			Type: expr.Type,
		}), true
	case *asts.Paren:
		if expr.Inner == nil {
			return params, true
		}
		inner, ok := unwrapPipeline(expr.Inner).(asts.Expr)
		if !ok {
			return nil, false
		}
		return collectParams(inner, params)
	case *asts.ArrayLiteral:
		for _, elem := range expr.Elements {
			var ok bool
			params, ok = collectParams(elem, params)
			if !ok {
				return nil, false
			}
		}
		return params, true
	}
	return nil, false
}
