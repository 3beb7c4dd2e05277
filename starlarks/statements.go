package starlarks

import (
	"github.com/reusee/tailambda/asts"
	"go.starlark.net/syntax"
)

var assignOps = map[syntax.Token]asts.AssignOp{
	syntax.EQ:         asts.AssignEquals,
	syntax.PLUS_EQ:    asts.AssignPlus,
	syntax.MINUS_EQ:   asts.AssignMinus,
	syntax.STAR_EQ:    asts.AssignMultiply,
	syntax.SLASH_EQ:   asts.AssignDivide,
	syntax.PERCENT_EQ: asts.AssignRem,
}

func (l *lowerer) stmts(stmts []syntax.Stmt) (*asts.StatementBlock, error) {
	ret := &asts.StatementBlock{}
	for i, stmt := range stmts {
		span := l.span(stmt)
		if i == 0 {
			ret.Span = span
		}
		ret.Span.End = span.End
		lowered, err := l.stmt(stmt)
		if err != nil {
			return nil, err
		}
		if lowered != nil {
			ret.Statements = append(ret.Statements, lowered)
		}
	}
	if len(stmts) > 0 && ret.Span.End >= ret.Span.Start {
		ret.Span.Text = string(l.src[ret.Span.Start:ret.Span.End])
	}
	return ret, nil
}

// stmt returns nil for statements without effect.
func (l *lowerer) stmt(stmt syntax.Stmt) (asts.Statement, error) {
	span := l.span(stmt)
	switch s := stmt.(type) {

	case *syntax.ExprStmt:
		if call, ok := s.X.(*syntax.CallExpr); ok {
			return l.callStmt(call)
		}
		return l.expr(s.X)

	case *syntax.AssignStmt:
		op, ok := assignOps[s.Op]
		if !ok {
			return nil, l.unsupported(s, "assignment")
		}
		left, err := l.target(s.LHS)
		if err != nil {
			return nil, err
		}
		right, err := l.value(s.RHS)
		if err != nil {
			return nil, err
		}
		return &asts.Assignment{
			Span:  span,
			Left:  left,
			Op:    op,
			Right: right,
		}, nil

	case *syntax.IfStmt:
		return l.ifStmt(s)

	case *syntax.WhileStmt:
		cond, err := l.expr(s.Cond)
		if err != nil {
			return nil, err
		}
		body, err := l.stmts(s.Body)
		if err != nil {
			return nil, err
		}
		return &asts.While{
			Span: span,
			Cond: cond,
			Body: body,
		}, nil

	case *syntax.ForStmt:
		ident, ok := s.Vars.(*syntax.Ident)
		if !ok {
			return nil, l.unsupported(s.Vars, "loop variable")
		}
		source, err := l.expr(s.X)
		if err != nil {
			return nil, err
		}
		body, err := l.stmts(s.Body)
		if err != nil {
			return nil, err
		}
		return &asts.ForEach{
			Span: span,
			Variable: &asts.Variable{
				Span: l.span(ident),
				Name: ident.Name,
			},
			Source: source,
			Body:   body,
		}, nil

	case *syntax.BranchStmt:
		switch s.Token {
		case syntax.BREAK:
			return &asts.Break{Span: span}, nil
		case syntax.CONTINUE:
			return &asts.Continue{Span: span}, nil
		}
		return nil, nil

	case *syntax.ReturnStmt:
		ret := &asts.Return{
			Span: span,
		}
		if s.Result != nil {
			value, err := l.value(s.Result)
			if err != nil {
				return nil, err
			}
			ret.Value = value
		}
		return ret, nil

	case *syntax.DefStmt:
		block, err := l.function(s.Params, s.Body, span)
		if err != nil {
			return nil, err
		}
		return &asts.FunctionDefinition{
			Span: span,
			Name: s.Name.Name,
			Body: block,
		}, nil
	}

	return nil, l.unsupported(stmt, "statement")
}

// value lowers the right side of an assignment or return, where a call to a
// host command is a statement of its own.
func (l *lowerer) value(expr syntax.Expr) (asts.Statement, error) {
	if call, ok := expr.(*syntax.CallExpr); ok {
		if ident, ok := call.Fn.(*syntax.Ident); ok && !isIntrinsic(ident.Name) {
			return l.command(call, ident)
		}
	}
	return l.expr(expr)
}

func (l *lowerer) target(expr syntax.Expr) (asts.Expr, error) {
	switch expr.(type) {
	case *syntax.Ident, *syntax.DotExpr, *syntax.IndexExpr:
		return l.expr(expr)
	case *syntax.ParenExpr:
		return l.target(expr.(*syntax.ParenExpr).X)
	}
	return nil, l.unsupported(expr, "assignment target")
}

// ifStmt flattens elif chains into clauses.
func (l *lowerer) ifStmt(s *syntax.IfStmt) (asts.Statement, error) {
	ret := &asts.If{
		Span: l.span(s),
	}
	for {
		cond, err := l.expr(s.Cond)
		if err != nil {
			return nil, err
		}
		body, err := l.stmts(s.True)
		if err != nil {
			return nil, err
		}
		ret.Clauses = append(ret.Clauses, asts.IfClause{
			Cond: cond,
			Body: body,
		})
		if len(s.False) == 1 {
			if elif, ok := s.False[0].(*syntax.IfStmt); ok {
				s = elif
				continue
			}
		}
		if len(s.False) > 0 {
			ret.Else, err = l.stmts(s.False)
			if err != nil {
				return nil, err
			}
		}
		return ret, nil
	}
}

// callStmt lowers a call in statement position. fail and exit end the
// closure; other bare names are commands.
func (l *lowerer) callStmt(call *syntax.CallExpr) (asts.Statement, error) {
	ident, ok := call.Fn.(*syntax.Ident)
	if !ok || isIntrinsic(ident.Name) {
		return l.expr(call)
	}
	span := l.span(call)

	switch ident.Name {
	case "fail", "exit":
		if len(call.Args) > 1 {
			return nil, l.errorf(call, "%s takes at most one argument", ident.Name)
		}
		var value asts.Statement
		if len(call.Args) == 1 {
			v, err := l.expr(call.Args[0])
			if err != nil {
				return nil, err
			}
			value = v
		}
		if ident.Name == "exit" {
			return &asts.Exit{
				Span:  span,
				Value: value,
			}, nil
		}
		return &asts.Throw{
			Span:  span,
			Value: value,
		}, nil
	}

	return l.command(call, ident)
}
