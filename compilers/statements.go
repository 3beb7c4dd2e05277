package compilers

import (
	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/delegates"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
)

// Compile lowers one statement or expression.
func (p *pass) Compile(stmt asts.Statement) (exprs.Expr, error) {
	switch n := stmt.(type) {

	case *asts.Pipeline:
		switch len(n.Elements) {
		case 0:
			return &exprs.Empty{}, nil
		case 1:
			return p.Compile(n.Elements[0])
		}
		return p.reportf(n.Span, diags.UnsupportedConstruct, "pipelines are not supported")

	case *asts.StatementBlock:
		return p.compileStatementBlock(n)
	case *asts.BlockStatement:
		return p.compileStatementBlock(n.Body)
	case *asts.Assignment:
		return p.compileAssignment(n)
	case *asts.If:
		return p.compileIf(n)
	case *asts.While:
		return p.compileWhile(n)
	case *asts.DoWhile:
		return p.compileDoLoop(n.Span, n.Body, n.Cond, false)
	case *asts.DoUntil:
		return p.compileDoLoop(n.Span, n.Body, n.Cond, true)
	case *asts.For:
		return p.compileFor(n)
	case *asts.ForEach:
		return p.compileForEach(n)
	case *asts.Switch:
		return p.compileSwitch(n)
	case *asts.Try:
		return p.compileTry(n)
	case *asts.Throw:
		return p.compileThrow(n)
	case *asts.Exit:
		return p.compileExit(n)
	case *asts.Return:
		return p.compileReturn(n)
	case *asts.Break:
		return p.compileBreak(n)
	case *asts.Continue:
		cont := p.loops.Continue()
		if cont == nil {
			return p.reportf(n.Span, diags.UnsupportedConstruct, "continue outside of a loop")
		}
		jump, err := exprs.NewGoto(exprs.GotoContinue, cont, nil)
		return check(p, n.Span, jump, err)
	case *asts.Command:
		return p.compileCommand(n)

	case *asts.FunctionDefinition:
		return p.reportf(n.Span, diags.UnsupportedConstruct, "function definitions are not supported")
	case *asts.Trap:
		return p.reportf(n.Span, diags.UnsupportedConstruct, "trap statements are not supported")

	case asts.Expr:
		return p.compileExpr(n)
	}

	return p.reportf(stmt.Extent(), diags.UnsupportedConstruct, "unsupported statement %T", stmt)
}

func (p *pass) compileStatements(stmts []asts.Statement) ([]exprs.Expr, error) {
	list := make([]exprs.Expr, 0, len(stmts))
	for _, stmt := range stmts {
		expr, err := p.Compile(stmt)
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
	}
	return list, nil
}

func (p *pass) compileStatementBlock(block *asts.StatementBlock) (exprs.Expr, error) {
	if block == nil {
		return &exprs.Empty{}, nil
	}
	return p.newBlockList(func() ([]exprs.Expr, error) {
		return p.compileStatements(block.Statements)
	})
}

func (p *pass) compileCommand(n *asts.Command) (exprs.Expr, error) {
	if n.Name == delegates.ArrowCommand {
		return p.reportf(n.Span, diags.InvalidExtensionSyntax, "closure arrow syntax outside of a script block")
	}
	handler, ok := p.compiler.keywords.Lookup(n.Name)
	if !ok {
		return p.reportf(n.Span, diags.UnsupportedConstruct, "unknown command %s", n.Name)
	}
	return handler.Compile(n, p)
}

// condition compiles a loop or branch condition to bool.
func (p *pass) condition(stmt asts.Statement) (exprs.Expr, error) {
	expr, err := p.Compile(stmt)
	if err != nil {
		return nil, err
	}
	return p.isTrue(stmt.Extent(), expr)
}

func (p *pass) compileIf(n *asts.If) (exprs.Expr, error) {
	// compile in source order, assemble from the last clause
	conds := make([]exprs.Expr, len(n.Clauses))
	bodies := make([]exprs.Expr, len(n.Clauses))
	for i, clause := range n.Clauses {
		cond, err := p.condition(clause.Cond)
		if err != nil {
			return nil, err
		}
		body, err := p.compileStatementBlock(clause.Body)
		if err != nil {
			return nil, err
		}
		conds[i], bodies[i] = cond, body
	}
	var els exprs.Expr
	if n.Else != nil {
		var err error
		els, err = p.compileStatementBlock(n.Else)
		if err != nil {
			return nil, err
		}
	}
	if p.poisoned(conds...) {
		return placeholder(), nil
	}

	ret := els
	for i := len(conds) - 1; i >= 0; i-- {
		cond, err := exprs.NewConditional(conds[i], bodies[i], ret)
		if err != nil {
			return p.Check(n.Span, nil, err)
		}
		ret = cond
	}
	return ret, nil
}

func (p *pass) gotoLabel(span asts.Span, kind exprs.GotoKind, label *exprs.Label) (exprs.Expr, error) {
	jump, err := exprs.NewGoto(kind, label, nil)
	return check(p, span, jump, err)
}

func (p *pass) compileWhile(n *asts.While) (exprs.Expr, error) {
	release := p.loops.NewScope()
	defer release()
	brk, cont := p.loops.Break(), p.loops.Continue()

	cond, err := p.condition(n.Cond)
	if err != nil {
		return nil, err
	}
	body, err := p.compileStatementBlock(n.Body)
	if err != nil {
		return nil, err
	}
	if p.poisoned(cond) {
		return placeholder(), nil
	}
	exit, err := p.gotoLabel(n.Span, exprs.GotoBreak, brk)
	if err != nil {
		return nil, err
	}
	test, err := exprs.NewConditional(cond, void(body), exit)
	if err != nil {
		return p.Check(n.Span, nil, err)
	}
	return exprs.NewLoop(test, brk, cont), nil
}

// compileDoLoop compiles do-while and, with until set, do-until. The
// continue label sits before the condition.
func (p *pass) compileDoLoop(span asts.Span, bodyBlock *asts.StatementBlock, condStmt asts.Statement, until bool) (exprs.Expr, error) {
	release := p.loops.NewScope()
	defer release()
	brk, cont := p.loops.Break(), p.loops.Continue()

	body, err := p.compileStatementBlock(bodyBlock)
	if err != nil {
		return nil, err
	}
	cond, err := p.condition(condStmt)
	if err != nil {
		return nil, err
	}
	if p.poisoned(cond) {
		return placeholder(), nil
	}
	if !until {
		not, err := exprs.NewUnary(exprs.Not, cond)
		cond, err = check(p, span, not, err)
		if err != nil {
			return nil, err
		}
	}
	exit, err := p.gotoLabel(span, exprs.GotoBreak, brk)
	if err != nil {
		return nil, err
	}
	test, err := exprs.NewConditional(cond, exit, nil)
	if err != nil {
		return p.Check(span, nil, err)
	}
	mark, err := exprs.NewLabelMark(cont, nil)
	if err != nil {
		return p.Check(span, nil, err)
	}
	return exprs.NewLoop(exprs.NewBlock(nil, void(body), mark, test), brk, nil), nil
}

func (p *pass) compileFor(n *asts.For) (exprs.Expr, error) {
	return p.newBlockList(func() ([]exprs.Expr, error) {
		var list []exprs.Expr
		if n.Init != nil {
			init, err := p.Compile(n.Init)
			if err != nil {
				return nil, err
			}
			list = append(list, void(init))
		}

		release := p.loops.NewScope()
		defer release()
		brk, cont := p.loops.Break(), p.loops.Continue()

		cond := boolConstant(true)
		if n.Cond != nil {
			var err error
			cond, err = p.condition(n.Cond)
			if err != nil {
				return nil, err
			}
		}
		var iter exprs.Expr = &exprs.Empty{}
		if n.Iter != nil {
			var err error
			iter, err = p.Compile(n.Iter)
			if err != nil {
				return nil, err
			}
		}
		body, err := p.compileStatementBlock(n.Body)
		if err != nil {
			return nil, err
		}
		if p.poisoned(cond) {
			return []exprs.Expr{placeholder()}, nil
		}

		mark, err := exprs.NewLabelMark(cont, nil)
		if err != nil {
			return nil, err
		}
		exit, err := p.gotoLabel(n.Span, exprs.GotoBreak, brk)
		if err != nil {
			return nil, err
		}
		test, err := exprs.NewConditional(cond, exprs.NewBlock(nil, void(body), mark, void(iter)), exit)
		if err != nil {
			expr, err := p.Check(n.Span, nil, err)
			return []exprs.Expr{expr}, err
		}
		return append(list, exprs.NewLoop(test, brk, nil)), nil
	})
}

func (p *pass) compileSwitch(n *asts.Switch) (exprs.Expr, error) {
	return p.newBlockList(func() ([]exprs.Expr, error) {
		value, err := p.Compile(n.Cond)
		if err != nil {
			return nil, err
		}
		value, err = p.toAny(n.Cond.Extent(), value)
		if err != nil {
			return nil, err
		}
		subject := p.NewTemp("switch", types.Any)

		// break leaves the switch, continue too
		release := p.loops.NewScope()
		defer release()
		brk, cont := p.loops.Break(), p.loops.Continue()

		cases := make([]exprs.Case, 0, len(n.Clauses))
		for _, clause := range n.Clauses {
			test, err := p.Compile(clause.Value)
			if err != nil {
				return nil, err
			}
			test, err = p.toAny(clause.Value.Extent(), test)
			if err != nil {
				return nil, err
			}
			body, err := p.compileStatementBlock(clause.Body)
			if err != nil {
				return nil, err
			}
			cases = append(cases, exprs.Case{
				Tests: []exprs.Expr{test},
				Body:  void(body),
			})
		}
		var def exprs.Expr
		if n.Default != nil {
			body, err := p.compileStatementBlock(n.Default)
			if err != nil {
				return nil, err
			}
			def = void(body)
		}
		if p.poisoned(value) {
			return []exprs.Expr{placeholder()}, nil
		}

		assign, err := exprs.NewAssign(subject, value)
		if err != nil {
			expr, err := p.Check(n.Span, nil, err)
			return []exprs.Expr{expr}, err
		}
		contMark, err := exprs.NewLabelMark(cont, nil)
		if err != nil {
			return nil, err
		}
		brkMark, err := exprs.NewLabelMark(brk, nil)
		if err != nil {
			return nil, err
		}
		return []exprs.Expr{
			assign,
			exprs.NewSwitch(subject, cases, def, true),
			contMark,
			brkMark,
		}, nil
	})
}

func (p *pass) compileTry(n *asts.Try) (exprs.Expr, error) {
	body, err := p.compileStatementBlock(n.Body)
	if err != nil {
		return nil, err
	}

	catches := make([]exprs.Catch, 0, len(n.Catches))
	for _, c := range n.Catches {
		errType := types.Error
		if len(c.Types) == 1 {
			t, err := p.ResolveType(c.Types[0])
			if err != nil {
				return nil, err
			}
			if t == nil {
				return placeholder(), nil
			}
			errType = t
		}
		catch, err := p.compileCatch(c, errType)
		if err != nil {
			return nil, err
		}
		catches = append(catches, catch)
	}

	var finally exprs.Expr
	if n.Finally != nil {
		finally, err = p.compileStatementBlock(n.Finally)
		if err != nil {
			return nil, err
		}
		finally = void(finally)
	}

	try, err := exprs.NewTry(void(body), catches, finally)
	return check(p, n.Span, try, err)
}

// compileCatch binds the caught error to the current item of the handler.
func (p *pass) compileCatch(c *asts.Catch, errType *types.Type) (exprs.Catch, error) {
	release := p.vars.NewScope()
	defer release()
	item := p.vars.SetCurrentItem(errType)
	var list []exprs.Expr
	if c.Body != nil {
		var err error
		list, err = p.compileStatements(c.Body.Statements)
		if err != nil {
			return exprs.Catch{}, err
		}
	}
	locals := p.vars.Locals()
	return exprs.Catch{
		ErrType: errType,
		Var:     item,
		Body:    void(exprs.NewBlock(locals, list...)),
	}, nil
}

// newError builds an instance of the root error type from a message.
func (p *pass) newError(span asts.Span, message exprs.Expr) (exprs.Expr, error) {
	message, err := p.toString(span, message)
	if err != nil {
		return nil, err
	}
	ctor := types.Error.FindMembers("new")[0]
	expr, err := exprs.NewNew(ctor, message)
	return check(p, span, expr, err)
}

func (p *pass) throw(span asts.Span, value exprs.Expr) (exprs.Expr, error) {
	throw, err := exprs.NewThrow(value)
	return check(p, span, throw, err)
}

func (p *pass) compileThrow(n *asts.Throw) (exprs.Expr, error) {
	if n.Rethrow {
		return p.throw(n.Span, nil)
	}
	if n.Value == nil {
		value, err := p.newError(n.Span, exprs.NewConstant("ScriptHalted", types.String))
		if err != nil {
			return nil, err
		}
		return p.throw(n.Span, value)
	}
	value, err := p.Compile(n.Value)
	if err != nil {
		return nil, err
	}
	if p.poisoned(value) {
		return placeholder(), nil
	}
	if !value.Type().AssignableTo(types.Error) {
		value, err = p.newError(n.Value.Extent(), value)
		if err != nil {
			return nil, err
		}
	}
	return p.throw(n.Span, value)
}

func (p *pass) compileExit(n *asts.Exit) (exprs.Expr, error) {
	var value exprs.Expr = exprs.NewConstant(nil, types.Any)
	if n.Value != nil {
		compiled, err := p.Compile(n.Value)
		if err != nil {
			return nil, err
		}
		if p.poisoned(compiled) {
			return placeholder(), nil
		}
		value, err = p.toAny(n.Value.Extent(), compiled)
		if err != nil {
			return nil, err
		}
	}
	ctor := types.ExitError.FindMembers("new")[0]
	exit, err := exprs.NewNew(ctor, value)
	if err != nil {
		return p.Check(n.Span, nil, err)
	}
	return p.throw(n.Span, exit)
}

func (p *pass) compileReturn(n *asts.Return) (exprs.Expr, error) {
	if n.Value == nil {
		label := p.returns.ReturnLabel(types.Void)
		if !label.T.IsVoid() {
			return p.reportf(n.Span, diags.InvalidOperation, "return requires a %s value", label.T)
		}
		return p.gotoLabel(n.Span, exprs.GotoReturn, label)
	}

	value, err := p.Compile(n.Value)
	if err != nil {
		return nil, err
	}
	if p.poisoned(value) {
		return placeholder(), nil
	}
	t := p.returns.Type()
	if t == nil {
		t = value.Type()
	}
	label := p.returns.ReturnLabel(t)
	if label.T.IsVoid() {
		jump, err := exprs.NewGoto(exprs.GotoReturn, label, nil)
		if err != nil {
			return p.Check(n.Span, nil, err)
		}
		return exprs.NewBlock(nil, value, jump), nil
	}
	value, err = p.convertTo(n.Value.Extent(), value, label.T)
	if err != nil {
		return nil, err
	}
	jump, err := exprs.NewGoto(exprs.GotoReturn, label, value)
	return check(p, n.Span, jump, err)
}

// compileBreak leaves the nearest loop, or the closure outside of loops.
func (p *pass) compileBreak(n *asts.Break) (exprs.Expr, error) {
	if brk := p.loops.Break(); brk != nil {
		return p.gotoLabel(n.Span, exprs.GotoBreak, brk)
	}
	label := p.returns.ReturnLabel(types.Void)
	var value exprs.Expr
	if !label.T.IsVoid() {
		value = &exprs.Default{T: label.T}
	}
	jump, err := exprs.NewGoto(exprs.GotoReturn, label, value)
	return check(p, n.Span, jump, err)
}
