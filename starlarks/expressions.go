package starlarks

import (
	"math"
	"math/big"
	"strings"

	"github.com/reusee/tailambda/asts"
	"go.starlark.net/syntax"
)

var binaryOps = map[syntax.Token]asts.BinaryOp{
	syntax.PLUS:       asts.OpPlus,
	syntax.MINUS:      asts.OpMinus,
	syntax.STAR:       asts.OpMultiply,
	syntax.SLASH:      asts.OpDivide,
	syntax.PERCENT:    asts.OpRem,
	syntax.AND:        asts.OpAnd,
	syntax.OR:         asts.OpOr,
	syntax.AMP:        asts.OpBand,
	syntax.PIPE:       asts.OpBor,
	syntax.CIRCUMFLEX: asts.OpBxor,
	syntax.LTLT:       asts.OpShl,
	syntax.GTGT:       asts.OpShr,
	// starlark comparisons are case sensitive
	syntax.EQL:    asts.OpCEq,
	syntax.NEQ:    asts.OpCNe,
	syntax.LT:     asts.OpCLt,
	syntax.LE:     asts.OpCLe,
	syntax.GT:     asts.OpCGt,
	syntax.GE:     asts.OpCGe,
	syntax.IN:     asts.OpCIn,
	syntax.NOT_IN: asts.OpCNotIn,
}

var unaryOps = map[syntax.Token]asts.UnaryOp{
	syntax.MINUS: asts.UnaryNegate,
	syntax.NOT:   asts.UnaryNot,
	syntax.TILDE: asts.UnaryBnot,
}

var constantNames = map[string]string{
	"True":  "true",
	"False": "false",
	"None":  "null",
}

// intrinsics are calls with a dedicated node rather than a command.
var intrinsics = map[string]bool{
	"type":       true,
	"cast":       true,
	"isinstance": true,
}

func isIntrinsic(name string) bool {
	return intrinsics[name]
}

func (l *lowerer) exprs(list []syntax.Expr) ([]asts.Expr, error) {
	ret := make([]asts.Expr, 0, len(list))
	for _, e := range list {
		lowered, err := l.expr(e)
		if err != nil {
			return nil, err
		}
		ret = append(ret, lowered)
	}
	return ret, nil
}

func (l *lowerer) expr(expr syntax.Expr) (asts.Expr, error) {
	span := l.span(expr)
	switch e := expr.(type) {

	case *syntax.Literal:
		return l.literal(e)

	case *syntax.Ident:
		name := e.Name
		if constant, ok := constantNames[name]; ok {
			name = constant
		}
		return &asts.Variable{
			Span: span,
			Name: name,
		}, nil

	case *syntax.ParenExpr:
		inner, err := l.expr(e.X)
		if err != nil {
			return nil, err
		}
		return &asts.Paren{
			Span:  span,
			Inner: inner,
		}, nil

	case *syntax.UnaryExpr:
		child, err := l.expr(e.X)
		if err != nil {
			return nil, err
		}
		if e.Op == syntax.PLUS {
			return child, nil
		}
		op, ok := unaryOps[e.Op]
		if !ok {
			return nil, l.unsupported(e, "operator")
		}
		return &asts.Unary{
			Span:  span,
			Op:    op,
			Child: child,
		}, nil

	case *syntax.BinaryExpr:
		op, ok := binaryOps[e.Op]
		if !ok {
			return nil, l.unsupported(e, "operator")
		}
		left, err := l.expr(e.X)
		if err != nil {
			return nil, err
		}
		right, err := l.expr(e.Y)
		if err != nil {
			return nil, err
		}
		return &asts.Binary{
			Span:   span,
			Op:     op,
			Left:   left,
			Right:  right,
			OpSpan: l.token(e.OpPos, e.Op),
		}, nil

	case *syntax.DotExpr:
		target, static, err := l.receiver(e.X)
		if err != nil {
			return nil, err
		}
		return &asts.MemberAccess{
			Span:   span,
			Target: target,
			Member: l.name(e.Name),
			Static: static,
		}, nil

	case *syntax.CallExpr:
		return l.call(e)

	case *syntax.IndexExpr:
		target, err := l.expr(e.X)
		if err != nil {
			return nil, err
		}
		index, err := l.expr(e.Y)
		if err != nil {
			return nil, err
		}
		return &asts.Index{
			Span:   span,
			Target: target,
			Index:  index,
		}, nil

	case *syntax.ListExpr:
		return l.array(span, e.List)
	case *syntax.TupleExpr:
		return l.array(span, e.List)

	case *syntax.DictExpr:
		ret := &asts.Hashtable{
			Span: span,
		}
		for _, entry := range e.List {
			entry := entry.(*syntax.DictEntry)
			key, err := l.expr(entry.Key)
			if err != nil {
				return nil, err
			}
			value, err := l.expr(entry.Value)
			if err != nil {
				return nil, err
			}
			ret.Pairs = append(ret.Pairs, asts.KeyValue{
				Key:   key,
				Value: value,
			})
		}
		return ret, nil

	case *syntax.CondExpr:
		cond, err := l.expr(e.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.expr(e.True)
		if err != nil {
			return nil, err
		}
		els, err := l.expr(e.False)
		if err != nil {
			return nil, err
		}
		return &asts.SubExpr{
			Span: span,
			Body: &asts.StatementBlock{
				Span: span,
				Statements: []asts.Statement{
					&asts.If{
						Span: span,
						Clauses: []asts.IfClause{{
							Cond: cond,
							Body: &asts.StatementBlock{
								Span:       then.Extent(),
								Statements: []asts.Statement{then},
							},
						}},
						Else: &asts.StatementBlock{
							Span:       els.Extent(),
							Statements: []asts.Statement{els},
						},
					},
				},
			},
		}, nil

	case *syntax.LambdaExpr:
		params, err := l.params(e.Params)
		if err != nil {
			return nil, err
		}
		body, err := l.expr(e.Body)
		if err != nil {
			return nil, err
		}
		// the body is a bare statement, returned implicitly under a signature
		return &asts.ScriptBlockExpr{
			Span: span,
			Block: &asts.ScriptBlock{
				Span:   span,
				Params: params,
				Body: &asts.StatementBlock{
					Span:       body.Extent(),
					Statements: []asts.Statement{body},
				},
			},
		}, nil

	case *syntax.Comprehension:
		return nil, l.unsupported(e, "comprehension")
	case *syntax.SliceExpr:
		return nil, l.unsupported(e, "slice")
	}

	return nil, l.unsupported(expr, "expression")
}

func (l *lowerer) literal(e *syntax.Literal) (asts.Expr, error) {
	span := l.span(e)
	switch v := e.Value.(type) {
	case string:
		if e.Token == syntax.BYTES {
			return nil, l.unsupported(e, "bytes literal")
		}
		return &asts.StringConstant{
			Span:  span,
			Value: v,
		}, nil
	case int64:
		if v >= math.MinInt && v <= math.MaxInt {
			return &asts.Constant{Span: span, Value: int(v)}, nil
		}
		return &asts.Constant{Span: span, Value: v}, nil
	case *big.Int:
		if v.IsInt64() {
			return &asts.Constant{Span: span, Value: v.Int64()}, nil
		}
		return nil, l.errorf(e, "integer %s overflows int64", e.Raw)
	case float64:
		return &asts.Constant{Span: span, Value: v}, nil
	}
	return nil, l.unsupported(e, "literal")
}

func (l *lowerer) token(pos syntax.Position, tok syntax.Token) asts.Span {
	end := syntax.MakePosition(nil, pos.Line, pos.Col+int32(len(tok.String())))
	return l.between(pos, end)
}

func (l *lowerer) name(ident *syntax.Ident) *asts.StringConstant {
	return &asts.StringConstant{
		Span:  l.span(ident),
		Value: ident.Name,
	}
}

func (l *lowerer) array(span asts.Span, list []syntax.Expr) (asts.Expr, error) {
	elems, err := l.exprs(list)
	if err != nil {
		return nil, err
	}
	return &asts.ArrayLiteral{
		Span:     span,
		Elements: elems,
	}, nil
}

// receiver lowers the left side of a member access; type("T") selects
// static members of T.
func (l *lowerer) receiver(expr syntax.Expr) (target asts.Expr, static bool, err error) {
	if lit, ok, err := l.typeCall(expr); err != nil {
		return nil, false, err
	} else if ok {
		return lit, true, nil
	}
	target, err = l.expr(expr)
	return target, false, err
}

// typeCall recognizes type("T").
func (l *lowerer) typeCall(expr syntax.Expr) (*asts.TypeLiteral, bool, error) {
	call, ok := expr.(*syntax.CallExpr)
	if !ok {
		return nil, false, nil
	}
	ident, ok := call.Fn.(*syntax.Ident)
	if !ok || ident.Name != "type" {
		return nil, false, nil
	}
	if len(call.Args) != 1 {
		return nil, false, l.errorf(call, "type takes one argument")
	}
	name, err := l.typeName(call.Args[0])
	if err != nil {
		return nil, false, err
	}
	return &asts.TypeLiteral{
		Span: l.span(call),
		Type: name,
	}, true, nil
}

func (l *lowerer) typeName(expr syntax.Expr) (*asts.TypeName, error) {
	lit, ok := expr.(*syntax.Literal)
	if !ok || lit.Token != syntax.STRING {
		return nil, l.errorf(expr, "type name must be a string")
	}
	name, err := ParseTypeName(lit.Value.(string))
	if err != nil {
		return nil, l.errorf(expr, "%v", err)
	}
	setSpan(name, l.span(lit))
	return name, nil
}

func (l *lowerer) args(call *syntax.CallExpr) ([]asts.Expr, error) {
	for _, arg := range call.Args {
		if bin, ok := arg.(*syntax.BinaryExpr); ok && bin.Op == syntax.EQ {
			return nil, l.unsupported(arg, "keyword argument")
		}
		if un, ok := arg.(*syntax.UnaryExpr); ok && (un.Op == syntax.STAR || un.Op == syntax.STARSTAR) {
			return nil, l.unsupported(arg, "variadic argument")
		}
	}
	return l.exprs(call.Args)
}

func (l *lowerer) call(call *syntax.CallExpr) (asts.Expr, error) {
	span := l.span(call)

	if lit, ok, err := l.typeCall(call); err != nil {
		return nil, err
	} else if ok {
		return lit, nil
	}

	switch fn := call.Fn.(type) {

	case *syntax.DotExpr:
		target, static, err := l.receiver(fn.X)
		if err != nil {
			return nil, err
		}
		args, err := l.args(call)
		if err != nil {
			return nil, err
		}
		return &asts.InvokeMember{
			Span:   span,
			Target: target,
			Member: l.name(fn.Name),
			Args:   args,
			Static: static,
		}, nil

	case *syntax.Ident:
		switch fn.Name {

		case "cast":
			if len(call.Args) != 2 {
				return nil, l.errorf(call, "cast takes a type name and a value")
			}
			name, err := l.typeName(call.Args[0])
			if err != nil {
				return nil, err
			}
			child, err := l.expr(call.Args[1])
			if err != nil {
				return nil, err
			}
			return &asts.Convert{
				Span:  span,
				Type:  name,
				Child: child,
			}, nil

		case "isinstance":
			if len(call.Args) != 2 {
				return nil, l.errorf(call, "isinstance takes a value and a type name")
			}
			value, err := l.expr(call.Args[0])
			if err != nil {
				return nil, err
			}
			name, err := l.typeName(call.Args[1])
			if err != nil {
				return nil, err
			}
			return &asts.Binary{
				Span:   span,
				Op:     asts.OpIs,
				Left:   value,
				Right:  &asts.TypeLiteral{Span: name.Span, Type: name},
				OpSpan: l.span(fn),
			}, nil
		}

		cmd, err := l.command(call, fn)
		if err != nil {
			return nil, err
		}
		return &asts.SubExpr{
			Span: span,
			Body: &asts.StatementBlock{
				Span:       span,
				Statements: []asts.Statement{cmd},
			},
		}, nil
	}

	return nil, l.unsupported(call, "call")
}

// command lowers name(args) to a command. A trailing underscore is dropped,
// so keywords reserved by starlark stay reachable: with_(x, lambda: ...).
func (l *lowerer) command(call *syntax.CallExpr, fn *syntax.Ident) (*asts.Command, error) {
	args, err := l.args(call)
	if err != nil {
		return nil, err
	}
	name := fn.Name
	if len(name) > 1 {
		name = strings.TrimSuffix(name, "_")
	}
	return &asts.Command{
		Span: l.span(call),
		Name: name,
		Args: args,
	}, nil
}
