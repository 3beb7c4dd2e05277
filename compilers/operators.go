package compilers

import (
	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/runtimes"
	"github.com/reusee/tailambda/types"
)

type comparison struct {
	op         exprs.BinaryOp
	ignoreCase bool
}

var comparisons = map[asts.BinaryOp]comparison{
	asts.OpIEq: {exprs.Equal, true},
	asts.OpCEq: {exprs.Equal, false},
	asts.OpINe: {exprs.NotEqual, true},
	asts.OpCNe: {exprs.NotEqual, false},
	asts.OpIGt: {exprs.GreaterThan, true},
	asts.OpCGt: {exprs.GreaterThan, false},
	asts.OpIGe: {exprs.GreaterThanOrEqual, true},
	asts.OpCGe: {exprs.GreaterThanOrEqual, false},
	asts.OpILt: {exprs.LessThan, true},
	asts.OpCLt: {exprs.LessThan, false},
	asts.OpILe: {exprs.LessThanOrEqual, true},
	asts.OpCLe: {exprs.LessThanOrEqual, false},
}

type pattern struct {
	op         runtimes.Op
	ignoreCase bool
	negate     bool
}

var patterns = map[asts.BinaryOp]pattern{
	asts.OpILike:     {runtimes.Like, true, false},
	asts.OpCLike:     {runtimes.Like, false, false},
	asts.OpINotLike:  {runtimes.Like, true, true},
	asts.OpCNotLike:  {runtimes.Like, false, true},
	asts.OpIMatch:    {runtimes.Match, true, false},
	asts.OpCMatch:    {runtimes.Match, false, false},
	asts.OpINotMatch: {runtimes.Match, true, true},
	asts.OpCNotMatch: {runtimes.Match, false, true},
}

type containment struct {
	ignoreCase bool
	negate     bool
	// collection on the left
	contains bool
}

var containments = map[asts.BinaryOp]containment{
	asts.OpIIn:          {true, false, false},
	asts.OpCIn:          {false, false, false},
	asts.OpINotIn:       {true, true, false},
	asts.OpCNotIn:       {false, true, false},
	asts.OpIContains:    {true, false, true},
	asts.OpCContains:    {false, false, true},
	asts.OpINotContains: {true, true, true},
	asts.OpCNotContains: {false, true, true},
}

var arithmetic = map[asts.BinaryOp]exprs.BinaryOp{
	asts.OpPlus:     exprs.Add,
	asts.OpMinus:    exprs.Subtract,
	asts.OpMultiply: exprs.Multiply,
	asts.OpDivide:   exprs.Divide,
	asts.OpRem:      exprs.Modulo,
}

var bitwise = map[asts.BinaryOp]exprs.BinaryOp{
	asts.OpBand: exprs.And,
	asts.OpBor:  exprs.Or,
	asts.OpBxor: exprs.ExclusiveOr,
}

func (p *pass) compileBinary(n *asts.Binary) (exprs.Expr, error) {
	left, err := p.compileExpr(n.Left)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case asts.OpIs, asts.OpIsNot, asts.OpAs:
		return p.typeOperator(n, left)
	case asts.OpIReplace, asts.OpCReplace:
		return p.replace(n, left)
	}

	right, err := p.compileExpr(n.Right)
	if err != nil {
		return nil, err
	}
	if p.poisoned(left, right) {
		return placeholder(), nil
	}
	return p.binary(n.OpSpan, n.Op, left, right, n.Left.Extent(), n.Right.Extent())
}

func (p *pass) binaryNode(span asts.Span, op exprs.BinaryOp, left, right exprs.Expr) (exprs.Expr, error) {
	expr, err := exprs.NewBinary(op, left, right)
	return check(p, span, expr, err)
}

func (p *pass) not(span asts.Span, operand exprs.Expr) (exprs.Expr, error) {
	if p.poisoned(operand) {
		return operand, nil
	}
	expr, err := exprs.NewUnary(exprs.Not, operand)
	return check(p, span, expr, err)
}

func (p *pass) runtimeCall(span asts.Span, op runtimes.Op, t *types.Type, args ...exprs.Expr) (exprs.Expr, error) {
	if p.poisoned(args...) {
		return placeholder(), nil
	}
	call, err := exprs.NewRuntimeCall(op, t, args...)
	return check(p, span, call, err)
}

// binary lowers an operator over compiled operands.
func (p *pass) binary(span asts.Span, op asts.BinaryOp, left, right exprs.Expr, leftSpan, rightSpan asts.Span) (exprs.Expr, error) {

	if c, ok := comparisons[op]; ok {
		l, err := p.toAny(leftSpan, left)
		if err != nil {
			return nil, err
		}
		r, err := p.toAny(rightSpan, right)
		if err != nil {
			return nil, err
		}
		cmp, err := p.runtimeCall(span, runtimes.Compare, nil, l, r, boolConstant(c.ignoreCase))
		if err != nil || p.poisoned(cmp) {
			return cmp, err
		}
		return p.binaryNode(span, c.op, cmp, exprs.NewConstant(0, types.Int))
	}

	if pat, ok := patterns[op]; ok {
		l, err := p.toString(leftSpan, left)
		if err != nil {
			return nil, err
		}
		r, err := p.toString(rightSpan, right)
		if err != nil {
			return nil, err
		}
		match, err := p.runtimeCall(span, pat.op, nil, l, r, boolConstant(pat.ignoreCase))
		if err != nil || !pat.negate {
			return match, err
		}
		return p.not(span, match)
	}

	if c, ok := containments[op]; ok {
		collection, value := right, left
		if c.contains {
			collection, value = left, right
		}
		found, err := p.contains(span, collection, value, c.ignoreCase)
		if err != nil || !c.negate {
			return found, err
		}
		return p.not(span, found)
	}

	if o, ok := arithmetic[op]; ok {
		return p.arithmetic(span, o, left, right, leftSpan, rightSpan)
	}

	if o, ok := bitwise[op]; ok {
		return p.bitwise(span, o, left, right, rightSpan)
	}

	switch op {

	case asts.OpAnd, asts.OpOr, asts.OpXor:
		l, err := p.isTrue(leftSpan, left)
		if err != nil {
			return nil, err
		}
		r, err := p.isTrue(rightSpan, right)
		if err != nil {
			return nil, err
		}
		o := exprs.AndAlso
		switch op {
		case asts.OpOr:
			o = exprs.OrElse
		case asts.OpXor:
			o = exprs.ExclusiveOr
		}
		return p.binaryNode(span, o, l, r)

	case asts.OpISplit, asts.OpCSplit:
		l, err := p.toString(leftSpan, left)
		if err != nil {
			return nil, err
		}
		r, err := p.toString(rightSpan, right)
		if err != nil {
			return nil, err
		}
		return p.runtimeCall(span, runtimes.Split, nil, l, r, boolConstant(op == asts.OpISplit))

	case asts.OpJoin:
		values, err := p.toAny(leftSpan, left)
		if err != nil {
			return nil, err
		}
		strs, err := p.runtimeCall(span, runtimes.ConvertAllTo, types.ArrayOf(types.String), values, typeValue(types.String))
		if err != nil {
			return nil, err
		}
		sep, err := p.toString(rightSpan, right)
		if err != nil {
			return nil, err
		}
		return p.runtimeCall(span, runtimes.Join, nil, sep, strs)

	case asts.OpFormat:
		format, err := p.toString(leftSpan, left)
		if err != nil {
			return nil, err
		}
		args, err := p.formatArgs(rightSpan, right)
		if err != nil {
			return nil, err
		}
		return p.runtimeCall(span, runtimes.Format, nil, format, args)

	case asts.OpDotDot:
		from, err := p.convertTo(leftSpan, left, types.Int)
		if err != nil {
			return nil, err
		}
		to, err := p.convertTo(rightSpan, right, types.Int)
		if err != nil {
			return nil, err
		}
		return p.runtimeCall(span, runtimes.Range, nil, from, to)

	case asts.OpShl, asts.OpShr:
		l := left
		if !l.Type().Kind().IsInteger() {
			var err error
			l, err = p.convertTo(leftSpan, left, types.Int)
			if err != nil {
				return nil, err
			}
		}
		r, err := p.convertTo(rightSpan, right, types.Int)
		if err != nil {
			return nil, err
		}
		o := exprs.LeftShift
		if op == asts.OpShr {
			o = exprs.RightShift
		}
		return p.binaryNode(span, o, l, r)
	}

	return p.reportf(span, diags.UnsupportedOperator, "operator %s is not supported", op)
}

// formatArgs turns the right operand of -f into the argument array.
func (p *pass) formatArgs(span asts.Span, value exprs.Expr) (exprs.Expr, error) {
	t := value.Type()
	switch {
	case t == types.ArrayOf(types.Any):
		return value, nil
	case t.Kind() == types.KindArray:
		boxed, err := p.toAny(span, value)
		if err != nil {
			return nil, err
		}
		return p.runtimeCall(span, runtimes.ConvertAllTo, types.ArrayOf(types.Any), boxed, typeValue(types.Any))
	}
	boxed, err := p.toAny(span, value)
	if err != nil {
		return nil, err
	}
	array, err := exprs.NewNewArray(types.Any, boxed)
	return check(p, span, array, err)
}

// promote returns the type both numeric operands convert to.
func promote(a, b *types.Type) *types.Type {
	if a == b {
		return a
	}
	rank := func(t *types.Type) int {
		switch t.Kind() {
		case types.KindFloat64:
			return 4
		case types.KindFloat32:
			return 3
		case types.KindInt64, types.KindUint64:
			return 2
		}
		return 1
	}
	switch max(rank(a), rank(b)) {
	case 4:
		return types.Float64
	case 3:
		return types.Float32
	case 2:
		return types.Int64
	}
	return types.Int
}

func (p *pass) arithmetic(span asts.Span, op exprs.BinaryOp, left, right exprs.Expr, leftSpan, rightSpan asts.Span) (exprs.Expr, error) {
	lt, rt := left.Type(), right.Type()

	if op == exprs.Add && lt == types.String {
		r, err := p.toString(rightSpan, right)
		if err != nil {
			return nil, err
		}
		return p.binaryNode(span, op, left, r)
	}

	var t *types.Type
	switch {
	case lt.IsNumeric() && rt.IsNumeric():
		t = promote(lt, rt)
	case lt.IsNumeric() && rt.Kind() == types.KindAny:
		t = lt
	case lt.Kind() == types.KindAny && rt.IsNumeric():
		t = rt
	default:
		return p.reportf(span, diags.UnsupportedOperator,
			"operator %s is not defined for %s and %s", op, lt, rt)
	}

	l, err := p.convertTo(leftSpan, left, t)
	if err != nil {
		return nil, err
	}
	r, err := p.convertTo(rightSpan, right, t)
	if err != nil {
		return nil, err
	}
	return p.binaryNode(span, op, l, r)
}

// bitwise operates on enums through their underlying integer type.
func (p *pass) bitwise(span asts.Span, op exprs.BinaryOp, left, right exprs.Expr, rightSpan asts.Span) (exprs.Expr, error) {
	lt := left.Type()
	t := lt
	if lt.IsEnum() {
		t = lt.Underlying()
	}
	if !t.Kind().IsInteger() && t != types.Bool {
		return p.reportf(span, diags.UnsupportedOperator, "operator %s is not defined for %s", op, lt)
	}
	l, err := p.convertTo(span, left, t)
	if err != nil {
		return nil, err
	}
	r, err := p.convertTo(rightSpan, right, t)
	if err != nil {
		return nil, err
	}
	result, err := p.binaryNode(span, op, l, r)
	if err != nil || p.poisoned(result) {
		return result, err
	}
	return p.convertTo(span, result, lt)
}

// contains enumerates collection and compares each item with value.
func (p *pass) contains(span asts.Span, collection, value exprs.Expr, ignoreCase bool) (exprs.Expr, error) {
	source, err := p.toAny(span, collection)
	if err != nil {
		return nil, err
	}
	boxed, err := p.toAny(span, value)
	if err != nil {
		return nil, err
	}
	if p.poisoned(source, boxed) {
		return placeholder(), nil
	}

	needle := p.NewTemp("needle", types.Any)
	cursor := p.NewTemp("cursor", types.Any)
	found := exprs.NewLabel(p.tempName("found"), types.Bool)
	brk := exprs.NewLabel(p.tempName("break"), types.Void)

	build := func() (exprs.Expr, error) {
		setNeedle, err := exprs.NewAssign(needle, boxed)
		if err != nil {
			return nil, err
		}
		begin, err := exprs.NewRuntimeCall(runtimes.Begin, nil, source)
		if err != nil {
			return nil, err
		}
		setCursor, err := exprs.NewAssign(cursor, begin)
		if err != nil {
			return nil, err
		}
		advance, err := exprs.NewRuntimeCall(runtimes.Advance, nil, cursor)
		if err != nil {
			return nil, err
		}
		current, err := exprs.NewRuntimeCall(runtimes.Current, nil, cursor)
		if err != nil {
			return nil, err
		}
		cmp, err := exprs.NewRuntimeCall(runtimes.Compare, nil, current, needle, boolConstant(ignoreCase))
		if err != nil {
			return nil, err
		}
		equal, err := exprs.NewBinary(exprs.Equal, cmp, exprs.NewConstant(0, types.Int))
		if err != nil {
			return nil, err
		}
		hit, err := exprs.NewGoto(exprs.GotoJump, found, boolConstant(true))
		if err != nil {
			return nil, err
		}
		onItem, err := exprs.NewConditional(equal, hit, nil)
		if err != nil {
			return nil, err
		}
		exit, err := exprs.NewGoto(exprs.GotoBreak, brk, nil)
		if err != nil {
			return nil, err
		}
		step, err := exprs.NewConditional(advance, onItem, exit)
		if err != nil {
			return nil, err
		}
		dispose, err := exprs.NewRuntimeCall(runtimes.Dispose, nil, cursor)
		if err != nil {
			return nil, err
		}
		try, err := exprs.NewTry(exprs.NewLoop(step, brk, nil), nil, dispose)
		if err != nil {
			return nil, err
		}
		mark, err := exprs.NewLabelMark(found, boolConstant(false))
		if err != nil {
			return nil, err
		}
		return exprs.NewBlock(nil, setNeedle, setCursor, try, mark), nil
	}
	expr, err := build()
	return p.Check(span, expr, err)
}

// typeOperator compiles -is, -isnot and -as, whose right operand must be a
// type literal.
func (p *pass) typeOperator(n *asts.Binary, left exprs.Expr) (exprs.Expr, error) {
	right, err := p.compileExpr(n.Right)
	if err != nil {
		return nil, err
	}
	if p.poisoned(left, right) {
		return placeholder(), nil
	}
	c, ok := right.(*exprs.Constant)
	var t *types.Type
	if ok && c.T == types.TypeValue {
		t, _ = c.Value.(*types.Type)
	}
	if t == nil {
		return p.reportf(n.Right.Extent(), diags.NonConstantTypeOperand,
			"the right operand of %s must be a type literal", n.Op)
	}

	switch n.Op {
	case asts.OpIs:
		return exprs.NewTypeIs(left, t), nil
	case asts.OpIsNot:
		return p.not(n.OpSpan, exprs.NewTypeIs(left, t))
	}
	boxed, err := p.toAny(n.Left.Extent(), left)
	if err != nil {
		return nil, err
	}
	return p.runtimeCall(n.OpSpan, runtimes.TryConvertTo, t, boxed, typeValue(t))
}

// replace compiles -replace. The right operand is a pattern, or a pattern
// and a replacement given as a two-item list.
func (p *pass) replace(n *asts.Binary, left exprs.Expr) (exprs.Expr, error) {
	var patternNode, replacementNode asts.Expr = n.Right, nil
	if list, ok := n.Right.(*asts.ArrayLiteral); ok && len(list.Elements) == 2 {
		patternNode, replacementNode = list.Elements[0], list.Elements[1]
	}
	pat, err := p.compileExpr(patternNode)
	if err != nil {
		return nil, err
	}
	var replacement exprs.Expr = exprs.NewConstant("", types.String)
	if replacementNode != nil {
		replacement, err = p.compileExpr(replacementNode)
		if err != nil {
			return nil, err
		}
	}
	if p.poisoned(left, pat, replacement) {
		return placeholder(), nil
	}

	value, err := p.toString(n.Left.Extent(), left)
	if err != nil {
		return nil, err
	}
	pat, err = p.toString(patternNode.Extent(), pat)
	if err != nil {
		return nil, err
	}
	if replacementNode != nil {
		replacement, err = p.toString(replacementNode.Extent(), replacement)
		if err != nil {
			return nil, err
		}
	}
	return p.runtimeCall(n.OpSpan, runtimes.Replace, nil, value, pat, replacement,
		boolConstant(n.Op == asts.OpIReplace))
}

func (p *pass) compileUnary(n *asts.Unary) (exprs.Expr, error) {
	operand, err := p.compileExpr(n.Child)
	if err != nil {
		return nil, err
	}
	if p.poisoned(operand) {
		return placeholder(), nil
	}
	t := operand.Type()

	switch n.Op {

	case asts.UnaryNot:
		b, err := p.isTrue(n.Child.Extent(), operand)
		if err != nil {
			return nil, err
		}
		return p.not(n.Span, b)

	case asts.UnaryNegate:
		if t.Kind() == types.KindAny {
			operand, err = p.convertTo(n.Child.Extent(), operand, types.Int)
			if err != nil {
				return nil, err
			}
		} else if !t.IsNumeric() {
			return p.reportf(n.Span, diags.UnsupportedOperator, "operator - is not defined for %s", t)
		}
		expr, err := exprs.NewUnary(exprs.Negate, operand)
		return check(p, n.Span, expr, err)

	case asts.UnaryBnot:
		if t.IsEnum() {
			under, err := p.convertTo(n.Child.Extent(), operand, t.Underlying())
			if err != nil {
				return nil, err
			}
			expr, err := exprs.NewUnary(exprs.OnesComplement, under)
			if err != nil {
				return p.Check(n.Span, nil, err)
			}
			return p.convertTo(n.Span, expr, t)
		}
		if !t.Kind().IsInteger() {
			return p.reportf(n.Span, diags.UnsupportedOperator, "operator -bnot is not defined for %s", t)
		}
		expr, err := exprs.NewUnary(exprs.OnesComplement, operand)
		return check(p, n.Span, expr, err)

	case asts.UnaryPostfixIncrement, asts.UnaryPostfixDecrement,
		asts.UnaryPrefixIncrement, asts.UnaryPrefixDecrement:
		op := map[asts.UnaryOp]exprs.UnaryOp{
			asts.UnaryPostfixIncrement: exprs.PostIncrementAssign,
			asts.UnaryPostfixDecrement: exprs.PostDecrementAssign,
			asts.UnaryPrefixIncrement:  exprs.PreIncrementAssign,
			asts.UnaryPrefixDecrement:  exprs.PreDecrementAssign,
		}[n.Op]
		expr, err := exprs.NewUnary(op, operand)
		return check(p, n.Span, expr, err)

	case asts.UnaryComma:
		return p.newArray(n.Span, []exprs.Expr{operand})
	}

	return p.reportf(n.Span, diags.UnsupportedOperator, "operator %s is not supported", n.Op)
}
