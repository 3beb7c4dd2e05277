package compilers

import (
	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/runtimes"
	"github.com/reusee/tailambda/types"
)

func typeValue(t *types.Type) exprs.Expr {
	return exprs.NewConstant(t, types.TypeValue)
}

func boolConstant(b bool) exprs.Expr {
	return exprs.NewConstant(b, types.Bool)
}

// toAny boxes e.
func (p *pass) toAny(span asts.Span, e exprs.Expr) (exprs.Expr, error) {
	if p.poisoned(e) {
		return e, nil
	}
	converted, err := exprs.ConvertIfNeeded(e, types.Any)
	return p.Check(span, converted, err)
}

// convertTo converts e to t, statically when the IR allows it and through
// the runtime conversion otherwise.
func (p *pass) convertTo(span asts.Span, e exprs.Expr, t *types.Type) (exprs.Expr, error) {
	if e.Type() == t || p.poisoned(e) {
		return e, nil
	}
	et := e.Type()
	if et.AssignableTo(t) || (et.IsNumeric() || et.IsEnum()) && (t.IsNumeric() || t.IsEnum()) {
		converted, err := exprs.NewConvert(e, t)
		return p.Check(span, converted, err)
	}
	boxed, err := p.toAny(span, e)
	if err != nil {
		return nil, err
	}
	call, err := exprs.NewRuntimeCall(runtimes.ConvertTo, t, boxed, typeValue(t))
	return check(p, span, call, err)
}

func (p *pass) toString(span asts.Span, e exprs.Expr) (exprs.Expr, error) {
	return p.convertTo(span, e, types.String)
}

// isTrue applies the runtime truthiness rules unless e is already bool.
func (p *pass) isTrue(span asts.Span, e exprs.Expr) (exprs.Expr, error) {
	if e.Type() == types.Bool || p.poisoned(e) {
		return e, nil
	}
	boxed, err := p.toAny(span, e)
	if err != nil {
		return nil, err
	}
	call, err := exprs.NewRuntimeCall(runtimes.IsTrue, nil, boxed)
	return check(p, span, call, err)
}

// void discards the value of e.
func void(e exprs.Expr) exprs.Expr {
	if e.Type().IsVoid() {
		return e
	}
	return exprs.NewBlock(nil, e, &exprs.Empty{})
}
