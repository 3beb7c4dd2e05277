package binders

import (
	"fmt"
	"strings"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
)

// Argument is a method call argument. Plain arguments are compiled at most
// once; closure arguments are compiled once per expected signature.
type Argument struct {
	Node asts.Expr
	Expr exprs.Expr

	block      *asts.ScriptBlock
	poisoned   bool
	normalized bool
	closures   map[string]*exprs.Lambda
}

// NewArguments wraps argument nodes for binding.
func NewArguments(nodes []asts.Expr) []*Argument {
	ret := make([]*Argument, len(nodes))
	for i, node := range nodes {
		ret[i] = &Argument{
			Node: node,
		}
	}
	return ret
}

// Compiled wraps an already compiled expression, such as the receiver of an
// extension method call.
func Compiled(expr exprs.Expr) *Argument {
	return &Argument{
		Expr: expr,
	}
}

// Closure returns the script block of a closure argument.
func (a *Argument) Closure() (*asts.ScriptBlock, bool) {
	if a.Expr != nil {
		return nil, false
	}
	node := a.Node
	for {
		paren, ok := node.(*asts.Paren)
		if !ok {
			break
		}
		inner, ok := paren.Inner.(asts.Expr)
		if !ok {
			break
		}
		node = inner
	}
	expr, ok := node.(*asts.ScriptBlockExpr)
	if !ok || expr.Block == nil {
		return nil, false
	}
	return expr.Block, true
}

func signatureKey(params []*types.Type, result *types.Type) string {
	var b strings.Builder
	for _, p := range params {
		fmt.Fprintf(&b, "%p;", p)
	}
	fmt.Fprintf(&b, "->%p", result)
	return b.String()
}
