package debugs

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/tailambda/exprs"
	"go.starlark.net/starlark"
)

// Node exposes an IR node to starlark.
//
//	ir.kind        node kind, such as "Binary"
//	ir.type        static type name
//	ir.children    direct sub-nodes
//	ir.find(kind)  every node of kind under ir
type Node struct {
	expr exprs.Expr
}

var _ starlark.HasAttrs = Node{}

func NewNode(e exprs.Expr) Node {
	return Node{
		expr: e,
	}
}

func (n Node) Expr() exprs.Expr {
	return n.expr
}

func kindOf(e exprs.Expr) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", e), "*exprs.")
}

func (n Node) String() string {
	return strings.TrimRight(exprs.Format(n.expr), "\n")
}

func (n Node) Type() string {
	return "ir"
}

func (n Node) Freeze() {}

func (n Node) Truth() starlark.Bool {
	return n.expr != nil
}

func (n Node) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable: %s", n.Type())
}

func (n Node) Attr(name string) (starlark.Value, error) {
	switch name {
	case "kind":
		return starlark.String(kindOf(n.expr)), nil
	case "type":
		return starlark.String(n.expr.Type().String()), nil
	case "children":
		return nodeList(exprs.Children(n.expr)), nil
	case "find":
		return starlark.NewBuiltin("find", n.find), nil
	}
	return nil, nil
}

func (n Node) AttrNames() []string {
	return []string{"children", "find", "kind", "type"}
}

func (n Node) find(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var kind string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &kind); err != nil {
		return nil, err
	}
	var found []exprs.Expr
	exprs.Walk(n.expr, func(e exprs.Expr) bool {
		if strings.EqualFold(kindOf(e), kind) {
			found = append(found, e)
		}
		return true
	})
	return nodeList(found), nil
}

func nodeList(list []exprs.Expr) *starlark.List {
	values := make([]starlark.Value, 0, len(list))
	for _, e := range list {
		values = append(values, NewNode(e))
	}
	return starlark.NewList(values)
}

// Kinds returns the distinct node kinds under e, sorted.
func Kinds(e exprs.Expr) []string {
	var ret []string
	exprs.Walk(e, func(e exprs.Expr) bool {
		ret = append(ret, kindOf(e))
		return true
	})
	slices.Sort(ret)
	return slices.Compact(ret)
}
