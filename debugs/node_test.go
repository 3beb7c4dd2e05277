package debugs

import (
	"slices"
	"testing"

	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
	"go.starlark.net/starlark"
)

func testTree(t *testing.T) exprs.Expr {
	sum, err := exprs.NewBinary(exprs.Add,
		exprs.NewConstant(1, types.Int),
		exprs.NewConstant(2, types.Int),
	)
	if err != nil {
		t.Fatal(err)
	}
	lambda, err := exprs.NewLambda("test", nil, sum, types.Int)
	if err != nil {
		t.Fatal(err)
	}
	return lambda
}

func TestNodeFromStarlark(t *testing.T) {
	thread := &starlark.Thread{
		Name: "test",
	}
	globals, err := starlark.ExecFile(thread, "test.star", `
kind = ir.kind
children = len(ir.children)
constants = len(ir.find("constant"))
names = kinds(ir)
`, starlark.StringDict{
		"ir":    NewNode(testTree(t)),
		"kinds": starlark.NewBuiltin("kinds", kinds),
	})
	if err != nil {
		t.Fatal(err)
	}
	if s := globals["kind"].(starlark.String); s != "Lambda" {
		t.Fatalf("got %s", s)
	}
	if n, _ := starlark.AsInt32(globals["children"]); n != 1 {
		t.Fatalf("got %d", n)
	}
	if n, _ := starlark.AsInt32(globals["constants"]); n != 2 {
		t.Fatalf("got %d", n)
	}
	if s := globals["names"].String(); s != `["Binary", "Constant", "Lambda"]` {
		t.Fatalf("got %s", s)
	}
}

func TestKinds(t *testing.T) {
	got := Kinds(testTree(t))
	if !slices.Equal(got, []string{"Binary", "Constant", "Lambda"}) {
		t.Fatalf("got %v", got)
	}
}

func TestNodeAttrs(t *testing.T) {
	node := NewNode(testTree(t))
	for _, name := range node.AttrNames() {
		v, err := node.Attr(name)
		if err != nil || v == nil {
			t.Fatalf("%s: %v %v", name, v, err)
		}
	}
	if v, _ := node.Attr("nope"); v != nil {
		t.Fatalf("got %v", v)
	}
	if _, err := node.Hash(); err == nil {
		t.Fatal("should not be hashable")
	}
}
