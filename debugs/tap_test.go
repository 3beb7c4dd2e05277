package debugs

import (
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/compilers"
	"github.com/reusee/tailambda/types"
)

func TestTap(t *testing.T) {
	dscope.New(
		new(Module),
	).Call(func(
		tap Tap,
	) {
		if err := tap(t.Context(), "test", map[string]any{
			"foo": 42,
			"ir":  testTree(t),
		}); err != nil {
			t.Fatal(err)
		}
		if err := tap(t.Context(), "test", map[string]any{
			"bad": make(chan int),
		}); err == nil {
			t.Fatal("should error")
		}
	})
}

func TestInspectBackend(t *testing.T) {
	dscope.New(
		new(Module),
	).Call(func(
		backend InspectBackend,
	) {
		c := compilers.New(compilers.Config{
			Backend: backend,
		})
		block := &asts.ScriptBlock{
			Body: &asts.StatementBlock{
				Statements: []asts.Statement{
					&asts.Constant{Value: 1},
				},
			},
		}
		v, err := c.CompileClosure(block, types.FuncOf(nil, types.Int))
		if err != nil {
			t.Fatal(err)
		}
		node, ok := v.(Node)
		if !ok {
			t.Fatalf("got %T", v)
		}
		if node.Expr().Type() != types.FuncOf(nil, types.Int) {
			t.Fatalf("got %v", node.Expr().Type())
		}
	})
}
