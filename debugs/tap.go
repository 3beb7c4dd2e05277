package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/reusee/tailambda/logs"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Tap opens a starlark REPL on stdin with globals bound. It returns when
// the input ends.
type Tap func(ctx context.Context, what string, globals map[string]any) error

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) error {
		mappings, err := Globals(globals)
		if err != nil {
			return err
		}
		mappings["kinds"] = starlark.NewBuiltin("kinds", kinds)

		logger.InfoContext(ctx, "tap: "+what,
			"globals", slices.Sorted(maps.Keys(mappings)),
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		thread := &starlark.Thread{
			Name: what,
		}
		repl.REPLOptions(&syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
		}, thread, mappings)
		return nil
	}
}

func kinds(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var node Node
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &node); err != nil {
		return nil, err
	}
	return Value(Kinds(node.expr))
}
