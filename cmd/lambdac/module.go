package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/e5"
	"github.com/reusee/tailambda/compilers"
	"github.com/reusee/tailambda/debugs"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/lambdaconfigs"
	"github.com/reusee/tailambda/logs"
	"github.com/reusee/tailambda/starlarks"
	"github.com/reusee/tailambda/types"
)

var wrap = e5.Wrap.With(e5.WrapStacktrace)

type Module struct {
	dscope.Module
	Compilers compilers.Module
	Debugs    debugs.Module
}

type Stdout io.Writer

func (Module) Stdout() Stdout {
	return os.Stdout
}

// CompileSource compiles starlark source under the configured signature.
type CompileSource func(ctx context.Context, name string, src []byte) (*exprs.Lambda, error)

func (Module) CompileSource(
	compiler *compilers.Compiler,
	catalog types.Catalog,
	signature lambdaconfigs.Signature,
	newSpan logs.NewSpan,
	logger logs.Logger,
) CompileSource {
	return func(ctx context.Context, name string, src []byte) (_ *exprs.Lambda, err error) {
		ctx, _ = newSpan(logs.WithSource(ctx, name), "compile")
		defer func() {
			err = logs.WrapContext(ctx, err)
		}()

		block, err := starlarks.Parse(name, src)
		if err != nil {
			return nil, err
		}
		sig, err := compilers.ResolveSignature(catalog, signature)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		lambda, err := compiler.Compile(block, compilers.Options{
			Signature: sig,
		})
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "compiled",
			"type", lambda.Type().String(),
			"duration", time.Since(start),
		)
		return lambda, nil
	}
}

// CompileFile compiles the file at path; "-" is stdin.
type CompileFile func(ctx context.Context, path string) (*exprs.Lambda, error)

func (Module) CompileFile(
	compileSource CompileSource,
) CompileFile {
	return func(ctx context.Context, path string) (*exprs.Lambda, error) {
		var src []byte
		var err error
		if path == "-" {
			src, err = io.ReadAll(os.Stdin)
			path = "<stdin>"
		} else {
			src, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, wrap(err)
		}
		return compileSource(ctx, path, src)
	}
}

// Dump prints the IR of a compiled closure, then opens a tap on it if
// requested.
type Dump func(ctx context.Context, name string, lambda *exprs.Lambda) error

func (Module) Dump(
	stdout Stdout,
	tap debugs.Tap,
) Dump {
	return func(ctx context.Context, name string, lambda *exprs.Lambda) error {
		if _, err := fmt.Fprintf(stdout, "# %s: %s\n%s", name, lambda.Type(), exprs.Format(lambda)); err != nil {
			return wrap(err)
		}
		if !*tapFlag {
			return nil
		}
		return tap(ctx, name, map[string]any{
			"ir": lambda,
			"format": func() string {
				return exprs.Format(lambda)
			},
		})
	}
}
