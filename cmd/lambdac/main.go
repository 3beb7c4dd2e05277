// Command lambdac compiles starlark closures and prints the lowered IR.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"

	"github.com/reusee/dscope"
	"github.com/reusee/tailambda/cmds"
	"github.com/reusee/tailambda/compilers"
	"github.com/reusee/tailambda/configs"
	"github.com/reusee/tailambda/debugs"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/logs"
	"github.com/reusee/tailambda/modes"
	"github.com/reusee/tailambda/syncs"
	"github.com/reusee/tailambda/vars"
	"golang.org/x/term"
)

var (
	watchFlag   = cmds.Switch("-watch")
	tapFlag     = cmds.Switch("-tap")
	inspectFlag = cmds.Switch("-inspect")
	jobs        = cmds.Var[int]("-jobs")
)

var (
	paths     []string
	startREPL bool
)

func init() {
	cmds.Define("compile", cmds.Func(func(path string) {
		paths = append(paths, path)
	}).
		Args("file").
		Desc("compile a starlark file, - for stdin").
		Alias("c"))
	cmds.Define("repl", cmds.Func(func() {
		startREPL = true
	}).
		Desc("compile starlark lines interactively"))
}

func main() {
	cmds.Execute(os.Args[1:])

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)
	if *inspectFlag {
		scope = scope.Fork(func(
			backend debugs.InspectBackend,
		) compilers.Backend {
			return backend
		})
	}

	scope.Call(func(
		loader configs.Loader,
	) {
		if err := loader.Err(); err != nil {
			exit(err)
		}
	})

	if len(paths) == 0 && !startREPL {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			cmds.PrintUsage()
			os.Exit(1)
		}
		paths = []string{"-"}
	}

	scope.Call(func(
		compileFile CompileFile,
		dump Dump,
		repl REPL,
		logger logs.Logger,
	) {
		build := func(path string) error {
			lambda, err := compileFile(ctx, path)
			if err != nil {
				return err
			}
			return dump(ctx, path, lambda)
		}

		failed := false
		for _, result := range compileAll(ctx, compileFile, paths) {
			err := result.err
			if err == nil {
				err = dump(ctx, result.path, result.lambda)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				failed = true
			}
		}

		if *watchFlag && len(paths) > 0 {
			err := watch(ctx, paths, logger, func(path string) {
				if err := build(path); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			})
			if err != nil && ctx.Err() == nil {
				exit(err)
			}
			return
		}

		if startREPL {
			if err := repl(ctx); err != nil {
				exit(err)
			}
			return
		}

		if failed {
			os.Exit(1)
		}
	})
}

type result struct {
	path   string
	lambda *exprs.Lambda
	err    error
}

// compileAll compiles paths concurrently, at most -jobs at a time. Results
// are in the order of paths; paths not started before ctx is done are
// dropped.
func compileAll(ctx context.Context, compileFile CompileFile, paths []string) []result {
	sem := syncs.NewSemaphore(vars.FirstNonZero(*jobs, runtime.NumCPU()))
	results := make([]result, len(paths))
	var wg sync.WaitGroup
	started := 0
	for i, path := range paths {
		if err := sem.Acquire(ctx); err != nil {
			break
		}
		started++
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release()
			lambda, err := compileFile(ctx, path)
			results[i] = result{
				path:   path,
				lambda: lambda,
				err:    err,
			}
		}()
	}
	wg.Wait()
	return results[:started]
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
