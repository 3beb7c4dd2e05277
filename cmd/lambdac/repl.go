package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/reusee/tailambda/logs"
	"github.com/reusee/tailambda/vars"
)

// REPL compiles each input line as a closure body and dumps it.
type REPL func(ctx context.Context) error

func (Module) REPL(
	compileSource CompileSource,
	dump Dump,
	logger logs.Logger,
) REPL {
	return func(ctx context.Context) error {
		var historyFile string
		if home, err := os.UserHomeDir(); err == nil {
			historyFile = filepath.Join(home, ".lambdac_history")
		}
		rl, err := readline.NewEx(&readline.Config{
			Prompt:      "λ ",
			HistoryFile: vars.FirstNonZero(os.Getenv("LAMBDAC_HISTORY"), historyFile),
		})
		if err != nil {
			return wrap(err)
		}
		defer rl.Close()

		for n := 1; ctx.Err() == nil; n++ {
			line, err := rl.Readline()
			if err != nil { // Ctrl-C or Ctrl-D
				break
			}
			if line == "" {
				continue
			}
			name := fmt.Sprintf("<repl %d>", n)
			lambda, err := compileSource(ctx, name, []byte(line+"\n"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			if err := dump(ctx, name, lambda); err != nil {
				logger.WarnContext(ctx, "dump", "error", err)
			}
		}
		return nil
	}
}
