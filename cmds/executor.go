package cmds

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
)

var ErrUnknownCommand = errors.New("unknown command")

type Executor struct {
	commands map[string]*Command
}

func NewExecutor() *Executor {
	ret := &Executor{
		commands: make(map[string]*Command),
	}
	ret.Define("-h", Func(func() {
		ret.PrintUsage()
		os.Exit(0)
	}).
		Desc("print this usage").
		Alias("help", "-help", "--help"))
	return ret
}

func (p *Executor) Define(name string, command *Command) {
	for _, name := range append([]string{name}, command.Aliases...) {
		if _, ok := p.commands[name]; ok {
			panic(fmt.Errorf("duplicated command %s", name))
		}
		p.commands[name] = command
	}
}

// Execute runs the commands named by args in order. Sub commands of a
// command become available to the words after it.
func (p *Executor) Execute(args []string) error {
	commands := p.commands
	for len(args) > 0 {
		name := strings.TrimSpace(args[0])
		args = args[1:]

		command, ok := commands[name]
		if !ok {
			return unknownCommand(name, commands)
		}

		if command.Func.IsValid() {
			var err error
			args, err = command.call(args)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}

		if len(command.Subs) > 0 {
			commands = maps.Clone(commands)
			for subname, sub := range command.Subs {
				if _, ok := commands[subname]; ok {
					return fmt.Errorf("duplicated sub command: %s %s", name, subname)
				}
				commands[subname] = sub
			}
		}
	}
	return nil
}

func unknownCommand(name string, commands map[string]*Command) error {
	candidates := lo.Filter(lo.Keys(commands), func(candidate string, _ int) bool {
		return name != "" &&
			(strings.HasPrefix(candidate, name) || strings.HasPrefix(name, candidate))
	})
	if len(candidates) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	slices.Sort(candidates)
	return fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknownCommand, name, strings.Join(candidates, ", "))
}

func (p *Executor) MustExecute(args []string) {
	if err := p.Execute(args); err != nil {
		panic(err)
	}
}
