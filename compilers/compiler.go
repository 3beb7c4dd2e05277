// Package compilers lowers script blocks into typed closures.
package compilers

import (
	"log/slog"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/binders"
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/keywords"
	"github.com/reusee/tailambda/logs"
	"github.com/reusee/tailambda/names"
	"github.com/reusee/tailambda/types"
)

// Variable is a host variable visible to compiled code.
type Variable struct {
	Name string
	// Type is the static type of the variable, nil for a dynamically typed one.
	Type *types.Type
	// Cell is the host handle the backend reads and writes the value through.
	Cell any
}

// ExecutionContextName is the global bound to Options.Context.
const ExecutionContextName = "ExecutionContext"

type Options struct {
	// Signature is the requested func type. When nil, parameters come from
	// the block's declarations and the result from its return statements.
	Signature *types.Type
	// Variables are captured host variables.
	Variables []*Variable
	// Context is an opaque value threaded through compiled closures.
	Context     any
	ContextType *types.Type
}

type Config struct {
	Catalog  types.Catalog
	Keywords *keywords.Registry
	// Namespaces lists the extension namespaces method calls may bind to.
	Namespaces []string
	// Globals are host variables visible from every compilation.
	Globals []*Variable
	Caches  *Caches
	Backend Backend
	Logger  logs.Logger
}

type Compiler struct {
	catalog  types.Catalog
	keywords *keywords.Registry
	binder   *binders.Binder
	globals  map[string]*Variable
	caches   *Caches
	backend  Backend
	logger   logs.Logger
}

func New(config Config) *Compiler {
	if config.Catalog == nil {
		config.Catalog = types.NewRegistry()
	}
	if config.Keywords == nil {
		config.Keywords = keywords.NewRegistry()
	}
	if config.Caches == nil {
		config.Caches = NewCaches()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	globals := make(map[string]*Variable, len(config.Globals))
	for _, g := range config.Globals {
		globals[names.Fold(g.Name)] = g
	}
	return &Compiler{
		catalog:  config.Catalog,
		keywords: config.Keywords,
		binder:   binders.New(config.Catalog, config.Namespaces, config.Logger),
		globals:  globals,
		caches:   config.Caches,
		backend:  config.Backend,
		logger:   config.Logger,
	}
}

// Compile lowers block into a closure. Recoverable problems are collected
// and returned together as diags.Errors; compilation stops at the third.
func (c *Compiler) Compile(block *asts.ScriptBlock, opts Options) (*exprs.Lambda, error) {
	acc := diags.NewAccumulator()
	p := c.newPass(acc, opts)

	var sig signature
	if opts.Signature != nil {
		if opts.Signature.Kind() != types.KindFunc {
			if err := acc.Report(block.Extent(), diags.InvalidOperation, "signature "+opts.Signature.String()+" is not a func type"); err != nil {
				return nil, err
			}
			return nil, acc.Err()
		}
		sig = signatureOf(opts.Signature)
	}

	expr, err := p.compileClosure(block, sig, true)
	if err != nil {
		return nil, err
	}
	if err := acc.Err(); err != nil {
		c.logger.Debug("compile failed",
			"errors", len(acc.Errors()),
		)
		return nil, err
	}
	lambda, ok := expr.(*exprs.Lambda)
	if !ok {
		return nil, diags.Errors{{
			Span:    block.Extent(),
			ID:      diags.InvalidOperation,
			Message: "script block did not compile to a closure",
		}}
	}
	p.commitStaged()
	return lambda, nil
}

func (c *Compiler) global(name string) (*Variable, bool) {
	g, ok := c.globals[names.Fold(name)]
	return g, ok
}
