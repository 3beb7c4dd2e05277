package compilers

import (
	"fmt"
	"sync"

	"github.com/reusee/dscope"
	"github.com/reusee/tailambda/keywords"
	"github.com/reusee/tailambda/lambdaconfigs"
	"github.com/reusee/tailambda/logs"
	"github.com/reusee/tailambda/modes"
	"github.com/reusee/tailambda/types"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs lambdaconfigs.Module
}

var processCaches = sync.OnceValue(NewCaches)

// Caches are shared by the whole process in production and private to the
// scope otherwise.
func (Module) Caches(
	mode modes.Mode,
) *Caches {
	if mode == modes.ModeProduction {
		return processCaches()
	}
	return NewCaches()
}

func (Module) Catalog() types.Catalog {
	return types.NewRegistry()
}

func (Module) Keywords() *keywords.Registry {
	return keywords.NewRegistry()
}

func (Module) Backend() Backend {
	return nil
}

type Globals []*Variable

// Globals turns the configured global declarations into host variables.
// A declaration whose type does not resolve is kept dynamically typed.
func (Module) Globals(
	catalog types.Catalog,
	decls lambdaconfigs.Globals,
	logger logs.Logger,
) (ret Globals) {
	for _, decl := range decls {
		v := &Variable{
			Name: decl.Name,
			Cell: &decl.Value,
		}
		if decl.Type != "" {
			t, err := catalog.LookupType(decl.Type)
			if err != nil {
				logger.Warn("global type",
					"name", decl.Name,
					"type", decl.Type,
					"error", err,
				)
			} else {
				v.Type = t
			}
		}
		ret = append(ret, v)
	}
	return
}

func (Module) Compiler(
	catalog types.Catalog,
	registry *keywords.Registry,
	namespaces lambdaconfigs.ExtensionNamespaces,
	globals Globals,
	caches *Caches,
	backend Backend,
	logger logs.Logger,
) *Compiler {
	return New(Config{
		Catalog:    catalog,
		Keywords:   registry,
		Namespaces: namespaces,
		Globals:    globals,
		Caches:     caches,
		Backend:    backend,
		Logger:     logger,
	})
}

// ResolveSignature builds the func type named by a configured signature.
// It returns nil for a zero signature.
func ResolveSignature(catalog types.Catalog, sig lambdaconfigs.Signature) (*types.Type, error) {
	if sig.IsZero() {
		return nil, nil
	}
	params := make([]*types.Type, 0, len(sig.Params))
	for _, name := range sig.Params {
		t, err := catalog.LookupType(name)
		if err != nil {
			return nil, wrap(fmt.Errorf("signature parameter %s: %w", name, err))
		}
		params = append(params, t)
	}
	result := types.Void
	if sig.Result != "" {
		t, err := catalog.LookupType(sig.Result)
		if err != nil {
			return nil, wrap(fmt.Errorf("signature result %s: %w", sig.Result, err))
		}
		result = t
	}
	return types.FuncOf(params, result), nil
}
