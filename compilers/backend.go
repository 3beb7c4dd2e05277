package compilers

import (
	"errors"
	"fmt"

	"github.com/reusee/e5"
	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
)

// Backend turns a compiled closure into something callable.
type Backend interface {
	Realize(lambda *exprs.Lambda) (any, error)
}

type BackendFunc func(lambda *exprs.Lambda) (any, error)

func (b BackendFunc) Realize(lambda *exprs.Lambda) (any, error) {
	return b(lambda)
}

var wrap = e5.Wrap.With(e5.WrapStacktrace)

var ErrNotFuncType = errors.New("not a func type")

// CompileClosure compiles block as a closure of type signature and realizes
// it through the configured backend. Results are cached per compiler, block
// and signature; only globals are visible to the block. Without a backend the
// realized value is the *exprs.Lambda itself.
func (c *Compiler) CompileClosure(block *asts.ScriptBlock, signature *types.Type) (any, error) {
	if signature == nil || signature.Kind() != types.KindFunc {
		return nil, wrap(fmt.Errorf("%w: %v", ErrNotFuncType, signature))
	}
	key := closureKey{
		compiler:  c,
		block:     block,
		signature: signature,
	}
	return c.caches.loadClosure(key, func() (any, error) {
		lambda, err := c.Compile(block, Options{
			Signature: signature,
		})
		if err != nil {
			return nil, err
		}
		c.logger.Debug("closure compiled",
			"signature", signature.String(),
		)
		if c.backend == nil {
			return lambda, nil
		}
		return c.backend.Realize(lambda)
	})
}
