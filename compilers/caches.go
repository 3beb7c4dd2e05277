package compilers

import (
	"fmt"
	"sync"

	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
	"golang.org/x/sync/singleflight"
)

// Caches holds the state shared between compilations: one wrapper per host
// variable and realized closures keyed by compiler, block and signature.
type Caches struct {
	mu       sync.RWMutex
	wrappers map[*Variable]*exprs.Captured
	closures map[closureKey]any
	group    singleflight.Group
}

// closureKey includes the compiler since compilers sharing Caches may differ
// in backend or catalog.
type closureKey struct {
	compiler  *Compiler
	block     *asts.ScriptBlock
	signature *types.Type
}

func (k closureKey) String() string {
	return fmt.Sprintf("%p/%p/%p", k.compiler, k.block, k.signature)
}

func NewCaches() *Caches {
	return &Caches{
		wrappers: make(map[*Variable]*exprs.Captured),
		closures: make(map[closureKey]any),
	}
}

func (c *Caches) Wrapper(v *Variable) (*exprs.Captured, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ret, ok := c.wrappers[v]
	return ret, ok
}

// StoreWrapper records w for v unless a wrapper is already recorded.
// It returns the recorded wrapper.
func (c *Caches) StoreWrapper(v *Variable, w *exprs.Captured) *exprs.Captured {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.wrappers[v]; ok {
		return existing
	}
	c.wrappers[v] = w
	return w
}

func (c *Caches) closure(key closureKey) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ret, ok := c.closures[key]
	return ret, ok
}

// loadClosure returns the cached closure for key, running build at most once
// across concurrent callers.
func (c *Caches) loadClosure(key closureKey, build func() (any, error)) (any, error) {
	if ret, ok := c.closure(key); ok {
		return ret, nil
	}
	ret, err, _ := c.group.Do(key.String(), func() (any, error) {
		if ret, ok := c.closure(key); ok {
			return ret, nil
		}
		ret, err := build()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.closures[key] = ret
		c.mu.Unlock()
		return ret, nil
	})
	return ret, err
}

// Len returns the number of cached wrappers and closures.
func (c *Caches) Len() (wrappers int, closures int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.wrappers), len(c.closures)
}
