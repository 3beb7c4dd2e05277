// Package scopes tracks lexical variable frames, loop labels and return labels
// during a single compilation.
package scopes

import (
	"fmt"

	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/names"
	"github.com/reusee/tailambda/types"
)

// CurrentItemName is the source name of the implicit iteration item.
const CurrentItemName = "_"

type frame struct {
	parent int
	params []*exprs.Variable
	locals []*exprs.Variable
	item   *exprs.Variable
}

// Variables is an arena of frames linked by parent index.
// The root frame has index 0 and parent -1.
type Variables struct {
	frames  []frame
	current int
	itemSeq int
	tempSeq int
}

func NewVariables() *Variables {
	return &Variables{
		frames: []frame{
			{parent: -1},
		},
	}
}

// NewScope pushes a frame holding params. The returned release func pops back
// to the parent of that frame and may be called more than once.
func (v *Variables) NewScope(params ...*exprs.Variable) (release func()) {
	idx := len(v.frames)
	v.frames = append(v.frames, frame{
		parent: v.current,
		params: params,
	})
	v.current = idx
	released := false
	return func() {
		if released {
			return
		}
		released = true
		v.current = v.frames[idx].parent
	}
}

// Depth returns the number of frames on the current chain, root included.
func (v *Variables) Depth() int {
	n := 0
	for i := v.current; i >= 0; i = v.frames[i].parent {
		n++
	}
	return n
}

func (v *Variables) Lookup(name string) (*exprs.Variable, bool) {
	for i := v.current; i >= 0; i = v.frames[i].parent {
		f := &v.frames[i]
		for _, local := range f.locals {
			if names.Equal(local.Name, name) {
				return local, true
			}
		}
		for _, param := range f.params {
			if names.Equal(param.Name, name) {
				return param, true
			}
		}
	}
	return nil, false
}

// GetOrCreate returns the variable named name from the chain, keeping its
// established type, or declares it in the current frame with type t.
// A nil t declares a dynamically typed variable.
func (v *Variables) GetOrCreate(name string, t *types.Type) (variable *exprs.Variable, existed bool) {
	if found, ok := v.Lookup(name); ok {
		return found, true
	}
	if t == nil {
		t = types.Any
	}
	variable = exprs.NewVariable(name, t)
	f := &v.frames[v.current]
	f.locals = append(f.locals, variable)
	return variable, false
}

// NewTemp declares an unnamed variable in the current frame.
func (v *Variables) NewTemp(hint string, t *types.Type) *exprs.Variable {
	v.tempSeq++
	variable := exprs.NewVariable(fmt.Sprintf("%s#%d", hint, v.tempSeq), t)
	f := &v.frames[v.current]
	f.locals = append(f.locals, variable)
	return variable
}

// Locals returns the variables declared in the current frame, in declaration order.
func (v *Variables) Locals() []*exprs.Variable {
	return append([]*exprs.Variable(nil), v.frames[v.current].locals...)
}

func (v *Variables) Params() []*exprs.Variable {
	return append([]*exprs.Variable(nil), v.frames[v.current].params...)
}

// CurrentItem returns the nearest iteration item slot on the chain.
func (v *Variables) CurrentItem() (*exprs.Variable, bool) {
	for i := v.current; i >= 0; i = v.frames[i].parent {
		if item := v.frames[i].item; item != nil {
			return item, true
		}
	}
	return nil, false
}

// SetCurrentItem binds the iteration item for the current frame.
// An ancestor slot of the same type is reused; otherwise a new slot is
// declared, with a numeric suffix when an ancestor already holds one.
func (v *Variables) SetCurrentItem(t *types.Type) *exprs.Variable {
	if t == nil {
		t = types.Any
	}
	shadowing := false
	for i := v.current; i >= 0; i = v.frames[i].parent {
		item := v.frames[i].item
		if item == nil {
			continue
		}
		if item.T == t {
			if i != v.current {
				v.frames[v.current].item = item
			}
			return item
		}
		shadowing = true
	}
	name := "$" + CurrentItemName
	if shadowing {
		v.itemSeq++
		name = fmt.Sprintf("$%s_%d", CurrentItemName, v.itemSeq)
	}
	item := exprs.NewVariable(name, t)
	f := &v.frames[v.current]
	f.locals = append(f.locals, item)
	f.item = item
	return item
}
