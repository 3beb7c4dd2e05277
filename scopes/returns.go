package scopes

import (
	"fmt"

	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
)

type returnFrame struct {
	parent    int
	requested bool
	t         *types.Type
	label     *exprs.Label
}

// Returns tracks the return label of each closure being compiled.
type Returns struct {
	frames  []returnFrame
	current int
}

func NewReturns() *Returns {
	return &Returns{
		current: -1,
	}
}

// NewScope enters a closure. t is the requested result type, nil when the
// result is inferred from the first return statement.
func (r *Returns) NewScope(t *types.Type) (release func()) {
	idx := len(r.frames)
	r.frames = append(r.frames, returnFrame{
		parent: r.current,
		t:      t,
	})
	r.current = idx
	released := false
	return func() {
		if released {
			return
		}
		released = true
		r.current = r.frames[idx].parent
	}
}

func (r *Returns) frame() *returnFrame {
	if r.current < 0 {
		panic("no return scope")
	}
	return &r.frames[r.current]
}

// Type returns the result type fixed so far, nil if undetermined.
func (r *Returns) Type() *types.Type {
	return r.frame().t
}

// Requested reports whether a return label has been materialized.
func (r *Returns) Requested() bool {
	return r.frame().requested
}

func (r *Returns) label() *exprs.Label {
	f := r.frame()
	if f.label == nil {
		t := f.t
		if t == nil {
			t = types.Void
		}
		f.label = exprs.NewLabel(fmt.Sprintf("return#%d", r.current), t)
	}
	return f.label
}

// ReturnLabel materializes the return label. The first call fixes the
// result type to t unless a type was requested.
func (r *Returns) ReturnLabel(t *types.Type) *exprs.Label {
	f := r.frame()
	if f.requested {
		return f.label
	}
	f.requested = true
	if f.t == nil {
		f.t = t
	}
	return r.label()
}

// WithReturn appends the return label to body when one is needed.
// Without an explicit return, a body compiled with requireExplicit false
// yields its own value.
func (r *Returns) WithReturn(body []exprs.Expr, requireExplicit bool) ([]exprs.Expr, error) {
	f := r.frame()
	if !f.requested && !requireExplicit {
		return body, nil
	}
	if !f.requested {
		f.requested = true
		if f.t == nil {
			f.t = types.Void
		}
	}
	mark, err := exprs.NewLabelMark(r.label(), nil)
	if err != nil {
		return nil, err
	}
	return append(append([]exprs.Expr(nil), body...), mark), nil
}
