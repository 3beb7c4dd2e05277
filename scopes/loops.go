package scopes

import (
	"fmt"

	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
)

type loopFrame struct {
	parent int
	brk    *exprs.Label
	cont   *exprs.Label
}

// Loops supplies break and continue labels of enclosing loops.
type Loops struct {
	frames  []loopFrame
	current int
}

func NewLoops() *Loops {
	return &Loops{
		current: -1,
	}
}

func (l *Loops) NewScope() (release func()) {
	idx := len(l.frames)
	l.frames = append(l.frames, loopFrame{
		parent: l.current,
		brk:    exprs.NewLabel(fmt.Sprintf("break#%d", idx), types.Void),
		cont:   exprs.NewLabel(fmt.Sprintf("continue#%d", idx), types.Void),
	})
	l.current = idx
	released := false
	return func() {
		if released {
			return
		}
		released = true
		l.current = l.frames[idx].parent
	}
}

// Break returns the break label of the innermost loop, nil outside loops.
func (l *Loops) Break() *exprs.Label {
	if l.current < 0 {
		return nil
	}
	return l.frames[l.current].brk
}

// Continue returns the continue label of the innermost loop, nil outside loops.
func (l *Loops) Continue() *exprs.Label {
	if l.current < 0 {
		return nil
	}
	return l.frames[l.current].cont
}
