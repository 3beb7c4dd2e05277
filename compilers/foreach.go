package compilers

import (
	"github.com/reusee/tailambda/asts"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/runtimes"
	"github.com/reusee/tailambda/types"
)

// cursorProtocol is how a foreach loop walks its source.
type cursorProtocol struct {
	cursor  *exprs.Variable
	begin   exprs.Expr
	advance exprs.Expr
	current exprs.Expr
	dispose exprs.Expr
}

// typedCursor walks a source implementing Seq[T] through its own members.
func (p *pass) typedCursor(span asts.Span, source exprs.Expr, seq *types.Type) (*cursorProtocol, error) {
	receiver, err := exprs.ConvertIfNeeded(source, seq)
	if err != nil {
		return nil, err
	}
	begin := seq.FindMembers("Begin")[0]
	cursorType := begin.Result()
	cursor := p.NewTemp("cursor", cursorType)

	call, err := exprs.NewCall(receiver, begin)
	if err != nil {
		return nil, err
	}
	setCursor, err := exprs.NewAssign(cursor, call)
	if err != nil {
		return nil, err
	}
	advance, err := exprs.NewCall(cursor, cursorType.FindMembers("Advance")[0])
	if err != nil {
		return nil, err
	}
	current, err := exprs.NewMember(cursor, cursorType.FindMembers("Current")[0])
	if err != nil {
		return nil, err
	}
	disposable, err := exprs.ConvertIfNeeded(cursor, types.Disposable)
	if err != nil {
		return nil, err
	}
	dispose, err := exprs.NewCall(disposable, types.Disposable.FindMembers("Dispose")[0])
	if err != nil {
		return nil, err
	}
	return &cursorProtocol{
		cursor:  cursor,
		begin:   setCursor,
		advance: advance,
		current: current,
		dispose: dispose,
	}, nil
}

// untypedCursor walks any source through the runtime enumeration calls.
func (p *pass) untypedCursor(span asts.Span, source exprs.Expr) (*cursorProtocol, error) {
	boxed, err := exprs.ConvertIfNeeded(source, types.Any)
	if err != nil {
		return nil, err
	}
	cursor := p.NewTemp("cursor", types.Any)
	begin, err := exprs.NewRuntimeCall(runtimes.Begin, nil, boxed)
	if err != nil {
		return nil, err
	}
	setCursor, err := exprs.NewAssign(cursor, begin)
	if err != nil {
		return nil, err
	}
	advance, err := exprs.NewRuntimeCall(runtimes.Advance, nil, cursor)
	if err != nil {
		return nil, err
	}
	current, err := exprs.NewRuntimeCall(runtimes.Current, nil, cursor)
	if err != nil {
		return nil, err
	}
	dispose, err := exprs.NewRuntimeCall(runtimes.Dispose, nil, cursor)
	if err != nil {
		return nil, err
	}
	return &cursorProtocol{
		cursor:  cursor,
		begin:   setCursor,
		advance: advance,
		current: current,
		dispose: dispose,
	}, nil
}

// compileForEach prefers the typed Seq capability of the source and falls
// back to the runtime protocol. Array sources keep their element type.
func (p *pass) compileForEach(n *asts.ForEach) (exprs.Expr, error) {
	return p.NewBlock(func() (exprs.Expr, error) {
		source, err := p.Compile(n.Source)
		if err != nil {
			return nil, err
		}
		if p.poisoned(source) {
			return placeholder(), nil
		}
		span := n.Source.Extent()

		var protocol *cursorProtocol
		elem := types.Any
		if seq := types.FindGenericInterface(source.Type(), types.Seq); seq != nil {
			elem = seq.Args()[0]
			protocol, err = p.typedCursor(span, source, seq)
		} else {
			if source.Type().Kind() == types.KindArray {
				elem = source.Type().Elem()
			}
			protocol, err = p.untypedCursor(span, source)
		}
		if err != nil {
			return p.Check(span, nil, err)
		}

		release := p.loops.NewScope()
		defer release()
		brk, cont := p.loops.Break(), p.loops.Continue()

		body, err := p.NewBlock(func() (exprs.Expr, error) {
			item, err := p.convertTo(span, protocol.current, elem)
			if err != nil {
				return nil, err
			}
			list := make([]exprs.Expr, 0, 3)
			slot := p.vars.SetCurrentItem(elem)
			setSlot, err := exprs.NewAssign(slot, item)
			if err != nil {
				return p.Check(span, nil, err)
			}
			list = append(list, setSlot)
			if n.Variable != nil {
				v, _ := p.vars.GetOrCreate(n.Variable.Name, elem)
				value, err := p.convertTo(n.Variable.Span, slot, v.T)
				if err != nil {
					return nil, err
				}
				setVar, err := exprs.NewAssign(v, value)
				if err != nil {
					return p.Check(n.Variable.Span, nil, err)
				}
				list = append(list, setVar)
			}
			inner, err := p.compileStatementBlock(n.Body)
			if err != nil {
				return nil, err
			}
			return exprs.NewBlock(nil, append(list, void(inner))...), nil
		})
		if err != nil {
			return nil, err
		}

		exit, err := p.gotoLabel(n.Span, exprs.GotoBreak, brk)
		if err != nil {
			return nil, err
		}
		step, err := exprs.NewConditional(protocol.advance, void(body), exit)
		if err != nil {
			return p.Check(n.Span, nil, err)
		}
		try, err := exprs.NewTry(exprs.NewLoop(step, brk, cont), nil, protocol.dispose)
		if err != nil {
			return p.Check(n.Span, nil, err)
		}
		return exprs.NewBlock(nil, protocol.begin, try), nil
	})
}
