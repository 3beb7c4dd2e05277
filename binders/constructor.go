package binders

import (
	"github.com/reusee/tailambda/diags"
	"github.com/reusee/tailambda/exprs"
	"github.com/reusee/tailambda/types"
	"github.com/samber/lo"
)

// BindConstructor picks the constructor of t that best fits args. A
// constructor whose parameter types equal more argument types wins; ties go
// to the first declared.
func (b *Binder) BindConstructor(t *types.Type, args []exprs.Expr) Result {
	ctors := lo.Filter(t.Members(), func(m *types.Member, _ int) bool {
		return m.Kind == types.MemberConstructor
	})
	if len(ctors) == 0 {
		return Result{ID: diags.MissingMember}
	}

	var best *types.Member
	bestScore := -1
	for _, ctor := range ctors {
		score, ok := fit(ctor, args)
		if !ok {
			b.reject(ctor, "arguments do not fit")
			continue
		}
		if score > bestScore {
			best = ctor
			bestScore = score
		}
	}
	if best == nil {
		return Result{ID: diags.NoMemberArgumentMatch}
	}

	values := make([]exprs.Expr, len(args))
	for i, p := range best.Params {
		values[i] = args[i]
		if p.Type.IsByRef() {
			continue
		}
		converted, err := exprs.ConvertIfNeeded(args[i], p.Type)
		if err != nil {
			return Result{ID: diags.NoMemberArgumentMatch}
		}
		values[i] = converted
	}
	expr, err := exprs.NewNew(best, values...)
	if err != nil {
		return Result{ID: diags.NoMemberArgumentMatch}
	}
	return Result{
		Expr:   expr,
		Member: best,
	}
}

func fit(ctor *types.Member, args []exprs.Expr) (score int, ok bool) {
	if len(ctor.Params) != len(args) {
		return 0, false
	}
	for i, p := range ctor.Params {
		at := args[i].Type()
		if p.Type.IsByRef() {
			if at != p.Type.Elem() || !exprs.Assignable(args[i]) {
				return 0, false
			}
			score++
			continue
		}
		if !at.AssignableTo(p.Type) {
			return 0, false
		}
		if at == p.Type {
			score++
		}
	}
	return score, true
}
