package binders

import (
	"github.com/reusee/tailambda/types"
)

// match reports whether an argument of type arg fits parameter param,
// binding generic parameters on the way. The first site to mention a
// generic parameter binds it; later sites must be compatible with it.
func (a *attempt) match(param, arg *types.Type) bool {
	if param.IsByRef() {
		param = param.Elem()
	}
	if arg.AssignableTo(param) {
		return true
	}
	if !a.generic {
		return false
	}

	// arrays are sequences
	if arg.Kind() == types.KindArray && param.Definition() == types.Seq {
		if seq, err := types.Seq.Instantiate(arg.Elem()); err == nil {
			arg = seq
		}
	}

	switch {

	case param.Kind() == types.KindTypeParam:
		if bound, ok := a.mapping[param]; ok {
			return arg.AssignableTo(bound)
		}
		for _, c := range param.Constraints() {
			if !arg.AssignableTo(types.Substitute(c, a.mapping)) {
				return false
			}
		}
		if arg.IsVoid() {
			return false
		}
		a.mapping[param] = arg
		return true

	case param.Kind() == types.KindArray:
		if arg.Kind() != types.KindArray {
			return false
		}
		return a.match(param.Elem(), arg.Elem())

	case param.Kind() == types.KindMap && !param.IsGenericInstance():
		if arg.Kind() != types.KindMap || arg.IsGenericInstance() {
			return false
		}
		return a.match(param.Key(), arg.Key()) &&
			a.match(param.Elem(), arg.Elem())

	case param.Kind() == types.KindFunc:
		if arg.Kind() != types.KindFunc || len(arg.In()) != len(param.In()) {
			return false
		}
		for i, in := range param.In() {
			if !a.match(in, arg.In()[i]) {
				return false
			}
		}
		return a.match(param.Out(), arg.Out())

	case param.IsGenericInstance():
		instance := types.FindGenericInterface(arg, param.Definition())
		if instance == nil {
			return false
		}
		for i, p := range param.Args() {
			if !a.match(p, instance.Args()[i]) {
				return false
			}
		}
		return arg.AssignableTo(types.Substitute(param, a.mapping))
	}

	return false
}
