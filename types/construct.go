package types

import (
	"fmt"
	"strings"
	"sync"
)

func primitive(kind Kind, name string) *Type {
	return &Type{
		kind: kind,
		name: name,
	}
}

func NewStruct(namespace, name string) *Type {
	return &Type{
		kind:      KindStruct,
		name:      name,
		namespace: namespace,
	}
}

func NewInterface(namespace, name string) *Type {
	return &Type{
		kind:      KindInterface,
		name:      name,
		namespace: namespace,
	}
}

func NewEnum(namespace, name string, underlying *Type) *Type {
	return &Type{
		kind:       KindEnum,
		name:       name,
		namespace:  namespace,
		underlying: underlying,
	}
}

// NewGeneric returns a generic type definition with one type parameter per name.
func NewGeneric(kind Kind, namespace, name string, params ...string) *Type {
	t := &Type{
		kind:      kind,
		name:      name,
		namespace: namespace,
	}
	for _, p := range params {
		t.typeParams = append(t.typeParams, NewTypeParam(p))
	}
	return t
}

func NewTypeParam(name string, constraints ...*Type) *Type {
	return &Type{
		kind:        KindTypeParam,
		name:        name,
		constraints: constraints,
	}
}

// Extend sets the base type. Types must not be mutated after registration.
func (t *Type) Extend(base *Type) *Type {
	t.base = base
	return t
}

func (t *Type) Implement(ifaces ...*Type) *Type {
	t.interfaces = append(t.interfaces, ifaces...)
	return t
}

func (t *Type) AddMembers(members ...*Member) *Type {
	for _, m := range members {
		m.Owner = t
		t.members = append(t.members, m)
	}
	return t
}

var constructed sync.Map // string -> *Type

func internKey(tag string, ts ...*Type) string {
	var b strings.Builder
	b.WriteString(tag)
	for _, t := range ts {
		fmt.Fprintf(&b, ",%p", t)
	}
	return b.String()
}

func intern(key string, build func() *Type) *Type {
	if v, ok := constructed.Load(key); ok {
		return v.(*Type)
	}
	v, _ := constructed.LoadOrStore(key, build())
	return v.(*Type)
}

func ArrayOf(elem *Type) *Type {
	return intern(internKey("array", elem), func() *Type {
		return &Type{
			kind: KindArray,
			elem: elem,
		}
	})
}

func ByRefOf(elem *Type) *Type {
	if elem.IsByRef() {
		return elem
	}
	return intern(internKey("ref", elem), func() *Type {
		return &Type{
			kind: KindByRef,
			elem: elem,
		}
	})
}

func MapOf(key, elem *Type) *Type {
	return intern(internKey("map", key, elem), func() *Type {
		return &Type{
			kind: KindMap,
			key:  key,
			elem: elem,
		}
	})
}

// FuncOf returns the function type with the given parameters and result.
// A nil result means Void.
func FuncOf(in []*Type, out *Type) *Type {
	if out == nil {
		out = Void
	}
	ts := append([]*Type{out}, in...)
	return intern(internKey("func", ts...), func() *Type {
		return &Type{
			kind: KindFunc,
			in:   append([]*Type(nil), in...),
			out:  out,
		}
	})
}

// Instantiate closes a generic definition over args.
func (t *Type) Instantiate(args ...*Type) (*Type, error) {
	if !t.IsGenericDefinition() {
		return nil, fmt.Errorf("%s is not a generic definition", t)
	}
	for _, arg := range args {
		if arg == nil || arg.IsVoid() && t != Action {
			return nil, fmt.Errorf("invalid type argument for %s", t)
		}
	}
	switch t {
	case Func:
		if len(args) == 0 {
			return nil, fmt.Errorf("func type requires a result type")
		}
		return FuncOf(args[:len(args)-1], args[len(args)-1]), nil
	case Action:
		return FuncOf(args, Void), nil
	}
	if len(args) != len(t.typeParams) {
		return nil, fmt.Errorf("%s expects %d type arguments, got %d", t, len(t.typeParams), len(args))
	}
	return instantiate(t, args), nil
}

func instantiate(def *Type, args []*Type) *Type {
	return intern(internKey("inst", append([]*Type{def}, args...)...), func() *Type {
		return &Type{
			kind:      def.kind,
			name:      def.name,
			namespace: def.namespace,
			def:       def,
			args:      append([]*Type(nil), args...),
		}
	})
}

// Substitute replaces generic parameters in t according to mapping.
func Substitute(t *Type, mapping map[*Type]*Type) *Type {
	if t == nil || len(mapping) == 0 {
		return t
	}
	switch t.kind {
	case KindTypeParam:
		if r, ok := mapping[t]; ok {
			return r
		}
		return t
	case KindArray:
		return ArrayOf(Substitute(t.elem, mapping))
	case KindByRef:
		return ByRefOf(Substitute(t.elem, mapping))
	case KindMap:
		if t.def == nil {
			return MapOf(Substitute(t.key, mapping), Substitute(t.elem, mapping))
		}
	case KindFunc:
		if t.def == nil {
			in := make([]*Type, len(t.in))
			for i, p := range t.in {
				in[i] = Substitute(p, mapping)
			}
			return FuncOf(in, Substitute(t.out, mapping))
		}
	}
	if t.def != nil {
		args := make([]*Type, len(t.args))
		for i, arg := range t.args {
			args[i] = Substitute(arg, mapping)
		}
		return instantiate(t.def, args)
	}
	return t
}

// derive fills members and interfaces of constructed types on first use.
func (t *Type) derive() {
	t.deriveOnce.Do(func() {
		switch {
		case t.def != nil:
			mapping := make(map[*Type]*Type, len(t.args))
			for i, p := range t.def.typeParams {
				mapping[p] = t.args[i]
			}
			t.derivedIfaces = make([]*Type, 0, len(t.def.interfaces))
			for _, iface := range t.def.interfaces {
				t.derivedIfaces = append(t.derivedIfaces, Substitute(iface, mapping))
			}
			t.derivedMembs = make([]*Member, 0, len(t.def.members))
			for _, m := range t.def.members {
				sub := m.substitute(mapping)
				sub.Owner = t
				t.derivedMembs = append(t.derivedMembs, sub)
			}
			t.base = Substitute(t.def.base, mapping)
		case t.kind == KindArray:
			t.derivedIfaces = []*Type{
				instantiate(List, []*Type{t.elem}),
				instantiate(Seq, []*Type{t.elem}),
				UntypedList,
			}
			t.derivedMembs = []*Member{
				{Kind: MemberProperty, Name: "Length", Type: Int, Owner: t},
				{Kind: MemberProperty, Name: "Count", Type: Int, Owner: t},
			}
		case t.kind == KindMap && t.def == nil:
			t.derivedIfaces = []*Type{
				instantiate(Map, []*Type{t.key, t.elem}),
			}
		}
	})
}
