package types

import (
	"reflect"
	"strings"
	"sync"

	"github.com/reusee/tailambda/names"
)

// Type describes a host type.
// Types are compared with == for identity; constructed types are interned.
type Type struct {
	kind        Kind
	name        string
	namespace   string
	elem        *Type
	key         *Type
	in          []*Type
	out         *Type
	underlying  *Type
	base        *Type
	interfaces  []*Type
	members     []*Member
	typeParams  []*Type
	constraints []*Type
	def         *Type
	args        []*Type
	family      bool
	external    reflect.Type

	deriveOnce    sync.Once
	derivedIfaces []*Type
	derivedMembs  []*Member
}

func (t *Type) Kind() Kind {
	if t == nil {
		return KindInvalid
	}
	return t.kind
}

func (t *Type) Name() string {
	return t.name
}

func (t *Type) Namespace() string {
	return t.namespace
}

func (t *Type) FullName() string {
	if t.namespace == "" {
		return t.String()
	}
	return t.namespace + "." + t.String()
}

// Elem returns the element type of arrays, maps, and by-reference types.
func (t *Type) Elem() *Type {
	return t.elem
}

func (t *Type) Key() *Type {
	return t.key
}

// In returns the parameter types of a function type.
func (t *Type) In() []*Type {
	return t.in
}

// Out returns the result type of a function type, Void if none.
func (t *Type) Out() *Type {
	return t.out
}

// Underlying returns the integral type of an enum.
func (t *Type) Underlying() *Type {
	return t.underlying
}

func (t *Type) Base() *Type {
	t.derive()
	return t.base
}

func (t *Type) TypeParams() []*Type {
	return t.typeParams
}

// Constraints returns the interface constraints of a generic parameter.
func (t *Type) Constraints() []*Type {
	return t.constraints
}

// Definition returns the generic definition of an instantiated type.
func (t *Type) Definition() *Type {
	return t.def
}

// Args returns the type arguments of an instantiated type.
func (t *Type) Args() []*Type {
	return t.args
}

func (t *Type) External() reflect.Type {
	return t.external
}

func (t *Type) IsVoid() bool {
	return t != nil && t.kind == KindVoid
}

func (t *Type) IsByRef() bool {
	return t != nil && t.kind == KindByRef
}

func (t *Type) IsEnum() bool {
	return t != nil && t.kind == KindEnum
}

func (t *Type) IsNumeric() bool {
	return t != nil && t.kind.IsNumeric()
}

func (t *Type) IsGenericDefinition() bool {
	return t != nil && (len(t.typeParams) > 0 || t.family)
}

func (t *Type) IsGenericInstance() bool {
	return t != nil && t.def != nil
}

// ContainsTypeParams reports whether t mentions any unresolved generic parameter.
func (t *Type) ContainsTypeParams() bool {
	if t == nil {
		return false
	}
	switch t.kind {
	case KindTypeParam:
		return true
	case KindArray, KindByRef:
		return t.elem.ContainsTypeParams()
	case KindMap:
		return t.key.ContainsTypeParams() || t.elem.ContainsTypeParams()
	case KindFunc:
		for _, in := range t.in {
			if in.ContainsTypeParams() {
				return true
			}
		}
		return t.out.ContainsTypeParams()
	}
	for _, arg := range t.args {
		if arg.ContainsTypeParams() {
			return true
		}
	}
	return false
}

// Interfaces returns the interfaces t declares, not including inherited ones.
func (t *Type) Interfaces() []*Type {
	t.derive()
	if t.derivedIfaces != nil {
		return t.derivedIfaces
	}
	return t.interfaces
}

// AllInterfaces returns every interface t implements, directly, through its
// base types, or through other interfaces, in declaration order without duplicates.
func (t *Type) AllInterfaces() []*Type {
	var ret []*Type
	seen := make(map[*Type]bool)
	var visit func(*Type)
	visit = func(u *Type) {
		for _, iface := range u.Interfaces() {
			if seen[iface] {
				continue
			}
			seen[iface] = true
			ret = append(ret, iface)
			visit(iface)
		}
		if u.base != nil {
			visit(u.base)
		}
	}
	visit(t)
	return ret
}

// Members returns the members declared on t, not including inherited ones.
func (t *Type) Members() []*Member {
	t.derive()
	if t.derivedMembs != nil {
		return t.derivedMembs
	}
	return t.members
}

// FindMembers returns members named name, case-insensitively, in declaration
// order: own members first, then base types, then interfaces for interface types.
func (t *Type) FindMembers(name string) []*Member {
	var ret []*Member
	for u := t; u != nil; u = u.base {
		for _, m := range u.Members() {
			if names.Equal(m.Name, name) {
				ret = append(ret, m)
			}
		}
	}
	if t.kind == KindInterface || t.kind == KindTypeParam {
		var sources []*Type
		if t.kind == KindTypeParam {
			sources = t.constraints
		} else {
			sources = t.AllInterfaces()
		}
		for _, iface := range sources {
			for _, m := range iface.FindMembers(name) {
				ret = append(ret, m)
			}
		}
	}
	return ret
}

// AssignableTo reports whether a value of t can be stored in a location of u
// without conversion.
func (t *Type) AssignableTo(u *Type) bool {
	if t == nil || u == nil {
		return false
	}
	if t == u {
		return true
	}
	t.derive()
	if t.kind == KindVoid || u.kind == KindVoid {
		return false
	}
	if u.kind == KindAny {
		return true
	}
	if t.external != nil && u.external != nil && t.external.AssignableTo(u.external) {
		return true
	}
	for b := t.base; b != nil; b = b.base {
		if b == u {
			return true
		}
	}
	if u.kind == KindInterface {
		for _, iface := range t.AllInterfaces() {
			if iface == u {
				return true
			}
		}
	}
	return false
}

// FindGenericInterface returns the instantiation of def that t is or implements.
func FindGenericInterface(t *Type, def *Type) *Type {
	if t == nil || def == nil {
		return nil
	}
	if t.def == def {
		return t
	}
	for _, iface := range t.AllInterfaces() {
		if iface.def == def {
			return iface
		}
	}
	return nil
}

func (t *Type) String() string {
	if t == nil {
		return "nil"
	}
	switch t.kind {
	case KindArray:
		return t.elem.String() + "[]"
	case KindByRef:
		return "ref " + t.elem.String()
	case KindMap:
		if t.name == "" {
			return "map[" + t.key.String() + "]" + t.elem.String()
		}
	case KindFunc:
		if t.name == "" {
			return funcString(t)
		}
	}
	if t.def != nil {
		var b strings.Builder
		b.WriteString(t.def.name)
		b.WriteString("[")
		for i, arg := range t.args {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(arg.String())
		}
		b.WriteString("]")
		return b.String()
	}
	if t.name != "" {
		return t.name
	}
	return t.kind.String()
}

func funcString(t *Type) string {
	var b strings.Builder
	if t.out.IsVoid() {
		b.WriteString("Action[")
	} else {
		b.WriteString("Func[")
	}
	for i, in := range t.in {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(in.String())
	}
	if !t.out.IsVoid() {
		if len(t.in) > 0 {
			b.WriteString(",")
		}
		b.WriteString(t.out.String())
	}
	b.WriteString("]")
	return b.String()
}
