package types

import (
	"fmt"
	"strings"
)

type MemberKind uint8

const (
	MemberMethod MemberKind = iota + 1
	MemberProperty
	MemberField
	MemberConstructor
)

func (k MemberKind) String() string {
	switch k {
	case MemberMethod:
		return "method"
	case MemberProperty:
		return "property"
	case MemberField:
		return "field"
	case MemberConstructor:
		return "constructor"
	}
	return "invalid"
}

type Param struct {
	Name string
	// Type is a by-reference type for out/ref parameters.
	Type *Type
}

// Member describes a method, property, field, or constructor of a type.
// For methods Type is the result type; for properties and fields it is the
// value type. Properties with Params are indexers.
type Member struct {
	Kind       MemberKind
	Name       string
	Static     bool
	Owner      *Type
	Type       *Type
	Params     []Param
	TypeParams []*Type

	// Extension members are static methods whose first parameter is the receiver.
	Extension bool
	Namespace string

	// Impl is an opaque handle for the backend.
	Impl any

	def  *Member
	args []*Type
}

func (m *Member) IsGeneric() bool {
	return len(m.TypeParams) > 0
}

// Definition returns the generic method this member was instantiated from.
func (m *Member) Definition() *Member {
	return m.def
}

func (m *Member) TypeArgs() []*Type {
	return m.args
}

func (m *Member) ParamTypes() []*Type {
	ret := make([]*Type, len(m.Params))
	for i, p := range m.Params {
		ret[i] = p.Type
	}
	return ret
}

// Result returns the value type produced by using the member.
func (m *Member) Result() *Type {
	if m.Kind == MemberConstructor {
		return m.Owner
	}
	if m.Type == nil {
		return Void
	}
	return m.Type
}

// Instantiate closes a generic method over args.
func (m *Member) Instantiate(args ...*Type) (*Member, error) {
	if len(args) != len(m.TypeParams) {
		return nil, fmt.Errorf("%s expects %d type arguments, got %d", m.Name, len(m.TypeParams), len(args))
	}
	mapping := make(map[*Type]*Type, len(args))
	for i, p := range m.TypeParams {
		if args[i] == nil || args[i].ContainsTypeParams() {
			return nil, fmt.Errorf("unresolved type argument %s of %s", p, m.Name)
		}
		mapping[p] = args[i]
	}
	ret := m.substitute(mapping)
	ret.TypeParams = nil
	ret.def = m
	ret.args = append([]*Type(nil), args...)
	return ret, nil
}

func (m *Member) substitute(mapping map[*Type]*Type) *Member {
	ret := *m
	ret.Type = Substitute(m.Type, mapping)
	ret.Params = make([]Param, len(m.Params))
	for i, p := range m.Params {
		ret.Params[i] = Param{
			Name: p.Name,
			Type: Substitute(p.Type, mapping),
		}
	}
	return &ret
}

func (m *Member) String() string {
	var b strings.Builder
	if m.Owner != nil {
		b.WriteString(m.Owner.String())
		if m.Static {
			b.WriteString("::")
		} else {
			b.WriteString(".")
		}
	}
	b.WriteString(m.Name)
	if len(m.TypeParams) > 0 {
		b.WriteString("[")
		for i, p := range m.TypeParams {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(p.String())
		}
		b.WriteString("]")
	}
	if m.Kind == MemberMethod || m.Kind == MemberConstructor || len(m.Params) > 0 {
		b.WriteString("(")
		for i, p := range m.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Type.String())
		}
		b.WriteString(")")
	}
	if m.Kind != MemberConstructor {
		b.WriteString(" ")
		b.WriteString(m.Result().String())
	}
	return b.String()
}
