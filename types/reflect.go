package types

import (
	"reflect"
	"strings"
	"sync"
)

var (
	reflectCache sync.Map // reflect.Type -> *Type
	reflectMu    sync.Mutex
)

var (
	errorReflectType = reflect.TypeFor[error]()
	anyReflectType   = reflect.TypeFor[any]()
)

// FieldImpl is the Member.Impl of fields of reflect-backed types.
type FieldImpl struct {
	Index []int
}

// MethodImpl is the Member.Impl of methods of reflect-backed types.
type MethodImpl struct {
	Method reflect.Method
}

// FromReflectType returns the catalog type describing a Go type.
// Pointers to structs and the structs themselves map to the same type.
func FromReflectType(rt reflect.Type) *Type {
	if rt == nil || rt.Kind() == reflect.Invalid {
		return nil
	}
	if cached, ok := reflectCache.Load(rt); ok {
		return cached.(*Type)
	}
	reflectMu.Lock()
	defer reflectMu.Unlock()
	return fromReflectType(rt, make(map[reflect.Type]*Type))
}

func fromReflectType(rt reflect.Type, building map[reflect.Type]*Type) *Type {
	if t, ok := building[rt]; ok {
		return t
	}
	if cached, ok := reflectCache.Load(rt); ok {
		return cached.(*Type)
	}

	if rt == errorReflectType {
		return Error
	}
	if rt == anyReflectType {
		return Any
	}

	switch rt.Kind() {
	case reflect.Pointer:
		if rt.Elem().Kind() == reflect.Struct {
			return fromReflectType(rt.Elem(), building)
		}
		return Any
	case reflect.Slice, reflect.Array:
		return ArrayOf(fromReflectType(rt.Elem(), building))
	case reflect.Map:
		return MapOf(fromReflectType(rt.Key(), building), fromReflectType(rt.Elem(), building))
	case reflect.Func:
		in := make([]*Type, rt.NumIn())
		for i := range in {
			in[i] = fromReflectType(rt.In(i), building)
		}
		return FuncOf(in, reflectResult(rt, building))
	}

	basic := basicKinds[rt.Kind()]
	if basic != nil && rt.PkgPath() == "" {
		return basic
	}

	namespace, name := splitReflectName(rt)
	var t *Type
	switch {
	case basic != nil && basic.kind.IsInteger():
		t = NewEnum(namespace, name, basic)
	case basic != nil:
		return basic
	case rt.Kind() == reflect.Struct:
		t = NewStruct(namespace, name)
	case rt.Kind() == reflect.Interface:
		t = NewInterface(namespace, name)
	default:
		return Any
	}
	t.external = rt
	building[rt] = t

	if rt.Kind() == reflect.Struct {
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			t.AddMembers(&Member{
				Kind: MemberField,
				Name: f.Name,
				Type: fromReflectType(f.Type, building),
				Impl: FieldImpl{Index: f.Index},
			})
		}
	}

	methodSet := rt
	if rt.Kind() == reflect.Struct {
		methodSet = reflect.PointerTo(rt)
	}
	for i := 0; i < methodSet.NumMethod(); i++ {
		m := methodSet.Method(i)
		ft := m.Type
		skip := 1
		if methodSet.Kind() == reflect.Interface {
			skip = 0
		}
		params := make([]Param, 0, ft.NumIn()-skip)
		for j := skip; j < ft.NumIn(); j++ {
			params = append(params, Param{
				Type: fromReflectType(ft.In(j), building),
			})
		}
		t.AddMembers(&Member{
			Kind:   MemberMethod,
			Name:   m.Name,
			Type:   reflectResult(ft, building),
			Params: params,
			Impl:   MethodImpl{Method: m},
		})
	}

	reflectCache.Store(rt, t)
	return t
}

// reflectResult maps Go results to a single result type; a trailing error is
// dropped.
func reflectResult(ft reflect.Type, building map[reflect.Type]*Type) *Type {
	n := ft.NumOut()
	if n > 0 && ft.Out(n-1) == errorReflectType {
		n--
	}
	switch n {
	case 0:
		return Void
	case 1:
		return fromReflectType(ft.Out(0), building)
	}
	return Any
}

func splitReflectName(rt reflect.Type) (namespace, name string) {
	s := rt.String()
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

var basicKinds = map[reflect.Kind]*Type{
	reflect.Bool:    Bool,
	reflect.Int:     Int,
	reflect.Int8:    Int8,
	reflect.Int16:   Int16,
	reflect.Int32:   Int32,
	reflect.Int64:   Int64,
	reflect.Uint:    Uint,
	reflect.Uint8:   Uint8,
	reflect.Uint16:  Uint16,
	reflect.Uint32:  Uint32,
	reflect.Uint64:  Uint64,
	reflect.Float32: Float32,
	reflect.Float64: Float64,
	reflect.String:  String,
}
