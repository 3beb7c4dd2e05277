package types

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/reusee/tailambda/names"
)

var ErrTypeNotFound = errors.New("type not found")

// Catalog resolves type names and lists extension members.
type Catalog interface {
	LookupType(name string) (*Type, error)
	ExtensionMembers() []*Member
}

// Registry is a Catalog populated by static registration.
type Registry struct {
	mu         sync.RWMutex
	types      map[string]*Type
	extensions []*Member
}

var _ Catalog = new(Registry)

// NewRegistry returns a registry holding the primitive and capability types.
func NewRegistry() *Registry {
	r := &Registry{
		types: make(map[string]*Type),
	}
	r.Register(Void)
	r.Register(Any, "object")
	r.Register(Bool, "boolean")
	r.Register(Int)
	r.Register(Int8, "sbyte")
	r.Register(Int16, "short")
	r.Register(Int32)
	r.Register(Int64, "long")
	r.Register(Uint)
	r.Register(Uint8, "byte")
	r.Register(Uint16, "ushort")
	r.Register(Uint32)
	r.Register(Uint64, "ulong")
	r.Register(Float32, "single")
	r.Register(Float64, "double")
	r.Register(String)
	r.Register(TypeValue)
	r.Register(Error, "exception")
	r.Register(ExitError)
	r.Register(Disposable)
	r.Register(Seq)
	r.Register(Cursor)
	r.Register(List)
	r.Register(Map)
	r.Register(UntypedList)
	r.Register(UntypedMap)
	r.Register(Hashtable)
	r.Register(Func)
	r.Register(Action)
	r.Register(Sequences)
	for _, m := range Sequences.Members() {
		if m.Extension {
			r.RegisterExtensions(m)
		}
	}
	return r
}

// Register makes t resolvable by its name, its namespaced name, and aliases.
func (r *Registry) Register(t *Type, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := append([]string{t.name}, aliases...)
	if t.namespace != "" {
		keys = append(keys, t.namespace+"."+t.name)
	}
	for _, key := range keys {
		r.types[names.Fold(key)] = t
	}
}

// RegisterReflect registers the catalog type of Go type rt.
func (r *Registry) RegisterReflect(rt reflect.Type, aliases ...string) *Type {
	t := FromReflectType(rt)
	r.Register(t, aliases...)
	return t
}

func (r *Registry) RegisterExtensions(members ...*Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range members {
		m.Extension = true
		m.Static = true
		r.extensions = append(r.extensions, m)
	}
}

func (r *Registry) LookupType(name string) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[names.Fold(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	return t, nil
}

func (r *Registry) ExtensionMembers() []*Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Member(nil), r.extensions...)
}
