package resolve

import (
	"reflect"

	"github.com/wippyai/duckwings/descriptor"
	"github.com/wippyai/duckwings/errors"
)

// Method is a located concrete method on a delegate type.
type Method struct {
	// Owner is the type whose method set holds the method.
	Owner reflect.Type
	// Func is the method type, receiver first unless Owner is an interface.
	Func reflect.Type
	Name string
	// Path is the embedded field index chain from the delegate to the
	// receiver. It is nil when the method was found on the delegate itself.
	Path  []int
	Index int
	Depth int
	// Addr marks methods found on *Owner for an addressable embedded value.
	Addr bool
}

// Receiver extracts the value the method is invoked on.
func (m Method) Receiver(delegate reflect.Value) (reflect.Value, error) {
	v := delegate
	for _, i := range m.Path {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, errors.NilPointer(errors.PhaseResolve, nil, v.Type().String())
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	if m.Addr {
		if !v.CanAddr() {
			return reflect.Value{}, errors.New(errors.PhaseResolve, errors.KindInvalidArgument).
				GoType(v.Type().String()).
				Method(m.Name).
				Detail("pointer method on unaddressable value").
				Build()
		}
		v = v.Addr()
	}
	if v.Kind() == reflect.Interface && v.IsNil() {
		return reflect.Value{}, errors.NilPointer(errors.PhaseResolve, nil, v.Type().String())
	}
	return v, nil
}

// Call invokes the method on delegate. Panics raised by the method
// propagate to the caller.
func (m Method) Call(delegate reflect.Value, args []reflect.Value) ([]reflect.Value, error) {
	recv, err := m.Receiver(delegate)
	if err != nil {
		return nil, err
	}
	fn := recv.Method(m.Index)
	if fn.Type().IsVariadic() {
		return fn.CallSlice(args), nil
	}
	return fn.Call(args), nil
}

// Resolver finds delegate methods that structurally match descriptors.
// Resolver is safe for concurrent use.
type Resolver struct {
	cache *Cache
}

// NewResolver creates a resolver backed by c, or by Shared() when c is nil.
func NewResolver(c *Cache) *Resolver {
	if c == nil {
		c = Shared()
	}
	return &Resolver{cache: c}
}

// Cache returns the resolver's cache.
func (r *Resolver) Cache() *Cache { return r.cache }

// Resolve locates the method of delegate type t matching d by name and
// exact parameter types. Results are not compared. The embedding chain is
// walked breadth first after t's own method set; the first match wins.
func (r *Resolver) Resolve(t reflect.Type, d descriptor.Descriptor) (Method, bool) {
	if t == nil || d.IsZero() {
		return Method{}, false
	}

	key := cacheKey{typ: t, desc: d}
	if v, ok := r.cache.load(key); ok {
		return v.method, v.found
	}

	m, found := walk(t, d)
	v := r.cache.store(key, verdict{method: m, found: found})
	return v.method, v.found
}

// Verdict is one row of a resolution report.
type Verdict struct {
	Descriptor descriptor.Descriptor
	Method     Method
	Found      bool
}

// Methods resolves every descriptor of set against t, in set order.
func (r *Resolver) Methods(t reflect.Type, set *descriptor.Set) []Verdict {
	out := make([]Verdict, 0, set.Len())
	for _, d := range set.All() {
		m, ok := r.Resolve(t, d)
		out = append(out, Verdict{Descriptor: d, Method: m, Found: ok})
	}
	return out
}

type level struct {
	typ   reflect.Type
	path  []int
	depth int
	addr  bool
}

func walk(t reflect.Type, d descriptor.Descriptor) (Method, bool) {
	if m, ok := lookup(t, nil, 0, false, d); ok {
		return m, true
	}

	// Embedded fields of a struct reached through a pointer are addressable.
	addressable := t.Kind() == reflect.Pointer
	queue := embedded(level{typ: t}, addressable)
	visited := map[reflect.Type]bool{deref(t): true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if m, ok := lookup(cur.typ, cur.path, cur.depth, false, d); ok {
			return m, true
		}
		if cur.addr {
			if m, ok := lookup(reflect.PointerTo(cur.typ), cur.path, cur.depth, true, d); ok {
				return m, true
			}
		}

		base := deref(cur.typ)
		if visited[base] {
			continue
		}
		visited[base] = true
		queue = append(queue, embedded(cur, cur.addr || cur.typ.Kind() == reflect.Pointer)...)
	}
	return Method{}, false
}

// lookup checks one method set. When addr is set, typ is the pointer to
// an addressable embedded value.
func lookup(typ reflect.Type, path []int, depth int, addr bool, d descriptor.Descriptor) (Method, bool) {
	m, ok := typ.MethodByName(d.Name)
	if !ok || !m.IsExported() {
		return Method{}, false
	}
	receiver := typ.Kind() != reflect.Interface
	if !d.MatchesParams(m.Type, receiver) {
		return Method{}, false
	}
	owner := typ
	if addr {
		owner = typ.Elem()
	}
	return Method{
		Owner: owner,
		Func:  m.Type,
		Name:  m.Name,
		Path:  path,
		Index: m.Index,
		Depth: depth,
		Addr:  addr,
	}, true
}

// embedded lists the exported anonymous fields of l's struct type in
// declaration order. Methods behind unexported fields cannot be called
// through reflection and are skipped.
func embedded(l level, addressable bool) []level {
	base := deref(l.typ)
	if base.Kind() != reflect.Struct {
		return nil
	}
	var out []level
	for i := 0; i < base.NumField(); i++ {
		f := base.Field(i)
		if !f.Anonymous || !f.IsExported() {
			continue
		}
		path := make([]int, len(l.path), len(l.path)+1)
		copy(path, l.path)
		out = append(out, level{
			typ:   f.Type,
			path:  append(path, i),
			depth: l.depth + 1,
			addr:  addressable && f.Type.Kind() != reflect.Pointer && f.Type.Kind() != reflect.Interface,
		})
	}
	return out
}

func deref(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
