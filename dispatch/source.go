package dispatch

import (
	"fmt"
	"reflect"

	"github.com/wippyai/duckwings/binding"
	"github.com/wippyai/duckwings/descriptor"
	"github.com/wippyai/duckwings/resolve"
)

// Target is a callable located for one descriptor on one delegate.
// Exactly one of Method and Binding is set.
type Target struct {
	delegate reflect.Value
	Binding  binding.Binding
	Method   resolve.Method
}

// Declarative reports whether the target is a registered binding.
func (t Target) Declarative() bool { return t.Binding.Fn.IsValid() }

// Call runs the target with args. Panics propagate.
func (t Target) Call(args []reflect.Value) ([]reflect.Value, error) {
	if t.Declarative() {
		return t.Binding.Call(t.delegate, args), nil
	}
	return t.Method.Call(t.delegate, args)
}

// String names the code that runs, e.g. "(*bytes.Buffer).Len".
func (t Target) String() string {
	if t.Declarative() {
		return "binding " + t.Binding.Fn.Type().String()
	}
	owner := t.Method.Owner
	if t.Method.Addr {
		owner = reflect.PointerTo(owner)
	}
	if owner == nil {
		return t.Method.Name
	}
	return fmt.Sprintf("(%s).%s", owner, t.Method.Name)
}

// Source locates targets for descriptors on a single delegate.
type Source interface {
	Lookup(d descriptor.Descriptor) (Target, bool)
	Delegate() any
	Kind() string
}

// StructuralSource resolves descriptors against the delegate's methods.
type StructuralSource struct {
	delegate any
	value    reflect.Value
	resolver *resolve.Resolver
}

// NewStructuralSource creates a source over delegate. A nil resolver uses
// the shared cache.
func NewStructuralSource(delegate any, r *resolve.Resolver) *StructuralSource {
	if r == nil {
		r = resolve.NewResolver(nil)
	}
	return &StructuralSource{
		delegate: delegate,
		value:    reflect.ValueOf(delegate),
		resolver: r,
	}
}

func (s *StructuralSource) Lookup(d descriptor.Descriptor) (Target, bool) {
	if !s.value.IsValid() {
		return Target{}, false
	}
	m, ok := s.resolver.Resolve(s.value.Type(), d)
	if !ok {
		return Target{}, false
	}
	return Target{delegate: s.value, Method: m}, true
}

func (s *StructuralSource) Delegate() any { return s.delegate }

func (s *StructuralSource) Kind() string { return "structural" }

// BindingSource answers only descriptors present in its binding table.
type BindingSource struct {
	delegate any
	value    reflect.Value
	table    *binding.Table
}

// NewBindingSource creates a source over delegate. The table must not be
// modified afterwards.
func NewBindingSource(delegate any, table *binding.Table) *BindingSource {
	if table == nil {
		table = binding.NewTable()
	}
	return &BindingSource{
		delegate: delegate,
		value:    reflect.ValueOf(delegate),
		table:    table,
	}
}

func (s *BindingSource) Lookup(d descriptor.Descriptor) (Target, bool) {
	b, ok := s.table.Lookup(d)
	if !ok {
		return Target{}, false
	}
	return Target{delegate: s.value, Binding: b}, true
}

func (s *BindingSource) Delegate() any { return s.delegate }

func (s *BindingSource) Kind() string { return "declarative" }
