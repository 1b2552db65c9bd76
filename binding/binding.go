package binding

import (
	"reflect"

	"github.com/wippyai/duckwings/descriptor"
	"github.com/wippyai/duckwings/errors"
)

// Binding associates an interface method with an implementation function
// taking the delegate followed by the method's parameters.
type Binding struct {
	Descriptor descriptor.Descriptor
	Fn         reflect.Value
}

// New validates impl against d for delegates of type delegate.
// impl must be a func whose first parameter accepts the delegate and whose
// remaining parameters accept d's parameters, with the same variadic flag.
// Each impl result must be shapeable into the matching result of d.
func New(d descriptor.Descriptor, delegate reflect.Type, impl any) (Binding, error) {
	fn := reflect.ValueOf(impl)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return Binding{}, errors.InvalidBinding(typeName(impl), d.String(), "implementation must be a non-nil function")
	}

	ft := fn.Type()
	if ft.NumIn() != d.NumIn()+1 {
		return Binding{}, errors.InvalidBinding(ft.String(), d.String(), "implementation takes %d parameters, want delegate plus %d", ft.NumIn(), d.NumIn())
	}
	if ft.IsVariadic() != d.IsVariadic() {
		return Binding{}, errors.InvalidBinding(ft.String(), d.String(), "variadic mismatch")
	}
	if delegate != nil && !delegate.AssignableTo(ft.In(0)) {
		return Binding{}, errors.InvalidBinding(ft.String(), d.String(), "first parameter %s does not accept delegate %s", ft.In(0), delegate)
	}
	for i := 0; i < d.NumIn(); i++ {
		if !d.In(i).AssignableTo(ft.In(i + 1)) {
			return Binding{}, errors.InvalidBinding(ft.String(), d.String(), "parameter %d: %s does not accept %s", i, ft.In(i+1), d.In(i))
		}
	}
	for i := 0; i < ft.NumOut() && i < d.NumOut(); i++ {
		if !descriptor.Shapeable(ft.Out(i), d.Out(i)) {
			return Binding{}, errors.InvalidBinding(ft.String(), d.String(), "result %d: %s cannot be used as %s", i, ft.Out(i), d.Out(i))
		}
	}

	return Binding{Descriptor: d, Fn: fn}, nil
}

// Call runs the implementation with delegate prepended to args.
func (b Binding) Call(delegate reflect.Value, args []reflect.Value) []reflect.Value {
	in := make([]reflect.Value, 0, len(args)+1)
	in = append(in, delegate)
	in = append(in, args...)
	if b.Fn.Type().IsVariadic() {
		return b.Fn.CallSlice(in)
	}
	return b.Fn.Call(in)
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

// Table stores bindings by descriptor. A later Put for the same descriptor
// replaces the earlier binding. Table is not safe for concurrent mutation;
// it is filled while building and only read afterwards.
type Table struct {
	bindings map[descriptor.Descriptor]Binding
	order    []descriptor.Descriptor
}

func NewTable() *Table {
	return &Table{bindings: make(map[descriptor.Descriptor]Binding)}
}

func (t *Table) Put(b Binding) {
	if _, exists := t.bindings[b.Descriptor]; !exists {
		t.order = append(t.order, b.Descriptor)
	}
	t.bindings[b.Descriptor] = b
}

func (t *Table) Lookup(d descriptor.Descriptor) (Binding, bool) {
	b, ok := t.bindings[d]
	return b, ok
}

func (t *Table) Len() int { return len(t.bindings) }

// Descriptors returns bound descriptors in first-registration order.
func (t *Table) Descriptors() []descriptor.Descriptor {
	out := make([]descriptor.Descriptor, len(t.order))
	copy(out, t.order)
	return out
}

// Clone returns an independent copy, so built adapters are unaffected by
// later registrations on the builder.
func (t *Table) Clone() *Table {
	c := &Table{
		bindings: make(map[descriptor.Descriptor]Binding, len(t.bindings)),
		order:    make([]descriptor.Descriptor, len(t.order)),
	}
	for k, v := range t.bindings {
		c.bindings[k] = v
	}
	copy(c.order, t.order)
	return c
}
