package descriptor

import (
	"reflect"
	"strings"
	"sync"

	"github.com/wippyai/duckwings/errors"
)

// Descriptor identifies one interface method: its name and its signature
// without receiver. Func types are canonical in Go, so two descriptors are
// equal (==) exactly when name, parameter types, variadic flag and result
// types all match. Descriptor is comparable and used as a map key.
type Descriptor struct {
	Func reflect.Type
	Name string
}

// New builds a descriptor from explicit parameter and result types.
// New panics like reflect.FuncOf when variadic is set and the last
// parameter is not a slice.
func New(name string, in, out []reflect.Type, variadic bool) Descriptor {
	return Descriptor{Name: name, Func: reflect.FuncOf(in, out, variadic)}
}

// FromMethod converts a reflect.Method into a descriptor.
// Methods of concrete types carry their receiver as the first parameter,
// it is dropped so the result compares equal to the interface method.
func FromMethod(m reflect.Method) Descriptor {
	if !m.Func.IsValid() {
		return Descriptor{Name: m.Name, Func: m.Type}
	}

	ft := m.Type
	in := make([]reflect.Type, 0, ft.NumIn()-1)
	for i := 1; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i))
	}
	out := make([]reflect.Type, 0, ft.NumOut())
	for i := 0; i < ft.NumOut(); i++ {
		out = append(out, ft.Out(i))
	}
	return New(m.Name, in, out, ft.IsVariadic())
}

func (d Descriptor) NumIn() int { return d.Func.NumIn() }
func (d Descriptor) In(i int) reflect.Type { return d.Func.In(i) }
func (d Descriptor) NumOut() int { return d.Func.NumOut() }
func (d Descriptor) Out(i int) reflect.Type { return d.Func.Out(i) }
func (d Descriptor) IsVariadic() bool { return d.Func.IsVariadic() }
func (d Descriptor) IsZero() bool { return d.Func == nil }
func (d Descriptor) Params() []reflect.Type { return types(d.Func.NumIn(), d.Func.In) }
func (d Descriptor) Results() []reflect.Type { return types(d.Func.NumOut(), d.Func.Out) }

var errorType = reflect.TypeFor[error]()

// ReturnsError reports whether the last result is the error interface.
func (d Descriptor) ReturnsError() bool {
	n := d.Func.NumOut()
	return n > 0 && d.Func.Out(n-1) == errorType
}

// MatchesParams reports whether fn (a method type with receiver when
// receiver is true) takes exactly the descriptor's parameters.
// Results are deliberately ignored.
func (d Descriptor) MatchesParams(fn reflect.Type, receiver bool) bool {
	off := 0
	if receiver {
		off = 1
	}
	if fn.NumIn()-off != d.Func.NumIn() || fn.IsVariadic() != d.Func.IsVariadic() {
		return false
	}
	for i := 0; i < d.Func.NumIn(); i++ {
		if fn.In(i+off) != d.Func.In(i) {
			return false
		}
	}
	return true
}

// String renders the method like Go source: "Write([]uint8) (int, error)".
func (d Descriptor) String() string {
	if d.Func == nil {
		return d.Name + "()"
	}
	return d.Name + strings.TrimPrefix(d.Func.String(), "func")
}

func types(n int, at func(int) reflect.Type) []reflect.Type {
	out := make([]reflect.Type, n)
	for i := range out {
		out[i] = at(i)
	}
	return out
}

// Set holds the descriptors of one interface type in reflect method order.
type Set struct {
	iface reflect.Type
	index map[string]int
	list  []Descriptor
}

var sets sync.Map // reflect.Type -> *Set

// SetOf returns the descriptor set of an interface type.
// Sets are computed once per type and shared.
func SetOf(iface reflect.Type) (*Set, error) {
	if iface == nil {
		return nil, errors.InvalidArgument(errors.PhaseBuild, "interface type cannot be nil")
	}
	if iface.Kind() != reflect.Interface {
		return nil, errors.New(errors.PhaseBuild, errors.KindInvalidArgument).
			GoType(iface.String()).
			Detail("not an interface type").
			Build()
	}

	if cached, ok := sets.Load(iface); ok {
		return cached.(*Set), nil
	}

	s := &Set{
		iface: iface,
		index: make(map[string]int, iface.NumMethod()),
		list:  make([]Descriptor, 0, iface.NumMethod()),
	}
	for i := 0; i < iface.NumMethod(); i++ {
		d := FromMethod(iface.Method(i))
		s.index[d.Name] = len(s.list)
		s.list = append(s.list, d)
	}

	actual, _ := sets.LoadOrStore(iface, s)
	return actual.(*Set), nil
}

// For returns the descriptor set of interface type I.
func For[I any]() (*Set, error) {
	return SetOf(reflect.TypeFor[I]())
}

// Interface returns the interface type the set describes.
func (s *Set) Interface() reflect.Type { return s.iface }

// Name returns the interface's Go name, e.g. "io.Writer".
func (s *Set) Name() string { return s.iface.String() }

func (s *Set) Len() int { return len(s.list) }

func (s *Set) At(i int) Descriptor { return s.list[i] }

// All returns a copy of the descriptors in method order.
func (s *Set) All() []Descriptor {
	out := make([]Descriptor, len(s.list))
	copy(out, s.list)
	return out
}

// Lookup finds a descriptor by method name.
func (s *Set) Lookup(name string) (Descriptor, bool) {
	i, ok := s.index[name]
	if !ok {
		return Descriptor{}, false
	}
	return s.list[i], true
}

// Contains reports whether d is one of the interface's methods.
func (s *Set) Contains(d Descriptor) bool {
	got, ok := s.Lookup(d.Name)
	return ok && got == d
}
