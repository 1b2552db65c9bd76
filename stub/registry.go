// Package stub keeps the interface stubs that turn a dispatch engine into a
// value of the target interface type.
package stub

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/wippyai/duckwings"
	"github.com/wippyai/duckwings/errors"
)

// Registry maps interface types to stub constructors.
// Registry is safe for concurrent use.
type Registry struct {
	ctors map[reflect.Type]func(duckwings.Stub) any
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		ctors: make(map[reflect.Type]func(duckwings.Stub) any),
	}
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry used by factories that were
// not given one.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register adds the stub constructor for interface I. A later registration
// for the same interface replaces the earlier one.
func Register[I any](r *Registry, ctor func(duckwings.Stub) I) error {
	iface := reflect.TypeFor[I]()
	if iface.Kind() != reflect.Interface {
		return errors.New(errors.PhaseStub, errors.KindInvalidArgument).
			GoType(iface.String()).
			Detail("stubs can only be registered for interface types").
			Build()
	}
	if ctor == nil {
		return errors.InvalidArgument(errors.PhaseStub, "stub constructor cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[iface] = func(s duckwings.Stub) any { return ctor(s) }
	return nil
}

// MustRegister is like Register but panics on error. Intended for package
// init blocks.
func MustRegister[I any](r *Registry, ctor func(duckwings.Stub) I) {
	if err := Register(r, ctor); err != nil {
		panic(err)
	}
}

// Has reports whether a stub is registered for iface.
func (r *Registry) Has(iface reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[iface]
	return ok
}

// Interfaces returns the registered interface types sorted by name.
func (r *Registry) Interfaces() []reflect.Type {
	r.mu.RLock()
	out := make([]reflect.Type, 0, len(r.ctors))
	for t := range r.ctors {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Materialize builds the stub for iface around inv. The stub must embed
// duckwings.Stub so adapters can be unwrapped.
func (r *Registry) Materialize(iface reflect.Type, inv duckwings.Invoker) (any, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[iface]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.StubMissing(iface.String())
	}

	v := ctor(duckwings.NewStub(inv))
	if _, ok := duckwings.InvokerOf(v); !ok {
		return nil, errors.New(errors.PhaseStub, errors.KindInvalidArgument).
			GoType(fmt.Sprintf("%T", v)).
			Detail("stub does not embed duckwings.Stub").
			Build()
	}
	return v, nil
}

// New materializes the stub for I around inv.
func New[I any](r *Registry, inv duckwings.Invoker) (I, error) {
	var zero I
	v, err := r.Materialize(reflect.TypeFor[I](), inv)
	if err != nil {
		return zero, err
	}
	return v.(I), nil
}
