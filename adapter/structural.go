package adapter

import (
	"github.com/wippyai/duckwings/descriptor"
	"github.com/wippyai/duckwings/dispatch"
)

// StructuralBuilder adapts delegates to I by matching method signatures.
type StructuralBuilder[I any] struct {
	f   *Factory
	set *descriptor.Set
	err error
}

// Structural creates a structural builder for interface I.
// A nil factory uses the default configuration.
func Structural[I any](f *Factory) *StructuralBuilder[I] {
	if f == nil {
		f = New()
	}
	set, err := descriptor.For[I]()
	return &StructuralBuilder[I]{f: f, set: set, err: err}
}

// Wrap returns a value of I routing to primary, then to secondaries in
// order.
func (b *StructuralBuilder[I]) Wrap(primary any, secondaries ...any) (I, error) {
	e, err := b.Build(primary, secondaries...)
	if err != nil {
		var zero I
		return zero, err
	}
	return materialize[I](b.f, e)
}

// Build returns the dispatch engine without materializing a stub.
func (b *StructuralBuilder[I]) Build(primary any, secondaries ...any) (*dispatch.Engine, error) {
	return b.engine(primary, secondaries, true)
}

// Inspect reports how each method of I would resolve. The construction
// handler is not consulted.
func (b *StructuralBuilder[I]) Inspect(primary any, secondaries ...any) (dispatch.Report, error) {
	e, err := b.engine(primary, secondaries, false)
	if err != nil {
		return dispatch.Report{}, err
	}
	return e.Report(), nil
}

// Unwrap returns the primary delegate of x.
func (b *StructuralBuilder[I]) Unwrap(x I) (any, error) {
	return Unwrap(x)
}

func (b *StructuralBuilder[I]) engine(primary any, secondaries []any, check bool) (*dispatch.Engine, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := checkDelegates(primary, secondaries); err != nil {
		return nil, err
	}

	r := b.f.resolver()
	sources := make([]dispatch.Source, len(secondaries))
	for i, s := range secondaries {
		sources[i] = dispatch.NewStructuralSource(s, r)
	}
	return b.f.assemble(b.set, dispatch.NewStructuralSource(primary, r), sources, nil, check)
}

func (b *StructuralBuilder[I]) fallbackEngine(primary any, secondaries []any) (*dispatch.Engine, error) {
	return b.Build(primary, secondaries...)
}

func (b *StructuralBuilder[I]) nextFallback() any { return nil }

func (b *StructuralBuilder[I]) methods() *descriptor.Set { return b.set }
