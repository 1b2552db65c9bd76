package adapter

import (
	"fmt"
	"reflect"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/duckwings"
	"github.com/wippyai/duckwings/binding"
	"github.com/wippyai/duckwings/descriptor"
	"github.com/wippyai/duckwings/dispatch"
	"github.com/wippyai/duckwings/errors"
	"github.com/wippyai/duckwings/resolve"
)

// Secondary is a declarative builder whose bindings serve secondary
// delegates of its delegate type.
type Secondary interface {
	Err() error
	ownErr() error
	delegateType() reflect.Type
	bindings() *binding.Table
	methods() *descriptor.Set
}

// DeclarativeBuilder adapts delegates of type D to I through explicit
// bindings. Methods without a binding are unresolved on the primary; they
// may still be answered by secondaries or the fallback.
//
// Registration errors accumulate and are reported by Err, Build and Wrap.
// A builder is not safe for concurrent configuration.
type DeclarativeBuilder[I, D any] struct {
	f           *Factory
	set         *descriptor.Set
	rec         *binding.Recorder
	fallback    any
	secondaries []Secondary
	err         error
}

// Declarative creates a declarative builder for interface I over
// delegates of type D. A nil factory uses the default configuration.
func Declarative[I, D any](f *Factory) *DeclarativeBuilder[I, D] {
	if f == nil {
		f = New()
	}
	b := &DeclarativeBuilder[I, D]{f: f}
	set, err := descriptor.For[I]()
	if err != nil {
		b.err = err
		return b
	}
	b.set = set
	b.rec = binding.NewRecorder(set, reflect.TypeFor[D](), f.registry())
	return b
}

// Bind binds the method called by selector to impl. selector is a method
// expression such as Lener.Len or a func(I, ...) calling one method; impl
// takes the delegate followed by the method's parameters.
func (b *DeclarativeBuilder[I, D]) Bind(selector, impl any) *DeclarativeBuilder[I, D] {
	if b.rec == nil {
		return b
	}
	return b.record(b.rec.Bind(selector, impl))
}

// BindName binds the method called name to impl.
func (b *DeclarativeBuilder[I, D]) BindName(name string, impl any) *DeclarativeBuilder[I, D] {
	if b.rec == nil {
		return b
	}
	return b.record(b.rec.BindName(name, impl))
}

func (b *DeclarativeBuilder[I, D]) record(err error) *DeclarativeBuilder[I, D] {
	if err != nil {
		b.f.logger().Debug("binding rejected", zap.Error(err))
		b.err = multierr.Append(b.err, err)
	}
	return b
}

// Fallback sets the adapter that receives calls no delegate can answer.
// x is a builder for I (applied to the same delegates when building), an
// engine from Build, or a value returned by Wrap.
func (b *DeclarativeBuilder[I, D]) Fallback(x any) *DeclarativeBuilder[I, D] {
	if x == nil {
		b.fallback = nil
		return b
	}
	if err := b.validFallback(x); err != nil {
		b.err = multierr.Append(b.err, err)
		return b
	}
	b.fallback = x
	return b
}

func (b *DeclarativeBuilder[I, D]) validFallback(x any) error {
	bad := func(detail string, args ...any) error {
		return errors.New(errors.PhaseBuild, errors.KindInvalidArgument).
			GoType(fmt.Sprintf("%T", x)).
			Detail(detail, args...).
			Build()
	}

	switch v := x.(type) {
	case fallbackBuilder:
		if any(v) == any(b) {
			return bad("builder cannot be its own fallback")
		}
		if b.set != nil && v.methods() != b.set {
			return bad("fallback builder adapts a different interface than %s", b.set.Name())
		}
		if b.reachedFrom(v) {
			return bad("fallback cycle: the fallback chain leads back to this builder")
		}
	case *dispatch.Engine:
		if b.set != nil && v.Interface() != b.set.Interface() {
			return bad("fallback engine adapts %s, not %s", v.Interface(), b.set.Name())
		}
	default:
		inv, ok := duckwings.InvokerOf(x)
		if !ok {
			return bad("fallback must be an adapter, engine or builder")
		}
		if e, ok := inv.(*dispatch.Engine); ok && b.set != nil && e.Interface() != b.set.Interface() {
			return bad("fallback adapter adapts %s, not %s", e.Interface(), b.set.Name())
		}
	}
	return nil
}

// reachedFrom reports whether following fallbacks from fb arrives at b.
func (b *DeclarativeBuilder[I, D]) reachedFrom(fb fallbackBuilder) bool {
	seen := make(map[fallbackBuilder]bool)
	for fb != nil && !seen[fb] {
		if any(fb) == any(b) {
			return true
		}
		seen[fb] = true
		fb, _ = fb.nextFallback().(fallbackBuilder)
	}
	return false
}

// WithSecondary registers builders whose bindings apply to secondary
// delegates assignable to their delegate type. The first matching builder
// wins; unmatched secondaries are resolved structurally.
func (b *DeclarativeBuilder[I, D]) WithSecondary(builders ...Secondary) *DeclarativeBuilder[I, D] {
	for _, s := range builders {
		if s == nil {
			continue
		}
		if b.set != nil && s.methods() != b.set {
			b.err = multierr.Append(b.err, errors.New(errors.PhaseBuild, errors.KindInvalidArgument).
				GoType(fmt.Sprintf("%T", s)).
				Detail("secondary builder adapts a different interface than %s", b.set.Name()).
				Build())
			continue
		}
		b.secondaries = append(b.secondaries, s)
	}
	return b
}

// Err returns the accumulated configuration errors, including those of
// the builders registered with WithSecondary.
func (b *DeclarativeBuilder[I, D]) Err() error {
	err := b.err
	for _, s := range b.secondaries {
		err = multierr.Append(err, s.ownErr())
	}
	return err
}

func (b *DeclarativeBuilder[I, D]) ownErr() error { return b.err }

// Wrap returns a value of I routing to primary's bindings, then to
// secondaries in order, then to the fallback.
func (b *DeclarativeBuilder[I, D]) Wrap(primary D, secondaries ...any) (I, error) {
	e, err := b.Build(primary, secondaries...)
	if err != nil {
		var zero I
		return zero, err
	}
	return materialize[I](b.f, e)
}

// Build returns the dispatch engine without materializing a stub.
func (b *DeclarativeBuilder[I, D]) Build(primary D, secondaries ...any) (*dispatch.Engine, error) {
	return b.engine(primary, secondaries, true)
}

// Inspect reports how each method of I would resolve. The construction
// handler is not consulted.
func (b *DeclarativeBuilder[I, D]) Inspect(primary D, secondaries ...any) (dispatch.Report, error) {
	e, err := b.engine(primary, secondaries, false)
	if err != nil {
		return dispatch.Report{}, err
	}
	return e.Report(), nil
}

// Unwrap returns the primary delegate of x.
func (b *DeclarativeBuilder[I, D]) Unwrap(x I) (D, error) {
	var zero D
	v, err := Unwrap(x)
	if err != nil {
		return zero, err
	}
	d, ok := v.(D)
	if !ok {
		return zero, errors.New(errors.PhaseUnwrap, errors.KindInvalidArgument).
			GoType(fmt.Sprintf("%T", v)).
			Detail("delegate is not a %s", reflect.TypeFor[D]()).
			Build()
	}
	return d, nil
}

func (b *DeclarativeBuilder[I, D]) engine(primary D, secondaries []any, check bool) (*dispatch.Engine, error) {
	if err := b.Err(); err != nil {
		return nil, err
	}
	if err := checkDelegates(any(primary), secondaries); err != nil {
		return nil, err
	}

	r := b.f.resolver()
	sources := make([]dispatch.Source, len(secondaries))
	for i, s := range secondaries {
		sources[i] = b.secondarySource(s, r)
	}

	fallback, err := b.fallbackInvoker(primary, secondaries)
	if err != nil {
		return nil, err
	}

	primarySource := dispatch.NewBindingSource(primary, b.rec.Table().Clone())
	return b.f.assemble(b.set, primarySource, sources, fallback, check)
}

func (b *DeclarativeBuilder[I, D]) secondarySource(s any, r *resolve.Resolver) dispatch.Source {
	t := reflect.TypeOf(s)
	for _, sb := range b.secondaries {
		if t.AssignableTo(sb.delegateType()) {
			return dispatch.NewBindingSource(s, sb.bindings().Clone())
		}
	}
	return dispatch.NewStructuralSource(s, r)
}

func (b *DeclarativeBuilder[I, D]) fallbackInvoker(primary D, secondaries []any) (duckwings.Invoker, error) {
	switch v := b.fallback.(type) {
	case nil:
		return nil, nil
	case fallbackBuilder:
		return v.fallbackEngine(primary, secondaries)
	default:
		inv, _ := duckwings.InvokerOf(v)
		return inv, nil
	}
}

func (b *DeclarativeBuilder[I, D]) fallbackEngine(primary any, secondaries []any) (*dispatch.Engine, error) {
	p, ok := primary.(D)
	if !ok {
		return nil, errors.New(errors.PhaseBuild, errors.KindInvalidArgument).
			GoType(fmt.Sprintf("%T", primary)).
			Detail("fallback builder expects a %s delegate", reflect.TypeFor[D]()).
			Build()
	}
	return b.Build(p, secondaries...)
}

func (b *DeclarativeBuilder[I, D]) nextFallback() any { return b.fallback }

func (b *DeclarativeBuilder[I, D]) delegateType() reflect.Type { return reflect.TypeFor[D]() }

func (b *DeclarativeBuilder[I, D]) bindings() *binding.Table {
	if b.rec == nil {
		return binding.NewTable()
	}
	return b.rec.Table()
}

func (b *DeclarativeBuilder[I, D]) methods() *descriptor.Set { return b.set }
