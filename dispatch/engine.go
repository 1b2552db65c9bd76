package dispatch

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/duckwings"
	"github.com/wippyai/duckwings/defaults"
	"github.com/wippyai/duckwings/descriptor"
	"github.com/wippyai/duckwings/errors"
)

// Handler decides the error raised for an unresolved method.
// Returning nil selects the default behaviour (zero results).
type Handler func(d descriptor.Descriptor) error

// Config assembles an Engine.
type Config struct {
	// Methods is the descriptor set of the target interface.
	Methods *descriptor.Set
	Primary Source
	// Secondaries are consulted in order when Primary has no target.
	Secondaries []Source
	// Fallback receives the whole call when no source has a target.
	// Its answer, including its error, is final.
	Fallback duckwings.Invoker
	// OnMissing is the runtime policy for unresolved and failed calls.
	OnMissing Handler
	Logger    *zap.Logger
}

// Engine routes interface calls to delegates.
// Engine is immutable after New and safe for concurrent use.
type Engine struct {
	set         *descriptor.Set
	primary     Source
	secondaries []Source
	fallback    duckwings.Invoker
	onMissing   Handler
	log         *zap.Logger
	id          uuid.UUID
}

// New creates an engine from cfg.
func New(cfg Config) (*Engine, error) {
	if cfg.Methods == nil {
		return nil, errors.InvalidArgument(errors.PhaseBuild, "interface descriptor set cannot be nil")
	}
	if cfg.Primary == nil {
		return nil, errors.InvalidArgument(errors.PhaseBuild, "primary source cannot be nil")
	}

	id := uuid.New()
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}

	secondaries := make([]Source, len(cfg.Secondaries))
	copy(secondaries, cfg.Secondaries)

	return &Engine{
		id:          id,
		set:         cfg.Methods,
		primary:     cfg.Primary,
		secondaries: secondaries,
		fallback:    cfg.Fallback,
		onMissing:   cfg.OnMissing,
		log: log.With(
			zap.String("engine", id.String()),
			zap.String("interface", cfg.Methods.Name()),
		),
	}, nil
}

// ID identifies the engine in logs.
func (e *Engine) ID() uuid.UUID { return e.id }

// Interface returns the adapted interface type.
func (e *Engine) Interface() reflect.Type { return e.set.Interface() }

// Methods returns the descriptor set of the adapted interface.
func (e *Engine) Methods() *descriptor.Set { return e.set }

// Primary returns the primary delegate.
func (e *Engine) Primary() any { return e.primary.Delegate() }

// Secondaries returns the secondary delegates in search order.
func (e *Engine) Secondaries() []any {
	out := make([]any, len(e.secondaries))
	for i, s := range e.secondaries {
		out[i] = s.Delegate()
	}
	return out
}

// HasFallback reports whether a fallback adapter is configured.
func (e *Engine) HasFallback() bool { return e.fallback != nil }

// Check verifies that every interface method has a target in the primary
// or a secondary delegate. The fallback is not consulted. For the first
// method without one, handler decides: a non-nil error aborts construction.
func (e *Engine) Check(handler Handler) error {
	if handler == nil {
		return nil
	}
	for _, d := range e.set.All() {
		if _, _, ok := e.locate(d); ok {
			continue
		}
		if err := handler(d); err != nil {
			e.log.Debug("construction check failed",
				zap.String("method", d.String()),
				zap.Error(err))
			return err
		}
	}
	return nil
}

// Invoke implements duckwings.Invoker for interface stubs.
// A failure is returned in the trailing error result when the method has
// one, otherwise Invoke panics with it.
func (e *Engine) Invoke(method string, args ...any) []any {
	out, err := e.Call(method, args...)
	if err == nil {
		return out
	}

	d, ok := e.set.Lookup(method)
	if !ok || !d.ReturnsError() {
		panic(err)
	}
	if len(out) != d.NumOut() {
		out = toAny(defaults.Results(d))
	}
	out[len(out)-1] = err
	return out
}

// Call dispatches the named method. args hold one value per parameter;
// a variadic parameter is passed as its slice. nil arguments become zero
// values.
func (e *Engine) Call(method string, args ...any) ([]any, error) {
	oc, err := e.Trace(method, args...)
	if err != nil {
		return nil, err
	}
	return oc.Results, oc.Err
}

// Trace dispatches like Call and reports the path the call took.
// The returned error is set only when the call could not start: unknown
// method or unusable arguments.
func (e *Engine) Trace(method string, args ...any) (Outcome, error) {
	d, ok := e.set.Lookup(method)
	if !ok {
		return Outcome{}, errors.NotFound(errors.PhaseDispatch, e.set.Name(), method)
	}
	in, err := convertArgs(d, args)
	if err != nil {
		return Outcome{}, err
	}

	out, oc := e.dispatch(d, in)
	oc.Results = toAny(out)
	return oc, nil
}

// CallDescriptor dispatches d with already converted arguments.
func (e *Engine) CallDescriptor(d descriptor.Descriptor, args []reflect.Value) ([]reflect.Value, error) {
	if !e.set.Contains(d) {
		return nil, errors.NotFound(errors.PhaseDispatch, e.set.Name(), d.String())
	}
	out, oc := e.dispatch(d, args)
	return out, oc.Err
}

func (e *Engine) dispatch(d descriptor.Descriptor, in []reflect.Value) ([]reflect.Value, Outcome) {
	oc := Outcome{Method: d.String(), Source: SourceNone}

	oc.step(StateResolvePrimary)
	target, ok := e.primary.Lookup(d)
	src := SourcePrimary
	if !ok && len(e.secondaries) > 0 {
		oc.step(StateResolveSecondaries)
		for i, s := range e.secondaries {
			if t, found := s.Lookup(d); found {
				target, src, ok = t, i+1, true
				break
			}
		}
	}

	if ok {
		oc.Source = src
		oc.Target = target.String()
		oc.step(StateInvoke)
		out, err := invoke(d, target, in)
		if err == nil {
			oc.step(StateSucceeded)
			return out, oc
		}
		oc.Cause = err
		oc.step(StateInvocationFailed)
		e.log.Debug("invocation failed",
			zap.String("method", oc.Method),
			zap.String("target", oc.Target),
			zap.Error(err))
		return e.failure(d, &oc)
	}

	if e.fallback != nil {
		oc.step(StateResolveFallback)
		oc.Source = SourceFallback
		oc.Forwarded = true
		e.log.Debug("forwarding to fallback", zap.String("method", oc.Method))

		raw, err := e.forward(d, in)
		if err != nil {
			// The fallback ended the call with its own error.
			oc.Err = err
			oc.FallbackFailed = true
			oc.step(StateSucceeded)
			return defaults.Results(d), oc
		}
		out, err := shapeForwarded(d, raw)
		if err != nil {
			oc.Cause = err
			oc.Err = err
			oc.step(StateInvocationFailed)
			e.log.Debug("invocation failed",
				zap.String("method", oc.Method),
				zap.String("target", "fallback"),
				zap.Error(err))
			return out, oc
		}
		oc.step(StateSucceeded)
		return out, oc
	}

	oc.step(StateUnresolved)
	e.log.Debug("method unresolved", zap.String("method", oc.Method))
	return e.failure(d, &oc)
}

// failure applies the runtime policy shared by unresolved and failed calls.
func (e *Engine) failure(d descriptor.Descriptor, oc *Outcome) ([]reflect.Value, Outcome) {
	out := defaults.Results(d)
	if e.onMissing != nil {
		oc.Err = e.onMissing(d)
	}
	return out, *oc
}

func (e *Engine) locate(d descriptor.Descriptor) (Target, int, bool) {
	if t, ok := e.primary.Lookup(d); ok {
		return t, SourcePrimary, true
	}
	for i, s := range e.secondaries {
		if t, ok := s.Lookup(d); ok {
			return t, i + 1, true
		}
	}
	return Target{}, SourceNone, false
}

// forward hands the call to the fallback adapter. Engines are called
// directly so their error comes back as a value; other invokers raise
// failures in a trailing error result or by panic.
func (e *Engine) forward(d descriptor.Descriptor, in []reflect.Value) ([]any, error) {
	args := toAny(in)
	if fe, ok := e.fallback.(*Engine); ok {
		return fe.Call(d.Name, args...)
	}
	return invokeFallback(e.fallback, d, args)
}

// shapeForwarded fits the fallback's answer to d.
func shapeForwarded(d descriptor.Descriptor, raw []any) ([]reflect.Value, error) {
	vals := make([]reflect.Value, len(raw))
	for i, r := range raw {
		if r != nil {
			vals[i] = reflect.ValueOf(r)
		}
	}
	out, err := d.ShapeResults(vals)
	if err != nil {
		return defaults.Results(d), errors.InvocationFailed(d.String(), err)
	}
	return out, nil
}

func invokeFallback(inv duckwings.Invoker, d descriptor.Descriptor, args []any) (out []any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicError(p)
		}
	}()
	out = inv.Invoke(d.Name, args...)
	if d.ReturnsError() && len(out) == d.NumOut() {
		if fe, ok := out[len(out)-1].(error); ok && fe != nil {
			return out, fe
		}
	}
	return out, nil
}

// invoke runs a located target and shapes its results. Panics raised by
// the target become invocation failures.
func invoke(d descriptor.Descriptor, t Target, in []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, errors.InvocationFailed(d.String(), panicError(p))
		}
	}()

	raw, err := t.Call(in)
	if err != nil {
		return nil, errors.InvocationFailed(d.String(), err)
	}
	out, err = d.ShapeResults(raw)
	if err != nil {
		return nil, errors.InvocationFailed(d.String(), err)
	}
	return out, nil
}

func panicError(p any) error {
	if err, ok := p.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", p)
}

// convertArgs turns Call arguments into values of the parameter types.
func convertArgs(d descriptor.Descriptor, args []any) ([]reflect.Value, error) {
	if len(args) != d.NumIn() {
		return nil, errors.New(errors.PhaseDispatch, errors.KindInvalidArgument).
			Method(d.String()).
			Detail("expected %d arguments, got %d", d.NumIn(), len(args)).
			Build()
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		want := d.In(i)
		if a == nil {
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(a)
		if !v.Type().AssignableTo(want) {
			return nil, errors.New(errors.PhaseDispatch, errors.KindInvalidArgument).
				Method(d.String()).
				GoType(v.Type().String()).
				Detail("argument %d: cannot use %s as %s", i, v.Type(), want).
				Build()
		}
		in[i] = v
	}
	return in, nil
}

func toAny(vals []reflect.Value) []any {
	if vals == nil {
		return nil
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		if v.IsValid() && v.CanInterface() {
			out[i] = v.Interface()
		}
	}
	return out
}
