package adapter

import (
	"go.uber.org/zap"

	"github.com/wippyai/duckwings/descriptor"
	"github.com/wippyai/duckwings/dispatch"
	"github.com/wippyai/duckwings/errors"
	"github.com/wippyai/duckwings/resolve"
	"github.com/wippyai/duckwings/stub"
)

// Factory holds the configuration shared by the adapters it builds.
// Configure a factory before building from it; builders read the
// configuration when they build.
type Factory struct {
	onConstruction dispatch.Handler
	onRuntime      dispatch.Handler
	cache          *resolve.Cache
	stubs          *stub.Registry
	log            *zap.Logger
}

// New creates a factory with the default policy: nothing fails at
// construction and unresolved methods return zero values.
func New() *Factory {
	return &Factory{}
}

// OnMissingAtConstruction sets the handler consulted while building, for
// the first method no delegate provides. A non-nil error aborts the build.
func (f *Factory) OnMissingAtConstruction(h func(descriptor.Descriptor) error) *Factory {
	f.onConstruction = h
	return f
}

// OnMissingAtRuntime sets the handler consulted when a call is unresolved
// or its target fails. Its error is returned to the caller as is.
func (f *Factory) OnMissingAtRuntime(h func(descriptor.Descriptor) error) *Factory {
	f.onRuntime = h
	return f
}

// WithCache sets the resolution cache. nil selects resolve.Shared.
func (f *Factory) WithCache(c *resolve.Cache) *Factory {
	f.cache = c
	return f
}

// WithStubs sets the stub registry. nil selects stub.Default.
func (f *Factory) WithStubs(r *stub.Registry) *Factory {
	f.stubs = r
	return f
}

// WithLogger sets the logger for this factory's builders and engines.
func (f *Factory) WithLogger(l *zap.Logger) *Factory {
	f.log = l
	return f
}

// Unwrap returns the primary delegate behind an adapter.
func (f *Factory) Unwrap(x any) (any, error) {
	return Unwrap(x)
}

func (f *Factory) logger() *zap.Logger {
	if f.log != nil {
		return f.log
	}
	return Logger()
}

func (f *Factory) registry() *stub.Registry {
	if f.stubs != nil {
		return f.stubs
	}
	return stub.Default()
}

func (f *Factory) resolver() *resolve.Resolver {
	return resolve.NewResolver(f.cache)
}

// FailAtConstruction is a construction handler that rejects every
// unresolved method.
func FailAtConstruction(d descriptor.Descriptor) error {
	return errors.ConstructionUnresolved(d.String())
}

// FailAtRuntime is a runtime handler that fails every unresolved call.
func FailAtRuntime(d descriptor.Descriptor) error {
	return errors.RuntimeUnresolved(d.String())
}
