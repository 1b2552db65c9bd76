package adapter

import (
	"go.uber.org/zap"

	"github.com/wippyai/duckwings"
	"github.com/wippyai/duckwings/descriptor"
	"github.com/wippyai/duckwings/dispatch"
	"github.com/wippyai/duckwings/errors"
	"github.com/wippyai/duckwings/stub"
)

// fallbackBuilder is a builder that can produce a fallback adapter over
// the delegates of the adapter it backs.
type fallbackBuilder interface {
	fallbackEngine(primary any, secondaries []any) (*dispatch.Engine, error)
	// nextFallback is the fallback the builder itself was given, if any.
	nextFallback() any
	methods() *descriptor.Set
}

// assemble creates the engine and runs the construction check.
func (f *Factory) assemble(set *descriptor.Set, primary dispatch.Source, secondaries []dispatch.Source, fallback duckwings.Invoker, check bool) (*dispatch.Engine, error) {
	e, err := dispatch.New(dispatch.Config{
		Methods:     set,
		Primary:     primary,
		Secondaries: secondaries,
		Fallback:    fallback,
		OnMissing:   f.onRuntime,
		Logger:      f.log,
	})
	if err != nil {
		return nil, err
	}

	if check {
		if err := e.Check(f.onConstruction); err != nil {
			f.logger().Debug("adapter rejected",
				zap.String("interface", set.Name()),
				zap.Error(err))
			return nil, err
		}
	}

	f.logger().Debug("adapter built",
		zap.String("engine", e.ID().String()),
		zap.String("interface", set.Name()),
		zap.String("primary", primary.Kind()),
		zap.Int("secondaries", len(secondaries)),
		zap.Bool("fallback", fallback != nil))
	return e, nil
}

// materialize turns an engine into a value of interface I.
func materialize[I any](f *Factory, e *dispatch.Engine) (I, error) {
	return stub.New[I](f.registry(), e)
}

func checkDelegates(primary any, secondaries []any) error {
	if primary == nil {
		return errors.InvalidArgument(errors.PhaseBuild, "primary delegate cannot be nil")
	}
	for i, s := range secondaries {
		if s == nil {
			return errors.New(errors.PhaseBuild, errors.KindInvalidArgument).
				Detail("secondary delegate %d is nil", i).
				Build()
		}
	}
	return nil
}
