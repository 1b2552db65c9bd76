package adapter

import (
	"github.com/wippyai/duckwings"
	"github.com/wippyai/duckwings/dispatch"
	"github.com/wippyai/duckwings/errors"
)

// Unwrap returns the primary delegate of an adapter built by this package,
// either the interface value from Wrap or the engine from Build.
// Any other value yields an invalid_argument error.
func Unwrap(x any) (any, error) {
	if e := engineOf(x); e != nil {
		return e.Primary(), nil
	}
	return nil, errors.NotAdapter(x)
}

func engineOf(x any) *dispatch.Engine {
	inv, ok := duckwings.InvokerOf(x)
	if !ok {
		return nil
	}
	e, _ := inv.(*dispatch.Engine)
	return e
}
