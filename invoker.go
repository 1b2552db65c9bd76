package duckwings

// Invoker receives every call made on an adapter's interface stub.
// Invoke returns one value per interface method result; unresolved results
// are zero values. A failure that cannot be returned through a trailing
// error result is raised with panic.
type Invoker interface {
	Invoke(method string, args ...any) []any
}

// Stub is embedded by interface stubs. A stub forwards each interface
// method to Invoke:
//
//	type lenerStub struct{ duckwings.Stub }
//
//	func (s lenerStub) Len() int {
//		return duckwings.Result1[int](s.Invoke("Len"))
//	}
type Stub struct {
	Invoker
}

// NewStub wraps inv for embedding.
func NewStub(inv Invoker) Stub {
	return Stub{Invoker: inv}
}

func (s Stub) stubInvoker() Invoker { return s.Invoker }

type stubbed interface {
	stubInvoker() Invoker
}

// InvokerOf returns the Invoker behind a stub value, or v itself when v is
// an Invoker.
func InvokerOf(v any) (Invoker, bool) {
	switch x := v.(type) {
	case stubbed:
		inv := x.stubInvoker()
		return inv, inv != nil
	case Invoker:
		return x, true
	}
	return nil, false
}

// Result0 consumes the results of a method without results.
func Result0(out []any) {}

// Result1 converts the single result of a method.
func Result1[T any](out []any) T {
	return at[T](out, 0)
}

// Result2 converts the results of a two-result method.
func Result2[T, U any](out []any) (T, U) {
	return at[T](out, 0), at[U](out, 1)
}

// Result3 converts the results of a three-result method.
func Result3[T, U, V any](out []any) (T, U, V) {
	return at[T](out, 0), at[U](out, 1), at[V](out, 2)
}

func at[T any](out []any, i int) T {
	var zero T
	if i >= len(out) || out[i] == nil {
		return zero
	}
	return out[i].(T)
}
