package dispatch

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/duckwings/binding"
	"github.com/wippyai/duckwings/descriptor"
	"github.com/wippyai/duckwings/errors"
	"github.com/wippyai/duckwings/resolve"
)

type sized interface {
	Len() int
	Cap() int64
	Grow(n int)
	Reset()
	Close() error
}

type closer struct{ closed bool }

func (c *closer) Close() error {
	c.closed = true
	return nil
}

type badLen struct{}

func (badLen) Len() string { return "five" }

type panicky struct{}

func (panicky) Len() int { panic("boom") }

func (panicky) Close() error { panic(stderrors.New("close failed")) }

type fixed []any

func (f fixed) Invoke(string, ...any) []any { return f }

func setOf(t *testing.T) *descriptor.Set {
	t.Helper()
	set, err := descriptor.For[sized]()
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func structural(delegate any) Source {
	return NewStructuralSource(delegate, resolve.NewResolver(resolve.NewCache()))
}

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.Methods == nil {
		cfg.Methods = setOf(t)
	}
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{Primary: structural(1)}); err == nil {
		t.Error("nil descriptor set should fail")
	}
	if _, err := New(Config{Methods: setOf(t)}); err == nil {
		t.Error("nil primary should fail")
	}
}

func TestEngineIdentity(t *testing.T) {
	buf := &bytes.Buffer{}
	c := &closer{}
	e1 := newEngine(t, Config{Primary: structural(buf), Secondaries: []Source{structural(c)}})
	e2 := newEngine(t, Config{Primary: structural(buf)})

	if e1.ID() == e2.ID() {
		t.Error("engine IDs should differ")
	}
	if e1.Primary() != buf {
		t.Error("Primary should return the delegate itself")
	}
	if s := e1.Secondaries(); len(s) != 1 || s[0] != c {
		t.Errorf("Secondaries = %v", s)
	}
	if e1.Interface() != reflect.TypeFor[sized]() {
		t.Errorf("Interface = %v", e1.Interface())
	}
	if e1.HasFallback() {
		t.Error("no fallback configured")
	}
}

func TestCallStructural(t *testing.T) {
	buf := bytes.NewBufferString("hello")
	e := newEngine(t, Config{Primary: structural(buf)})

	out, err := e.Call("Len")
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 5 {
		t.Errorf("Len = %v, want 5", out[0])
	}

	// Cap() int on the buffer is converted to the interface's int64.
	out, err = e.Call("Cap")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := out[0].(int64); !ok {
		t.Errorf("Cap result type = %T, want int64", out[0])
	}

	if _, err := e.Call("Grow", 64); err != nil {
		t.Fatal(err)
	}
	if buf.Cap() < 64 {
		t.Errorf("Grow did not reach the delegate, cap = %d", buf.Cap())
	}

	if _, err := e.Call("Reset"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Error("Reset did not reach the delegate")
	}
}

func TestCallArguments(t *testing.T) {
	e := newEngine(t, Config{Primary: structural(&bytes.Buffer{})})

	tests := []struct {
		name    string
		method  string
		args    []any
		wantErr errors.Kind
	}{
		{"nil becomes zero", "Grow", []any{nil}, ""},
		{"too few", "Grow", nil, errors.KindInvalidArgument},
		{"too many", "Len", []any{1}, errors.KindInvalidArgument},
		{"wrong type", "Grow", []any{"64"}, errors.KindInvalidArgument},
		{"unknown method", "Write", nil, errors.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Call(tt.method, tt.args...)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDispatch, Kind: tt.wantErr}) {
				t.Errorf("err = %v, want %s", err, tt.wantErr)
			}
		})
	}
}

func TestUnresolvedDefaults(t *testing.T) {
	e := newEngine(t, Config{Primary: structural(&closer{})})

	out, err := e.Call("Len")
	if err != nil {
		t.Fatalf("default policy should not fail: %v", err)
	}
	if out[0] != 0 {
		t.Errorf("Len = %v, want 0", out[0])
	}

	oc, err := e.Trace("Cap")
	if err != nil {
		t.Fatal(err)
	}
	if oc.State != StateUnresolved || oc.Source != SourceNone {
		t.Errorf("State = %v Source = %d", oc.State, oc.Source)
	}
	if oc.Results[0] != int64(0) {
		t.Errorf("Cap = %v, want int64 0", oc.Results[0])
	}
}

func TestRuntimeHandler(t *testing.T) {
	sentinel := stderrors.New("not supported")
	var seen []string

	e := newEngine(t, Config{
		Primary: structural(&closer{}),
		OnMissing: func(d descriptor.Descriptor) error {
			seen = append(seen, d.Name)
			if d.Name == "Cap" {
				return nil
			}
			return sentinel
		},
	})

	_, err := e.Call("Len")
	if err != sentinel {
		t.Errorf("err = %v, want the handler's error exactly", err)
	}

	out, err := e.Call("Cap")
	if err != nil || out[0] != int64(0) {
		t.Errorf("nil from handler should mean zero results, got %v, %v", out, err)
	}

	if _, err := e.Call("Close"); err != nil {
		t.Errorf("resolved methods skip the handler: %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("handler calls = %v, want [Len Cap]", seen)
	}
}

func TestSecondaries(t *testing.T) {
	buf := bytes.NewBufferString("abc")
	c := &closer{}
	e := newEngine(t, Config{
		Primary:     structural(c),
		Secondaries: []Source{structural(badLen{}), structural(buf)},
	})

	oc, err := e.Trace("Close")
	if err != nil {
		t.Fatal(err)
	}
	if oc.Source != SourcePrimary || !c.closed {
		t.Errorf("Close should run on the primary, Source = %d", oc.Source)
	}

	// The first secondary with a structural match wins, even if its result
	// cannot be shaped.
	oc, _ = e.Trace("Len")
	if oc.Source != 1 || oc.State != StateInvocationFailed {
		t.Errorf("Len: Source = %d State = %v, want 1 invocation_failed", oc.Source, oc.State)
	}

	oc, _ = e.Trace("Cap")
	if oc.Source != 2 || oc.State != StateSucceeded {
		t.Errorf("Cap: Source = %d State = %v", oc.Source, oc.State)
	}
	want := []State{StateResolvePrimary, StateResolveSecondaries, StateInvoke, StateSucceeded}
	if !reflect.DeepEqual(oc.Path, want) {
		t.Errorf("Path = %v, want %v", oc.Path, want)
	}
}

func TestInvocationFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sentinel := stderrors.New("policy")

	e := newEngine(t, Config{
		Primary:   structural(panicky{}),
		OnMissing: func(descriptor.Descriptor) error { return sentinel },
		Logger:    zap.New(core),
	})

	oc, err := e.Trace("Len")
	if err != nil {
		t.Fatal(err)
	}
	if oc.State != StateInvocationFailed {
		t.Fatalf("State = %v", oc.State)
	}
	if oc.Err != sentinel {
		t.Errorf("Err = %v, want the handler's error", oc.Err)
	}
	if !stderrors.Is(oc.Cause, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindInvocationFailed}) {
		t.Errorf("Cause = %v", oc.Cause)
	}
	if !strings.Contains(oc.Cause.Error(), "boom") {
		t.Errorf("Cause should carry the panic value: %v", oc.Cause)
	}

	if _, err := e.Trace("Cap"); err != nil {
		t.Fatal(err)
	}

	if n := logs.FilterMessage("invocation failed").Len(); n != 1 {
		t.Errorf("invocation failed logs = %d, want 1", n)
	}
	if n := logs.FilterMessage("method unresolved").Len(); n != 1 {
		t.Errorf("method unresolved logs = %d, want 1", n)
	}
	entry := logs.FilterMessage("invocation failed").All()[0]
	if entry.ContextMap()["engine"] != e.ID().String() {
		t.Errorf("log should carry the engine ID: %v", entry.ContextMap())
	}
}

func TestInvocationFailureWithoutHandler(t *testing.T) {
	e := newEngine(t, Config{Primary: structural(panicky{})})

	out, err := e.Call("Len")
	if err != nil {
		t.Fatalf("default policy should swallow the failure: %v", err)
	}
	if out[0] != 0 {
		t.Errorf("Len = %v, want 0", out[0])
	}
}

func TestInvoke(t *testing.T) {
	sentinel := stderrors.New("missing")
	e := newEngine(t, Config{
		Primary:   structural(panicky{}),
		OnMissing: func(descriptor.Descriptor) error { return sentinel },
	})

	out := e.Invoke("Close")
	if len(out) != 1 || out[0] != sentinel {
		t.Errorf("Close = %v, want the error in the trailing result", out)
	}

	defer func() {
		if p := recover(); p != sentinel {
			t.Errorf("recovered %v, want the handler's error", p)
		}
	}()
	e.Invoke("Len")
	t.Error("Invoke should panic for methods without an error result")
}

func TestFallbackEngine(t *testing.T) {
	sentinel := stderrors.New("fallback refuses")

	inner := newEngine(t, Config{
		Primary:   structural(bytes.NewBufferString("fallback")),
		OnMissing: func(descriptor.Descriptor) error { return sentinel },
	})
	e := newEngine(t, Config{
		Primary:   structural(&closer{}),
		Fallback:  inner,
		OnMissing: func(descriptor.Descriptor) error { return stderrors.New("outer") },
	})

	oc, err := e.Trace("Len")
	if err != nil {
		t.Fatal(err)
	}
	if !oc.Forwarded || oc.Source != SourceFallback || oc.Results[0] != 8 {
		t.Errorf("Len outcome = %+v", oc)
	}

	// Close resolves on the primary before the fallback is consulted.
	if oc, _ := e.Trace("Close"); oc.Forwarded {
		t.Error("Close should not be forwarded")
	}

	// The fallback's own policy is final.
	inner2 := newEngine(t, Config{
		Primary:   structural(&closer{}),
		OnMissing: func(descriptor.Descriptor) error { return sentinel },
	})
	e2 := newEngine(t, Config{Primary: structural(struct{}{}), Fallback: inner2})
	if _, err := e2.Call("Len"); err != sentinel {
		t.Errorf("err = %v, want the fallback's error", err)
	}

	oc, err = e2.Trace("Len")
	if err != nil {
		t.Fatal(err)
	}
	if oc.State != StateSucceeded || !oc.FallbackFailed || oc.Err != sentinel {
		t.Errorf("State = %v FallbackFailed = %v Err = %v, want succeeded, true and the fallback's error",
			oc.State, oc.FallbackFailed, oc.Err)
	}
	if oc.Cause != nil {
		t.Errorf("Cause = %v, the fallback's error is not a failure of this engine", oc.Cause)
	}
	if oc.Results[0] != 0 {
		t.Errorf("Results = %v, want zero values", oc.Results)
	}
}

func TestFallbackInvoker(t *testing.T) {
	e := newEngine(t, Config{
		Primary:  structural(struct{}{}),
		Fallback: fixed{int32(7)},
	})
	out, err := e.Call("Len")
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 7 {
		t.Errorf("Len = %v (%T), want int 7", out[0], out[0])
	}

	closeErr := stderrors.New("closed twice")
	e = newEngine(t, Config{
		Primary:  structural(struct{}{}),
		Fallback: fixed{closeErr},
	})
	if _, err := e.Call("Close"); err != closeErr {
		t.Errorf("trailing error of the fallback should be returned, got %v", err)
	}
	if oc, _ := e.Trace("Close"); oc.State != StateSucceeded || !oc.FallbackFailed {
		t.Errorf("Close outcome = %v, FallbackFailed = %v", oc.State, oc.FallbackFailed)
	}

	e = newEngine(t, Config{
		Primary:  structural(struct{}{}),
		Fallback: fixed{"seven"},
	})
	if _, err := e.Call("Len"); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindInvocationFailed}) {
		t.Errorf("unshapeable fallback result: err = %v", err)
	}
	if oc, _ := e.Trace("Len"); oc.State != StateInvocationFailed || oc.FallbackFailed {
		t.Errorf("unshapeable fallback result: State = %v FallbackFailed = %v", oc.State, oc.FallbackFailed)
	}
}

func TestBindingSource(t *testing.T) {
	set := setOf(t)
	d, _ := set.Lookup("Len")
	b, err := binding.New(d, reflect.TypeOf(&closer{}), func(c *closer) int {
		if c.closed {
			return -1
		}
		return 1
	})
	if err != nil {
		t.Fatal(err)
	}
	tbl := binding.NewTable()
	tbl.Put(b)

	e := newEngine(t, Config{Methods: set, Primary: NewBindingSource(&closer{}, tbl)})
	oc, err := e.Trace("Len")
	if err != nil {
		t.Fatal(err)
	}
	if oc.Results[0] != 1 || !strings.HasPrefix(oc.Target, "binding func(") {
		t.Errorf("outcome = %+v", oc)
	}

	// Declarative sources ignore the delegate's own methods.
	if oc, _ := e.Trace("Close"); oc.State != StateUnresolved {
		t.Errorf("Close State = %v, want unresolved", oc.State)
	}
}

func TestCheck(t *testing.T) {
	e := newEngine(t, Config{
		Primary:     structural(&closer{}),
		Secondaries: []Source{structural(bytes.NewBuffer(nil))},
		Fallback:    fixed{},
	})

	if err := e.Check(nil); err != nil {
		t.Errorf("nil handler: %v", err)
	}
	if err := e.Check(func(descriptor.Descriptor) error { return stderrors.New("x") }); err != nil {
		t.Errorf("every method resolves: %v", err)
	}

	partial := newEngine(t, Config{Primary: structural(&closer{}), Fallback: fixed{}})
	var calls []string
	err := partial.Check(func(d descriptor.Descriptor) error {
		calls = append(calls, d.Name)
		return errors.ConstructionUnresolved(d.String())
	})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseBuild, Kind: errors.KindConstructionUnresolved}) {
		t.Fatalf("err = %v", err)
	}
	// Methods are checked in interface order; Cap is the first missing.
	if len(calls) != 1 || calls[0] != "Cap" {
		t.Errorf("handler calls = %v, want [Cap]", calls)
	}
}

func TestCallDescriptor(t *testing.T) {
	e := newEngine(t, Config{Primary: structural(bytes.NewBufferString("xy"))})
	d, _ := e.Methods().Lookup("Len")

	out, err := e.CallDescriptor(d, nil)
	if err != nil || out[0].Int() != 2 {
		t.Errorf("CallDescriptor = %v, %v", out, err)
	}

	foreign := descriptor.New("Len", nil, []reflect.Type{reflect.TypeFor[string]()}, false)
	if _, err := e.CallDescriptor(foreign, nil); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDispatch, Kind: errors.KindNotFound}) {
		t.Errorf("foreign descriptor: err = %v", err)
	}
}

func TestConcurrentCalls(t *testing.T) {
	e := newEngine(t, Config{
		Primary:     structural(&closer{}),
		Secondaries: []Source{structural(bytes.NewBufferString("hello"))},
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				out, err := e.Call("Len")
				if err != nil || out[0] != 5 {
					t.Errorf("Len = %v, %v", out, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
