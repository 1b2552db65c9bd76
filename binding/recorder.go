package binding

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/wippyai/duckwings/defaults"
	"github.com/wippyai/duckwings/descriptor"
	"github.com/wippyai/duckwings/errors"
	"github.com/wippyai/duckwings/stub"
)

// maxProbeParams is the largest selector arity probed with the full
// candidate cross-product. Larger selectors get a single all-zero probe.
const maxProbeParams = 3

// Recorder collects bindings for one interface and delegate type.
type Recorder struct {
	set      *descriptor.Set
	delegate reflect.Type
	stubs    *stub.Registry
	table    *Table
}

// NewRecorder creates a recorder for the interface described by set.
// stubs supplies the recording stub used by Bind and Select; it may be nil
// when only BindName is used.
func NewRecorder(set *descriptor.Set, delegate reflect.Type, stubs *stub.Registry) *Recorder {
	return &Recorder{
		set:      set,
		delegate: delegate,
		stubs:    stubs,
		table:    NewTable(),
	}
}

// Table returns the recorder's live binding table.
func (r *Recorder) Table() *Table { return r.table }

// BindName binds the interface method called name to impl.
func (r *Recorder) BindName(name string, impl any) error {
	d, ok := r.set.Lookup(name)
	if !ok {
		return errors.InvalidBinding(r.set.Name(), name, "interface has no such method")
	}
	return r.put(d, impl)
}

// Bind binds the method selector calls to impl.
// selector is a method expression such as Lener.Len or a function taking the
// interface first that calls exactly one of its methods.
func (r *Recorder) Bind(selector, impl any) error {
	d, err := r.Select(selector)
	if err != nil {
		return err
	}
	return r.put(d, impl)
}

func (r *Recorder) put(d descriptor.Descriptor, impl any) error {
	b, err := New(d, r.delegate, impl)
	if err != nil {
		return err
	}
	r.table.Put(b)
	return nil
}

// recording is the invoker behind the probe stub. It notes every method the
// selector calls and answers with zero results.
type recording struct {
	calls []string
}

func (rec *recording) Invoke(method string, args ...any) []any {
	rec.calls = append(rec.calls, method)
	return nil
}

// Select identifies the interface method a selector calls.
//
// The selector runs against a recording stub with placeholder arguments from
// defaults.Candidates. A probe that panics with a runtime error (nil
// dereference, failed type assertion) is retried with the next combination
// of candidates. The first probe that completes must have called exactly one
// interface method.
func (r *Recorder) Select(selector any) (descriptor.Descriptor, error) {
	fn := reflect.ValueOf(selector)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return descriptor.Descriptor{}, errors.InvalidBinding(typeName(selector), "", "selector must be a non-nil function")
	}
	ft := fn.Type()
	iface := r.set.Interface()
	if ft.NumIn() == 0 || !iface.AssignableTo(ft.In(0)) {
		return descriptor.Descriptor{}, errors.InvalidBinding(ft.String(), "", "selector must take %s as its first parameter", iface)
	}
	if r.stubs == nil {
		return descriptor.Descriptor{}, errors.InvalidBinding(iface.String(), "", "no stub registry to probe selector")
	}

	rec := &recording{}
	sv, err := r.stubs.Materialize(iface, rec)
	if err != nil {
		return descriptor.Descriptor{}, errors.Wrap(errors.PhaseBind, errors.KindInvalidBinding, iface.String(), err, "selector cannot be probed")
	}
	target := reflect.New(ft.In(0)).Elem()
	target.Set(reflect.ValueOf(sv))

	for _, args := range combinations(ft) {
		rec.calls = rec.calls[:0]
		in := append([]reflect.Value{target}, args...)

		completed, err := probe(fn, in)
		if err != nil {
			return descriptor.Descriptor{}, errors.Wrap(errors.PhaseBind, errors.KindInvalidBinding, ft.String(), err, "selector failed")
		}
		if !completed {
			continue
		}

		switch len(rec.calls) {
		case 0:
			return descriptor.Descriptor{}, errors.InvalidBinding(ft.String(), "", "selector does not call a method of %s", iface)
		case 1:
			d, ok := r.set.Lookup(rec.calls[0])
			if !ok {
				return descriptor.Descriptor{}, errors.InvalidBinding(iface.String(), rec.calls[0], "stub invoked a method the interface does not declare")
			}
			return d, nil
		default:
			return descriptor.Descriptor{}, errors.InvalidBinding(ft.String(), "", "selector calls %d methods %v, want exactly one", len(rec.calls), rec.calls)
		}
	}

	return descriptor.Descriptor{}, errors.InvalidBinding(ft.String(), "", "no placeholder arguments let the selector complete")
}

// probe calls fn and reports whether it returned normally. Runtime error
// panics mean the placeholders did not fit; any other panic is an error.
func probe(fn reflect.Value, in []reflect.Value) (completed bool, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(runtime.Error); ok {
			completed, err = false, nil
			return
		}
		if e, ok := p.(error); ok {
			err = e
			return
		}
		err = fmt.Errorf("%v", p)
	}()

	if fn.Type().IsVariadic() {
		fn.CallSlice(in)
	} else {
		fn.Call(in)
	}
	return true, nil
}

// combinations lists the argument tuples for the selector's parameters after
// the interface, in order. Every position varies fastest from the right.
func combinations(ft reflect.Type) [][]reflect.Value {
	n := ft.NumIn() - 1
	if n == 0 {
		return [][]reflect.Value{nil}
	}
	if n > maxProbeParams {
		zeros := make([]reflect.Value, n)
		for i := range zeros {
			zeros[i] = defaults.Zero(ft.In(i + 1))
		}
		return [][]reflect.Value{zeros}
	}

	out := [][]reflect.Value{nil}
	for i := 1; i <= n; i++ {
		cands := defaults.Candidates(ft.In(i))
		next := make([][]reflect.Value, 0, len(out)*len(cands))
		for _, prefix := range out {
			for _, c := range cands {
				tuple := make([]reflect.Value, len(prefix), len(prefix)+1)
				copy(tuple, prefix)
				next = append(next, append(tuple, c))
			}
		}
		out = next
	}
	return out
}
