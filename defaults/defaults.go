// Package defaults holds the zero values duckwings substitutes for
// unresolved methods and the placeholder arguments it probes selectors with.
package defaults

import (
	"reflect"

	"github.com/wippyai/duckwings/descriptor"
)

// Entry is one row of the default-value table.
// The placeholder row has Kind reflect.Invalid and an invalid Value (nil).
type Entry struct {
	Value reflect.Value
	Kind  reflect.Kind
}

// IsPlaceholder reports whether e is the nil row for reference kinds.
func (e Entry) IsPlaceholder() bool { return e.Kind == reflect.Invalid }

var primitives = [...]any{
	false,
	int(0), int8(0), int16(0), int32(0), int64(0),
	uint(0), uint8(0), uint16(0), uint32(0), uint64(0), uintptr(0),
	float32(0), float64(0),
	complex64(0), complex128(0),
	"",
}

var table = func() []Entry {
	out := make([]Entry, 0, len(primitives)+1)
	for _, p := range primitives {
		v := reflect.ValueOf(p)
		out = append(out, Entry{Kind: v.Kind(), Value: v})
	}
	return append(out, Entry{Kind: reflect.Invalid})
}()

// Table returns the ordered default-value table: one entry per primitive
// kind followed by the nil placeholder.
func Table() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// Lookup returns the table entry for a primitive kind.
func Lookup(k reflect.Kind) (Entry, bool) {
	for _, e := range table {
		if e.Kind == k && !e.IsPlaceholder() {
			return e, true
		}
	}
	return Entry{}, false
}

// Zero returns the exact zero value of t: 0, false, "", nil for reference
// kinds, the empty struct for structs.
func Zero(t reflect.Type) reflect.Value {
	return reflect.Zero(t)
}

// Results returns zero values for every result of d.
func Results(d descriptor.Descriptor) []reflect.Value {
	out := make([]reflect.Value, d.NumOut())
	for i := range out {
		out[i] = reflect.Zero(d.Out(i))
	}
	return out
}

// Candidates lists the placeholder arguments tried for one parameter of
// type t, most likely first. The zero value always leads; pointers follow
// with a pointer to a fresh zero element; interfaces follow with every
// primitive table entry that implements them.
func Candidates(t reflect.Type) []reflect.Value {
	out := []reflect.Value{reflect.Zero(t)}

	switch t.Kind() {
	case reflect.Pointer:
		out = append(out, reflect.New(t.Elem()))
	case reflect.Interface:
		for _, e := range table {
			if e.IsPlaceholder() || !e.Value.Type().Implements(t) {
				continue
			}
			v := reflect.New(t).Elem()
			v.Set(e.Value)
			out = append(out, v)
		}
	}
	return out
}
