package main

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/wippyai/duckwings"
	"github.com/wippyai/duckwings/adapter"
	"github.com/wippyai/duckwings/dispatch"
	"github.com/wippyai/duckwings/stub"
)

// Lener is satisfied by anything with a length.
type Lener interface {
	Len() int
}

// Sizer reports a total size in bytes.
type Sizer interface {
	Size() int64
}

// PersonalData is the interface the sample delegates are adapted to.
type PersonalData interface {
	FullName() string
	Age() int
	FirstName() string
	LastName() string
}

type lenerStub struct{ duckwings.Stub }

func (s lenerStub) Len() int { return duckwings.Result1[int](s.Invoke("Len")) }

type sizerStub struct{ duckwings.Stub }

func (s sizerStub) Size() int64 { return duckwings.Result1[int64](s.Invoke("Size")) }

type personalStub struct{ duckwings.Stub }

func (s personalStub) FullName() string  { return duckwings.Result1[string](s.Invoke("FullName")) }
func (s personalStub) Age() int          { return duckwings.Result1[int](s.Invoke("Age")) }
func (s personalStub) FirstName() string { return duckwings.Result1[string](s.Invoke("FirstName")) }
func (s personalStub) LastName() string  { return duckwings.Result1[string](s.Invoke("LastName")) }

func catalogStubs() *stub.Registry {
	r := stub.NewRegistry()
	stub.MustRegister(r, func(s duckwings.Stub) Lener { return lenerStub{s} })
	stub.MustRegister(r, func(s duckwings.Stub) Sizer { return sizerStub{s} })
	stub.MustRegister(r, func(s duckwings.Stub) PersonalData { return personalStub{s} })
	return r
}

const referenceYear = 2026

type person struct {
	First string
	Last  string
	Born  int
}

func (p *person) FirstName() string { return p.First }
func (p *person) LastName() string  { return p.Last }

type nameAndAge struct {
	Name  string
	Years int
}

func (n nameAndAge) FullName() string { return n.Name }
func (n nameAndAge) Age() int         { return n.Years }

type buildFunc func(f *adapter.Factory, primary any, secondaries []any) (*dispatch.Engine, error)

type ifaceEntry struct {
	typ   reflect.Type
	build buildFunc
	name  string
	mode  string
}

type delegateEntry struct {
	make func() any
	name string
}

func structural[I any](name string) ifaceEntry {
	return ifaceEntry{
		name: name,
		typ:  reflect.TypeFor[I](),
		mode: "structural",
		build: func(f *adapter.Factory, primary any, secondaries []any) (*dispatch.Engine, error) {
			return adapter.Structural[I](f).Build(primary, secondaries...)
		},
	}
}

// boundPerson adapts *person declaratively and falls back to structural
// resolution for the remaining methods.
func boundPerson(name string) ifaceEntry {
	return ifaceEntry{
		name: name,
		typ:  reflect.TypeFor[PersonalData](),
		mode: "declarative",
		build: func(f *adapter.Factory, primary any, secondaries []any) (*dispatch.Engine, error) {
			p, ok := primary.(*person)
			if !ok {
				return nil, fmt.Errorf("%s needs the person delegate, got %T", name, primary)
			}
			return adapter.Declarative[PersonalData, *person](f).
				Bind(PersonalData.FullName, func(p *person) string { return p.First + " " + p.Last }).
				Bind(PersonalData.Age, func(p *person) int { return referenceYear - p.Born }).
				Fallback(adapter.Structural[PersonalData](f)).
				Build(p, secondaries...)
		},
	}
}

var interfaces = []ifaceEntry{
	structural[io.Reader]("io.Reader"),
	structural[io.Writer]("io.Writer"),
	structural[io.ByteScanner]("io.ByteScanner"),
	structural[io.Closer]("io.Closer"),
	structural[fmt.Stringer]("fmt.Stringer"),
	structural[Lener]("Lener"),
	structural[Sizer]("Sizer"),
	structural[PersonalData]("PersonalData"),
	boundPerson("PersonalData/bound"),
}

var delegates = []delegateEntry{
	{name: "bytes.Buffer", make: func() any { return bytes.NewBufferString("hello") }},
	{name: "strings.Builder", make: func() any {
		b := &strings.Builder{}
		b.WriteString("hello")
		return b
	}},
	{name: "strings.Reader", make: func() any { return strings.NewReader("hello") }},
	{name: "person", make: func() any { return &person{First: "John", Last: "Lennon", Born: 1940} }},
	{name: "name-and-age", make: func() any { return nameAndAge{Name: "John Lennon", Years: referenceYear - 1940} }},
	{name: "int-slice", make: func() any { return []int{1, 2, 3} }},
}

func findInterface(name string) (ifaceEntry, error) {
	for _, e := range interfaces {
		if e.name == name {
			return e, nil
		}
	}
	return ifaceEntry{}, fmt.Errorf("unknown interface %q (see -list)", name)
}

func findDelegate(name string) (delegateEntry, error) {
	for _, d := range delegates {
		if d.name == name {
			return d, nil
		}
	}
	return delegateEntry{}, fmt.Errorf("unknown delegate %q (see -list)", name)
}

func interfaceNames() []string {
	out := make([]string, len(interfaces))
	for i, e := range interfaces {
		out[i] = e.name
	}
	return out
}

func delegateNames() []string {
	out := make([]string, len(delegates))
	for i, d := range delegates {
		out[i] = d.name
	}
	sort.Strings(out)
	return out
}

// engineFor builds an engine for the named interface over fresh delegate
// values.
func engineFor(f *adapter.Factory, iface, primary string, secondaries []string) (*dispatch.Engine, error) {
	ie, err := findInterface(iface)
	if err != nil {
		return nil, err
	}
	pd, err := findDelegate(primary)
	if err != nil {
		return nil, err
	}
	extra := make([]any, 0, len(secondaries))
	for _, name := range secondaries {
		sd, err := findDelegate(name)
		if err != nil {
			return nil, err
		}
		extra = append(extra, sd.make())
	}
	return ie.build(f, pd.make(), extra)
}
