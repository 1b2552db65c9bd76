package adapter

import (
	"github.com/wippyai/duckwings"
	"github.com/wippyai/duckwings/stub"
)

type Lener interface {
	Len() int
}

type lenerStub struct{ duckwings.Stub }

func (s lenerStub) Len() int { return duckwings.Result1[int](s.Invoke("Len")) }

type Closer interface {
	Close() error
}

type closerStub struct{ duckwings.Stub }

func (s closerStub) Close() error { return duckwings.Result1[error](s.Invoke("Close")) }

type ExtendedString interface {
	ToInt() int
	HasPrefixFold(prefix string) bool
	Substring(start, end int) string
	ByteAt(i int) byte
}

type extendedStub struct{ duckwings.Stub }

func (s extendedStub) ToInt() int { return duckwings.Result1[int](s.Invoke("ToInt")) }

func (s extendedStub) HasPrefixFold(prefix string) bool {
	return duckwings.Result1[bool](s.Invoke("HasPrefixFold", prefix))
}

func (s extendedStub) Substring(start, end int) string {
	return duckwings.Result1[string](s.Invoke("Substring", start, end))
}

func (s extendedStub) ByteAt(i int) byte { return duckwings.Result1[byte](s.Invoke("ByteAt", i)) }

type PersonalData interface {
	FullName() string
	Age() int
	FirstName() string
	LastName() string
}

type personalStub struct{ duckwings.Stub }

func (s personalStub) FullName() string  { return duckwings.Result1[string](s.Invoke("FullName")) }
func (s personalStub) Age() int          { return duckwings.Result1[int](s.Invoke("Age")) }
func (s personalStub) FirstName() string { return duckwings.Result1[string](s.Invoke("FirstName")) }
func (s personalStub) LastName() string  { return duckwings.Result1[string](s.Invoke("LastName")) }

func testStubs() *stub.Registry {
	r := stub.NewRegistry()
	stub.MustRegister(r, func(s duckwings.Stub) Lener { return lenerStub{s} })
	stub.MustRegister(r, func(s duckwings.Stub) Closer { return closerStub{s} })
	stub.MustRegister(r, func(s duckwings.Stub) ExtendedString { return extendedStub{s} })
	stub.MustRegister(r, func(s duckwings.Stub) PersonalData { return personalStub{s} })
	return r
}

const currentYear = 2026

type Person struct {
	First       string
	Last        string
	YearOfBirth int
}

func (p *Person) FirstName() string { return p.First }
func (p *Person) LastName() string  { return p.Last }

type NameAndAge struct {
	Name  string
	Years int
}

func (n NameAndAge) FullName() string { return n.Name }
func (n NameAndAge) Age() int         { return n.Years }
