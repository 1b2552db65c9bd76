// Package duckwings builds values that satisfy a Go interface on behalf of
// delegates that never declared it.
//
// A caller asks for "something that looks like interface I, backed by value
// D" and duckwings routes every method of I to a matching method of D, to an
// explicitly bound function, to a secondary delegate, or to a fallback
// adapter. Methods nobody provides return zero values unless a failure
// handler is configured.
//
// # Architecture Overview
//
//	duckwings/           Root package with Invoker, Stub and result helpers
//	├── adapter/         Factory and builders: the public entry point
//	├── dispatch/        Per-call routing engine and failure policy
//	├── resolve/         Structural method lookup with a shared cache
//	├── binding/         Declarative bindings and selector recording
//	├── descriptor/      Method descriptors (name + signature)
//	├── defaults/        Zero values and probe placeholders
//	├── stub/            Registry of interface stubs
//	├── errors/          Structured error types
//	└── cmd/duckcheck/   Resolution inspector CLI
//
// # Stubs
//
// Go cannot create a type implementing an arbitrary interface at runtime.
// Each target interface therefore needs a small stub that embeds Stub and
// forwards its methods to Invoke. Stubs are registered once:
//
//	stub.Register(stub.Default(), func(s duckwings.Stub) Lener { return lenerStub{s} })
//
// # Quick Start
//
//	f := adapter.New()
//	l, err := adapter.Structural[Lener](f).Wrap(bytes.NewBufferString("hello"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(l.Len()) // 5
//
// # Thread Safety
//
// Factories and built adapters are safe for concurrent use. Builders are not
// safe for concurrent configuration.
package duckwings
