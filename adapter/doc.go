// Package adapter builds values of a Go interface from delegates that never
// declared it.
//
// # Structural Adapters
//
// A structural adapter matches each interface method to a delegate method
// with the same name and parameter types:
//
//	f := adapter.New()
//	l, err := adapter.Structural[Lener](f).Wrap(bytes.NewBufferString("hello"))
//	l.Len() // 5
//
// Extra delegates are searched in order for methods the primary lacks:
//
//	pd, err := adapter.Structural[PersonalData](f).Wrap(person, nameAndAge)
//
// # Declarative Adapters
//
// A declarative adapter answers only the methods bound to functions of the
// delegate:
//
//	b := adapter.Declarative[Lener, string](f).
//		Bind(Lener.Len, func(s string) int { return len(s) })
//	l, err := b.Wrap("function")
//
// Fallback names an adapter or builder that receives every call the
// delegates cannot answer. WithSecondary supplies bindings for secondary
// delegates of other types.
//
// # Missing Methods
//
// By default an unresolved method returns zero values. The factory can
// instead reject the adapter while building (OnMissingAtConstruction) or
// fail the call (OnMissingAtRuntime). A call whose target panics follows
// the runtime policy as well.
//
// # Stubs
//
// Wrap needs a stub for the interface in the factory's stub registry
// (stub.Default unless WithStubs is used). Build returns the dispatch
// engine and needs no stub.
//
// # Thread Safety
//
// Adapters are safe for concurrent use. Factories and builders should be
// configured from a single goroutine before building.
package adapter
