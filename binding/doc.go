// Package binding records declarative method bindings.
//
// A binding maps one interface method to a function that receives the
// delegate followed by the method's arguments:
//
//	r.BindName("Len", func(p *Person) int { return len(p.Name) })
//
// Methods can also be named by a selector, a method expression or a closure
// that calls exactly one method on the interface:
//
//	r.Bind(Lener.Len, func(p *Person) int { return len(p.Name) })
//
// The recorder finds the selected method by running the selector against a
// recording stub. Arguments are placeholders from the defaults package; when
// the selector panics with a runtime error (for example dereferencing a nil
// pointer placeholder) the next candidate combination is tried.
//
// # Validation
//
// Binding functions are checked when registered: the first parameter must
// accept the delegate type, the rest must accept the method's parameters
// with the same variadic flag, and each result must be assignable or
// numerically convertible to the method's result. Violations are reported
// as invalid_binding errors.
package binding
