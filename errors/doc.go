// Package errors provides structured error types for duckwings.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: embedded field path, Go type, method
// signature, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBind, errors.KindInvalidBinding).
//		GoType("func(*bytes.Buffer) string").
//		Method("Len() int").
//		Detail("implementation returns %d values", 1).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.RuntimeUnresolved("Len() int")
//	err := errors.NotAdapter(value)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind only, so a bare &Error{Phase, Kind} works as a
// sentinel.
package errors
