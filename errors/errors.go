package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild    Phase = "build"    // adapter construction
	PhaseDispatch Phase = "dispatch" // per-call routing
	PhaseBind     Phase = "bind"     // declarative registration
	PhaseResolve  Phase = "resolve"  // structural lookup
	PhaseUnwrap   Phase = "unwrap"   // adapter to delegate
	PhaseStub     Phase = "stub"     // stub materialization
)

// Kind categorizes the error
type Kind string

const (
	KindConstructionUnresolved Kind = "construction_unresolved"
	KindRuntimeUnresolved      Kind = "runtime_unresolved"
	KindInvalidBinding         Kind = "invalid_binding"
	KindInvalidArgument        Kind = "invalid_argument"
	KindTypeMismatch           Kind = "type_mismatch"
	KindInvocationFailed       Kind = "invocation_failed"
	KindNotFound               Kind = "not_found"
	KindNilPointer             Kind = "nil_pointer"
)

// Error is the structured error type used throughout duckwings
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Method string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.Method != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.Method != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", method ")
			b.WriteString(e.Method)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("method ")
			b.WriteString(e.Method)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Method != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the lookup path (embedded field chain, interface.method)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Method sets the method signature
func (b *Builder) Method(m string) *Builder {
	b.err.Method = m
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ConstructionUnresolved reports a method with no resolution at build time
func ConstructionUnresolved(method string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindConstructionUnresolved,
		Method: method,
		Detail: "no delegate provides this method",
	}
}

// RuntimeUnresolved reports a method with no resolution at call time
func RuntimeUnresolved(method string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindRuntimeUnresolved,
		Method: method,
		Detail: "no delegate provides this method",
	}
}

// InvalidBinding creates a declarative registration error
func InvalidBinding(goType, method, detail string, args ...any) *Error {
	return New(PhaseBind, KindInvalidBinding).
		GoType(goType).
		Method(method).
		Detail(detail, args...).
		Build()
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Detail: detail,
	}
}

// NotAdapter is returned when unwrapping a value duckwings did not produce
func NotAdapter(v any) *Error {
	return &Error{
		Phase:  PhaseUnwrap,
		Kind:   KindInvalidArgument,
		GoType: fmt.Sprintf("%T", v),
		Detail: "not an adapter",
		Value:  v,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, goType, method, detail string, args ...any) *Error {
	return New(phase, KindTypeMismatch).
		GoType(goType).
		Method(method).
		Detail(detail, args...).
		Build()
}

// InvocationFailed wraps a failure raised by a resolved method
func InvocationFailed(method string, cause error) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindInvocationFailed,
		Method: method,
		Detail: "resolved method failed",
		Cause:  cause,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// NotFound creates a not-found error for a method name missing from an
// interface
func NotFound(phase Phase, iface, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		GoType: iface,
		Method: name,
		Detail: fmt.Sprintf("method %q not found", name),
	}
}

// StubMissing reports an interface with no registered stub
func StubMissing(iface string) *Error {
	return &Error{
		Phase:  PhaseStub,
		Kind:   KindNotFound,
		GoType: iface,
		Detail: "no stub registered for interface",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, goType string, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		GoType: goType,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingMethod represents a single unresolved interface method
type MissingMethod struct {
	Interface string // e.g., "io.ReadWriter"
	Method    string // e.g., "Write([]uint8) (int, error)"
}

// MissingMethodsError lists every interface method no delegate provides
type MissingMethodsError struct {
	Methods []MissingMethod
}

// NewMissingMethodsError creates an error from a list of "interface#method" strings
func NewMissingMethodsError(methods []string) *MissingMethodsError {
	result := &MissingMethodsError{
		Methods: make([]MissingMethod, 0, len(methods)),
	}
	for _, m := range methods {
		iface, fn := parseMethodKey(m)
		result.Methods = append(result.Methods, MissingMethod{
			Interface: iface,
			Method:    fn,
		})
	}
	return result
}

func parseMethodKey(key string) (iface, method string) {
	i, m, found := strings.Cut(key, "#")
	if found {
		return i, m
	}
	return key, ""
}

func (e *MissingMethodsError) Error() string {
	if len(e.Methods) == 0 {
		return "[build] construction_unresolved: no methods specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("missing %d method(s):\n", len(e.Methods)))

	// Group by interface for cleaner output
	byIface := make(map[string][]string)
	var order []string
	for _, m := range e.Methods {
		if _, exists := byIface[m.Interface]; !exists {
			order = append(order, m.Interface)
		}
		byIface[m.Interface] = append(byIface[m.Interface], m.Method)
	}

	for _, iface := range order {
		b.WriteString("\n  ")
		b.WriteString(iface)
		b.WriteString(":\n")
		for _, fn := range byIface[iface] {
			b.WriteString("    - ")
			b.WriteString(fn)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *MissingMethodsError) Is(target error) bool {
	_, ok := target.(*MissingMethodsError)
	return ok
}
