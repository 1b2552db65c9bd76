package dispatch

// State is a step of the per-call dispatch state machine.
type State uint8

const (
	StateResolvePrimary State = iota
	StateResolveSecondaries
	StateResolveFallback
	StateInvoke
	StateSucceeded
	StateUnresolved
	StateInvocationFailed
)

func (s State) String() string {
	switch s {
	case StateResolvePrimary:
		return "resolve_primary"
	case StateResolveSecondaries:
		return "resolve_secondaries"
	case StateResolveFallback:
		return "resolve_fallback"
	case StateInvoke:
		return "invoke"
	case StateSucceeded:
		return "succeeded"
	case StateUnresolved:
		return "unresolved"
	case StateInvocationFailed:
		return "invocation_failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a call.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateUnresolved || s == StateInvocationFailed
}

// Where a call was answered. Non-negative values index Engine.Secondaries
// plus one, so 0 is the primary delegate.
const (
	SourcePrimary  = 0
	SourceFallback = -1
	SourceNone     = -2
)

// Outcome describes how one call travelled through the engine.
type Outcome struct {
	// Err is what the caller received: nil on success, the runtime
	// handler's error, or the fallback's own error.
	Err   error
	Cause error
	// Results are the values handed back to the caller.
	Results []any
	Path    []State
	Method  string
	Target  string
	State   State
	Source  int
	// Forwarded is set when the fallback adapter answered the call.
	Forwarded bool
	// FallbackFailed is set when the fallback ended a forwarded call with
	// its own error. The call still terminates in StateSucceeded for this
	// engine; Err holds the fallback's error.
	FallbackFailed bool
}

func (o *Outcome) step(s State) {
	o.Path = append(o.Path, s)
	if s.Terminal() {
		o.State = s
	}
}
