// Package dispatch routes interface method calls to delegates.
//
// An Engine owns an ordered list of sources, one per delegate, and an
// optional fallback adapter. Each call walks a small state machine:
//
//	resolve_primary
//	    └── resolve_secondaries (in order)
//	            └── resolve_fallback (whole call forwarded)
//	invoke ──► succeeded | invocation_failed
//	unresolved
//
// The first source with a target wins. When none has one the call goes to
// the fallback, whose result or error is returned unchanged. Without a
// fallback the call is unresolved.
//
// # Failure Policy
//
// Unresolved calls and invocation failures (a panic in the target, or a
// result that cannot be shaped into the method's result type) share one
// policy. With an OnMissing handler its error is returned; otherwise the
// call yields zero values. The two states are still logged separately and
// Trace reports which one ended a call.
//
// Stubs call Engine.Invoke, which places the error in a trailing error
// result when the method declares one and panics with it otherwise.
//
// # Results
//
// Target results are shaped to the method's declared results: assignable
// values are kept, numeric values are converted, missing values become
// zero and extra values are dropped.
//
// # Thread Safety
//
// Engines are immutable after New and safe for concurrent calls. The
// resolver cache they share is safe for concurrent use.
package dispatch
