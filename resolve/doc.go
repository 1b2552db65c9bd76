// Package resolve implements structural method resolution.
//
// Given a delegate type and a descriptor, the Resolver looks for a method
// with the same name and exactly the same parameter types. Result types are
// not part of the match; the dispatch engine shapes results afterwards.
//
// # Lookup Order
//
//  1. The delegate type's own method set (Go already promotes unambiguous
//     methods of embedded types here)
//  2. Exported embedded fields, breadth first by depth, declaration order
//     within a depth. This picks up methods hidden by ambiguous selectors and
//     pointer methods of addressable embedded values.
//
// # Caching
//
// Verdicts (found or not found) are cached per (delegate type, descriptor) in
// a Cache. Caches are explicit components: inject one with NewResolver, or
// pass nil to use the process-scoped Shared cache.
//
// # Thread Safety
//
// Resolver and Cache are safe for concurrent use.
package resolve
