// Package engine derives every dashboard figure from a snapshot of clients and
// contracts: free-text search, commission totals, expiring-contract alerts,
// per-provider tallies and the six-month client trend.
//
// Every function here is pure. Inputs are never mutated, nothing is cached
// between calls, and no function blocks or returns an error. Missing optional
// fields degrade to "does not match" or "contributes zero". Callers that need
// to avoid recomputation memoize on their side (see internal/dashboard).
//
// Functions that depend on "today" take the reference instant explicitly.
package engine
