// Package graph holds the authoritative node and link collections of a map.
//
// The store is pure data plus invariant-preserving mutators. After every
// mutator returns:
//   - every link's two endpoints exist as node ids
//   - node ids are unique
//   - no two links share the same unordered endpoint pair
//   - no link joins a node to itself
//
// Replace (bulk load) is the one exception: it installs links verbatim so
// that a hand-edited document can be inspected before PruneDanglingLinks
// restores the invariant. Links whose endpoints do not resolve are skipped by
// ResolvedLinks and by anything built on it.
//
// The store has no locking. It is owned by a single writer (see
// internal/engine) and must not be shared across goroutines.
package graph
