// Package sim advances node positions with a three-term force model:
// short-range pairwise repulsion, a link spring whose pull grows with
// distance, and a weak pull toward the canvas center.
//
// The model is heuristic. It produces loosely clustered, mostly
// non-overlapping layouts and makes no convergence promises. One call to
// Step is one animation frame; scheduling frames is the caller's job
// (see engine.Run).
package sim
