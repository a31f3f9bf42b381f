// Package engine runs an editor session: the graph store, the force
// simulation and the interaction machine behind one single-writer loop.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// Every mutation of the store and the session happens on one goroutine.
// UI handlers and timer callbacks never touch state directly; they enqueue
// an input (Enqueue) or a function (Call) and the loop applies it.
//
// Event Processing Flow:
//  1. Inputs and calls are enqueued to a FIFO queue
//  2. Engine.Run() dequeues events one at a time
//  3. Inputs go through interact.Machine.Handle; the returned effects are
//     applied in order (move a node, add a link, start or stop a timer)
//  4. On every frame tick the queue is drained first, then the simulator
//     steps every node except the one pinned by a drag
//
// Timers come from a Timers factory. A fired timer enqueues a timer_fired
// input carrying its token; the machine ignores tokens it no longer holds.
//
// Logical Clock:
// Every processed input and tick is stamped with a monotonic seq from the
// clock, so listeners observe a total order independent of wall time.
//
// Without Run, a caller can drive the engine by hand: Dispatch applies an
// input, Flush drains the queue and Tick runs one frame. Tests do this with
// testutil.ManualTimers to get deterministic traces.
package engine
