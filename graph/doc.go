// Package graph implements the reactive dataflow container: nodes
// wrapping an operator.Operator, typed connections between their ports,
// cycle-safe structural edits, cached topological ordering, the
// push-based trigger cascade, and the evaluation/compilation cache
// bookkeeping the eval and compiler packages build on.
//
// Graph splits its locking by concern rather than sharing one coarse
// mutex: node storage, the cached topological order, the evaluation
// cache, and the structural event queue are four independently
// contended aggregates, so each gets its own mutex (sync.RWMutex for
// the first three, sync.Mutex for the event queue).
package graph
