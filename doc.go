// Package fluxrt is a reactive dataflow evaluation runtime: typed
// operators wired into a graph through value ports (pulled, memoized)
// and trigger ports (pushed, cascading), with a flatten-to-command-
// buffer compiler and an undoable command layer on top.
//
// Under the hood, everything is organized under focused subpackages:
//
//	value/      — the closed tagged value union and its coercion lattice
//	port/       — typed input/output/trigger ports and connectivity constraints
//	operator/   — the Operator contract and the evaluation context
//	dirtyflag/  — cache-invalidation bookkeeping for memoized evaluation
//	graph/      — the node/connection container: topo order, cycle detection, events
//	eval/       — the pull-based recursive evaluator
//	compiler/   — flatten-to-linear-command-buffer compilation with dead-code elimination
//	command/    — undoable graph mutations and the undo/redo history stack
//	associated/ — a bijective external-id <-> internal-NodeID wrapper around Graph
//	registry/   — named, parameterized operator construction
//
//	go get github.com/fluxrt/fluxrt
package fluxrt
