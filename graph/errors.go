package graph

import "errors"

// Sentinel errors for graph structural operations. Callers must compare
// with errors.Is; messages may gain %w-wrapped context.
var (
	// ErrNodeNotFound indicates an operation referenced a node ID not
	// present in the graph.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrInputIndexOutOfRange indicates an input port index outside
	// the operator's declared Inputs()/TriggerInputs().
	ErrInputIndexOutOfRange = errors.New("graph: input index out of range")

	// ErrOutputIndexOutOfRange indicates an output port index outside
	// the operator's declared Outputs()/TriggerOutputs().
	ErrOutputIndexOutOfRange = errors.New("graph: output index out of range")

	// ErrIncompatibleKinds indicates a source output's resolved Kind
	// cannot satisfy the destination input's Constraint, even with an
	// automatic conversion node inserted.
	ErrIncompatibleKinds = errors.New("graph: incompatible value kinds")

	// ErrCycleDetected indicates a connect would close a cycle in the
	// node/value dependency graph.
	ErrCycleDetected = errors.New("graph: cycle detected")

	// ErrNotConnected indicates a disconnect referenced a connection
	// that does not exist.
	ErrNotConnected = errors.New("graph: connection not found")
)
