package graph

import (
	"sync"

	"github.com/fluxrt/fluxrt/dirtyflag"
	"github.com/fluxrt/fluxrt/id"
	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

// NodeID identifies a node within a Graph. It is an alias for id.NodeID
// so callers never need to import the id package directly.
type NodeID = id.NodeID

// Node wraps an operator.Operator with the per-instance state the graph
// needs around it: resolved concrete Kinds for each port (polymorphic
// outputs are resolved once at connect time, not recomputed per eval),
// a bypass flag, and one dirtyflag.Flag per output.
type Node struct {
	ID       NodeID
	Op       operator.Operator
	Bypassed bool

	inputKinds  []value.Kind
	outputKinds []value.Kind
	outDirty    []*dirtyflag.Flag

	// overrides is a sparse per-input-index map of UI hints; absent
	// entries mean "no override set" for that input.
	overrides map[int]port.Override
}

// Event records one structural change to the graph, appended to the
// FIFO event queue for observers that poll via DrainEvents.
type Event struct {
	Kind EventKind
	Node NodeID
	// SrcNode/SrcOutput/DstNode/DstInput carry the endpoint detail for
	// EventConnected/EventDisconnected/EventTriggerConnected/
	// EventTriggerDisconnected.
	SrcNode   NodeID
	SrcOutput int
	DstNode   NodeID
	DstInput  int

	// Input/Value carry the changed input index and new default for
	// EventInputDefaultChanged.
	Input int
	Value value.Value

	// ConversionNode/SourceKind/TargetKind carry detail for
	// EventConversionInserted.
	ConversionNode NodeID
	SourceKind     value.Kind
	TargetKind     value.Kind
}

// EventKind enumerates the structural events a Graph can emit.
type EventKind int

const (
	EventNodeAdded EventKind = iota
	EventNodeRemoved
	EventConnected
	EventDisconnected
	EventInputDefaultChanged
	EventOrderRecomputed
	EventConversionInserted
	EventTriggerConnected
	EventTriggerDisconnected
)

// Option configures a Graph at construction time.
type Option func(g *Graph)

// WithDefaultDirtyMode sets the dirtyflag.Mode newly created node
// outputs start in. The default, if this option is not given, is
// dirtyflag.ModeAnimated.
func WithDefaultDirtyMode(mode dirtyflag.Mode) Option {
	return func(g *Graph) { g.defaultMode = mode }
}

// Graph is the thread-safe dataflow container. It owns nodes, their
// typed connections, the cached topological order used by both the
// pull evaluator and the compiler, the evaluation cache, and a
// structural event queue.
type Graph struct {
	muNodes sync.RWMutex
	nodes   map[NodeID]*Node

	muTopo    sync.RWMutex
	topoOrder []NodeID
	topoDirty bool

	muCache sync.RWMutex
	// cache[node][callContextKey] holds one value.Value per output,
	// positionally aligned with Node.outputKinds.
	cache map[NodeID]map[string][]value.Value

	muEvents sync.Mutex
	events   []Event

	defaultMode dirtyflag.Mode
}

// New returns an empty Graph configured by opts.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:       make(map[NodeID]*Node),
		cache:       make(map[NodeID]map[string][]value.Value),
		defaultMode: dirtyflag.ModeAnimated,
		topoDirty:   true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
