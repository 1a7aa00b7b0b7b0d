// Package associated composes a *graph.Graph with a bijective mapping
// between a host-defined external id type and the graph's internal
// NodeID, keeping both directions coherent across every add/remove/
// connect call. The mapping is generic over the external id type
// because it is genuinely host-defined — a plain string-keyed map
// would erase it, reintroducing the stringly-typed problem a named id
// type exists to avoid.
package associated

import (
	"errors"

	"github.com/fluxrt/fluxrt/graph"
	"github.com/fluxrt/fluxrt/operator"
)

// ErrUnknownExternalID indicates an operation referenced an external id
// with no corresponding internal node.
var ErrUnknownExternalID = errors.New("associated: unknown external id")

// Associated wraps a *graph.Graph with a bijective ExtID <-> NodeID map.
// Every method that can change the node set keeps both directions in
// lockstep; a node is never present in one map without the other.
type Associated[ExtID comparable] struct {
	g          *graph.Graph
	toInternal map[ExtID]graph.NodeID
	toExternal map[graph.NodeID]ExtID
}

// New wraps g (which may already contain nodes the caller will
// register separately via Adopt) with empty id maps.
func New[ExtID comparable](g *graph.Graph) *Associated[ExtID] {
	return &Associated[ExtID]{
		g:          g,
		toInternal: make(map[ExtID]graph.NodeID),
		toExternal: make(map[graph.NodeID]ExtID),
	}
}

// Graph returns the wrapped graph, for callers that need an API this
// wrapper doesn't re-expose (e.g. Evaluate).
func (a *Associated[ExtID]) Graph() *graph.Graph { return a.g }

// Add creates a new node wrapping op, registers it under ext, and
// returns the assigned internal NodeID. It panics if ext is already
// registered — a caller asking to add the same external id twice is a
// programmer error the wrapper cannot silently resolve, since which of
// the two internal nodes "is" ext would be ambiguous.
func (a *Associated[ExtID]) Add(ext ExtID, op operator.Operator) graph.NodeID {
	if _, exists := a.toInternal[ext]; exists {
		panic("associated: external id already registered")
	}
	id := a.g.AddNode(op)
	a.toInternal[ext] = id
	a.toExternal[id] = ext
	return id
}

// Adopt registers an already-present internal node under ext, for
// graphs built partly outside this wrapper. It panics if ext or id is
// already registered, for the same reason as Add.
func (a *Associated[ExtID]) Adopt(ext ExtID, id graph.NodeID) {
	if _, exists := a.toInternal[ext]; exists {
		panic("associated: external id already registered")
	}
	if _, exists := a.toExternal[id]; exists {
		panic("associated: internal id already registered")
	}
	a.toInternal[ext] = id
	a.toExternal[id] = ext
}

// Remove deletes the node registered under ext (by either id — see
// RemoveInternal) and drops both map entries.
func (a *Associated[ExtID]) Remove(ext ExtID) error {
	id, ok := a.toInternal[ext]
	if !ok {
		return ErrUnknownExternalID
	}
	return a.removeInternal(id)
}

// RemoveInternal deletes the node by its internal id, dropping both
// map entries if it was registered (an unregistered node is removed
// from the graph but leaves no mapping to clean up).
func (a *Associated[ExtID]) RemoveInternal(id graph.NodeID) error {
	return a.removeInternal(id)
}

func (a *Associated[ExtID]) removeInternal(id graph.NodeID) error {
	if err := a.g.RemoveNode(id); err != nil {
		return err
	}
	if ext, ok := a.toExternal[id]; ok {
		delete(a.toExternal, id)
		delete(a.toInternal, ext)
	}
	return nil
}

// Internal resolves ext to its internal NodeID.
func (a *Associated[ExtID]) Internal(ext ExtID) (graph.NodeID, bool) {
	id, ok := a.toInternal[ext]
	return id, ok
}

// External resolves an internal NodeID to its external id.
func (a *Associated[ExtID]) External(id graph.NodeID) (ExtID, bool) {
	ext, ok := a.toExternal[id]
	return ext, ok
}

// Connect wires srcExt's output to dstExt's input, resolving both
// through the external map first.
func (a *Associated[ExtID]) Connect(srcExt ExtID, srcOut int, dstExt ExtID, dstIn int) error {
	src, ok := a.toInternal[srcExt]
	if !ok {
		return ErrUnknownExternalID
	}
	dst, ok := a.toInternal[dstExt]
	if !ok {
		return ErrUnknownExternalID
	}
	_, err := a.g.Connect(src, srcOut, dst, dstIn)
	return err
}

// Disconnect removes the connection between srcExt's output and
// dstExt's input.
func (a *Associated[ExtID]) Disconnect(srcExt ExtID, srcOut int, dstExt ExtID, dstIn int) error {
	src, ok := a.toInternal[srcExt]
	if !ok {
		return ErrUnknownExternalID
	}
	dst, ok := a.toInternal[dstExt]
	if !ok {
		return ErrUnknownExternalID
	}
	return a.g.Disconnect(src, srcOut, dst, dstIn)
}

// Len reports how many external ids are currently registered.
func (a *Associated[ExtID]) Len() int { return len(a.toInternal) }
