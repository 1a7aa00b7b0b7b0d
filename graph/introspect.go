package graph

import (
	"sort"

	"github.com/fluxrt/fluxrt/value"
)

// Connection describes one installed value-port edge, as returned by
// Connections for introspection (serialization, editors, tests).
type Connection struct {
	SrcNode   NodeID
	SrcOutput int
	DstNode   NodeID
	DstInput  int
}

// Connections returns every installed value connection currently in
// the graph, in a stable order: destination node (hex string), then
// destination input index, then source insertion order.
func (g *Graph) Connections() []Connection {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()

	var out []Connection
	dstIDs := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		dstIDs = append(dstIDs, id)
	}
	sort.Slice(dstIDs, func(i, j int) bool { return dstIDs[i].String() < dstIDs[j].String() })

	for _, dst := range dstIDs {
		node := g.nodes[dst]
		for inIdx, in := range node.Op.Inputs() {
			for _, src := range in.Sources() {
				out = append(out, Connection{SrcNode: src.Node, SrcOutput: src.Output, DstNode: dst, DstInput: inIdx})
			}
		}
	}
	return out
}

// UpstreamOf returns the distinct set of nodes that n's connected value
// inputs depend on directly (one hop, not the transitive closure),
// in a stable, sorted order.
func (g *Graph) UpstreamOf(n NodeID) []NodeID {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	deps := g.dependencies(n)
	sort.Slice(deps, func(i, j int) bool { return deps[i].String() < deps[j].String() })
	return deps
}

// DownstreamOf returns the distinct set of nodes with a value input
// connected directly to one of n's outputs (one hop), in a stable,
// sorted order.
func (g *Graph) DownstreamOf(n NodeID) []NodeID {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()

	seen := make(map[NodeID]struct{})
	var out []NodeID
	for id, node := range g.nodes {
		for _, in := range node.Op.Inputs() {
			for _, src := range in.Sources() {
				if src.Node != n {
					continue
				}
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Touch marks the graph's topological order dirty and invalidates n's
// cache entries. It exists for callers (the command package) that
// mutate a port's source list directly via the *port.InputPort handle
// returned by InputPort, bypassing Connect/Disconnect's own bookkeeping
// in order to restore exact prior state on undo.
func (g *Graph) Touch(n NodeID) {
	g.markTopoDirty()
	g.invalidateCacheTransitive(n)
}

// NodeCount reports how many nodes are currently in the graph.
func (g *Graph) NodeCount() int {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	return len(g.nodes)
}

// ClearCache discards every cached output value for every node, across
// every call context, where CacheInvalidate(n) drops only n's entries.
// Like CacheInvalidate, it does not mark the topological order dirty —
// it only forces the next Evaluate of each node to treat its cache as
// empty.
func (g *Graph) ClearCache() {
	g.muCache.Lock()
	defer g.muCache.Unlock()
	g.cache = make(map[NodeID]map[string][]value.Value)
}

// ClearEvents discards every queued event without returning them.
func (g *Graph) ClearEvents() {
	g.muEvents.Lock()
	defer g.muEvents.Unlock()
	g.events = nil
}

// HasPendingEvents reports whether at least one event is queued.
func (g *Graph) HasPendingEvents() bool {
	g.muEvents.Lock()
	defer g.muEvents.Unlock()
	return len(g.events) > 0
}

// PendingEventCount reports how many events are currently queued.
func (g *Graph) PendingEventCount() int {
	g.muEvents.Lock()
	defer g.muEvents.Unlock()
	return len(g.events)
}
