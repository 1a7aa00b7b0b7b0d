package graph

import (
	"fmt"

	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

// dfsState is the three-color marking (White/Gray/Black) used by
// cycle detection.
type dfsState int

const (
	white dfsState = iota
	gray
	black
)

// hasCycleLocked runs a 3-color DFS (White/Gray/Black) over the
// current node dependency graph and reports whether any cycle exists.
// Connect calls this immediately after tentatively wiring a new
// source, so a cycle found here can only involve the edge just added
// — the graph was acyclic before that mutation.
func (g *Graph) hasCycleLocked() bool {
	state := make(map[NodeID]dfsState, len(g.nodes))
	var visit func(n NodeID) bool
	visit = func(n NodeID) bool {
		switch state[n] {
		case gray:
			return true
		case black:
			return false
		}
		state[n] = gray
		for _, dep := range g.dependencies(n) {
			if visit(dep) {
				return true
			}
		}
		state[n] = black
		return false
	}
	for n := range g.nodes {
		if state[n] == white {
			if visit(n) {
				return true
			}
		}
	}
	return false
}

// dependencies returns the distinct nodes that feed any connected value
// input of n (duplicates from multi-input fan-in collapsed).
func (g *Graph) dependencies(n NodeID) []NodeID {
	node, ok := g.nodes[n]
	if !ok {
		return nil
	}
	seen := make(map[NodeID]struct{})
	var out []NodeID
	for _, in := range node.Op.Inputs() {
		for _, src := range in.Sources() {
			if _, dup := seen[src.Node]; dup {
				continue
			}
			seen[src.Node] = struct{}{}
			out = append(out, src.Node)
		}
	}
	return out
}

// downstreamClosureLocked returns every node transitively downstream of
// n — every node that depends, directly or through some chain, on one
// of n's outputs — not including n itself. Callers must hold muNodes
// (read or write).
func (g *Graph) downstreamClosureLocked(n NodeID) []NodeID {
	seen := make(map[NodeID]struct{})
	var out []NodeID
	var visit func(cur NodeID)
	visit = func(cur NodeID) {
		for id, node := range g.nodes {
			for _, in := range node.Op.Inputs() {
				for _, src := range in.Sources() {
					if src.Node != cur {
						continue
					}
					if _, dup := seen[id]; dup {
						continue
					}
					seen[id] = struct{}{}
					out = append(out, id)
					visit(id)
					break
				}
			}
		}
	}
	visit(n)
	return out
}

// invalidateCacheTransitiveLocked drops n's cache entry and every
// transitively downstream node's cache entry. A node's own dirty flag
// only tracks whether its *own* inputs changed; without this, a
// downstream node whose flag is still clean would serve a stale cached
// value even though an upstream mutation changed what it depends on.
// Dropping every affected cache entry forces each of them to miss on
// next evaluation and recompute from the now-current inputs, regardless
// of its own flag state. Callers must hold muNodes (read or write).
func (g *Graph) invalidateCacheTransitiveLocked(n NodeID) {
	g.CacheInvalidateLocked(n)
	for _, d := range g.downstreamClosureLocked(n) {
		g.CacheInvalidateLocked(d)
	}
}

// invalidateCacheTransitive is invalidateCacheTransitiveLocked for
// callers that do not already hold muNodes.
func (g *Graph) invalidateCacheTransitive(n NodeID) {
	g.muNodes.RLock()
	downstream := g.downstreamClosureLocked(n)
	g.muNodes.RUnlock()

	g.CacheInvalidateLocked(n)
	for _, d := range downstream {
		g.CacheInvalidateLocked(d)
	}
}

// markTopoDirty invalidates the cached topological order and resolved
// port kinds; the next call that needs either recomputes them.
func (g *Graph) markTopoDirty() {
	g.muTopo.Lock()
	g.topoDirty = true
	g.muTopo.Unlock()
}

// ensureTopoOrder recomputes, if necessary, the cached topological
// order via Kahn's algorithm, and resolves every polymorphic output
// Kind in the same pass (a node's inputs are all resolved before the
// node itself is visited, so resolution never needs a second pass).
// It must be called with g.muNodes held for reading at least.
func (g *Graph) ensureTopoOrder() error {
	g.muTopo.Lock()
	defer g.muTopo.Unlock()
	if !g.topoDirty {
		return nil
	}

	indegree := make(map[NodeID]int, len(g.nodes))
	dependents := make(map[NodeID][]NodeID, len(g.nodes))
	for n := range g.nodes {
		indegree[n] = 0
	}
	for n := range g.nodes {
		for _, dep := range g.dependencies(n) {
			indegree[n]++
			dependents[dep] = append(dependents[dep], n)
		}
	}

	var queue []NodeID
	for n, d := range indegree {
		if d == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]NodeID, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		g.resolveKinds(n)
		for _, dep := range dependents[n] {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return fmt.Errorf("graph: %w: topological sort made no progress with %d node(s) remaining",
			ErrCycleDetected, len(g.nodes)-len(order))
	}

	g.topoOrder = order
	g.topoDirty = false
	g.emitLocked(Event{Kind: EventOrderRecomputed})
	return nil
}

// resolveKinds recomputes node n's inputKinds from its currently
// connected sources (falling back to each port's Default.Kind()), then
// its outputKinds from those inputKinds. Callers must ensure n's
// upstream dependencies have already been resolved this pass.
func (g *Graph) resolveKinds(n NodeID) {
	node, ok := g.nodes[n]
	if !ok {
		return
	}
	inputs := node.Op.Inputs()
	kinds := make([]value.Kind, len(inputs))
	for i, in := range inputs {
		kinds[i] = g.resolveInputKind(in)
	}
	node.inputKinds = kinds

	outputs := node.Op.Outputs()
	outKinds := make([]value.Kind, len(outputs))
	for i, out := range outputs {
		outKinds[i] = out.ResolvedKind(kinds)
	}
	node.outputKinds = outKinds
	g.ensureDirtyFlags(node)
}

// resolveInputKind reports the Kind currently flowing into in: the
// upstream output's resolved Kind for a single connected source, the
// list-of-element Kind for a connected multi-input, or the port's
// Default.Kind() when nothing is connected.
func (g *Graph) resolveInputKind(in *port.InputPort) value.Kind {
	srcs := in.Sources()
	if len(srcs) == 0 {
		return in.Default.Kind()
	}
	if !in.Multi {
		return g.outputKindOf(srcs[0])
	}
	elemKind := g.outputKindOf(srcs[0])
	if listKind, ok := value.ListKindOf(elemKind); ok {
		return listKind
	}
	return in.Default.Kind()
}

// outputKindOf returns the resolved Kind of the output a Source points
// to, or value.Float if the source node/output is no longer valid.
func (g *Graph) outputKindOf(src port.Source) value.Kind {
	node, ok := g.nodes[src.Node]
	if !ok || src.Output < 0 || src.Output >= len(node.outputKinds) {
		return value.Float
	}
	return node.outputKinds[src.Output]
}
