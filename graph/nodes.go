package graph

import (
	"sort"

	"github.com/fluxrt/fluxrt/id"
	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

// AddNode wraps op in a new Node, assigns it a fresh NodeID, and
// inserts it into the graph. The node starts unbypassed, with every
// output's Kind resolved against the operator's default (unconnected)
// input state.
func (g *Graph) AddNode(op operator.Operator) NodeID {
	n := &Node{ID: id.New(), Op: op}

	g.muNodes.Lock()
	g.nodes[n.ID] = n
	g.resolveKinds(n.ID)
	g.muNodes.Unlock()

	g.markTopoDirty()
	g.emit(Event{Kind: EventNodeAdded, Node: n.ID})
	return n.ID
}

// RemoveNode deletes node n and every connection touching it (as both
// source and destination), dropping its cache entries and dirty flags.
func (g *Graph) RemoveNode(n NodeID) error {
	g.muNodes.Lock()
	_, ok := g.nodes[n]
	if !ok {
		g.muNodes.Unlock()
		return ErrNodeNotFound
	}
	downstream := g.downstreamClosureLocked(n)
	delete(g.nodes, n)
	for _, other := range g.nodes {
		for _, in := range other.Op.Inputs() {
			remaining := in.Sources()[:0:0]
			for _, src := range in.Sources() {
				if src.Node != n {
					remaining = append(remaining, src)
				}
			}
			in.Clear()
			for _, src := range remaining {
				in.AddSource(src)
			}
		}
		for _, out := range other.Op.TriggerOutputs() {
			for _, tgt := range out.Targets() {
				if tgt.Node == n {
					out.Disconnect(tgt)
				}
			}
		}
	}
	g.muNodes.Unlock()

	g.CacheInvalidateLocked(n)
	for _, d := range downstream {
		g.CacheInvalidateLocked(d)
	}
	g.markTopoDirty()
	g.emit(Event{Kind: EventNodeRemoved, Node: n})
	return nil
}

// HasNode reports whether n is present in the graph.
func (g *Graph) HasNode(n NodeID) bool {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	_, ok := g.nodes[n]
	return ok
}

// Nodes returns every node ID currently in the graph, in a stable,
// lexicographically sorted (by hex string) order.
func (g *Graph) Nodes() []NodeID {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	out := make([]NodeID, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Operator returns the operator wrapped by node n.
func (g *Graph) Operator(n NodeID) (operator.Operator, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	node, ok := g.nodes[n]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return node.Op, nil
}

// Bypassed reports whether node n is currently bypassed.
func (g *Graph) Bypassed(n NodeID) (bool, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	node, ok := g.nodes[n]
	if !ok {
		return false, ErrNodeNotFound
	}
	return node.Bypassed, nil
}

// SetBypassed sets node n's bypass flag. A bypassed node is transparent
// to evaluation: its outputs resolve to its first connected input's
// value (or that input's default), and compute is never called.
func (g *Graph) SetBypassed(n NodeID, bypassed bool) error {
	g.muNodes.Lock()
	node, ok := g.nodes[n]
	if !ok {
		g.muNodes.Unlock()
		return ErrNodeNotFound
	}
	node.Bypassed = bypassed
	for _, f := range node.outDirty {
		f.MarkDirty()
	}
	g.invalidateCacheTransitiveLocked(n)
	g.muNodes.Unlock()
	return nil
}

// InputKind returns the resolved Kind currently flowing into input
// inIdx of node n (caller must call TopoOrder or Evaluate first so
// resolution is up to date; this does not itself trigger resolution).
func (g *Graph) InputKind(n NodeID, inIdx int) (value.Kind, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	node, ok := g.nodes[n]
	if !ok {
		return value.Float, ErrNodeNotFound
	}
	if inIdx < 0 || inIdx >= len(node.inputKinds) {
		return value.Float, ErrInputIndexOutOfRange
	}
	return node.inputKinds[inIdx], nil
}

// OutputKind returns node n's resolved Kind for output outIdx.
func (g *Graph) OutputKind(n NodeID, outIdx int) (value.Kind, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	node, ok := g.nodes[n]
	if !ok {
		return value.Float, ErrNodeNotFound
	}
	if outIdx < 0 || outIdx >= len(node.outputKinds) {
		return value.Float, ErrOutputIndexOutOfRange
	}
	return node.outputKinds[outIdx], nil
}

// InputPort returns input port inIdx of node n.
func (g *Graph) InputPort(n NodeID, inIdx int) (*port.InputPort, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	node, ok := g.nodes[n]
	if !ok {
		return nil, ErrNodeNotFound
	}
	ins := node.Op.Inputs()
	if inIdx < 0 || inIdx >= len(ins) {
		return nil, ErrInputIndexOutOfRange
	}
	return ins[inIdx], nil
}

func (g *Graph) emit(e Event) {
	g.muEvents.Lock()
	g.events = append(g.events, e)
	g.muEvents.Unlock()
}

// DrainEvents returns every event queued since the last drain, in
// emission order, and clears the queue.
func (g *Graph) DrainEvents() []Event {
	g.muEvents.Lock()
	defer g.muEvents.Unlock()
	out := g.events
	g.events = nil
	return out
}

// TopoOrder returns the graph's nodes in dependency order (every
// node's upstream dependencies precede it), recomputing the cached
// order first if the graph has changed since the last call.
func (g *Graph) TopoOrder() ([]NodeID, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	if err := g.ensureTopoOrder(); err != nil {
		return nil, err
	}
	g.muTopo.RLock()
	defer g.muTopo.RUnlock()
	out := make([]NodeID, len(g.topoOrder))
	copy(out, g.topoOrder)
	return out, nil
}
