package graph

import (
	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

// SetInputDefault sets input idx of node n's fallback value, used
// whenever that input has no connected source. It reports false (no
// error) if n or idx does not exist, so hosts scrubbing many inputs in
// a UI don't need to branch on error wrapping for an out-of-range index.
func (g *Graph) SetInputDefault(n NodeID, idx int, v value.Value) bool {
	g.muNodes.Lock()
	node, ok := g.nodes[n]
	if !ok {
		g.muNodes.Unlock()
		return false
	}
	ins := node.Op.Inputs()
	if idx < 0 || idx >= len(ins) {
		g.muNodes.Unlock()
		return false
	}
	ins[idx].Default = v
	g.topoDirty = true
	g.invalidateCacheTransitiveLocked(n)
	g.muNodes.Unlock()

	g.emit(Event{Kind: EventInputDefaultChanged, Node: n, Input: idx, Value: v})
	return true
}

// GetInputOverride returns the UI-hint override for input idx of node
// n, if one has been set.
func (g *Graph) GetInputOverride(n NodeID, idx int) (port.Override, bool) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	node, ok := g.nodes[n]
	if !ok {
		return port.Override{}, false
	}
	ov, ok := node.overrides[idx]
	return ov, ok
}

// SetInputOverride records a UI-hint override for input idx of node n.
// It reports false if n does not exist; overrides carry no semantic
// weight for connect/evaluate and are never validated against the
// port's declared Kind.
func (g *Graph) SetInputOverride(n NodeID, idx int, ov port.Override) bool {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	node, ok := g.nodes[n]
	if !ok {
		return false
	}
	if node.overrides == nil {
		node.overrides = make(map[int]port.Override)
	}
	node.overrides[idx] = ov
	return true
}

// ClearInputOverride removes any override set for input idx of node n.
func (g *Graph) ClearInputOverride(n NodeID, idx int) bool {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	node, ok := g.nodes[n]
	if !ok {
		return false
	}
	delete(node.overrides, idx)
	return true
}
