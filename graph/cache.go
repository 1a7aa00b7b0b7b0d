package graph

import (
	"github.com/fluxrt/fluxrt/dirtyflag"
	"github.com/fluxrt/fluxrt/value"
)

// ensureDirtyFlags grows node.outDirty to match the current number of
// outputs, creating a fresh Flag (in the graph's default mode) for any
// output that doesn't have one yet. Existing flags are left untouched
// so their version counters survive a kind re-resolution.
func (g *Graph) ensureDirtyFlags(node *Node) {
	for len(node.outDirty) < len(node.outputKinds) {
		node.outDirty = append(node.outDirty, dirtyflag.New(g.defaultMode))
	}
	if len(node.outDirty) > len(node.outputKinds) {
		node.outDirty = node.outDirty[:len(node.outputKinds)]
	}
}

// DirtyFlag returns the dirtyflag.Flag tracking output outIdx of node n.
func (g *Graph) DirtyFlag(n NodeID, outIdx int) (*dirtyflag.Flag, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()
	node, ok := g.nodes[n]
	if !ok {
		return nil, ErrNodeNotFound
	}
	if outIdx < 0 || outIdx >= len(node.outDirty) {
		return nil, ErrOutputIndexOutOfRange
	}
	return node.outDirty[outIdx], nil
}

// cacheKey returns the map key for (n, callCtxKey) cache lookups.
func cacheKey(n NodeID, callCtxKey string) (NodeID, string) { return n, callCtxKey }

// CacheGet returns the cached output values for node n under the given
// call-context key, if present.
func (g *Graph) CacheGet(n NodeID, callCtxKey string) ([]value.Value, bool) {
	g.muCache.RLock()
	defer g.muCache.RUnlock()
	byCtx, ok := g.cache[n]
	if !ok {
		return nil, false
	}
	vals, ok := byCtx[callCtxKey]
	return vals, ok
}

// CacheSet stores vals as node n's output values under callCtxKey.
func (g *Graph) CacheSet(n NodeID, callCtxKey string, vals []value.Value) {
	g.muCache.Lock()
	defer g.muCache.Unlock()
	byCtx, ok := g.cache[n]
	if !ok {
		byCtx = make(map[string][]value.Value)
		g.cache[n] = byCtx
	}
	byCtx[callCtxKey] = vals
}

// CacheInvalidate drops every cached value for node n, across all call
// contexts. Used when a node's inputs change shape (reconnect) and its
// prior cache entries can no longer be trusted.
func (g *Graph) CacheInvalidate(n NodeID) {
	g.muCache.Lock()
	defer g.muCache.Unlock()
	delete(g.cache, n)
}
