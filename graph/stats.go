package graph

// GraphStats summarizes the graph's current shape, for introspection
// and tests — not consulted by evaluation itself.
type GraphStats struct {
	NodeCount       int
	ValueEdgeCount  int
	TriggerEdgeCount int
	BypassedCount   int
}

// Stats computes a fresh GraphStats snapshot.
func (g *Graph) Stats() GraphStats {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()

	var s GraphStats
	s.NodeCount = len(g.nodes)
	for _, n := range g.nodes {
		if n.Bypassed {
			s.BypassedCount++
		}
		for _, in := range n.Op.Inputs() {
			s.ValueEdgeCount += in.Len()
		}
		for _, out := range n.Op.TriggerOutputs() {
			s.TriggerEdgeCount += len(out.Targets())
		}
	}
	return s
}
