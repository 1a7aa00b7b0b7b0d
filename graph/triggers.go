package graph

import (
	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/port"
)

func triggerTarget(dst NodeID, dstIn int) port.Target {
	return port.Target{Node: dst, Input: dstIn}
}

// ConnectTrigger wires trigger output srcOut of node src to trigger
// input dstIn of node dst. Connecting the same (src, srcOut, dst,
// dstIn) pair twice is a no-op, matching TriggerOutput's own dedup.
func (g *Graph) ConnectTrigger(src NodeID, srcOut int, dst NodeID, dstIn int) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	srcNode, ok := g.nodes[src]
	if !ok {
		return ErrNodeNotFound
	}
	if _, ok := g.nodes[dst]; !ok {
		return ErrNodeNotFound
	}
	outs := srcNode.Op.TriggerOutputs()
	if srcOut < 0 || srcOut >= len(outs) {
		return ErrOutputIndexOutOfRange
	}
	if outs[srcOut].Connect(triggerTarget(dst, dstIn)) {
		g.emitLocked(Event{Kind: EventTriggerConnected, SrcNode: src, SrcOutput: srcOut, DstNode: dst, DstInput: dstIn})
	}
	return nil
}

// DisconnectTrigger removes the trigger connection, if present.
func (g *Graph) DisconnectTrigger(src NodeID, srcOut int, dst NodeID, dstIn int) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	srcNode, ok := g.nodes[src]
	if !ok {
		return ErrNodeNotFound
	}
	outs := srcNode.Op.TriggerOutputs()
	if srcOut < 0 || srcOut >= len(outs) {
		return ErrOutputIndexOutOfRange
	}
	if !outs[srcOut].Disconnect(triggerTarget(dst, dstIn)) {
		return ErrNotConnected
	}
	g.emitLocked(Event{Kind: EventTriggerDisconnected, SrcNode: src, SrcOutput: srcOut, DstNode: dst, DstInput: dstIn})
	return nil
}

// FireTrigger pulses trigger output outIdx of node n: it fans out
// directly to every trigger input connected to that output, invoking
// each target's OnTrigger, then recursively fires whichever further
// trigger outputs each target's OnTrigger names, cascading
// breadth-first. It never invokes n's own OnTrigger — n is the pulse's
// origin, not a target of it — so a node with no trigger inputs at
// all (a pure trigger source) can still be a fire entry point. There is
// no depth limit; a cycle in the trigger graph causes FireTrigger to
// loop forever — callers that build trigger cascades from untrusted
// topology should detect cycles themselves before wiring them (the
// value-port graph's cycle rejection at Connect time has no
// trigger-port equivalent, since a trigger fan-out is not a value
// dependency).
func (g *Graph) FireTrigger(n NodeID, outIdx int, ctx operator.EvalContext) error {
	type pulse struct {
		node NodeID
		in   int
	}

	g.muNodes.RLock()
	node, ok := g.nodes[n]
	if !ok {
		g.muNodes.RUnlock()
		return ErrNodeNotFound
	}
	trigOuts := node.Op.TriggerOutputs()
	if outIdx < 0 || outIdx >= len(trigOuts) {
		g.muNodes.RUnlock()
		return ErrOutputIndexOutOfRange
	}
	var queue []pulse
	for _, tgt := range trigOuts[outIdx].Targets() {
		queue = append(queue, pulse{tgt.Node, tgt.Input})
	}
	g.muNodes.RUnlock()

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		g.muNodes.RLock()
		node, ok := g.nodes[p.node]
		if !ok {
			g.muNodes.RUnlock()
			return ErrNodeNotFound
		}
		trigIns := node.Op.TriggerInputs()
		if p.in < 0 || p.in >= len(trigIns) {
			g.muNodes.RUnlock()
			return ErrInputIndexOutOfRange
		}
		fired := node.Op.OnTrigger(ctx, p.in)
		trigOuts := node.Op.TriggerOutputs()
		var next []pulse
		for _, oi := range fired {
			if oi < 0 || oi >= len(trigOuts) {
				continue
			}
			for _, tgt := range trigOuts[oi].Targets() {
				next = append(next, pulse{tgt.Node, tgt.Input})
			}
		}
		g.muNodes.RUnlock()

		queue = append(queue, next...)
	}
	return nil
}
