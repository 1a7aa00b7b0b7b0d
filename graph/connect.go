package graph

import (
	"fmt"

	"github.com/fluxrt/fluxrt/id"
	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

// Connect wires output srcOut of node src to input dstIn of node dst.
// If the source's resolved Kind does not satisfy the destination
// port's Constraint directly but a conversion exists (value.CanCoerceTo
// against the constraint's Exact kind), Connect transparently inserts a
// conversion node between them and wires through it. ConnectDirect
// skips that step and fails on any mismatch.
//
// Connecting a single-input port that already has a source replaces
// the prior connection; connecting a multi-input port appends,
// including when (src, srcOut) duplicates an existing source exactly.
//
// If the connection would close a cycle, Connect returns
// ErrCycleDetected and the graph is left exactly as it was before the
// call — including when a multi-input's prior n sources must be
// restored to exactly n after a rolled-back append.
//
// When a conversion node is transparently inserted, Connect returns its
// NodeID as the second result; otherwise it returns the zero NodeID.
func (g *Graph) Connect(src NodeID, srcOut int, dst NodeID, dstIn int) (NodeID, error) {
	return g.connect(src, srcOut, dst, dstIn, true)
}

// ConnectDirect behaves like Connect but never inserts a conversion
// node; an incompatible Kind pair returns ErrIncompatibleKinds. Since
// this path never inserts anything, it returns only an error and no
// NodeID.
func (g *Graph) ConnectDirect(src NodeID, srcOut int, dst NodeID, dstIn int) error {
	_, err := g.connect(src, srcOut, dst, dstIn, false)
	return err
}

func (g *Graph) connect(src NodeID, srcOut int, dst NodeID, dstIn int, allowConvert bool) (NodeID, error) {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	srcNode, ok := g.nodes[src]
	if !ok {
		return NodeID{}, fmt.Errorf("graph: connect source: %w", ErrNodeNotFound)
	}
	dstNode, ok := g.nodes[dst]
	if !ok {
		return NodeID{}, fmt.Errorf("graph: connect destination: %w", ErrNodeNotFound)
	}
	if srcOut < 0 || srcOut >= len(srcNode.Op.Outputs()) {
		return NodeID{}, fmt.Errorf("graph: connect source output: %w", ErrOutputIndexOutOfRange)
	}
	ins := dstNode.Op.Inputs()
	if dstIn < 0 || dstIn >= len(ins) {
		return NodeID{}, fmt.Errorf("graph: connect destination input: %w", ErrInputIndexOutOfRange)
	}
	in := ins[dstIn]

	// Resolution must be current before we reason about Kinds.
	if err := g.ensureTopoOrderLocked(); err != nil {
		return NodeID{}, err
	}

	srcKind := srcNode.outputKinds[srcOut]
	actualSrc, actualOut := src, srcOut
	insertedConv := NodeID{}
	haveInsertedConv := false
	if !in.Constraint.Accepts(srcKind) {
		if !allowConvert {
			return NodeID{}, fmt.Errorf("graph: %w: output Kind %s does not satisfy input %q",
				ErrIncompatibleKinds, srcKind, in.Name)
		}
		target, ok := conversionTarget(in.Constraint, srcKind)
		if !ok {
			return NodeID{}, fmt.Errorf("graph: %w: no conversion from %s satisfies input %q",
				ErrIncompatibleKinds, srcKind, in.Name)
		}
		insertedConv = g.insertConversionLocked(src, srcOut, srcKind, target)
		haveInsertedConv = true
		actualSrc, actualOut = insertedConv, 0
	}

	snapshot := in.Sources()
	if !in.Multi {
		in.Clear()
	}
	in.AddSource(port.Source{Node: actualSrc, Output: actualOut})

	if g.hasCycleLocked() {
		in.Clear()
		for _, s := range snapshot {
			in.AddSource(s)
		}
		if haveInsertedConv {
			delete(g.nodes, insertedConv)
		}
		return NodeID{}, fmt.Errorf("graph: connect %s output %d -> %s input %d: %w", src, srcOut, dst, dstIn, ErrCycleDetected)
	}

	g.topoDirty = true
	if err := g.ensureTopoOrderLocked(); err != nil {
		// Defensive: hasCycleLocked found no cycle yet the Kahn pass
		// could not make full progress. Roll back the same way.
		in.Clear()
		for _, s := range snapshot {
			in.AddSource(s)
		}
		if haveInsertedConv {
			delete(g.nodes, insertedConv)
		}
		g.topoDirty = true
		_ = g.ensureTopoOrderLocked()
		return NodeID{}, err
	}

	g.invalidateCacheTransitiveLocked(dst)
	if haveInsertedConv {
		g.emitLocked(Event{
			Kind:           EventConversionInserted,
			ConversionNode: insertedConv,
			SourceKind:     srcKind,
			TargetKind:     actualSrcTargetKind(insertedConv, g, srcKind),
		})
	}
	g.emitLocked(Event{Kind: EventConnected, SrcNode: src, SrcOutput: srcOut, DstNode: dst, DstInput: dstIn})
	return insertedConv, nil
}

// actualSrcTargetKind returns the conversion node's output Kind, used
// only to annotate the ConversionInserted event; conv is known to
// exist and have exactly one output at this point.
func actualSrcTargetKind(conv NodeID, g *Graph, fallback value.Kind) value.Kind {
	n, ok := g.nodes[conv]
	if !ok || len(n.outputKinds) == 0 {
		return fallback
	}
	return n.outputKinds[0]
}

// conversionTarget picks a concrete Kind that both satisfies c and is
// reachable from srcKind via value.Coerce. Only ExactConstraint names a
// single unambiguous target; broader category constraints (Numeric,
// Vector, ...) have no canonical single Kind to convert into, so no
// conversion node is inserted for them — the caller must match the
// category directly or use an ExactConstraint input.
func conversionTarget(c port.Constraint, srcKind value.Kind) (value.Kind, bool) {
	if c.Kind != port.ExactConstraint {
		return srcKind, false
	}
	if !value.CanCoerceTo(srcKind, c.Exact) {
		return srcKind, false
	}
	return c.Exact, true
}

// Disconnect removes the connection from output srcOut of src to input
// dstIn of dst. If the same source is connected more than once on a
// multi-input port, only the earliest occurrence is removed (by
// RemoveSource's contract); later duplicates stay connected.
func (g *Graph) Disconnect(src NodeID, srcOut int, dst NodeID, dstIn int) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	dstNode, ok := g.nodes[dst]
	if !ok {
		return ErrNodeNotFound
	}
	ins := dstNode.Op.Inputs()
	if dstIn < 0 || dstIn >= len(ins) {
		return ErrInputIndexOutOfRange
	}
	in := ins[dstIn]
	if !in.RemoveSource(port.Source{Node: src, Output: srcOut}) {
		return ErrNotConnected
	}

	g.topoDirty = true
	g.invalidateCacheTransitiveLocked(dst)
	g.emitLocked(Event{Kind: EventDisconnected, SrcNode: src, SrcOutput: srcOut, DstNode: dst, DstInput: dstIn})
	return nil
}

// insertConversionLocked adds a conversion node from (src, srcOut),
// whose resolved output Kind is srcKind, to target, and returns its
// NodeID. Caller must already hold muNodes for writing.
func (g *Graph) insertConversionLocked(src NodeID, srcOut int, srcKind, target value.Kind) NodeID {
	op := newConversionOp(srcKind, target)
	n := &Node{ID: id.New(), Op: op}
	g.nodes[n.ID] = n

	in := n.Op.Inputs()[0]
	in.AddSource(port.Source{Node: src, Output: srcOut})
	g.resolveKinds(n.ID)
	return n.ID
}

// ensureTopoOrderLocked is ensureTopoOrder for callers that already
// hold muNodes (read or write); it still takes muTopo itself.
func (g *Graph) ensureTopoOrderLocked() error {
	return g.ensureTopoOrder()
}

// emitLocked queues an event; callers holding muNodes use this instead
// of emit to avoid a redundant lock/unlock round trip.
func (g *Graph) emitLocked(e Event) {
	g.muEvents.Lock()
	g.events = append(g.events, e)
	g.muEvents.Unlock()
}

// CacheInvalidateLocked is CacheInvalidate for callers already holding
// muNodes.
func (g *Graph) CacheInvalidateLocked(n NodeID) {
	g.muCache.Lock()
	delete(g.cache, n)
	g.muCache.Unlock()
}
