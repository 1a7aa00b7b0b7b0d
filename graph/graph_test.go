package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluxrt/fluxrt/graph"
	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/value"
)

func TestAddNodeAndTopoOrder(t *testing.T) {
	g := graph.New()
	a := g.AddNode(newConstOp(value.Float, value.NewFloat(1)))
	b := g.AddNode(newPassOp())
	convID, err := g.Connect(a, 0, b, 0)
	require.NoError(t, err)
	require.Equal(t, graph.NodeID{}, convID, "no conversion node is needed for a same-Kind connection")

	order, err := g.TopoOrder()
	require.NoError(t, err)
	require.Equal(t, []graph.NodeID{a, b}, order, "a must precede b, its only dependent")
}

func TestConnectRejectsCycle(t *testing.T) {
	g := graph.New()
	a := g.AddNode(newPassOp())
	b := g.AddNode(newPassOp())
	_, err := g.Connect(a, 0, b, 0)
	require.NoError(t, err)

	_, err = g.Connect(b, 0, a, 0)
	require.ErrorIs(t, err, graph.ErrCycleDetected)

	stats := g.Stats()
	require.Equal(t, 1, stats.ValueEdgeCount, "the rejected connection must not have partially applied")
}

func TestConnectRollbackRestoresMultiInputCount(t *testing.T) {
	g := graph.New()
	multi := newMultiSumOp()
	m := g.AddNode(multi)
	s1 := g.AddNode(newConstOp(value.Float, value.NewFloat(1)))
	s2 := g.AddNode(newConstOp(value.Float, value.NewFloat(2)))
	_, err := g.Connect(s1, 0, m, 0)
	require.NoError(t, err)
	_, err = g.Connect(s2, 0, m, 0)
	require.NoError(t, err)

	// Make m feed into a pass node, then try to connect that pass node
	// back into m's multi-input: this would close a cycle and should
	// roll back to exactly the 2 prior sources.
	p := g.AddNode(newPassOp())
	_, err = g.Connect(m, 0, p, 0)
	require.NoError(t, err)

	_, err = g.Connect(p, 0, m, 0)
	require.ErrorIs(t, err, graph.ErrCycleDetected)

	in, ierr := g.InputPort(m, 0)
	require.NoError(t, ierr)
	require.Len(t, in.Sources(), 2, "multi-input must return to exactly its prior 2 sources")
}

func TestConnectInsertsConversionNodeForExactConstraint(t *testing.T) {
	g := graph.New()
	src := g.AddNode(newConstOp(value.Float, value.NewFloat(3.9)))
	dst := g.AddNode(newExactIntOp())

	before := g.Stats().NodeCount
	convID, err := g.Connect(src, 0, dst, 0)
	require.NoError(t, err)
	after := g.Stats().NodeCount
	require.Equal(t, before+1, after, "Connect should insert one conversion node")
	require.NotEqual(t, graph.NodeID{}, convID, "Connect must return the inserted conversion node's id")

	in, err := g.InputPort(dst, 0)
	require.NoError(t, err)
	srcs := in.Sources()
	require.Len(t, srcs, 1)
	require.Equal(t, convID, srcs[0].Node, "destination is wired to the returned conversion node")
	require.NotEqual(t, src, srcs[0].Node, "destination is wired to the conversion node, not the original source")
}

func TestConnectDirectRejectsIncompatibleKinds(t *testing.T) {
	g := graph.New()
	src := g.AddNode(newConstOp(value.Gradient, value.NewGradient(nil)))
	dst := g.AddNode(newExactIntOp())

	err := g.ConnectDirect(src, 0, dst, 0)
	require.ErrorIs(t, err, graph.ErrIncompatibleKinds)
}

func TestDisconnectRemovesOnlyFirstMatch(t *testing.T) {
	g := graph.New()
	multi := newMultiSumOp()
	m := g.AddNode(multi)
	s := g.AddNode(newConstOp(value.Float, value.NewFloat(1)))
	_, err := g.Connect(s, 0, m, 0)
	require.NoError(t, err)
	_, err = g.Connect(s, 0, m, 0) // duplicate append
	require.NoError(t, err)

	require.NoError(t, g.Disconnect(s, 0, m, 0))
	in, err := g.InputPort(m, 0)
	require.NoError(t, err)
	require.Len(t, in.Sources(), 1, "one duplicate occurrence remains after removing the first")
}

func TestRemoveNodeDropsDownstreamConnections(t *testing.T) {
	g := graph.New()
	a := g.AddNode(newConstOp(value.Float, value.NewFloat(1)))
	b := g.AddNode(newPassOp())
	_, err := g.Connect(a, 0, b, 0)
	require.NoError(t, err)

	require.NoError(t, g.RemoveNode(a))
	require.False(t, g.HasNode(a))

	in, err := g.InputPort(b, 0)
	require.NoError(t, err)
	require.Empty(t, in.Sources())
}

func TestBypassMarksOutputsDirty(t *testing.T) {
	g := graph.New()
	n := g.AddNode(newPassOp())
	flag, err := g.DirtyFlag(n, 0)
	require.NoError(t, err)
	flag.MarkClean(0, 0)
	require.NoError(t, g.SetBypassed(n, true))
	require.True(t, flag.IsStale(0, 0))

	bypassed, err := g.Bypassed(n)
	require.NoError(t, err)
	require.True(t, bypassed)
}

func TestFireTriggerNeverInvokesTheFiringNode(t *testing.T) {
	g := graph.New()
	var fires int
	a := g.AddNode(newTriggerOp(&fires))
	b := g.AddNode(newTriggerOp(&fires))
	require.NoError(t, g.ConnectTrigger(a, 0, b, 0))

	ctx := operator.NewEvalContext(nil)
	require.NoError(t, g.FireTrigger(a, 0, ctx))
	require.Equal(t, 1, fires, "firing a's output must invoke only b, never a's own OnTrigger")
}

func TestFireTriggerCascadesThroughMultipleHops(t *testing.T) {
	g := graph.New()
	var fires int
	a := g.AddNode(newTriggerOp(&fires))
	b := g.AddNode(newTriggerOp(&fires))
	c := g.AddNode(newTriggerOp(&fires))
	require.NoError(t, g.ConnectTrigger(a, 0, b, 0))
	require.NoError(t, g.ConnectTrigger(b, 0, c, 0))

	ctx := operator.NewEvalContext(nil)
	require.NoError(t, g.FireTrigger(a, 0, ctx))
	require.Equal(t, 2, fires, "b fires directly, then its own output cascades into c")
}

func TestFireTriggerEntryNodeNeedsNoTriggerInput(t *testing.T) {
	g := graph.New()
	var fires int
	s := g.AddNode(newTriggerSourceOp())
	t1 := g.AddNode(newTriggerOp(&fires))
	require.NoError(t, g.ConnectTrigger(s, 0, t1, 0))

	ctx := operator.NewEvalContext(nil)
	require.NoError(t, g.FireTrigger(s, 0, ctx), "a node with only a trigger output must be a valid fire entry point")
	require.Equal(t, 1, fires)
}

func TestConnectTriggerDedupes(t *testing.T) {
	g := graph.New()
	var fires int
	a := g.AddNode(newTriggerOp(&fires))
	b := g.AddNode(newTriggerOp(&fires))
	require.NoError(t, g.ConnectTrigger(a, 0, b, 0))
	require.NoError(t, g.ConnectTrigger(a, 0, b, 0))

	ctx := operator.NewEvalContext(nil)
	require.NoError(t, g.FireTrigger(a, 0, ctx))
	require.Equal(t, 1, fires, "a duplicate trigger connection must not double-fire")
}
