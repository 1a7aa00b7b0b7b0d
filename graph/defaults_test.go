package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluxrt/fluxrt/graph"
	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

func TestSetInputDefaultUpdatesValueAndEmitsEvent(t *testing.T) {
	g := graph.New()
	n := g.AddNode(newPassOp())

	ok := g.SetInputDefault(n, 0, value.NewFloat(7))
	require.True(t, ok)

	in, err := g.InputPort(n, 0)
	require.NoError(t, err)
	f, _ := in.Default.AsFloat()
	require.Equal(t, float32(7), f)

	events := g.DrainEvents()
	var found bool
	for _, e := range events {
		if e.Kind == graph.EventInputDefaultChanged {
			found = true
			require.Equal(t, n, e.Node)
			require.Equal(t, 0, e.Input)
		}
	}
	require.True(t, found)
}

func TestSetInputDefaultOutOfRangeReturnsFalse(t *testing.T) {
	g := graph.New()
	n := g.AddNode(newPassOp())
	require.False(t, g.SetInputDefault(n, 5, value.NewFloat(1)))
}

func TestInputOverrideRoundTrip(t *testing.T) {
	g := graph.New()
	n := g.AddNode(newPassOp())

	_, ok := g.GetInputOverride(n, 0)
	require.False(t, ok)

	ov := port.Override{HasRange: true, Range: [2]float32{0, 1}, Label: "Gain", Unit: "dB", Step: 0.1}
	require.True(t, g.SetInputOverride(n, 0, ov))

	got, ok := g.GetInputOverride(n, 0)
	require.True(t, ok)
	require.Equal(t, ov, got)

	require.True(t, g.ClearInputOverride(n, 0))
	_, ok = g.GetInputOverride(n, 0)
	require.False(t, ok)
}

func TestConnectionsUpstreamDownstream(t *testing.T) {
	g := graph.New()
	a := g.AddNode(newConstOp(value.Float, value.NewFloat(1)))
	b := g.AddNode(newPassOp())
	c := g.AddNode(newPassOp())
	_, err := g.Connect(a, 0, b, 0)
	require.NoError(t, err)
	_, err = g.Connect(b, 0, c, 0)
	require.NoError(t, err)

	conns := g.Connections()
	require.Len(t, conns, 2)

	require.Equal(t, []graph.NodeID{a}, g.UpstreamOf(b))
	require.Equal(t, []graph.NodeID{c}, g.DownstreamOf(b))
	require.Empty(t, g.UpstreamOf(a))
	require.Empty(t, g.DownstreamOf(c))
}

func TestNodeCountClearCacheClearEventsPendingCount(t *testing.T) {
	g := graph.New()
	require.Equal(t, 0, g.NodeCount())
	a := g.AddNode(newConstOp(value.Float, value.NewFloat(1)))
	b := g.AddNode(newPassOp())
	require.Equal(t, 2, g.NodeCount())

	require.True(t, g.HasPendingEvents())
	require.Positive(t, g.PendingEventCount())
	g.ClearEvents()
	require.False(t, g.HasPendingEvents())
	require.Equal(t, 0, g.PendingEventCount())

	_, err := g.Connect(a, 0, b, 0)
	require.NoError(t, err)
	g.ClearCache()
	_, ok := g.CacheGet(b, "")
	require.False(t, ok)
}

func TestOrderRecomputedEventEmittedOnTopoChange(t *testing.T) {
	g := graph.New()
	a := g.AddNode(newConstOp(value.Float, value.NewFloat(1)))
	b := g.AddNode(newPassOp())
	g.ClearEvents()

	_, err := g.Connect(a, 0, b, 0)
	require.NoError(t, err)
	_, err = g.TopoOrder()
	require.NoError(t, err)

	var found bool
	for _, e := range g.DrainEvents() {
		if e.Kind == graph.EventOrderRecomputed {
			found = true
		}
	}
	require.True(t, found)
}
