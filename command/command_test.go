package command_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluxrt/fluxrt/command"
	"github.com/fluxrt/fluxrt/graph"
	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

type passOp struct {
	in  *port.InputPort
	out *port.OutputPort
}

func newPassOp() *passOp {
	return &passOp{
		in:  port.NewInputPort("in", port.Numeric(), value.NewFloat(0)),
		out: port.NewOutputPort("out", value.Float),
	}
}

func (p *passOp) Name() string                        { return "test.pass" }
func (p *passOp) Inputs() []*port.InputPort            { return []*port.InputPort{p.in} }
func (p *passOp) Outputs() []*port.OutputPort          { return []*port.OutputPort{p.out} }
func (p *passOp) TriggerInputs() []*port.TriggerInput  { return nil }
func (p *passOp) TriggerOutputs() []*port.TriggerOutput { return nil }
func (p *passOp) Compute(_ operator.EvalContext, inputs []value.Value) []value.Value {
	if len(inputs) == 0 {
		return []value.Value{value.NewFloat(0)}
	}
	return []value.Value{inputs[0]}
}
func (p *passOp) OnTrigger(operator.EvalContext, int) []int { return nil }

// TestUndoInsertOnWire inserts an operator into an existing wire as a
// single undoable macro, then undoes it back to the original edge.
func TestUndoInsertOnWire(t *testing.T) {
	g := graph.New()
	src := g.AddNode(newPassOp())
	sink := g.AddNode(newPassOp())
	_, err := g.Connect(src, 0, sink, 0)
	require.NoError(t, err)

	h := command.NewHistory()

	addMiddle := &command.AddNode{Factory: func() operator.Operator { return newPassOp() }}
	disc := &command.Disconnect{Src: command.Fixed(src), Dst: command.Fixed(sink), SrcOut: 0, DstIn: 0}
	wireIn := &command.Connect{Src: command.Fixed(src), Dst: command.FromAdd(addMiddle), SrcOut: 0, DstIn: 0}
	wireOut := &command.Connect{Src: command.FromAdd(addMiddle), Dst: command.Fixed(sink), SrcOut: 0, DstIn: 0}

	macro := &command.MacroCommand{
		Label: "insert middle",
		Steps: []command.Command{disc, addMiddle, wireIn, wireOut},
	}

	require.NoError(t, h.Do(g, macro))
	require.Equal(t, 3, g.NodeCount())

	in, err := g.InputPort(sink, 0)
	require.NoError(t, err)
	srcs := in.Sources()
	require.Len(t, srcs, 1)
	require.Equal(t, addMiddle.ID(), srcs[0].Node)

	require.NoError(t, h.Undo(g))
	require.Equal(t, 2, g.NodeCount())

	in, err = g.InputPort(sink, 0)
	require.NoError(t, err)
	srcs = in.Sources()
	require.Len(t, srcs, 1)
	require.Equal(t, src, srcs[0].Node)
}

func TestHistoryIsDirtyTracksSavedPosition(t *testing.T) {
	g := graph.New()
	n := g.AddNode(newPassOp())
	h := command.NewHistory()

	setDefault := &command.SetInputDefault{Target: command.Fixed(n), Input: 0, Value: value.NewFloat(5)}
	require.NoError(t, h.Do(g, setDefault))
	require.True(t, h.IsDirty())

	h.MarkSaved()
	require.False(t, h.IsDirty())

	require.NoError(t, h.Undo(g))
	require.True(t, h.IsDirty())

	require.NoError(t, h.Redo(g))
	require.False(t, h.IsDirty())
}

func TestConnectDisconnectRoundTripRestoresSourceCount(t *testing.T) {
	g := graph.New()
	a := g.AddNode(newPassOp())
	b := g.AddNode(newPassOp())

	connect := &command.Connect{Src: command.Fixed(a), Dst: command.Fixed(b), SrcOut: 0, DstIn: 0}
	require.NoError(t, connect.Execute(g))

	disconnect := &command.Disconnect{Src: command.Fixed(a), Dst: command.Fixed(b), SrcOut: 0, DstIn: 0}
	require.NoError(t, disconnect.Execute(g))

	in, err := g.InputPort(b, 0)
	require.NoError(t, err)
	require.Empty(t, in.Sources())

	require.NoError(t, disconnect.Undo(g))
	in, err = g.InputPort(b, 0)
	require.NoError(t, err)
	require.Len(t, in.Sources(), 1)
}
