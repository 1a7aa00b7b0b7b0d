package eval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluxrt/fluxrt/eval"
	"github.com/fluxrt/fluxrt/graph"
	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

// addOp sums two Numeric inputs.
type addOp struct {
	a, b *port.InputPort
	out  *port.OutputPort
}

func newAddOp() *addOp {
	return &addOp{
		a:   port.NewInputPort("a", port.Numeric(), value.NewFloat(0)),
		b:   port.NewInputPort("b", port.Numeric(), value.NewFloat(0)),
		out: port.NewOutputPort("sum", value.Float),
	}
}

func (o *addOp) Name() string                        { return "test.add" }
func (o *addOp) Inputs() []*port.InputPort            { return []*port.InputPort{o.a, o.b} }
func (o *addOp) Outputs() []*port.OutputPort          { return []*port.OutputPort{o.out} }
func (o *addOp) TriggerInputs() []*port.TriggerInput  { return nil }
func (o *addOp) TriggerOutputs() []*port.TriggerOutput { return nil }
func (o *addOp) Compute(_ operator.EvalContext, inputs []value.Value) []value.Value {
	af, _ := inputs[0].AsFloat()
	bf, _ := inputs[1].AsFloat()
	return []value.Value{value.NewFloat(af + bf)}
}
func (o *addOp) OnTrigger(operator.EvalContext, int) []int { return nil }

// countingOp increments a shared counter every time Compute runs, so
// tests can assert memoization actually skips recomputation.
type countingOp struct {
	out   *port.OutputPort
	calls *int
}

func newCountingOp(calls *int) *countingOp {
	return &countingOp{out: port.NewOutputPort("out", value.Float), calls: calls}
}

func (o *countingOp) Name() string                        { return "test.counting" }
func (o *countingOp) Inputs() []*port.InputPort            { return nil }
func (o *countingOp) Outputs() []*port.OutputPort          { return []*port.OutputPort{o.out} }
func (o *countingOp) TriggerInputs() []*port.TriggerInput  { return nil }
func (o *countingOp) TriggerOutputs() []*port.TriggerOutput { return nil }
func (o *countingOp) Compute(operator.EvalContext, []value.Value) []value.Value {
	*o.calls++
	return []value.Value{value.NewFloat(float32(*o.calls))}
}
func (o *countingOp) OnTrigger(operator.EvalContext, int) []int { return nil }

func newConst(v value.Value) *constLikeOp { return &constLikeOp{out: port.NewOutputPort("out", v.Kind()), val: v} }

type constLikeOp struct {
	out *port.OutputPort
	val value.Value
}

func (c *constLikeOp) Name() string                        { return "test.const" }
func (c *constLikeOp) Inputs() []*port.InputPort            { return nil }
func (c *constLikeOp) Outputs() []*port.OutputPort          { return []*port.OutputPort{c.out} }
func (c *constLikeOp) TriggerInputs() []*port.TriggerInput  { return nil }
func (c *constLikeOp) TriggerOutputs() []*port.TriggerOutput { return nil }
func (c *constLikeOp) Compute(operator.EvalContext, []value.Value) []value.Value {
	return []value.Value{c.val}
}
func (c *constLikeOp) OnTrigger(operator.EvalContext, int) []int { return nil }

func TestEvaluateSumsTwoConstants(t *testing.T) {
	g := graph.New()
	a := g.AddNode(newConst(value.NewFloat(2)))
	b := g.AddNode(newConst(value.NewFloat(3)))
	sum := g.AddNode(newAddOp())
	_, err := g.Connect(a, 0, sum, 0)
	require.NoError(t, err)
	_, err = g.Connect(b, 0, sum, 1)
	require.NoError(t, err)

	ctx := operator.NewEvalContext(nil)
	got, err := eval.Evaluate(g, sum, 0, eval.Clock{}, ctx)
	require.NoError(t, err)
	f, ok := got.AsFloat()
	require.True(t, ok)
	require.Equal(t, float32(5), f)
}

func TestEvaluateUsesDefaultWhenUnconnected(t *testing.T) {
	g := graph.New()
	sum := g.AddNode(newAddOp())

	ctx := operator.NewEvalContext(nil)
	got, err := eval.Evaluate(g, sum, 0, eval.Clock{}, ctx)
	require.NoError(t, err)
	f, _ := got.AsFloat()
	require.Equal(t, float32(0), f)
}

func TestEvaluateMemoizesUnlessDirty(t *testing.T) {
	g := graph.New()
	var calls int
	n := g.AddNode(newCountingOp(&calls))

	flag, err := g.DirtyFlag(n, 0)
	require.NoError(t, err)
	flag.SetMode(0) // ModeNone

	ctx := operator.NewEvalContext(nil)
	_, err = eval.Evaluate(g, n, 0, eval.Clock{}, ctx)
	require.NoError(t, err)
	_, err = eval.Evaluate(g, n, 0, eval.Clock{}, ctx)
	require.NoError(t, err)
	require.Equal(t, 1, calls, "a clean ModeNone flag must not trigger recomputation")

	flag.MarkDirty()
	_, err = eval.Evaluate(g, n, 0, eval.Clock{}, ctx)
	require.NoError(t, err)
	require.Equal(t, 2, calls, "MarkDirty must force recomputation on the next Evaluate")
}

func TestEvaluateBypassPassesThroughFirstInput(t *testing.T) {
	g := graph.New()
	a := g.AddNode(newConst(value.NewFloat(7)))
	sum := g.AddNode(newAddOp())
	_, err := g.Connect(a, 0, sum, 0)
	require.NoError(t, err)
	require.NoError(t, g.SetBypassed(sum, true))

	ctx := operator.NewEvalContext(nil)
	got, err := eval.Evaluate(g, sum, 0, eval.Clock{}, ctx)
	require.NoError(t, err)
	f, _ := got.AsFloat()
	require.Equal(t, float32(7), f, "bypassed node passes through its first connected input")
}

func TestEvaluateCallContextIsolatesCache(t *testing.T) {
	g := graph.New()
	var calls int
	n := g.AddNode(newCountingOp(&calls))

	ctxA := operator.NewEvalContext(nil).WithCallContext(1)
	ctxB := operator.NewEvalContext(nil).WithCallContext(2)

	_, err := eval.Evaluate(g, n, 0, eval.Clock{}, ctxA)
	require.NoError(t, err)
	_, err = eval.Evaluate(g, n, 0, eval.Clock{}, ctxB)
	require.NoError(t, err)
	require.Equal(t, 2, calls, "distinct call contexts must not share a cache entry")
}

func TestEvaluateMultiInputPacksList(t *testing.T) {
	g := graph.New()
	m := g.AddNode(newMultiListOp())
	s1 := g.AddNode(newConst(value.NewFloat(1)))
	s2 := g.AddNode(newConst(value.NewFloat(2)))
	_, err := g.Connect(s1, 0, m, 0)
	require.NoError(t, err)
	_, err = g.Connect(s2, 0, m, 0)
	require.NoError(t, err)

	ctx := operator.NewEvalContext(nil)
	got, err := eval.Evaluate(g, m, 0, eval.Clock{}, ctx)
	require.NoError(t, err)
	fl, ok := got.AsFloatList()
	require.True(t, ok)
	require.Equal(t, []float32{1, 2}, fl)
}

func TestEvaluatePropagatesUpstreamDefaultChangeToDownstreamCache(t *testing.T) {
	g := graph.New()
	a := g.AddNode(newAddOp())
	b := g.AddNode(newAddOp())
	_, err := g.Connect(a, 0, b, 0)
	require.NoError(t, err)

	ctx := operator.NewEvalContext(nil)
	got, err := eval.Evaluate(g, b, 0, eval.Clock{}, ctx)
	require.NoError(t, err)
	f, _ := got.AsFloat()
	require.Equal(t, float32(0), f, "both inputs default to 0 before any mutation")

	require.True(t, g.SetInputDefault(a, 0, value.NewFloat(9)))

	got, err = eval.Evaluate(g, b, 0, eval.Clock{}, ctx)
	require.NoError(t, err)
	f, _ = got.AsFloat()
	require.Equal(t, float32(9), f, "b's cached result must not survive a's default changing, even though b's own flag never went stale")
}

// multiListOp has a multi-input Numeric port and echoes it straight
// back out as a list, for asserting resolveInputs' list packing.
type multiListOp struct {
	in  *port.InputPort
	out *port.OutputPort
}

func newMultiListOp() *multiListOp {
	return &multiListOp{
		in:  port.NewMultiInputPort("ins", port.Numeric(), value.NewFloat(0)),
		out: port.NewOutputPort("out", value.FloatList),
	}
}

func (m *multiListOp) Name() string                        { return "test.multilist" }
func (m *multiListOp) Inputs() []*port.InputPort            { return []*port.InputPort{m.in} }
func (m *multiListOp) Outputs() []*port.OutputPort          { return []*port.OutputPort{m.out} }
func (m *multiListOp) TriggerInputs() []*port.TriggerInput  { return nil }
func (m *multiListOp) TriggerOutputs() []*port.TriggerOutput { return nil }
func (m *multiListOp) Compute(_ operator.EvalContext, inputs []value.Value) []value.Value {
	return []value.Value{inputs[0]}
}
func (m *multiListOp) OnTrigger(operator.EvalContext, int) []int { return nil }
