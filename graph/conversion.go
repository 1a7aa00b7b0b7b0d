package graph

import (
	"fmt"

	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

// conversionOp is the synthetic operator Connect inserts when a
// source's resolved Kind doesn't satisfy a destination's constraint
// directly but value.Coerce bridges the two. It is an ordinary node —
// visible in Nodes(), iterable, and otherwise indistinguishable from a
// node the caller created directly — so it participates in topological
// order, caching, and compilation exactly like any other.
type conversionOp struct {
	name string
	in   *port.InputPort
	out  *port.OutputPort
	to   value.Kind
}

func newConversionOp(from, to value.Kind) *conversionOp {
	return &conversionOp{
		name: fmt.Sprintf("convert.%s_to_%s", from, to),
		in:   port.NewInputPort("in", port.Exact(from), value.Zero(from)),
		out:  port.NewOutputPort("out", to),
		to:   to,
	}
}

func (c *conversionOp) Name() string                          { return c.name }
func (c *conversionOp) Inputs() []*port.InputPort              { return []*port.InputPort{c.in} }
func (c *conversionOp) Outputs() []*port.OutputPort             { return []*port.OutputPort{c.out} }
func (c *conversionOp) TriggerInputs() []*port.TriggerInput     { return nil }
func (c *conversionOp) TriggerOutputs() []*port.TriggerOutput   { return nil }

func (c *conversionOp) Compute(_ operator.EvalContext, inputs []value.Value) []value.Value {
	if len(inputs) == 0 {
		return []value.Value{value.Zero(c.to)}
	}
	return []value.Value{value.Coerce(inputs[0], c.to)}
}

func (c *conversionOp) OnTrigger(operator.EvalContext, int) []int { return nil }
