package graph_test

import (
	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

// constOp has no inputs and one output that always returns a fixed value.
type constOp struct {
	out *port.OutputPort
	val value.Value
}

func newConstOp(k value.Kind, v value.Value) *constOp {
	return &constOp{out: port.NewOutputPort("out", k), val: v}
}

func (c *constOp) Name() string                        { return "test.const" }
func (c *constOp) Inputs() []*port.InputPort            { return nil }
func (c *constOp) Outputs() []*port.OutputPort          { return []*port.OutputPort{c.out} }
func (c *constOp) TriggerInputs() []*port.TriggerInput  { return nil }
func (c *constOp) TriggerOutputs() []*port.TriggerOutput { return nil }
func (c *constOp) Compute(operator.EvalContext, []value.Value) []value.Value {
	return []value.Value{c.val}
}
func (c *constOp) OnTrigger(operator.EvalContext, int) []int { return nil }

// passOp has a single Float input and a single Float output that
// returns the input unchanged, used to build simple dependency chains.
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

// exactIntOp declares an ExactConstraint(Int) input, used to exercise
// automatic conversion-node insertion on Connect.
type exactIntOp struct {
	in  *port.InputPort
	out *port.OutputPort
}

func newExactIntOp() *exactIntOp {
	return &exactIntOp{
		in:  port.NewInputPort("in", port.Exact(value.Int), value.NewInt(0)),
		out: port.NewOutputPort("out", value.Int),
	}
}

func (e *exactIntOp) Name() string                        { return "test.exactint" }
func (e *exactIntOp) Inputs() []*port.InputPort            { return []*port.InputPort{e.in} }
func (e *exactIntOp) Outputs() []*port.OutputPort          { return []*port.OutputPort{e.out} }
func (e *exactIntOp) TriggerInputs() []*port.TriggerInput  { return nil }
func (e *exactIntOp) TriggerOutputs() []*port.TriggerOutput { return nil }
func (e *exactIntOp) Compute(_ operator.EvalContext, inputs []value.Value) []value.Value {
	if len(inputs) == 0 {
		return []value.Value{value.NewInt(0)}
	}
	return []value.Value{inputs[0]}
}
func (e *exactIntOp) OnTrigger(operator.EvalContext, int) []int { return nil }

// multiSumOp has one multi-input Numeric port and sums every connected
// value, used to exercise fan-in connect/disconnect/rollback behavior.
type multiSumOp struct {
	in  *port.InputPort
	out *port.OutputPort
}

func newMultiSumOp() *multiSumOp {
	return &multiSumOp{
		in:  port.NewMultiInputPort("ins", port.Numeric(), value.NewFloat(0)),
		out: port.NewOutputPort("sum", value.Float),
	}
}

func (m *multiSumOp) Name() string                        { return "test.multisum" }
func (m *multiSumOp) Inputs() []*port.InputPort            { return []*port.InputPort{m.in} }
func (m *multiSumOp) Outputs() []*port.OutputPort          { return []*port.OutputPort{m.out} }
func (m *multiSumOp) TriggerInputs() []*port.TriggerInput  { return nil }
func (m *multiSumOp) TriggerOutputs() []*port.TriggerOutput { return nil }
func (m *multiSumOp) Compute(_ operator.EvalContext, inputs []value.Value) []value.Value {
	var sum float32
	if len(inputs) > 0 {
		if fl, ok := inputs[0].AsFloatList(); ok {
			for _, f := range fl {
				sum += f
			}
		} else if f, ok := inputs[0].AsFloat(); ok {
			sum = f
		}
	}
	return []value.Value{value.NewFloat(sum)}
}
func (m *multiSumOp) OnTrigger(operator.EvalContext, int) []int { return nil }

// triggerOp has one trigger input that, on pulse, fires its one
// trigger output and records how many times it fired.
type triggerOp struct {
	in      *port.TriggerInput
	out     *port.TriggerOutput
	fireLog *int
}

func newTriggerOp(log *int) *triggerOp {
	return &triggerOp{in: port.NewTriggerInput("in"), out: port.NewTriggerOutput("out"), fireLog: log}
}

func (t *triggerOp) Name() string                        { return "test.trigger" }
func (t *triggerOp) Inputs() []*port.InputPort            { return nil }
func (t *triggerOp) Outputs() []*port.OutputPort          { return nil }
func (t *triggerOp) TriggerInputs() []*port.TriggerInput  { return []*port.TriggerInput{t.in} }
func (t *triggerOp) TriggerOutputs() []*port.TriggerOutput { return []*port.TriggerOutput{t.out} }
func (t *triggerOp) Compute(operator.EvalContext, []value.Value) []value.Value { return nil }
func (t *triggerOp) OnTrigger(_ operator.EvalContext, _ int) []int {
	*t.fireLog++
	return []int{0}
}

// triggerSourceOp has a single trigger output and no trigger input at
// all, modeling a pure trigger source that can only ever be a fire
// entry point, never a cascade target.
type triggerSourceOp struct {
	out *port.TriggerOutput
}

func newTriggerSourceOp() *triggerSourceOp {
	return &triggerSourceOp{out: port.NewTriggerOutput("out")}
}

func (s *triggerSourceOp) Name() string                        { return "test.triggersource" }
func (s *triggerSourceOp) Inputs() []*port.InputPort            { return nil }
func (s *triggerSourceOp) Outputs() []*port.OutputPort          { return nil }
func (s *triggerSourceOp) TriggerInputs() []*port.TriggerInput  { return nil }
func (s *triggerSourceOp) TriggerOutputs() []*port.TriggerOutput { return []*port.TriggerOutput{s.out} }
func (s *triggerSourceOp) Compute(operator.EvalContext, []value.Value) []value.Value { return nil }
func (s *triggerSourceOp) OnTrigger(operator.EvalContext, int) []int                { return nil }
