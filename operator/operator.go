// Package operator defines the Operator contract every node in the
// graph implements, and the EvalContext that carries the call context,
// the ambient evaluation time and an optional Resolver into compute.
package operator

import (
	"github.com/fluxrt/fluxrt/id"
	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

// CallContext distinguishes otherwise-identical evaluation requests —
// for example, the same sub-graph instantiated once per particle in a
// particle system. It is a plain []uint32 rather than an opaque handle
// so it is cheap to fold into a string cache key (see Key); as a slice
// it is not comparable with ==.
type CallContext []uint32

// key renders c into a string suitable as a map key. Empty contexts
// collapse to the same key regardless of nil-vs-empty-slice, so a
// top-level evaluation and one called with an explicitly empty context
// share a cache entry.
func (c CallContext) key() string {
	if len(c) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(c)*5)
	for i, tag := range c {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendUint32(buf, tag)
	}
	return string(buf)
}

func appendUint32(buf []byte, v uint32) []byte {
	if v == 0 {
		return append(buf, '0')
	}
	var tmp [10]byte
	n := len(tmp)
	for v > 0 {
		n--
		tmp[n] = byte('0' + v%10)
		v /= 10
	}
	return append(buf, tmp[n:]...)
}

// Key returns the string cache-key fold of c.
func (c CallContext) Key() string { return c.key() }

// Resolver reads the already-evaluated (or cached) value at a given
// upstream node's output. An EvalContext carries whichever Resolver was
// passed to NewEvalContext; eval.Evaluate and compiler execution pass
// the caller's EvalContext through unchanged and install none of their
// own, handing Compute its inputs as a pre-resolved slice instead.
type Resolver func(srcNode id.NodeID, srcOutput int) value.Value

// EvalContext carries everything an operator's Compute needs beyond its
// resolved input values: the call context for cache isolation, and the
// two independent time axes (local/sequencer time, and effect-local
// time reset at the start of each effect instance). Every With* method
// returns a modified copy; EvalContext is never mutated in place, so a
// compute call cannot leak a changed context to a concurrent sibling
// evaluation sharing the same underlying graph.
type EvalContext struct {
	callCtx  CallContext
	localT   float64
	fxT      float64
	resolve  Resolver
}

// NewEvalContext builds a root EvalContext (empty call context, zero
// times) backed by resolve.
func NewEvalContext(resolve Resolver) EvalContext {
	return EvalContext{resolve: resolve}
}

// WithCallContext returns a copy of c with tag appended to the call
// context, used when recursing into a sub-graph instantiated per-call.
func (c EvalContext) WithCallContext(tag uint32) EvalContext {
	next := make(CallContext, len(c.callCtx)+1)
	copy(next, c.callCtx)
	next[len(c.callCtx)] = tag
	c.callCtx = next
	return c
}

// WithLocalTime returns a copy of c with its local/sequencer time set to t.
func (c EvalContext) WithLocalTime(t float64) EvalContext {
	c.localT = t
	return c
}

// WithFXTime returns a copy of c with its effect-local time set to t.
func (c EvalContext) WithFXTime(t float64) EvalContext {
	c.fxT = t
	return c
}

// CallContext returns the current call context.
func (c EvalContext) CallContext() CallContext { return c.callCtx }

// LocalTime returns the current local/sequencer time.
func (c EvalContext) LocalTime() float64 { return c.localT }

// FXTime returns the current effect-local time.
func (c EvalContext) FXTime() float64 { return c.fxT }

// Resolve reads the value currently available at (srcNode, srcOutput).
func (c EvalContext) Resolve(srcNode id.NodeID, srcOutput int) value.Value {
	if c.resolve == nil {
		return value.Value{}
	}
	return c.resolve(srcNode, srcOutput)
}

// Operator is the behavior every node in the graph supplies. Inputs and
// Outputs describe the node's static port shape; Compute produces the
// node's output values for one evaluation pass, given the already-
// resolved input values (positionally aligned with Inputs) and an
// EvalContext for time/cache-key/upstream access.
//
// Compute must be side-effect free with respect to the graph: it reads
// ctx and inputs and returns outputs, and never reaches back into the
// graph to mutate another node. Compute has no way to fire a trigger:
// trigger outputs fire only through Graph.FireTrigger and the indices
// OnTrigger returns during a cascade.
type Operator interface {
	// Name is the operator's registry name, e.g. "math.add".
	Name() string

	// Inputs describes this operator's value input ports, in the fixed
	// order Compute expects them.
	Inputs() []*port.InputPort

	// Outputs describes this operator's value output ports, in the
	// fixed order Compute must fill them.
	Outputs() []*port.OutputPort

	// TriggerInputs describes this operator's trigger input ports.
	TriggerInputs() []*port.TriggerInput

	// TriggerOutputs describes this operator's trigger output ports.
	TriggerOutputs() []*port.TriggerOutput

	// Compute produces this pass's output values from inputs, which is
	// positionally aligned with Inputs() and already coerced to each
	// input's resolved Kind.
	Compute(ctx EvalContext, inputs []value.Value) []value.Value

	// OnTrigger runs when triggerInput (an index into TriggerInputs())
	// receives a pulse. It returns the indices, in TriggerOutputs(),
	// of the trigger outputs to fire in response; a nil/empty result
	// fires nothing.
	OnTrigger(ctx EvalContext, triggerInput int) []int
}
