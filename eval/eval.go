// Package eval implements the pull-based evaluator: given a graph and a
// specific (node, output) to produce, it recursively resolves whatever
// upstream values are needed, memoizing per node and per call context,
// and respects each node's dirtyflag.Flag and bypass state.
package eval

import (
	"fmt"

	"github.com/fluxrt/fluxrt/graph"
	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/value"
)

// Clock supplies the ambient time/frame pair staleness checks are made
// against. Callers that don't care about ModeTimeChanged/ModeFrameChanged
// can pass a zero Clock.
type Clock struct {
	Time  float64
	Frame uint64
}

// Evaluate produces the value at node n's output outIdx, recomputing
// whatever upstream nodes are stale and reusing cached values for
// everything else. ctx's call context selects which cache slot is
// consulted, so the same sub-graph can be evaluated multiple times per
// frame (e.g. once per particle) without cross-contaminating results.
func Evaluate(g *graph.Graph, n graph.NodeID, outIdx int, clock Clock, ctx operator.EvalContext) (value.Value, error) {
	if _, err := g.TopoOrder(); err != nil {
		return value.Value{}, err
	}
	return evalNode(g, n, outIdx, clock, ctx)
}

func evalNode(g *graph.Graph, n graph.NodeID, outIdx int, clock Clock, ctx operator.EvalContext) (value.Value, error) {
	op, err := g.Operator(n)
	if err != nil {
		return value.Value{}, err
	}
	outputs := op.Outputs()
	if outIdx < 0 || outIdx >= len(outputs) {
		return value.Value{}, graph.ErrOutputIndexOutOfRange
	}

	bypassed, err := g.Bypassed(n)
	if err != nil {
		return value.Value{}, err
	}
	if bypassed {
		return bypassValue(g, n, op, outIdx, clock, ctx)
	}

	key := ctx.CallContext().Key()
	flag, err := g.DirtyFlag(n, outIdx)
	if err != nil {
		return value.Value{}, err
	}

	if !flag.IsStale(clock.Time, clock.Frame) {
		if cached, ok := g.CacheGet(n, key); ok && outIdx < len(cached) {
			return cached[outIdx], nil
		}
	}

	inputs, err := resolveInputs(g, n, op, clock, ctx)
	if err != nil {
		return value.Value{}, err
	}

	outVals := op.Compute(ctx, inputs)
	if len(outVals) != len(outputs) {
		return value.Value{}, fmt.Errorf("eval: operator %q returned %d outputs, want %d", op.Name(), len(outVals), len(outputs))
	}
	g.CacheSet(n, key, outVals)
	for i := range outputs {
		if f, err := g.DirtyFlag(n, i); err == nil {
			f.MarkClean(clock.Time, clock.Frame)
		}
	}

	return outVals[outIdx], nil
}

// bypassValue resolves a bypassed node's output as a pass-through of
// its first connected input (or that input's default), writing no
// cache entry, matching the supplemented Bypass semantics: a bypassed
// node is transparent to evaluation.
func bypassValue(g *graph.Graph, n graph.NodeID, op operator.Operator, outIdx int, clock Clock, ctx operator.EvalContext) (value.Value, error) {
	ins := op.Inputs()
	if len(ins) == 0 {
		return value.Zero(op.Outputs()[outIdx].Kind), nil
	}
	in := ins[0]
	srcs := in.Sources()
	if len(srcs) == 0 {
		return in.Default, nil
	}
	return evalNode(g, srcs[0].Node, srcs[0].Output, clock, ctx)
}

// resolveInputs computes the value for each of op's input ports,
// positionally aligned with op.Inputs(): recursively evaluating each
// connected source and, for multi-input ports, packing every connected
// value into a single list value.
func resolveInputs(g *graph.Graph, n graph.NodeID, op operator.Operator, clock Clock, ctx operator.EvalContext) ([]value.Value, error) {
	ins := op.Inputs()
	out := make([]value.Value, len(ins))
	for i, in := range ins {
		srcs := in.Sources()
		if len(srcs) == 0 {
			out[i] = in.Default
			continue
		}
		if !in.Multi {
			v, err := evalNode(g, srcs[0].Node, srcs[0].Output, clock, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = v
			continue
		}
		vals := make([]value.Value, len(srcs))
		for j, s := range srcs {
			v, err := evalNode(g, s.Node, s.Output, clock, ctx)
			if err != nil {
				return nil, err
			}
			vals[j] = v
		}
		out[i] = packList(vals)
	}
	return out, nil
}

// packList wraps vals into the list Kind matching their first
// element's Kind, coercing every other element to match. An empty
// vals yields an empty FloatList.
func packList(vals []value.Value) value.Value {
	if len(vals) == 0 {
		return value.NewFloatList(nil)
	}
	elemKind := vals[0].Kind()
	if _, ok := value.ListKindOf(elemKind); !ok {
		elemKind = value.Float
	}
	switch elemKind {
	case value.Float:
		out := make([]float32, len(vals))
		for i, v := range vals {
			out[i], _ = value.Coerce(v, value.Float).AsFloat()
		}
		return value.NewFloatList(out)
	case value.Int:
		out := make([]int32, len(vals))
		for i, v := range vals {
			out[i], _ = value.Coerce(v, value.Int).AsInt()
		}
		return value.NewIntList(out)
	case value.Bool:
		out := make([]bool, len(vals))
		for i, v := range vals {
			out[i], _ = value.Coerce(v, value.Bool).AsBool()
		}
		return value.NewBoolList(out)
	case value.String:
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i], _ = value.Coerce(v, value.String).AsString()
		}
		return value.NewStringList(out)
	case value.Vec2:
		out := make([][2]float32, len(vals))
		for i, v := range vals {
			out[i], _ = value.Coerce(v, value.Vec2).AsVec2()
		}
		return value.NewVec2List(out)
	case value.Vec3:
		out := make([][3]float32, len(vals))
		for i, v := range vals {
			out[i], _ = value.Coerce(v, value.Vec3).AsVec3()
		}
		return value.NewVec3List(out)
	case value.Vec4:
		out := make([][4]float32, len(vals))
		for i, v := range vals {
			out[i], _ = value.Coerce(v, value.Vec4).AsVec4()
		}
		return value.NewVec4List(out)
	case value.Color:
		out := make([]value.RGBA, len(vals))
		for i, v := range vals {
			out[i], _ = value.Coerce(v, value.Color).AsColor()
		}
		return value.NewColorList(out)
	default:
		out := make([]float32, len(vals))
		for i, v := range vals {
			out[i], _ = value.Coerce(v, value.Float).AsFloat()
		}
		return value.NewFloatList(out)
	}
}
