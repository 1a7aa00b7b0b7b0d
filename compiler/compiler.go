// Package compiler implements the second-tier executor: it flattens a
// graph.Graph into a linear command sequence over a contiguous output
// buffer with pre-resolved input indices, trading the evaluator's
// per-call hash lookups for arithmetic buffer offsets. Compile is the
// straightforward flatten; CompileOptimized additionally prunes nodes
// unreachable from the requested target via a reachability closure.
package compiler

import (
	"fmt"

	"github.com/fluxrt/fluxrt/graph"
	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/value"
)

// InputBinding is one input port's pre-resolved source, fixed at
// compile time: either "read from these buffer indices" (one for a
// single-input port, any number in insertion order for a multi-input
// fan-in) or "use this default", never both.
type InputBinding struct {
	Connected  bool
	Multi      bool
	BufIndices []int
	Default    value.Value
}

// Command is one node's compiled execution step: where its outputs
// land in the shared buffer, and where each of its inputs reads from.
type Command struct {
	Node     graph.NodeID
	Op       operator.Operator
	Base     int
	OutCount int
	Bypassed bool
	Inputs   []InputBinding
}

// CompiledGraph is the flattened snapshot Compile/CompileOptimized
// produce. It holds no reference back into the source graph beyond
// NodeIDs and Operator values already resolved at compile time, so
// executing it never re-reads graph structure.
type CompiledGraph struct {
	Commands     []Command
	BufferSize   int
	TargetNode   graph.NodeID
	TargetOutput int
	TargetIndex  int
}

// Compile flattens g into a CompiledGraph covering every node, in
// topological order, with a contiguous output buffer. Recompile after
// any structural change to g; Compile never mutates g.
func Compile(g *graph.Graph, target graph.NodeID, outIdx int) (*CompiledGraph, error) {
	order, err := g.TopoOrder()
	if err != nil {
		return nil, err
	}
	return compileNodes(g, order, target, outIdx)
}

// CompileOptimized flattens only the nodes reachable from (target,
// outIdx) — the transitive closure of value-input dependencies — in
// the same relative order Compile would have used. Its command count
// never exceeds Compile's, and Execute on both yields the same result
// for an unchanged graph.
func CompileOptimized(g *graph.Graph, target graph.NodeID, outIdx int) (*CompiledGraph, error) {
	order, err := g.TopoOrder()
	if err != nil {
		return nil, err
	}
	if !containsNode(order, target) {
		return nil, graph.ErrNodeNotFound
	}

	reachable := map[graph.NodeID]struct{}{target: {}}
	frontier := []graph.NodeID{target}
	for len(frontier) > 0 {
		n := frontier[0]
		frontier = frontier[1:]
		for _, dep := range g.UpstreamOf(n) {
			if _, seen := reachable[dep]; seen {
				continue
			}
			reachable[dep] = struct{}{}
			frontier = append(frontier, dep)
		}
	}

	pruned := make([]graph.NodeID, 0, len(reachable))
	for _, n := range order {
		if _, ok := reachable[n]; ok {
			pruned = append(pruned, n)
		}
	}
	return compileNodes(g, pruned, target, outIdx)
}

func containsNode(order []graph.NodeID, n graph.NodeID) bool {
	for _, o := range order {
		if o == n {
			return true
		}
	}
	return false
}

func compileNodes(g *graph.Graph, order []graph.NodeID, target graph.NodeID, outIdx int) (*CompiledGraph, error) {
	base := make(map[graph.NodeID]int, len(order))
	buf := 0
	commands := make([]Command, 0, len(order))

	for _, n := range order {
		op, err := g.Operator(n)
		if err != nil {
			return nil, err
		}
		bypassed, err := g.Bypassed(n)
		if err != nil {
			return nil, err
		}
		outs := op.Outputs()
		ins := op.Inputs()

		bindings := make([]InputBinding, len(ins))
		for i, in := range ins {
			srcs := in.Sources()
			if len(srcs) == 0 {
				bindings[i] = InputBinding{Default: in.Default}
				continue
			}
			indices := make([]int, 0, len(srcs))
			for _, s := range srcs {
				srcBase, ok := base[s.Node]
				if !ok {
					// Source lies outside the compiled subset (only
					// possible for CompileOptimized on a malformed
					// reachability set); degrade to the port default
					// rather than index out of range.
					continue
				}
				indices = append(indices, srcBase+s.Output)
			}
			if len(indices) == 0 {
				bindings[i] = InputBinding{Default: in.Default}
				continue
			}
			bindings[i] = InputBinding{Connected: true, Multi: in.Multi, BufIndices: indices}
		}

		nodeBase := buf
		base[n] = nodeBase
		buf += len(outs)

		commands = append(commands, Command{
			Node:     n,
			Op:       op,
			Base:     nodeBase,
			OutCount: len(outs),
			Bypassed: bypassed,
			Inputs:   bindings,
		})
	}

	targetBase, ok := base[target]
	if !ok {
		return nil, fmt.Errorf("compiler: target node %s: %w", target, graph.ErrNodeNotFound)
	}
	op, err := g.Operator(target)
	if err != nil {
		return nil, err
	}
	if outIdx < 0 || outIdx >= len(op.Outputs()) {
		return nil, graph.ErrOutputIndexOutOfRange
	}

	return &CompiledGraph{
		Commands:     commands,
		BufferSize:   buf,
		TargetNode:   target,
		TargetOutput: outIdx,
		TargetIndex:  targetBase + outIdx,
	}, nil
}

// Execute runs every command in order over a fresh output buffer and
// returns the value at the compiled target index. Each command reads
// its inputs directly from buffer slots (or port defaults) — no
// hashing on this path — and, for an ordinary node, invokes Compute;
// for a bypassed node, it copies the first input straight through.
func (cg *CompiledGraph) Execute(ctx operator.EvalContext) (value.Value, error) {
	buf := make([]value.Value, cg.BufferSize)

	for _, cmd := range cg.Commands {
		inputs := make([]value.Value, len(cmd.Inputs))
		for i, b := range cmd.Inputs {
			if !b.Connected {
				inputs[i] = b.Default
				continue
			}
			if !b.Multi {
				inputs[i] = buf[b.BufIndices[0]]
				continue
			}
			vals := make([]value.Value, len(b.BufIndices))
			for j, idx := range b.BufIndices {
				vals[j] = buf[idx]
			}
			inputs[i] = packList(vals)
		}

		if cmd.Bypassed {
			var v value.Value
			if len(inputs) > 0 {
				v = inputs[0]
			}
			for k := 0; k < cmd.OutCount; k++ {
				buf[cmd.Base+k] = v
			}
			continue
		}

		outVals := cmd.Op.Compute(ctx, inputs)
		if len(outVals) != cmd.OutCount {
			return value.Value{}, fmt.Errorf("compiler: operator %q returned %d outputs, want %d",
				cmd.Op.Name(), len(outVals), cmd.OutCount)
		}
		for k, v := range outVals {
			buf[cmd.Base+k] = v
		}
	}

	if cg.TargetIndex < 0 || cg.TargetIndex >= len(buf) {
		return value.Value{}, graph.ErrNodeNotFound
	}
	return buf[cg.TargetIndex], nil
}

// packList mirrors eval's multi-input packing: it wraps vals into the
// list Kind matching the first element's Kind, coercing every other
// element to match. Kept as its own small copy rather than shared with
// package eval, since each package's Execute/evalNode paths read values
// from a different source (a flat buffer here, recursive calls there)
// and the packing rule itself is the only thing in common.
func packList(vals []value.Value) value.Value {
	if len(vals) == 0 {
		return value.NewFloatList(nil)
	}
	elemKind := vals[0].Kind()
	if _, ok := value.ListKindOf(elemKind); !ok {
		elemKind = value.Float
	}
	switch elemKind {
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
