// Package command implements undoable atomic graph mutations: a small
// Command interface with five canonical primitives (AddNode,
// RemoveNode, Connect, Disconnect, SetInputDefault), composable into a
// MacroCommand, plus the linear undo/redo History stack. The shape
// mirrors a functional-option construction idiom adapted to commands:
// each primitive captures exactly the prior state it needs at Execute
// time so Undo can restore it without the graph keeping any history of
// its own.
package command

import (
	"fmt"

	"github.com/fluxrt/fluxrt/graph"
	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/port"
	"github.com/fluxrt/fluxrt/value"
)

// Command is one atomic, undoable graph mutation.
type Command interface {
	Name() string
	Execute(g *graph.Graph) error
	Undo(g *graph.Graph) error
}

// NodeRef names a node a command operates on: either a concrete,
// already-known NodeID, or the node an earlier *AddNode in the same
// MacroCommand will create. The indirection is what lets a single
// macro add a node and wire it into a chain ("add middle; connect
// src->middle; connect middle->sink") in one atomic unit, without the
// caller needing to poll AddNode.ID() between Execute calls.
type NodeRef struct {
	fixed    graph.NodeID
	fixedSet bool
	from     *AddNode
}

// Fixed builds a NodeRef naming an already-existing node.
func Fixed(id graph.NodeID) NodeRef { return NodeRef{fixed: id, fixedSet: true} }

// FromAdd builds a NodeRef naming the node c will create once executed.
// Resolving it before c.Execute has run returns the nil NodeID.
func FromAdd(c *AddNode) NodeRef { return NodeRef{from: c} }

// Resolve returns the concrete NodeID the ref currently names.
func (r NodeRef) Resolve() graph.NodeID {
	if r.from != nil {
		return r.from.id
	}
	return r.fixed
}

// AddNode inserts a freshly constructed operator as a new node.
// Factory is called once per Execute (including on redo), so it must
// return an independent operator instance each time rather than
// closing over shared mutable state.
type AddNode struct {
	Factory func() operator.Operator

	id graph.NodeID
	ok bool
}

func (c *AddNode) Name() string { return "AddNode" }

// ID returns the NodeID assigned by the most recent Execute. Calling it
// before any Execute has run returns the nil NodeID.
func (c *AddNode) ID() graph.NodeID { return c.id }

func (c *AddNode) Execute(g *graph.Graph) error {
	c.id = g.AddNode(c.Factory())
	c.ok = true
	return nil
}

func (c *AddNode) Undo(g *graph.Graph) error {
	if !c.ok {
		return nil
	}
	return g.RemoveNode(c.id)
}

// downstreamEdge is one connection that pointed into the removed
// node's output, captured so RemoveNode's Undo can rewire it to the
// node's new id.
type downstreamEdge struct {
	dstNode  graph.NodeID
	dstInput int
	srcOut   int
}

// RemoveNode deletes a node, capturing enough state at Execute time —
// its operator instance (whose own input ports keep their source list,
// since Graph.RemoveNode never touches the removed node's own ports),
// its bypass flag, and every downstream connection that pointed into
// it — to fully restore it, reconnected, on Undo. The restored node
// gets a new NodeID; nothing in this package or the graph depends on
// node identity surviving a remove/undo round trip.
type RemoveNode struct {
	Target NodeRef

	id        graph.NodeID
	op        operator.Operator
	bypassed  bool
	downstream []downstreamEdge
	captured  bool
}

func (c *RemoveNode) Name() string { return "RemoveNode" }

func (c *RemoveNode) Execute(g *graph.Graph) error {
	id := c.Target.Resolve()
	op, err := g.Operator(id)
	if err != nil {
		return err
	}
	bypassed, err := g.Bypassed(id)
	if err != nil {
		return err
	}
	var downstream []downstreamEdge
	for _, conn := range g.Connections() {
		if conn.SrcNode == id {
			downstream = append(downstream, downstreamEdge{dstNode: conn.DstNode, dstInput: conn.DstInput, srcOut: conn.SrcOutput})
		}
	}

	if err := g.RemoveNode(id); err != nil {
		return err
	}
	c.id, c.op, c.bypassed, c.downstream, c.captured = id, op, bypassed, downstream, true
	return nil
}

func (c *RemoveNode) Undo(g *graph.Graph) error {
	if !c.captured {
		return fmt.Errorf("command: RemoveNode.Undo called before Execute")
	}
	newID := g.AddNode(c.op)
	if c.bypassed {
		if err := g.SetBypassed(newID, true); err != nil {
			return err
		}
	}
	for _, e := range c.downstream {
		if err := g.ConnectDirect(newID, e.srcOut, e.dstNode, e.dstInput); err != nil {
			return err
		}
	}
	c.id = newID
	return nil
}

// Connect wires src's output to dst's input, capturing dst's prior
// source list at that input so Undo restores it exactly — including
// multi-input fan-in membership — and removing any conversion node
// Connect inserted.
type Connect struct {
	Src, Dst   NodeRef
	SrcOut     int
	DstIn      int

	prevSources  []port.Source
	convID       graph.NodeID
	hasConv      bool
	executed     bool
}

func (c *Connect) Name() string { return "Connect" }

func (c *Connect) Execute(g *graph.Graph) error {
	dst := c.Dst.Resolve()
	src := c.Src.Resolve()

	in, err := g.InputPort(dst, c.DstIn)
	if err != nil {
		return err
	}
	c.prevSources = in.Sources()

	convID, err := g.Connect(src, c.SrcOut, dst, c.DstIn)
	if err != nil {
		return err
	}
	if convID != (graph.NodeID{}) {
		c.convID, c.hasConv = convID, true
	}
	c.executed = true
	return nil
}

func (c *Connect) Undo(g *graph.Graph) error {
	if !c.executed {
		return nil
	}
	dst := c.Dst.Resolve()
	in, err := g.InputPort(dst, c.DstIn)
	if err != nil {
		return err
	}
	in.Clear()
	for _, s := range c.prevSources {
		in.AddSource(s)
	}
	g.Touch(dst)
	if c.hasConv {
		return g.RemoveNode(c.convID)
	}
	return nil
}

// Disconnect removes one connection, capturing the destination input's
// full prior source list so Undo restores it exactly.
type Disconnect struct {
	Src, Dst NodeRef
	SrcOut   int
	DstIn    int

	prevSources []port.Source
	executed    bool
}

func (c *Disconnect) Name() string { return "Disconnect" }

func (c *Disconnect) Execute(g *graph.Graph) error {
	dst := c.Dst.Resolve()
	src := c.Src.Resolve()

	in, err := g.InputPort(dst, c.DstIn)
	if err != nil {
		return err
	}
	c.prevSources = in.Sources()

	if err := g.Disconnect(src, c.SrcOut, dst, c.DstIn); err != nil {
		return err
	}
	c.executed = true
	return nil
}

func (c *Disconnect) Undo(g *graph.Graph) error {
	if !c.executed {
		return nil
	}
	dst := c.Dst.Resolve()
	in, err := g.InputPort(dst, c.DstIn)
	if err != nil {
		return err
	}
	in.Clear()
	for _, s := range c.prevSources {
		in.AddSource(s)
	}
	g.Touch(dst)
	return nil
}

// SetInputDefault changes one input's fallback value, capturing the
// prior default so Undo restores it.
type SetInputDefault struct {
	Target NodeRef
	Input  int
	Value  value.Value

	prevValue value.Value
	executed  bool
}

func (c *SetInputDefault) Name() string { return "SetInputDefault" }

func (c *SetInputDefault) Execute(g *graph.Graph) error {
	target := c.Target.Resolve()
	in, err := g.InputPort(target, c.Input)
	if err != nil {
		return err
	}
	c.prevValue = in.Default
	if !g.SetInputDefault(target, c.Input, c.Value) {
		return fmt.Errorf("command: SetInputDefault: %w", graph.ErrInputIndexOutOfRange)
	}
	c.executed = true
	return nil
}

func (c *SetInputDefault) Undo(g *graph.Graph) error {
	if !c.executed {
		return nil
	}
	target := c.Target.Resolve()
	if !g.SetInputDefault(target, c.Input, c.prevValue) {
		return fmt.Errorf("command: SetInputDefault.Undo: %w", graph.ErrInputIndexOutOfRange)
	}
	return nil
}

// MacroCommand composes an ordered sequence of commands into one
// atomic unit: Execute runs each in order, rolling back (undoing)
// whatever already succeeded if one fails partway through; Undo runs
// every sub-command's Undo in reverse order.
type MacroCommand struct {
	Label string
	Steps []Command

	ran int
}

func (c *MacroCommand) Name() string {
	if c.Label != "" {
		return c.Label
	}
	return "MacroCommand"
}

func (c *MacroCommand) Execute(g *graph.Graph) error {
	for i, step := range c.Steps {
		if err := step.Execute(g); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Steps[j].Undo(g)
			}
			c.ran = 0
			return fmt.Errorf("command: macro %q step %d (%s): %w", c.Name(), i, step.Name(), err)
		}
		c.ran = i + 1
	}
	return nil
}

func (c *MacroCommand) Undo(g *graph.Graph) error {
	for i := c.ran - 1; i >= 0; i-- {
		if err := c.Steps[i].Undo(g); err != nil {
			return fmt.Errorf("command: macro %q undo step %d (%s): %w", c.Name(), i, c.Steps[i].Name(), err)
		}
	}
	c.ran = 0
	return nil
}
