// Package port defines the typed connection points operators expose:
// value inputs/outputs with Constraint-gated connectivity, and
// trigger inputs/outputs for the push-based cascade. Ports are plain
// data — the Graph container owns locking and connection bookkeeping;
// a port here is just the shape a connection must satisfy.
package port

import (
	"github.com/fluxrt/fluxrt/id"
	"github.com/fluxrt/fluxrt/value"
)

// ConstraintKind tags the closed set of connectivity predicates a value
// input or output can be gated by.
type ConstraintKind int

const (
	// AnyConstraint accepts every Kind.
	AnyConstraint ConstraintKind = iota
	// NumericConstraint accepts Float and Int.
	NumericConstraint
	// VectorConstraint accepts Vec2, Vec3, Vec4.
	VectorConstraint
	// ColorLikeConstraint accepts Color, Vec3, Vec4.
	ColorLikeConstraint
	// ArithmeticConstraint accepts numbers, vectors, and Color.
	ArithmeticConstraint
	// ListConstraint accepts any of the eight list kinds.
	ListConstraint
	// MatrixConstraint accepts only Matrix4.
	MatrixConstraint
	// ExactConstraint accepts exactly one Kind, carried in Constraint.Exact.
	ExactConstraint
)

// Constraint gates which value.Kind a port will accept. It is a closed
// variant set rather than an arbitrary predicate function so that a
// registry or editor can enumerate and display a port's compatibility
// without invoking code.
type Constraint struct {
	Kind  ConstraintKind
	Exact value.Kind // meaningful only when Kind == ExactConstraint
}

// Any accepts every value Kind.
func Any() Constraint { return Constraint{Kind: AnyConstraint} }

// Numeric accepts Float and Int.
func Numeric() Constraint { return Constraint{Kind: NumericConstraint} }

// Vector accepts Vec2, Vec3, and Vec4.
func Vector() Constraint { return Constraint{Kind: VectorConstraint} }

// ColorLike accepts Color, Vec3, and Vec4.
func ColorLike() Constraint { return Constraint{Kind: ColorLikeConstraint} }

// Arithmetic accepts numbers, vectors, and Color.
func Arithmetic() Constraint { return Constraint{Kind: ArithmeticConstraint} }

// List accepts any of the eight list kinds.
func List() Constraint { return Constraint{Kind: ListConstraint} }

// Matrix accepts only Matrix4.
func Matrix() Constraint { return Constraint{Kind: MatrixConstraint} }

// Exact accepts only k.
func Exact(k value.Kind) Constraint { return Constraint{Kind: ExactConstraint, Exact: k} }

// Accepts reports whether k satisfies the constraint.
func (c Constraint) Accepts(k value.Kind) bool {
	switch c.Kind {
	case AnyConstraint:
		return value.IsAny(k)
	case NumericConstraint:
		return value.IsNumeric(k)
	case VectorConstraint:
		return value.IsVector(k)
	case ColorLikeConstraint:
		return value.IsColorLike(k)
	case ArithmeticConstraint:
		return value.IsArithmetic(k)
	case ListConstraint:
		return value.IsList(k)
	case MatrixConstraint:
		return value.IsMatrix(k)
	case ExactConstraint:
		return k == c.Exact
	default:
		return false
	}
}

// WidthOf orders kinds by "wider carries more information", used to
// resolve a polymorphic output's concrete Kind from its connected
// inputs: Int < Float < Vec2 < Vec3 < {Vec4, Color}. Kinds outside this
// chain (Bool, String, Gradient, Matrix4, and every list kind) collapse
// to Float's width, since none of them participate in widening.
func WidthOf(k value.Kind) int {
	switch k {
	case value.Int:
		return 0
	case value.Float:
		return 1
	case value.Vec2:
		return 2
	case value.Vec3:
		return 3
	case value.Vec4, value.Color:
		return 4
	default:
		return 1
	}
}

// Source identifies one upstream connection feeding an InputPort: the
// producing node and the index of its output port.
type Source struct {
	Node   id.NodeID
	Output int
}

// InputPort is a value-carrying input. Single-input ports hold at most
// one Source; multi-input ports accumulate Sources in insertion order,
// including duplicate (Node, Output) pairs, which append rather than
// merge.
type InputPort struct {
	Name       string
	Constraint Constraint
	Default    value.Value
	Multi      bool
	sources    []Source
}

// NewInputPort builds a single-input port with the given constraint and
// default value, used whenever the port is disconnected.
func NewInputPort(name string, c Constraint, def value.Value) *InputPort {
	return &InputPort{Name: name, Constraint: c, Default: def}
}

// NewMultiInputPort builds a fan-in port accepting any number of sources.
func NewMultiInputPort(name string, c Constraint, def value.Value) *InputPort {
	return &InputPort{Name: name, Constraint: c, Default: def, Multi: true}
}

// InputMeta is a static, connection-independent description of one
// input port — what a registry hands back to a caller that wants to
// display an operator's ports before constructing or wiring it.
type InputMeta struct {
	Name       string
	Constraint Constraint
	Default    value.Value
	Multi      bool
	Override   *Override
}

// MetaOf builds the static InputMeta for p, carrying along its
// override if one has been set via a graph's input-override map.
func MetaOf(p *InputPort, override *Override) InputMeta {
	return InputMeta{
		Name:       p.Name,
		Constraint: p.Constraint,
		Default:    p.Default,
		Multi:      p.Multi,
		Override:   override,
	}
}

// Sources returns the connected sources in insertion order. The
// returned slice is owned by the caller; mutating it does not affect p.
func (p *InputPort) Sources() []Source {
	out := make([]Source, len(p.sources))
	copy(out, p.sources)
	return out
}

// Len reports how many sources are currently connected.
func (p *InputPort) Len() int { return len(p.sources) }

// AddSource appends src to the port's source list. The Graph container
// is responsible for enforcing single-input cardinality before calling
// this; InputPort itself never rejects a source on cardinality grounds.
func (p *InputPort) AddSource(src Source) {
	p.sources = append(p.sources, src)
}

// RemoveSource removes the first occurrence of src and reports whether
// one was found.
func (p *InputPort) RemoveSource(src Source) bool {
	for i, s := range p.sources {
		if s == src {
			p.sources = append(p.sources[:i], p.sources[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every connected source, leaving the port to fall back
// to its Default.
func (p *InputPort) Clear() { p.sources = nil }

// OutputRule resolves a polymorphic output's concrete Kind from the
// Kinds currently flowing into a subset of the node's inputs, by taking
// the widest one (WidthOf order, ties keep the earliest-listed input).
type OutputRule struct {
	// FromInputs lists the input-port indices that feed this rule.
	FromInputs []int
}

// Resolve returns the widest Kind among inputKinds at the indices named
// by r.FromInputs. If r.FromInputs is empty or every named index is out
// of range, it returns value.Float as a safe default.
func (r OutputRule) Resolve(inputKinds []value.Kind) value.Kind {
	best := value.Float
	haveBest := false
	for _, idx := range r.FromInputs {
		if idx < 0 || idx >= len(inputKinds) {
			continue
		}
		k := inputKinds[idx]
		if !haveBest || WidthOf(k) > WidthOf(best) {
			best = k
			haveBest = true
		}
	}
	return best
}

// OutputPort is a value-producing output. Fixed ports always report
// Kind; polymorphic ports set Rule instead and leave Kind as the zero
// Kind (Float) until resolved against the owning node's input Kinds.
type OutputPort struct {
	Name string
	Kind value.Kind
	Rule *OutputRule
}

// NewOutputPort builds a fixed-kind output port.
func NewOutputPort(name string, k value.Kind) *OutputPort {
	return &OutputPort{Name: name, Kind: k}
}

// NewPolymorphicOutputPort builds an output port whose Kind is resolved
// at graph-build time from the node's input Kinds via rule.
func NewPolymorphicOutputPort(name string, rule OutputRule) *OutputPort {
	return &OutputPort{Name: name, Rule: &rule}
}

// ResolvedKind returns p.Kind for a fixed port, or the result of
// applying p.Rule to inputKinds for a polymorphic one.
func (p *OutputPort) ResolvedKind(inputKinds []value.Kind) value.Kind {
	if p.Rule == nil {
		return p.Kind
	}
	return p.Rule.Resolve(inputKinds)
}

// Override is a sparse, per-instance UI hint attached to one input
// index: a suggested numeric range, a display label, a unit string,
// and a step increment. Overrides never change connection or coercion
// semantics — they are metadata an editor persists alongside the node,
// exactly as visual layout is persisted but never consulted by Connect
// or Compute.
type Override struct {
	HasRange bool
	Range    [2]float32
	Label    string
	Unit     string
	Step     float32
}

// Target identifies one trigger-input endpoint: the receiving node and
// the index of its trigger input port.
type Target struct {
	Node  id.NodeID
	Input int
}

// TriggerInput is a pulse-receiving port; it carries no value.
type TriggerInput struct {
	Name string
}

// NewTriggerInput builds a trigger input port.
func NewTriggerInput(name string) *TriggerInput { return &TriggerInput{Name: name} }

// TriggerOutput fans a pulse out to any number of TriggerInputs.
// Targets are deduplicated: connecting the same Target twice is a
// no-op, existence tracked via a set rather than a possibly-duplicated
// list.
type TriggerOutput struct {
	Name      string
	targets   []Target
	targetSet map[Target]struct{}
}

// NewTriggerOutput builds a trigger output port.
func NewTriggerOutput(name string) *TriggerOutput {
	return &TriggerOutput{Name: name, targetSet: make(map[Target]struct{})}
}

// Connect adds target to the fan-out set, returning false if it was
// already present.
func (t *TriggerOutput) Connect(target Target) bool {
	if t.targetSet == nil {
		t.targetSet = make(map[Target]struct{})
	}
	if _, exists := t.targetSet[target]; exists {
		return false
	}
	t.targetSet[target] = struct{}{}
	t.targets = append(t.targets, target)
	return true
}

// Disconnect removes target from the fan-out set, returning false if it
// was not present.
func (t *TriggerOutput) Disconnect(target Target) bool {
	if _, exists := t.targetSet[target]; !exists {
		return false
	}
	delete(t.targetSet, target)
	for i, tgt := range t.targets {
		if tgt == target {
			t.targets = append(t.targets[:i], t.targets[i+1:]...)
			break
		}
	}
	return true
}

// Targets returns the connected targets in connection order.
func (t *TriggerOutput) Targets() []Target {
	out := make([]Target, len(t.targets))
	copy(out, t.targets)
	return out
}
