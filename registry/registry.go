// Package registry implements named, parameterized operator
// construction: a concurrent, read-mostly map from a name and a
// TypeID to a Registration bundling static metadata with the factory
// closures that build an operator instance — look up a type by name,
// construct it with parameters.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/fluxrt/fluxrt/operator"
	"github.com/fluxrt/fluxrt/port"
)

// TypeID is a stable identifier for one registered operator type,
// distinct from its display Name so a name can be renamed in an editor
// without invalidating serialized graphs that reference the type.
type TypeID string

// Sentinel errors for registry lookups and registration.
var (
	ErrNotFound         = errors.New("registry: not found")
	ErrAlreadyRegistered = errors.New("registry: already registered")
	ErrUnknownParam      = errors.New("registry: unknown parameter")
	ErrParamKindMismatch = errors.New("registry: parameter kind mismatch")
)

// ParamKind tags the closed set of parameter shapes a ParamFactory
// accepts: Float, Int, Bool, or Enum.
type ParamKind int

const (
	ParamFloat ParamKind = iota
	ParamInt
	ParamBool
	ParamEnum
)

// Param is one argument to a ParamFactory call: a Kind tag and the
// matching payload field.
type Param struct {
	Kind ParamKind
	F    float64
	I    int64
	B    bool
	S    string // meaningful only for ParamEnum
}

// ParameterMeta describes one parameter a ParamFactory accepts, for
// introspection (an editor listing available knobs before construction).
// EnumValues is populated only when Kind == ParamEnum, per the
// original flux-operators registry's closed-variant-list convention.
type ParameterMeta struct {
	Name       string
	Kind       ParamKind
	Default    Param
	EnumValues []string
}

// Factory builds a fresh operator instance (and its static input-port
// metadata, for a caller that wants to display ports before wiring)
// with default parameters.
type Factory func() (operator.Operator, []port.InputMeta)

// ParamFactory builds a fresh operator instance from a named parameter
// dictionary, validated against the registration's ParameterMetas.
type ParamFactory func(params map[string]Param) (operator.Operator, []port.InputMeta, error)

// Registration bundles one operator type's static metadata with its
// construction closures.
type Registration struct {
	Name        string
	Category    string
	Description string

	Factory      Factory
	ParamFactory ParamFactory
	ParamMetas   []ParameterMeta
}

// Registry is a concurrent, read-mostly name/TypeID -> Registration
// map. The zero Registry is not usable; construct with New.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]TypeID
	byType map[TypeID]*Registration
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]TypeID),
		byType: make(map[TypeID]*Registration),
	}
}

// Register adds reg under id and reg.Name. It returns
// ErrAlreadyRegistered if either is already taken, leaving the
// registry unchanged.
func (r *Registry) Register(id TypeID, reg Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byType[id]; exists {
		return fmt.Errorf("registry: type %q: %w", id, ErrAlreadyRegistered)
	}
	if _, exists := r.byName[reg.Name]; exists {
		return fmt.Errorf("registry: name %q: %w", reg.Name, ErrAlreadyRegistered)
	}
	cp := reg
	r.byType[id] = &cp
	r.byName[reg.Name] = id
	return nil
}

// CreateByName builds a default-parameter instance of the operator
// registered under name.
func (r *Registry) CreateByName(name string) (operator.Operator, error) {
	reg, err := r.lookupByName(name)
	if err != nil {
		return nil, err
	}
	if reg.Factory == nil {
		return nil, fmt.Errorf("registry: %q has no default factory: %w", name, ErrNotFound)
	}
	op, _ := reg.Factory()
	return op, nil
}

// CreateWithMetaByName is CreateByName but also returns the operator's
// static input-port metadata.
func (r *Registry) CreateWithMetaByName(name string) (operator.Operator, []port.InputMeta, error) {
	reg, err := r.lookupByName(name)
	if err != nil {
		return nil, nil, err
	}
	if reg.Factory == nil {
		return nil, nil, fmt.Errorf("registry: %q has no default factory: %w", name, ErrNotFound)
	}
	op, meta := reg.Factory()
	return op, meta, nil
}

// CreateWithParams builds an instance of the operator registered under
// name using params, validated against its ParameterMetas first so a
// malformed call fails before the ParamFactory runs.
func (r *Registry) CreateWithParams(name string, params map[string]Param) (operator.Operator, error) {
	reg, err := r.lookupByName(name)
	if err != nil {
		return nil, err
	}
	if reg.ParamFactory == nil {
		return nil, fmt.Errorf("registry: %q has no parameterized factory: %w", name, ErrNotFound)
	}
	if err := validateParams(reg.ParamMetas, params); err != nil {
		return nil, err
	}
	op, _, err := reg.ParamFactory(params)
	return op, err
}

func validateParams(metas []ParameterMeta, params map[string]Param) error {
	known := make(map[string]ParamKind, len(metas))
	for _, m := range metas {
		known[m.Name] = m.Kind
	}
	for name, p := range params {
		kind, ok := known[name]
		if !ok {
			return fmt.Errorf("registry: parameter %q: %w", name, ErrUnknownParam)
		}
		if kind != p.Kind {
			return fmt.Errorf("registry: parameter %q: %w", name, ErrParamKindMismatch)
		}
	}
	return nil
}

func (r *Registry) lookupByName(name string) (*Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("registry: name %q: %w", name, ErrNotFound)
	}
	return r.byType[id], nil
}

// ByType looks up a Registration by its TypeID.
func (r *Registry) ByType(id TypeID) (*Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byType[id]
	if !ok {
		return nil, fmt.Errorf("registry: type %q: %w", id, ErrNotFound)
	}
	return reg, nil
}

// ListNames returns every registered operator name, sorted.
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ListAllExtended returns every Registration, sorted by name.
func (r *Registry) ListAllExtended() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Registration, 0, len(r.byType))
	for _, reg := range r.byType {
		out = append(out, *reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByCategory returns every registered name in category, sorted.
func (r *Registry) ByCategory(category string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for name, id := range r.byName {
		if r.byType[id].Category == category {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Categories returns every distinct category currently registered, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, reg := range r.byType {
		seen[reg.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len reports how many operator types are currently registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType)
}
