package nodegraph

import (
	"fmt"
	"sort"
)

// Factory builds a node of one kind with its pins populated.
type Factory func() Node

// KindInfo describes a registered node kind.
type KindInfo struct {
	Key         string
	Category    string
	Description string
	New         Factory
}

// Registry is a graph type: the catalog of node kinds and pin types a graph
// can be built from and loaded with.
type Registry struct {
	name  string
	kinds map[string]KindInfo
	types map[string]PinType
}

// NewRegistry returns a registry that knows the built-in pin types and the
// core constant and variable kinds.
func NewRegistry(name string) *Registry {
	r := &Registry{
		name:  name,
		kinds: make(map[string]KindInfo),
		types: make(map[string]PinType),
	}
	for _, t := range BuiltinTypes() {
		r.types[t.Key] = t
	}
	return r
}

// Name is the graph type persisted in documents.
func (r *Registry) Name() string { return r.name }

// Register adds a node kind. Keys are unique per registry.
func (r *Registry) Register(info KindInfo) error {
	if info.Key == "" || info.New == nil {
		return fmt.Errorf("nodegraph: kind needs a key and a factory")
	}
	if info.Key == KindConstant || info.Key == KindVariable {
		return fmt.Errorf("nodegraph: kind %q is reserved", info.Key)
	}
	if _, exists := r.kinds[info.Key]; exists {
		return fmt.Errorf("nodegraph: kind %q already registered", info.Key)
	}
	r.kinds[info.Key] = info
	return nil
}

// MustRegister is Register for catalogs assembled at startup.
func (r *Registry) MustRegister(info KindInfo) {
	if err := r.Register(info); err != nil {
		panic(err)
	}
}

// Describe returns the metadata of a registered kind.
func (r *Registry) Describe(key string) (KindInfo, bool) {
	info, ok := r.kinds[key]
	return info, ok
}

// Kinds returns the registered kind keys in sorted order.
func (r *Registry) Kinds() []string {
	keys := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RegisterType adds a host pin type.
func (r *Registry) RegisterType(t PinType) error {
	if _, exists := r.types[t.Key]; exists {
		return fmt.Errorf("nodegraph: pin type %q already registered", t.Key)
	}
	r.types[t.Key] = t
	return nil
}

// Type looks up a pin type by key.
func (r *Registry) Type(key string) (PinType, bool) {
	t, ok := r.types[key]
	return t, ok
}

// Types returns the registered pin type keys in sorted order.
func (r *Registry) Types() []string {
	keys := make([]string, 0, len(r.types))
	for k := range r.types {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) create(key string) (Node, error) {
	info, ok := r.kinds[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, key)
	}
	n := info.New()
	n.Core().kind = key
	return n, nil
}
