package solid

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Factory returns a new solid with default attributes.
type Factory func() Solid

// Registry maps type tags to solid factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// NewStandardRegistry returns a registry with the Cylinder and Tube
// variants registered.
func NewStandardRegistry() *Registry {
	r := NewRegistry()
	r.mustRegister(TypeCylinder, func() Solid { return NewCylinder(1, 2) })
	r.mustRegister(TypeTube, func() Solid { return NewTube(0.5, 1, 2) })
	return r
}

func (r *Registry) mustRegister(typ string, f Factory) {
	if err := r.Register(typ, f); err != nil {
		panic(err)
	}
}

// Register adds f under typ, replacing any factory previously
// registered under the same tag.
func (r *Registry) Register(typ string, f Factory) error {
	if typ == "" || f == nil {
		return errors.New("solid: empty type or nil factory")
	}
	r.factories[typ] = f
	return nil
}

// New returns a new solid of type typ.
func (r *Registry) New(typ string) (Solid, error) {
	f, ok := r.factories[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return f(), nil
}

// Decode creates a solid from its document, choosing the
// variant by the document's type tag.
func (r *Registry) Decode(data []byte) (Solid, error) {
	var tag struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	if tag.Type == nil || *tag.Type == "" {
		return nil, ErrMissingType
	}
	s, err := r.New(*tag.Type)
	if err != nil {
		return nil, err
	}
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return s, nil
}

// Types returns the registered type tags in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for typ := range r.factories {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}
