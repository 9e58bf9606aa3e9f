// Package solid implements transformable solids with material and edge
// display attributes, their JSON documents and a registry to decode
// documents of any registered variant.
package solid

import (
	"encoding/json"

	"github.com/soypat/drywell/shape"
)

// Solid is a transformable solid variant.
type Solid interface {
	// Base returns the shared placement, material and edge attributes.
	Base() *Object
	// Type returns the type tag written to the solid's document.
	Type() string
	// Shape returns the kernel shape of the solid in world coordinates.
	Shape() (shape.Shape, error)
	json.Marshaler
	json.Unmarshaler
}

// Context is a display context that presents solids. Implementations
// decide how to draw a solid from its shape and attributes.
type Context interface {
	Display(s Solid) error
	Erase(s Solid)
	Redisplay(s Solid) error
}

// DisplayIn displays s in ctx if s is visible. Hidden solids are erased.
// A nil ctx or s is a no-op.
func DisplayIn(ctx Context, s Solid) error {
	if ctx == nil || s == nil {
		return nil
	}
	if !s.Base().Visible() {
		ctx.Erase(s)
		return nil
	}
	return ctx.Display(s)
}

// EraseFrom erases s from ctx. A nil ctx or s is a no-op.
func EraseFrom(ctx Context, s Solid) {
	if ctx == nil || s == nil {
		return
	}
	ctx.Erase(s)
}

// RedisplayIn refreshes the presentation of s in ctx after its shape
// or attributes changed. Hidden solids are erased.
func RedisplayIn(ctx Context, s Solid) error {
	if ctx == nil || s == nil {
		return nil
	}
	if !s.Base().Visible() {
		ctx.Erase(s)
		return nil
	}
	return ctx.Redisplay(s)
}
