// Package scene implements a named collection of solids that owns its
// members, applies attributes in bulk, presents them through a display
// context and persists them as a JSON document.
package scene

import (
	"errors"
	"image/color"
	"sort"

	"github.com/soypat/drywell/solid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Set maps unique names to solids. A Set exclusively owns its solids:
// replacing or removing a solid disposes it. A Set is not safe for
// concurrent use.
type Set struct {
	objects map[string]solid.Solid
	log     *zap.Logger
}

// Option configures a Set.
type Option func(*Set)

// WithLogger sets the logger used to report skipped document entries.
func WithLogger(l *zap.Logger) Option {
	return func(s *Set) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns an empty Set.
func New(opts ...Option) *Set {
	s := &Set{
		objects: make(map[string]solid.Solid),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add inserts obj under name. A nil obj is ignored. If name is already
// taken the previous solid is disposed and replaced.
func (s *Set) Add(name string, obj solid.Solid) {
	if obj == nil {
		return
	}
	if prior, ok := s.objects[name]; ok {
		if prior == obj {
			return
		}
		prior.Base().Dispose()
	}
	s.objects[name] = obj
}

// Remove disposes and removes the solid under name.
// It returns false if there was none.
func (s *Set) Remove(name string) bool {
	obj, ok := s.objects[name]
	if !ok {
		return false
	}
	obj.Base().Dispose()
	delete(s.objects, name)
	return true
}

// Get returns the solid under name or nil.
func (s *Set) Get(name string) solid.Solid { return s.objects[name] }

func (s *Set) Contains(name string) bool {
	_, ok := s.objects[name]
	return ok
}

func (s *Set) Len() int      { return len(s.objects) }
func (s *Set) IsEmpty() bool { return len(s.objects) == 0 }

// Names returns the names of all solids in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Range calls fn for each solid in name order until fn returns false.
func (s *Set) Range(fn func(name string, obj solid.Solid) bool) {
	for _, name := range s.Names() {
		if !fn(name, s.objects[name]) {
			return
		}
	}
}

// Clear disposes and removes all solids.
func (s *Set) Clear() {
	for name, obj := range s.objects {
		obj.Base().Dispose()
		delete(s.objects, name)
	}
}

func (s *Set) each(fn func(o *solid.Object)) {
	for _, obj := range s.objects {
		fn(obj.Base())
	}
}

func (s *Set) SetAllVisible(v bool) { s.each(func(o *solid.Object) { o.SetVisible(v) }) }

// SetObjectVisible sets the visibility of the solid under name.
// It returns false if there is no such solid.
func (s *Set) SetObjectVisible(name string, v bool) bool {
	obj, ok := s.objects[name]
	if ok {
		obj.Base().SetVisible(v)
	}
	return ok
}

func (s *Set) SetAllDiffuseColor(c color.NRGBA) {
	s.each(func(o *solid.Object) { o.SetDiffuseColor(c) })
}

func (s *Set) SetAllOpacity(a float64) { s.each(func(o *solid.Object) { o.SetOpacity(a) }) }

func (s *Set) SetAllShowEdges(show bool) { s.each(func(o *solid.Object) { o.SetShowEdges(show) }) }

func (s *Set) SetAllEdgeColor(c color.NRGBA) { s.each(func(o *solid.Object) { o.SetEdgeColor(c) }) }

func (s *Set) SetAllEdgeWidth(w float64) { s.each(func(o *solid.Object) { o.SetEdgeWidth(w) }) }

func (s *Set) SetAllScale(v r3.Vec) { s.each(func(o *solid.Object) { o.SetScale(v) }) }

func (s *Set) SetAllUniformScale(k float64) { s.each(func(o *solid.Object) { o.SetUniformScale(k) }) }

// DisplayAll displays every solid in ctx in name order. All solids are
// attempted, the first error encountered is returned.
func (s *Set) DisplayAll(ctx solid.Context) error {
	return s.fanOut(ctx, solid.DisplayIn)
}

// RedisplayAll refreshes every solid in ctx.
func (s *Set) RedisplayAll(ctx solid.Context) error {
	return s.fanOut(ctx, solid.RedisplayIn)
}

// EraseAll erases every solid from ctx.
func (s *Set) EraseAll(ctx solid.Context) {
	s.fanOut(ctx, func(ctx solid.Context, obj solid.Solid) error {
		solid.EraseFrom(ctx, obj)
		return nil
	})
}

func (s *Set) fanOut(ctx solid.Context, fn func(solid.Context, solid.Solid) error) error {
	if ctx == nil {
		return nil
	}
	var first error
	s.Range(func(name string, obj solid.Solid) bool {
		if err := fn(ctx, obj); err != nil {
			s.log.Debug("display failed", zap.String("name", name), zap.Error(err))
			if first == nil {
				first = err
			}
		}
		return true
	})
	return first
}

var (
	// ErrMissingVersion is returned when a scene document has no version.
	ErrMissingVersion = errors.New("scene document missing version")
	// ErrMissingObjects is returned when a scene document has no object map.
	ErrMissingObjects = errors.New("scene document missing objects")
)
