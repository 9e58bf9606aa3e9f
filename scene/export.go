package scene

import (
	"errors"
	"fmt"
	"io"

	"github.com/soypat/drywell/render"
	"github.com/soypat/drywell/shape"
)

// Compound returns the union of the kernel shapes of all solids.
func (s *Set) Compound() (shape.Shape, error) {
	if s.IsEmpty() {
		return nil, errors.New("compound of empty scene")
	}
	shapes := make([]shape.Shape, 0, len(s.objects))
	for _, name := range s.Names() {
		sh, err := s.objects[name].Shape()
		if err != nil {
			return nil, fmt.Errorf("shape of %q: %w", name, err)
		}
		shapes = append(shapes, sh)
	}
	return shape.Union3D(shapes...)
}

// WriteSTL writes the tessellated compound of all solids to w
// in binary STL format.
func (s *Set) WriteSTL(w io.Writer, segments int) error {
	c, err := s.Compound()
	if err != nil {
		return err
	}
	model, err := render.RenderAll(render.NewShapeRenderer(c, segments))
	if err != nil {
		return err
	}
	return render.WriteSTL(w, model)
}

// ExportSTL writes the tessellated compound of all solids to an STL file.
func (s *Set) ExportSTL(path string, segments int) error {
	c, err := s.Compound()
	if err != nil {
		return err
	}
	if err := render.CreateSTL(path, render.NewShapeRenderer(c, segments)); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
