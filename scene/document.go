package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/soypat/drywell/solid"
	"go.uber.org/zap"
)

// DocumentVersion is written to every scene document.
const DocumentVersion = "1.0"

type document struct {
	Version     string                     `json:"version"`
	ObjectCount int                        `json:"objectCount"`
	Objects     map[string]json.RawMessage `json:"objects"`
}

// MarshalJSON returns the scene document of the set.
func (s *Set) MarshalJSON() ([]byte, error) {
	doc := document{
		Version:     DocumentVersion,
		ObjectCount: len(s.objects),
		Objects:     make(map[string]json.RawMessage, len(s.objects)),
	}
	for name, obj := range s.objects {
		b, err := obj.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", name, err)
		}
		doc.Objects[name] = b
	}
	return json.Marshal(doc)
}

// Decode replaces the contents of the set with the solids of a scene
// document, creating each through reg by its type tag. Entries of unknown
// type or that fail to decode are skipped. The set is left untouched if
// the document itself is invalid. A nil reg decodes the standard variants.
func (s *Set) Decode(data []byte, reg *solid.Registry) error {
	var doc struct {
		Version *string         `json:"version"`
		Objects json.RawMessage `json:"objects"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode scene: %w", err)
	}
	if doc.Version == nil {
		return ErrMissingVersion
	}
	var entries map[string]json.RawMessage
	if len(doc.Objects) == 0 || json.Unmarshal(doc.Objects, &entries) != nil || entries == nil {
		return ErrMissingObjects
	}
	if reg == nil {
		reg = solid.NewStandardRegistry()
	}
	objects := make(map[string]solid.Solid, len(entries))
	for name, raw := range entries {
		obj, err := reg.Decode(raw)
		if err != nil {
			s.log.Warn("skipping scene object", zap.String("name", name), zap.Error(err))
			continue
		}
		objects[name] = obj
	}
	s.Clear()
	s.objects = objects
	s.log.Debug("scene decoded", zap.String("version", *doc.Version), zap.Int("objects", len(objects)), zap.Int("skipped", len(entries)-len(objects)))
	return nil
}

// SaveFile writes the scene document to path.
func (s *Set) SaveFile(path string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	return nil
}

// LoadFile replaces the contents of the set with the scene document at path.
func (s *Set) LoadFile(path string, reg *solid.Registry) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	if err := s.Decode(b, reg); err != nil {
		return fmt.Errorf("load scene %s: %w", path, err)
	}
	return nil
}
