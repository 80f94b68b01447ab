// Package zonefile stores zones in a YAML document:
//
//	zones:
//	  spawn:
//	    center: {world: world, x: 0.5, y: 64, z: 0.5}
//	    shape: CIRCLE
//	    size: 10
//	    gravity: 1
//	    speed: 0.5
//	    jump: 1
//	    knockback: 1
//	    stamina: 0
//
// Absent effect parameters load as their no-effect defaults. Zone order in
// the document is the registry insertion order.
package zonefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/zonefx/internal/game/zone"
	"github.com/udisondev/zonefx/internal/model"
)

const rootKey = "zones"

type centerRecord struct {
	World string  `yaml:"world"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
}

type zoneRecord struct {
	Center    centerRecord `yaml:"center"`
	Shape     string       `yaml:"shape"`
	Size      float64      `yaml:"size"`
	Gravity   *float64     `yaml:"gravity"`
	Speed     *float64     `yaml:"speed"`
	Jump      *float64     `yaml:"jump"`
	Knockback *float64     `yaml:"knockback"`
	Stamina   *float64     `yaml:"stamina"`
}

// Store reads and writes one zones file.
type Store struct {
	path string
}

// New creates a store for the file at path. The file need not exist.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path.
func (s *Store) Path() string { return s.path }

// LoadAll reads all zones. A missing file yields no zones.
// Records that fail validation are skipped with a warning.
func (s *Store) LoadAll(_ context.Context) ([]zone.Zone, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading zones file %q: %w", s.path, err)
	}
	return Decode(data)
}

// SaveAll writes zones, replacing the file atomically.
func (s *Store) SaveAll(_ context.Context, zones []zone.Zone) error {
	data, err := Encode(zones)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating zones dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp zones file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing zones file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing zones file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing zones file: %w", err)
	}

	slog.Debug("saved zones", "backend", "yaml", "path", s.path, "count", len(zones))
	return nil
}

// Decode parses a zones document, keeping document order.
func Decode(data []byte) ([]zone.Zone, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing zones yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing zones yaml: document is not a mapping")
	}
	section := mappingValue(root, rootKey)
	if section == nil || section.Tag == "!!null" {
		return nil, nil
	}
	if section.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing zones yaml: %q is not a mapping", rootKey)
	}

	zones := make([]zone.Zone, 0, len(section.Content)/2)
	for i := 0; i+1 < len(section.Content); i += 2 {
		name := section.Content[i].Value

		var rec zoneRecord
		if err := section.Content[i+1].Decode(&rec); err != nil {
			slog.Warn("skip malformed zone record", "zone", name, "line", section.Content[i].Line, "error", err)
			continue
		}
		z, err := rec.toZone(name)
		if err != nil {
			slog.Warn("skip invalid zone record", "zone", name, "error", err)
			continue
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// Encode renders zones as a zones document in slice order.
func Encode(zones []zone.Zone) ([]byte, error) {
	section := &yaml.Node{Kind: yaml.MappingNode}
	for _, z := range zones {
		var value yaml.Node
		if err := value.Encode(fromZone(z)); err != nil {
			return nil, fmt.Errorf("encoding zone %q: %w", z.Name(), err)
		}
		section.Content = append(section.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: z.Name()},
			&value)
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: rootKey},
		section,
	}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding zones yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding zones yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func (r zoneRecord) toZone(name string) (zone.Zone, error) {
	shape, err := zone.ParseShape(r.Shape)
	if err != nil {
		return zone.Zone{}, err
	}

	params := zone.DefaultParams()
	setIf(&params.Gravity, r.Gravity)
	setIf(&params.Speed, r.Speed)
	setIf(&params.Jump, r.Jump)
	setIf(&params.Knockback, r.Knockback)
	setIf(&params.StaminaDrain, r.Stamina)

	center := model.NewLocation(r.Center.World, r.Center.X, r.Center.Y, r.Center.Z)
	return zone.Restore(name, center, shape, r.Size, params)
}

func fromZone(z zone.Zone) zoneRecord {
	c := z.Center()
	p := z.Params()
	return zoneRecord{
		Center:    centerRecord{World: c.World, X: c.X, Y: c.Y, Z: c.Z},
		Shape:     z.Shape().String(),
		Size:      z.Size(),
		Gravity:   &p.Gravity,
		Speed:     &p.Speed,
		Jump:      &p.Jump,
		Knockback: &p.Knockback,
		Stamina:   &p.StaminaDrain,
	}
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
