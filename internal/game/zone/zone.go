// Package zone implements named movement-effect zones: circle and square
// world regions, the zone registry with spatial lookup, and the per-player
// enter/stay/exit state machine that applies and removes zone effects.
package zone

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/udisondev/zonefx/internal/model"
)

// Shape is the horizontal footprint of a zone.
type Shape uint8

const (
	ShapeCircle Shape = iota + 1 // size is the radius
	ShapeSquare                  // size is the half-edge
)

// ShapeNames lists accepted shape names in lower case.
var ShapeNames = []string{"circle", "square"}

// ParseShape parses a shape name case-insensitively.
func ParseShape(s string) (Shape, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CIRCLE":
		return ShapeCircle, nil
	case "SQUARE":
		return ShapeSquare, nil
	default:
		return 0, fmt.Errorf("%w: unknown shape %q", ErrInvalid, s)
	}
}

// String returns the persisted shape tag ("CIRCLE" or "SQUARE").
func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "CIRCLE"
	case ShapeSquare:
		return "SQUARE"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// Params holds the tunable effect parameters of a zone.
// Multipliers of 1.0 and a drain of 0.0 mean "no effect".
type Params struct {
	Gravity      float64
	Speed        float64
	Jump         float64
	Knockback    float64
	StaminaDrain float64 // saturation points per second
}

// DefaultParams returns parameters with no effect.
func DefaultParams() Params {
	return Params{
		Gravity:   1.0,
		Speed:     1.0,
		Jump:      1.0,
		Knockback: 1.0,
	}
}

// Validate checks the parameter invariants.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"gravity", p.Gravity},
		{"speed", p.Speed},
		{"jump", p.Jump},
		{"knockback", p.Knockback},
		{"stamina", p.StaminaDrain},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalid, f.name)
		}
	}
	if p.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %g", ErrInvalid, p.Speed)
	}
	if p.StaminaDrain < 0 {
		return fmt.Errorf("%w: stamina drain must not be negative, got %g", ErrInvalid, p.StaminaDrain)
	}
	return nil
}

// Zone is a named region with movement effect parameters.
// Name, center and shape never change after creation. Zone is a value type:
// the registry hands out copies, never references into its own storage.
type Zone struct {
	name   string
	center model.Location
	shape  Shape
	size   float64
	params Params
}

// New creates a zone with default (no-op) effect parameters.
func New(name string, center model.Location, shape Shape, size float64) (Zone, error) {
	return Restore(name, center, shape, size, DefaultParams())
}

// Restore creates a zone with explicit parameters, e.g. from storage.
func Restore(name string, center model.Location, shape Shape, size float64, params Params) (Zone, error) {
	if err := ValidateName(name); err != nil {
		return Zone{}, err
	}
	if center.World == "" {
		return Zone{}, fmt.Errorf("%w: zone %q has no world", ErrInvalid, name)
	}
	if shape != ShapeCircle && shape != ShapeSquare {
		return Zone{}, fmt.Errorf("%w: zone %q has unknown shape %s", ErrInvalid, name, shape)
	}
	if err := validateSize(size); err != nil {
		return Zone{}, err
	}
	if err := params.Validate(); err != nil {
		return Zone{}, fmt.Errorf("zone %q: %w", name, err)
	}

	return Zone{
		name:   name,
		center: center,
		shape:  shape,
		size:   size,
		params: params,
	}, nil
}

// ValidateName checks that name is usable as a registry key and command argument.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: zone name must not be empty", ErrInvalid)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: zone name %q must not contain spaces", ErrInvalid, name)
	}
	return nil
}

func validateSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return fmt.Errorf("%w: size must be a positive number, got %g", ErrInvalid, size)
	}
	return nil
}

// Name returns the unique zone name.
func (z Zone) Name() string { return z.name }

// Center returns the zone center.
func (z Zone) Center() model.Location { return z.center }

// Shape returns the zone footprint.
func (z Zone) Shape() Shape { return z.shape }

// Size returns the radius (circle) or half-edge (square).
func (z Zone) Size() float64 { return z.size }

// Params returns the effect parameters.
func (z Zone) Params() Params { return z.params }

// Contains reports whether loc lies inside the zone's vertical column.
// Locations in another world are never inside. The Y axis is ignored.
func (z Zone) Contains(loc model.Location) bool {
	if loc.World != z.center.World {
		return false
	}

	switch z.shape {
	case ShapeCircle:
		return loc.HorizontalDistanceSquared(z.center) <= z.size*z.size
	case ShapeSquare:
		return math.Abs(loc.X-z.center.X) <= z.size && math.Abs(loc.Z-z.center.Z) <= z.size
	default:
		return false
	}
}

// bounds returns the XZ bounding box of the footprint.
func (z Zone) bounds() (minX, maxX, minZ, maxZ float64) {
	return z.center.X - z.size, z.center.X + z.size, z.center.Z - z.size, z.center.Z + z.size
}

// with returns a copy of z with prop set to v, validated.
func (z Zone) with(prop Property, v float64) (Zone, error) {
	next := z
	switch prop {
	case PropertyGravity:
		next.params.Gravity = v
	case PropertySpeed:
		next.params.Speed = v
	case PropertyJump:
		next.params.Jump = v
	case PropertyKnockback:
		next.params.Knockback = v
	case PropertyStamina:
		next.params.StaminaDrain = v
	case PropertySize:
		if err := validateSize(v); err != nil {
			return z, err
		}
		next.size = v
	default:
		return z, fmt.Errorf("%w: unknown property %s", ErrInvalid, prop)
	}

	if err := next.params.Validate(); err != nil {
		return z, err
	}
	return next, nil
}

// Property is an editable zone attribute.
type Property uint8

const (
	PropertyGravity Property = iota + 1
	PropertySpeed
	PropertyJump
	PropertyKnockback
	PropertyStamina
	PropertySize
)

var propertyNames = map[Property]string{
	PropertyGravity:   "gravity",
	PropertySpeed:     "speed",
	PropertyJump:      "jump",
	PropertyKnockback: "knockback",
	PropertyStamina:   "stamina",
	PropertySize:      "size",
}

// PropertyNames lists editable property names in display order.
func PropertyNames() []string {
	return []string{"gravity", "speed", "jump", "knockback", "stamina", "size"}
}

// ParseProperty parses a property name case-insensitively.
func ParseProperty(s string) (Property, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for p, n := range propertyNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown property %q", ErrInvalid, s)
}

// String returns the property name.
func (p Property) String() string {
	if n, ok := propertyNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Property(%d)", uint8(p))
}
