package model

import (
	"fmt"
	"math"
)

// Location представляет точку в именованном мире.
// Value type, передаётся по значению (immutable).
type Location struct {
	World string
	X     float64
	Y     float64
	Z     float64
}

// NewLocation создаёт Location в мире world.
func NewLocation(world string, x, y, z float64) Location {
	return Location{World: world, X: x, Y: y, Z: z}
}

// WithCoordinates возвращает новый Location в том же мире с новыми координатами.
func (l Location) WithCoordinates(x, y, z float64) Location {
	l.X = x
	l.Y = y
	l.Z = z
	return l
}

// Block returns the integer block cell containing the location.
func (l Location) Block() Block {
	return Block{
		World: l.World,
		X:     int64(math.Floor(l.X)),
		Y:     int64(math.Floor(l.Y)),
		Z:     int64(math.Floor(l.Z)),
	}
}

// SameBlock reports whether both locations fall into the same block cell
// of the same world.
func (l Location) SameBlock(other Location) bool {
	return l.Block() == other.Block()
}

// HorizontalDistanceSquared returns the squared XZ-plane distance to other.
// The vertical axis is ignored.
func (l Location) HorizontalDistanceSquared(other Location) float64 {
	dx := l.X - other.X
	dz := l.Z - other.Z
	return dx*dx + dz*dz
}

// String formats the location as "world(x, y, z)".
func (l Location) String() string {
	return fmt.Sprintf("%s(%.2f, %.2f, %.2f)", l.World, l.X, l.Y, l.Z)
}

// Block is a discrete world cell (floored coordinates).
type Block struct {
	World string
	X     int64
	Y     int64
	Z     int64
}
