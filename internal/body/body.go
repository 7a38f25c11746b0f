// Package body owns the physics bodies: opaque handles, categories,
// collision layer bitsets and world transforms.
package body

import "bump3d/internal/shape"

// ID is an opaque handle to a body. Handles are unique per registry and
// never reused for its lifetime.
type ID uint64

// Mask is a collision layer bitset. Hosts configured for 32-bit layers
// simply leave the upper bits clear.
type Mask uint64

const (
	MaskNone Mask = 0
	MaskAll  Mask = ^Mask(0)
)

// Category classifies how a body participates in collision resolution.
// A body keeps its category for its whole lifetime.
type Category uint8

const (
	// Kinematic bodies move under host-driven displacement and are
	// corrected against solids.
	Kinematic Category = iota
	// Static bodies are immovable solid obstacles.
	Static
	// Trigger bodies are non-solid volumes that report Enter/Stay/Exit.
	Trigger
)

func (c Category) String() string {
	switch c {
	case Kinematic:
		return "kinematic"
	case Static:
		return "static"
	case Trigger:
		return "trigger"
	}
	return "unknown"
}

// Solid reports whether the body blocks movement and ray casts.
func (c Category) Solid() bool {
	return c != Trigger
}

// View is a read-only snapshot of a body.
type View struct {
	ID        ID
	Category  Category
	Shape     shape.Shape
	Transform shape.Transform
	Layer     Mask // layers this body belongs to
	Mask      Mask // layers this body interacts with
}

// CanCollide reports whether two bodies are eligible for narrowphase
// testing: each one's layer must intersect the other's mask.
func CanCollide(a, b View) bool {
	return a.Layer&b.Mask != 0 && b.Layer&a.Mask != 0
}
