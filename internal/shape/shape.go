// Package shape defines the convex collision primitives and their
// world-space bounding volume derivation.
package shape

import (
	"bump3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Shape is a convex collision primitive described in local space.
// The set of shapes is closed: Sphere, Box and Capsule.
type Shape interface {
	// AABB computes the world-space bounding box under the given transform.
	AABB(tr Transform) geom.AABB

	// Degenerate reports whether the shape has no usable extent.
	Degenerate() bool

	isShape()
}

// Sphere is centered on its transform position. Rotation has no effect.
type Sphere struct {
	Radius float32
}

// Box holds half extents along its local axes.
type Box struct {
	HalfExtents rl.Vector3
}

// Capsule is a segment along the local Y axis with hemispherical caps.
// HalfHeight is half the segment length, excluding the caps.
type Capsule struct {
	Radius     float32
	HalfHeight float32
}

func (Sphere) isShape()  {}
func (Box) isShape()     {}
func (Capsule) isShape() {}

func (s Sphere) AABB(tr Transform) geom.AABB {
	half := rl.Vector3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return geom.FromCenter(tr.Position, half)
}

func (s Sphere) Degenerate() bool {
	return s.Radius <= 0
}

func (b Box) AABB(tr Transform) geom.AABB {
	axes := tr.Axes()
	// Project the half extents of each rotated axis onto the world axes.
	half := rl.Vector3{}
	ext := [3]float32{b.HalfExtents.X, b.HalfExtents.Y, b.HalfExtents.Z}
	for i := 0; i < 3; i++ {
		half.X += absf(axes[i].X) * ext[i]
		half.Y += absf(axes[i].Y) * ext[i]
		half.Z += absf(axes[i].Z) * ext[i]
	}
	return geom.FromCenter(tr.Position, half)
}

func (b Box) Degenerate() bool {
	return b.HalfExtents.X <= 0 || b.HalfExtents.Y <= 0 || b.HalfExtents.Z <= 0
}

func (c Capsule) AABB(tr Transform) geom.AABB {
	a, b := c.Segment(tr)
	half := rl.Vector3{X: c.Radius, Y: c.Radius, Z: c.Radius}
	return geom.FromCenter(a, half).Merge(geom.FromCenter(b, half))
}

func (c Capsule) Degenerate() bool {
	return c.Radius <= 0 || c.HalfHeight < 0
}

// Segment returns the world-space endpoints of the capsule's core segment.
func (c Capsule) Segment(tr Transform) (rl.Vector3, rl.Vector3) {
	up := tr.Axes()[1]
	offset := rl.Vector3Scale(up, c.HalfHeight)
	return rl.Vector3Subtract(tr.Position, offset), rl.Vector3Add(tr.Position, offset)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
