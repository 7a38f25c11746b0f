package shape

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB is an oriented bounding box, the world-space form of a rotated Box.
// The exact box tests in the narrowphase operate on it.
type OBB struct {
	Center   rl.Vector3    // world-space center
	HalfSize rl.Vector3    // half extents along local axes
	Axes     [3]rl.Vector3 // rotated local X, Y, Z axes
}

// NewOBB places a Box under a transform.
func NewOBB(b Box, tr Transform) OBB {
	return OBB{
		Center:   tr.Position,
		HalfSize: b.HalfExtents,
		Axes:     tr.Axes(),
	}
}

// ToLocal expresses a world-space point in the box's local frame.
func (o OBB) ToLocal(p rl.Vector3) rl.Vector3 {
	d := rl.Vector3Subtract(p, o.Center)
	return rl.Vector3{
		X: rl.Vector3DotProduct(d, o.Axes[0]),
		Y: rl.Vector3DotProduct(d, o.Axes[1]),
		Z: rl.Vector3DotProduct(d, o.Axes[2]),
	}
}

// FromLocal maps a local-frame point back to world space.
func (o OBB) FromLocal(local rl.Vector3) rl.Vector3 {
	world := o.Center
	world = rl.Vector3Add(world, rl.Vector3Scale(o.Axes[0], local.X))
	world = rl.Vector3Add(world, rl.Vector3Scale(o.Axes[1], local.Y))
	world = rl.Vector3Add(world, rl.Vector3Scale(o.Axes[2], local.Z))
	return world
}

// ClosestPoint returns the point on (or in) the box closest to p.
func (o OBB) ClosestPoint(p rl.Vector3) rl.Vector3 {
	local := o.ToLocal(p)
	local.X = clampf(local.X, -o.HalfSize.X, o.HalfSize.X)
	local.Y = clampf(local.Y, -o.HalfSize.Y, o.HalfSize.Y)
	local.Z = clampf(local.Z, -o.HalfSize.Z, o.HalfSize.Z)
	return o.FromLocal(local)
}

// MTV returns the minimum translation vector that pushes box a out of box b,
// found by testing the 15 separating axes. The zero vector means the boxes
// do not overlap (an exact touch also yields zero).
func (a OBB) MTV(b OBB) rl.Vector3 {
	t := rl.Vector3Subtract(b.Center, a.Center)
	minPenetration := float32(math32.MaxFloat32)
	separated := false
	var mtv rl.Vector3

	testAxis := func(axis rl.Vector3) {
		if separated {
			return
		}
		if rl.Vector3Length(axis) < 0.0001 {
			return // parallel edges produce a near-zero cross product
		}
		axis = rl.Vector3Normalize(axis)

		aProj := a.HalfSize.X*absf(rl.Vector3DotProduct(a.Axes[0], axis)) +
			a.HalfSize.Y*absf(rl.Vector3DotProduct(a.Axes[1], axis)) +
			a.HalfSize.Z*absf(rl.Vector3DotProduct(a.Axes[2], axis))

		bProj := b.HalfSize.X*absf(rl.Vector3DotProduct(b.Axes[0], axis)) +
			b.HalfSize.Y*absf(rl.Vector3DotProduct(b.Axes[1], axis)) +
			b.HalfSize.Z*absf(rl.Vector3DotProduct(b.Axes[2], axis))

		dist := rl.Vector3DotProduct(t, axis)
		penetration := aProj + bProj - absf(dist)
		if penetration <= 0 {
			separated = true
			return
		}

		if penetration < minPenetration {
			minPenetration = penetration
			// Push a away from b.
			if dist < 0 {
				mtv = rl.Vector3Scale(axis, penetration)
			} else {
				mtv = rl.Vector3Scale(axis, -penetration)
			}
		}
	}

	for i := 0; i < 3; i++ {
		testAxis(a.Axes[i])
	}
	for i := 0; i < 3; i++ {
		testAxis(b.Axes[i])
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			testAxis(rl.Vector3CrossProduct(a.Axes[i], b.Axes[j]))
		}
	}

	if separated {
		return rl.Vector3Zero()
	}
	return mtv
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
