package geom

import rl "github.com/gen2brain/raylib-go/raylib"

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// FromCenter creates an AABB from a center point and half extents.
func FromCenter(center, half rl.Vector3) AABB {
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

// FromPoint creates a degenerate AABB containing a single point.
func FromPoint(p rl.Vector3) AABB {
	return AABB{Min: p, Max: p}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

func (a AABB) Contains(p rl.Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// Merge returns the smallest AABB enclosing both boxes.
func (a AABB) Merge(b AABB) AABB {
	return AABB{
		Min: rl.Vector3{X: minf(a.Min.X, b.Min.X), Y: minf(a.Min.Y, b.Min.Y), Z: minf(a.Min.Z, b.Min.Z)},
		Max: rl.Vector3{X: maxf(a.Max.X, b.Max.X), Y: maxf(a.Max.Y, b.Max.Y), Z: maxf(a.Max.Z, b.Max.Z)},
	}
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) Size() rl.Vector3 {
	return rl.Vector3Subtract(a.Max, a.Min)
}

// LongestAxis returns 0, 1 or 2 for the X, Y or Z extent, whichever is widest.
func (a AABB) LongestAxis() int {
	size := a.Size()
	axis := 0
	if size.Y > size.X {
		axis = 1
	}
	if size.Z > size.X && size.Z > size.Y {
		axis = 2
	}
	return axis
}

func (a AABB) SurfaceArea() float32 {
	s := a.Size()
	return 2 * (s.X*s.Y + s.Y*s.Z + s.Z*s.X)
}

// RayEntry performs a slab test and returns the distance at which the ray
// enters the box. A ray starting inside the box enters at distance zero.
func (a AABB) RayEntry(origin, direction rl.Vector3, maxDistance float32) (float32, bool) {
	tmin := float32(-1e30)
	tmax := float32(1e30)

	// X slab
	if direction.X != 0 {
		t1 := (a.Min.X - origin.X) / direction.X
		t2 := (a.Max.X - origin.X) / direction.X
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = t1
		tmax = t2
	} else if origin.X < a.Min.X || origin.X > a.Max.X {
		return 0, false
	}

	// Y slab
	if direction.Y != 0 {
		t1 := (a.Min.Y - origin.Y) / direction.Y
		t2 := (a.Max.Y - origin.Y) / direction.Y
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if origin.Y < a.Min.Y || origin.Y > a.Max.Y {
		return 0, false
	}

	// Z slab
	if direction.Z != 0 {
		t1 := (a.Min.Z - origin.Z) / direction.Z
		t2 := (a.Max.Z - origin.Z) / direction.Z
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if origin.Z < a.Min.Z || origin.Z > a.Max.Z {
		return 0, false
	}

	if tmin > tmax || tmax < 0 || tmin > maxDistance {
		return 0, false
	}
	if tmin < 0 {
		tmin = 0
	}
	return tmin, true
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
