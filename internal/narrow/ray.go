package narrow

import (
	"github.com/chewxy/math32"

	"bump3d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CastRay intersects a ray with a single shape and returns the nearest hit
// along the ray. The direction need not be normalized; a zero direction or
// a degenerate shape yields no hit.
func CastRay(s shape.Shape, tr shape.Transform, origin, direction rl.Vector3, maxDistance float32) (RayHit, bool) {
	if s.Degenerate() || maxDistance <= 0 {
		return RayHit{}, false
	}
	if rl.Vector3Length(direction) < coincident {
		return RayHit{}, false
	}
	direction = rl.Vector3Normalize(direction)

	switch v := s.(type) {
	case shape.Sphere:
		return raySphere(tr.Position, v.Radius, origin, direction, maxDistance)
	case shape.Box:
		return rayBox(shape.NewOBB(v, tr), origin, direction, maxDistance)
	case shape.Capsule:
		return rayCapsule(v, tr, origin, direction, maxDistance)
	}
	return RayHit{}, false
}

func raySphere(center rl.Vector3, radius float32, origin, direction rl.Vector3, maxDistance float32) (RayHit, bool) {
	oc := rl.Vector3Subtract(origin, center)
	b := 2 * rl.Vector3DotProduct(oc, direction)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*c
	if discriminant < 0 {
		return RayHit{}, false
	}

	sq := math32.Sqrt(discriminant)
	t := (-b - sq) / 2
	if t < 0 {
		// Origin inside the sphere: the exit point is the nearest surface hit.
		t = (-b + sq) / 2
	}
	if t < 0 || t > maxDistance {
		return RayHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(point, center))
	return RayHit{Distance: t, Point: point, Normal: normal}, true
}

func rayBox(box shape.OBB, origin, direction rl.Vector3, maxDistance float32) (RayHit, bool) {
	// Slab test in the box's local frame.
	lo := box.ToLocal(origin)
	ld := rl.Vector3{
		X: rl.Vector3DotProduct(direction, box.Axes[0]),
		Y: rl.Vector3DotProduct(direction, box.Axes[1]),
		Z: rl.Vector3DotProduct(direction, box.Axes[2]),
	}
	localOrigin := [3]float32{lo.X, lo.Y, lo.Z}
	localDir := [3]float32{ld.X, ld.Y, ld.Z}
	half := [3]float32{box.HalfSize.X, box.HalfSize.Y, box.HalfSize.Z}

	tmin := float32(-1e30)
	tmax := float32(1e30)
	enterAxis, exitAxis := -1, -1
	for i := 0; i < 3; i++ {
		if localDir[i] != 0 {
			t1 := (-half[i] - localOrigin[i]) / localDir[i]
			t2 := (half[i] - localOrigin[i]) / localDir[i]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
				enterAxis = i
			}
			if t2 < tmax {
				tmax = t2
				exitAxis = i
			}
		} else if localOrigin[i] < -half[i] || localOrigin[i] > half[i] {
			return RayHit{}, false
		}
	}

	if tmin > tmax || tmax < 0 || tmin > maxDistance {
		return RayHit{}, false
	}

	t := tmin
	axis := enterAxis
	entering := true
	if t < 0 {
		// Origin inside the box: report the exit face.
		t = tmax
		axis = exitAxis
		entering = false
	}
	if t < 0 || t > maxDistance || axis < 0 {
		return RayHit{}, false
	}

	sign := float32(1)
	if (localDir[axis] > 0) == entering {
		sign = -1
	}
	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Scale(box.Axes[axis], sign)
	return RayHit{Distance: t, Point: point, Normal: normal}, true
}

func rayCapsule(c shape.Capsule, tr shape.Transform, origin, direction rl.Vector3, maxDistance float32) (RayHit, bool) {
	pa, pb := c.Segment(tr)

	best := RayHit{Distance: maxDistance}
	found := false

	// Cap spheres.
	for _, cap := range [2]rl.Vector3{pa, pb} {
		if hit, ok := raySphere(cap, c.Radius, origin, direction, best.Distance); ok {
			if !found || hit.Distance < best.Distance {
				best = hit
				found = true
			}
		}
	}

	// Cylindrical side.
	d := rl.Vector3Subtract(pb, pa)
	dd := rl.Vector3DotProduct(d, d)
	if dd > coincident {
		m := rl.Vector3Subtract(origin, pa)
		md := rl.Vector3DotProduct(m, d)
		nd := rl.Vector3DotProduct(direction, d)
		a := dd - nd*nd
		if absf(a) > 1e-7 {
			k := rl.Vector3DotProduct(m, m) - c.Radius*c.Radius
			b := dd*rl.Vector3DotProduct(m, direction) - nd*md
			discriminant := b*b - a*(dd*k-md*md)
			if discriminant >= 0 {
				sq := math32.Sqrt(discriminant)
				for _, t := range [2]float32{(-b - sq) / a, (-b + sq) / a} {
					if t < 0 || t > maxDistance {
						continue
					}
					y := md + t*nd
					if y < 0 || y > dd {
						continue // beyond the segment, caps handle it
					}
					if found && t >= best.Distance {
						continue
					}
					point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
					axisPoint := rl.Vector3Add(pa, rl.Vector3Scale(d, y/dd))
					best = RayHit{
						Distance: t,
						Point:    point,
						Normal:   rl.Vector3Normalize(rl.Vector3Subtract(point, axisPoint)),
					}
					found = true
				}
			}
		}
	}

	if !found {
		return RayHit{}, false
	}
	return best, true
}
