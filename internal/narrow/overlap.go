package narrow

import (
	"bump3d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// coincident is the center distance below which a direction cannot be
// derived and a fixed +Y normal is reported instead.
const coincident = 1e-6

// Overlap performs the exact test for a shape pair. It returns false when
// the shapes do not intersect; an exact touch (zero penetration) counts as
// no intersection so resolution never jitters on resting contacts.
// Swapping the arguments yields the same depth and an antiparallel normal.
func Overlap(sa shape.Shape, ta shape.Transform, sb shape.Shape, tb shape.Transform) (Contact, bool) {
	if sa.Degenerate() || sb.Degenerate() {
		return Contact{}, false
	}

	switch a := sa.(type) {
	case shape.Sphere:
		switch b := sb.(type) {
		case shape.Sphere:
			return sphereSphere(ta.Position, a.Radius, tb.Position, b.Radius)
		case shape.Box:
			return sphereBox(ta.Position, a.Radius, shape.NewOBB(b, tb))
		case shape.Capsule:
			return flip(capsuleSphere(b, tb, ta.Position, a.Radius))
		}
	case shape.Box:
		switch b := sb.(type) {
		case shape.Sphere:
			return flip(sphereBox(tb.Position, b.Radius, shape.NewOBB(a, ta)))
		case shape.Box:
			return boxBox(shape.NewOBB(a, ta), shape.NewOBB(b, tb))
		case shape.Capsule:
			return flip(capsuleBox(b, tb, shape.NewOBB(a, ta)))
		}
	case shape.Capsule:
		switch b := sb.(type) {
		case shape.Sphere:
			return capsuleSphere(a, ta, tb.Position, b.Radius)
		case shape.Box:
			return capsuleBox(a, ta, shape.NewOBB(b, tb))
		case shape.Capsule:
			return capsuleCapsule(a, ta, b, tb)
		}
	}
	return Contact{}, false
}

// sphereSphere reports the contact between two spheres, normal from b
// toward a.
func sphereSphere(ca rl.Vector3, ra float32, cb rl.Vector3, rb float32) (Contact, bool) {
	diff := rl.Vector3Subtract(ca, cb)
	dist := rl.Vector3Length(diff)
	sum := ra + rb
	if dist >= sum {
		return Contact{}, false
	}
	if dist < coincident {
		// Centers coincide, direction is arbitrary but must be deterministic.
		return Contact{Depth: sum, Normal: rl.Vector3{Y: 1}}, true
	}
	return Contact{
		Depth:  sum - dist,
		Normal: rl.Vector3Scale(diff, 1/dist),
	}, true
}

// sphereBox reports the contact between a sphere and an oriented box,
// normal from the box toward the sphere. A sphere whose center lies inside
// the box is pushed out through the nearest face.
func sphereBox(center rl.Vector3, radius float32, box shape.OBB) (Contact, bool) {
	local := box.ToLocal(center)
	inside := absf(local.X) <= box.HalfSize.X &&
		absf(local.Y) <= box.HalfSize.Y &&
		absf(local.Z) <= box.HalfSize.Z

	if inside {
		// Deep penetration: exit through the face with the smallest gap.
		gaps := [3]float32{
			box.HalfSize.X - absf(local.X),
			box.HalfSize.Y - absf(local.Y),
			box.HalfSize.Z - absf(local.Z),
		}
		locals := [3]float32{local.X, local.Y, local.Z}
		axis := 0
		for i := 1; i < 3; i++ {
			if gaps[i] < gaps[axis] {
				axis = i
			}
		}
		sign := float32(1)
		if locals[axis] < 0 {
			sign = -1
		}
		return Contact{
			Depth:  gaps[axis] + radius,
			Normal: rl.Vector3Scale(box.Axes[axis], sign),
		}, true
	}

	closest := box.ClosestPoint(center)
	diff := rl.Vector3Subtract(center, closest)
	dist := rl.Vector3Length(diff)
	if dist >= radius {
		return Contact{}, false
	}
	return Contact{
		Depth:  radius - dist,
		Normal: rl.Vector3Scale(diff, 1/dist),
	}, true
}

// boxBox resolves two oriented boxes via the separating axis theorem.
func boxBox(a, b shape.OBB) (Contact, bool) {
	mtv := a.MTV(b)
	depth := rl.Vector3Length(mtv)
	if depth <= 0 {
		return Contact{}, false
	}
	return Contact{
		Depth:  depth,
		Normal: rl.Vector3Scale(mtv, 1/depth),
	}, true
}

// capsuleSphere reduces the capsule to a sphere at the segment point
// closest to the sphere's center.
func capsuleSphere(c shape.Capsule, tr shape.Transform, center rl.Vector3, radius float32) (Contact, bool) {
	a, b := c.Segment(tr)
	p := closestOnSegment(center, a, b)
	return sphereSphere(p, c.Radius, center, radius)
}

// capsuleBox finds the segment point closest to the box, then runs the
// sphere-box test there. The squared distance from a segment point to a
// convex volume is convex in the segment parameter, so a fixed ternary
// search converges.
func capsuleBox(c shape.Capsule, tr shape.Transform, box shape.OBB) (Contact, bool) {
	a, b := c.Segment(tr)
	seg := rl.Vector3Subtract(b, a)

	distSq := func(t float32) float32 {
		p := rl.Vector3Add(a, rl.Vector3Scale(seg, t))
		d := rl.Vector3Subtract(p, box.ClosestPoint(p))
		return rl.Vector3DotProduct(d, d)
	}

	lo, hi := float32(0), float32(1)
	for i := 0; i < 48; i++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if distSq(m1) < distSq(m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	t := (lo + hi) / 2
	p := rl.Vector3Add(a, rl.Vector3Scale(seg, t))
	return sphereBox(p, c.Radius, box)
}

// capsuleCapsule reduces both capsules to spheres at the closest points
// between their core segments.
func capsuleCapsule(ca shape.Capsule, ta shape.Transform, cb shape.Capsule, tb shape.Transform) (Contact, bool) {
	a1, b1 := ca.Segment(ta)
	a2, b2 := cb.Segment(tb)
	p1, p2 := closestSegmentSegment(a1, b1, a2, b2)
	return sphereSphere(p1, ca.Radius, p2, cb.Radius)
}

// ContainsPoint reports whether a point lies strictly inside a shape.
func ContainsPoint(s shape.Shape, tr shape.Transform, p rl.Vector3) bool {
	if s.Degenerate() {
		return false
	}
	switch v := s.(type) {
	case shape.Sphere:
		d := rl.Vector3Subtract(p, tr.Position)
		return rl.Vector3DotProduct(d, d) < v.Radius*v.Radius
	case shape.Box:
		box := shape.NewOBB(v, tr)
		local := box.ToLocal(p)
		return absf(local.X) < box.HalfSize.X &&
			absf(local.Y) < box.HalfSize.Y &&
			absf(local.Z) < box.HalfSize.Z
	case shape.Capsule:
		a, b := v.Segment(tr)
		d := rl.Vector3Subtract(p, closestOnSegment(p, a, b))
		return rl.Vector3DotProduct(d, d) < v.Radius*v.Radius
	}
	return false
}

// closestOnSegment returns the point on segment ab closest to p.
func closestOnSegment(p, a, b rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	lenSq := rl.Vector3DotProduct(ab, ab)
	if lenSq <= 0 {
		return a
	}
	t := rl.Vector3DotProduct(rl.Vector3Subtract(p, a), ab) / lenSq
	t = clampf(t, 0, 1)
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}

// closestSegmentSegment returns the pair of closest points between two
// segments (Ericson, Real-Time Collision Detection §5.1.9).
func closestSegmentSegment(p1, q1, p2, q2 rl.Vector3) (rl.Vector3, rl.Vector3) {
	d1 := rl.Vector3Subtract(q1, p1)
	d2 := rl.Vector3Subtract(q2, p2)
	r := rl.Vector3Subtract(p1, p2)
	a := rl.Vector3DotProduct(d1, d1)
	e := rl.Vector3DotProduct(d2, d2)
	f := rl.Vector3DotProduct(d2, r)

	var s, t float32
	switch {
	case a <= coincident && e <= coincident:
		return p1, p2
	case a <= coincident:
		t = clampf(f/e, 0, 1)
	default:
		c := rl.Vector3DotProduct(d1, r)
		if e <= coincident {
			s = clampf(-c/a, 0, 1)
		} else {
			b := rl.Vector3DotProduct(d1, d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clampf((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clampf(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = clampf((b-c)/a, 0, 1)
			}
		}
	}
	return rl.Vector3Add(p1, rl.Vector3Scale(d1, s)),
		rl.Vector3Add(p2, rl.Vector3Scale(d2, t))
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
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
