package narrow

import (
	"testing"

	"bump3d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestCastRaySphere(t *testing.T) {
	s := shape.Sphere{Radius: 1}

	hit, ok := CastRay(s, shape.At(5, 0, 0), rl.Vector3{}, rl.Vector3{X: 1}, 100)
	if !ok {
		t.Fatal("ray aimed at sphere should hit")
	}
	approx(t, hit.Distance, 4, 1e-4, "distance")
	approx(t, hit.Point.X, 4, 1e-4, "hit point")
	approx(t, hit.Normal.X, -1, 1e-4, "surface normal faces the ray")

	if _, ok := CastRay(s, shape.At(5, 0, 0), rl.Vector3{}, rl.Vector3{X: -1}, 100); ok {
		t.Error("ray pointing away should miss")
	}
	if _, ok := CastRay(s, shape.At(5, 0, 0), rl.Vector3{}, rl.Vector3{X: 1}, 3); ok {
		t.Error("ray capped before the sphere should miss")
	}
}

func TestCastRaySphereFromInside(t *testing.T) {
	s := shape.Sphere{Radius: 2}
	hit, ok := CastRay(s, shape.At(0, 0, 0), rl.Vector3{}, rl.Vector3{X: 1}, 100)
	if !ok {
		t.Fatal("ray from inside should hit the exit point")
	}
	approx(t, hit.Distance, 2, 1e-4, "exit distance")
	approx(t, hit.Normal.X, 1, 1e-4, "exit normal")
}

func TestCastRayBox(t *testing.T) {
	b := shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}

	hit, ok := CastRay(b, shape.At(5, 0, 0), rl.Vector3{}, rl.Vector3{X: 1}, 100)
	if !ok {
		t.Fatal("ray aimed at box should hit")
	}
	approx(t, hit.Distance, 4, 1e-4, "distance")
	approx(t, hit.Normal.X, -1, 1e-4, "entry face normal")

	// From inside, the exit face normal points along the ray.
	hit, ok = CastRay(b, shape.At(0, 0, 0), rl.Vector3{}, rl.Vector3{X: 1}, 100)
	if !ok {
		t.Fatal("ray from inside should hit the exit face")
	}
	approx(t, hit.Distance, 1, 1e-4, "exit distance")
	approx(t, hit.Normal.X, 1, 1e-4, "exit normal")
}

func TestCastRayBoxRotated(t *testing.T) {
	b := shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}
	tr := shape.Transform{
		Position: rl.Vector3{X: 5},
		Rotation: rl.Vector3{Y: 45},
	}

	// The rotated corner faces the ray, closer than the unrotated face.
	hit, ok := CastRay(b, tr, rl.Vector3{}, rl.Vector3{X: 1}, 100)
	if !ok {
		t.Fatal("ray aimed at rotated box should hit")
	}
	approx(t, hit.Distance, 5-1.41421, 1e-3, "corner distance")
}

func TestCastRayCapsule(t *testing.T) {
	c := shape.Capsule{Radius: 0.5, HalfHeight: 1}

	// Side hit on the cylindrical section.
	hit, ok := CastRay(c, shape.At(5, 0, 0), rl.Vector3{}, rl.Vector3{X: 1}, 100)
	if !ok {
		t.Fatal("ray aimed at capsule side should hit")
	}
	approx(t, hit.Distance, 4.5, 1e-4, "side distance")
	approx(t, hit.Normal.X, -1, 1e-4, "side normal")

	// Cap hit above the segment.
	hit, ok = CastRay(c, shape.At(0, -5, 0), rl.Vector3{}, rl.Vector3{Y: -1}, 100)
	if !ok {
		t.Fatal("ray aimed at capsule cap should hit")
	}
	approx(t, hit.Distance, 3.5, 1e-4, "cap distance")
	approx(t, hit.Normal.Y, 1, 1e-4, "cap normal")
}

func TestCastRayDegenerate(t *testing.T) {
	if _, ok := CastRay(shape.Sphere{}, shape.At(0, 0, 0), rl.Vector3{X: -5}, rl.Vector3{X: 1}, 100); ok {
		t.Error("degenerate shape should never hit")
	}
	if _, ok := CastRay(shape.Sphere{Radius: 1}, shape.At(0, 0, 0), rl.Vector3{X: -5}, rl.Vector3{}, 100); ok {
		t.Error("zero direction should never hit")
	}
}
