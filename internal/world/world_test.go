package world

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"bump3d/internal/body"
	"bump3d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func approx(t *testing.T, got, want, tol float32, msg string) {
	t.Helper()
	if math32.Abs(got-want) > tol {
		t.Errorf("%s: expected %v, got %v", msg, want, got)
	}
}

func step(t *testing.T, w *World, moves map[body.ID]rl.Vector3) (map[body.ID]shape.Transform, []TriggerEvent) {
	t.Helper()
	corrected, events, err := w.Step(moves)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	return corrected, events
}

func TestStepPushesSphereOutOfBox(t *testing.T) {
	w := New(Config{})
	mover := w.Create(body.Kinematic, shape.Sphere{Radius: 0.5}, shape.At(-2, 0, 0), body.MaskAll, body.MaskAll)
	w.Create(body.Static, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(0, 0, 0), body.MaskAll, body.MaskAll)

	// Move the sphere deep into the box; it must come out through -X.
	corrected, _ := step(t, w, map[body.ID]rl.Vector3{mover: {X: 1.7}})
	approx(t, corrected[mover].Position.X, -1.5, 1e-3, "resolved position")

	v, _ := w.Get(mover)
	approx(t, v.Transform.Position.X, -1.5, 1e-3, "registry position matches")
}

func TestStepFreeMovement(t *testing.T) {
	w := New(Config{})
	mover := w.Create(body.Kinematic, shape.Sphere{Radius: 0.5}, shape.At(0, 0, 0), body.MaskAll, body.MaskAll)

	corrected, events := step(t, w, map[body.ID]rl.Vector3{mover: {X: 3, Y: 1}})
	approx(t, corrected[mover].Position.X, 3, 1e-5, "free move x")
	approx(t, corrected[mover].Position.Y, 1, 1e-5, "free move y")
	if len(events) != 0 {
		t.Errorf("Expected no trigger events, got %v", events)
	}
}

func TestStepMaskExclusion(t *testing.T) {
	w := New(Config{})
	mover := w.Create(body.Kinematic, shape.Sphere{Radius: 0.5}, shape.At(-2, 0, 0), 0b01, 0b01)
	w.Create(body.Static, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(0, 0, 0), 0b10, 0b10)

	// Incompatible layers: the wall is not there for this body.
	corrected, _ := step(t, w, map[body.ID]rl.Vector3{mover: {X: 2}})
	approx(t, corrected[mover].Position.X, 0, 1e-5, "mover passes through")
}

func TestStepRejectsNonKinematic(t *testing.T) {
	w := New(Config{})
	wall := w.Create(body.Static, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(0, 0, 0), body.MaskAll, body.MaskAll)

	_, _, err := w.Step(map[body.ID]rl.Vector3{wall: {X: 1}})
	if !errors.Is(err, body.ErrNotKinematic) {
		t.Errorf("Expected ErrNotKinematic, got %v", err)
	}

	_, _, err = w.Step(map[body.ID]rl.Vector3{99: {X: 1}})
	if !errors.Is(err, body.ErrUnknownBody) {
		t.Errorf("Expected ErrUnknownBody, got %v", err)
	}
}

func TestStepCorner(t *testing.T) {
	w := New(Config{})
	mover := w.Create(body.Kinematic, shape.Sphere{Radius: 0.5}, shape.At(-0.7, 0, -0.7), body.MaskAll, body.MaskAll)
	w.Create(body.Static, shape.Box{HalfExtents: rl.Vector3{X: 2, Y: 1, Z: 0.2}}, shape.At(0, 0, -1.5), body.MaskAll, body.MaskAll)
	w.Create(body.Static, shape.Box{HalfExtents: rl.Vector3{X: 0.2, Y: 1, Z: 2}}, shape.At(-1.5, 0, 0), body.MaskAll, body.MaskAll)

	// Pushing diagonally into the corner must settle free of both walls.
	corrected, _ := step(t, w, map[body.ID]rl.Vector3{mover: {X: -0.5, Z: -0.5}})
	pos := corrected[mover].Position
	// Wall inner faces sit at -1.3; a free sphere center stays at or above -0.8.
	if pos.X < -0.8-1e-3 {
		t.Errorf("still inside the x wall: %v", pos)
	}
	if pos.Z < -0.8-1e-3 {
		t.Errorf("still inside the z wall: %v", pos)
	}
}

func TestStepIterationCap(t *testing.T) {
	w := New(Config{MaxIterations: 1})
	mover := w.Create(body.Kinematic, shape.Sphere{Radius: 0.5}, shape.At(0, 0, 0), body.MaskAll, body.MaskAll)
	// Two overlapping static boxes so one resolution step cannot clear both.
	w.Create(body.Static, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(0.8, 0, 0), body.MaskAll, body.MaskAll)
	w.Create(body.Static, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(-0.8, 0, 0), body.MaskAll, body.MaskAll)

	// Must terminate and report a position even though contacts remain.
	corrected, _ := step(t, w, map[body.ID]rl.Vector3{mover: {}})
	if _, ok := corrected[mover]; !ok {
		t.Fatal("capped resolution must still return a transform")
	}
}

func TestTriggerEnterStayExit(t *testing.T) {
	w := New(Config{})
	mover := w.Create(body.Kinematic, shape.Sphere{Radius: 0.5}, shape.At(-3, 0, 0), body.MaskAll, body.MaskAll)
	zone := w.Create(body.Trigger, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(0, 0, 0), body.MaskAll, body.MaskAll)

	_, events := step(t, w, map[body.ID]rl.Vector3{mover: {X: 3}})
	if len(events) != 1 || events[0].Type != Enter {
		t.Fatalf("Expected [enter], got %v", events)
	}
	if events[0].Body != mover || events[0].Trigger != zone {
		t.Errorf("Expected pair (%d,%d), got (%d,%d)", mover, zone, events[0].Body, events[0].Trigger)
	}

	// Stationary inside: stay.
	_, events = step(t, w, map[body.ID]rl.Vector3{mover: {}})
	if len(events) != 1 || events[0].Type != Stay {
		t.Fatalf("Expected [stay], got %v", events)
	}

	// Leave: exit, then silence.
	_, events = step(t, w, map[body.ID]rl.Vector3{mover: {X: -3}})
	if len(events) != 1 || events[0].Type != Exit {
		t.Fatalf("Expected [exit], got %v", events)
	}
	_, events = step(t, w, map[body.ID]rl.Vector3{mover: {}})
	if len(events) != 0 {
		t.Errorf("Expected no events after exit, got %v", events)
	}
}

func TestTriggerDoesNotBlock(t *testing.T) {
	w := New(Config{})
	mover := w.Create(body.Kinematic, shape.Sphere{Radius: 0.5}, shape.At(-3, 0, 0), body.MaskAll, body.MaskAll)
	w.Create(body.Trigger, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(0, 0, 0), body.MaskAll, body.MaskAll)

	corrected, _ := step(t, w, map[body.ID]rl.Vector3{mover: {X: 6}})
	approx(t, corrected[mover].Position.X, 3, 1e-5, "trigger must not impede movement")
}

func TestTriggerMaskExclusion(t *testing.T) {
	w := New(Config{})
	mover := w.Create(body.Kinematic, shape.Sphere{Radius: 0.5}, shape.At(0, 0, 0), 0b01, 0b01)
	w.Create(body.Trigger, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(0, 0, 0), 0b10, 0b10)

	_, events := step(t, w, map[body.ID]rl.Vector3{mover: {}})
	if len(events) != 0 {
		t.Errorf("Expected no events across incompatible layers, got %v", events)
	}
}

func TestDestroyedTriggerEmitsNoExit(t *testing.T) {
	w := New(Config{})
	mover := w.Create(body.Kinematic, shape.Sphere{Radius: 0.5}, shape.At(0, 0, 0), body.MaskAll, body.MaskAll)
	zone := w.Create(body.Trigger, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(0, 0, 0), body.MaskAll, body.MaskAll)

	_, events := step(t, w, map[body.ID]rl.Vector3{mover: {}})
	if len(events) != 1 || events[0].Type != Enter {
		t.Fatalf("Expected [enter], got %v", events)
	}

	if err := w.Destroy(zone); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	_, events = step(t, w, map[body.ID]rl.Vector3{mover: {}})
	if len(events) != 0 {
		t.Errorf("Expected no events after trigger destruction, got %v", events)
	}
}

func TestRayCastNearestHit(t *testing.T) {
	w := New(Config{})
	near := w.Create(body.Static, shape.Sphere{Radius: 1}, shape.At(5, 0, 0), body.MaskAll, body.MaskAll)
	w.Create(body.Static, shape.Sphere{Radius: 1}, shape.At(10, 0, 0), body.MaskAll, body.MaskAll)

	hit, ok := w.RayCast(rl.Vector3{}, rl.Vector3{X: 1}, 100, body.MaskAll)
	if !ok {
		t.Fatal("ray should hit")
	}
	if hit.Body != near {
		t.Errorf("Expected body %d, got %d", near, hit.Body)
	}
	approx(t, hit.Distance, 4, 1e-4, "distance")
}

func TestRayCastPastDecoy(t *testing.T) {
	w := New(Config{})
	// A big sphere whose bounding volume starts first on the ray but whose
	// surface hit lies past the small sphere's.
	w.Create(body.Static, shape.Sphere{Radius: 3}, shape.At(12, 2.5, 0), body.MaskAll, body.MaskAll)
	sphere := w.Create(body.Static, shape.Sphere{Radius: 0.5}, shape.At(9.6, 0, 0), body.MaskAll, body.MaskAll)

	hit, ok := w.RayCast(rl.Vector3{}, rl.Vector3{X: 1}, 100, body.MaskAll)
	if !ok {
		t.Fatal("ray should hit")
	}
	if hit.Body != sphere {
		t.Errorf("Expected body %d, got %d", sphere, hit.Body)
	}
}

func TestRayCastIgnoresTriggersAndMask(t *testing.T) {
	w := New(Config{})
	w.Create(body.Trigger, shape.Sphere{Radius: 1}, shape.At(3, 0, 0), body.MaskAll, body.MaskAll)
	masked := w.Create(body.Static, shape.Sphere{Radius: 1}, shape.At(6, 0, 0), 0b10, body.MaskAll)
	far := w.Create(body.Static, shape.Sphere{Radius: 1}, shape.At(9, 0, 0), 0b01, body.MaskAll)

	hit, ok := w.RayCast(rl.Vector3{}, rl.Vector3{X: 1}, 100, 0b01)
	if !ok {
		t.Fatal("ray should hit")
	}
	if hit.Body == masked {
		t.Error("masked-out body must not be hit")
	}
	if hit.Body != far {
		t.Errorf("Expected body %d, got %d", far, hit.Body)
	}
}

func TestRayCastMiss(t *testing.T) {
	w := New(Config{})
	w.Create(body.Static, shape.Sphere{Radius: 1}, shape.At(5, 10, 0), body.MaskAll, body.MaskAll)

	if _, ok := w.RayCast(rl.Vector3{}, rl.Vector3{X: 1}, 100, body.MaskAll); ok {
		t.Error("ray should miss")
	}
	if _, ok := w.RayCast(rl.Vector3{}, rl.Vector3{}, 100, body.MaskAll); ok {
		t.Error("zero direction should miss")
	}
}

func TestTriggersAtPoint(t *testing.T) {
	w := New(Config{})
	zone := w.Create(body.Trigger, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(0, 0, 0), body.MaskAll, body.MaskAll)
	w.Create(body.Trigger, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(5, 0, 0), body.MaskAll, body.MaskAll)
	w.Create(body.Static, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(0, 0, 0), body.MaskAll, body.MaskAll)

	got := w.TriggersAtPoint(rl.Vector3{X: 0.5}, body.MaskAll)
	if len(got) != 1 || got[0] != zone {
		t.Errorf("Expected [%d], got %v", zone, got)
	}
}

func TestTriggersOverlapping(t *testing.T) {
	w := New(Config{})
	zone := w.Create(body.Trigger, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(0, 0, 0), body.MaskAll, body.MaskAll)
	w.Create(body.Trigger, shape.Box{HalfExtents: rl.Vector3{X: 1, Y: 1, Z: 1}}, shape.At(10, 0, 0), body.MaskAll, body.MaskAll)

	got := w.TriggersOverlapping(shape.Sphere{Radius: 1}, shape.At(1.5, 0, 0), body.MaskAll)
	if len(got) != 1 || got[0] != zone {
		t.Errorf("Expected [%d], got %v", zone, got)
	}
}

func TestMultipleMoversDeterministicOrder(t *testing.T) {
	run := func() []rl.Vector3 {
		w := New(Config{})
		a := w.Create(body.Kinematic, shape.Sphere{Radius: 0.5}, shape.At(-1, 0, 0), body.MaskAll, body.MaskAll)
		b := w.Create(body.Kinematic, shape.Sphere{Radius: 0.5}, shape.At(1, 0, 0), body.MaskAll, body.MaskAll)

		corrected, _, err := w.Step(map[body.ID]rl.Vector3{
			a: {X: 0.8},
			b: {X: -0.8},
		})
		if err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		return []rl.Vector3{corrected[a].Position, corrected[b].Position}
	}

	first := run()
	for i := 0; i < 5; i++ {
		if got := run(); got[0] != first[0] || got[1] != first[1] {
			t.Fatalf("non-deterministic resolution: %v vs %v", got, first)
		}
	}
}
