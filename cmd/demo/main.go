// Interactive collision sandbox: drive a capsule through a small scene,
// watch the resolver slide it along walls and the triggers light up.
package main

import (
	"fmt"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"bump3d/internal/body"
	"bump3d/internal/shape"
	"bump3d/internal/world"
)

const sceneData = `
bodies:
  - name: player
    category: kinematic
    shape: { type: capsule, radius: 0.4, halfHeight: 0.5 }
    position: [0, 0.9, 0]
  - name: floor
    category: static
    shape: { type: box, halfExtents: [12, 0.5, 12] }
    position: [0, -0.5, 0]
  - name: pillar
    category: static
    shape: { type: box, halfExtents: [0.5, 2, 0.5] }
    position: [3, 2, 0]
  - name: angled-wall
    category: static
    shape: { type: box, halfExtents: [4, 1.5, 0.3] }
    position: [-3, 1.5, 3]
    rotation: [0, 30, 0]
  - name: boulder
    category: static
    shape: { type: sphere, radius: 1.2 }
    position: [0, 1.2, -4]
  - name: zone
    category: trigger
    shape: { type: box, halfExtents: [1.5, 1, 1.5] }
    position: [5, 1, 5]
`

const moveSpeed = 5.0

func main() {
	w := world.New(world.Config{})
	ids, err := w.LoadSceneData([]byte(sceneData))
	if err != nil {
		log.Fatalf("load scene: %v", err)
	}
	player := ids[0]

	rl.InitWindow(1280, 720, "bump3d sandbox")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	camera := rl.Camera3D{
		Position:   rl.Vector3{X: 10, Y: 12, Z: 10},
		Target:     rl.Vector3{Y: 1},
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}

	inZone := false
	var lastHit string
	showBounds := false

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()

		var delta rl.Vector3
		if rl.IsKeyDown(rl.KeyW) {
			delta.Z -= moveSpeed * dt
		}
		if rl.IsKeyDown(rl.KeyS) {
			delta.Z += moveSpeed * dt
		}
		if rl.IsKeyDown(rl.KeyA) {
			delta.X -= moveSpeed * dt
		}
		if rl.IsKeyDown(rl.KeyD) {
			delta.X += moveSpeed * dt
		}

		_, events, err := w.Step(map[body.ID]rl.Vector3{player: delta})
		if err != nil {
			log.Fatalf("step: %v", err)
		}
		for _, ev := range events {
			switch ev.Type {
			case world.Enter:
				inZone = true
			case world.Exit:
				inZone = false
			}
		}

		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			ray := rl.GetMouseRay(rl.GetMousePosition(), camera)
			if hit, ok := w.RayCast(ray.Position, ray.Direction, 100, body.MaskAll); ok {
				lastHit = fmt.Sprintf("body %d at %.2f", hit.Body, hit.Distance)
			} else {
				lastHit = "nothing"
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(18, 18, 24, 255))

		rl.BeginMode3D(camera)
		drawBodies(w, ids, player, inZone, showBounds)
		rl.DrawGrid(24, 1)
		rl.EndMode3D()

		gui.Panel(rl.NewRectangle(10, 10, 250, 110), "bump3d")
		gui.Label(rl.NewRectangle(20, 40, 230, 20), "WASD to move, click to ray cast")
		gui.Label(rl.NewRectangle(20, 62, 230, 20), "last hit: "+lastHit)
		showBounds = gui.CheckBox(rl.NewRectangle(20, 88, 16, 16), "show bounds", showBounds)

		rl.DrawFPS(1180, 10)
		rl.EndDrawing()
	}
}

func drawBodies(w *world.World, ids []body.ID, player body.ID, inZone, showBounds bool) {
	for _, id := range ids {
		v, err := w.Get(id)
		if err != nil {
			continue
		}

		color := rl.LightGray
		switch {
		case id == player && inZone:
			color = rl.Gold
		case id == player:
			color = rl.SkyBlue
		case v.Category == body.Trigger && inZone:
			color = rl.NewColor(108, 99, 255, 120)
		case v.Category == body.Trigger:
			color = rl.NewColor(108, 99, 255, 60)
		}

		pos := v.Transform.Position
		switch s := v.Shape.(type) {
		case shape.Sphere:
			rl.DrawSphere(pos, s.Radius, color)
		case shape.Box:
			// DrawCube cannot rotate, push a transform instead
			rl.PushMatrix()
			rl.Translatef(pos.X, pos.Y, pos.Z)
			rl.Rotatef(v.Transform.Rotation.Y, 0, 1, 0)
			rl.Rotatef(v.Transform.Rotation.X, 1, 0, 0)
			rl.Rotatef(v.Transform.Rotation.Z, 0, 0, 1)
			rl.DrawCube(rl.Vector3{}, s.HalfExtents.X*2, s.HalfExtents.Y*2, s.HalfExtents.Z*2, color)
			rl.PopMatrix()
		case shape.Capsule:
			a, b := s.Segment(v.Transform)
			rl.DrawCapsule(a, b, s.Radius, 12, 6, color)
		}

		if showBounds {
			bb := v.Shape.AABB(v.Transform)
			rl.DrawBoundingBox(rl.BoundingBox{Min: bb.Min, Max: bb.Max}, rl.Green)
		}
	}
}
