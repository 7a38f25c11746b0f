package shape

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Transform is a rigid world-space pose: position plus euler rotation in
// degrees (applied in X, Y, Z order). No scale — collision shapes carry
// their own dimensions.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3
}

// At returns an unrotated transform at the given position.
func At(x, y, z float32) Transform {
	return Transform{Position: rl.Vector3{X: x, Y: y, Z: z}}
}

// Axes returns the rotated local X, Y, Z basis vectors.
func (t Transform) Axes() [3]rl.Vector3 {
	if t.Rotation.X == 0 && t.Rotation.Y == 0 && t.Rotation.Z == 0 {
		return [3]rl.Vector3{
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		}
	}

	rx := t.Rotation.X * math32.Pi / 180
	ry := t.Rotation.Y * math32.Pi / 180
	rz := t.Rotation.Z * math32.Pi / 180

	rotX := rl.MatrixRotateX(rx)
	rotY := rl.MatrixRotateY(ry)
	rotZ := rl.MatrixRotateZ(rz)
	m := rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)

	return [3]rl.Vector3{
		rl.Vector3Normalize(rl.Vector3{X: m.M0, Y: m.M1, Z: m.M2}),
		rl.Vector3Normalize(rl.Vector3{X: m.M4, Y: m.M5, Z: m.M6}),
		rl.Vector3Normalize(rl.Vector3{X: m.M8, Y: m.M9, Z: m.M10}),
	}
}

// Apply transforms a local-space point to world space.
func (t Transform) Apply(local rl.Vector3) rl.Vector3 {
	axes := t.Axes()
	world := t.Position
	world = rl.Vector3Add(world, rl.Vector3Scale(axes[0], local.X))
	world = rl.Vector3Add(world, rl.Vector3Scale(axes[1], local.Y))
	world = rl.Vector3Add(world, rl.Vector3Scale(axes[2], local.Z))
	return world
}

// Translated returns a copy of the transform moved by the given offset.
func (t Transform) Translated(offset rl.Vector3) Transform {
	t.Position = rl.Vector3Add(t.Position, offset)
	return t
}
