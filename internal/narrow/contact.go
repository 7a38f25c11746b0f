// Package narrow computes exact geometric overlap and ray intersection for
// every supported shape pair. Broadphase candidates come in, contacts with
// penetration depth and normal come out.
package narrow

import rl "github.com/gen2brain/raylib-go/raylib"

// Contact describes an overlap between two shapes. Depth is the minimal
// translation needed to separate them; Normal is a unit vector pointing
// from the second shape toward the first, so translating the first shape
// by Normal*Depth resolves the overlap.
//
// Contacts are ephemeral: produced and consumed within one resolution
// step, never stored.
type Contact struct {
	Depth  float32
	Normal rl.Vector3
}

// RayHit is an exact ray-shape intersection, always the nearest one along
// the ray.
type RayHit struct {
	Distance float32
	Point    rl.Vector3
	Normal   rl.Vector3
}

func flip(c Contact, ok bool) (Contact, bool) {
	c.Normal = rl.Vector3Scale(c.Normal, -1)
	return c, ok
}
