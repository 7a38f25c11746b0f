package world

import (
	"bump3d/internal/body"
	"bump3d/internal/geom"
	"bump3d/internal/narrow"
	"bump3d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Hit is the nearest solid body struck by a ray.
type Hit struct {
	Body     body.ID
	Distance float32
	Point    rl.Vector3
	Normal   rl.Vector3
}

// RayCast finds the nearest solid body along a ray whose layer intersects
// mask. Triggers are never hit. A zero direction yields no hit.
func (w *World) RayCast(origin, direction rl.Vector3, maxDistance float32, mask body.Mask) (Hit, bool) {
	if maxDistance <= 0 || rl.Vector3Length(direction) == 0 {
		return Hit{}, false
	}
	direction = rl.Vector3Normalize(direction)
	w.index.Refit()

	var best Hit
	found := false
	tr := w.index.QueryRay(origin, direction, maxDistance)
	for {
		cand, ok := tr.Next()
		if !ok {
			break
		}
		// Candidates arrive ordered by volume entry distance; once the
		// current hit beats the next lower bound no closer hit exists.
		if found && cand.Entry >= best.Distance {
			break
		}
		v, err := w.reg.Get(cand.ID)
		if err != nil || !v.Category.Solid() || v.Layer&mask == 0 {
			continue
		}
		hit, ok := narrow.CastRay(v.Shape, v.Transform, origin, direction, maxDistance)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = Hit{Body: v.ID, Distance: hit.Distance, Point: hit.Point, Normal: hit.Normal}
			found = true
		}
	}
	return best, found
}

// TriggersAtPoint returns the triggers whose volume strictly contains the
// point and whose mask intersects layer, in ascending id order.
func (w *World) TriggersAtPoint(p rl.Vector3, layer body.Mask) []body.ID {
	w.index.Refit()
	var out []body.ID
	for _, id := range w.index.QueryRegion(geom.FromPoint(p)) {
		v, err := w.reg.Get(id)
		if err != nil || v.Category != body.Trigger || v.Mask&layer == 0 {
			continue
		}
		if narrow.ContainsPoint(v.Shape, v.Transform, p) {
			out = append(out, id)
		}
	}
	return out
}

// TriggersOverlapping returns the triggers a probe shape penetrates deeper
// than the contact tolerance, in ascending id order. The probe is not a
// body; layer is tested against each trigger's mask only.
func (w *World) TriggersOverlapping(s shape.Shape, tr shape.Transform, layer body.Mask) []body.ID {
	w.index.Refit()
	var out []body.ID
	for _, id := range w.index.QueryRegion(s.AABB(tr)) {
		v, err := w.reg.Get(id)
		if err != nil || v.Category != body.Trigger || v.Mask&layer == 0 {
			continue
		}
		if c, ok := narrow.Overlap(s, tr, v.Shape, v.Transform); ok && c.Depth > w.cfg.Epsilon {
			out = append(out, id)
		}
	}
	return out
}
