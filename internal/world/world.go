// Package world ties the registry, broadphase and narrowphase together
// into the per-tick movement resolver and the on-demand ray and trigger
// queries.
//
// Everything here is single-threaded and synchronous: the host owns
// exclusive access for the duration of each call, which matches the
// frame-stepped execution model of the runtimes this targets.
package world

import (
	"fmt"
	"log"
	"sort"

	"bump3d/internal/body"
	"bump3d/internal/broadphase"
	"bump3d/internal/narrow"
	"bump3d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultEpsilon is the contact tolerance used when the config leaves it zero.
const DefaultEpsilon = 1e-4

// Config is accepted once at world construction.
type Config struct {
	// Epsilon is the contact tolerance: overlaps shallower than this are
	// treated as touching, not penetrating.
	Epsilon float32

	// MaxIterations caps the per-body relaxation loop. Zero derives the
	// cap from the candidate contact count.
	MaxIterations int
}

type triggerKey struct {
	body    body.ID
	trigger body.ID
}

// World owns the bodies and all derived collision state. Multiple worlds
// are fully independent; nothing is shared through globals.
type World struct {
	cfg   Config
	reg   *body.Registry
	index *broadphase.Index

	// Persistent overlap state for (kinematic, trigger) pairs. An entry
	// exists iff the pair currently overlaps; entries are removed on exit
	// or destruction so nothing stale accumulates.
	triggers map[triggerKey]struct{}
}

func New(cfg Config) *World {
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = DefaultEpsilon
	}
	return &World{
		cfg:      cfg,
		reg:      body.NewRegistry(),
		index:    broadphase.NewIndex(),
		triggers: make(map[triggerKey]struct{}),
	}
}

// Create adds a body and indexes its bounding volume.
func (w *World) Create(cat body.Category, s shape.Shape, tr shape.Transform, layer, mask body.Mask) body.ID {
	id := w.reg.Create(cat, s, tr, layer, mask)
	w.index.Insert(id, s.AABB(tr), layer, mask)
	return id
}

// Destroy removes a body and purges any trigger state involving it.
// Destroyed triggers therefore never emit a late Exit.
func (w *World) Destroy(id body.ID) error {
	if err := w.reg.Destroy(id); err != nil {
		return err
	}
	w.index.Remove(id)
	for key := range w.triggers {
		if key.body == id || key.trigger == id {
			delete(w.triggers, key)
		}
	}
	return nil
}

// SetTransform teleports a body without collision resolution. Static
// bodies reject it.
func (w *World) SetTransform(id body.ID, tr shape.Transform) error {
	if err := w.reg.SetTransform(id, tr); err != nil {
		return err
	}
	v, _ := w.reg.Get(id)
	w.index.Update(id, v.Shape.AABB(tr))
	return nil
}

// Get returns a read-only snapshot of a body.
func (w *World) Get(id body.ID) (body.View, error) {
	return w.reg.Get(id)
}

// Len returns the number of live bodies.
func (w *World) Len() int {
	return w.reg.Len()
}

// Step advances the world one tick. Each entry in moves is a proposed
// displacement for a kinematic body; the returned map holds the corrected
// transform for each of them. Trigger transitions are replayed for every
// kinematic body (a stationary body still reports Stay while it overlaps
// a trigger) and returned ordered by (body id, trigger id).
//
// Unknown or non-kinematic ids in moves fail the whole call before any
// body is touched.
func (w *World) Step(moves map[body.ID]rl.Vector3) (map[body.ID]shape.Transform, []TriggerEvent, error) {
	ids := make([]body.ID, 0, len(moves))
	for id := range moves {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		v, err := w.reg.Get(id)
		if err != nil {
			return nil, nil, err
		}
		if v.Category != body.Kinematic {
			return nil, nil, fmt.Errorf("step body %d (%s): %w", id, v.Category, body.ErrNotKinematic)
		}
	}

	w.index.Refit()

	corrected := make(map[body.ID]shape.Transform, len(ids))
	for _, id := range ids {
		corrected[id] = w.resolveBody(id, moves[id])
	}

	return corrected, w.replayTriggers(), nil
}

// resolveBody applies the proposed displacement, then runs a greedy
// fixed-point relaxation against solid candidates: resolve the deepest
// contact, re-test, repeat. The iteration cap guarantees termination; when
// it is exhausted the best-effort position is accepted rather than looping,
// a deliberate bounded-cost trade-off.
func (w *World) resolveBody(id body.ID, delta rl.Vector3) shape.Transform {
	v, _ := w.reg.Get(id)
	tr := v.Transform.Translated(delta)
	w.place(id, v.Shape, tr)

	limit := w.cfg.MaxIterations
	if limit == 0 {
		limit = len(w.solidCandidates(id, v, tr))
	}

	for i := 0; ; i++ {
		contact, other, ok := w.deepestContact(id, v, tr)
		if !ok {
			break
		}
		if i >= limit {
			log.Printf("physics: relaxation cap (%d) hit for body %d against %d, accepting position", limit, id, other)
			break
		}
		tr = tr.Translated(rl.Vector3Scale(contact.Normal, contact.Depth))
		w.place(id, v.Shape, tr)
	}
	return tr
}

// place commits a kinematic transform and keeps the broadphase current.
func (w *World) place(id body.ID, s shape.Shape, tr shape.Transform) {
	if err := w.reg.SetTransform(id, tr); err != nil {
		// only kinematic bodies reach here
		panic(err)
	}
	w.index.Update(id, s.AABB(tr))
	w.index.Refit()
}

func (w *World) solidCandidates(id body.ID, v body.View, tr shape.Transform) []body.ID {
	var out []body.ID
	for _, otherID := range w.index.QueryRegion(v.Shape.AABB(tr)) {
		if otherID == id {
			continue
		}
		o, err := w.reg.Get(otherID)
		if err != nil || !o.Category.Solid() || !body.CanCollide(v, o) {
			continue
		}
		out = append(out, otherID)
	}
	return out
}

// deepestContact re-queries candidates and returns the worst penetration.
// Equal depths break toward the smaller body id so resolution order is
// deterministic.
func (w *World) deepestContact(id body.ID, v body.View, tr shape.Transform) (narrow.Contact, body.ID, bool) {
	var best narrow.Contact
	var bestID body.ID
	found := false
	for _, otherID := range w.solidCandidates(id, v, tr) {
		o, _ := w.reg.Get(otherID)
		c, ok := narrow.Overlap(v.Shape, tr, o.Shape, o.Transform)
		if !ok || c.Depth <= w.cfg.Epsilon {
			continue
		}
		// candidates come back ascending, strict > keeps the smaller id on ties
		if !found || c.Depth > best.Depth {
			best, bestID, found = c, otherID, true
		}
	}
	return best, bestID, found
}

// replayTriggers diffs the current overlap set of every kinematic body
// against the stored state and emits one Enter/Stay/Exit per pair.
func (w *World) replayTriggers() []TriggerEvent {
	var events []TriggerEvent

	// previous triggers per kinematic body, for exit detection
	previous := make(map[body.ID][]body.ID)
	for key := range w.triggers {
		previous[key.body] = append(previous[key.body], key.trigger)
	}

	w.reg.Each(func(v body.View) {
		if v.Category != body.Kinematic {
			return
		}

		overlapping := make(map[body.ID]bool)
		for _, tid := range w.index.QueryRegion(v.Shape.AABB(v.Transform)) {
			t, err := w.reg.Get(tid)
			if err != nil || t.Category != body.Trigger || !body.CanCollide(v, t) {
				continue
			}
			if c, ok := narrow.Overlap(v.Shape, v.Transform, t.Shape, t.Transform); ok && c.Depth > w.cfg.Epsilon {
				overlapping[tid] = true
			}
		}

		involved := make(map[body.ID]struct{}, len(overlapping))
		for tid := range overlapping {
			involved[tid] = struct{}{}
		}
		for _, tid := range previous[v.ID] {
			involved[tid] = struct{}{}
		}
		ordered := make([]body.ID, 0, len(involved))
		for tid := range involved {
			ordered = append(ordered, tid)
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

		for _, tid := range ordered {
			key := triggerKey{body: v.ID, trigger: tid}
			_, was := w.triggers[key]
			switch {
			case overlapping[tid] && !was:
				w.triggers[key] = struct{}{}
				events = append(events, TriggerEvent{Type: Enter, Body: v.ID, Trigger: tid})
			case overlapping[tid] && was:
				events = append(events, TriggerEvent{Type: Stay, Body: v.ID, Trigger: tid})
			case !overlapping[tid] && was:
				delete(w.triggers, key)
				events = append(events, TriggerEvent{Type: Exit, Body: v.ID, Trigger: tid})
			}
		}
	})

	return events
}
