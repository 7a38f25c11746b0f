package body

import (
	"errors"
	"fmt"
	"sort"

	"bump3d/internal/shape"
)

var (
	// ErrUnknownBody reports an operation on a destroyed or never-allocated id.
	ErrUnknownBody = errors.New("unknown body id")

	// ErrStaticBody reports an attempt to move a static body.
	ErrStaticBody = errors.New("static body cannot be moved")

	// ErrNotKinematic reports a displacement submitted for a non-kinematic body.
	ErrNotKinematic = errors.New("body is not kinematic")
)

type record struct {
	view View
}

// Registry owns the set of physics bodies. It is not safe for concurrent
// use; the caller serializes access per tick.
type Registry struct {
	bodies map[ID]*record
	order  []ID // ascending, maintained on create/destroy
	nextID ID
}

func NewRegistry() *Registry {
	return &Registry{
		bodies: make(map[ID]*record),
		nextID: 1,
	}
}

// Create allocates a body and returns its handle. The transform set here
// is the only one a Static body will ever have.
func (r *Registry) Create(cat Category, s shape.Shape, tr shape.Transform, layer, mask Mask) ID {
	id := r.nextID
	r.nextID++
	r.bodies[id] = &record{
		view: View{
			ID:        id,
			Category:  cat,
			Shape:     s,
			Transform: tr,
			Layer:     layer,
			Mask:      mask,
		},
	}
	r.order = append(r.order, id) // ids are monotonic, order stays sorted
	return id
}

func (r *Registry) Destroy(id ID) error {
	if _, ok := r.bodies[id]; !ok {
		return fmt.Errorf("destroy body %d: %w", id, ErrUnknownBody)
	}
	delete(r.bodies, id)
	i := sort.Search(len(r.order), func(i int) bool { return r.order[i] >= id })
	r.order = append(r.order[:i], r.order[i+1:]...)
	return nil
}

// SetTransform moves a body. Static bodies reject the call; the caller is
// responsible for marking the body's cached bounding volume dirty in the
// broadphase.
func (r *Registry) SetTransform(id ID, tr shape.Transform) error {
	rec, ok := r.bodies[id]
	if !ok {
		return fmt.Errorf("move body %d: %w", id, ErrUnknownBody)
	}
	if rec.view.Category == Static {
		return fmt.Errorf("move body %d: %w", id, ErrStaticBody)
	}
	rec.view.Transform = tr
	return nil
}

// Get returns a read-only snapshot of a body.
func (r *Registry) Get(id ID) (View, error) {
	rec, ok := r.bodies[id]
	if !ok {
		return View{}, fmt.Errorf("get body %d: %w", id, ErrUnknownBody)
	}
	return rec.view, nil
}

// IDs returns all live handles in ascending order.
func (r *Registry) IDs() []ID {
	out := make([]ID, len(r.order))
	copy(out, r.order)
	return out
}

// Each visits all bodies in ascending id order.
func (r *Registry) Each(fn func(View)) {
	for _, id := range r.order {
		fn(r.bodies[id].view)
	}
}

func (r *Registry) Len() int {
	return len(r.order)
}
