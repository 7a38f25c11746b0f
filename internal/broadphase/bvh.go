// Package broadphase maintains a bounding-volume hierarchy over all live
// bodies and answers coarse spatial queries: overlapping pairs, region
// sweeps and ordered ray traversal.
package broadphase

import (
	"sort"

	"bump3d/internal/body"
	"bump3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Pair is a candidate overlap between two bodies, A < B.
type Pair struct {
	A, B body.ID
}

type entry struct {
	id    body.ID
	box   geom.AABB
	layer body.Mask
	mask  body.Mask
	node  int32 // leaf node index, -1 before the first build
	dirty bool
}

type node struct {
	box    geom.AABB
	parent int32
	left   int32
	right  int32
	entry  int32 // leaf: entry slot; internal: -1
}

// Index is an arena BVH. Nodes reference each other by index, leaves
// reference one body each. The tree holds derived data only: it is fully
// rebuildable from the registry at any time.
type Index struct {
	entries []entry
	slots   map[body.ID]int32
	nodes   []node
	root    int32
	stale   bool // membership changed, next Refit rebuilds
}

func NewIndex() *Index {
	return &Index{
		slots: make(map[body.ID]int32),
		root:  -1,
	}
}

// Insert registers a body with its current bounding volume. The tree is
// restructured on the next Rebuild/Refit.
func (ix *Index) Insert(id body.ID, box geom.AABB, layer, mask body.Mask) {
	if slot, ok := ix.slots[id]; ok {
		ix.entries[slot].box = box
		ix.entries[slot].layer = layer
		ix.entries[slot].mask = mask
		ix.entries[slot].dirty = true
		return
	}
	ix.slots[id] = int32(len(ix.entries))
	ix.entries = append(ix.entries, entry{id: id, box: box, layer: layer, mask: mask, node: -1})
	ix.stale = true
}

func (ix *Index) Remove(id body.ID) {
	slot, ok := ix.slots[id]
	if !ok {
		return
	}
	last := int32(len(ix.entries) - 1)
	if slot != last {
		ix.entries[slot] = ix.entries[last]
		ix.slots[ix.entries[slot].id] = slot
	}
	ix.entries = ix.entries[:last]
	delete(ix.slots, id)
	ix.stale = true
}

// Update replaces a body's bounding volume after it moved.
func (ix *Index) Update(id body.ID, box geom.AABB) {
	slot, ok := ix.slots[id]
	if !ok {
		return
	}
	ix.entries[slot].box = box
	ix.entries[slot].dirty = true
}

func (ix *Index) Len() int {
	return len(ix.entries)
}

// Rebuild reconstructs the tree from scratch with a median split on the
// longest centroid axis.
func (ix *Index) Rebuild() {
	ix.nodes = ix.nodes[:0]
	ix.root = -1
	ix.stale = false
	if len(ix.entries) == 0 {
		return
	}

	idxs := make([]int32, len(ix.entries))
	for i := range idxs {
		idxs[i] = int32(i)
	}
	ix.root = ix.build(idxs, -1)
	for i := range ix.entries {
		ix.entries[i].dirty = false
	}
}

func (ix *Index) build(idxs []int32, parent int32) int32 {
	if len(idxs) == 1 {
		slot := idxs[0]
		n := int32(len(ix.nodes))
		ix.nodes = append(ix.nodes, node{
			box:    ix.entries[slot].box,
			parent: parent,
			left:   -1,
			right:  -1,
			entry:  slot,
		})
		ix.entries[slot].node = n
		return n
	}

	// Split at the median of the leaf centroids along the widest axis.
	centroids := geom.FromPoint(ix.entries[idxs[0]].box.Center())
	for _, slot := range idxs[1:] {
		centroids = centroids.Merge(geom.FromPoint(ix.entries[slot].box.Center()))
	}
	axis := centroids.LongestAxis()
	sort.Slice(idxs, func(i, j int) bool {
		ci := axisComponent(ix.entries[idxs[i]].box.Center(), axis)
		cj := axisComponent(ix.entries[idxs[j]].box.Center(), axis)
		if ci != cj {
			return ci < cj
		}
		return ix.entries[idxs[i]].id < ix.entries[idxs[j]].id
	})

	n := int32(len(ix.nodes))
	ix.nodes = append(ix.nodes, node{parent: parent, entry: -1})

	mid := len(idxs) / 2
	left := ix.build(idxs[:mid], n)
	right := ix.build(idxs[mid:], n)
	ix.nodes[n].left = left
	ix.nodes[n].right = right
	ix.nodes[n].box = ix.nodes[left].box.Merge(ix.nodes[right].box)
	return n
}

// Refit tightens the volumes of moved bodies bottom-up without
// restructuring. Falls back to Rebuild after membership changes.
// Refitting twice with no intervening movement is a no-op.
func (ix *Index) Refit() {
	if ix.stale {
		ix.Rebuild()
		return
	}
	for i := range ix.entries {
		e := &ix.entries[i]
		if !e.dirty || e.node < 0 {
			e.dirty = false
			continue
		}
		ix.nodes[e.node].box = e.box
		for p := ix.nodes[e.node].parent; p >= 0; p = ix.nodes[p].parent {
			n := &ix.nodes[p]
			n.box = ix.nodes[n.left].box.Merge(ix.nodes[n.right].box)
		}
		e.dirty = false
	}
}

// QueryPairs returns every pair of bodies whose volumes overlap and whose
// layer/mask bitsets are mutually compatible. Duplicate-free, ordered by
// (A, B) so results are stable across ticks.
func (ix *Index) QueryPairs() []Pair {
	if ix.root < 0 {
		return nil
	}
	var pairs []Pair

	var cross func(a, b int32)
	cross = func(a, b int32) {
		na, nb := &ix.nodes[a], &ix.nodes[b]
		if !na.box.Intersects(nb.box) {
			return
		}
		if na.entry >= 0 && nb.entry >= 0 {
			ea, eb := &ix.entries[na.entry], &ix.entries[nb.entry]
			if ea.layer&eb.mask == 0 || eb.layer&ea.mask == 0 {
				return
			}
			p := Pair{A: ea.id, B: eb.id}
			if p.B < p.A {
				p.A, p.B = p.B, p.A
			}
			pairs = append(pairs, p)
			return
		}
		if na.entry >= 0 {
			cross(a, nb.left)
			cross(a, nb.right)
		} else {
			cross(na.left, b)
			cross(na.right, b)
		}
	}

	var self func(n int32)
	self = func(n int32) {
		nd := &ix.nodes[n]
		if nd.entry >= 0 {
			return
		}
		self(nd.left)
		self(nd.right)
		cross(nd.left, nd.right)
	}
	self(ix.root)

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

// QueryRegion returns the bodies whose volume intersects the region,
// in ascending id order.
func (ix *Index) QueryRegion(region geom.AABB) []body.ID {
	if ix.root < 0 {
		return nil
	}
	var out []body.ID
	var walk func(n int32)
	walk = func(n int32) {
		nd := &ix.nodes[n]
		if !nd.box.Intersects(region) {
			return
		}
		if nd.entry >= 0 {
			out = append(out, ix.entries[nd.entry].id)
			return
		}
		walk(nd.left)
		walk(nd.right)
	}
	walk(ix.root)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func axisComponent(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}
