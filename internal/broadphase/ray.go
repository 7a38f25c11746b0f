package broadphase

import (
	"bump3d/internal/body"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Candidate is a body whose bounding volume lies on the ray, together with
// the distance at which the ray enters that volume.
type Candidate struct {
	ID    body.ID
	Entry float32
}

type rayItem struct {
	node int32
	t    float32
}

// RayTraversal walks the tree in ascending order of bounding-volume entry
// distance. Consumers stop pulling once an exact hit beats the next
// candidate's lower bound.
type RayTraversal struct {
	ix        *Index
	origin    rl.Vector3
	direction rl.Vector3
	max       float32
	heap      []rayItem
}

// QueryRay starts an ordered traversal. The direction must be normalized;
// candidates beyond maxDistance are never produced.
func (ix *Index) QueryRay(origin, direction rl.Vector3, maxDistance float32) *RayTraversal {
	t := &RayTraversal{ix: ix, origin: origin, direction: direction, max: maxDistance}
	if ix.root >= 0 {
		if entry, ok := ix.nodes[ix.root].box.RayEntry(origin, direction, maxDistance); ok {
			t.push(rayItem{node: ix.root, t: entry})
		}
	}
	return t
}

// Next yields the nearest unvisited candidate, or false when the traversal
// is exhausted.
func (t *RayTraversal) Next() (Candidate, bool) {
	for len(t.heap) > 0 {
		item := t.pop()
		nd := &t.ix.nodes[item.node]
		if nd.entry >= 0 {
			return Candidate{ID: t.ix.entries[nd.entry].id, Entry: item.t}, true
		}
		for _, child := range [2]int32{nd.left, nd.right} {
			if entry, ok := t.ix.nodes[child].box.RayEntry(t.origin, t.direction, t.max); ok {
				t.push(rayItem{node: child, t: entry})
			}
		}
	}
	return Candidate{}, false
}

func (t *RayTraversal) push(item rayItem) {
	t.heap = append(t.heap, item)
	i := len(t.heap) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !rayLess(t.heap[i], t.heap[parent]) {
			break
		}
		t.heap[i], t.heap[parent] = t.heap[parent], t.heap[i]
		i = parent
	}
}

func (t *RayTraversal) pop() rayItem {
	top := t.heap[0]
	last := len(t.heap) - 1
	t.heap[0] = t.heap[last]
	t.heap = t.heap[:last]
	i := 0
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < len(t.heap) && rayLess(t.heap[l], t.heap[smallest]) {
			smallest = l
		}
		if r < len(t.heap) && rayLess(t.heap[r], t.heap[smallest]) {
			smallest = r
		}
		if smallest == i {
			break
		}
		t.heap[i], t.heap[smallest] = t.heap[smallest], t.heap[i]
		i = smallest
	}
	return top
}

// rayLess orders by entry distance, then node index so traversal order is
// deterministic on ties.
func rayLess(a, b rayItem) bool {
	if a.t != b.t {
		return a.t < b.t
	}
	return a.node < b.node
}
