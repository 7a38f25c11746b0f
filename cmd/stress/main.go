// Stress test comparing naive O(n²) vs BVH broad-phase pair detection
package main

import (
	"fmt"
	"math/rand"
	"time"

	"bump3d/internal/body"
	"bump3d/internal/broadphase"
	"bump3d/internal/geom"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	testCounts := []int{100, 500, 1000, 2000, 5000, 10000, 20000}
	for _, count := range testCounts {
		testBroadPhase(count)
	}
}

func testBroadPhase(count int) {
	// Random boxes in a bounded space, size scales with count to keep
	// density reasonable
	rng := rand.New(rand.NewSource(42))
	spawnSize := float32(50.0) + float32(count)/100.0

	boxes := make([]geom.AABB, count)
	ix := broadphase.NewIndex()
	for i := range boxes {
		center := rl.Vector3{
			X: rng.Float32()*spawnSize - spawnSize/2,
			Y: rng.Float32()*spawnSize - spawnSize/2,
			Z: rng.Float32()*spawnSize - spawnSize/2,
		}
		half := 0.5 + rng.Float32()*0.5
		boxes[i] = geom.FromCenter(center, rl.Vector3{X: half, Y: half, Z: half})
		ix.Insert(body.ID(i+1), boxes[i], body.MaskAll, body.MaskAll)
	}
	ix.Rebuild()

	// Warm up
	ix.QueryPairs()

	const iterations = 10

	bvhStart := time.Now()
	var bvhPairs []broadphase.Pair
	for i := 0; i < iterations; i++ {
		bvhPairs = ix.QueryPairs()
	}
	bvhTime := time.Since(bvhStart) / iterations

	naiveStart := time.Now()
	var naivePairCount int
	for iter := 0; iter < iterations; iter++ {
		naivePairCount = 0
		for i := 0; i < len(boxes); i++ {
			for j := i + 1; j < len(boxes); j++ {
				if boxes[i].Intersects(boxes[j]) {
					naivePairCount++
				}
			}
		}
	}
	naiveTime := time.Since(naiveStart) / iterations

	if len(bvhPairs) != naivePairCount {
		fmt.Printf("%5d objects: MISMATCH bvh %d pairs vs naive %d pairs\n",
			count, len(bvhPairs), naivePairCount)
		return
	}

	speedup := float64(naiveTime) / float64(bvhTime)
	fmt.Printf("%5d objects: BVH %8v (%5d pairs) | naive %10v | %.1fx speedup\n",
		count, bvhTime.Round(time.Microsecond), len(bvhPairs),
		naiveTime.Round(time.Microsecond), speedup)
}
