package algo

import (
	"container/heap"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

// Unreachable is the distance of cells with no path to the goal.
// It is larger than any real move count on a grid that fits in memory.
const Unreachable = 1 << 30

// DistanceField holds the move count from every cell to one goal.
type DistanceField struct {
	Goal  core.Cell
	width int
	dist  []int32
}

// At returns the move count from c to the field's goal.
func (f *DistanceField) At(c core.Cell) int {
	if c.X < 0 || c.Y < 0 || c.X >= f.width || c.X+c.Y*f.width >= len(f.dist) {
		return Unreachable
	}
	return int(f.dist[c.Y*f.width+c.X])
}

// Reachable counts cells with a finite distance, the goal included.
func (f *DistanceField) Reachable() int {
	n := 0
	for _, d := range f.dist {
		if d != Unreachable {
			n++
		}
	}
	return n
}

// fieldNode is a Dijkstra frontier entry.
type fieldNode struct {
	d int32
	i int32
}

type fieldHeap []fieldNode

func (h fieldHeap) Len() int { return len(h) }
func (h fieldHeap) Less(i, j int) bool {
	if h[i].d != h[j].d {
		return h[i].d < h[j].d
	}
	return h[i].i < h[j].i
}
func (h fieldHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *fieldHeap) Push(x any)   { *h = append(*h, x.(fieldNode)) }
func (h *fieldHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// ComputeField runs a unit-weight Dijkstra rooted at goal over the terrain.
func ComputeField(t *TerrainGraph, goal core.Cell) *DistanceField {
	f := &DistanceField{
		Goal:  goal,
		width: t.grid.Width,
		dist:  make([]int32, t.Size()),
	}
	for i := range f.dist {
		f.dist[i] = Unreachable
	}
	gi := t.Index(goal)
	if gi < 0 {
		return f
	}

	f.dist[gi] = 0
	open := &fieldHeap{{d: 0, i: int32(gi)}}
	for open.Len() > 0 {
		n := heap.Pop(open).(fieldNode)
		if n.d > f.dist[n.i] {
			continue // Stale entry
		}
		for _, j := range t.neighbors[n.i] {
			if nd := n.d + 1; nd < f.dist[j] {
				f.dist[j] = nd
				heap.Push(open, fieldNode{d: nd, i: j})
			}
		}
	}
	return f
}

// DistanceCache memoizes distance fields per goal with LRU eviction.
type DistanceCache struct {
	terrain *TerrainGraph
	fields  *lru.Cache
	rec     Recorder
}

// NewDistanceCache creates a cache holding at most capacity goal fields.
func NewDistanceCache(t *TerrainGraph, capacity int, rec Recorder) (*DistanceCache, error) {
	if rec == nil {
		rec = NopRecorder{}
	}
	c := &DistanceCache{terrain: t, rec: rec}
	fields, err := lru.NewWithEvict(capacity, func(_, _ interface{}) {
		c.rec.CacheEvicted()
	})
	if err != nil {
		return nil, fmt.Errorf("distance cache: %w", err)
	}
	c.fields = fields
	return c, nil
}

// Field returns the distance field for goal, computing it on first use.
func (c *DistanceCache) Field(goal core.Cell) *DistanceField {
	if v, ok := c.fields.Get(goal); ok {
		c.rec.CacheLookup(true)
		return v.(*DistanceField)
	}
	c.rec.CacheLookup(false)
	f := ComputeField(c.terrain, goal)
	c.fields.Add(goal, f)
	return f
}

// Distance returns the move count from one cell to another, or Unreachable.
// Cross-region queries are answered without building a field.
func (c *DistanceCache) Distance(from, goal core.Cell) int {
	if from == goal {
		return 0
	}
	if !c.terrain.Connected(from, goal) {
		return Unreachable
	}
	return c.Field(goal).At(from)
}

// Cached reports whether a field for goal is resident.
func (c *DistanceCache) Cached(goal core.Cell) bool {
	return c.fields.Contains(goal)
}

// Len returns the number of resident fields.
func (c *DistanceCache) Len() int {
	return c.fields.Len()
}
