package algo

import "github.com/elektrokombinacija/tacnav/internal/core"

// TerrainGraph is the static 8-connected adjacency of a grid.
// Built once per match and shared read-only.
type TerrainGraph struct {
	grid      *core.Grid
	neighbors [][]int32 // Passable neighbour indices per cell, impassable cells included
	region    []int32   // Connected component per cell, -1 for walls
}

// neighbourOrder is the fixed expansion order: rows bottom to top, columns left to right.
var neighbourOrder = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// NewTerrainGraph builds the adjacency lists and terrain regions of g.
func NewTerrainGraph(g *core.Grid) *TerrainGraph {
	n := g.Width * g.Height
	t := &TerrainGraph{
		grid:      g,
		neighbors: make([][]int32, n),
		region:    make([]int32, n),
	}

	sets := newDisjointSet(n)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			i := y*g.Width + x
			adj := make([]int32, 0, 8)
			for _, d := range neighbourOrder {
				c := core.Cell{X: x + d[0], Y: y + d[1]}
				if !g.IsPassable(c) {
					continue
				}
				j := c.Y*g.Width + c.X
				adj = append(adj, int32(j))
				if g.Passable[i] {
					sets.union(i, j)
				}
			}
			t.neighbors[i] = adj
		}
	}

	// Renumber roots densely in scan order so region ids are stable.
	ids := make(map[int]int32)
	for i := 0; i < n; i++ {
		if !g.Passable[i] {
			t.region[i] = -1
			continue
		}
		root := sets.find(i)
		id, ok := ids[root]
		if !ok {
			id = int32(len(ids))
			ids[root] = id
		}
		t.region[i] = id
	}
	return t
}

// Grid returns the underlying passability grid.
func (t *TerrainGraph) Grid() *core.Grid { return t.grid }

// Size returns the number of cells.
func (t *TerrainGraph) Size() int { return len(t.neighbors) }

// Index returns the dense index of c, or -1 when out of bounds.
func (t *TerrainGraph) Index(c core.Cell) int {
	if !t.grid.InBounds(c) {
		return -1
	}
	return c.Y*t.grid.Width + c.X
}

// CellAt is the inverse of Index.
func (t *TerrainGraph) CellAt(i int) core.Cell {
	return core.Cell{X: i % t.grid.Width, Y: i / t.grid.Width}
}

// Passable reports whether c is in bounds and not a wall.
func (t *TerrainGraph) Passable(c core.Cell) bool {
	return t.grid.IsPassable(c)
}

// Neighbors lists the passable cells adjacent to c in expansion order.
// Walls have neighbours too, which makes them valid distance-field goals.
func (t *TerrainGraph) Neighbors(c core.Cell) []core.Cell {
	i := t.Index(c)
	if i < 0 {
		return nil
	}
	out := make([]core.Cell, len(t.neighbors[i]))
	for k, j := range t.neighbors[i] {
		out[k] = t.CellAt(int(j))
	}
	return out
}

// Region returns the connected component of c, or -1 for walls.
func (t *TerrainGraph) Region(c core.Cell) int {
	i := t.Index(c)
	if i < 0 {
		return -1
	}
	return int(t.region[i])
}

// Connected reports whether a and b can reach each other. A wall cell
// counts as connected to the regions bordering it, so units can approach
// structures and deposits placed on impassable terrain.
func (t *TerrainGraph) Connected(a, b core.Cell) bool {
	ra, rb := t.touching(a), t.touching(b)
	for _, x := range ra {
		for _, y := range rb {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (t *TerrainGraph) touching(c core.Cell) []int32 {
	i := t.Index(c)
	if i < 0 {
		return nil
	}
	if t.region[i] >= 0 {
		return []int32{t.region[i]}
	}
	var out []int32
	for _, j := range t.neighbors[i] {
		out = append(out, t.region[j])
	}
	return out
}

// disjointSet is a union-find forest with path compression and union by rank.
type disjointSet struct {
	parent []int
	rank   []int
}

func newDisjointSet(n int) *disjointSet {
	d := &disjointSet{parent: make([]int, n), rank: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

func (d *disjointSet) find(x int) int {
	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[x] != root {
		d.parent[x], x = root, d.parent[x]
	}
	return root
}

func (d *disjointSet) union(x, y int) {
	rx, ry := d.find(x), d.find(y)
	if rx == ry {
		return
	}
	switch {
	case d.rank[rx] < d.rank[ry]:
		d.parent[rx] = ry
	case d.rank[rx] > d.rank[ry]:
		d.parent[ry] = rx
	default:
		d.parent[ry] = rx
		d.rank[rx]++
	}
}
