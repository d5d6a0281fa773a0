package algo

import (
	"container/heap"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

// SpaceTimeState is a search state: where a unit is, when, and how hot.
type SpaceTimeState struct {
	Cell core.Cell
	Tick int
	Heat int
}

// astarNode lives in the search arena; parent is an arena index or -1.
type astarNode struct {
	state  SpaceTimeState
	g      int // Cost so far
	f      int // g + h
	h      int
	parent int32
}

// astarHeap orders arena indices by f, tick, y, x, heat, insertion.
type astarHeap struct {
	arena []astarNode
	items []int32
}

func (h *astarHeap) Len() int { return len(h.items) }
func (h *astarHeap) Less(i, j int) bool {
	a, b := &h.arena[h.items[i]], &h.arena[h.items[j]]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.state != b.state {
		return stateLess(a.state, b.state)
	}
	return h.items[i] < h.items[j] // Duplicate state: first pushed wins
}
func (h *astarHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *astarHeap) Push(x any)   { h.items = append(h.items, x.(int32)) }
func (h *astarHeap) Pop() any {
	n := len(h.items)
	x := h.items[n-1]
	h.items = h.items[:n-1]
	return x
}

// stateLess is the deterministic tie-break: earlier tick, then row, column, heat.
func stateLess(a, b SpaceTimeState) bool {
	if a.Tick != b.Tick {
		return a.Tick < b.Tick
	}
	if a.Cell != b.Cell {
		return a.Cell.Less(b.Cell)
	}
	return a.Heat < b.Heat
}

// searchRequest bundles the inputs of one time-expanded search.
type searchRequest struct {
	unit     core.Unit
	goal     core.Cell
	now      int
	depth    int
	heat     core.HeatModel
	terrain  *TerrainGraph
	field    *DistanceField
	reserved *ReservationTable
	enemies  map[core.Cell]bool

	// enterable vets first-tick moves against live occupancy.
	enterable func(core.Cell) bool
}

// searchResult is the outcome of a search.
type searchResult struct {
	route      core.Route
	reached    bool // Route ends on the goal
	fallback   bool // Open list emptied before goal or horizon
	expansions int
}

// spaceTimeAStar searches (cell, tick, heat) space up to the horizon. It
// stops on the first popped state at the goal or on the horizon tick.
func spaceTimeAStar(req searchRequest) searchResult {
	cooldown := req.unit.Cooldown
	if cooldown <= 0 {
		cooldown = core.DefaultCooldown(req.unit.Kind)
	}
	horizon := req.now + req.depth

	h := &astarHeap{}
	start := SpaceTimeState{Cell: req.unit.Pos, Tick: req.now, Heat: req.unit.Heat}
	sh := req.field.At(start.Cell)
	h.arena = append(h.arena, astarNode{state: start, f: sh, h: sh, parent: -1})
	heap.Push(h, int32(0))

	closed := make(map[SpaceTimeState]bool)
	best := int32(0)
	var res searchResult

	push := func(parent int32, s SpaceTimeState, cost int) {
		if closed[s] {
			return
		}
		hv := req.field.At(s.Cell)
		if hv >= Unreachable {
			return
		}
		p := h.arena[parent]
		h.arena = append(h.arena, astarNode{
			state:  s,
			g:      p.g + cost,
			f:      p.g + cost + hv,
			h:      hv,
			parent: parent,
		})
		heap.Push(h, int32(len(h.arena)-1))
	}

	for h.Len() > 0 {
		idx := heap.Pop(h).(int32)
		node := h.arena[idx]
		if closed[node.state] {
			continue
		}
		closed[node.state] = true
		res.expansions++

		if betterFallback(node, h.arena[best]) {
			best = idx
		}

		if node.state.Cell == req.goal {
			res.route = reconstructPath(h.arena, idx)
			res.reached = true
			return res
		}
		if node.state.Tick >= horizon {
			res.route = reconstructPath(h.arena, idx)
			return res
		}

		s := node.state
		next := s.Tick + 1

		// Moves, only while cool enough.
		if req.heat.CanMove(s.Heat) {
			for _, j := range req.terrain.neighbors[req.terrain.Index(s.Cell)] {
				c := req.terrain.CellAt(int(j))
				if !req.allowed(s.Cell, c, s.Tick) {
					continue
				}
				cost := 1
				if c == req.goal {
					cost = 0
				}
				push(idx, SpaceTimeState{Cell: c, Tick: next, Heat: req.heat.AfterMove(s.Heat, cooldown)}, cost)
			}
		}

		// Waiting in place.
		if !req.enemies[s.Cell] && !req.reserved.BlockedFor(req.unit.ID, s.Cell, next) {
			cost := 1
			if s.Cell.Chebyshev(req.goal) == 1 {
				cost = 0
			}
			push(idx, SpaceTimeState{Cell: s.Cell, Tick: next, Heat: req.heat.AfterStay(s.Heat)}, cost)
		}
	}

	res.route = reconstructPath(h.arena, best)
	res.fallback = true
	return res
}

// allowed checks a move from one cell to an adjacent one departing at tick.
func (req *searchRequest) allowed(from, to core.Cell, tick int) bool {
	if req.enemies[to] {
		return false
	}
	id := req.unit.ID
	if req.reserved.BlockedFor(id, to, tick+1) {
		return false
	}
	// Swap with another unit's reserved move along the same edge.
	if owner, ok := req.reserved.Owner(to, tick); ok && owner != id {
		if o2, ok := req.reserved.Owner(from, tick+1); ok && o2 == owner {
			return false
		}
	}
	if tick == req.now && req.enterable != nil && !req.enterable(to) {
		return false
	}
	return true
}

// betterFallback orders explored nodes by heuristic, then tick, y, x, heat.
func betterFallback(a, b astarNode) bool {
	if a.h != b.h {
		return a.h < b.h
	}
	return stateLess(a.state, b.state)
}

// reconstructPath walks parent links back to the start.
func reconstructPath(arena []astarNode, idx int32) core.Route {
	var route core.Route
	for i := idx; i >= 0; i = arena[i].parent {
		s := arena[i].state
		route = append(route, core.TimedCell{Cell: s.Cell, Tick: s.Tick, Heat: s.Heat})
	}
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}
