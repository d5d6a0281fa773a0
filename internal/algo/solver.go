// Package algo implements terrain distances, collision-aware route planning
// and minimum-cost assignment for a team of grid units.
package algo

import (
	"fmt"
	"sort"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

// Solver finds a row-to-column assignment over a dense cost matrix.
type Solver interface {
	// Solve returns min(rows, cols) pairs. An empty matrix yields an empty assignment.
	Solve(matrix [][]int) core.Assignment

	// Name returns the algorithm name.
	Name() string
}

// Conflict is a double booking between two routes.
type Conflict struct {
	Unit1, Unit2 core.UnitID
	Cell         core.Cell
	Tick         int
	IsSwap       bool // Edge conflict: the units exchange cells
	// For swaps: Unit1 moves From -> Cell, Unit2 moves Cell -> From
	From core.Cell
}

func (c Conflict) String() string {
	if c.IsSwap {
		return fmt.Sprintf("units %d and %d swap %v<->%v at tick %d", c.Unit1, c.Unit2, c.From, c.Cell, c.Tick)
	}
	return fmt.Sprintf("units %d and %d both at %v at tick %d", c.Unit1, c.Unit2, c.Cell, c.Tick)
}

// sortedUnitIDs returns the keys of a unit-keyed map in ascending order.
func sortedUnitIDs[V any](m map[core.UnitID]V) []core.UnitID {
	ids := make([]core.UnitID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

func sortCells(cells []core.Cell) {
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].Less(cells[j])
	})
}

// positionAt returns where a route has the unit at tick.
func positionAt(r core.Route, tick int) (core.Cell, bool) {
	for _, s := range r {
		if s.Tick == tick {
			return s.Cell, true
		}
	}
	return core.Cell{}, false
}

// FindFirstConflict returns the earliest conflict, or nil.
func FindFirstConflict(routes map[core.UnitID]core.Route) *Conflict {
	all := FindConflicts(routes)
	if len(all) == 0 {
		return nil
	}
	return &all[0]
}

// FindConflicts reports every vertex and swap conflict between routes,
// ordered by tick then unit ids. Routes are compared only on ticks they cover.
func FindConflicts(routes map[core.UnitID]core.Route) []Conflict {
	units := sortedUnitIDs(routes)
	var out []Conflict

	for i := 0; i < len(units); i++ {
		for j := i + 1; j < len(units); j++ {
			a, b := routes[units[i]], routes[units[j]]
			for k, s := range a {
				pos, ok := positionAt(b, s.Tick)
				if !ok {
					continue
				}
				if pos == s.Cell {
					out = append(out, Conflict{Unit1: units[i], Unit2: units[j], Cell: s.Cell, Tick: s.Tick})
					continue
				}
				if k == 0 || a[k-1].Cell == s.Cell {
					continue
				}
				prev, ok := positionAt(b, s.Tick-1)
				if ok && prev == s.Cell && pos == a[k-1].Cell {
					out = append(out, Conflict{
						Unit1:  units[i],
						Unit2:  units[j],
						Cell:   s.Cell,
						Tick:   s.Tick,
						IsSwap: true,
						From:   a[k-1].Cell,
					})
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tick != out[j].Tick {
			return out[i].Tick < out[j].Tick
		}
		if out[i].Unit1 != out[j].Unit1 {
			return out[i].Unit1 < out[j].Unit1
		}
		return out[i].Unit2 < out[j].Unit2
	})
	return out
}
