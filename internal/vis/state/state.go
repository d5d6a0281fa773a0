// Package state holds the replay viewer state.
package state

import (
	"fmt"
	"math"

	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/sim"
)

// Point is a position in cell units. Fractional values sit between cells.
type Point struct {
	X, Y float64
}

// PointOf centres a point on a cell.
func PointOf(c core.Cell) Point {
	return Point{X: float64(c.X), Y: float64(c.Y)}
}

// State holds all viewer state.
type State struct {
	Trace    *sim.Trace
	Grid     *core.Grid
	Playback *PlaybackState

	// Selection
	Selected    core.UnitID
	HasSelected bool

	ShowRoutes bool
}

// NewState prepares a trace for replay.
func NewState(trace *sim.Trace) (*State, error) {
	if trace == nil {
		return nil, fmt.Errorf("no trace")
	}
	g, err := core.ParseGrid(trace.Map)
	if err != nil {
		return nil, fmt.Errorf("trace %s map: %w", trace.RunID, err)
	}
	return &State{
		Trace:      trace,
		Grid:       g,
		Playback:   NewPlaybackState(trace.Ticks()),
		ShowRoutes: true,
	}, nil
}

// Frame returns the frame for the current whole tick, nil at tick 0.
func (s *State) Frame() *sim.Frame {
	tick := s.Playback.Tick()
	if tick <= 0 || tick > len(s.Trace.Frames) {
		return nil
	}
	return &s.Trace.Frames[tick-1]
}

// UnitKinds maps every unit seen in the trace to its kind.
func (s *State) UnitKinds() map[core.UnitID]core.UnitKind {
	kinds := make(map[core.UnitID]core.UnitKind)
	for _, u := range s.Trace.Initial {
		kinds[u.ID] = u.Kind
	}
	return kinds
}

// CurrentUnits returns the units on the map at the current whole tick.
func (s *State) CurrentUnits() []sim.UnitState {
	return s.Trace.UnitsAt(s.Playback.Tick())
}

// CurrentPositions interpolates unit positions between the surrounding
// ticks. A unit that leaves the map (boarding) slides into its last cell.
func (s *State) CurrentPositions() map[core.UnitID]Point {
	t := s.Playback.CurrentTime
	tick := int(math.Floor(t))
	alpha := t - float64(tick)

	next := make(map[core.UnitID]core.Cell)
	for _, u := range s.Trace.UnitsAt(tick + 1) {
		next[u.ID] = u.Pos
	}
	boarded := make(map[core.UnitID]core.Cell)
	if tick+1 <= len(s.Trace.Frames) {
		if f := s.Trace.Frames[tick]; len(f.Boarded) > 0 {
			for _, st := range s.Trace.Structures {
				for _, id := range f.Boarded {
					if c, ok := boardCell(st, id, s.Trace.UnitsAt(tick)); ok {
						boarded[id] = c
					}
				}
			}
		}
	}

	positions := make(map[core.UnitID]Point)
	for _, u := range s.Trace.UnitsAt(tick) {
		to, ok := next[u.ID]
		if !ok {
			if to, ok = boarded[u.ID]; !ok {
				to = u.Pos
			}
		}
		positions[u.ID] = lerp(PointOf(u.Pos), PointOf(to), alpha)
	}
	return positions
}

// boardCell reports the structure cell a unit entered when it sat next to it.
func boardCell(st sim.UnitState, id core.UnitID, units []sim.UnitState) (core.Cell, bool) {
	if st.Kind != core.Rocket {
		return core.Cell{}, false
	}
	for _, u := range units {
		if u.ID == id && u.Pos.Chebyshev(st.Pos) <= 1 {
			return st.Pos, true
		}
	}
	return core.Cell{}, false
}

func lerp(a, b Point, alpha float64) Point {
	return Point{X: a.X + alpha*(b.X-a.X), Y: a.Y + alpha*(b.Y-a.Y)}
}

// Trail returns where a unit has been up to the current time.
func (s *State) Trail(id core.UnitID) []Point {
	var trail []Point
	for tick := 0; tick <= s.Playback.Tick(); tick++ {
		for _, u := range s.Trace.UnitsAt(tick) {
			if u.ID != id {
				continue
			}
			p := PointOf(u.Pos)
			if n := len(trail); n == 0 || trail[n-1] != p {
				trail = append(trail, p)
			}
		}
	}
	if len(trail) > 0 {
		if p, ok := s.CurrentPositions()[id]; ok && p != trail[len(trail)-1] {
			trail = append(trail, p)
		}
	}
	return trail
}

// Route returns the planned route a unit held after the current tick.
func (s *State) Route(id core.UnitID) core.Route {
	f := s.Frame()
	if f == nil {
		return nil
	}
	return f.Routes[id]
}

// Select toggles selection of a unit.
func (s *State) Select(id core.UnitID) {
	if s.HasSelected && s.Selected == id {
		s.ClearSelection()
		return
	}
	s.Selected, s.HasSelected = id, true
}

// ClearSelection drops the selected unit.
func (s *State) ClearSelection() {
	s.Selected, s.HasSelected = 0, false
}

// IsSelected reports whether id is the selected unit.
func (s *State) IsSelected(id core.UnitID) bool {
	return s.HasSelected && s.Selected == id
}
