package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

// Move rejections, matched with errors.Is.
var (
	ErrUnknownUnit = errors.New("unknown unit")
	ErrOutOfBounds = errors.New("destination out of bounds")
	ErrMoveBlocked = errors.New("destination blocked")
	ErrHeatTooHigh = errors.New("movement heat too high")
)

// Work rates applied by EndTick to workers next to their job.
const (
	DefaultHarvestRate = 3
	DefaultBuildRate   = 5
	DefaultRepairRate  = 10
)

// World is an in-memory match that plays the host for a navigator.
// Enemies are static; friendly units move, work and board rockets.
type World struct {
	grid       *core.Grid
	heat       core.HeatModel
	units      map[core.UnitID]*core.Unit
	structures []*core.Structure
	deposits   map[core.Cell]int
	enemies    []core.Cell
	occupied   map[core.Cell]core.UnitID
	tick       int

	harvested int
	boarded   []core.UnitID
}

// NewWorld copies the scenario into a playable world.
func NewWorld(s *core.Scenario, heat core.HeatModel) (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	w := &World{
		grid:     s.Grid,
		heat:     heat,
		units:    make(map[core.UnitID]*core.Unit, len(s.Units)),
		deposits: make(map[core.Cell]int, len(s.Deposits)),
		enemies:  append([]core.Cell(nil), s.Enemies...),
		occupied: make(map[core.Cell]core.UnitID),
	}
	for _, u := range s.Units {
		cp := *u
		if cp.Cooldown == 0 {
			cp.Cooldown = core.DefaultCooldown(cp.Kind)
		}
		w.units[cp.ID] = &cp
		w.occupied[cp.Pos] = cp.ID
	}
	for _, st := range s.Structures {
		cp := *st
		cp.Garrison = append([]core.Unit(nil), st.Garrison...)
		w.structures = append(w.structures, &cp)
		w.occupied[cp.Pos] = cp.ID
	}
	for _, d := range s.Deposits {
		w.deposits[d.Pos] += d.Amount
	}
	return w, nil
}

// Tick returns the number of completed ticks.
func (w *World) Tick() int { return w.tick }

// Grid returns the terrain.
func (w *World) Grid() *core.Grid { return w.grid }

// IsOccupiable reports whether a unit could step onto c right now. A built
// rocket with a free seat accepts whoever steps in.
func (w *World) IsOccupiable(c core.Cell) bool {
	if !w.grid.IsPassable(c) || w.enemyAt(c) {
		return false
	}
	id, taken := w.occupied[c]
	if !taken {
		return true
	}
	st := w.structureByID(id)
	return st != nil && boardable(st)
}

// EnemiesWithin lists enemy positions within the squared radius.
func (w *World) EnemiesWithin(center core.Cell, radiusSq int) []core.Cell {
	var out []core.Cell
	for _, e := range w.enemies {
		if e.DistanceSq(center) <= radiusSq {
			out = append(out, e)
		}
	}
	return out
}

// Move applies one move. Stepping into a boardable rocket loads the unit.
func (w *World) Move(id core.UnitID, dir core.Direction) error {
	u, ok := w.units[id]
	if !ok {
		return fmt.Errorf("unit %d: %w", id, ErrUnknownUnit)
	}
	if !w.heat.CanMove(u.Heat) {
		return fmt.Errorf("unit %d at heat %d: %w", id, u.Heat, ErrHeatTooHigh)
	}
	to := u.Pos.Add(dir)
	if !w.grid.InBounds(to) {
		return fmt.Errorf("unit %d to %v: %w", id, to, ErrOutOfBounds)
	}
	if !w.IsOccupiable(to) {
		return fmt.Errorf("unit %d to %v: %w", id, to, ErrMoveBlocked)
	}

	other, boarding := w.occupied[to]
	if boarding && !core.CanBoard(u.Kind) {
		return fmt.Errorf("unit %d (%v) cannot board %d: %w", id, u.Kind, other, ErrMoveBlocked)
	}

	delete(w.occupied, u.Pos)
	u.Heat += u.Cooldown
	if boarding {
		st := w.structureByID(other)
		u.Pos = to
		st.Garrison = append(st.Garrison, *u)
		delete(w.units, id)
		w.boarded = append(w.boarded, id)
		return nil
	}
	u.Pos = to
	w.occupied[to] = id
	return nil
}

// EndTick lets workers act on adjacent jobs, then cools every unit. It
// returns how many workers did something.
func (w *World) EndTick() int {
	worked := 0
	for _, u := range w.Units() {
		if u.Kind == core.Worker && w.work(u) {
			worked++
		}
	}
	for _, u := range w.units {
		u.Heat = w.heat.AfterStay(u.Heat)
	}
	w.tick++
	return worked
}

// work applies the first job within reach: harvest, build, then repair.
func (w *World) work(u core.Unit) bool {
	for _, d := range w.Deposits() {
		if d.Pos.Chebyshev(u.Pos) <= 1 {
			take := min(DefaultHarvestRate, d.Amount)
			w.deposits[d.Pos] -= take
			w.harvested += take
			return true
		}
	}
	for _, st := range w.structures {
		if st.Pos.Chebyshev(u.Pos) != 1 {
			continue
		}
		switch {
		case !st.Built:
			st.Health = min(st.Health+DefaultBuildRate, st.MaxHealth)
			st.Built = st.Health >= st.MaxHealth
			return true
		case st.Damaged():
			st.Health = min(st.Health+DefaultRepairRate, st.MaxHealth)
			return true
		}
	}
	return false
}

// Units returns a snapshot of mobile units ordered by ID.
func (w *World) Units() []core.Unit {
	out := make([]core.Unit, 0, len(w.units))
	for _, u := range w.units {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Unit looks up a mobile unit.
func (w *World) Unit(id core.UnitID) (core.Unit, bool) {
	u, ok := w.units[id]
	if !ok {
		return core.Unit{}, false
	}
	return *u, true
}

// Structures returns the live structures; callers must not mutate them.
func (w *World) Structures() []*core.Structure { return w.structures }

// Deposits returns non-empty deposits ordered by cell.
func (w *World) Deposits() []core.Deposit {
	out := make([]core.Deposit, 0, len(w.deposits))
	for c, amount := range w.deposits {
		if amount > 0 {
			out = append(out, core.Deposit{Pos: c, Amount: amount})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos.Less(out[j].Pos) })
	return out
}

// Enemies returns the enemy positions.
func (w *World) Enemies() []core.Cell { return w.enemies }

// Harvested returns the karbonite mined so far.
func (w *World) Harvested() int { return w.harvested }

// Boarded returns units loaded into rockets, in boarding order.
func (w *World) Boarded() []core.UnitID { return w.boarded }

func (w *World) enemyAt(c core.Cell) bool {
	for _, e := range w.enemies {
		if e == c {
			return true
		}
	}
	return false
}

func (w *World) structureByID(id core.UnitID) *core.Structure {
	for _, st := range w.structures {
		if st.ID == id {
			return st
		}
	}
	return nil
}

func boardable(st *core.Structure) bool {
	return st.Kind == core.Rocket && st.Built && st.OpenSeats() > 0
}
