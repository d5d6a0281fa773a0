package core

import "fmt"

// Scenario is a match snapshot: terrain, both sides' units and standing orders.
type Scenario struct {
	Name       string
	Grid       *Grid
	Units      []*Unit
	Structures []*Structure
	Deposits   []Deposit
	Enemies    []Cell
	Goals      map[UnitID]Cell // Fixed navigation orders, if any
	MaxTicks   int
}

// NewScenario creates an empty scenario over a grid.
func NewScenario(g *Grid) *Scenario {
	return &Scenario{
		Grid:  g,
		Goals: make(map[UnitID]Cell),
	}
}

// Validate checks scenario consistency.
func (s *Scenario) Validate() error {
	if s.Grid == nil {
		return fmt.Errorf("scenario %q: no map", s.Name)
	}
	seen := make(map[UnitID]bool)
	occupied := make(map[Cell]UnitID)
	claim := func(id UnitID, c Cell) error {
		if seen[id] {
			return fmt.Errorf("duplicate unit id %d", id)
		}
		seen[id] = true
		if !s.Grid.IsPassable(c) {
			return fmt.Errorf("unit %d placed on impassable cell %v", id, c)
		}
		if other, ok := occupied[c]; ok {
			return fmt.Errorf("units %d and %d share cell %v", other, id, c)
		}
		occupied[c] = id
		return nil
	}
	for _, u := range s.Units {
		if err := claim(u.ID, u.Pos); err != nil {
			return err
		}
	}
	for _, st := range s.Structures {
		if err := claim(st.ID, st.Pos); err != nil {
			return err
		}
	}
	for _, e := range s.Enemies {
		if !s.Grid.InBounds(e) {
			return fmt.Errorf("enemy at %v out of bounds", e)
		}
	}
	for id, goal := range s.Goals {
		if !seen[id] {
			return fmt.Errorf("goal for unknown unit %d", id)
		}
		if !s.Grid.InBounds(goal) {
			return fmt.Errorf("goal %v for unit %d out of bounds", goal, id)
		}
	}
	return nil
}

// UnitByID finds a mobile unit by ID.
func (s *Scenario) UnitByID(id UnitID) *Unit {
	for _, u := range s.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// StructureByID finds a structure by ID.
func (s *Scenario) StructureByID(id UnitID) *Structure {
	for _, st := range s.Structures {
		if st.ID == id {
			return st
		}
	}
	return nil
}
