package core

// UnitID is a unique unit identifier.
type UnitID int

// Unit is a friendly unit as seen by the planner at the start of a tick.
type Unit struct {
	ID       UnitID
	Kind     UnitKind
	Pos      Cell
	Heat     int // Current movement heat
	Cooldown int // Heat gained per move
}

// HeatModel describes how movement heat evolves from tick to tick.
type HeatModel struct {
	MaxHeat int // A unit may move only while heat < MaxHeat
	Decay   int // Heat removed at the end of every tick
}

// DefaultHeatModel mirrors the host rules: threshold 10, decay 10.
func DefaultHeatModel() HeatModel {
	return HeatModel{MaxHeat: 10, Decay: 10}
}

// CanMove checks if a unit with the given heat may move this tick.
func (m HeatModel) CanMove(heat int) bool {
	return heat < m.MaxHeat
}

// AfterMove returns heat at the next tick after moving.
func (m HeatModel) AfterMove(heat, cooldown int) int {
	return m.clamp(heat + cooldown - m.Decay)
}

// AfterStay returns heat at the next tick after staying in place.
func (m HeatModel) AfterStay(heat int) int {
	return m.clamp(heat - m.Decay)
}

func (m HeatModel) clamp(h int) int {
	if h < 0 {
		return 0
	}
	return h
}

// TicksUntilReady returns how many ticks a unit must wait before it can move.
func (m HeatModel) TicksUntilReady(heat int) int {
	n := 0
	for !m.CanMove(heat) {
		heat = m.AfterStay(heat)
		n++
		if m.Decay <= 0 {
			return -1
		}
	}
	return n
}

// CanMove reports whether the unit may move under the model.
func (u Unit) CanMove(m HeatModel) bool {
	return !u.Kind.IsStructure() && m.CanMove(u.Heat)
}
