package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanBoard(t *testing.T) {
	tests := []struct {
		kind UnitKind
		want bool
	}{
		{Worker, true},
		{Knight, true},
		{Ranger, true},
		{Mage, true},
		{Healer, true},
		{Factory, false},
		{Rocket, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanBoard(tt.kind), "CanBoard(%v)", tt.kind)
	}
}

func TestParseUnitKind(t *testing.T) {
	k, ok := ParseUnitKind("ranger")
	require.True(t, ok)
	assert.Equal(t, Ranger, k)

	_, ok = ParseUnitKind("dragon")
	assert.False(t, ok)
}

func TestDirectionTo(t *testing.T) {
	origin := Cell{X: 3, Y: 3}
	for _, d := range AllDirections() {
		got, ok := DirectionTo(origin, origin.Add(d))
		require.True(t, ok)
		assert.Equal(t, d, got)
	}

	d, ok := DirectionTo(origin, origin)
	assert.True(t, ok)
	assert.Equal(t, Center, d)

	_, ok = DirectionTo(origin, Cell{X: 5, Y: 3})
	assert.False(t, ok)
}

func TestParseGrid(t *testing.T) {
	g, err := ParseGrid([]string{
		"..#",
		"...",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width)
	assert.Equal(t, 2, g.Height)
	assert.False(t, g.IsPassable(Cell{X: 2, Y: 0}))
	assert.True(t, g.IsPassable(Cell{X: 2, Y: 1}))
	assert.False(t, g.IsPassable(Cell{X: -1, Y: 0}))

	assert.Equal(t, []string{"..#", "..."}, g.Rows())

	_, err = ParseGrid([]string{"..", "..."})
	assert.Error(t, err)
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("northeast")
	assert.True(t, ok)
	assert.Equal(t, Northeast, d)

	_, ok = ParseDirection("up")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", Direction(42).String())
}

func TestHeatModel(t *testing.T) {
	m := DefaultHeatModel()

	assert.True(t, m.CanMove(0))
	assert.True(t, m.CanMove(9))
	assert.False(t, m.CanMove(10))

	// Cooldown equal to decay keeps the unit ready every tick.
	assert.Equal(t, 0, m.AfterMove(0, 10))
	// A slow unit alternates between moving and waiting.
	assert.Equal(t, 10, m.AfterMove(0, 20))
	assert.Equal(t, 0, m.AfterStay(10))
	assert.Equal(t, 0, m.AfterStay(3))

	assert.Equal(t, 0, m.TicksUntilReady(5))
	assert.Equal(t, 2, m.TicksUntilReady(25))
}

func TestRouteContiguous(t *testing.T) {
	r := Route{
		{Cell: Cell{X: 0, Y: 0}, Tick: 1},
		{Cell: Cell{X: 1, Y: 1}, Tick: 2},
		{Cell: Cell{X: 1, Y: 1}, Tick: 3},
	}
	assert.True(t, r.Contiguous())
	assert.Equal(t, 1, r.Moves())
	assert.Equal(t, 1, r.IndexAt(Cell{X: 1, Y: 1}, 2))

	r = append(r, TimedCell{Cell: Cell{X: 3, Y: 1}, Tick: 4})
	assert.False(t, r.Contiguous())
}

func TestScenarioValidate(t *testing.T) {
	s := NewScenario(NewGrid(4, 4))
	s.Units = []*Unit{
		{ID: 1, Kind: Worker, Pos: Cell{X: 0, Y: 0}},
		{ID: 2, Kind: Ranger, Pos: Cell{X: 1, Y: 0}},
	}
	s.Goals[1] = Cell{X: 3, Y: 3}
	require.NoError(t, s.Validate())

	s.Units = append(s.Units, &Unit{ID: 3, Pos: Cell{X: 1, Y: 0}})
	assert.Error(t, s.Validate())
}
