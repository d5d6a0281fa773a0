package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

func newTestWorld(t *testing.T, s *core.Scenario) *World {
	t.Helper()
	w, err := NewWorld(s, core.DefaultHeatModel())
	require.NoError(t, err)
	return w
}

func openScenario(w, h int) *core.Scenario {
	return core.NewScenario(core.NewGrid(w, h))
}

func TestWorldMoveErrors(t *testing.T) {
	s := openScenario(3, 3)
	s.Units = []*core.Unit{
		{ID: 1, Kind: core.Knight, Pos: core.Cell{X: 0, Y: 0}},
		{ID: 2, Kind: core.Knight, Pos: core.Cell{X: 1, Y: 0}},
	}
	s.Enemies = []core.Cell{{X: 0, Y: 1}}
	w := newTestWorld(t, s)

	assert.ErrorIs(t, w.Move(9, core.North), ErrUnknownUnit)
	assert.ErrorIs(t, w.Move(1, core.South), ErrOutOfBounds)
	assert.ErrorIs(t, w.Move(1, core.East), ErrMoveBlocked)
	assert.ErrorIs(t, w.Move(1, core.North), ErrMoveBlocked, "enemy cell")

	require.NoError(t, w.Move(1, core.Northeast))
	u, _ := w.Unit(1)
	assert.Equal(t, core.Cell{X: 1, Y: 1}, u.Pos)
	assert.Equal(t, 15, u.Heat, "knight default cooldown")
	assert.ErrorIs(t, w.Move(1, core.North), ErrHeatTooHigh)

	assert.False(t, w.IsOccupiable(core.Cell{X: 1, Y: 1}))
	assert.True(t, w.IsOccupiable(core.Cell{X: 0, Y: 0}), "vacated")
}

func TestWorldEndTickCoolsUnits(t *testing.T) {
	s := openScenario(3, 1)
	s.Units = []*core.Unit{{ID: 1, Kind: core.Ranger, Pos: core.Cell{}}}
	w := newTestWorld(t, s)

	require.NoError(t, w.Move(1, core.East))
	w.EndTick()
	u, _ := w.Unit(1)
	assert.Equal(t, 10, u.Heat)
	assert.ErrorIs(t, w.Move(1, core.East), ErrHeatTooHigh)

	w.EndTick()
	require.NoError(t, w.Move(1, core.East))
	assert.Equal(t, 2, w.Tick())
}

func TestWorldBoarding(t *testing.T) {
	s := openScenario(3, 3)
	s.Units = []*core.Unit{
		{ID: 1, Kind: core.Worker, Pos: core.Cell{X: 0, Y: 0}},
		{ID: 2, Kind: core.Mage, Pos: core.Cell{X: 2, Y: 2}},
	}
	s.Structures = []*core.Structure{
		{ID: 10, Kind: core.Rocket, Pos: core.Cell{X: 1, Y: 1}, Built: true, Health: 100, MaxHealth: 100, Capacity: 1},
	}
	w := newTestWorld(t, s)

	assert.True(t, w.IsOccupiable(core.Cell{X: 1, Y: 1}))
	require.NoError(t, w.Move(1, core.Northeast))
	assert.Equal(t, []core.UnitID{1}, w.Boarded())
	_, ok := w.Unit(1)
	assert.False(t, ok)
	assert.True(t, w.Structures()[0].HasWorkerAboard())

	// Full now.
	assert.False(t, w.IsOccupiable(core.Cell{X: 1, Y: 1}))
	assert.ErrorIs(t, w.Move(2, core.Southwest), ErrMoveBlocked)
	assert.True(t, w.IsOccupiable(core.Cell{X: 0, Y: 0}))
}

func TestWorldWorkersHarvestBuildRepair(t *testing.T) {
	s := openScenario(5, 3)
	s.Units = []*core.Unit{
		{ID: 1, Kind: core.Worker, Pos: core.Cell{X: 0, Y: 0}},
		{ID: 2, Kind: core.Worker, Pos: core.Cell{X: 3, Y: 0}},
		{ID: 3, Kind: core.Knight, Pos: core.Cell{X: 0, Y: 2}},
	}
	s.Deposits = []core.Deposit{{Pos: core.Cell{X: 1, Y: 0}, Amount: 4}, {Pos: core.Cell{X: 0, Y: 1}, Amount: 0}}
	s.Structures = []*core.Structure{
		{ID: 10, Kind: core.Factory, Pos: core.Cell{X: 4, Y: 1}, Health: 0, MaxHealth: 10},
	}
	w := newTestWorld(t, s)

	assert.Len(t, w.Deposits(), 1)

	assert.Equal(t, 2, w.EndTick())
	assert.Equal(t, 3, w.Harvested())
	assert.Equal(t, 5, w.Structures()[0].Health)

	assert.Equal(t, 2, w.EndTick())
	assert.Equal(t, 4, w.Harvested())
	assert.Empty(t, w.Deposits())
	assert.True(t, w.Structures()[0].Built)

	assert.Equal(t, 0, w.EndTick(), "nothing left to do")
}

func TestNewWorldRejectsInvalidScenario(t *testing.T) {
	s := openScenario(2, 2)
	s.Units = []*core.Unit{
		{ID: 1, Kind: core.Knight, Pos: core.Cell{X: 0, Y: 0}},
		{ID: 1, Kind: core.Knight, Pos: core.Cell{X: 1, Y: 0}},
	}
	_, err := NewWorld(s, core.DefaultHeatModel())
	assert.Error(t, err)
}
