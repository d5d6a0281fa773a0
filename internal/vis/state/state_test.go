package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/sim"
)

func testTrace() *sim.Trace {
	worker := func(x, y int) sim.UnitState {
		return sim.UnitState{ID: 1, Kind: core.Worker, Pos: core.Cell{X: x, Y: y}}
	}
	knight := sim.UnitState{ID: 2, Kind: core.Knight, Pos: core.Cell{X: 3, Y: 1}}
	return &sim.Trace{
		RunID: "test",
		Map:   []string{"....", "...."},
		Structures: []sim.UnitState{
			{ID: 10, Kind: core.Rocket, Pos: core.Cell{X: 3, Y: 0}},
		},
		Initial: []sim.UnitState{worker(0, 0), knight},
		Frames: []sim.Frame{
			{
				Tick:  1,
				Units: []sim.UnitState{worker(1, 0), knight},
				Routes: map[core.UnitID]core.Route{
					1: {{Cell: core.Cell{X: 1, Y: 0}, Tick: 1}, {Cell: core.Cell{X: 2, Y: 0}, Tick: 2}},
				},
			},
			{
				Tick:    2,
				Units:   []sim.UnitState{worker(2, 0)},
				Boarded: []core.UnitID{2},
			},
		},
	}
}

func TestNewState(t *testing.T) {
	_, err := NewState(nil)
	assert.Error(t, err)

	bad := testTrace()
	bad.Map = []string{"....", "..."}
	_, err = NewState(bad)
	assert.Error(t, err)

	st, err := NewState(testTrace())
	require.NoError(t, err)
	assert.Equal(t, 4, st.Grid.Width)
	assert.Equal(t, 2.0, st.Playback.MaxTime)
	assert.True(t, st.ShowRoutes)
	assert.Equal(t, core.Knight, st.UnitKinds()[2])
}

func TestCurrentPositions(t *testing.T) {
	st, err := NewState(testTrace())
	require.NoError(t, err)

	st.Playback.SetTime(0.5)
	pos := st.CurrentPositions()
	assert.Equal(t, Point{X: 0.5, Y: 0}, pos[1])
	assert.Equal(t, Point{X: 3, Y: 1}, pos[2])

	// The knight boards the rocket during tick 2.
	st.Playback.SetTime(1.5)
	pos = st.CurrentPositions()
	assert.Equal(t, Point{X: 1.5, Y: 0}, pos[1])
	assert.Equal(t, Point{X: 3, Y: 0.5}, pos[2])

	st.Playback.SetTime(2)
	pos = st.CurrentPositions()
	assert.Equal(t, Point{X: 2, Y: 0}, pos[1])
	assert.NotContains(t, pos, core.UnitID(2))
	assert.Len(t, st.CurrentUnits(), 1)
}

func TestFrameAndRoute(t *testing.T) {
	st, err := NewState(testTrace())
	require.NoError(t, err)

	assert.Nil(t, st.Frame())
	assert.Nil(t, st.Route(1))

	st.Playback.SetTime(1.2)
	require.NotNil(t, st.Frame())
	assert.Equal(t, 1, st.Frame().Tick)
	assert.Len(t, st.Route(1), 2)
	assert.Nil(t, st.Route(2))
}

func TestTrail(t *testing.T) {
	st, err := NewState(testTrace())
	require.NoError(t, err)

	st.Playback.SetTime(1.5)
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {1.5, 0}}, st.Trail(1))
	assert.Equal(t, []Point{{3, 1}, {3, 0.5}}, st.Trail(2))
	assert.Empty(t, st.Trail(99))
}

func TestSelection(t *testing.T) {
	st, err := NewState(testTrace())
	require.NoError(t, err)

	st.Select(1)
	assert.True(t, st.IsSelected(1))
	assert.False(t, st.IsSelected(2))
	st.Select(2)
	assert.True(t, st.IsSelected(2))
	st.Select(2)
	assert.False(t, st.HasSelected)
}

func TestPlayback(t *testing.T) {
	p := NewPlaybackState(10)
	p.AdvanceBy(time.Second)
	assert.Zero(t, p.CurrentTime, "paused playback must not move")

	p.TogglePlay()
	p.AdvanceBy(250 * time.Millisecond)
	assert.InDelta(t, 1.0, p.CurrentTime, 1e-9)
	assert.Equal(t, 1, p.Tick())

	p.AdvanceBy(time.Hour)
	assert.Equal(t, 10.0, p.CurrentTime)
	assert.False(t, p.Playing)
	assert.Equal(t, 1.0, p.Progress())

	p.TogglePlay()
	assert.Zero(t, p.CurrentTime, "playing from the end rewinds")

	p.SetTime(1.5)
	p.StepForward()
	assert.Equal(t, 2.0, p.CurrentTime)
	p.SetTime(1.5)
	p.StepBack()
	assert.Equal(t, 1.0, p.CurrentTime)
	p.StepBack()
	assert.Equal(t, 0.0, p.CurrentTime)
	p.StepBack()
	assert.Equal(t, 0.0, p.CurrentTime)

	p.SetSpeed(1000)
	assert.Equal(t, float64(MaxSpeed), p.Speed)
	p.SetSpeed(0)
	assert.Equal(t, MinSpeed, p.Speed)

	p.SetTime(-3)
	assert.Zero(t, p.CurrentTime)
	p.Reset()
	assert.False(t, p.Playing)

	assert.Zero(t, NewPlaybackState(0).Progress())
}
