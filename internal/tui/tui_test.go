package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/sim"
)

const corridorYAML = `
name: corridor
map:
  - "....."
  - ".###."
  - "....."
units:
  - {id: 1, kind: worker, pos: [0, 0], goal: [4, 0]}
enemies: [[2, 2]]
deposits:
  - {pos: [4, 2], amount: 3}
`

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 10)
	t.Cleanup(screen.Fini)
	return screen
}

func newSim(t *testing.T) *sim.Simulator {
	t.Helper()
	s, err := sim.ParseScenario([]byte(corridorYAML))
	require.NoError(t, err)
	cfg := sim.DefaultConfig()
	cfg.Scenario = s
	simulator, err := sim.NewSimulator(cfg)
	require.NoError(t, err)
	return simulator
}

// line returns screen row y as text.
func line(screen tcell.SimulationScreen, y int) string {
	cells, width, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		c := cells[y*width+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(b.String(), " ")
}

func TestUnitGlyph(t *testing.T) {
	assert.Equal(t, 'w', UnitGlyph(core.Worker))
	assert.Equal(t, 'k', UnitGlyph(core.Knight))
	assert.Equal(t, GlyphRocket, UnitGlyph(core.Rocket))
	assert.Equal(t, '?', UnitGlyph(core.UnitKind(99)))
}

func TestRendererDrawsNorthUp(t *testing.T) {
	screen := newScreen(t)
	simulator := newSim(t)

	f := sim.Frame{Units: []sim.UnitState{{ID: 1, Kind: core.Worker, Pos: core.Cell{X: 0, Y: 0}}}}
	NewRenderer(screen, 100).Draw(simulator.World(), f, "hello")

	assert.Equal(t, "..E.$", line(screen, 0), "y=2 is the top row")
	assert.Equal(t, ".###.", line(screen, 1))
	assert.Equal(t, "w....", line(screen, 2))
	assert.Equal(t, "hello", line(screen, 4))
}

func TestWatcherRunsToCompletion(t *testing.T) {
	screen := newScreen(t)
	simulator := newSim(t)
	w := NewWatcher(screen, simulator, 0, 100)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rep, err := w.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Arrived)
	assert.Contains(t, line(screen, 4), "tick ")
	assert.Contains(t, line(screen, 2), "w", "the worker ends on the bottom row")
}

func TestWatcherStopsOnCancel(t *testing.T) {
	screen := newScreen(t)
	w := NewWatcher(screen, newSim(t), time.Hour, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatcherKeys(t *testing.T) {
	screen := newScreen(t)
	simulator := newSim(t)
	w := NewWatcher(screen, simulator, time.Hour, 100)

	assert.True(t, w.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)))
	assert.True(t, w.Paused())
	assert.Contains(t, line(screen, 4), "[paused]")

	assert.True(t, w.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone)))
	assert.Equal(t, 1, simulator.World().Tick())

	assert.True(t, w.HandleEvent(tcell.NewEventResize(80, 10)))
	assert.False(t, w.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, w.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, w.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)))
}
