package draw

import (
	"image"
	"testing"

	"gioui.org/layout"
	"gioui.org/op"
	"github.com/stretchr/testify/assert"

	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/sim"
	"github.com/elektrokombinacija/tacnav/internal/vis/interact"
	"github.com/elektrokombinacija/tacnav/internal/vis/state"
)

func TestUnitColor(t *testing.T) {
	assert.Equal(t, ColorWorker, UnitColor(core.Worker))
	assert.Equal(t, ColorKnight, UnitColor(core.Knight))
	assert.Equal(t, ColorHealer, UnitColor(core.Healer))
	assert.Equal(t, ColorWorker, UnitColor(core.UnitKind(42)))
}

// Rendering records ops without a window; the test guards against panics on
// degenerate input.
func TestRenderSmoke(t *testing.T) {
	gtx := layout.Context{Ops: new(op.Ops), Constraints: layout.Exact(image.Pt(400, 300))}
	cam := interact.NewCamera()
	g, err := core.ParseGrid([]string{".#.", "..."})
	assert.NoError(t, err)

	assert.NotPanics(t, func() {
		DrawTerrain(gtx, g, cam)
		DrawStructures(gtx, []sim.UnitState{
			{ID: 9, Kind: core.Rocket, Pos: core.Cell{X: 2}},
			{ID: 8, Kind: core.Factory, Pos: core.Cell{X: 0, Y: 1}},
		}, cam)
		DrawDeposits(gtx, []core.Cell{{X: 1, Y: 1}}, cam)
		DrawEnemies(gtx, []core.Cell{{X: 2, Y: 1}}, cam)
		for k := core.Worker; k <= core.Healer; k++ {
			DrawUnit(gtx, Unit{ID: core.UnitID(k), Kind: k, Heat: 30, Selected: k == core.Mage}, 10, cam)
		}
		DrawTrail(gtx, []state.Point{{X: 0, Y: 0}}, cam, ColorWorker, 3)
		DrawTrail(gtx, []state.Point{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}, cam, ColorWorker, 3)
		DrawRoute(gtx, core.Route{
			{Cell: core.Cell{X: 0, Y: 0}, Tick: 1},
			{Cell: core.Cell{X: 0, Y: 0}, Tick: 2},
			{Cell: core.Cell{X: 1, Y: 1}, Tick: 3},
		}, cam, ColorKnight)
		DrawRoute(gtx, nil, cam, ColorKnight)
	})
}
