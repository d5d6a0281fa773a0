package draw

import (
	"image/color"

	"gioui.org/layout"

	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/sim"
	"github.com/elektrokombinacija/tacnav/internal/vis/interact"
)

// Map colors
var (
	ColorFloor     = color.NRGBA{R: 45, G: 50, B: 56, A: 255}
	ColorWall      = color.NRGBA{R: 15, G: 16, B: 18, A: 255}
	ColorEnemy     = color.NRGBA{R: 230, G: 70, B: 70, A: 255}
	ColorDeposit   = color.NRGBA{R: 90, G: 200, B: 120, A: 255}
	ColorStructure = color.NRGBA{R: 170, G: 170, B: 190, A: 255}
)

// DrawTerrain fills every cell, walls darker than floor.
func DrawTerrain(gtx layout.Context, g *core.Grid, camera *interact.Camera) {
	size := camera.Scale()
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			col := ColorFloor
			if !g.IsPassable(core.Cell{X: x, Y: y}) {
				col = ColorWall
			}
			sx, sy := camera.WorldToScreen(float64(x), float64(y))
			drawRect(gtx, sx, sy, size-1, size-1, col)
		}
	}
}

// DrawStructures draws factories as squares and rockets as triangles.
func DrawStructures(gtx layout.Context, structures []sim.UnitState, camera *interact.Camera) {
	size := camera.Scale() * 0.8
	for _, st := range structures {
		sx, sy := camera.WorldToScreen(float64(st.Pos.X), float64(st.Pos.Y))
		if st.Kind == core.Rocket {
			drawTriangle(gtx, sx, sy, size, ColorStructure)
			continue
		}
		drawRect(gtx, sx, sy, size, size, ColorStructure)
	}
}

// DrawDeposits marks karbonite cells.
func DrawDeposits(gtx layout.Context, deposits []core.Cell, camera *interact.Camera) {
	size := camera.Scale() * 0.3
	for _, c := range deposits {
		sx, sy := camera.WorldToScreen(float64(c.X), float64(c.Y))
		drawDiamond(gtx, sx, sy, size, ColorDeposit)
	}
}

// DrawEnemies marks enemy cells with a ring.
func DrawEnemies(gtx layout.Context, enemies []core.Cell, camera *interact.Camera) {
	r := camera.Scale() * 0.35
	for _, c := range enemies {
		sx, sy := camera.WorldToScreen(float64(c.X), float64(c.Y))
		drawRing(gtx, sx, sy, r, 3*camera.Zoom, ColorEnemy)
	}
}
