package draw

import (
	"image/color"

	"gioui.org/layout"

	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/vis/interact"
	"github.com/elektrokombinacija/tacnav/internal/vis/state"
)

// Unit colors by kind
var (
	ColorWorker   = color.NRGBA{R: 100, G: 200, B: 255, A: 255}
	ColorKnight   = color.NRGBA{R: 255, G: 150, B: 100, A: 255}
	ColorRanger   = color.NRGBA{R: 200, G: 100, B: 255, A: 255}
	ColorMage     = color.NRGBA{R: 255, G: 220, B: 90, A: 255}
	ColorHealer   = color.NRGBA{R: 120, G: 255, B: 200, A: 255}
	ColorSelected = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	ColorHeat     = color.NRGBA{R: 255, G: 90, B: 40, A: 220}
)

// UnitColor returns the color for a unit kind.
func UnitColor(k core.UnitKind) color.NRGBA {
	switch k {
	case core.Knight:
		return ColorKnight
	case core.Ranger:
		return ColorRanger
	case core.Mage:
		return ColorMage
	case core.Healer:
		return ColorHealer
	default:
		return ColorWorker
	}
}

// Unit is what the renderer needs to place one unit.
type Unit struct {
	ID       core.UnitID
	Kind     core.UnitKind
	Pos      state.Point
	Heat     int
	Selected bool
}

// DrawUnit draws a unit shaped by kind with a heat bar underneath.
func DrawUnit(gtx layout.Context, u Unit, maxHeat int, camera *interact.Camera) {
	sx, sy := camera.WorldToScreen(u.Pos.X, u.Pos.Y)
	size := camera.Scale() * 0.6

	col := UnitColor(u.Kind)
	if u.Selected {
		drawRing(gtx, sx, sy, size*0.75, 2*camera.Zoom, ColorSelected)
	}

	switch u.Kind {
	case core.Knight:
		drawDiamond(gtx, sx, sy, size, col)
	case core.Ranger:
		drawTriangle(gtx, sx, sy, size, col)
	case core.Mage:
		drawFilledCircle(gtx, sx, sy, size/2, col)
	case core.Healer:
		drawCross(gtx, sx, sy, size, col)
	default:
		drawRect(gtx, sx, sy, size*0.8, size*0.8, col)
	}

	if maxHeat > 0 && u.Heat > 0 {
		frac := min(float32(u.Heat)/float32(maxHeat), 1)
		w := size * frac
		drawRect(gtx, sx-size/2+w/2, sy+size*0.7, w, 3*camera.Zoom, ColorHeat)
	}
}

// DrawUnits draws every unit in ID order.
func DrawUnits(gtx layout.Context, units []Unit, maxHeat int, camera *interact.Camera) {
	for _, u := range units {
		DrawUnit(gtx, u, maxHeat, camera)
	}
}
