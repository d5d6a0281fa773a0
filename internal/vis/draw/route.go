package draw

import (
	"image/color"

	"gioui.org/layout"

	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/vis/interact"
	"github.com/elektrokombinacija/tacnav/internal/vis/state"
)

// DrawTrail draws a fading trail behind a unit.
func DrawTrail(gtx layout.Context, history []state.Point, camera *interact.Camera, baseColor color.NRGBA, maxWidth float32) {
	n := len(history)
	if n < 2 {
		return
	}
	for i := 0; i < n-1; i++ {
		col := fade(baseColor, uint8(50+float64(i)/float64(n)*150))
		w := maxWidth * camera.Zoom * (0.3 + 0.7*float32(i)/float32(n))
		x1, y1 := camera.WorldToScreen(history[i].X, history[i].Y)
		x2, y2 := camera.WorldToScreen(history[i+1].X, history[i+1].Y)
		drawLine(gtx, x1, y1, x2, y2, w, col)
	}
}

// DrawRoute draws a planned route as a dim line with a dot per tick. Ticks
// the unit holds in place are drawn larger.
func DrawRoute(gtx layout.Context, route core.Route, camera *interact.Camera, col color.NRGBA) {
	if len(route) < 2 {
		return
	}
	dim := fade(col, 90)
	w := 1.5 * camera.Zoom
	r := 2.5 * camera.Zoom
	for i := 0; i < len(route)-1; i++ {
		a, b := route[i].Cell, route[i+1].Cell
		x1, y1 := camera.WorldToScreen(float64(a.X), float64(a.Y))
		x2, y2 := camera.WorldToScreen(float64(b.X), float64(b.Y))
		drawLine(gtx, x1, y1, x2, y2, w, dim)
		if a == b {
			drawFilledCircle(gtx, x2, y2, 2*r, dim)
			continue
		}
		drawFilledCircle(gtx, x2, y2, r, dim)
	}
	end := route.Last().Cell
	ex, ey := camera.WorldToScreen(float64(end.X), float64(end.Y))
	drawRing(gtx, ex, ey, camera.Scale()*0.3, w, fade(col, 180))
}
