// Package draw renders maps, units and routes for the replay viewer.
package draw

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
)

func drawRect(gtx layout.Context, cx, cy, width, height float32, col color.NRGBA) {
	halfW, halfH := width/2, height/2
	polygon(gtx, col,
		f32.Pt(cx-halfW, cy-halfH),
		f32.Pt(cx+halfW, cy-halfH),
		f32.Pt(cx+halfW, cy+halfH),
		f32.Pt(cx-halfW, cy+halfH),
	)
}

func drawDiamond(gtx layout.Context, cx, cy, size float32, col color.NRGBA) {
	r := size / 2
	polygon(gtx, col, f32.Pt(cx, cy-r), f32.Pt(cx+r, cy), f32.Pt(cx, cy+r), f32.Pt(cx-r, cy))
}

func drawTriangle(gtx layout.Context, cx, cy, size float32, col color.NRGBA) {
	r := size / 2
	polygon(gtx, col, f32.Pt(cx, cy-r), f32.Pt(cx+r, cy+r), f32.Pt(cx-r, cy+r))
}

func drawCross(gtx layout.Context, cx, cy, size float32, col color.NRGBA) {
	drawRect(gtx, cx, cy, size, size/3, col)
	drawRect(gtx, cx, cy, size/3, size, col)
}

func polygon(gtx layout.Context, col color.NRGBA, pts ...f32.Point) {
	if len(pts) < 3 {
		return
	}
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(pts[0])
	for _, p := range pts[1:] {
		path.LineTo(p)
	}
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func drawLine(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx, dy := x2-x1, y2-y1
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length
	px, py := -dy*width/2, dx*width/2
	polygon(gtx, col,
		f32.Pt(x1+px, y1+py),
		f32.Pt(x2+px, y2+py),
		f32.Pt(x2-px, y2-py),
		f32.Pt(x1-px, y1-py),
	)
}

func drawFilledCircle(gtx layout.Context, cx, cy, radius float32, col color.NRGBA) {
	const segments = 16
	pts := make([]f32.Point, segments)
	for i := range pts {
		angle := float64(i) * 2 * math.Pi / segments
		pts[i] = f32.Pt(cx+radius*float32(math.Cos(angle)), cy+radius*float32(math.Sin(angle)))
	}
	polygon(gtx, col, pts...)
}

func drawRing(gtx layout.Context, cx, cy, radius, width float32, col color.NRGBA) {
	const segments = 16
	for i := 0; i < segments; i++ {
		a1 := float64(i) * 2 * math.Pi / segments
		a2 := float64(i+1) * 2 * math.Pi / segments
		drawLine(gtx,
			cx+radius*float32(math.Cos(a1)), cy+radius*float32(math.Sin(a1)),
			cx+radius*float32(math.Cos(a2)), cy+radius*float32(math.Sin(a2)),
			width, col)
	}
}

func fade(col color.NRGBA, alpha uint8) color.NRGBA {
	col.A = alpha
	return col
}
