// Package interact handles pan and zoom over the map.
package interact

import (
	"gioui.org/io/pointer"
)

// CellSize is the on-screen size of one cell at zoom 1.
const CellSize = 40

const (
	minZoom = 0.1
	maxZoom = 10
)

// Camera maps cell coordinates to screen pixels. North (+y) points up the
// screen, so the y axis is flipped.
type Camera struct {
	OffsetX float32 // Screen position of cell (0,0)
	OffsetY float32
	Zoom    float32

	dragging bool
	lastX    float32
	lastY    float32
}

// NewCamera creates a camera at zoom 1.
func NewCamera() *Camera {
	c := &Camera{}
	c.Reset()
	return c
}

// Reset restores the default view.
func (c *Camera) Reset() {
	c.OffsetX = 60
	c.OffsetY = 400
	c.Zoom = 1
}

// Scale returns pixels per cell.
func (c *Camera) Scale() float32 {
	return CellSize * c.Zoom
}

// WorldToScreen converts a cell position to screen pixels.
func (c *Camera) WorldToScreen(x, y float64) (float32, float32) {
	s := c.Scale()
	return float32(x)*s + c.OffsetX, -float32(y)*s + c.OffsetY
}

// ScreenToWorld converts screen pixels to a cell position.
func (c *Camera) ScreenToWorld(sx, sy float32) (float64, float64) {
	s := c.Scale()
	return float64((sx - c.OffsetX) / s), float64((c.OffsetY - sy) / s)
}

// CellAt returns the cell under a screen point.
func (c *Camera) CellAt(sx, sy float32) (int, int) {
	x, y := c.ScreenToWorld(sx, sy)
	return roundHalfUp(x), roundHalfUp(y)
}

func roundHalfUp(v float64) int {
	if v < 0 {
		return -int(-v + 0.5)
	}
	return int(v + 0.5)
}

// HandleEvent pans on secondary or middle drag and zooms on scroll.
func (c *Camera) HandleEvent(ev pointer.Event) {
	switch ev.Kind {
	case pointer.Press:
		if ev.Buttons.Contain(pointer.ButtonSecondary) || ev.Buttons.Contain(pointer.ButtonTertiary) {
			c.dragging = true
		}
		c.lastX, c.lastY = ev.Position.X, ev.Position.Y

	case pointer.Drag:
		if c.dragging {
			c.Pan(ev.Position.X-c.lastX, ev.Position.Y-c.lastY)
		}
		c.lastX, c.lastY = ev.Position.X, ev.Position.Y

	case pointer.Release:
		c.dragging = false

	case pointer.Scroll:
		switch {
		case ev.Scroll.Y > 0:
			c.ZoomBy(1/1.1, ev.Position.X, ev.Position.Y)
		case ev.Scroll.Y < 0:
			c.ZoomBy(1.1, ev.Position.X, ev.Position.Y)
		}
	}
}

// Pan moves the view by a screen delta.
func (c *Camera) Pan(dx, dy float32) {
	c.OffsetX += dx
	c.OffsetY += dy
}

// ZoomBy zooms by a factor, keeping the world point under (cx, cy) fixed.
func (c *Camera) ZoomBy(factor float32, cx, cy float32) {
	wx, wy := c.ScreenToWorld(cx, cy)
	c.Zoom = clamp(c.Zoom*factor, minZoom, maxZoom)
	sx, sy := c.WorldToScreen(wx, wy)
	c.OffsetX += cx - sx
	c.OffsetY += cy - sy
}

// FitGrid zooms and centres so a width by height map fills the screen.
func (c *Camera) FitGrid(width, height int, screenW, screenH, margin float32) {
	if width <= 0 || height <= 0 {
		return
	}
	zx := (screenW - 2*margin) / (float32(width) * CellSize)
	zy := (screenH - 2*margin) / (float32(height) * CellSize)
	c.Zoom = clamp(min(zx, zy), minZoom, maxZoom)

	s := c.Scale()
	// Cell centres run from 0 to width-1; centre that span on screen.
	c.OffsetX = screenW/2 - float32(width-1)*s/2
	c.OffsetY = screenH/2 + float32(height-1)*s/2
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
