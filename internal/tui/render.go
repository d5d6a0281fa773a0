// Package tui draws live simulation frames in a terminal.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/sim"
)

// Glyphs used on the map.
const (
	GlyphFloor   = '.'
	GlyphWall    = '#'
	GlyphEnemy   = 'E'
	GlyphDeposit = '$'
	GlyphRoute   = '+'
	GlyphFactory = 'F'
	GlyphRocket  = 'R'
)

var (
	styleFloor   = tcell.StyleDefault.Foreground(tcell.ColorDimGray)
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleEnemy   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleDeposit = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleRoute   = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	styleBuild   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// UnitGlyph returns the map letter for a unit kind.
func UnitGlyph(k core.UnitKind) rune {
	switch k {
	case core.Worker:
		return 'w'
	case core.Knight:
		return 'k'
	case core.Ranger:
		return 'r'
	case core.Mage:
		return 'm'
	case core.Healer:
		return 'h'
	case core.Factory:
		return GlyphFactory
	case core.Rocket:
		return GlyphRocket
	default:
		return '?'
	}
}

func unitStyle(u sim.UnitState, maxHeat int) tcell.Style {
	st := tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	if u.Heat >= maxHeat {
		st = st.Foreground(tcell.ColorOrangeRed)
	}
	return st
}

// Renderer paints one world snapshot per call. North (+y) is the top row.
type Renderer struct {
	screen  tcell.Screen
	maxHeat int
}

// NewRenderer wraps an initialised screen.
func NewRenderer(screen tcell.Screen, maxHeat int) *Renderer {
	return &Renderer{screen: screen, maxHeat: maxHeat}
}

// row converts a map y to a screen row.
func row(g *core.Grid, y int) int {
	return g.Height - 1 - y
}

// Draw paints the world with the frame's routes and units, then a status line.
func (r *Renderer) Draw(w *sim.World, f sim.Frame, status string) {
	s := r.screen
	s.Clear()
	g := w.Grid()

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			ch, st := GlyphFloor, styleFloor
			if !g.IsPassable(core.Cell{X: x, Y: y}) {
				ch, st = GlyphWall, styleWall
			}
			s.SetContent(x, row(g, y), ch, nil, st)
		}
	}
	for _, route := range f.Routes {
		for _, tc := range route {
			s.SetContent(tc.X, row(g, tc.Y), GlyphRoute, nil, styleRoute)
		}
	}
	for _, d := range w.Deposits() {
		s.SetContent(d.Pos.X, row(g, d.Pos.Y), GlyphDeposit, nil, styleDeposit)
	}
	for _, st := range w.Structures() {
		s.SetContent(st.Pos.X, row(g, st.Pos.Y), UnitGlyph(st.Kind), nil, styleBuild)
	}
	for _, e := range w.Enemies() {
		s.SetContent(e.X, row(g, e.Y), GlyphEnemy, nil, styleEnemy)
	}
	for _, u := range f.Units {
		s.SetContent(u.Pos.X, row(g, u.Pos.Y), UnitGlyph(u.Kind), nil, unitStyle(u, r.maxHeat))
	}

	r.text(0, g.Height+1, status)
	s.Show()
}

func (r *Renderer) text(x, y int, msg string) {
	for _, ch := range msg {
		r.screen.SetContent(x, y, ch, nil, styleStatus)
		x++
	}
}

// Status summarises a frame for the status line.
func Status(f sim.Frame, rep *sim.Report) string {
	state := "running"
	if rep.Settled {
		state = "settled"
	}
	return fmt.Sprintf("tick %d  %s  moved %d  rejected %d  reserved %d  harvested %d  boarded %d",
		f.Tick, state, len(f.Issued), len(f.Rejected), f.Reservations, rep.Harvested, rep.Boarded)
}
