// Package widgets provides Gio UI widgets for the replay viewer.
package widgets

import (
	"image"
	"image/color"
	"sort"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/vis/draw"
	"github.com/elektrokombinacija/tacnav/internal/vis/interact"
	"github.com/elektrokombinacija/tacnav/internal/vis/state"
)

// Workspace is the map view.
type Workspace struct {
	state   *state.State
	camera  *interact.Camera
	maxHeat int
	fitted  bool
}

// NewWorkspace creates a map view. maxHeat scales the heat bars.
func NewWorkspace(st *state.State, camera *interact.Camera, maxHeat int) *Workspace {
	return &Workspace{state: st, camera: camera, maxHeat: maxHeat}
}

// Refit fits the map to the view on the next frame.
func (w *Workspace) Refit() { w.fitted = false }

// Layout renders the workspace.
func (w *Workspace) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	bounds := gtx.Constraints.Max
	defer clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops).Pop()

	paint.Fill(gtx.Ops, color.NRGBA{R: 25, G: 28, B: 32, A: 255})

	if !w.fitted {
		w.camera.FitGrid(w.state.Grid.Width, w.state.Grid.Height, float32(bounds.X), float32(bounds.Y), 24)
		w.fitted = true
	}
	w.handlePointerEvents(gtx)

	tr := w.state.Trace
	draw.DrawTerrain(gtx, w.state.Grid, w.camera)
	draw.DrawDeposits(gtx, tr.Deposits, w.camera)
	draw.DrawStructures(gtx, tr.Structures, w.camera)
	draw.DrawEnemies(gtx, tr.Enemies, w.camera)

	units := w.units()
	for _, u := range units {
		if trail := w.state.Trail(u.ID); len(trail) > 1 {
			draw.DrawTrail(gtx, trail, w.camera, draw.UnitColor(u.Kind), 3)
		}
	}
	if w.state.ShowRoutes {
		for _, u := range units {
			if !w.state.HasSelected || u.Selected {
				draw.DrawRoute(gtx, w.state.Route(u.ID), w.camera, draw.UnitColor(u.Kind))
			}
		}
	}
	draw.DrawUnits(gtx, units, w.maxHeat, w.camera)

	return layout.Dimensions{Size: bounds}
}

// units joins interpolated positions with the current tick's unit states.
func (w *Workspace) units() []draw.Unit {
	heat := make(map[core.UnitID]int)
	for _, u := range w.state.CurrentUnits() {
		heat[u.ID] = u.Heat
	}
	kinds := w.state.UnitKinds()

	positions := w.state.CurrentPositions()
	out := make([]draw.Unit, 0, len(positions))
	for id, pos := range positions {
		out = append(out, draw.Unit{
			ID:       id,
			Kind:     kinds[id],
			Pos:      pos,
			Heat:     heat[id],
			Selected: w.state.IsSelected(id),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *Workspace) handlePointerEvents(gtx layout.Context) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, w)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  w,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		w.camera.HandleEvent(pe)
		if pe.Kind == pointer.Press && pe.Buttons.Contain(pointer.ButtonPrimary) {
			w.handleClick(pe.Position.X, pe.Position.Y)
		}
	}
}

// handleClick selects the unit in the clicked cell, or clears the selection.
func (w *Workspace) handleClick(sx, sy float32) {
	x, y := w.camera.CellAt(sx, sy)
	clicked := core.Cell{X: x, Y: y}
	for _, u := range w.state.CurrentUnits() {
		if u.Pos == clicked {
			w.state.Select(u.ID)
			return
		}
	}
	w.state.ClearSelection()
}
