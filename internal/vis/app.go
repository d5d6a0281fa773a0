// Package vis implements a Gio replay viewer for recorded simulation traces.
package vis

import (
	"image/color"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/tacnav/internal/sim"
	"github.com/elektrokombinacija/tacnav/internal/vis/interact"
	"github.com/elektrokombinacija/tacnav/internal/vis/state"
	"github.com/elektrokombinacija/tacnav/internal/vis/widgets"
)

// App is the replay viewer.
type App struct {
	state     *state.State
	theme     *material.Theme
	workspace *widgets.Workspace
	timeline  *widgets.Timeline
	toolbar   *widgets.Toolbar
	camera    *interact.Camera
}

// NewApp creates a viewer for a trace. maxHeat scales the heat bars.
func NewApp(trace *sim.Trace, maxHeat int) (*App, error) {
	st, err := state.NewState(trace)
	if err != nil {
		return nil, err
	}
	camera := interact.NewCamera()
	return &App{
		state:     st,
		theme:     material.NewTheme(),
		workspace: widgets.NewWorkspace(st, camera, maxHeat),
		timeline:  widgets.NewTimeline(st),
		toolbar:   widgets.NewToolbar(st),
		camera:    camera,
	}, nil
}

// State exposes the viewer state.
func (a *App) State() *state.State { return a.state }

// Run starts the application event loop.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops
	tag := new(int)

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag, Optional: key.ModShift})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.HandleKey(ke.Name)
				}
			}
			event.Op(gtx.Ops, tag)
			gtx.Execute(key.FocusCmd{Tag: tag})

			a.layout(gtx)
			e.Frame(gtx.Ops)

			if a.state.Playback.Playing {
				a.state.Playback.Advance()
				w.Invalidate()
			}
		}
	}
}

// HandleKey applies a keyboard shortcut.
func (a *App) HandleKey(name key.Name) {
	p := a.state.Playback
	switch name {
	case key.NameSpace:
		p.TogglePlay()
	case key.NameLeftArrow:
		p.StepBack()
	case key.NameRightArrow:
		p.StepForward()
	case key.NameHome:
		p.Reset()
	case key.NameEnd:
		p.Pause()
		p.SetTime(p.MaxTime)
	case key.NameUpArrow:
		p.SetSpeed(p.Speed * 2)
	case key.NameDownArrow:
		p.SetSpeed(p.Speed / 2)
	case key.NameEscape:
		a.state.ClearSelection()
	case "R":
		a.state.ShowRoutes = !a.state.ShowRoutes
	case "F":
		a.workspace.Refit()
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, color.NRGBA{R: 30, G: 30, B: 35, A: 255})

	if a.toolbar.FitRequested {
		a.toolbar.FitRequested = false
		a.workspace.Refit()
	}

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.toolbar.Layout(gtx, a.theme)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return a.workspace.Layout(gtx, a.theme)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.timeline.Layout(gtx, a.theme)
		}),
	)
}
