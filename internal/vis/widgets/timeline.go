package widgets

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/tacnav/internal/vis/state"
)

const (
	timelineHeight = 60
	timelineMargin = 20
)

// Timeline is a tick scrubber with a mark for every tick that rejected moves.
type Timeline struct {
	state    *state.State
	dragging bool
}

// NewTimeline creates a new timeline widget.
func NewTimeline(st *state.State) *Timeline {
	return &Timeline{state: st}
}

// Layout renders the timeline.
func (t *Timeline) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	width := gtx.Constraints.Max.X
	rect := image.Rect(0, 0, width, timelineHeight)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 35, G: 38, B: 42, A: 255}, clip.Rect(rect).Op())

	t.handlePointerEvents(gtx)

	trackY := timelineHeight / 2
	trackHeight := 6
	trackWidth := width - 2*timelineMargin

	trackRect := image.Rect(timelineMargin, trackY-trackHeight/2, timelineMargin+trackWidth, trackY+trackHeight/2)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 60, G: 65, B: 70, A: 255}, clip.Rect(trackRect).Op())

	fillWidth := int(float64(trackWidth) * t.state.Playback.Progress())
	if fillWidth > 0 {
		fillRect := image.Rect(timelineMargin, trackY-trackHeight/2, timelineMargin+fillWidth, trackY+trackHeight/2)
		paint.FillShape(gtx.Ops, color.NRGBA{R: 100, G: 180, B: 255, A: 255}, clip.Rect(fillRect).Op())
	}

	for _, tick := range t.rejectedTicks() {
		x := timelineMargin + t.tickOffset(tick, trackWidth)
		mark := image.Rect(x-1, trackY-trackHeight, x+1, trackY+trackHeight)
		paint.FillShape(gtx.Ops, color.NRGBA{R: 230, G: 70, B: 70, A: 255}, clip.Rect(mark).Op())
	}

	playheadX := timelineMargin + fillWidth
	playheadSize := 12
	playheadRect := image.Rect(playheadX-playheadSize/2, trackY-playheadSize/2, playheadX+playheadSize/2, trackY+playheadSize/2)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, clip.Rect(playheadRect).Op())

	t.drawLabels(gtx, th)

	return layout.Dimensions{Size: image.Point{X: width, Y: timelineHeight}}
}

// rejectedTicks lists ticks whose frame recorded a rejected move.
func (t *Timeline) rejectedTicks() []int {
	var ticks []int
	for _, f := range t.state.Trace.Frames {
		if len(f.Rejected) > 0 {
			ticks = append(ticks, f.Tick)
		}
	}
	return ticks
}

func (t *Timeline) tickOffset(tick, trackWidth int) int {
	if t.state.Playback.MaxTime <= 0 {
		return 0
	}
	return int(float64(trackWidth) * float64(tick) / t.state.Playback.MaxTime)
}

func (t *Timeline) drawLabels(gtx layout.Context, th *material.Theme) {
	p := t.state.Playback
	current := material.Label(th, 12, fmt.Sprintf("tick %d", p.Tick()))
	current.Color = color.NRGBA{R: 200, G: 200, B: 200, A: 255}

	speed := material.Label(th, 12, fmt.Sprintf("%.2g ticks/s", p.Speed))
	speed.Color = color.NRGBA{R: 150, G: 180, B: 200, A: 255}

	last := material.Label(th, 12, fmt.Sprintf("%d", int(p.MaxTime)))
	last.Color = color.NRGBA{R: 150, G: 150, B: 150, A: 255}

	layout.Inset{Top: unit.Dp(4), Left: unit.Dp(timelineMargin), Right: unit.Dp(timelineMargin)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
			layout.Rigid(current.Layout),
			layout.Rigid(speed.Layout),
			layout.Rigid(last.Layout),
		)
	})
}

func (t *Timeline) handlePointerEvents(gtx layout.Context) {
	trackWidth := gtx.Constraints.Max.X - 2*timelineMargin

	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, timelineHeight)).Push(gtx.Ops)
	event.Op(gtx.Ops, t)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: t,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch pe.Kind {
		case pointer.Press:
			t.dragging = true
			t.seek(pe.Position.X, trackWidth)
		case pointer.Drag:
			if t.dragging {
				t.seek(pe.Position.X, trackWidth)
			}
		case pointer.Release:
			t.dragging = false
		}
	}
}

// seek jumps to the whole tick nearest a screen x.
func (t *Timeline) seek(screenX float32, trackWidth int) {
	if trackWidth <= 0 {
		return
	}
	progress := (float64(screenX) - timelineMargin) / float64(trackWidth)
	tick := int(progress*t.state.Playback.MaxTime + 0.5)
	t.state.Playback.Pause()
	t.state.Playback.SetTime(float64(tick))
}
