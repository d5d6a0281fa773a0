package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/elektrokombinacija/tacnav/internal/sim"
)

// Watcher steps a simulator on a timer and draws every tick.
//
// Keys: q, Esc or Ctrl-C quit; space pauses; n steps once while paused.
type Watcher struct {
	screen   tcell.Screen
	renderer *Renderer
	sim      *sim.Simulator
	delay    time.Duration

	// HoldOnDone keeps the last frame up until the user quits.
	HoldOnDone bool

	paused bool
	last   sim.Frame
}

// NewWatcher drives s on an initialised screen, one tick per delay.
func NewWatcher(screen tcell.Screen, s *sim.Simulator, delay time.Duration, maxHeat int) *Watcher {
	if delay <= 0 {
		delay = time.Millisecond
	}
	return &Watcher{
		screen:   screen,
		renderer: NewRenderer(screen, maxHeat),
		sim:      s,
		delay:    delay,
	}
}

// Paused reports whether stepping is suspended.
func (w *Watcher) Paused() bool { return w.paused }

// Run plays until the simulation finishes, ctx ends or the user quits.
func (w *Watcher) Run(ctx context.Context) (*sim.Report, error) {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go w.screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(w.delay)
	defer ticker.Stop()

	w.draw()
	for {
		select {
		case <-ctx.Done():
			return w.sim.Report(), ctx.Err()

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !w.HandleEvent(ev) {
				return w.sim.Report(), nil
			}

		case <-ticker.C:
			if w.sim.Done() {
				if !w.HoldOnDone {
					return w.sim.Report(), nil
				}
				continue
			}
			if !w.paused {
				w.step()
			}
		}
	}
}

// HandleEvent reacts to input. It returns false when the user quits.
func (w *Watcher) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				w.paused = !w.paused
				w.draw()
			case 'n':
				if w.paused && !w.sim.Done() {
					w.step()
				}
			}
		}
	case *tcell.EventResize:
		w.screen.Sync()
		w.draw()
	}
	return true
}

func (w *Watcher) step() {
	w.last = w.sim.Step()
	w.draw()
}

func (w *Watcher) draw() {
	status := Status(w.last, w.sim.Report())
	if w.paused {
		status += "  [paused]"
	}
	w.renderer.Draw(w.sim.World(), w.last, status)
}
