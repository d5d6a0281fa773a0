package state

import (
	"math"
	"time"
)

// PlaybackState manages replay timing. Time is measured in ticks.
type PlaybackState struct {
	CurrentTime float64 // Current position in ticks, fractional between frames
	MaxTime     float64 // Last recorded tick
	Speed       float64 // Ticks per second
	Playing     bool
	lastUpdate  time.Time
}

// Speed limits in ticks per second.
const (
	MinSpeed     = 0.25
	MaxSpeed     = 32
	DefaultSpeed = 4
)

// NewPlaybackState creates a paused playback over ticks [0, maxTick].
func NewPlaybackState(maxTick int) *PlaybackState {
	return &PlaybackState{
		MaxTime:    float64(maxTick),
		Speed:      DefaultSpeed,
		lastUpdate: time.Now(),
	}
}

// TogglePlay toggles playback, rewinding first when at the end.
func (p *PlaybackState) TogglePlay() {
	p.Playing = !p.Playing
	if p.Playing {
		p.lastUpdate = time.Now()
		if p.CurrentTime >= p.MaxTime {
			p.CurrentTime = 0
		}
	}
}

// Pause stops playback.
func (p *PlaybackState) Pause() {
	p.Playing = false
}

// Reset rewinds to tick 0 and pauses.
func (p *PlaybackState) Reset() {
	p.CurrentTime = 0
	p.Playing = false
}

// Advance moves playback by the wall time since the last call.
func (p *PlaybackState) Advance() {
	now := time.Now()
	elapsed := now.Sub(p.lastUpdate)
	p.lastUpdate = now
	p.AdvanceBy(elapsed)
}

// AdvanceBy moves playback by elapsed wall time, stopping at the end.
func (p *PlaybackState) AdvanceBy(elapsed time.Duration) {
	if !p.Playing {
		return
	}
	p.CurrentTime += elapsed.Seconds() * p.Speed
	if p.CurrentTime >= p.MaxTime {
		p.CurrentTime = p.MaxTime
		p.Playing = false
	}
}

// SetTime seeks, clamped to the recording.
func (p *PlaybackState) SetTime(t float64) {
	p.CurrentTime = math.Max(0, math.Min(t, p.MaxTime))
}

// Tick returns the last whole tick reached.
func (p *PlaybackState) Tick() int {
	return int(math.Floor(p.CurrentTime))
}

// StepForward pauses and jumps to the next whole tick.
func (p *PlaybackState) StepForward() {
	p.Pause()
	p.SetTime(float64(p.Tick() + 1))
}

// StepBack pauses and jumps to the previous whole tick.
func (p *PlaybackState) StepBack() {
	p.Pause()
	t := math.Ceil(p.CurrentTime) - 1
	p.SetTime(t)
}

// SetSpeed sets ticks per second within [MinSpeed, MaxSpeed].
func (p *PlaybackState) SetSpeed(speed float64) {
	p.Speed = math.Max(MinSpeed, math.Min(speed, MaxSpeed))
}

// Progress returns current progress as 0-1.
func (p *PlaybackState) Progress() float64 {
	if p.MaxTime <= 0 {
		return 0
	}
	return p.CurrentTime / p.MaxTime
}
