// Package sim runs navigator-driven matches against an in-memory world.
//
// Each tick follows the same order:
//   - refresh the navigator
//   - route units with fixed orders, load ready rockets, send idle workers to jobs
//   - execute queued moves and let the world advance
//
// Every tick is recorded as a Frame for replay.
package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/tacnav/internal/algo"
	"github.com/elektrokombinacija/tacnav/internal/core"
)

// SimulationConfig configures a run.
type SimulationConfig struct {
	// Scenario to play
	Scenario *core.Scenario

	// Navigator and allocator tuning
	Navigator  algo.Config
	Allocation algo.AllocationConfig

	// Tick limit when the scenario sets none
	MaxTicks int

	// Optional observers
	Logger   *slog.Logger
	Recorder algo.Recorder
}

// DefaultConfig returns default simulation configuration
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		Navigator:  algo.DefaultConfig(),
		Allocation: algo.DefaultAllocationConfig(),
		MaxTicks:   200,
	}
}

// UnitState is a unit's position in one frame.
type UnitState struct {
	ID   core.UnitID   `json:"id"`
	Kind core.UnitKind `json:"kind"`
	Pos  core.Cell     `json:"pos"`
	Heat int           `json:"heat"`
}

// Frame is the world after one tick.
type Frame struct {
	Tick         int                        `json:"tick"`
	Units        []UnitState                `json:"units"`
	Routes       map[core.UnitID]core.Route `json:"routes,omitempty"`
	Reservations int                        `json:"reservations"`
	Issued       []core.UnitID              `json:"issued,omitempty"`
	Rejected     []core.UnitID              `json:"rejected,omitempty"`
	Boarded      []core.UnitID              `json:"boarded,omitempty"`
}

// Report summarises a run.
type Report struct {
	RunID      string          `json:"run_id"`
	Scenario   string          `json:"scenario"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    time.Time       `json:"end_time"`
	Ticks      int             `json:"ticks"`
	Settled    bool            `json:"settled"`
	Issued     int             `json:"moves_issued"`
	Rejected   int             `json:"moves_rejected"`
	Arrived    int             `json:"arrived"`
	Ordered    int             `json:"ordered"`
	Boarded    int             `json:"boarded"`
	Harvested  int             `json:"harvested"`
	Conflicts  []algo.Conflict `json:"conflicts,omitempty"`
	FinalUnits []UnitState     `json:"final_units"`
}

// Simulator plays a scenario tick by tick.
type Simulator struct {
	mu sync.Mutex

	config SimulationConfig
	log    *slog.Logger
	runID  string

	world *World
	nav   *algo.Navigator
	alloc *algo.Allocator

	initial []UnitState
	frames  []Frame
	report  Report
}

// NewSimulator builds the world, navigator and allocator for a scenario.
func NewSimulator(config SimulationConfig) (*Simulator, error) {
	if config.Scenario == nil {
		return nil, fmt.Errorf("simulation: no scenario")
	}
	if config.Scenario.MaxTicks > 0 {
		config.MaxTicks = config.Scenario.MaxTicks
	}
	if config.MaxTicks <= 0 {
		return nil, fmt.Errorf("simulation: max ticks must be positive, got %d", config.MaxTicks)
	}

	world, err := NewWorld(config.Scenario, config.Navigator.Heat)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := config.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("run_id", runID, "scenario", config.Scenario.Name)

	nav, err := algo.NewNavigator(algo.NewTerrainGraph(world.Grid()), world, config.Navigator, log, config.Recorder)
	if err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}

	sim := &Simulator{
		config: config,
		log:    log,
		runID:  runID,
		world:  world,
		nav:    nav,
		alloc:  algo.NewAllocator(nav, config.Allocation, log, config.Recorder),
		report: Report{
			RunID:    runID,
			Scenario: config.Scenario.Name,
			Ordered:  len(config.Scenario.Goals),
		},
	}
	sim.initial = sim.unitStates()
	return sim, nil
}

// RunID identifies this run in logs and reports.
func (s *Simulator) RunID() string { return s.runID }

// World exposes the simulated match.
func (s *Simulator) World() *World { return s.world }

// Navigator exposes the navigator driving the run.
func (s *Simulator) Navigator() *algo.Navigator { return s.nav }

// Run steps until the tick limit, the world settles or ctx is done.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	var err error
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
			break
		}
		if s.Done() {
			break
		}
		s.Step()
	}

	rep := s.Report()
	s.log.Info("simulation finished",
		"ticks", rep.Ticks,
		"settled", rep.Settled,
		"issued", rep.Issued,
		"rejected", rep.Rejected,
		"arrived", rep.Arrived,
		"conflicts", len(rep.Conflicts))
	return rep, err
}

// Done reports whether the run is over.
func (s *Simulator) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report.Settled || s.world.Tick() >= s.config.MaxTicks
}

// Step plays one tick and returns its frame.
func (s *Simulator) Step() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.report.StartTime.IsZero() {
		s.report.StartTime = time.Now()
	}
	s.nav.Refresh()
	s.dispatch()

	if conflicts := algo.FindConflicts(upcoming(s.nav.Routes(), s.nav.Tick())); len(conflicts) > 0 {
		for _, c := range conflicts {
			s.log.Warn("route conflict", "conflict", c.String())
		}
		s.report.Conflicts = append(s.report.Conflicts, conflicts...)
	}

	boardedBefore := len(s.world.Boarded())
	rep := s.nav.Execute()
	for _, r := range rep.Rejected {
		s.log.Debug("move rejected", "unit", r.Unit, "dir", r.Dir.String(), "err", r.Err)
	}
	worked := s.world.EndTick()

	frame := Frame{
		Tick:         s.world.Tick(),
		Units:        s.unitStates(),
		Routes:       s.nav.Routes(),
		Reservations: s.nav.ReservationCount(),
		Boarded:      append([]core.UnitID(nil), s.world.Boarded()[boardedBefore:]...),
	}
	for _, m := range rep.Issued {
		frame.Issued = append(frame.Issued, m.Unit)
	}
	for _, r := range rep.Rejected {
		frame.Rejected = append(frame.Rejected, r.Unit)
	}
	for _, id := range frame.Boarded {
		s.nav.Forget(id)
	}
	if len(frame.Routes) == 0 {
		frame.Routes = nil
	}
	s.frames = append(s.frames, frame)

	s.report.Ticks = frame.Tick
	s.report.Issued += len(rep.Issued)
	s.report.Rejected += len(rep.Rejected)
	s.report.Settled = len(rep.Issued) == 0 && len(rep.Rejected) == 0 && len(frame.Routes) == 0 && worked == 0
	return frame
}

// dispatch issues this tick's navigate calls.
func (s *Simulator) dispatch() {
	goals := s.config.Scenario.Goals

	var workers, soldiers []core.Unit
	for _, u := range s.world.Units() {
		if goal, ok := goals[u.ID]; ok {
			s.nav.Navigate(u, goal)
			continue
		}
		switch {
		case u.Kind == core.Worker:
			workers = append(workers, u)
		case u.Kind.IsSoldier():
			soldiers = append(soldiers, u)
		}
	}

	boarding := s.alloc.AssignBoarding(workers, soldiers, s.world.Structures()).Boarding()
	var idle []core.Unit
	for _, w := range workers {
		if !boarding[w.ID] {
			idle = append(idle, w)
		}
	}
	s.alloc.AssignWorkers(idle, s.world.Deposits(), s.world.Structures())
}

// upcoming trims routes to their reserved future states. Earlier states
// describe where a unit meant to be, which a stale route may no longer match.
func upcoming(routes map[core.UnitID]core.Route, now int) map[core.UnitID]core.Route {
	out := make(map[core.UnitID]core.Route, len(routes))
	for id, r := range routes {
		for i, st := range r {
			if st.Tick > now {
				out[id] = r[i:]
				break
			}
		}
	}
	return out
}

func (s *Simulator) unitStates() []UnitState {
	units := s.world.Units()
	out := make([]UnitState, len(units))
	for i, u := range units {
		out[i] = UnitState{ID: u.ID, Kind: u.Kind, Pos: u.Pos, Heat: u.Heat}
	}
	return out
}

// Frames returns the recorded trace.
func (s *Simulator) Frames() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.frames...)
}

// Report returns the run summary so far.
func (s *Simulator) Report() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	rep := s.report
	rep.EndTime = time.Now()
	rep.Boarded = len(s.world.Boarded())
	rep.Harvested = s.world.Harvested()
	rep.FinalUnits = s.unitStates()
	rep.Conflicts = append([]algo.Conflict(nil), s.report.Conflicts...)
	rep.Arrived = 0
	for id, goal := range s.config.Scenario.Goals {
		if u, ok := s.world.Unit(id); ok && u.Pos == goal {
			rep.Arrived++
		}
	}
	return &rep
}

// Trace is a replayable recording of a run. Initial holds the units before
// the first tick; Frames[i] is the world after tick i+1.
type Trace struct {
	RunID      string      `json:"run_id"`
	Scenario   string      `json:"scenario"`
	Map        []string    `json:"map"`
	Enemies    []core.Cell `json:"enemies,omitempty"`
	Deposits   []core.Cell `json:"deposits,omitempty"`
	Structures []UnitState `json:"structures,omitempty"`
	Initial    []UnitState `json:"initial"`
	Frames     []Frame     `json:"frames"`
}

// Trace packages the recorded frames with the terrain.
func (s *Simulator) Trace() *Trace {
	t := &Trace{
		RunID:    s.runID,
		Scenario: s.config.Scenario.Name,
		Map:      s.world.Grid().Rows(),
		Enemies:  s.world.Enemies(),
		Initial:  s.initial,
		Frames:   s.Frames(),
	}
	for _, d := range s.config.Scenario.Deposits {
		t.Deposits = append(t.Deposits, d.Pos)
	}
	for _, st := range s.world.Structures() {
		t.Structures = append(t.Structures, UnitState{ID: st.ID, Kind: st.Kind, Pos: st.Pos})
	}
	return t
}

// UnitsAt returns the unit states at tick, 0 being the start of the run.
// Ticks past the recording clamp to the last frame.
func (t *Trace) UnitsAt(tick int) []UnitState {
	if tick <= 0 || len(t.Frames) == 0 {
		return t.Initial
	}
	if tick > len(t.Frames) {
		tick = len(t.Frames)
	}
	return t.Frames[tick-1].Units
}

// Ticks returns the number of recorded ticks.
func (t *Trace) Ticks() int { return len(t.Frames) }

// ExportReport writes the report to a JSON file.
func (s *Simulator) ExportReport(path string) error {
	return writeJSON(path, s.Report())
}

// ExportTrace writes the trace to a JSON file.
func (s *Simulator) ExportTrace(path string) error {
	return writeJSON(path, s.Trace())
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTrace reads a trace written by ExportTrace.
func LoadTrace(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode trace %s: %w", path, err)
	}
	return &t, nil
}

// RunSimulation is a convenience function to run a complete simulation
func RunSimulation(ctx context.Context, config SimulationConfig) (*Report, *Trace, error) {
	sim, err := NewSimulator(config)
	if err != nil {
		return nil, nil, err
	}
	rep, err := sim.Run(ctx)
	return rep, sim.Trace(), err
}
