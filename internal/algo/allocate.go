package algo

import (
	"log/slog"
	"sort"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

// AllocationConfig holds the per-category cost offsets added to distance.
// Lower offsets win at equal distance.
type AllocationConfig struct {
	KarbonitePriority int
	BuildPriority     int
	RepairPriority    int
	RocketPriority    int
	UnreachableCost   int // Cost of a slot the worker cannot reach
}

// DefaultAllocationConfig prefers construction, then repair, then harvesting.
func DefaultAllocationConfig() AllocationConfig {
	return AllocationConfig{
		KarbonitePriority: 5,
		BuildPriority:     0,
		RepairPriority:    2,
		RocketPriority:    0,
		UnreachableCost:   1 << 20,
	}
}

// SlotCategory is the kind of job a worker slot represents.
type SlotCategory int

const (
	SlotKarbonite SlotCategory = iota // Harvest a deposit
	SlotBuild                         // Build a factory blueprint
	SlotRepair                        // Repair a damaged structure
	SlotRocket                        // Build a rocket blueprint
)

func (c SlotCategory) String() string {
	switch c {
	case SlotKarbonite:
		return "karbonite"
	case SlotBuild:
		return "build"
	case SlotRepair:
		return "repair"
	case SlotRocket:
		return "rocket"
	default:
		return "unknown"
	}
}

// Slot is one matrix column: a cell a worker can be sent to.
type Slot struct {
	Category  SlotCategory
	Cell      core.Cell   // Navigation goal
	Site      core.Cell   // Deposit or structure the slot serves
	Structure core.UnitID // Zero for deposits
}

// WorkerAssignment pairs a worker with a slot.
type WorkerAssignment struct {
	Worker core.UnitID
	Slot   Slot
	Cost   int
	Dir    core.Direction
	Moving bool
}

// BoardingAssignment sends a unit to a transport.
type BoardingAssignment struct {
	Unit      core.UnitID
	Kind      core.UnitKind
	Transport core.UnitID
	Cost      int
	Dir       core.Direction
	Moving    bool
}

// BoardingResult is the outcome of AssignBoarding.
type BoardingResult struct {
	Assignments []BoardingAssignment
}

// Boarding returns the set of units sent to a transport.
func (r BoardingResult) Boarding() map[core.UnitID]bool {
	out := make(map[core.UnitID]bool, len(r.Assignments))
	for _, a := range r.Assignments {
		out[a.Unit] = true
	}
	return out
}

// Allocator builds cost matrices from navigator distances, solves them and
// issues the resulting navigation requests.
type Allocator struct {
	nav    *Navigator
	cfg    AllocationConfig
	solver Solver
	log    *slog.Logger
	rec    Recorder
}

// NewAllocator creates an allocator bound to a navigator.
func NewAllocator(nav *Navigator, cfg AllocationConfig, log *slog.Logger, rec Recorder) *Allocator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if rec == nil {
		rec = NopRecorder{}
	}
	return &Allocator{nav: nav, cfg: cfg, solver: Hungarian{}, log: log, rec: rec}
}

// cost is distance plus offset, or the unreachable cost.
func (a *Allocator) cost(from, to core.Cell, offset int) int {
	d := a.nav.MovesBetween(from, to)
	if d >= Unreachable {
		return a.cfg.UnreachableCost
	}
	return d + offset
}

// WorkerSlots enumerates the columns of the worker matrix: one per deposit,
// then one per free approach cell of each unbuilt factory, damaged
// structure and unbuilt rocket. A damaged structure leaves one approach
// cell unclaimed.
func (a *Allocator) WorkerSlots(deposits []core.Deposit, structures []*core.Structure) []Slot {
	taken := make(map[core.Cell]bool, len(structures))
	for _, s := range structures {
		taken[s.Pos] = true
	}
	approach := func(s *core.Structure) []core.Cell {
		var out []core.Cell
		for _, c := range a.nav.Terrain().Neighbors(s.Pos) {
			if !taken[c] {
				out = append(out, c)
			}
		}
		return out
	}

	var slots []Slot
	for _, d := range deposits {
		if d.Amount <= 0 {
			continue
		}
		slots = append(slots, Slot{Category: SlotKarbonite, Cell: d.Pos, Site: d.Pos})
	}
	add := func(cat SlotCategory, s *core.Structure, cells []core.Cell) {
		for _, c := range cells {
			slots = append(slots, Slot{Category: cat, Cell: c, Site: s.Pos, Structure: s.ID})
		}
	}
	for _, s := range structures {
		if s.Kind == core.Factory && !s.Built {
			add(SlotBuild, s, approach(s))
		}
	}
	for _, s := range structures {
		if s.Damaged() {
			cells := approach(s)
			if len(cells) > 0 {
				cells = cells[:len(cells)-1]
			}
			add(SlotRepair, s, cells)
		}
	}
	for _, s := range structures {
		if s.Kind == core.Rocket && !s.Built {
			add(SlotRocket, s, approach(s))
		}
	}
	return slots
}

func (a *Allocator) priority(c SlotCategory) int {
	switch c {
	case SlotKarbonite:
		return a.cfg.KarbonitePriority
	case SlotBuild:
		return a.cfg.BuildPriority
	case SlotRepair:
		return a.cfg.RepairPriority
	default:
		return a.cfg.RocketPriority
	}
}

// WorkerMatrix builds the worker-by-slot cost matrix.
func (a *Allocator) WorkerMatrix(workers []core.Unit, slots []Slot) [][]int {
	m := make([][]int, len(workers))
	for i, w := range workers {
		m[i] = make([]int, len(slots))
		for j, s := range slots {
			m[i][j] = a.cost(w.Pos, s.Cell, a.priority(s.Category))
		}
	}
	return m
}

// AssignWorkers matches idle workers to jobs and navigates each matched
// worker toward its slot. Unreachable pairings are dropped.
func (a *Allocator) AssignWorkers(workers []core.Unit, deposits []core.Deposit, structures []*core.Structure) []WorkerAssignment {
	slots := a.WorkerSlots(deposits, structures)
	if len(workers) == 0 || len(slots) == 0 {
		a.rec.AssignmentSolved("workers", len(workers), len(slots), 0)
		return nil
	}
	matrix := a.WorkerMatrix(workers, slots)
	assignment := a.solver.Solve(matrix)

	var out []WorkerAssignment
	for _, row := range assignment.Rows() {
		col := assignment[row]
		cost := matrix[row][col]
		if cost >= a.cfg.UnreachableCost {
			continue
		}
		w := workers[row]
		dir, moving := a.nav.Navigate(w, slots[col].Cell)
		out = append(out, WorkerAssignment{Worker: w.ID, Slot: slots[col], Cost: cost, Dir: dir, Moving: moving})
	}
	a.rec.AssignmentSolved("workers", len(workers), len(slots), len(out))
	a.log.Debug("workers assigned", "workers", len(workers), "slots", len(slots), "matched", len(out))
	return out
}

// AssignBoarding loads ready transports. Each transport without a worker
// aboard takes the nearest free worker; the remaining seats go to soldiers
// through a minimum-cost matching on move distance.
func (a *Allocator) AssignBoarding(workers, soldiers []core.Unit, transports []*core.Structure) BoardingResult {
	var ready []*core.Structure
	for _, t := range transports {
		if t.Kind == core.Rocket && t.Built && t.OpenSeats() > 0 {
			ready = append(ready, t)
		}
	}
	var res BoardingResult
	if len(ready) == 0 {
		return res
	}

	// Workers: nearest-first greedy, one per transport.
	withWorker := make(map[core.UnitID]bool)
	var needWorker []*core.Structure
	for _, t := range ready {
		if !t.HasWorkerAboard() {
			needWorker = append(needWorker, t)
		}
	}
	if len(workers) > 0 && len(needWorker) > 0 {
		m := make([][]int, len(workers))
		for i, w := range workers {
			m[i] = make([]int, len(needWorker))
			for j, t := range needWorker {
				m[i][j] = a.cost(w.Pos, t.Pos, 0)
			}
		}
		pairs := Greedy{}.Solve(m)
		for _, row := range pairs.Rows() {
			col := pairs[row]
			if m[row][col] >= a.cfg.UnreachableCost {
				continue
			}
			withWorker[needWorker[col].ID] = true
			res.Assignments = append(res.Assignments, a.board(workers[row], needWorker[col], m[row][col]))
		}
		a.rec.AssignmentSolved("boarding_workers", len(workers), len(needWorker), len(withWorker))
	}

	// Soldiers: one column per remaining seat.
	var seats []*core.Structure
	for _, t := range ready {
		n := t.OpenSeats()
		if withWorker[t.ID] {
			n--
		}
		for k := 0; k < n; k++ {
			seats = append(seats, t)
		}
	}
	if len(soldiers) == 0 || len(seats) == 0 {
		return res
	}
	m := make([][]int, len(soldiers))
	for i, s := range soldiers {
		m[i] = make([]int, len(seats))
		for j, t := range seats {
			m[i][j] = a.cost(s.Pos, t.Pos, 0)
		}
	}
	assignment := a.solver.Solve(m)
	matched := 0
	for _, row := range assignment.Rows() {
		col := assignment[row]
		if m[row][col] >= a.cfg.UnreachableCost {
			continue
		}
		matched++
		res.Assignments = append(res.Assignments, a.board(soldiers[row], seats[col], m[row][col]))
	}
	a.rec.AssignmentSolved("boarding_soldiers", len(soldiers), len(seats), matched)
	a.log.Debug("boarding assigned", "transports", len(ready), "workers", len(withWorker), "soldiers", matched)
	return res
}

func (a *Allocator) board(u core.Unit, t *core.Structure, cost int) BoardingAssignment {
	dir, moving := a.nav.Navigate(u, t.Pos)
	return BoardingAssignment{Unit: u.ID, Kind: u.Kind, Transport: t.ID, Cost: cost, Dir: dir, Moving: moving}
}

// Greedy assigns each column in order to its cheapest free row. It is the
// nearest-first approximation used where optimality matters little.
type Greedy struct{}

// Name returns the algorithm name.
func (Greedy) Name() string { return "greedy" }

// Solve returns min(rows, cols) pairs chosen column by column. A ragged
// matrix yields an empty assignment.
func (Greedy) Solve(matrix [][]int) core.Assignment {
	out := make(core.Assignment)
	if len(matrix) == 0 || len(matrix[0]) == 0 || ValidateMatrix(matrix) != nil {
		return out
	}
	used := make([]bool, len(matrix))
	for col := 0; col < len(matrix[0]) && len(out) < len(matrix); col++ {
		best := -1
		for row := range matrix {
			if used[row] {
				continue
			}
			if best < 0 || matrix[row][col] < matrix[best][col] {
				best = row
			}
		}
		used[best] = true
		out[best] = col
	}
	return out
}

// SortSlots orders slots by category then cell, for stable display.
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Category != slots[j].Category {
			return slots[i].Category < slots[j].Category
		}
		return slots[i].Cell.Less(slots[j].Cell)
	})
}
