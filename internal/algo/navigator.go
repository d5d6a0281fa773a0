package algo

import (
	"fmt"
	"log/slog"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

// Config tunes the navigator.
type Config struct {
	SearchDepth        int // Ticks searched beyond the current tick
	ExpireTime         int // Ticks a cached route stays live
	Heat               core.HeatModel
	CacheCapacity      int // Distance fields kept resident
	EnemySenseRadiusSq int // Minimum squared radius of the enemy snapshot; the map is always covered
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		SearchDepth:        16,
		ExpireTime:         8,
		Heat:               core.DefaultHeatModel(),
		CacheCapacity:      64,
		EnemySenseRadiusSq: 2500,
	}
}

// Host is the game the navigator plans against.
type Host interface {
	// IsOccupiable reports whether a unit could step onto c right now.
	IsOccupiable(c core.Cell) bool
	// EnemiesWithin lists hostile unit positions around center.
	EnemiesWithin(center core.Cell, radiusSq int) []core.Cell
	// Move issues a move; a non-nil error means the host rejected it.
	Move(id core.UnitID, dir core.Direction) error
}

// target is a unit's standing order and its reserved route.
type target struct {
	goal    core.Cell
	expires int
	route   core.Route
}

// QueuedMove is a direction waiting for Execute.
type QueuedMove struct {
	Unit core.UnitID
	From core.Cell
	Dir  core.Direction
	Goal core.Cell
}

// To returns the destination cell.
func (m QueuedMove) To() core.Cell { return m.From.Add(m.Dir) }

// RejectedMove is a queued move the host refused.
type RejectedMove struct {
	QueuedMove
	Err error
}

// ExecuteReport summarizes one Execute call.
type ExecuteReport struct {
	Tick     int
	Issued   []QueuedMove
	Rejected []RejectedMove
}

// Navigator plans collision-free moves for many units, one tick at a time.
// It is not safe for concurrent use; all mutation goes through Refresh,
// Navigate, Execute and Forget.
type Navigator struct {
	cfg      Config
	host     Host
	terrain  *TerrainGraph
	cache    *DistanceCache
	reserved *ReservationTable
	targets  map[core.UnitID]*target
	enemies  map[core.Cell]bool
	tick     int

	queue   []QueuedMove
	queued  map[core.UnitID]int       // Unit -> queue index
	vacated map[core.Cell]core.UnitID // Cells left by queued moves
	claimed map[core.Cell]core.UnitID // Destinations of queued moves

	log *slog.Logger
	rec Recorder
}

// NewNavigator creates a navigator over a terrain graph.
// A nil logger or recorder disables that output.
func NewNavigator(t *TerrainGraph, host Host, cfg Config, log *slog.Logger, rec Recorder) (*Navigator, error) {
	if cfg.SearchDepth <= 0 {
		return nil, fmt.Errorf("search depth must be positive, got %d", cfg.SearchDepth)
	}
	if cfg.ExpireTime <= 0 {
		return nil, fmt.Errorf("expire time must be positive, got %d", cfg.ExpireTime)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if rec == nil {
		rec = NopRecorder{}
	}
	cache, err := NewDistanceCache(t, cfg.CacheCapacity, rec)
	if err != nil {
		return nil, err
	}
	n := &Navigator{
		cfg:      cfg,
		host:     host,
		terrain:  t,
		cache:    cache,
		reserved: NewReservationTable(),
		targets:  make(map[core.UnitID]*target),
		enemies:  make(map[core.Cell]bool),
		log:      log,
		rec:      rec,
	}
	n.resetQueue()
	return n, nil
}

func (n *Navigator) resetQueue() {
	n.queue = n.queue[:0]
	n.queued = make(map[core.UnitID]int)
	n.vacated = make(map[core.Cell]core.UnitID)
	n.claimed = make(map[core.Cell]core.UnitID)
}

// Tick returns the current tick.
func (n *Navigator) Tick() int { return n.tick }

// Terrain returns the terrain graph.
func (n *Navigator) Terrain() *TerrainGraph { return n.terrain }

// Cache returns the distance cache.
func (n *Navigator) Cache() *DistanceCache { return n.cache }

// Refresh advances the tick, snapshots enemies and expires stale routes.
func (n *Navigator) Refresh() {
	n.tick++
	n.resetQueue()

	n.enemies = make(map[core.Cell]bool)
	center, radiusSq := n.senseArea()
	for _, e := range n.host.EnemiesWithin(center, radiusSq) {
		n.enemies[e] = true
	}

	for _, id := range sortedUnitIDs(n.targets) {
		t := n.targets[id]
		t.expires--
		if t.expires <= 0 {
			n.log.Debug("route expired", "unit", id, "goal", t.goal, "tick", n.tick)
			n.teardown(id)
		}
	}
	n.reserved.ReleaseBefore(n.tick)
	n.rec.ReservationsHeld(n.reserved.Len())
}

// senseArea returns the enemy query centred on the map, wide enough to
// reach every corner.
func (n *Navigator) senseArea() (core.Cell, int) {
	g := n.terrain.Grid()
	center := core.Cell{X: g.Width / 2, Y: g.Height / 2}
	dx := max(center.X, g.Width-1-center.X)
	dy := max(center.Y, g.Height-1-center.Y)
	return center, max(dx*dx+dy*dy, n.cfg.EnemySenseRadiusSq)
}

// MovesBetween returns the move count from a to b, or Unreachable.
func (n *Navigator) MovesBetween(a, b core.Cell) int {
	return n.cache.Distance(a, b)
}

// Navigate queues the next step of u toward goal and returns its direction.
// ok is false when the unit should not move this tick. Repeated calls in
// the same tick return the same answer.
func (n *Navigator) Navigate(u core.Unit, goal core.Cell) (core.Direction, bool) {
	if u.Pos == goal {
		if _, ok := n.targets[u.ID]; ok {
			n.teardown(u.ID)
		}
		return core.Center, false
	}

	if qi, ok := n.queued[u.ID]; ok {
		if m := n.queue[qi]; m.Goal == goal && m.From == u.Pos {
			return m.Dir, true
		}
		n.unqueue(u.ID)
	}

	if t, ok := n.targets[u.ID]; ok {
		if t.goal == goal {
			if dir, moving, ok := n.consume(u, t); ok {
				n.rec.PlanCompleted(PlanCached, 0)
				return dir, moving
			}
			n.log.Debug("cached route invalid, replanning", "unit", u.ID, "goal", goal, "tick", n.tick)
		}
		n.teardown(u.ID)
	}

	return n.plan(u, goal)
}

// consume follows a live route. ok is false when the route no longer fits.
func (n *Navigator) consume(u core.Unit, t *target) (core.Direction, bool, bool) {
	i := t.route.IndexAt(u.Pos, n.tick)
	if i < 0 || i+1 >= len(t.route) {
		return core.Center, false, false
	}
	next := t.route[i+1]
	if next.Cell != u.Pos {
		if !n.cfg.Heat.CanMove(u.Heat) || n.enemies[next.Cell] || !n.enterable(u, next.Cell) {
			return core.Center, false, false
		}
	}

	for _, s := range t.route[:i] {
		n.reserved.Release(u.ID, s.Cell, s.Tick)
	}
	t.route = t.route[i:]

	if next.Cell == u.Pos {
		return core.Center, false, true
	}
	dir, _ := core.DirectionTo(u.Pos, next.Cell)
	n.enqueue(u.ID, u.Pos, dir, t.goal)
	return dir, true, true
}

// plan runs a fresh search and stores the route.
func (n *Navigator) plan(u core.Unit, goal core.Cell) (core.Direction, bool) {
	if n.cache.Distance(u.Pos, goal) >= Unreachable {
		n.log.Debug("goal unreachable", "unit", u.ID, "from", u.Pos, "goal", goal)
		n.rec.PlanCompleted(PlanStay, 0)
		return core.Center, false
	}

	res := spaceTimeAStar(searchRequest{
		unit:     u,
		goal:     goal,
		now:      n.tick,
		depth:    n.cfg.SearchDepth,
		heat:     n.cfg.Heat,
		terrain:  n.terrain,
		field:    n.cache.Field(goal),
		reserved: n.reserved,
		enemies:  n.enemies,
		enterable: func(c core.Cell) bool {
			return n.enterable(u, c)
		},
	})

	if len(res.route) < 2 {
		n.log.Debug("no progress possible", "unit", u.ID, "from", u.Pos, "goal", goal, "expansions", res.expansions)
		n.rec.PlanCompleted(PlanStay, res.expansions)
		return core.Center, false
	}

	// The start state is where the unit already stands; only future states are claimed.
	if !n.reserved.ReserveRoute(u.ID, res.route[1:]) {
		// The search prunes reserved states, so this is a bookkeeping bug.
		n.log.Warn("route collides with reservations", "unit", u.ID, "goal", goal)
		n.rec.PlanCompleted(PlanStay, res.expansions)
		return core.Center, false
	}
	n.targets[u.ID] = &target{goal: goal, expires: n.cfg.ExpireTime, route: res.route}
	n.rec.ReservationsHeld(n.reserved.Len())

	outcome := PlanFresh
	if res.fallback {
		outcome = PlanFallback
		n.log.Debug("search exhausted, using best explored state",
			"unit", u.ID, "goal", goal, "reached", res.route.Last().Cell, "expansions", res.expansions)
	}
	n.rec.PlanCompleted(outcome, res.expansions)

	next := res.route[1].Cell
	if next == u.Pos {
		return core.Center, false
	}
	dir, _ := core.DirectionTo(u.Pos, next)
	n.enqueue(u.ID, u.Pos, dir, goal)
	return dir, true
}

// enterable reports whether u could step onto c this tick given the moves
// already queued.
func (n *Navigator) enterable(u core.Unit, c core.Cell) bool {
	if owner, ok := n.claimed[c]; ok && owner != u.ID {
		return false
	}
	if n.host.IsOccupiable(c) {
		return true
	}
	// Free once the unit standing there moves, unless it moves onto us.
	leaver, ok := n.vacated[c]
	if !ok || leaver == u.ID {
		return false
	}
	return n.queue[n.queued[leaver]].To() != u.Pos
}

func (n *Navigator) enqueue(id core.UnitID, from core.Cell, dir core.Direction, goal core.Cell) {
	m := QueuedMove{Unit: id, From: from, Dir: dir, Goal: goal}
	n.queued[id] = len(n.queue)
	n.queue = append(n.queue, m)
	n.vacated[from] = id
	n.claimed[m.To()] = id
}

func (n *Navigator) unqueue(id core.UnitID) {
	qi, ok := n.queued[id]
	if !ok {
		return
	}
	m := n.queue[qi]
	n.queue = append(n.queue[:qi], n.queue[qi+1:]...)
	delete(n.queued, id)
	delete(n.vacated, m.From)
	delete(n.claimed, m.To())
	for i := qi; i < len(n.queue); i++ {
		n.queued[n.queue[i].Unit] = i
	}
}

// teardown drops a unit's route, reservations and queued move.
func (n *Navigator) teardown(id core.UnitID) {
	if t, ok := n.targets[id]; ok {
		n.reserved.ReleaseRoute(id, t.route)
		delete(n.targets, id)
	}
	n.unqueue(id)
}

// Forget drops everything held for a unit, e.g. after it boards or dies.
func (n *Navigator) Forget(id core.UnitID) {
	n.teardown(id)
	n.rec.ReservationsHeld(n.reserved.Len())
}

// Queued returns the moves waiting for Execute, in issue order.
func (n *Navigator) Queued() []QueuedMove {
	out := make([]QueuedMove, len(n.queue))
	copy(out, n.queue)
	return out
}

// Execute issues queued moves in the order they were queued. A rejected
// move tears down that unit's route so it replans next tick.
func (n *Navigator) Execute() ExecuteReport {
	rep := ExecuteReport{Tick: n.tick}
	queue := n.Queued()
	for _, m := range queue {
		if err := n.host.Move(m.Unit, m.Dir); err != nil {
			n.log.Debug("move rejected", "unit", m.Unit, "from", m.From, "dir", m.Dir, "err", err)
			rep.Rejected = append(rep.Rejected, RejectedMove{QueuedMove: m, Err: err})
			if t, ok := n.targets[m.Unit]; ok {
				n.reserved.ReleaseRoute(m.Unit, t.route)
				delete(n.targets, m.Unit)
			}
			continue
		}
		rep.Issued = append(rep.Issued, m)
	}
	n.resetQueue()
	n.rec.MovesExecuted(len(rep.Issued), len(rep.Rejected))
	n.rec.ReservationsHeld(n.reserved.Len())
	return rep
}

// Route returns the live route of a unit.
func (n *Navigator) Route(id core.UnitID) (core.Route, bool) {
	t, ok := n.targets[id]
	if !ok {
		return nil, false
	}
	out := make(core.Route, len(t.route))
	copy(out, t.route)
	return out, true
}

// Routes returns copies of all live routes.
func (n *Navigator) Routes() map[core.UnitID]core.Route {
	out := make(map[core.UnitID]core.Route, len(n.targets))
	for id := range n.targets {
		out[id], _ = n.Route(id)
	}
	return out
}

// Goal returns the standing goal of a unit.
func (n *Navigator) Goal(id core.UnitID) (core.Cell, bool) {
	t, ok := n.targets[id]
	if !ok {
		return core.Cell{}, false
	}
	return t.goal, true
}

// ReservedBy returns the unit holding (c, tick).
func (n *Navigator) ReservedBy(c core.Cell, tick int) (core.UnitID, bool) {
	return n.reserved.Owner(c, tick)
}

// Reservations snapshots the reservation table by owner.
func (n *Navigator) Reservations() map[core.UnitID][]core.TimedCell {
	return n.reserved.Snapshot()
}

// ReservationCount returns the number of reserved (cell, tick) pairs.
func (n *Navigator) ReservationCount() int { return n.reserved.Len() }

// Enemies returns the current enemy snapshot.
func (n *Navigator) Enemies() []core.Cell {
	out := make([]core.Cell, 0, len(n.enemies))
	for c := range n.enemies {
		out = append(out, c)
	}
	sortCells(out)
	return out
}
