package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

func TestNavigateOpenDiagonal(t *testing.T) {
	h := newTestHost(t, openRows(5, 5)...)
	u := h.add(1, 0, 0)
	nav := newTestNavigator(t, h, nil)
	nav.Refresh()

	goal := core.Cell{X: 4, Y: 4}
	assert.Equal(t, 4, nav.MovesBetween(u.Pos, goal))

	dir, ok := nav.Navigate(*u, goal)
	require.True(t, ok)
	assert.Equal(t, core.Northeast, dir)

	route, ok := nav.Route(1)
	require.True(t, ok)
	assert.Len(t, route, 5)
	assert.Equal(t, 4, route.Moves())
	assert.Equal(t, goal, route.Last().Cell)
	assert.True(t, route.Contiguous())
	for i, s := range route {
		assert.Equal(t, core.Cell{X: i, Y: i}, s.Cell)
		assert.Equal(t, nav.Tick()+i, s.Tick)
	}
}

func TestNavigateAtGoalIsNoop(t *testing.T) {
	h := newTestHost(t, openRows(3, 3)...)
	u := h.add(1, 1, 1)
	nav := newTestNavigator(t, h, nil)
	nav.Refresh()

	dir, ok := nav.Navigate(*u, u.Pos)
	assert.False(t, ok)
	assert.Equal(t, core.Center, dir)
	assert.Empty(t, nav.Queued())
}

func TestNavigateIdempotentWithinTick(t *testing.T) {
	h := newTestHost(t, openRows(6, 6)...)
	u := h.add(1, 0, 0)
	nav := newTestNavigator(t, h, nil)
	nav.Refresh()

	goal := core.Cell{X: 5, Y: 2}
	dir1, ok1 := nav.Navigate(*u, goal)
	held := len(nav.Reservations()[1])
	dir2, ok2 := nav.Navigate(*u, goal)

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, dir1, dir2)
	assert.Len(t, nav.Queued(), 1)
	assert.Equal(t, held, len(nav.Reservations()[1]))
}

func TestNavigateBottleneckSingleReservation(t *testing.T) {
	h := newTestHost(t,
		".....",
		"##.##",
		".....",
	)
	a := h.add(1, 1, 0)
	b := h.add(2, 3, 0)
	nav := newTestNavigator(t, h, nil)
	nav.Refresh()

	gap := core.Cell{X: 2, Y: 1}
	next := nav.Tick() + 1

	dirA, okA := nav.Navigate(*a, core.Cell{X: 1, Y: 2})
	require.True(t, okA)
	assert.Equal(t, core.Northeast, dirA)

	_, _ = nav.Navigate(*b, core.Cell{X: 3, Y: 2})

	owner, ok := nav.ReservedBy(gap, next)
	require.True(t, ok)
	assert.Equal(t, core.UnitID(1), owner)

	routeB, ok := nav.Route(2)
	require.True(t, ok)
	pos, ok := positionAt(routeB, next)
	require.True(t, ok)
	assert.NotEqual(t, gap, pos)
	assert.Equal(t, core.Cell{X: 3, Y: 2}, routeB.Last().Cell)

	assert.Empty(t, FindConflicts(nav.Routes()))
}

func TestNavigateHeatForcesWaits(t *testing.T) {
	h := newTestHost(t, openRows(5, 5)...)
	u := h.add(1, 0, 0)
	u.Cooldown = 20
	nav := newTestNavigator(t, h, nil)
	nav.Refresh()

	goal := core.Cell{X: 4, Y: 4}
	dir, ok := nav.Navigate(*u, goal)
	require.True(t, ok)
	assert.Equal(t, core.Northeast, dir)

	route, ok := nav.Route(1)
	require.True(t, ok)
	assert.Equal(t, goal, route.Last().Cell)
	assert.Equal(t, 4, route.Moves())
	assert.Len(t, route, 8)
	assert.Equal(t, 10, route[1].Heat)

	heat := core.DefaultHeatModel()
	for i := 1; i < len(route); i++ {
		if route[i].Cell != route[i-1].Cell {
			assert.True(t, heat.CanMove(route[i-1].Heat), "move at tick %d while hot", route[i-1].Tick)
		}
	}
}

func TestNavigateAvoidsEnemies(t *testing.T) {
	h := newTestHost(t, openRows(3, 3)...)
	u := h.add(1, 0, 1)
	h.enemies = []core.Cell{{X: 1, Y: 1}}
	nav := newTestNavigator(t, h, nil)
	nav.Refresh()
	require.Equal(t, []core.Cell{{X: 1, Y: 1}}, nav.Enemies())

	_, ok := nav.Navigate(*u, core.Cell{X: 2, Y: 1})
	require.True(t, ok)

	route, _ := nav.Route(1)
	for _, s := range route {
		assert.NotEqual(t, core.Cell{X: 1, Y: 1}, s.Cell)
	}
	assert.Equal(t, 2, route.Moves())
}

func TestRefreshSeesEnemiesAcrossWideMap(t *testing.T) {
	h := newTestHost(t, openRows(70, 1)...)
	u := h.add(1, 58, 0)
	h.enemies = []core.Cell{{X: 60, Y: 0}, {X: 69, Y: 0}}
	nav := newTestNavigator(t, h, nil)
	nav.Refresh()
	require.Equal(t, h.enemies, nav.Enemies())

	nav.Navigate(*u, core.Cell{X: 65, Y: 0})
	route, _ := nav.Route(1)
	for _, s := range route {
		assert.NotEqual(t, core.Cell{X: 60, Y: 0}, s.Cell, "tick %d", s.Tick)
	}
}

func TestNavigateDetoursFarEnemy(t *testing.T) {
	h := newTestHost(t, openRows(80, 3)...)
	u := h.add(1, 60, 1)
	enemy := core.Cell{X: 62, Y: 1}
	h.enemies = []core.Cell{enemy}

	cfg := DefaultConfig()
	cfg.EnemySenseRadiusSq = 0
	nav, err := NewNavigator(NewTerrainGraph(h.grid), h, cfg, nil, nil)
	require.NoError(t, err)
	nav.Refresh()
	require.Equal(t, []core.Cell{enemy}, nav.Enemies())

	goal := core.Cell{X: 64, Y: 1}
	_, ok := nav.Navigate(*u, goal)
	require.True(t, ok)
	route, _ := nav.Route(1)
	assert.Equal(t, goal, route.Last().Cell)
	assert.Equal(t, 4, route.Moves())
	for _, s := range route {
		assert.NotEqual(t, enemy, s.Cell)
	}
}

func TestSenseAreaCoversMap(t *testing.T) {
	h := newTestHost(t, openRows(70, 1)...)
	cfg := DefaultConfig()
	cfg.EnemySenseRadiusSq = 0
	nav, err := NewNavigator(NewTerrainGraph(h.grid), h, cfg, nil, nil)
	require.NoError(t, err)

	center, radiusSq := nav.senseArea()
	assert.Equal(t, core.Cell{X: 35, Y: 0}, center)
	for _, corner := range []core.Cell{{X: 0, Y: 0}, {X: 69, Y: 0}} {
		assert.LessOrEqual(t, corner.DistanceSq(center), radiusSq)
	}

	nav.cfg.EnemySenseRadiusSq = 5000
	_, radiusSq = nav.senseArea()
	assert.Equal(t, 5000, radiusSq)
}

func TestNavigateFallbackStaysAtStart(t *testing.T) {
	h := newTestHost(t, "....")
	u := h.add(1, 0, 0)
	h.enemies = []core.Cell{{X: 1, Y: 0}}
	rec := newCountingRecorder()
	nav := newTestNavigator(t, h, rec)
	nav.Refresh()

	// Another unit owns the start cell two ticks out, so waiting runs dry too.
	start := core.Cell{X: 0, Y: 0}
	require.True(t, nav.reserved.Reserve(2, start, nav.Tick()+2))

	goal := core.Cell{X: 3, Y: 0}
	res := spaceTimeAStar(searchRequest{
		unit:     *u,
		goal:     goal,
		now:      nav.Tick(),
		depth:    nav.cfg.SearchDepth,
		heat:     nav.cfg.Heat,
		terrain:  nav.terrain,
		field:    nav.cache.Field(goal),
		reserved: nav.reserved,
		enemies:  nav.enemies,
	})
	assert.True(t, res.fallback)
	assert.False(t, res.reached)
	assert.Equal(t, 2, res.expansions)
	assert.Equal(t, core.Route{{Cell: start, Tick: nav.Tick()}}, res.route)

	dir, ok := nav.Navigate(*u, goal)
	assert.False(t, ok)
	assert.Equal(t, core.Center, dir)
	assert.Empty(t, nav.Queued())
	_, live := nav.Route(1)
	assert.False(t, live)
	assert.Empty(t, nav.Reservations()[1])
	assert.Equal(t, 1, rec.outcomes[PlanStay])
	assert.Zero(t, rec.outcomes[PlanFallback])
}

func TestNavigateFallbackReservesBestState(t *testing.T) {
	h := newTestHost(t, "......")
	u := h.add(1, 0, 0)
	h.enemies = []core.Cell{{X: 3, Y: 0}}
	rec := newCountingRecorder()
	nav := newTestNavigator(t, h, rec)
	nav.Refresh()

	now := nav.Tick()
	for x := 0; x < 3; x++ {
		require.True(t, nav.reserved.Reserve(2, core.Cell{X: x, Y: 0}, now+3))
	}

	dir, ok := nav.Navigate(*u, core.Cell{X: 5, Y: 0})
	require.True(t, ok)
	assert.Equal(t, core.East, dir)
	assert.Equal(t, 1, rec.outcomes[PlanFallback])

	route, live := nav.Route(1)
	require.True(t, live)
	want := []core.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	require.Len(t, route, len(want))
	for i, s := range route {
		assert.Equal(t, want[i], s.Cell)
		assert.Equal(t, now+i, s.Tick)
	}
	owner, held := nav.ReservedBy(core.Cell{X: 2, Y: 0}, now+2)
	assert.True(t, held)
	assert.Equal(t, core.UnitID(1), owner)
}

func TestBetterFallbackOrder(t *testing.T) {
	node := func(h, tick, x, y, heat int) astarNode {
		return astarNode{h: h, state: SpaceTimeState{Cell: core.Cell{X: x, Y: y}, Tick: tick, Heat: heat}}
	}
	tests := []struct {
		name string
		a, b astarNode
	}{
		{"lower heuristic", node(2, 9, 9, 9, 9), node(3, 0, 0, 0, 0)},
		{"earlier tick", node(3, 1, 5, 5, 0), node(3, 2, 0, 0, 0)},
		{"lower row", node(3, 1, 5, 0, 0), node(3, 1, 0, 1, 0)},
		{"lower column", node(3, 1, 0, 1, 0), node(3, 1, 1, 1, 0)},
		{"cooler", node(3, 1, 1, 1, 0), node(3, 1, 1, 1, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, betterFallback(tt.a, tt.b))
			assert.False(t, betterFallback(tt.b, tt.a))
		})
	}
}

func TestNavigateUnreachableGoal(t *testing.T) {
	h := newTestHost(t,
		"..#..",
		"..#..",
	)
	u := h.add(1, 0, 0)
	rec := newCountingRecorder()
	nav := newTestNavigator(t, h, rec)
	nav.Refresh()

	goal := core.Cell{X: 4, Y: 1}
	assert.Equal(t, Unreachable, nav.MovesBetween(u.Pos, goal))

	dir, ok := nav.Navigate(*u, goal)
	assert.False(t, ok)
	assert.Equal(t, core.Center, dir)
	_, live := nav.Route(1)
	assert.False(t, live)
	assert.Equal(t, 1, rec.outcomes[PlanStay])
}

func TestNavigateFollowsCachedRoute(t *testing.T) {
	h := newTestHost(t, openRows(8, 1)...)
	u := h.add(1, 0, 0)
	rec := newCountingRecorder()
	nav := newTestNavigator(t, h, rec)
	goal := core.Cell{X: 7, Y: 0}

	for step := 1; step <= 3; step++ {
		nav.Refresh()
		dir, ok := nav.Navigate(*u, goal)
		require.True(t, ok)
		assert.Equal(t, core.East, dir)
		rep := nav.Execute()
		require.Empty(t, rep.Rejected)
		assert.Equal(t, core.Cell{X: step, Y: 0}, u.Pos)
	}

	assert.Equal(t, 1, rec.outcomes[PlanFresh])
	assert.Equal(t, 2, rec.outcomes[PlanCached])

	// Consumed states are released.
	for _, s := range nav.Reservations()[1] {
		assert.GreaterOrEqual(t, s.Tick, nav.Tick())
	}
}

func TestNavigateGoalChangeReleasesRoute(t *testing.T) {
	h := newTestHost(t, openRows(6, 6)...)
	u := h.add(1, 0, 0)
	nav := newTestNavigator(t, h, nil)
	nav.Refresh()

	_, ok := nav.Navigate(*u, core.Cell{X: 5, Y: 0})
	require.True(t, ok)
	dir, ok := nav.Navigate(*u, core.Cell{X: 0, Y: 5})
	require.True(t, ok)
	assert.Equal(t, core.North, dir)

	goal, _ := nav.Goal(1)
	assert.Equal(t, core.Cell{X: 0, Y: 5}, goal)
	require.Len(t, nav.Queued(), 1)
	assert.Equal(t, core.North, nav.Queued()[0].Dir)
	for _, s := range nav.Reservations()[1] {
		assert.Equal(t, 0, s.Cell.X, "stale reservation %v", s)
	}
}

func TestRefreshExpiresRoutes(t *testing.T) {
	h := newTestHost(t, openRows(20, 1)...)
	u := h.add(1, 0, 0)
	cfg := DefaultConfig()
	cfg.ExpireTime = 2
	nav, err := NewNavigator(NewTerrainGraph(h.grid), h, cfg, nil, nil)
	require.NoError(t, err)

	nav.Refresh()
	_, ok := nav.Navigate(*u, core.Cell{X: 19, Y: 0})
	require.True(t, ok)

	nav.Refresh()
	_, live := nav.Route(1)
	assert.True(t, live)

	nav.Refresh()
	_, live = nav.Route(1)
	assert.False(t, live)
	assert.Empty(t, nav.Reservations())
}

func TestExecuteRejectionTearsDown(t *testing.T) {
	h := newTestHost(t, openRows(5, 5)...)
	u := h.add(1, 0, 0)
	h.reject[1] = true
	rec := newCountingRecorder()
	nav := newTestNavigator(t, h, rec)
	nav.Refresh()

	_, ok := nav.Navigate(*u, core.Cell{X: 4, Y: 4})
	require.True(t, ok)

	rep := nav.Execute()
	require.Len(t, rep.Rejected, 1)
	assert.ErrorIs(t, rep.Rejected[0].Err, errRejected)
	assert.Empty(t, rep.Issued)
	assert.Equal(t, 1, rec.rejected)

	_, live := nav.Route(1)
	assert.False(t, live)
	assert.Empty(t, nav.Reservations())
	assert.Empty(t, nav.Queued())
}

func TestExecuteOrderFollowsVacatedCells(t *testing.T) {
	h := newTestHost(t, openRows(4, 1)...)
	a := h.add(1, 0, 0)
	b := h.add(2, 1, 0)
	nav := newTestNavigator(t, h, nil)
	nav.Refresh()

	dirB, okB := nav.Navigate(*b, core.Cell{X: 3, Y: 0})
	require.True(t, okB)
	assert.Equal(t, core.East, dirB)

	// (1,0) is occupied, but B leaves it earlier in the same tick.
	dirA, okA := nav.Navigate(*a, core.Cell{X: 2, Y: 0})
	require.True(t, okA)
	assert.Equal(t, core.East, dirA)

	rep := nav.Execute()
	assert.Empty(t, rep.Rejected)
	assert.Equal(t, []core.UnitID{2, 1}, h.issued)
	assert.Equal(t, core.Cell{X: 1, Y: 0}, a.Pos)
	assert.Equal(t, core.Cell{X: 2, Y: 0}, b.Pos)
}

func TestNavigateWaitsBehindStationaryUnit(t *testing.T) {
	h := newTestHost(t, openRows(4, 1)...)
	a := h.add(1, 0, 0)
	h.add(2, 1, 0)
	nav := newTestNavigator(t, h, nil)
	nav.Refresh()

	dir, ok := nav.Navigate(*a, core.Cell{X: 3, Y: 0})
	assert.False(t, ok)
	assert.Equal(t, core.Center, dir)
	assert.Empty(t, nav.Queued())
}

func TestNewNavigatorRejectsBadConfig(t *testing.T) {
	h := newTestHost(t, openRows(2, 2)...)
	terrain := NewTerrainGraph(h.grid)

	cfg := DefaultConfig()
	cfg.SearchDepth = 0
	_, err := NewNavigator(terrain, h, cfg, nil, nil)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.CacheCapacity = 0
	_, err = NewNavigator(terrain, h, cfg, nil, nil)
	assert.Error(t, err)
}
