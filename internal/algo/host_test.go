package algo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

var errRejected = errors.New("rejected")

// testHost is a minimal in-memory game for navigator tests.
type testHost struct {
	grid    *core.Grid
	units   map[core.UnitID]*core.Unit
	enemies []core.Cell
	reject  map[core.UnitID]bool
	issued  []core.UnitID
}

func newTestHost(t *testing.T, rows ...string) *testHost {
	t.Helper()
	g, err := core.ParseGrid(rows)
	require.NoError(t, err)
	return &testHost{
		grid:   g,
		units:  make(map[core.UnitID]*core.Unit),
		reject: make(map[core.UnitID]bool),
	}
}

func (h *testHost) add(id core.UnitID, x, y int) *core.Unit {
	u := &core.Unit{ID: id, Kind: core.Knight, Pos: core.Cell{X: x, Y: y}, Cooldown: 10}
	h.units[id] = u
	return u
}

func (h *testHost) occupant(c core.Cell) (core.UnitID, bool) {
	for id, u := range h.units {
		if u.Pos == c {
			return id, true
		}
	}
	return 0, false
}

func (h *testHost) IsOccupiable(c core.Cell) bool {
	if !h.grid.IsPassable(c) {
		return false
	}
	_, taken := h.occupant(c)
	return !taken
}

func (h *testHost) EnemiesWithin(center core.Cell, radiusSq int) []core.Cell {
	var out []core.Cell
	for _, e := range h.enemies {
		if e.DistanceSq(center) <= radiusSq {
			out = append(out, e)
		}
	}
	return out
}

func (h *testHost) Move(id core.UnitID, dir core.Direction) error {
	u, ok := h.units[id]
	if !ok {
		return fmt.Errorf("unit %d: unknown", id)
	}
	if h.reject[id] {
		return errRejected
	}
	to := u.Pos.Add(dir)
	if !h.IsOccupiable(to) {
		return fmt.Errorf("unit %d: %v blocked", id, to)
	}
	u.Pos = to
	h.issued = append(h.issued, id)
	return nil
}

// countingRecorder tallies navigator events.
type countingRecorder struct {
	NopRecorder
	outcomes  map[PlanOutcome]int
	hits      int
	misses    int
	evictions int
	rejected  int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{outcomes: make(map[PlanOutcome]int)}
}

func (r *countingRecorder) PlanCompleted(o PlanOutcome, _ int) { r.outcomes[o]++ }
func (r *countingRecorder) CacheEvicted()                      { r.evictions++ }
func (r *countingRecorder) MovesExecuted(_, rejected int)      { r.rejected += rejected }
func (r *countingRecorder) CacheLookup(hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func newTestNavigator(t *testing.T, h *testHost, rec Recorder) *Navigator {
	t.Helper()
	nav, err := NewNavigator(NewTerrainGraph(h.grid), h, DefaultConfig(), nil, rec)
	require.NoError(t, err)
	return nav
}

func openRows(w, h int) []string {
	rows := make([]string, h)
	for y := range rows {
		b := make([]byte, w)
		for x := range b {
			b[x] = '.'
		}
		rows[y] = string(b)
	}
	return rows
}
