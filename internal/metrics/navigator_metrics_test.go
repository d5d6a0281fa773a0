package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/tacnav/internal/algo"
	"github.com/elektrokombinacija/tacnav/internal/core"
)

// gathered flattens a registry into "name{label=value}" -> value.
func gathered(t *testing.T, r *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := r.Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestNavigatorCollectorRecords(t *testing.T) {
	r := prometheus.NewRegistry()
	c := NewNavigatorCollector("")
	require.NoError(t, c.RegisterWith(r))

	c.PlanCompleted(algo.PlanFresh, 40)
	c.PlanCompleted(algo.PlanCached, 0)
	c.PlanCompleted(algo.PlanCached, 0)
	c.CacheLookup(true)
	c.CacheLookup(false)
	c.CacheEvicted()
	c.ReservationsHeld(12)
	c.MovesExecuted(3, 1)
	c.AssignmentSolved("workers", 2, 5, 2)

	got := gathered(t, r)
	assert.Equal(t, 1.0, got["tacnav_navigator_plans_total{outcome=fresh}"])
	assert.Equal(t, 2.0, got["tacnav_navigator_plans_total{outcome=cached}"])
	assert.Equal(t, 1.0, got["tacnav_navigator_search_expansions"], "cached plans are not searches")
	assert.Equal(t, 1.0, got["tacnav_navigator_distance_cache_lookups_total{result=hit}"])
	assert.Equal(t, 1.0, got["tacnav_navigator_distance_cache_evictions_total"])
	assert.Equal(t, 12.0, got["tacnav_navigator_reservations"])
	assert.Equal(t, 3.0, got["tacnav_navigator_moves_total{result=issued}"])
	assert.Equal(t, 1.0, got["tacnav_navigator_moves_total{result=rejected}"])
	assert.Equal(t, 1.0, got["tacnav_assignment_solves_total{problem=workers}"])
	assert.Equal(t, 2.0, got["tacnav_assignment_matched_pairs_total{problem=workers}"])
}

func TestRegisterTwiceFails(t *testing.T) {
	r := prometheus.NewRegistry()
	require.NoError(t, NewNavigatorCollector("x").RegisterWith(r))
	assert.Error(t, NewNavigatorCollector("x").RegisterWith(r))
}

func TestRegisterWithoutRegistry(t *testing.T) {
	Registry = nil
	assert.False(t, IsEnabled())
	assert.NoError(t, NewNavigatorCollector("").Register())

	InitRegistry()
	t.Cleanup(func() { Registry = nil })
	assert.True(t, IsEnabled())
	require.NoError(t, NewNavigatorCollector("").Register())
	assert.Same(t, Registry, GetRegistry())
}

// openHost is an empty field with no enemies that accepts every move.
type openHost struct{ grid *core.Grid }

func (h openHost) IsOccupiable(c core.Cell) bool          { return h.grid.IsPassable(c) }
func (openHost) EnemiesWithin(core.Cell, int) []core.Cell { return nil }
func (openHost) Move(core.UnitID, core.Direction) error   { return nil }

func TestCollectorWiredIntoNavigator(t *testing.T) {
	r := prometheus.NewRegistry()
	c := NewNavigatorCollector("")
	require.NoError(t, c.RegisterWith(r))

	g := core.NewGrid(6, 6)
	nav, err := algo.NewNavigator(algo.NewTerrainGraph(g), openHost{g}, algo.DefaultConfig(), nil, c)
	require.NoError(t, err)

	nav.Refresh()
	_, ok := nav.Navigate(core.Unit{ID: 1, Kind: core.Knight, Pos: core.Cell{}, Cooldown: 10}, core.Cell{X: 5, Y: 5})
	require.True(t, ok)
	nav.Execute()

	got := gathered(t, r)
	assert.Equal(t, 1.0, got["tacnav_navigator_plans_total{outcome=fresh}"])
	assert.Equal(t, 1.0, got["tacnav_navigator_moves_total{result=issued}"])
	assert.Greater(t, got["tacnav_navigator_reservations"], 0.0)
}
