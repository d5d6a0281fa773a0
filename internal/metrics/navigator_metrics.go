package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/elektrokombinacija/tacnav/internal/algo"
)

// NavigatorCollector records navigator and assignment events. It
// implements algo.Recorder.
type NavigatorCollector struct {
	// Planning
	plansTotal *prometheus.CounterVec
	expansions prometheus.Histogram

	// Distance cache
	cacheLookups   *prometheus.CounterVec
	cacheEvictions prometheus.Counter

	// Reservations and moves
	reservations prometheus.Gauge
	movesTotal   *prometheus.CounterVec

	// Assignment
	assignmentsTotal *prometheus.CounterVec
	matchedPairs     *prometheus.CounterVec
}

var _ algo.Recorder = (*NavigatorCollector)(nil)

// NewNavigatorCollector creates a collector under the given namespace.
func NewNavigatorCollector(namespace string) *NavigatorCollector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &NavigatorCollector{
		plansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plans_total",
				Help:      "Navigate calls by how the direction was produced",
			},
			[]string{"outcome"},
		),

		expansions: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "search_expansions",
				Help:      "States expanded per space-time search",
				Buckets:   prometheus.ExponentialBuckets(4, 4, 7),
			},
		),

		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "distance_cache_lookups_total",
				Help:      "Distance field lookups by result",
			},
			[]string{"result"},
		),

		cacheEvictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "distance_cache_evictions_total",
				Help:      "Distance fields evicted from the cache",
			},
		),

		reservations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reservations",
				Help:      "Space-time cells currently reserved",
			},
		),

		movesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "moves_total",
				Help:      "Queued moves sent to the host by result",
			},
			[]string{"result"},
		),

		assignmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "assignment",
				Name:      "solves_total",
				Help:      "Assignment problems solved",
			},
			[]string{"problem"},
		),

		matchedPairs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "assignment",
				Name:      "matched_pairs_total",
				Help:      "Rows matched to a column across all solves",
			},
			[]string{"problem"},
		),
	}
}

// Register registers all navigator metrics with the Prometheus registry
func (c *NavigatorCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}
	return c.RegisterWith(Registry)
}

// RegisterWith registers the collectors with r.
func (c *NavigatorCollector) RegisterWith(r prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		c.plansTotal,
		c.expansions,
		c.cacheLookups,
		c.cacheEvictions,
		c.reservations,
		c.movesTotal,
		c.assignmentsTotal,
		c.matchedPairs,
	}
	for _, m := range collectors {
		if err := r.Register(m); err != nil {
			return fmt.Errorf("failed to register navigator metric: %w", err)
		}
	}
	return nil
}

// PlanCompleted records a navigate outcome and, for searches, its size.
func (c *NavigatorCollector) PlanCompleted(outcome algo.PlanOutcome, expansions int) {
	c.plansTotal.WithLabelValues(string(outcome)).Inc()
	if expansions > 0 {
		c.expansions.Observe(float64(expansions))
	}
}

// CacheLookup records a distance field hit or miss.
func (c *NavigatorCollector) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// CacheEvicted records one evicted field.
func (c *NavigatorCollector) CacheEvicted() {
	c.cacheEvictions.Inc()
}

// ReservationsHeld sets the reservation gauge.
func (c *NavigatorCollector) ReservationsHeld(n int) {
	c.reservations.Set(float64(n))
}

// MovesExecuted records one Execute call.
func (c *NavigatorCollector) MovesExecuted(issued, rejected int) {
	c.movesTotal.WithLabelValues("issued").Add(float64(issued))
	c.movesTotal.WithLabelValues("rejected").Add(float64(rejected))
}

// AssignmentSolved records one solve of the named problem.
func (c *NavigatorCollector) AssignmentSolved(problem string, _, _, matched int) {
	c.assignmentsTotal.WithLabelValues(problem).Inc()
	c.matchedPairs.WithLabelValues(problem).Add(float64(matched))
}
