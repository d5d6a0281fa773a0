package config

import (
	"github.com/elektrokombinacija/tacnav/internal/algo"
	"github.com/elektrokombinacija/tacnav/internal/core"
)

// NavigatorConfig tunes path planning.
type NavigatorConfig struct {
	// Ticks searched beyond the current tick
	SearchDepth int `mapstructure:"search_depth" validate:"min=1"`

	// Ticks a cached route stays live; may not exceed the search depth
	ExpireTime int `mapstructure:"expire_time" validate:"min=1,ltefield=SearchDepth"`

	// Heat at or above which a unit cannot move
	MaxHeat int `mapstructure:"max_heat" validate:"min=1"`

	// Heat shed every tick
	HeatDecay int `mapstructure:"heat_decay" validate:"min=1"`

	// Distance fields kept resident
	CacheCapacity int `mapstructure:"cache_capacity" validate:"min=1"`

	// Minimum squared radius of the per-tick enemy snapshot around the map
	// centre; the snapshot always covers the whole map
	EnemySenseRadiusSq int `mapstructure:"enemy_sense_radius_sq" validate:"min=0"`
}

// Algo converts the section into navigator tuning.
func (c NavigatorConfig) Algo() algo.Config {
	return algo.Config{
		SearchDepth:        c.SearchDepth,
		ExpireTime:         c.ExpireTime,
		Heat:               core.HeatModel{MaxHeat: c.MaxHeat, Decay: c.HeatDecay},
		CacheCapacity:      c.CacheCapacity,
		EnemySenseRadiusSq: c.EnemySenseRadiusSq,
	}
}

// AllocationConfig holds the per-category cost offsets for worker jobs.
type AllocationConfig struct {
	KarbonitePriority int `mapstructure:"karbonite_priority" validate:"min=0"`
	BuildPriority     int `mapstructure:"build_priority" validate:"min=0"`
	RepairPriority    int `mapstructure:"repair_priority" validate:"min=0"`
	RocketPriority    int `mapstructure:"rocket_priority" validate:"min=0"`
	UnreachableCost   int `mapstructure:"unreachable_cost" validate:"min=1"`
}

// Algo converts the section into allocator tuning.
func (c AllocationConfig) Algo() algo.AllocationConfig {
	return algo.AllocationConfig{
		KarbonitePriority: c.KarbonitePriority,
		BuildPriority:     c.BuildPriority,
		RepairPriority:    c.RepairPriority,
		RocketPriority:    c.RocketPriority,
		UnreachableCost:   c.UnreachableCost,
	}
}

// SimConfig holds simulation limits.
type SimConfig struct {
	// Ticks simulated when a scenario sets no limit
	MaxTicks int `mapstructure:"max_ticks" validate:"min=1"`
}

// MetricsConfig holds metrics collection configuration
type MetricsConfig struct {
	// Enabled controls whether collectors are registered
	Enabled bool `mapstructure:"enabled"`

	// Namespace prefixes every metric name
	Namespace string `mapstructure:"namespace" validate:"omitempty,alphanum"`
}
