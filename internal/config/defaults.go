package config

import "github.com/spf13/viper"

// defaultValues are registered with viper before any file or environment
// is read, so an explicit zero in either source still wins.
var defaultValues = map[string]any{
	"navigator.search_depth":          16,
	"navigator.expire_time":           8,
	"navigator.max_heat":              10,
	"navigator.cache_capacity":        64,
	"navigator.enemy_sense_radius_sq": 2500,
	"allocation.karbonite_priority":   5,
	"allocation.build_priority":       0,
	"allocation.repair_priority":      2,
	"allocation.rocket_priority":      0,
	"allocation.unreachable_cost":     1 << 20,
	"logging.level":                   "info",
	"logging.format":                  "text",
	"metrics.enabled":                 false,
	"metrics.namespace":               "tacnav",
	"sim.max_ticks":                   200,
}

// registerDefaults seeds viper with the default of every fixed key.
func registerDefaults(v *viper.Viper) {
	for key, value := range defaultValues {
		v.SetDefault(key, value)
	}
}

// SetDefaults fills fields left unset after unmarshalling. Only fields
// where zero is invalid are touched; heat decay follows max heat.
func SetDefaults(cfg *Config) {
	if cfg.Navigator.SearchDepth == 0 {
		cfg.Navigator.SearchDepth = 16
	}
	if cfg.Navigator.ExpireTime == 0 {
		cfg.Navigator.ExpireTime = 8
	}
	if cfg.Navigator.MaxHeat == 0 {
		cfg.Navigator.MaxHeat = 10
	}
	if cfg.Navigator.HeatDecay == 0 {
		cfg.Navigator.HeatDecay = cfg.Navigator.MaxHeat
	}
	if cfg.Navigator.CacheCapacity == 0 {
		cfg.Navigator.CacheCapacity = 64
	}
	if cfg.Allocation.UnreachableCost == 0 {
		cfg.Allocation.UnreachableCost = 1 << 20
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "tacnav"
	}

	if cfg.Sim.MaxTicks == 0 {
		cfg.Sim.MaxTicks = 200
	}
}
