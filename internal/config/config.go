// Package config loads tacnav settings from defaults, an optional YAML
// file, a .env file and TACNAV_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Navigator  NavigatorConfig  `mapstructure:"navigator"`
	Allocation AllocationConfig `mapstructure:"allocation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Sim        SimConfig        `mapstructure:"sim"`
}

// EnvPrefix is prepended to every environment override, e.g.
// TACNAV_NAVIGATOR_SEARCH_DEPTH.
const EnvPrefix = "TACNAV"

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (tacnav.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("tacnav")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	registerDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// bindEnv registers every key so AutomaticEnv sees variables for keys
// absent from the config file.
func bindEnv(v *viper.Viper) {
	for _, key := range Keys() {
		_ = v.BindEnv(key)
	}
}

// Keys lists every configuration key in dotted form.
func Keys() []string {
	return []string{
		"navigator.search_depth",
		"navigator.expire_time",
		"navigator.max_heat",
		"navigator.heat_decay",
		"navigator.cache_capacity",
		"navigator.enemy_sense_radius_sq",
		"allocation.karbonite_priority",
		"allocation.build_priority",
		"allocation.repair_priority",
		"allocation.rocket_priority",
		"allocation.unreachable_cost",
		"logging.level",
		"logging.format",
		"metrics.enabled",
		"metrics.namespace",
		"sim.max_ticks",
	}
}

// Default returns a configuration holding only defaults.
func Default() *Config {
	v := viper.New()
	registerDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		cfg = &Config{}
	}
	SetDefaults(cfg)
	return cfg
}

// LoadConfigOrDefault loads configuration or returns a default config on error
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default()
	}
	return cfg
}
