package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/tacnav/internal/config"
)

func newConfigCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect tacnav configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (TACNAV_* prefix)
2. Config file (tacnav.yaml)
3. Default values`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(configView(opts.cfg))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "List the environment variables that override settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range config.Keys() {
				name := config.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, key)
			}
			return nil
		},
	})

	return cmd
}

// configView mirrors the dotted key layout of the config file.
func configView(cfg *config.Config) map[string]map[string]any {
	return map[string]map[string]any{
		"navigator": {
			"search_depth":          cfg.Navigator.SearchDepth,
			"expire_time":           cfg.Navigator.ExpireTime,
			"max_heat":              cfg.Navigator.MaxHeat,
			"heat_decay":            cfg.Navigator.HeatDecay,
			"cache_capacity":        cfg.Navigator.CacheCapacity,
			"enemy_sense_radius_sq": cfg.Navigator.EnemySenseRadiusSq,
		},
		"allocation": {
			"karbonite_priority": cfg.Allocation.KarbonitePriority,
			"build_priority":     cfg.Allocation.BuildPriority,
			"repair_priority":    cfg.Allocation.RepairPriority,
			"rocket_priority":    cfg.Allocation.RocketPriority,
			"unreachable_cost":   cfg.Allocation.UnreachableCost,
		},
		"logging": {
			"level":  cfg.Logging.Level,
			"format": cfg.Logging.Format,
		},
		"metrics": {
			"enabled":   cfg.Metrics.Enabled,
			"namespace": cfg.Metrics.Namespace,
		},
		"sim": {
			"max_ticks": cfg.Sim.MaxTicks,
		},
	}
}
