// Package cli implements the tacnav command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/tacnav/internal/config"
)

// options carries global flags and the loaded configuration to subcommands.
type options struct {
	configPath string
	verbose    bool

	cfg *config.Config
	log *slog.Logger
}

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "tacnav",
		Short: "Collision-aware navigation and job assignment for grid units",
		Long: `tacnav plans routes for a team of units on a grid, reserving
space-time so that no two units collide, and assigns workers and soldiers
to jobs and transports with a minimum-cost matching.

Examples:
  tacnav run scenarios/bottleneck.yaml
  tacnav run scenarios/harvest.yaml --watch --delay 150ms
  tacnav run scenarios/boarding.yaml --trace out/trace.json --report out/report.json
  tacnav distance scenarios/maze.yaml 0 0 7 4
  tacnav slots scenarios/harvest.yaml
  tacnav assign scenarios/costs.yaml --greedy
  tacnav config show`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to config file (default: ./tacnav.yaml or ./configs/tacnav.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(newRunCommand(opts))
	rootCmd.AddCommand(newDistanceCommand(opts))
	rootCmd.AddCommand(newSlotsCommand(opts))
	rootCmd.AddCommand(newAssignCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))

	return rootCmd
}

func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	o.cfg = cfg
	o.log = cfg.Logging.NewLogger(cmd.ErrOrStderr())
	return nil
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
