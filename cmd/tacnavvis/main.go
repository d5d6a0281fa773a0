// Command tacnavvis replays a recorded simulation trace in a window.
package main

import (
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/tacnav/internal/config"
	"github.com/elektrokombinacija/tacnav/internal/sim"
	"github.com/elektrokombinacija/tacnav/internal/vis"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "tacnavvis <trace.json>",
		Short: "Replay a trace written by tacnav run --trace",
		Long: `Replay a recorded run. Space plays and pauses, the arrow keys step
and change speed, Home and End jump, R toggles routes, F refits the map.
Click a unit to show only its route; right-drag pans and scrolling zooms.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrDefault(configPath)
			trace, err := sim.LoadTrace(args[0])
			if err != nil {
				return err
			}
			viewer, err := vis.NewApp(trace, cfg.Navigator.MaxHeat)
			if err != nil {
				return err
			}

			go func() {
				window := new(app.Window)
				window.Option(
					app.Title(fmt.Sprintf("tacnav replay: %s", trace.Scenario)),
					app.Size(unit.Dp(1400), unit.Dp(900)),
				)
				if err := viewer.Run(window); err != nil {
					log.Fatal(err)
				}
				os.Exit(0)
			}()
			app.Main()
			return nil
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
