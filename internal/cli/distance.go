package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/tacnav/internal/algo"
	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/sim"
)

func newDistanceCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "distance <scenario.yaml> <x1> <y1> <x2> <y2>",
		Short: "Print the terrain move count between two cells",
		Long: `Print how many king moves separate two cells on the scenario's map,
ignoring units. Walls block; unconnected cells print "unreachable".`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := sim.LoadScenario(args[0])
			if err != nil {
				return err
			}
			coords := make([]int, 4)
			for i, arg := range args[1:] {
				if coords[i], err = strconv.Atoi(arg); err != nil {
					return fmt.Errorf("coordinate %q: %w", arg, err)
				}
			}
			from := core.Cell{X: coords[0], Y: coords[1]}
			to := core.Cell{X: coords[2], Y: coords[3]}
			for _, c := range []core.Cell{from, to} {
				if !scenario.Grid.InBounds(c) {
					return fmt.Errorf("cell %v is outside the %dx%d map", c, scenario.Grid.Width, scenario.Grid.Height)
				}
			}

			cache, err := algo.NewDistanceCache(algo.NewTerrainGraph(scenario.Grid), opts.cfg.Navigator.CacheCapacity, nil)
			if err != nil {
				return err
			}
			d := cache.Distance(from, to)
			if d >= algo.Unreachable {
				fmt.Fprintf(cmd.OutOrStdout(), "%v -> %v: unreachable\n", from, to)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v -> %v: %d moves\n", from, to, d)
			return nil
		},
	}
}
