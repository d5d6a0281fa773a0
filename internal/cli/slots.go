package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/tacnav/internal/algo"
	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/sim"
)

func newSlotsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "slots <scenario.yaml>",
		Short: "List worker job slots and the opening assignment",
		Long: `List every job slot a worker could be sent to at the start of a
scenario (deposits, blueprints, damaged structures) and which worker the
minimum-cost assignment sends to each.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := sim.LoadScenario(args[0])
			if err != nil {
				return err
			}
			world, err := sim.NewWorld(scenario, opts.cfg.Navigator.Algo().Heat)
			if err != nil {
				return err
			}
			nav, err := algo.NewNavigator(algo.NewTerrainGraph(world.Grid()), world, opts.cfg.Navigator.Algo(), opts.log, nil)
			if err != nil {
				return err
			}
			alloc := algo.NewAllocator(nav, opts.cfg.Allocation.Algo(), opts.log, nil)

			slots := alloc.WorkerSlots(world.Deposits(), world.Structures())
			algo.SortSlots(slots)

			var workers []core.Unit
			for _, u := range world.Units() {
				if u.Kind == core.Worker {
					workers = append(workers, u)
				}
			}
			nav.Refresh()
			takenBy := make(map[algo.Slot]core.UnitID)
			for _, a := range alloc.AssignWorkers(workers, world.Deposits(), world.Structures()) {
				takenBy[a.Slot] = a.Worker
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tCELL\tSITE\tWORKER")
			for _, s := range slots {
				worker := "-"
				if id, ok := takenBy[s]; ok {
					worker = fmt.Sprint(id)
				}
				fmt.Fprintf(w, "%s\t%v\t%v\t%s\n", s.Category, s.Cell, s.Site, worker)
			}
			return w.Flush()
		},
	}
}
