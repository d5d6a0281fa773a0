package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/tacnav/internal/algo"
	"github.com/elektrokombinacija/tacnav/internal/sim"
)

func newAssignCommand(opts *options) *cobra.Command {
	var greedy bool

	cmd := &cobra.Command{
		Use:   "assign <matrix.yaml>",
		Short: "Solve a minimum-cost assignment over a cost matrix",
		Long: `Read a cost matrix (a YAML list of rows, or a "matrix" key holding
one) and print the row-to-column pairs of minimum total cost.

Example matrix.yaml:
  - [400, 150, 400]
  - [400, 450, 600]
  - [300, 225, 300]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matrix, err := sim.LoadMatrix(args[0])
			if err != nil {
				return err
			}

			var solver algo.Solver = algo.Hungarian{}
			if greedy {
				solver = algo.Greedy{}
			}
			result := solver.Solve(matrix)
			opts.log.Debug("assignment solved", "solver", solver.Name(), "rows", len(matrix), "pairs", len(result))

			out := cmd.OutOrStdout()
			for _, row := range result.Rows() {
				col := result[row]
				fmt.Fprintf(out, "row %d -> column %d (cost %d)\n", row, col, matrix[row][col])
			}
			fmt.Fprintf(out, "total %d (%s)\n", result.Cost(matrix), solver.Name())
			return nil
		},
	}

	cmd.Flags().BoolVar(&greedy, "greedy", false, "Use the greedy baseline instead of the Hungarian method")
	return cmd
}
