package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/tacnav/internal/algo"
	"github.com/elektrokombinacija/tacnav/internal/metrics"
	"github.com/elektrokombinacija/tacnav/internal/sim"
	"github.com/elektrokombinacija/tacnav/internal/tui"
)

func newRunCommand(opts *options) *cobra.Command {
	var (
		watch       bool
		delay       time.Duration
		tracePath   string
		reportPath  string
		maxTicks    int
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Simulate a scenario until it settles",
		Long: `Load a YAML scenario and play it tick by tick: units with goals
navigate to them, ready rockets load nearby units and idle workers are
sent to deposits and construction sites.

With --watch the match is drawn in the terminal (q to quit, space to
pause, n to step while paused).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := sim.LoadScenario(args[0])
			if err != nil {
				return err
			}

			cfg := sim.SimulationConfig{
				Scenario:   scenario,
				Navigator:  opts.cfg.Navigator.Algo(),
				Allocation: opts.cfg.Allocation.Algo(),
				MaxTicks:   opts.cfg.Sim.MaxTicks,
				Logger:     opts.log,
			}
			if maxTicks > 0 {
				cfg.MaxTicks = maxTicks
				scenario.MaxTicks = 0
			}

			if opts.cfg.Metrics.Enabled || metricsAddr != "" {
				rec, err := startMetrics(opts, metricsAddr)
				if err != nil {
					return err
				}
				cfg.Recorder = rec
			}

			simulator, err := sim.NewSimulator(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var rep *sim.Report
			if watch {
				rep, err = watchRun(ctx, simulator, delay, cfg.Navigator.Heat.MaxHeat)
			} else {
				rep, err = simulator.Run(ctx)
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			printReport(cmd.OutOrStdout(), rep)

			if tracePath != "" {
				if err := simulator.ExportTrace(tracePath); err != nil {
					return fmt.Errorf("write trace: %w", err)
				}
				opts.log.Info("trace written", "path", tracePath)
			}
			if reportPath != "" {
				if err := simulator.ExportReport(reportPath); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				opts.log.Info("report written", "path", reportPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Draw the match in the terminal")
	cmd.Flags().DurationVar(&delay, "delay", 200*time.Millisecond, "Time between ticks with --watch")
	cmd.Flags().StringVar(&tracePath, "trace", "", "Write a replay trace (JSON) for tacnavvis")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write the run report (JSON)")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "Override the tick limit")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	return cmd
}

// startMetrics registers a navigator collector and, given an address,
// serves the registry over HTTP for the life of the process.
func startMetrics(opts *options, addr string) (algo.Recorder, error) {
	metrics.InitRegistry()
	collector := metrics.NewNavigatorCollector(opts.cfg.Metrics.Namespace)
	if err := collector.Register(); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	if addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				opts.log.Error("metrics server stopped", "addr", addr, "error", err)
			}
		}()
		opts.log.Info("serving metrics", "addr", addr)
	}
	return collector, nil
}

func watchRun(ctx context.Context, s *sim.Simulator, delay time.Duration, maxHeat int) (*sim.Report, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	defer screen.Fini()

	w := tui.NewWatcher(screen, s, delay, maxHeat)
	w.HoldOnDone = true
	return w.Run(ctx)
}

func printReport(out io.Writer, rep *sim.Report) {
	status := "tick limit reached"
	if rep.Settled {
		status = "settled"
	}
	fmt.Fprintf(out, "Run %s (%s)\n", rep.RunID, rep.Scenario)
	fmt.Fprintf(out, "  ticks:     %d (%s)\n", rep.Ticks, status)
	fmt.Fprintf(out, "  moves:     %d issued, %d rejected\n", rep.Issued, rep.Rejected)
	fmt.Fprintf(out, "  arrived:   %d of %d\n", rep.Arrived, rep.Ordered)
	fmt.Fprintf(out, "  boarded:   %d\n", rep.Boarded)
	fmt.Fprintf(out, "  harvested: %d\n", rep.Harvested)
	fmt.Fprintf(out, "  conflicts: %d\n", len(rep.Conflicts))
	for _, c := range rep.Conflicts {
		fmt.Fprintf(out, "    %s\n", c)
	}
}
