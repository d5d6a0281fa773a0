// Package main runs tacnav benchmarks: full simulations over generated
// scenarios and the assignment solvers over random cost matrices.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/elektrokombinacija/tacnav/internal/algo"
	"github.com/elektrokombinacija/tacnav/internal/sim"
)

// BenchmarkResult stores results from a single run.
type BenchmarkResult struct {
	Timestamp  string
	CommitHash string
	GoVersion  string
	OS         string
	Arch       string
	Instance   string
	Size       int // Units for simulations, matrix side for assignments
	Runner     string
	RuntimeMs  float64
	Success    bool

	// Simulation
	Ticks     int
	Issued    int
	Rejected  int
	Arrived   int
	Boarded   int
	Harvested int
	Conflicts int

	// Assignment
	Cost int
}

// RunnerMetrics holds per-runner aggregated metrics.
type RunnerMetrics struct {
	Name           string
	TotalRuns      int
	Successes      int
	TotalRuntimeMs float64
	TotalTicks     int
	TotalCost      int
	Conflicts      int
}

const (
	runnerSimulation = "simulation"
)

var assignmentSolvers = []algo.Solver{algo.Hungarian{}, algo.Greedy{}}

func getGitCommit() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

func newResult(instance, runner string, size int) *BenchmarkResult {
	return &BenchmarkResult{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		CommitHash: getGitCommit(),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Instance:   instance,
		Size:       size,
		Runner:     runner,
	}
}

// runSimulation plays one scenario file to completion.
func runSimulation(path string, timeout time.Duration) *BenchmarkResult {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := sim.LoadScenario(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", path, err)
		return newResult(name, runnerSimulation, 0)
	}
	result := newResult(s.Name, runnerSimulation, len(s.Units))

	cfg := sim.DefaultConfig()
	cfg.Scenario = s
	simulator, err := sim.NewSimulator(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing %s: %v\n", s.Name, err)
		return result
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	startTime := time.Now()
	rep, err := simulator.Run(ctx)
	result.RuntimeMs = float64(time.Since(startTime).Microseconds()) / 1000.0

	result.Success = err == nil && len(rep.Conflicts) == 0
	result.Ticks = rep.Ticks
	result.Issued = rep.Issued
	result.Rejected = rep.Rejected
	result.Arrived = rep.Arrived
	result.Boarded = rep.Boarded
	result.Harvested = rep.Harvested
	result.Conflicts = len(rep.Conflicts)
	return result
}

// randomMatrix builds a rows x cols matrix with costs in [0, 1000).
func randomMatrix(rng *rand.Rand, rows, cols int) [][]int {
	m := make([][]int, rows)
	for i := range m {
		m[i] = make([]int, cols)
		for j := range m[i] {
			m[i][j] = rng.Intn(1000)
		}
	}
	return m
}

// runAssignment times a solver on a matrix.
func runAssignment(solver algo.Solver, instance string, matrix [][]int) *BenchmarkResult {
	result := newResult(instance, solver.Name(), len(matrix))

	startTime := time.Now()
	a := solver.Solve(matrix)
	result.RuntimeMs = float64(time.Since(startTime).Microseconds()) / 1000.0

	want := len(matrix)
	if want > 0 && len(matrix[0]) < want {
		want = len(matrix[0])
	}
	result.Success = len(a) == want
	result.Cost = a.Cost(matrix)
	return result
}

func writeCSV(results []*BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"timestamp", "commit_hash", "go_version", "os", "arch",
		"instance", "size", "runner", "runtime_ms", "success",
		"ticks", "issued", "rejected", "arrived", "boarded", "harvested",
		"conflicts", "cost",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Timestamp, r.CommitHash, r.GoVersion, r.OS, r.Arch,
			r.Instance, strconv.Itoa(r.Size), r.Runner,
			fmt.Sprintf("%.3f", r.RuntimeMs), strconv.FormatBool(r.Success),
			strconv.Itoa(r.Ticks), strconv.Itoa(r.Issued), strconv.Itoa(r.Rejected),
			strconv.Itoa(r.Arrived), strconv.Itoa(r.Boarded), strconv.Itoa(r.Harvested),
			strconv.Itoa(r.Conflicts), strconv.Itoa(r.Cost),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func printSummary(results []*BenchmarkResult) {
	metrics := make(map[string]*RunnerMetrics)
	for _, r := range results {
		m, ok := metrics[r.Runner]
		if !ok {
			m = &RunnerMetrics{Name: r.Runner}
			metrics[r.Runner] = m
		}
		m.TotalRuns++
		if r.Success {
			m.Successes++
			m.TotalRuntimeMs += r.RuntimeMs
			m.TotalTicks += r.Ticks
			m.TotalCost += r.Cost
		}
		m.Conflicts += r.Conflicts
	}

	fmt.Println("\n=== BENCHMARK SUMMARY ===")
	fmt.Printf("%-12s %8s %8s %12s %10s %12s %10s\n",
		"Runner", "Runs", "Success", "Avg Time(ms)", "AvgTicks", "TotalCost", "Conflicts")
	fmt.Println(strings.Repeat("-", 78))

	var names []string
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := metrics[name]
		avgTime := 0.0
		avgTicks := 0.0
		if m.Successes > 0 {
			avgTime = m.TotalRuntimeMs / float64(m.Successes)
			avgTicks = float64(m.TotalTicks) / float64(m.Successes)
		}
		fmt.Printf("%-12s %8d %8d %12.2f %10.2f %12d %10d\n",
			m.Name, m.TotalRuns, m.Successes, avgTime, avgTicks, m.TotalCost, m.Conflicts)
	}
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad matrix size %q", f)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func main() {
	inputDir := flag.String("input", "testdata", "Directory containing scenario YAML files")
	outputFile := flag.String("output", "evidence/benchmark_results.csv", "Output CSV file")
	timeout := flag.Duration("timeout", 5*time.Minute, "Timeout per simulation")
	matrixSizes := flag.String("matrix-sizes", "10,50,100,200", "Square matrix sizes for the assignment solvers")
	seed := flag.Int64("seed", 42, "Random seed for cost matrices")
	skipSim := flag.Bool("skip-sim", false, "Skip scenario simulations")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	outputDir := filepath.Dir(*outputFile)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	sizes, err := parseSizes(*matrixSizes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var files []string
	if !*skipSim {
		files, err = filepath.Glob(filepath.Join(*inputDir, "*.yaml"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding scenario files: %v\n", err)
			os.Exit(1)
		}
		if len(files) == 0 {
			fmt.Fprintf(os.Stderr, "No scenario files found in %s\n", *inputDir)
			fmt.Fprintf(os.Stderr, "Run gen_scenarios first: go run ./tools/gen_scenarios -scaling -output testdata\n")
		}
	}

	var results []*BenchmarkResult
	totalRuns := len(files) + len(sizes)*len(assignmentSolvers)
	currentRun := 0
	report := func(r *BenchmarkResult) {
		results = append(results, r)
		if !*verbose {
			return
		}
		if r.Success {
			fmt.Printf("OK (%.2fms, ticks=%d, cost=%d)\n", r.RuntimeMs, r.Ticks, r.Cost)
		} else {
			fmt.Printf("FAILED\n")
		}
	}
	progress := func(label string) {
		currentRun++
		if *verbose {
			fmt.Printf("[%d/%d] %s ... ", currentRun, totalRuns, label)
		} else {
			fmt.Printf("\r[%d/%d] Running...", currentRun, totalRuns)
		}
	}

	fmt.Printf("Running benchmarks: %d scenarios, %d matrices x %d solvers = %d runs\n",
		len(files), len(sizes), len(assignmentSolvers), totalRuns)
	fmt.Printf("Timeout per simulation: %v\n", *timeout)
	fmt.Println()

	for _, file := range files {
		progress(filepath.Base(file))
		report(runSimulation(file, *timeout))
	}

	rng := rand.New(rand.NewSource(*seed))
	for _, n := range sizes {
		matrix := randomMatrix(rng, n, n)
		instance := fmt.Sprintf("matrix_%dx%d", n, n)
		for _, solver := range assignmentSolvers {
			progress(instance + " / " + solver.Name())
			report(runAssignment(solver, instance, matrix))
		}
	}

	fmt.Println()

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results written to: %s\n", *outputFile)

	printSummary(results)
}
