// Package main generates random scenarios for tacnav benchmarks.
// Output is deterministic for a given seed.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/elektrokombinacija/tacnav/internal/core"
	"github.com/elektrokombinacija/tacnav/internal/sim"
)

// ScenarioParams defines parameters for scenario generation.
type ScenarioParams struct {
	Seed        int64
	Units       int
	Width       int
	Height      int
	WallDensity float64 // Fraction of cells turned into walls
	WorkerRatio float64 // Fraction of units that are workers
	Enemies     int
	Deposits    int
	Rocket      bool // Place a built rocket that soldiers can board
	MaxTicks    int
}

// generator hands out free cells without repeats.
type generator struct {
	rng  *rand.Rand
	free []core.Cell
}

func (g *generator) take() (core.Cell, bool) {
	if len(g.free) == 0 {
		return core.Cell{}, false
	}
	i := g.rng.Intn(len(g.free))
	c := g.free[i]
	g.free[i] = g.free[len(g.free)-1]
	g.free = g.free[:len(g.free)-1]
	return c, true
}

func generateScenario(p ScenarioParams) (*core.Scenario, error) {
	rng := rand.New(rand.NewSource(p.Seed))
	grid := core.NewGrid(p.Width, p.Height)
	gen := &generator{rng: rng}

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			c := core.Cell{X: x, Y: y}
			if rng.Float64() < p.WallDensity {
				grid.SetWall(c)
				continue
			}
			gen.free = append(gen.free, c)
		}
	}

	s := core.NewScenario(grid)
	s.Name = fmt.Sprintf("random_%dx%d_%du_s%d", p.Width, p.Height, p.Units, p.Seed)
	s.MaxTicks = p.MaxTicks

	nextID := core.UnitID(1)
	soldiers := []core.UnitKind{core.Knight, core.Ranger, core.Mage, core.Healer}
	for i := 0; i < p.Units; i++ {
		pos, ok := gen.take()
		if !ok {
			return nil, fmt.Errorf("map too crowded for %d units", p.Units)
		}
		kind := core.Worker
		if rng.Float64() >= p.WorkerRatio {
			kind = soldiers[rng.Intn(len(soldiers))]
		}
		s.Units = append(s.Units, &core.Unit{ID: nextID, Kind: kind, Pos: pos})
		nextID++
	}

	// Structures get ids after the units so unit ids stay dense.
	nextID = 1000
	if pos, ok := gen.take(); ok {
		s.Structures = append(s.Structures, &core.Structure{
			ID: nextID, Kind: core.Factory, Pos: pos, MaxHealth: 300,
		})
		nextID++
	}
	if p.Rocket {
		if pos, ok := gen.take(); ok {
			s.Structures = append(s.Structures, &core.Structure{
				ID: nextID, Kind: core.Rocket, Pos: pos,
				Built: true, Health: 200, MaxHealth: 200, Capacity: 8,
			})
		}
	}

	for i := 0; i < p.Deposits; i++ {
		pos, ok := gen.take()
		if !ok {
			break
		}
		s.Deposits = append(s.Deposits, core.Deposit{Pos: pos, Amount: 10 + rng.Intn(40)})
	}
	for i := 0; i < p.Enemies; i++ {
		pos, ok := gen.take()
		if !ok {
			break
		}
		s.Enemies = append(s.Enemies, pos)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func main() {
	seed := flag.Int64("seed", 42, "Random seed for deterministic generation")
	units := flag.Int("units", 10, "Number of friendly units")
	width := flag.Int("width", 20, "Map width")
	height := flag.Int("height", 20, "Map height")
	walls := flag.Float64("walls", 0.15, "Wall density (0-1)")
	workers := flag.Float64("workers", 0.5, "Fraction of units that are workers")
	enemies := flag.Int("enemies", 3, "Number of enemy units")
	deposits := flag.Int("deposits", 4, "Number of karbonite deposits")
	rocket := flag.Bool("rocket", true, "Place a boardable rocket")
	maxTicks := flag.Int("max-ticks", 0, "Tick limit written into the scenario (0 = simulator default)")
	outputDir := flag.String("output", "testdata", "Output directory")
	scalingMode := flag.Bool("scaling", false, "Generate scaling scenarios (5, 10, 25, 50, 100 units)")

	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	base := ScenarioParams{
		Seed:        *seed,
		Units:       *units,
		Width:       *width,
		Height:      *height,
		WallDensity: *walls,
		WorkerRatio: *workers,
		Enemies:     *enemies,
		Deposits:    *deposits,
		Rocket:      *rocket,
		MaxTicks:    *maxTicks,
	}

	var params []ScenarioParams
	if *scalingMode {
		for _, size := range []int{5, 10, 25, 50, 100} {
			// Map side scales with sqrt of the unit count
			side := int(math.Ceil(math.Sqrt(float64(size)) * 4))
			if side < 10 {
				side = 10
			}
			p := base
			p.Units = size
			p.Width, p.Height = side, side
			p.Deposits = max(2, size/5)
			p.Enemies = max(1, size/10)
			params = append(params, p)
		}
	} else {
		params = append(params, base)
	}

	for _, p := range params {
		s, err := generateScenario(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating %dx%d with %d units: %v\n", p.Width, p.Height, p.Units, err)
			continue
		}
		data, err := sim.EncodeScenario(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding scenario %s: %v\n", s.Name, err)
			continue
		}

		filename := filepath.Join(*outputDir, s.Name+".yaml")
		if err := os.WriteFile(filename, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing scenario %s: %v\n", filename, err)
			continue
		}

		fmt.Printf("Generated: %s (%d units, %d deposits, %d enemies, %dx%d map)\n",
			filename, len(s.Units), len(s.Deposits), len(s.Enemies), p.Width, p.Height)
	}
}
