package sim

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/tacnav/internal/algo"
	"github.com/elektrokombinacija/tacnav/internal/core"
)

// cellSpec is a cell written as [x, y].
type cellSpec [2]int

func (c cellSpec) cell() core.Cell { return core.Cell{X: c[0], Y: c[1]} }

func specOf(c core.Cell) cellSpec { return cellSpec{c.X, c.Y} }

type unitSpec struct {
	ID       int       `yaml:"id"`
	Kind     string    `yaml:"kind"`
	Pos      cellSpec  `yaml:"pos,flow"`
	Heat     int       `yaml:"heat,omitempty"`
	Cooldown int       `yaml:"cooldown,omitempty"`
	Goal     *cellSpec `yaml:"goal,omitempty,flow"`
}

type structureSpec struct {
	ID        int        `yaml:"id"`
	Kind      string     `yaml:"kind"`
	Pos       cellSpec   `yaml:"pos,flow"`
	Built     bool       `yaml:"built"`
	Health    int        `yaml:"health"`
	MaxHealth int        `yaml:"max_health"`
	Capacity  int        `yaml:"capacity,omitempty"`
	Garrison  []unitSpec `yaml:"garrison,omitempty"`
}

type depositSpec struct {
	Pos    cellSpec `yaml:"pos,flow"`
	Amount int      `yaml:"amount"`
}

// scenarioFile is the YAML layout of a scenario.
type scenarioFile struct {
	Name       string          `yaml:"name"`
	MaxTicks   int             `yaml:"max_ticks,omitempty"`
	Map        []string        `yaml:"map"`
	Units      []unitSpec      `yaml:"units"`
	Structures []structureSpec `yaml:"structures,omitempty"`
	Deposits   []depositSpec   `yaml:"deposits,omitempty"`
	Enemies    []cellSpec      `yaml:"enemies,omitempty,flow"`
}

func (u unitSpec) unit() (core.Unit, error) {
	kind, ok := core.ParseUnitKind(u.Kind)
	if !ok {
		return core.Unit{}, fmt.Errorf("unit %d: unknown kind %q", u.ID, u.Kind)
	}
	return core.Unit{
		ID:       core.UnitID(u.ID),
		Kind:     kind,
		Pos:      u.Pos.cell(),
		Heat:     u.Heat,
		Cooldown: u.Cooldown,
	}, nil
}

// ParseScenario decodes a YAML scenario and validates it.
func ParseScenario(data []byte) (*core.Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	g, err := core.ParseGrid(f.Map)
	if err != nil {
		return nil, fmt.Errorf("scenario %q map: %w", f.Name, err)
	}

	s := core.NewScenario(g)
	s.Name = f.Name
	s.MaxTicks = f.MaxTicks
	for _, us := range f.Units {
		u, err := us.unit()
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", f.Name, err)
		}
		if u.Kind.IsStructure() {
			return nil, fmt.Errorf("scenario %q: unit %d is a %v, list it under structures", f.Name, u.ID, u.Kind)
		}
		s.Units = append(s.Units, &u)
		if us.Goal != nil {
			s.Goals[u.ID] = us.Goal.cell()
		}
	}
	for _, ss := range f.Structures {
		kind, ok := core.ParseUnitKind(ss.Kind)
		if !ok || !kind.IsStructure() {
			return nil, fmt.Errorf("scenario %q: structure %d has kind %q", f.Name, ss.ID, ss.Kind)
		}
		st := &core.Structure{
			ID:        core.UnitID(ss.ID),
			Kind:      kind,
			Pos:       ss.Pos.cell(),
			Built:     ss.Built,
			Health:    ss.Health,
			MaxHealth: ss.MaxHealth,
			Capacity:  ss.Capacity,
		}
		for _, gs := range ss.Garrison {
			u, err := gs.unit()
			if err != nil {
				return nil, fmt.Errorf("scenario %q structure %d: %w", f.Name, ss.ID, err)
			}
			st.Garrison = append(st.Garrison, u)
		}
		s.Structures = append(s.Structures, st)
	}
	for _, d := range f.Deposits {
		s.Deposits = append(s.Deposits, core.Deposit{Pos: d.Pos.cell(), Amount: d.Amount})
	}
	for _, e := range f.Enemies {
		s.Enemies = append(s.Enemies, e.cell())
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", f.Name, err)
	}
	return s, nil
}

// LoadScenario reads a YAML scenario file.
func LoadScenario(path string) (*core.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// EncodeScenario renders a scenario as YAML that ParseScenario accepts.
func EncodeScenario(s *core.Scenario) ([]byte, error) {
	f := scenarioFile{
		Name:     s.Name,
		MaxTicks: s.MaxTicks,
		Map:      s.Grid.Rows(),
	}
	for _, u := range s.Units {
		us := unitSpecOf(*u)
		if goal, ok := s.Goals[u.ID]; ok {
			g := specOf(goal)
			us.Goal = &g
		}
		f.Units = append(f.Units, us)
	}
	sort.Slice(f.Units, func(i, j int) bool { return f.Units[i].ID < f.Units[j].ID })
	for _, st := range s.Structures {
		ss := structureSpec{
			ID:        int(st.ID),
			Kind:      st.Kind.String(),
			Pos:       specOf(st.Pos),
			Built:     st.Built,
			Health:    st.Health,
			MaxHealth: st.MaxHealth,
			Capacity:  st.Capacity,
		}
		for _, g := range st.Garrison {
			ss.Garrison = append(ss.Garrison, unitSpecOf(g))
		}
		f.Structures = append(f.Structures, ss)
	}
	for _, d := range s.Deposits {
		f.Deposits = append(f.Deposits, depositSpec{Pos: specOf(d.Pos), Amount: d.Amount})
	}
	for _, e := range s.Enemies {
		f.Enemies = append(f.Enemies, specOf(e))
	}
	return yaml.Marshal(&f)
}

func unitSpecOf(u core.Unit) unitSpec {
	return unitSpec{
		ID:       int(u.ID),
		Kind:     u.Kind.String(),
		Pos:      specOf(u.Pos),
		Heat:     u.Heat,
		Cooldown: u.Cooldown,
	}
}

// matrixFile is the YAML layout of a cost matrix.
type matrixFile struct {
	Matrix [][]int `yaml:"matrix"`
}

// ParseMatrix decodes a cost matrix, either bare rows or under a
// "matrix" key, and rejects ragged input.
func ParseMatrix(data []byte) ([][]int, error) {
	var rows [][]int
	if err := yaml.Unmarshal(data, &rows); err != nil {
		var f matrixFile
		if err2 := yaml.Unmarshal(data, &f); err2 != nil {
			return nil, fmt.Errorf("decode matrix: %w", err)
		}
		rows = f.Matrix
	}
	if err := algo.ValidateMatrix(rows); err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}
	return rows, nil
}

// LoadMatrix reads a YAML cost matrix file.
func LoadMatrix(path string) ([][]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read matrix: %w", err)
	}
	return ParseMatrix(data)
}
