package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

const bottleneckYAML = `
name: bottleneck
max_ticks: 40
map:
  - "....."
  - "##.##"
  - "....."
units:
  - {id: 1, kind: knight, pos: [1, 0], goal: [1, 2]}
  - {id: 2, kind: knight, pos: [3, 0], goal: [3, 2]}
`

func TestParseScenario(t *testing.T) {
	data := []byte(`
name: depot
map:
  - "......"
  - "..#..."
units:
  - {id: 1, kind: Worker, pos: [0, 0]}
  - {id: 2, kind: ranger, pos: [5, 1], heat: 12, cooldown: 30, goal: [0, 1]}
structures:
  - id: 10
    kind: rocket
    pos: [4, 0]
    built: true
    health: 200
    max_health: 200
    capacity: 4
    garrison:
      - {id: 7, kind: healer, pos: [4, 0]}
deposits:
  - {pos: [1, 1], amount: 20}
enemies: [[3, 1]]
`)
	s, err := ParseScenario(data)
	require.NoError(t, err)

	assert.Equal(t, "depot", s.Name)
	assert.Equal(t, 6, s.Grid.Width)
	assert.False(t, s.Grid.IsPassable(core.Cell{X: 2, Y: 1}))
	require.Len(t, s.Units, 2)
	assert.Equal(t, core.Worker, s.Units[0].Kind)
	assert.Equal(t, 12, s.UnitByID(2).Heat)
	assert.Equal(t, 30, s.UnitByID(2).Cooldown)
	assert.Equal(t, core.Cell{X: 0, Y: 1}, s.Goals[2])

	rocket := s.StructureByID(10)
	require.NotNil(t, rocket)
	assert.Equal(t, 3, rocket.OpenSeats())
	assert.Equal(t, core.Healer, rocket.Garrison[0].Kind)
	assert.Equal(t, []core.Deposit{{Pos: core.Cell{X: 1, Y: 1}, Amount: 20}}, s.Deposits)
	assert.Equal(t, []core.Cell{{X: 3, Y: 1}}, s.Enemies)

	// Encoding then parsing yields the same match.
	out, err := EncodeScenario(s)
	require.NoError(t, err)
	again, err := ParseScenario(out)
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestParseScenarioErrors(t *testing.T) {
	cases := map[string]string{
		"bad yaml":      "map: [",
		"ragged map":    "map: ['...', '..']",
		"unknown kind":  "map: ['...']\nunits: [{id: 1, kind: dragon, pos: [0, 0]}]",
		"unit is fixed": "map: ['...']\nunits: [{id: 1, kind: factory, pos: [0, 0]}]",
		"bad structure": "map: ['...']\nstructures: [{id: 1, kind: knight, pos: [0, 0]}]",
		"on a wall":     "map: ['.#.']\nunits: [{id: 1, kind: knight, pos: [1, 0]}]",
		"stray goal":    "map: ['...']\nunits: [{id: 1, kind: knight, pos: [0, 0], goal: [9, 9]}]",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bottleneck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bottleneckYAML), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, 40, s.MaxTicks)
	assert.Len(t, s.Goals, 2)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseMatrix(t *testing.T) {
	bare, err := ParseMatrix([]byte("- [250, 400, 350]\n- [400, 600, 350]\n- [200, 400, 250]\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{250, 400, 350}, {400, 600, 350}, {200, 400, 250}}, bare)

	keyed, err := ParseMatrix([]byte("matrix:\n  - [1, 2]\n  - [3, 4]\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, keyed)

	_, err = ParseMatrix([]byte("- [1, 2]\n- [3]\n"))
	assert.Error(t, err)

	_, err = ParseMatrix([]byte("matrix: nope"))
	assert.Error(t, err)
}
