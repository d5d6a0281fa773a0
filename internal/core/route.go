package core

import "sort"

// Assignment maps cost-matrix rows to columns.
type Assignment map[int]int

// Rows returns assigned rows in ascending order.
func (a Assignment) Rows() []int {
	rows := make([]int, 0, len(a))
	for r := range a {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}

// Cost sums the matrix entries selected by the assignment.
func (a Assignment) Cost(matrix [][]int) int {
	total := 0
	for r, c := range a {
		total += matrix[r][c]
	}
	return total
}

// TimedCell is a planned position at a specific tick.
type TimedCell struct {
	Cell
	Tick int
	Heat int // Heat on arrival at Tick
}

// Route is a sequence of timed cells, one per tick, starting at the unit's
// position on the tick it was planned.
type Route []TimedCell

// IndexAt returns the position of (c, tick) in the route, or -1.
func (r Route) IndexAt(c Cell, tick int) int {
	for i, tc := range r {
		if tc.Tick == tick && tc.Cell == c {
			return i
		}
	}
	return -1
}

// Last returns the final planned state.
func (r Route) Last() TimedCell {
	return r[len(r)-1]
}

// Moves counts the steps that change cell.
func (r Route) Moves() int {
	n := 0
	for i := 1; i < len(r); i++ {
		if r[i].Cell != r[i-1].Cell {
			n++
		}
	}
	return n
}

// Contiguous checks that consecutive states are one tick apart and within
// a king move of each other.
func (r Route) Contiguous() bool {
	for i := 1; i < len(r); i++ {
		if r[i].Tick != r[i-1].Tick+1 {
			return false
		}
		if _, ok := DirectionTo(r[i-1].Cell, r[i].Cell); !ok {
			return false
		}
	}
	return true
}
