package algo

import (
	"fmt"
	"math"

	"github.com/elektrokombinacija/tacnav/internal/core"
)

// Hungarian is the Kuhn-Munkres minimum-cost assignment solver.
type Hungarian struct{}

// Name returns the algorithm name.
func (Hungarian) Name() string { return "hungarian" }

// Solve returns a minimum-cost assignment of min(rows, cols) pairs.
// A ragged matrix yields an empty assignment; ValidateMatrix says why.
func (Hungarian) Solve(matrix [][]int) core.Assignment {
	a, _ := solveMunkres(matrix)
	return a
}

// SolveAssignment is Hungarian{}.Solve.
func SolveAssignment(matrix [][]int) core.Assignment {
	return Hungarian{}.Solve(matrix)
}

// ValidateMatrix checks that every row has the same length.
func ValidateMatrix(matrix [][]int) error {
	for i, row := range matrix {
		if len(row) != len(matrix[0]) {
			return fmt.Errorf("row %d has %d columns, want %d", i, len(row), len(matrix[0]))
		}
	}
	return nil
}

const (
	unmarked = iota
	starred
	primed
)

// munkres is the working state of one solve. Rows never outnumber columns.
type munkres struct {
	c        [][]int
	n, m     int
	mask     [][]uint8
	rowCover []bool
	colCover []bool

	adjustments int // Step-6 matrix adjustments performed
}

// solveMunkres returns the assignment and the number of adjustments it took.
func solveMunkres(matrix [][]int) (core.Assignment, int) {
	out := make(core.Assignment)
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return out, 0
	}
	if ValidateMatrix(matrix) != nil {
		return out, 0
	}

	transposed := len(matrix) > len(matrix[0])
	src := matrix
	if transposed {
		src = transpose(matrix)
	}

	s := newMunkres(src)
	s.run()

	for i := 0; i < s.n; i++ {
		for j := 0; j < s.m; j++ {
			if s.mask[i][j] != starred {
				continue
			}
			if transposed {
				out[j] = i
			} else {
				out[i] = j
			}
		}
	}
	return out, s.adjustments
}

func transpose(m [][]int) [][]int {
	t := make([][]int, len(m[0]))
	for j := range t {
		t[j] = make([]int, len(m))
		for i := range m {
			t[j][i] = m[i][j]
		}
	}
	return t
}

func newMunkres(src [][]int) *munkres {
	n, m := len(src), len(src[0])
	s := &munkres{
		c:        make([][]int, n),
		n:        n,
		m:        m,
		mask:     make([][]uint8, n),
		rowCover: make([]bool, n),
		colCover: make([]bool, m),
	}
	for i := range src {
		s.c[i] = append([]int(nil), src[i]...)
		s.mask[i] = make([]uint8, m)
	}
	return s
}

func (s *munkres) run() {
	s.reduceRows()
	s.starZeros()
	for !s.coverStarredColumns() {
		for {
			r, c, ok := s.findUncoveredZero()
			if !ok {
				s.adjust()
				continue
			}
			s.mask[r][c] = primed
			if sc := s.findInRow(r, starred); sc >= 0 {
				s.rowCover[r] = true
				s.colCover[sc] = false
				continue
			}
			s.augment(r, c)
			break
		}
	}
}

// reduceRows subtracts each row's minimum from the row.
func (s *munkres) reduceRows() {
	for i := range s.c {
		lo := s.c[i][0]
		for _, v := range s.c[i][1:] {
			if v < lo {
				lo = v
			}
		}
		for j := range s.c[i] {
			s.c[i][j] -= lo
		}
	}
}

// starZeros stars one independent zero per row and column where possible.
func (s *munkres) starZeros() {
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.m; j++ {
			if s.c[i][j] == 0 && !s.rowCover[i] && !s.colCover[j] {
				s.mask[i][j] = starred
				s.rowCover[i] = true
				s.colCover[j] = true
			}
		}
	}
	s.clearCovers()
}

// coverStarredColumns covers every column holding a star and reports
// whether that completes the assignment.
func (s *munkres) coverStarredColumns() bool {
	count := 0
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.m; j++ {
			if s.mask[i][j] == starred && !s.colCover[j] {
				s.colCover[j] = true
				count++
			}
		}
	}
	return count >= s.n
}

func (s *munkres) findUncoveredZero() (int, int, bool) {
	for i := 0; i < s.n; i++ {
		if s.rowCover[i] {
			continue
		}
		for j := 0; j < s.m; j++ {
			if s.c[i][j] == 0 && !s.colCover[j] {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func (s *munkres) findInRow(r int, mark uint8) int {
	for j := 0; j < s.m; j++ {
		if s.mask[r][j] == mark {
			return j
		}
	}
	return -1
}

func (s *munkres) findInCol(c int, mark uint8) int {
	for i := 0; i < s.n; i++ {
		if s.mask[i][c] == mark {
			return i
		}
	}
	return -1
}

// augment flips the alternating prime/star path starting at the prime (r, c).
func (s *munkres) augment(r, c int) {
	path := [][2]int{{r, c}}
	for {
		sr := s.findInCol(path[len(path)-1][1], starred)
		if sr < 0 {
			break
		}
		path = append(path, [2]int{sr, path[len(path)-1][1]})
		pc := s.findInRow(sr, primed)
		path = append(path, [2]int{sr, pc})
	}
	for _, p := range path {
		if s.mask[p[0]][p[1]] == starred {
			s.mask[p[0]][p[1]] = unmarked
		} else {
			s.mask[p[0]][p[1]] = starred
		}
	}
	for i := range s.mask {
		for j := range s.mask[i] {
			if s.mask[i][j] == primed {
				s.mask[i][j] = unmarked
			}
		}
	}
	s.clearCovers()
}

// adjust adds the smallest uncovered value to covered rows and subtracts it
// from uncovered columns, creating a new uncovered zero.
func (s *munkres) adjust() {
	lo := math.MaxInt
	for i := 0; i < s.n; i++ {
		if s.rowCover[i] {
			continue
		}
		for j := 0; j < s.m; j++ {
			if !s.colCover[j] && s.c[i][j] < lo {
				lo = s.c[i][j]
			}
		}
	}
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.m; j++ {
			if s.rowCover[i] {
				s.c[i][j] += lo
			}
			if !s.colCover[j] {
				s.c[i][j] -= lo
			}
		}
	}
	s.adjustments++
}

func (s *munkres) clearCovers() {
	for i := range s.rowCover {
		s.rowCover[i] = false
	}
	for j := range s.colCover {
		s.colCover[j] = false
	}
}
