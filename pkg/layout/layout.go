// Package layout parses the textual map of a world into classified cells.
//
// A layout is a rectangle of single-character symbols:
//
//	S start   F frozen (free)   H hole   G goal
//
// Holes and goals are terminal; only goals pay a reward.
package layout

import (
	"fmt"
	"strings"
)

// Kind classifies a cell. Every cell has exactly one kind.
type Kind byte

const (
	Start Kind = 'S'
	Free  Kind = 'F'
	Hole  Kind = 'H'
	Goal  Kind = 'G'
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case Free:
		return "free"
	case Hole:
		return "hole"
	case Goal:
		return "goal"
	default:
		return fmt.Sprintf("unknown(%q)", byte(k))
	}
}

// Cell is a coordinate on the grid.
type Cell struct {
	Row int
	Col int
}

// Layout is an immutable, validated map.
type Layout struct {
	rows  int
	cols  int
	kinds []Kind
	start Cell
	holes []Cell
	goals []Cell
}

// DefaultGrid returns the built-in 4x4 lake.
func DefaultGrid() []string {
	return []string{
		"SFFF",
		"FHFH",
		"FFFH",
		"HFFG",
	}
}

// CustomGrid returns the alternative 4x4 lake used by the random-walk driver.
func CustomGrid() []string {
	return []string{
		"SFFF",
		"FHFF",
		"FFFF",
		"HFGH",
	}
}

// DefaultCorridor returns the three-state walk: hole, start, goal.
func DefaultCorridor() []string {
	return []string{"HSG"}
}

// Parse validates lines and classifies every cell.
func Parse(lines []string) (*Layout, error) {
	if len(lines) == 0 {
		return nil, ConfigErrorf("layout", "layout has no rows")
	}
	cols := len(lines[0])
	if cols == 0 {
		return nil, ConfigErrorf("layout", "row 0 is empty")
	}

	l := &Layout{
		rows:  len(lines),
		cols:  cols,
		kinds: make([]Kind, 0, len(lines)*cols),
	}
	foundStart := false
	for r, line := range lines {
		if len(line) != cols {
			return nil, ConfigErrorf("layout", "row %d has length %d, want %d", r, len(line), cols)
		}
		for c := 0; c < len(line); c++ {
			k := Kind(line[c])
			switch k {
			case Start:
				if !foundStart {
					l.start = Cell{Row: r, Col: c}
					foundStart = true
				}
			case Free:
			case Hole:
				l.holes = append(l.holes, Cell{Row: r, Col: c})
			case Goal:
				l.goals = append(l.goals, Cell{Row: r, Col: c})
			default:
				return nil, ConfigErrorf("layout", "unknown symbol %q at row %d col %d", line[c], r, c)
			}
			l.kinds = append(l.kinds, k)
		}
	}
	if !foundStart {
		return nil, ConfigErrorf("layout", "no start cell %q", byte(Start))
	}
	return l, nil
}

// MustParse is Parse for built-in layouts; it panics on error.
func MustParse(lines []string) *Layout {
	l, err := Parse(lines)
	if err != nil {
		panic(err)
	}
	return l
}

// RequireSquare fails unless the layout has as many rows as columns.
func (l *Layout) RequireSquare() error {
	if l.rows != l.cols {
		return ConfigErrorf("layout", "grid must be square, got %dx%d", l.rows, l.cols)
	}
	return nil
}

func (l *Layout) Rows() int { return l.rows }
func (l *Layout) Cols() int { return l.cols }

// Size is the number of cells, which is also the number of states.
func (l *Layout) Size() int { return l.rows * l.cols }

// KindAt returns the kind of the cell at (row, col).
func (l *Layout) KindAt(row, col int) Kind {
	return l.kinds[row*l.cols+col]
}

func (l *Layout) IsHole(row, col int) bool { return l.KindAt(row, col) == Hole }
func (l *Layout) IsGoal(row, col int) bool { return l.KindAt(row, col) == Goal }

// IsTerminal reports whether entering (row, col) ends an episode.
func (l *Layout) IsTerminal(row, col int) bool {
	k := l.KindAt(row, col)
	return k == Hole || k == Goal
}

// Start returns the first start cell in row-major order.
func (l *Layout) Start() Cell { return l.start }

func (l *Layout) Holes() []Cell { return append([]Cell(nil), l.holes...) }
func (l *Layout) Goals() []Cell { return append([]Cell(nil), l.goals...) }

// Lines returns a fresh copy of the symbol rows.
func (l *Layout) Lines() []string {
	lines := make([]string, l.rows)
	for r := 0; r < l.rows; r++ {
		var b strings.Builder
		for c := 0; c < l.cols; c++ {
			b.WriteByte(byte(l.KindAt(r, c)))
		}
		lines[r] = b.String()
	}
	return lines
}

func (l *Layout) String() string {
	return strings.Join(l.Lines(), "\n")
}
