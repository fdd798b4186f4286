package dynamics

import "github.com/boristopalov/mdpsim/pkg/core"

// Move applies d to (row, col) on a rows x cols grid. A move that would
// leave the grid leaves that axis unchanged.
func Move(rows, cols, row, col int, d Direction) (int, int) {
	return clamp(row+d.DRow, 0, rows-1), clamp(col+d.DCol, 0, cols-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Encode maps a cell to its state id.
func Encode(row, col, cols int) core.State {
	return core.State(row*cols + col)
}

// Decode maps a state id back to its cell.
func Decode(s core.State, cols int) (int, int) {
	return int(s) / cols, int(s) % cols
}
