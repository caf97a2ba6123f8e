// Package engine implements the deterministic 2048 rules: board primitives,
// the line reducer, rotation-based board transforms and the undo-capable
// game session. It has no I/O and no dependencies on the UI layers.
package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// BoardSize is the board dimension.
const BoardSize = 4

// TargetTile is the tile value that wins a classic game.
const TargetTile = 2048

// DefaultFourProbability is the chance a spawned tile is a 4 instead of a 2.
const DefaultFourProbability = 0.1

// Board is a 4x4 grid of tile values. Zero means empty.
// Boards are plain arrays, so assignment copies them.
type Board [BoardSize][BoardSize]int

// Cell addresses one board position.
type Cell struct {
	Row, Col int
}

// Source is a uniform float generator in [0, 1).
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewEmptyBoard returns a board with every cell empty.
func NewEmptyBoard() Board {
	return Board{}
}

// EmptyCells returns the empty cells in row-major order.
func (b *Board) EmptyCells() []Cell {
	var cells []Cell
	for r := range BoardSize {
		for c := range BoardSize {
			if b[r][c] == 0 {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// MaxTile returns the largest value on the board.
func (b *Board) MaxTile() int {
	maxVal := 0
	for r := range BoardSize {
		for c := range BoardSize {
			if b[r][c] > maxVal {
				maxVal = b[r][c]
			}
		}
	}
	return maxVal
}

// Sum returns the sum of all tiles.
func (b *Board) Sum() int {
	total := 0
	for r := range BoardSize {
		for c := range BoardSize {
			total += b[r][c]
		}
	}
	return total
}

// Validate reports whether every cell is zero or a positive power of two.
// Engine operations assume this and do not check it themselves.
func (b *Board) Validate() error {
	for r := range BoardSize {
		for c := range BoardSize {
			v := b[r][c]
			if v == 0 {
				continue
			}
			if v < 0 || v&(v-1) != 0 {
				return fmt.Errorf("engine: invalid tile %d at (%d, %d)", v, r, c)
			}
		}
	}
	return nil
}

// String renders the board as four space-separated rows.
func (b Board) String() string {
	var sb strings.Builder
	for r := range BoardSize {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := range BoardSize {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(b[r][c]))
		}
	}
	return sb.String()
}

// SpawnRandomTile places a 2 (90%) or a 4 (10%) on a uniformly chosen empty
// cell. A full board is left untouched and ok is false.
func SpawnRandomTile(b *Board, src Source) (cell Cell, value int, ok bool) {
	return SpawnTileWithOdds(b, src, DefaultFourProbability)
}

// SpawnTileWithOdds is SpawnRandomTile with a configurable chance of a 4.
// Two draws are taken from src: one for the cell, one for the value.
func SpawnTileWithOdds(b *Board, src Source, fourProb float64) (cell Cell, value int, ok bool) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return Cell{}, 0, false
	}

	idx := int(src.Float64() * float64(len(empty)))
	if idx >= len(empty) {
		idx = len(empty) - 1
	}
	cell = empty[idx]

	value = 2
	if src.Float64() >= 1-fourProb {
		value = 4
	}

	b[cell.Row][cell.Col] = value
	return cell, value, true
}

// HasReachedTarget reports whether any cell holds exactly TargetTile.
func HasReachedTarget(b Board) bool {
	return HasTile(b, TargetTile)
}

// HasTile reports whether any cell holds exactly v.
func HasTile(b Board, v int) bool {
	for r := range BoardSize {
		for c := range BoardSize {
			if b[r][c] == v {
				return true
			}
		}
	}
	return false
}

// IsTerminal reports whether no move can change the board: no empty cell
// and no horizontally or vertically adjacent equal pair.
func IsTerminal(b Board) bool {
	for r := range BoardSize {
		for c := range BoardSize {
			v := b[r][c]
			if v == 0 {
				return false
			}
			if c < BoardSize-1 && b[r][c+1] == v {
				return false
			}
			if r < BoardSize-1 && b[r+1][c] == v {
				return false
			}
		}
	}
	return true
}
