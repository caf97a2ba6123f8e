package engine

import "fmt"

// Direction is a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every valid direction.
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// ParseDirection converts a direction name back to a Direction.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("engine: unknown direction %q", s)
}

// rotations returns how many clockwise quarter turns bring the target edge
// of d to the left, where ReduceLine slides.
func (d Direction) rotations() int {
	switch d {
	case DirUp:
		return 3
	case DirRight:
		return 2
	case DirDown:
		return 1
	case DirLeft:
		return 0
	default:
		panic(fmt.Sprintf("engine: invalid direction %d", int(d)))
	}
}

// MoveResult is the outcome of transforming a board in one direction.
type MoveResult struct {
	Board       Board
	ScoreGained int
	Changed     bool
}

// Rotate turns the board one quarter clockwise: new[j][3-i] = old[i][j].
func Rotate(b Board) Board {
	var out Board
	for i := range BoardSize {
		for j := range BoardSize {
			out[j][BoardSize-1-i] = b[i][j]
		}
	}
	return out
}

func rotateN(b Board, n int) Board {
	for range n {
		b = Rotate(b)
	}
	return b
}

// Transform applies a move in the given direction without touching b.
// Every direction reuses ReduceLine by rotating the board first and
// rotating the result back. Panics if dir is not a valid direction.
func Transform(b Board, dir Direction) MoveResult {
	turns := dir.rotations()
	oriented := rotateN(b, turns)

	var res MoveResult
	for r := range BoardSize {
		row := Line(oriented[r])
		reduced, score := ReduceLine(row)
		if reduced != row {
			res.Changed = true
		}
		res.ScoreGained += score
		oriented[r] = reduced
	}

	res.Board = rotateN(oriented, (4-turns)%4)
	return res
}
