package engine

import (
	"math/rand"
	"testing"
)

// randomBoard fills a board with zeros and small powers of two.
func randomBoard(rng *rand.Rand) Board {
	var b Board
	values := []int{0, 0, 2, 4, 8, 16, 2048}
	for r := range BoardSize {
		for c := range BoardSize {
			b[r][c] = values[rng.Intn(len(values))]
		}
	}
	return b
}

func TestTransformDirections(t *testing.T) {
	board := Board{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	}

	tests := []struct {
		dir      Direction
		expected Board
		score    int
	}{
		{
			dir: DirLeft,
			expected: Board{
				{4, 0, 0, 0},
				{8, 0, 0, 0},
				{4, 4, 0, 0},
				{2, 0, 0, 0},
			},
			score: 20,
		},
		{
			dir: DirRight,
			expected: Board{
				{0, 0, 0, 4},
				{0, 0, 0, 8},
				{0, 0, 4, 4},
				{0, 0, 0, 2},
			},
			score: 20,
		},
		{
			dir: DirUp,
			expected: Board{
				{2, 4, 4, 4},
				{4, 0, 2, 0},
				{2, 0, 0, 0},
				{0, 0, 0, 0},
			},
			score: 8,
		},
		{
			dir: DirDown,
			expected: Board{
				{0, 0, 0, 0},
				{2, 0, 0, 0},
				{4, 0, 4, 0},
				{2, 4, 2, 4},
			},
			score: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			res := Transform(board, tt.dir)
			if res.Board != tt.expected {
				t.Errorf("Transform(%s): got\n%v\nwant\n%v", tt.dir, res.Board, tt.expected)
			}
			if res.ScoreGained != tt.score {
				t.Errorf("Transform(%s) score = %d, want %d", tt.dir, res.ScoreGained, tt.score)
			}
			if !res.Changed {
				t.Errorf("Transform(%s) should report a change", tt.dir)
			}
		})
	}
}

func TestTransformUpColumns(t *testing.T) {
	board := Board{
		{2, 4, 2, 0},
		{2, 0, 2, 0},
		{0, 4, 2, 0},
		{0, 0, 2, 2},
	}
	expected := Board{
		{4, 8, 4, 2},
		{0, 0, 4, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	res := Transform(board, DirUp)
	if res.Board != expected {
		t.Errorf("Transform(up): got\n%v\nwant\n%v", res.Board, expected)
	}
}

func TestTransformNoChange(t *testing.T) {
	board := Board{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	res := Transform(board, DirLeft)
	if res.Changed {
		t.Error("sliding left-aligned tiles left should not change the board")
	}
	if res.Board != board {
		t.Errorf("unchanged move returned a different board:\n%v", res.Board)
	}
	if res.ScoreGained != 0 {
		t.Errorf("unchanged move scored %d", res.ScoreGained)
	}
}

func TestTransformDoesNotModifyInput(t *testing.T) {
	board := Board{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	orig := board
	Transform(board, DirRight)
	if board != orig {
		t.Errorf("Transform modified its input:\n%v", board)
	}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		b := randomBoard(rng)
		if got := Rotate(Rotate(Rotate(Rotate(b)))); got != b {
			t.Fatalf("four rotations changed the board:\n%v\nto\n%v", b, got)
		}
	}
}

func TestRotateClockwise(t *testing.T) {
	board := Board{
		{1, 2, 3, 4},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	expected := Board{
		{0, 0, 0, 1},
		{0, 0, 0, 2},
		{0, 0, 0, 3},
		{0, 0, 0, 4},
	}
	if got := Rotate(board); got != expected {
		t.Errorf("Rotate: got\n%v\nwant\n%v", got, expected)
	}
}

// Merging two equal tiles keeps the tile sum; the score is the sum of the
// values produced by merges.
func TestTransformConservesTileSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		b := randomBoard(rng)
		for _, d := range Directions {
			res := Transform(b, d)
			if res.Board.Sum() != b.Sum() {
				t.Fatalf("Transform(%s) sum %d -> %d on\n%v", d, b.Sum(), res.Board.Sum(), b)
			}
			if res.ScoreGained < 0 || res.ScoreGained%4 != 0 {
				t.Fatalf("Transform(%s) produced impossible score %d", d, res.ScoreGained)
			}
			if res.ScoreGained > 0 && countTiles(res.Board) >= countTiles(b) {
				t.Fatalf("Transform(%s) scored without merging on\n%v", d, b)
			}
			if res.Changed != (res.Board != b) {
				t.Fatalf("Transform(%s) Changed=%v disagrees with board comparison", d, res.Changed)
			}
		}
	}
}

func TestTransformPanicsOnInvalidDirection(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Transform with invalid direction should panic")
		}
	}()
	Transform(Board{}, Direction(9))
}

// movable reports whether any direction changes b.
func movable(b Board) bool {
	for _, d := range Directions {
		if Transform(b, d).Changed {
			return true
		}
	}
	return false
}

func TestIsTerminalMatchesTransform(t *testing.T) {
	tests := []struct {
		name     string
		board    Board
		terminal bool
	}{
		{"checkerboard", Board{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 2, 4},
			{4, 2, 4, 2},
		}, true},
		{"full with an adjacent pair", Board{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 2, 4},
			{4, 2, 4, 4},
		}, false},
		{"one empty cell", Board{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 2, 4},
			{4, 2, 4, 0},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTerminal(tt.board); got != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.terminal)
			}
			if movable(tt.board) == IsTerminal(tt.board) {
				t.Error("IsTerminal disagrees with Transform")
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		if err != nil {
			t.Fatalf("ParseDirection(%q) failed: %v", d, err)
		}
		if got != d {
			t.Errorf("ParseDirection(%q) = %v", d, got)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("ParseDirection should reject unknown names")
	}
}

func countTiles(b Board) int {
	n := 0
	for r := range BoardSize {
		for c := range BoardSize {
			if b[r][c] != 0 {
				n++
			}
		}
	}
	return n
}
