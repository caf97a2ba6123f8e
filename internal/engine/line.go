package engine

// Line is one row of the board after orientation.
type Line [BoardSize]int

// ReduceLine slides a line toward index 0 and merges equal neighbours.
// Each tile merges at most once, so [2 2 2 2] becomes [4 4 0 0] and never 8.
// Returns the reduced line and the score gained from its merges.
func ReduceLine(line Line) (Line, int) {
	compact := make([]int, 0, BoardSize)
	for _, v := range line {
		if v != 0 {
			compact = append(compact, v)
		}
	}

	score := 0
	for i := 0; i < len(compact)-1; i++ {
		if compact[i] == compact[i+1] {
			compact[i] *= 2
			compact[i+1] = 0
			score += compact[i]
			i++ // skip the consumed neighbour
		}
	}

	var result Line
	pos := 0
	for _, v := range compact {
		if v != 0 {
			result[pos] = v
			pos++
		}
	}
	return result, score
}
