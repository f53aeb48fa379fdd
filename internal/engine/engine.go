// Package engine holds the pure game-state evaluation logic: win detection
// over a variable board size and win length, and the heuristic move selector
// used by the bot. Every function is stateless and never mutates the board it
// is given.
package engine

// EmptyCell marks an unoccupied board cell.
const EmptyCell = ""

// direction is a (row, col) step for one scan family.
type direction struct {
	dRow int
	dCol int
}

var scanDirections = []direction{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

// DetectWinner scans the board for winLength consecutive identical marks
// along rows, columns and both diagonals. It returns the winning mark, or
// EmptyCell when no complete line exists. The board is row-major with
// index = row*size + col. An out-of-range size or winLength yields no valid
// windows and therefore no winner.
func DetectWinner(board []string, size, winLength int) string {
	for _, dir := range scanDirections {
		for row := 0; row < size; row++ {
			for col := 0; col < size; col++ {
				if !windowInBounds(row, col, dir, size, winLength) {
					continue
				}

				if mark := matchWindow(board, size, row, col, dir, winLength); mark != EmptyCell {
					return mark
				}
			}
		}
	}

	return EmptyCell
}

// windowInBounds reports whether a window of winLength cells starting at
// (row, col) and stepping by dir stays on the board.
func windowInBounds(row, col int, dir direction, size, winLength int) bool {
	endRow := row + dir.dRow*(winLength-1)
	endCol := col + dir.dCol*(winLength-1)

	return endRow >= 0 && endRow < size && endCol >= 0 && endCol < size
}

// matchWindow returns the mark filling the whole window, or EmptyCell.
func matchWindow(board []string, size, row, col int, dir direction, winLength int) string {
	first := board[row*size+col]
	if first == EmptyCell {
		return EmptyCell
	}

	for step := 1; step < winLength; step++ {
		cell := board[(row+dir.dRow*step)*size+(col+dir.dCol*step)]
		if cell != first {
			return EmptyCell
		}
	}

	return first
}

// IsFull reports whether the board has no empty cells left. Callers combine
// this with DetectWinner to decide a draw: no winner and no empty cell.
func IsFull(board []string) bool {
	for _, cell := range board {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// NoMove is returned by SelectMove when the board has no empty cells.
const NoMove = -1

// SelectMove picks the cell the bot should play, or NoMove on a full board.
// Three tiers, each short-circuiting the next: take an immediate win, block
// an immediate opponent win, otherwise play the highest-scoring empty cell.
// Ties at every tier resolve to the lowest cell index. The call is
// deterministic and leaves the board untouched.
func SelectMove(board []string, size, winLength int, aiMark, opponentMark string) int {
	if cell := findWinningCell(board, size, winLength, aiMark); cell != NoMove {
		return cell
	}

	if cell := findWinningCell(board, size, winLength, opponentMark); cell != NoMove {
		return cell
	}

	bestCell := NoMove
	bestScore := 0

	for i, cell := range board {
		if cell != EmptyCell {
			continue
		}

		score := scoreCell(board, size, winLength, i, aiMark, opponentMark)
		if bestCell == NoMove || score > bestScore {
			bestCell = i
			bestScore = score
		}
	}

	return bestCell
}

// findWinningCell returns the lowest empty cell that completes a line for
// mark, or NoMove. Each probe places the mark on a private copy of the board
// and re-runs full win detection; boards are small enough that the rescan is
// cheaper than keeping incremental state.
func findWinningCell(board []string, size, winLength int, mark string) int {
	probe := make([]string, len(board))

	for i, cell := range board {
		if cell != EmptyCell {
			continue
		}

		copy(probe, board)
		probe[i] = mark

		if DetectWinner(probe, size, winLength) == mark {
			return i
		}
	}

	return NoMove
}

const (
	centerBonusMax     = 10
	openWindowWeight   = 25
	nearWinBonus       = 200
	threatWindowWeight = 20
	nearLossPenalty    = 150
	cornerBonusSmall   = 15
	cornerBonusLarge   = 5
	smallBoardSize     = 3
)

// scoreCell rates placing aiMark on the empty cell at index. Contributions:
// proximity to the board center, potential of every window through the cell,
// and a corner bonus. Scores may go negative; the caller only compares them.
func scoreCell(board []string, size, winLength, index int, aiMark, opponentMark string) int {
	row, col := index/size, index%size
	center := size / 2

	score := 0

	if dist := abs(row-center) + abs(col-center); dist < centerBonusMax {
		score += centerBonusMax - dist
	}

	for _, dir := range scanDirections {
		score += scoreWindows(board, size, winLength, row, col, dir, aiMark, opponentMark)
	}

	if isCorner(index, size) {
		if size == smallBoardSize {
			score += cornerBonusSmall
		} else {
			score += cornerBonusLarge
		}
	}

	return score
}

// scoreWindows sums the potential of every in-bounds window of winLength
// cells along dir that contains (row, col), treating that cell as aiMark.
// A window free of opponent marks rewards the bot marks in it quadratically,
// with a flat bonus when it is one move from completion; a contested window
// penalizes quadratically by the opponent marks, with a flat penalty when the
// opponent is one move from winning on it.
func scoreWindows(board []string, size, winLength, row, col int, dir direction, aiMark, opponentMark string) int {
	score := 0

	for offset := -(winLength - 1); offset <= 0; offset++ {
		startRow := row + dir.dRow*offset
		startCol := col + dir.dCol*offset

		aiCount, opponentCount, ok := countWindow(board, size, winLength, startRow, startCol, dir, aiMark, opponentMark)
		if !ok {
			continue
		}

		// the candidate cell itself counts for the bot
		aiCount++

		if opponentCount == 0 {
			score += aiCount * aiCount * openWindowWeight
			if aiCount == winLength-1 {
				score += nearWinBonus
			}
		} else {
			score -= opponentCount * opponentCount * threatWindowWeight
			if opponentCount == winLength-1 {
				score -= nearLossPenalty
			}
		}
	}

	return score
}

// countWindow counts both players' marks in the window starting at
// (startRow, startCol); ok is false when any cell falls off the board.
func countWindow(board []string, size, winLength, startRow, startCol int, dir direction, aiMark, opponentMark string) (int, int, bool) {
	aiCount, opponentCount := 0, 0

	for step := 0; step < winLength; step++ {
		r := startRow + dir.dRow*step
		c := startCol + dir.dCol*step

		if r < 0 || r >= size || c < 0 || c >= size {
			return 0, 0, false
		}

		switch board[r*size+c] {
		case aiMark:
			aiCount++
		case opponentMark:
			opponentCount++
		}
	}

	return aiCount, opponentCount, true
}

func isCorner(index, size int) bool {
	last := size - 1

	return index == 0 || index == last || index == size*last || index == size*size-1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
