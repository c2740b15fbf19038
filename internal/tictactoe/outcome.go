package tictactoe

import "github.com/rocketscienceinc/tictactoe-solo/internal/entity"

type OutcomeKind int

const (
	Continue OutcomeKind = iota
	Win
	Draw
)

// Outcome is the result of evaluating a board after a move.
// Winner is set only when Kind is Win.
type Outcome struct {
	Kind   OutcomeKind
	Winner string
}

// CheckWin - reports whether mark occupies all three cells of any winning line.
// Works on hypothetical boards as well as the live one.
func CheckWin(board entity.Board, mark string) bool {
	for _, combo := range entity.WinCombos {
		if board[combo[0]] == mark && board[combo[1]] == mark && board[combo[2]] == mark {
			return true
		}
	}

	return false
}

// Evaluate - decides the outcome after justMoved placed a mark.
func Evaluate(board entity.Board, justMoved string) Outcome {
	if CheckWin(board, justMoved) {
		return Outcome{Kind: Win, Winner: justMoved}
	}

	// the game will continue until all the squares are full
	if board.IsFull() {
		return Outcome{Kind: Draw}
	}

	return Outcome{Kind: Continue}
}
