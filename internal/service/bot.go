package service

import (
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

// IndexChooser picks a number in [0, n).
type IndexChooser interface {
	Intn(n int) int
}

type BotService interface {
	ChooseMove(board entity.Board) (int, error)
}

type botService struct {
	chooser IndexChooser
}

// NewBotService - chooser is used only for the last, random rule. Nil means math/rand.
func NewBotService(chooser IndexChooser) BotService {
	if chooser == nil {
		chooser = globalRand{}
	}

	return &botService{
		chooser: chooser,
	}
}

// ChooseMove - picks the computer's cell. Rules are tried in order and the first
// one that yields a cell wins: win now, block X, center, first free corner, random.
// Only one move ahead is considered, so forks are not seen.
func (that *botService) ChooseMove(board entity.Board) (int, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return 0, apperror.ErrNoAvailableMove
	}

	if cell, ok := findWinningCell(board, availableCells, entity.ComputerMark); ok {
		return cell, nil
	}

	if cell, ok := findWinningCell(board, availableCells, entity.HumanMark); ok {
		return cell, nil
	}

	if board[entity.CenterCell] == entity.EmptyCell {
		return entity.CenterCell, nil
	}

	for _, corner := range entity.CornerCells {
		if board[corner] == entity.EmptyCell {
			return corner, nil
		}
	}

	return availableCells[that.chooser.Intn(len(availableCells))], nil
}

// findWinningCell - first cell (ascending) where mark would complete a line.
func findWinningCell(board entity.Board, availableCells []int, mark string) (int, bool) {
	for _, cell := range availableCells {
		hypothetical := board
		hypothetical[cell] = mark

		if tictactoe.CheckWin(hypothetical, mark) {
			return cell, true
		}
	}

	return 0, false
}

type globalRand struct{}

func (globalRand) Intn(n int) int {
	return rand.Intn(n) //nolint: gosec // it's ok
}
