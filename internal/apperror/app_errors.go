package apperror

import "errors"

var (
	ErrGameIsNotActive = errors.New("game is not active")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrNoAvailableMove = errors.New("no available moves")
	ErrGameNotFound    = errors.New("game not found")
)
