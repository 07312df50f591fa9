package apperror

import "errors"

var (
	ErrGameConcluded = errors.New("game is already concluded")
	ErrOutOfBounds   = errors.New("cell is out of bounds")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrNotYourTurn   = errors.New("it's not your turn")
)
