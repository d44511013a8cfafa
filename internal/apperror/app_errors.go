package apperror

import "errors"

var (
	ErrInvalidCell       = errors.New("invalid cell")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidMove       = errors.New("invalid move")
	ErrNoMovesAvailable  = errors.New("no moves available")
	ErrGameFinished      = errors.New("game is already finished")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrGameInProgress    = errors.New("game is still in progress")
	ErrSameMark          = errors.New("players must use different marks")
)
