package service

import (
	"context"
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

type randomPolicy struct {
	rng *rand.Rand
}

func NewRandomPolicy(rng *rand.Rand) Policy {
	return &randomPolicy{rng: rng}
}

func (that *randomPolicy) ChooseMove(_ context.Context, board entity.Board) (int, error) {
	return randomCell(that.rng, board)
}

func randomCell(rng *rand.Rand, board entity.Board) (int, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return NoMove, apperror.ErrNoMovesAvailable
	}

	return availableCells[rng.IntN(len(availableCells))], nil
}
