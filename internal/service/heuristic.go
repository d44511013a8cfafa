package service

import (
	"context"
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

// heuristicPolicy wins if it can, blocks if it must, otherwise plays at random.
type heuristicPolicy struct {
	mark entity.Mark
	rng  *rand.Rand
}

func NewHeuristicPolicy(mark entity.Mark, rng *rand.Rand) Policy {
	return &heuristicPolicy{
		mark: mark,
		rng:  rng,
	}
}

func (that *heuristicPolicy) ChooseMove(_ context.Context, board entity.Board) (int, error) {
	if cell, ok := findWinningMove(board, that.mark); ok {
		return cell, nil
	}

	if cell, ok := findWinningMove(board, that.mark.Opponent()); ok {
		return cell, nil
	}

	return randomCell(that.rng, board)
}

// findWinningMove returns the lowest cell completing a line of mark, if any line has two of mark and one label.
func findWinningMove(board entity.Board, mark entity.Mark) (int, bool) {
	best := NoMove
	for _, combo := range entity.WinCombos {
		owned, free := 0, NoMove
		for _, idx := range combo {
			switch board[idx] {
			case mark:
				owned++
			case entity.MarkNone:
				free = idx + 1
			}
		}

		if owned == 2 && free != NoMove && (best == NoMove || free < best) {
			best = free
		}
	}

	return best, best != NoMove
}
