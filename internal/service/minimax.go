package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

const (
	scoreWin  = 1
	scoreDraw = 0
	scoreLoss = -1

	// below any reachable score, so the first candidate always becomes the best
	scoreFloor = -2
)

type minimaxPolicy struct {
	mark entity.Mark
}

// NewMinimaxPolicy returns the perfect player: an exhaustive search of the game tree for mark.
func NewMinimaxPolicy(mark entity.Mark) Policy {
	return &minimaxPolicy{mark: mark}
}

func (that *minimaxPolicy) ChooseMove(ctx context.Context, board entity.Board) (int, error) {
	if err := ctx.Err(); err != nil {
		return NoMove, fmt.Errorf("search canceled: %w", err)
	}

	_, cell := Minimax(board, that.mark)
	if cell == NoMove {
		return NoMove, apperror.ErrNoMovesAvailable
	}

	return cell, nil
}

// Minimax scores the board from the point of view of toMove (+1 win, 0 draw, -1 loss) and returns the cell that
// reaches that score. Terminal boards report NoMove.
//
// Cells are tried in ascending order and a candidate replaces the best one when its score is greater than or
// equal to it, so among equally good cells the highest-numbered one is chosen.
func Minimax(board entity.Board, toMove entity.Mark) (int, int) {
	opponent := toMove.Opponent()

	switch outcome := board.Winner(); {
	case outcome == entity.OutcomeDraw:
		return scoreDraw, NoMove
	case outcome.IsTerminal() && outcome.Winner() == toMove:
		return scoreWin, NoMove
	case outcome.IsTerminal():
		return scoreLoss, NoMove
	}

	bestScore, bestCell := scoreFloor, NoMove
	for _, cell := range board.EmptyCells() {
		next := board
		if err := next.Mark(cell, toMove); err != nil {
			continue
		}

		score, _ := Minimax(next, opponent)
		score = -score

		if score >= bestScore {
			bestScore, bestCell = score, cell
		}
	}

	return bestScore, bestCell
}
