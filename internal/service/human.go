package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

type humanPolicy struct {
	player *entity.Player
	reader MoveReader
}

func NewHumanPolicy(player *entity.Player, reader MoveReader) Policy {
	return &humanPolicy{
		player: player,
		reader: reader,
	}
}

// ChooseMove blocks on the reader until it returns. The reader owns the retry loop; the cell is checked once more here.
func (that *humanPolicy) ChooseMove(ctx context.Context, board entity.Board) (int, error) {
	cell, err := that.reader.ReadMove(ctx, board, that.player)
	if err != nil {
		return NoMove, fmt.Errorf("failed to read move: %w", err)
	}

	if !board.IsEmpty(cell) {
		return NoMove, fmt.Errorf("%w: cell %d", apperror.ErrInvalidMove, cell)
	}

	return cell, nil
}
