package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// NoMove is the cell reported when there is nothing to play.
const NoMove = -1

// Policy picks the next cell for one seat. Given a board that is not terminal it returns an empty cell in 1..9.
type Policy interface {
	ChooseMove(ctx context.Context, board entity.Board) (int, error)
}

// MoveReader is implemented by the presentation layer to ask a person for a cell.
type MoveReader interface {
	ReadMove(ctx context.Context, board entity.Board, player *entity.Player) (int, error)
}

// NewPolicy builds the policy matching the player's kind and difficulty.
func NewPolicy(player *entity.Player, reader MoveReader, rng *rand.Rand) (Policy, error) {
	if player.Kind == entity.KindHuman {
		return NewHumanPolicy(player, reader), nil
	}

	return NewComputerPolicy(player.Difficulty, player.Mark, rng)
}

func NewComputerPolicy(difficulty string, mark entity.Mark, rng *rand.Rand) (Policy, error) {
	switch difficulty {
	case DifficultyEasy:
		return NewRandomPolicy(rng), nil
	case DifficultyMedium:
		return NewHeuristicPolicy(mark, rng), nil
	case DifficultyHard:
		return NewMinimaxPolicy(mark), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, difficulty)
	}
}

// ValidDifficulty reports whether NewComputerPolicy knows the difficulty.
func ValidDifficulty(difficulty string) bool {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}
