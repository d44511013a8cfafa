package repository

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

type memScore struct {
	scores map[string]entity.Score
}

// NewMemoryScoreRepository keeps session scores in process memory. Used when no redis is configured.
func NewMemoryScoreRepository() ScoreRepository {
	return &memScore{
		scores: make(map[string]entity.Score),
	}
}

func (that *memScore) CreateOrUpdate(_ context.Context, score *entity.Score) error {
	that.scores[score.SessionID] = *score
	return nil
}

func (that *memScore) GetByID(_ context.Context, id string) (*entity.Score, error) {
	score, ok := that.scores[id]
	if !ok {
		return &entity.Score{}, ErrScoreNotFound
	}
	return &score, nil
}

func (that *memScore) DeleteByID(_ context.Context, id string) error {
	if _, ok := that.scores[id]; !ok {
		return ErrScoreNotFound
	}
	delete(that.scores, id)
	return nil
}
