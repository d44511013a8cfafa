package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-terminal/internal/entity"
)

var ErrScoreNotFound = errors.New("score not found")

type ScoreRepository interface {
	CreateOrUpdate(ctx context.Context, score *entity.Score) error
	GetByID(ctx context.Context, id string) (*entity.Score, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbScore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScoreRepository publishes session scores to redis. Keys expire after ttl; zero keeps them until deleted.
func NewScoreRepository(client *redis.Client, ttl time.Duration) ScoreRepository {
	return &dbScore{
		client: client,
		ttl:    ttl,
	}
}

func scoreKey(id string) string {
	return "scoreboard:" + id
}

func (that *dbScore) CreateOrUpdate(ctx context.Context, score *entity.Score) error {
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("could not marshal score: %w", err)
	}

	err = that.client.Set(ctx, scoreKey(score.SessionID), scoreJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set score: %w", err)
	}

	return nil
}

func (that *dbScore) GetByID(ctx context.Context, id string) (*entity.Score, error) {
	response, err := that.client.Get(ctx, scoreKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Score{}, ErrScoreNotFound
	}

	if err != nil {
		return &entity.Score{}, fmt.Errorf("failed to get score by id: %w", err)
	}

	var existingScore entity.Score
	if err = json.Unmarshal([]byte(response), &existingScore); err != nil {
		return &entity.Score{}, fmt.Errorf("failed to unmarshal score: %w", err)
	}

	return &existingScore, nil
}

func (that *dbScore) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, scoreKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete score by id: %w", err)
	}

	if deleted == 0 {
		return ErrScoreNotFound
	}

	return nil
}
