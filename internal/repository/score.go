package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const scoreKey = "score"

// ScoreRepository keeps the cumulative win tally, one counter per mark.
type ScoreRepository interface {
	IncrementByWinner(ctx context.Context, mark string) error
	GetAll(ctx context.Context) (map[string]int, error)
	Reset(ctx context.Context) error
}

type dbScore struct {
	client *redis.Client
}

func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

func (that *dbScore) IncrementByWinner(ctx context.Context, mark string) error {
	if err := that.client.HIncrBy(ctx, scoreKey, mark, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment score for %q: %w", mark, err)
	}

	return nil
}

func (that *dbScore) GetAll(ctx context.Context) (map[string]int, error) {
	fields, err := that.client.HGetAll(ctx, scoreKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}

	scores := make(map[string]int, len(fields))
	for mark, value := range fields {
		count, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse score for %q: %w", mark, err)
		}
		scores[mark] = count
	}

	return scores, nil
}

func (that *dbScore) Reset(ctx context.Context) error {
	if err := that.client.Del(ctx, scoreKey).Err(); err != nil {
		return fmt.Errorf("failed to reset scores: %w", err)
	}

	return nil
}
