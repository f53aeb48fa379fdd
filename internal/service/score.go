package service

import (
	"context"
	"fmt"

	"github.com/gridplay/tictactoe-backend/internal/entity"
)

// ScoreService exposes the cumulative win tally: read, count a finished game
// and reset. Tie games are not counted.
type ScoreService interface {
	GetScores(ctx context.Context) (map[string]int, error)
	CountWinner(ctx context.Context, mark string) error
	ResetScores(ctx context.Context) error
}

type scoreRepo interface {
	IncrementByWinner(ctx context.Context, mark string) error
	GetAll(ctx context.Context) (map[string]int, error)
	Reset(ctx context.Context) error
}

type scoreService struct {
	scoreRepo scoreRepo
}

func NewScoreService(scoreRepo scoreRepo) ScoreService {
	return &scoreService{
		scoreRepo: scoreRepo,
	}
}

func (that *scoreService) GetScores(ctx context.Context) (map[string]int, error) {
	scores, err := that.scoreRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}

	// absent marks read as zero
	for _, mark := range []string{entity.PlayerX, entity.PlayerO} {
		if _, ok := scores[mark]; !ok {
			scores[mark] = 0
		}
	}

	return scores, nil
}

func (that *scoreService) CountWinner(ctx context.Context, mark string) error {
	if mark == entity.EmptyCell || mark == entity.PlayerTie {
		return nil
	}

	if err := that.scoreRepo.IncrementByWinner(ctx, mark); err != nil {
		return fmt.Errorf("failed to count winner: %w", err)
	}

	return nil
}

func (that *scoreService) ResetScores(ctx context.Context) error {
	if err := that.scoreRepo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset scores: %w", err)
	}

	return nil
}
