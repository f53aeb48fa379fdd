package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridplay/tictactoe-backend/internal/entity"
)

type GameService interface {
	CreateGame(ctx context.Context, player *entity.Player, gameType string, size, winLength int) (*entity.Game, *entity.Player, error)
	UpdateGame(ctx context.Context, game *entity.Game) error
	DeleteGame(ctx context.Context, gameID string) error

	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
	TakeWaitingPublicGame(ctx context.Context) (*entity.Game, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error

	MarkPublicWaiting(ctx context.Context, gameID string) error
	TakePublicWaiting(ctx context.Context) (string, error)
}

type gameService struct {
	gameRepo gameRepo
}

func NewGameService(gameRepo gameRepo) GameService {
	return &gameService{
		gameRepo: gameRepo,
	}
}

func (that *gameService) CreateGame(ctx context.Context, player *entity.Player, gameType string, size, winLength int) (*entity.Game, *entity.Player, error) {
	gameID := uuid.NewString()

	game := entity.NewGame(gameID, gameType, size, winLength)

	player.GameID = gameID
	player.Mark = entity.PlayerX

	game.Players = []*entity.Player{player}
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, nil, fmt.Errorf("failed to create game from storage: %w", err)
	}

	if game.IsPublic() {
		if err := that.gameRepo.MarkPublicWaiting(ctx, gameID); err != nil {
			return nil, nil, fmt.Errorf("failed to publish waiting game: %w", err)
		}
	}

	return game, player, nil
}

func (that *gameService) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return game, nil
}

// TakeWaitingPublicGame claims the open public game, if any.
func (that *gameService) TakeWaitingPublicGame(ctx context.Context) (*entity.Game, error) {
	gameID, err := that.gameRepo.TakePublicWaiting(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take waiting public game: %w", err)
	}

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve waiting public game: %w", err)
	}

	return game, nil
}

func (that *gameService) UpdateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *gameService) DeleteGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}
