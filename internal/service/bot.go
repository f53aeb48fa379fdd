package service

import (
	"errors"
	"fmt"

	"github.com/gridplay/tictactoe-backend/internal/apperror"
	"github.com/gridplay/tictactoe-backend/internal/engine"
	"github.com/gridplay/tictactoe-backend/internal/entity"
)

var ErrBotNotFound = errors.New("bot player not found")

type BotService interface {
	MakeTurn(game *entity.Game) error
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// MakeTurn plays the bot's move: take a win, block the opponent's win, or
// fall back to the highest-scoring cell.
func (that *botService) MakeTurn(game *entity.Game) error {
	var botPlayer *entity.Player
	for _, player := range game.Players {
		if player.IsBot() {
			botPlayer = player
			break
		}
	}

	if botPlayer == nil {
		return ErrBotNotFound
	}

	opponentMark := entity.OpponentMark(botPlayer.Mark)

	chosenCell := engine.SelectMove(game.Board, game.Size, game.WinLength, botPlayer.Mark, opponentMark)
	if chosenCell == engine.NoMove {
		return apperror.ErrNoAvailableMoves
	}

	if err := game.MakeTurn(botPlayer.Mark, chosenCell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}
