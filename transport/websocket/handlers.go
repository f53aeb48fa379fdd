package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/gridplay/tictactoe-backend/internal/entity"
)

func (that *Server) handleConnect(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	var payload ConnectPayload
	// a first-time client connects with no payload at all
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal player info: %w", err)
		}
	}

	player, err := that.playerService.GetOrCreatePlayer(ctx, payload.Player.ID)
	if err != nil {
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	if player.ID == payload.Player.ID {
		that.logger.Info("player connected", "playerID", player.ID)
	} else {
		that.logger.Info("registered new player", "playerID", player.ID)
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Player: player})
}

func (that *Server) handleNewGame(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	var payload NewGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal new game payload: %w", err)
	}

	player, err := that.playerService.GetOrCreatePlayer(ctx, payload.Player.ID)
	if err != nil {
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	gameType := payload.Game.Type
	if gameType == "" {
		gameType = entity.PublicType
	}

	size := payload.Game.Size
	if size == 0 {
		size = that.defaultSize
	}

	winLength := payload.Game.WinLength
	if winLength == 0 {
		winLength = that.defaultWinLength
	}

	game, err := that.gamePlay.GetOrCreateGame(ctx, player, gameType, size, winLength)
	if err != nil {
		return fmt.Errorf("failed to get or create game: %w", err)
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Player: player, Game: game})
}

func (that *Server) handleJoinGame(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	var payload JoinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal join payload: %w", err)
	}

	var (
		game *entity.Game
		err  error
	)

	// an explicit ID joins that game, no ID asks for a public match
	if payload.Game.ID != "" {
		game, err = that.gamePlay.JoinGameByID(ctx, payload.Game.ID, payload.Player.ID)
	} else {
		game, err = that.gamePlay.JoinWaitingPublicGame(ctx, payload.Player.ID)
	}

	if err != nil {
		return fmt.Errorf("failed to join game: %w", err)
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: game})
}

func (that *Server) handleGameTurn(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	var payload TurnPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal turn payload: %w", err)
	}

	game, err := that.gamePlay.MakeTurn(ctx, payload.Player.ID, payload.Cell)
	if err != nil {
		// invalid moves keep the connection alive: the client retries with
		// the game state it just received
		if game != nil {
			return that.sendMessage(conn, msg.Action, ResponsePayload{Game: game, Error: err.Error()})
		}
		return fmt.Errorf("failed to make turn: %w", err)
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: game})
}
