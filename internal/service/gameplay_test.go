package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridplay/tictactoe-backend/internal/apperror"
	"github.com/gridplay/tictactoe-backend/internal/entity"
	"github.com/gridplay/tictactoe-backend/internal/repository"
)

// fakePlayerService keeps players in a map.
type fakePlayerService struct {
	players map[string]*entity.Player
}

func newFakePlayerService() *fakePlayerService {
	return &fakePlayerService{players: make(map[string]*entity.Player)}
}

func (that *fakePlayerService) GetOrCreatePlayer(_ context.Context, id string) (*entity.Player, error) {
	if player, ok := that.players[id]; ok {
		return player, nil
	}
	player := &entity.Player{ID: id}
	that.players[id] = player
	return player, nil
}

func (that *fakePlayerService) GetPlayerByID(_ context.Context, id string) (*entity.Player, error) {
	player, ok := that.players[id]
	if !ok {
		return nil, repository.ErrPlayerNotFound
	}
	return player, nil
}

func (that *fakePlayerService) UpdatePlayer(_ context.Context, player *entity.Player) error {
	that.players[player.ID] = player
	return nil
}

// fakeGameService keeps games in a map and one public waiting slot.
type fakeGameService struct {
	games         map[string]*entity.Game
	waitingPublic string
	nextID        int
}

func newFakeGameService() *fakeGameService {
	return &fakeGameService{games: make(map[string]*entity.Game)}
}

func (that *fakeGameService) CreateGame(_ context.Context, player *entity.Player, gameType string, size, winLength int) (*entity.Game, *entity.Player, error) {
	that.nextID++
	gameID := "game-" + string(rune('0'+that.nextID))

	game := entity.NewGame(gameID, gameType, size, winLength)
	player.GameID = gameID
	player.Mark = entity.PlayerX
	game.Players = []*entity.Player{player}

	that.games[gameID] = game
	if game.IsPublic() {
		that.waitingPublic = gameID
	}
	return game, player, nil
}

func (that *fakeGameService) GetGameByID(_ context.Context, id string) (*entity.Game, error) {
	game, ok := that.games[id]
	if !ok {
		return nil, repository.ErrGameNotFound
	}
	return game, nil
}

func (that *fakeGameService) TakeWaitingPublicGame(_ context.Context) (*entity.Game, error) {
	if that.waitingPublic == "" {
		return nil, repository.ErrGameNotFound
	}
	game := that.games[that.waitingPublic]
	that.waitingPublic = ""
	return game, nil
}

func (that *fakeGameService) UpdateGame(_ context.Context, game *entity.Game) error {
	that.games[game.ID] = game
	return nil
}

func (that *fakeGameService) DeleteGame(_ context.Context, gameID string) error {
	delete(that.games, gameID)
	return nil
}

// fakeScore records counted winners.
type fakeScore struct {
	counted []string
	reset   bool
}

func (that *fakeScore) GetScores(context.Context) (map[string]int, error) {
	scores := make(map[string]int)
	for _, mark := range that.counted {
		scores[mark]++
	}
	return scores, nil
}

func (that *fakeScore) CountWinner(_ context.Context, mark string) error {
	if mark != entity.EmptyCell && mark != entity.PlayerTie {
		that.counted = append(that.counted, mark)
	}
	return nil
}

func (that *fakeScore) ResetScores(context.Context) error {
	that.reset = true
	return nil
}

// fakePublisher records finished games.
type fakePublisher struct {
	published []*entity.Game
}

func (that *fakePublisher) PublishGameFinished(game *entity.Game) error {
	that.published = append(that.published, game)
	return nil
}

func (that *fakePublisher) Close() error { return nil }

func newTestGamePlay(t *testing.T) (GamePlayService, *fakePlayerService, *fakeGameService, *fakeScore, *fakePublisher) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	players := newFakePlayerService()
	games := newFakeGameService()
	scores := &fakeScore{}
	publisher := &fakePublisher{}

	gamePlay := NewGamePlayService(logger, players, games, NewBotService(), scores, publisher, 0)

	return gamePlay, players, games, scores, publisher
}

func TestGamePlayService_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Bot answers a human move in a bot game", func(t *testing.T) {
		// Given: an ongoing bot game with the human playing X
		gamePlay, players, games, _, _ := newTestGamePlay(t)

		human, err := players.GetOrCreatePlayer(ctx, "human")
		require.NoError(t, err)

		game := entity.NewGame("g1", entity.WithBotType, entity.DefaultSize, entity.DefaultWinLength)
		game.Status = entity.StatusOngoing
		human.GameID = game.ID
		human.Mark = entity.PlayerX
		game.Players = []*entity.Player{human, entity.NewBotPlayer(game.ID, entity.PlayerO)}
		require.NoError(t, games.UpdateGame(ctx, game))

		// When: the human plays a corner
		updated, err := gamePlay.MakeTurn(ctx, "human", 0)

		// Then: the board holds one X and the bot's answering O
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, updated.Board[0])

		botMoves := 0
		for _, cell := range updated.Board {
			if cell == entity.PlayerO {
				botMoves++
			}
		}
		assert.Equal(t, 1, botMoves)
		assert.Equal(t, entity.PlayerX, updated.Turn)
	})

	t.Run("Counts the winner and publishes on a finished game", func(t *testing.T) {
		// Given: a two-player game where X is one move from winning
		gamePlay, players, games, scores, publisher := newTestGamePlay(t)

		human, err := players.GetOrCreatePlayer(ctx, "human")
		require.NoError(t, err)

		game := entity.NewGame("g1", entity.PrivateType, entity.DefaultSize, entity.DefaultWinLength)
		game.Status = entity.StatusOngoing
		game.Board = []string{
			entity.PlayerX, entity.PlayerX, entity.EmptyCell,
			entity.PlayerO, entity.PlayerO, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		}
		human.GameID = game.ID
		human.Mark = entity.PlayerX
		game.Players = []*entity.Player{human}
		require.NoError(t, games.UpdateGame(ctx, game))

		// When: X completes the top row
		updated, err := gamePlay.MakeTurn(ctx, "human", 2)

		// Then: the game finishes, X is counted and the event goes out
		require.NoError(t, err)
		assert.True(t, updated.IsFinished())
		assert.Equal(t, []string{entity.PlayerX}, scores.counted)
		require.Len(t, publisher.published, 1)
		assert.Equal(t, entity.PlayerX, publisher.published[0].Winner)

		// And: the finished game is cleaned out of storage
		_, err = games.GetGameByID(ctx, updated.ID)
		assert.ErrorIs(t, err, repository.ErrGameNotFound)
	})

	t.Run("Rejects a turn in a waiting game", func(t *testing.T) {
		// Given: a game still waiting for a second player
		gamePlay, players, games, _, _ := newTestGamePlay(t)

		human, err := players.GetOrCreatePlayer(ctx, "human")
		require.NoError(t, err)

		game := entity.NewGame("g1", entity.PrivateType, entity.DefaultSize, entity.DefaultWinLength)
		human.GameID = game.ID
		human.Mark = entity.PlayerX
		game.Players = []*entity.Player{human}
		require.NoError(t, games.UpdateGame(ctx, game))

		// When: the human tries to move
		_, err = gamePlay.MakeTurn(ctx, "human", 0)

		// Then: the turn is refused
		assert.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Draw is published but not counted", func(t *testing.T) {
		// Given: a board one move from a draw
		gamePlay, players, games, scores, publisher := newTestGamePlay(t)

		human, err := players.GetOrCreatePlayer(ctx, "human")
		require.NoError(t, err)

		game := entity.NewGame("g1", entity.PrivateType, entity.DefaultSize, entity.DefaultWinLength)
		game.Status = entity.StatusOngoing
		game.Board = []string{
			entity.PlayerX, entity.PlayerO, entity.PlayerX,
			entity.PlayerX, entity.PlayerO, entity.PlayerO,
			entity.PlayerO, entity.PlayerX, entity.EmptyCell,
		}
		human.GameID = game.ID
		human.Mark = entity.PlayerX
		game.Players = []*entity.Player{human}
		require.NoError(t, games.UpdateGame(ctx, game))

		// When: X fills the last cell
		updated, err := gamePlay.MakeTurn(ctx, "human", 8)

		// Then: tie winner, no score counted, event published with draw flag
		require.NoError(t, err)
		assert.True(t, updated.IsDraw())
		assert.Empty(t, scores.counted)
		require.Len(t, publisher.published, 1)
		assert.True(t, publisher.published[0].IsDraw())
	})
}

func TestGamePlayService_CreateAndJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("Creating a bot game seats the bot and starts play", func(t *testing.T) {
		// Given: a fresh player
		gamePlay, players, _, _, _ := newTestGamePlay(t)

		human, err := players.GetOrCreatePlayer(ctx, "human")
		require.NoError(t, err)

		// When: they start a bot game on the large board
		game, err := gamePlay.GetOrCreateGame(ctx, human, entity.WithBotType, entity.LargeSize, entity.LargeWinLength)

		// Then: the game is ongoing with two seats and, when the bot got X,
		// its opening move already placed
		require.NoError(t, err)
		assert.True(t, game.IsOngoing())
		require.Len(t, game.Players, 2)

		var botPlayer *entity.Player
		for _, p := range game.Players {
			if p.IsBot() {
				botPlayer = p
			}
		}
		require.NotNil(t, botPlayer)

		if botPlayer.Mark == entity.PlayerX {
			assert.Equal(t, entity.PlayerO, game.Turn)
		} else {
			assert.Equal(t, entity.PlayerX, game.Turn)
		}
	})

	t.Run("Joining by ID seats the second player as O", func(t *testing.T) {
		// Given: a private game created by the first player
		gamePlay, players, _, _, _ := newTestGamePlay(t)

		first, err := players.GetOrCreatePlayer(ctx, "first")
		require.NoError(t, err)
		game, err := gamePlay.GetOrCreateGame(ctx, first, entity.PrivateType, entity.DefaultSize, entity.DefaultWinLength)
		require.NoError(t, err)
		assert.True(t, game.IsWaiting())

		_, err = players.GetOrCreatePlayer(ctx, "second")
		require.NoError(t, err)

		// When: the second player joins by game ID
		joined, err := gamePlay.JoinGameByID(ctx, game.ID, "second")

		// Then: the game starts with both seats taken
		require.NoError(t, err)
		assert.True(t, joined.IsOngoing())
		require.Len(t, joined.Players, 2)
		assert.Equal(t, entity.PlayerO, joined.Players[1].Mark)
	})

	t.Run("A third player cannot join a full game", func(t *testing.T) {
		// Given: a game with both seats taken
		gamePlay, players, _, _, _ := newTestGamePlay(t)

		first, err := players.GetOrCreatePlayer(ctx, "first")
		require.NoError(t, err)
		game, err := gamePlay.GetOrCreateGame(ctx, first, entity.PrivateType, entity.DefaultSize, entity.DefaultWinLength)
		require.NoError(t, err)

		_, err = players.GetOrCreatePlayer(ctx, "second")
		require.NoError(t, err)
		_, err = gamePlay.JoinGameByID(ctx, game.ID, "second")
		require.NoError(t, err)

		_, err = players.GetOrCreatePlayer(ctx, "third")
		require.NoError(t, err)

		// When: a third player tries the same game
		_, err = gamePlay.JoinGameByID(ctx, game.ID, "third")

		// Then: the seat is refused
		assert.ErrorIs(t, err, apperror.ErrGameAlreadyExists)
	})

	t.Run("Public matchmaking hands out the waiting game once", func(t *testing.T) {
		// Given: a public game waiting for an opponent
		gamePlay, players, _, _, _ := newTestGamePlay(t)

		first, err := players.GetOrCreatePlayer(ctx, "first")
		require.NoError(t, err)
		created, err := gamePlay.GetOrCreateGame(ctx, first, entity.PublicType, entity.DefaultSize, entity.DefaultWinLength)
		require.NoError(t, err)

		_, err = players.GetOrCreatePlayer(ctx, "second")
		require.NoError(t, err)

		// When: another player asks for a public match
		joined, err := gamePlay.JoinWaitingPublicGame(ctx, "second")

		// Then: they land in the waiting game, which is no longer offered
		require.NoError(t, err)
		assert.Equal(t, created.ID, joined.ID)

		_, err = players.GetOrCreatePlayer(ctx, "third")
		require.NoError(t, err)
		_, err = gamePlay.JoinWaitingPublicGame(ctx, "third")
		assert.Error(t, err)
	})
}
