package entity

import (
	"fmt"
	"math/rand"

	"github.com/gridplay/tictactoe-backend/internal/apperror"
	"github.com/gridplay/tictactoe-backend/internal/engine"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = engine.EmptyCell
)

const (
	PublicType  = "public"
	PrivateType = "private"
	WithBotType = "bot"
)

const (
	// DefaultSize and DefaultWinLength describe the classic 3x3 game.
	DefaultSize      = 3
	DefaultWinLength = 3

	// LargeSize and LargeWinLength describe the 5x5 variant.
	LargeSize      = 5
	LargeWinLength = 4
)

type Game struct {
	ID        string    `json:"id"`
	Board     []string  `json:"board"`
	Size      int       `json:"size"`
	WinLength int       `json:"win_length"`
	Winner    string    `json:"winner"`
	Status    string    `json:"status"`
	Turn      string    `json:"turn"`
	Players   []*Player `json:"players,omitempty"`
	Type      string    `json:"type,omitempty"`
}

func NewGame(id, gameType string, size, winLength int) *Game {
	board := make([]string, size*size)
	for i := range board {
		board[i] = EmptyCell
	}

	return &Game{
		ID:        id,
		Board:     board,
		Size:      size,
		WinLength: winLength,
		Turn:      PlayerX,
		Status:    StatusWaiting,
		Type:      gameType,
	}
}

// DetermineGameResult returns the winning mark, PlayerTie on a full board
// without a winner, or EmptyCell while the game continues.
func (that *Game) DetermineGameResult() string {
	if winner := engine.DetectWinner(that.Board, that.Size, that.WinLength); winner != EmptyCell {
		return winner
	}

	if engine.IsFull(that.Board) {
		return PlayerTie
	}

	return EmptyCell
}

func (that *Game) UpdateGameState() {
	switch winner := that.DetermineGameResult(); winner {
	// one player wins
	case PlayerX, PlayerO:
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = ""
	// tie
	case PlayerTie:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = ""
	// game continue
	default:
		that.Status = StatusOngoing
	}
}

func (that *Game) MakeTurn(playerMark string, cell int) error {
	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[cell] = playerMark

	if that.Turn == PlayerX {
		that.Turn = PlayerO
	} else {
		that.Turn = PlayerX
	}

	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", apperror.ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsDraw() bool {
	return that.Winner == PlayerTie
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

// OpponentMark returns the mark playing against the given one.
func OpponentMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that *Game) GetRandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
