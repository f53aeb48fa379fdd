package websocket

import (
	"encoding/json"

	"github.com/gridplay/tictactoe-backend/internal/entity"
)

// Message is the envelope for every client and server frame: an action name
// and an action-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type PlayerRef struct {
	ID string `json:"id"`
}

type ConnectPayload struct {
	Player PlayerRef `json:"player"`
}

type NewGamePayload struct {
	Player PlayerRef `json:"player"`
	Game   struct {
		Type      string `json:"type"`
		Size      int    `json:"size"`
		WinLength int    `json:"win_length"`
	} `json:"game"`
}

type JoinGamePayload struct {
	Player PlayerRef `json:"player"`
	Game   struct {
		ID string `json:"id"`
	} `json:"game"`
}

type TurnPayload struct {
	Player PlayerRef `json:"player"`
	Cell   int       `json:"cell"`
}

// ResponsePayload is sent back for every action; Error is set instead of the
// game state when the action failed in a way the client should display.
type ResponsePayload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *entity.Game   `json:"game,omitempty"`
	Error  string         `json:"error,omitempty"`
}
