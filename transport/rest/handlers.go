package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gridplay/tictactoe-backend/internal/engine"
	"github.com/gridplay/tictactoe-backend/internal/entity"
)

var (
	errBoardNotArray   = errors.New("board must be an array of cells")
	errMissingGeometry = errors.New("size and winLength are required")
	errBoardLength     = errors.New("board length must equal size*size")
)

type Handlers interface {
	Ping(w http.ResponseWriter, r *http.Request)

	ComputeWinner(w http.ResponseWriter, r *http.Request)
	SelectAIMove(w http.ResponseWriter, r *http.Request)

	GetScore(w http.ResponseWriter, r *http.Request)
	ResetScore(w http.ResponseWriter, r *http.Request)
}

type scoreService interface {
	GetScores(ctx context.Context) (map[string]int, error)
	ResetScores(ctx context.Context) error
}

type handlers struct {
	logger       *slog.Logger
	scoreService scoreService
}

func NewHandlers(logger *slog.Logger, scoreService scoreService) Handlers {
	return &handlers{
		logger:       logger,
		scoreService: scoreService,
	}
}

// boardRequest is the payload shared by the winner and move endpoints. Board
// stays a RawMessage until validated, so a non-array payload is rejected
// instead of half-decoded.
type boardRequest struct {
	Board     json.RawMessage `json:"board"`
	Size      int             `json:"size"`
	WinLength int             `json:"winLength"`

	// optional marks for the move endpoint
	AIMark       string `json:"aiMark,omitempty"`
	OpponentMark string `json:"opponentMark,omitempty"`
}

type winnerResponse struct {
	Winner string `json:"winner"`
	IsDraw bool   `json:"isDraw"`
}

type moveResponse struct {
	Index int `json:"index"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// ComputeWinner evaluates a board snapshot and reports the winner and the
// caller-facing draw flag.
func (that *handlers) ComputeWinner(w http.ResponseWriter, r *http.Request) {
	board, req, err := that.decodeBoardRequest(r)
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	winner := engine.DetectWinner(board, req.Size, req.WinLength)
	isDraw := winner == engine.EmptyCell && engine.IsFull(board)

	that.writeJSON(w, http.StatusOK, winnerResponse{Winner: winner, IsDraw: isDraw})
}

// SelectAIMove asks the engine for the computer's move on the given snapshot.
// Index -1 means no move is available.
func (that *handlers) SelectAIMove(w http.ResponseWriter, r *http.Request) {
	board, req, err := that.decodeBoardRequest(r)
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	aiMark := req.AIMark
	if aiMark == "" {
		aiMark = entity.PlayerO
	}

	opponentMark := req.OpponentMark
	if opponentMark == "" {
		opponentMark = entity.OpponentMark(aiMark)
	}

	index := engine.SelectMove(board, req.Size, req.WinLength, aiMark, opponentMark)

	that.writeJSON(w, http.StatusOK, moveResponse{Index: index})
}

func (that *handlers) GetScore(w http.ResponseWriter, r *http.Request) {
	scores, err := that.scoreService.GetScores(r.Context())
	if err != nil {
		that.logger.Error("failed to get scores", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to get scores"})
		return
	}

	that.writeJSON(w, http.StatusOK, scores)
}

func (that *handlers) ResetScore(w http.ResponseWriter, r *http.Request) {
	if err := that.scoreService.ResetScores(r.Context()); err != nil {
		that.logger.Error("failed to reset scores", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to reset scores"})
		return
	}

	that.writeJSON(w, http.StatusOK, map[string]int{
		entity.PlayerX: 0,
		entity.PlayerO: 0,
	})
}

// decodeBoardRequest parses and validates the shared board payload. The
// engine assumes a well-formed board, so everything it cannot defend against
// is rejected here.
func (that *handlers) decodeBoardRequest(r *http.Request) ([]string, *boardRequest, error) {
	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, errors.New("invalid JSON payload")
	}

	var board []string
	if len(req.Board) == 0 || json.Unmarshal(req.Board, &board) != nil {
		return nil, nil, errBoardNotArray
	}

	if req.Size <= 0 || req.WinLength <= 0 {
		return nil, nil, errMissingGeometry
	}

	if len(board) != req.Size*req.Size {
		return nil, nil, errBoardLength
	}

	return board, &req, nil
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
