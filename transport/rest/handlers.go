package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vanishlabs/vanishing-tictactoe-backend/internal/apperror"
	"github.com/vanishlabs/vanishing-tictactoe-backend/internal/entity"
	"github.com/vanishlabs/vanishing-tictactoe-backend/internal/repository"
)

const (
	codeInvalidInput = "invalid_input"
	codeIllegalMove  = "illegal_move"
	codeTurnMismatch = "turn_mismatch"
	codeNotFound     = "not_found"
	codeInternal     = "internal_error"
)

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleCreateGame")

	game, err := that.manager.CreateGame(r.Context())
	if err != nil {
		log.Error("failed to create game", "error", err)
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, newGameResponse(game))
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleMove")
	gameID := r.PathValue("id")

	var request MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeErrorResponse(w, http.StatusBadRequest, codeInvalidInput, "malformed request body")
		return
	}

	if request.Row == nil || request.Col == nil {
		that.writeErrorResponse(w, http.StatusBadRequest, codeInvalidInput, "row and col are required")
		return
	}

	player, err := entity.ParsePlayer(request.Player)
	if err != nil {
		that.writeErrorResponse(w, http.StatusBadRequest, codeInvalidInput, "player must be \"X\" or \"O\"")
		return
	}

	game, vanished, err := that.manager.MakeTurn(r.Context(), gameID, player, *request.Row, *request.Col)
	if err != nil {
		log.Warn("move rejected", "gameID", gameID, "error", err)
		that.writeError(w, err)
		return
	}

	response := newGameResponse(game)
	response.Vanished = vanished

	that.writeJSON(w, http.StatusOK, response)
}

func (that *Server) handleState(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleState")
	gameID := r.PathValue("id")

	game, err := that.manager.GetGame(r.Context(), gameID)
	if err != nil {
		log.Warn("failed to get game", "gameID", gameID, "error", err)
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game))
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleReset")
	gameID := r.PathValue("id")

	game, err := that.manager.ResetGame(r.Context(), gameID)
	if err != nil {
		log.Warn("failed to reset game", "gameID", gameID, "error", err)
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game))
}

func (that *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleDelete")
	gameID := r.PathValue("id")

	if err := that.manager.DeleteGame(r.Context(), gameID); err != nil {
		log.Warn("failed to delete game", "gameID", gameID, "error", err)
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleListGames")

	ids, err := that.manager.ListGames(r.Context())
	if err != nil {
		log.Error("failed to list games", "error", err)
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, GameListResponse{
		GameIDs:    ids,
		TotalGames: len(ids),
	})
}

// writeError maps the error taxonomy onto HTTP statuses and reason codes.
func (that *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrGameNotFound):
		that.writeErrorResponse(w, http.StatusNotFound, codeNotFound, repository.ErrGameNotFound.Error())
	case errors.Is(err, apperror.ErrOutOfBounds):
		that.writeErrorResponse(w, http.StatusBadRequest, codeInvalidInput, apperror.ErrOutOfBounds.Error())
	case errors.Is(err, apperror.ErrCellOccupied):
		that.writeErrorResponse(w, http.StatusBadRequest, codeIllegalMove, apperror.ErrCellOccupied.Error())
	case errors.Is(err, apperror.ErrGameConcluded):
		that.writeErrorResponse(w, http.StatusBadRequest, codeIllegalMove, apperror.ErrGameConcluded.Error())
	case errors.Is(err, apperror.ErrNotYourTurn):
		that.writeErrorResponse(w, http.StatusBadRequest, codeTurnMismatch, apperror.ErrNotYourTurn.Error())
	default:
		that.writeErrorResponse(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

func (that *Server) writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	that.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
