package rest

import "github.com/vanishlabs/vanishing-tictactoe-backend/internal/entity"

// MoveRequest is the body of POST /game/{id}/move. Row and col are pointers
// so that absent fields can be told apart from zero.
type MoveRequest struct {
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
	Player string `json:"player"`
}

// GameResponse is the serialization contract for one game's full state.
type GameResponse struct {
	GameID        string                                          `json:"game_id"`
	Board         [entity.BoardSize][entity.BoardSize]entity.Cell `json:"board"`
	CurrentPlayer entity.Player                                   `json:"current_player"`
	Outcome       entity.Outcome                                  `json:"outcome"`
	Winner        *entity.Player                                  `json:"winner"`
	MoveHistoryX  []entity.Move                                   `json:"move_history_x"`
	MoveHistoryO  []entity.Move                                   `json:"move_history_o"`
	OldestPieceX  *entity.Move                                    `json:"oldest_piece_x"`
	OldestPieceO  *entity.Move                                    `json:"oldest_piece_o"`
	WillVanishX   bool                                            `json:"will_vanish_x"`
	WillVanishO   bool                                            `json:"will_vanish_o"`
	Vanished      *entity.Move                                    `json:"vanished,omitempty"`
}

// GameListResponse lists the active session ids.
type GameListResponse struct {
	GameIDs    []string `json:"game_ids"`
	TotalGames int      `json:"total_games"`
}

// ErrorResponse carries a machine-readable reason code next to the message.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newGameResponse(game *entity.Game) GameResponse {
	response := GameResponse{
		GameID:        game.ID,
		Board:         game.Board,
		CurrentPlayer: game.Turn,
		Outcome:       game.Outcome,
		MoveHistoryX:  game.History(entity.PlayerX),
		MoveHistoryO:  game.History(entity.PlayerO),
		WillVanishX:   game.WillVanishNext(entity.PlayerX),
		WillVanishO:   game.WillVanishNext(entity.PlayerO),
	}

	if winner, ok := game.Outcome.Winner(); ok {
		response.Winner = &winner
	}

	if oldest, ok := game.OldestPiece(entity.PlayerX); ok {
		response.OldestPieceX = &oldest
	}

	if oldest, ok := game.OldestPiece(entity.PlayerO); ok {
		response.OldestPieceO = &oldest
	}

	return response
}
