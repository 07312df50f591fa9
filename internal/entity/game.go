package entity

import (
	"fmt"

	"github.com/vanishlabs/vanishing-tictactoe-backend/internal/apperror"
)

const (
	// BoardSize is the side length of the square board.
	BoardSize = 3

	// MaxPieces is how many pieces one player may hold at once. Placing
	// another piece vanishes that player's oldest one first.
	MaxPieces = 3
)

// winLines enumerates every three-in-a-row line: rows, columns, diagonals.
var winLines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Game holds one match's authoritative state. It performs no locking of its
// own; callers that share an instance across goroutines must serialize access.
type Game struct {
	ID       string                     `json:"id"`
	Board    [BoardSize][BoardSize]Cell `json:"board"`
	HistoryX []Move                     `json:"move_history_x"`
	HistoryO []Move                     `json:"move_history_o"`
	Turn     Player                     `json:"player_turn"`
	Outcome  Outcome                    `json:"outcome"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:       id,
		HistoryX: []Move{},
		HistoryO: []Move{},
		Turn:     PlayerX,
		Outcome:  OutcomeInProgress,
	}
}

// MakeMove places a piece for the player whose turn it is. When that player
// already holds MaxPieces pieces, the oldest one is removed first and its
// coordinate is returned. Rejected moves leave the game untouched.
func (that *Game) MakeMove(row, col int) (*Move, error) {
	if that.Outcome.IsTerminal() {
		return nil, apperror.ErrGameConcluded
	}

	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return nil, fmt.Errorf("%w: (%d,%d)", apperror.ErrOutOfBounds, row, col)
	}

	if that.Board[row][col] != CellEmpty {
		return nil, fmt.Errorf("%w: (%d,%d)", apperror.ErrCellOccupied, row, col)
	}

	mover := that.Turn
	history := that.history(mover)

	var vanished *Move
	if len(*history) == MaxPieces {
		oldest := (*history)[0]
		that.Board[oldest.Row][oldest.Col] = CellEmpty
		*history = (*history)[1:]
		vanished = &oldest
	}

	that.Board[row][col] = mover.Cell()
	*history = append(*history, Move{Row: row, Col: col})

	switch {
	case that.hasThreeInARow(mover):
		if mover == PlayerX {
			that.Outcome = OutcomeXWins
		} else {
			that.Outcome = OutcomeOWins
		}
	case that.boardFull():
		that.Outcome = OutcomeDraw
	}

	// The turn passes even when the move just concluded the game; the
	// winner travels in Outcome, not in Turn.
	that.Turn = mover.Opponent()

	return vanished, nil
}

// OldestPiece returns the coordinate that will vanish next for the player,
// or false if the player holds no pieces.
func (that *Game) OldestPiece(player Player) (Move, bool) {
	history := that.history(player)
	if len(*history) == 0 {
		return Move{}, false
	}

	return (*history)[0], true
}

// WillVanishNext reports whether the player's next placement removes a piece.
func (that *Game) WillVanishNext(player Player) bool {
	return len(*that.history(player)) >= MaxPieces
}

// History returns a copy of the player's surviving placements, oldest first.
func (that *Game) History(player Player) []Move {
	history := *that.history(player)

	out := make([]Move, len(history))
	copy(out, history)

	return out
}

// Reset restores the initial state unconditionally: empty board, empty
// histories, X to move, match in progress.
func (that *Game) Reset() {
	that.Board = [BoardSize][BoardSize]Cell{}
	that.HistoryX = []Move{}
	that.HistoryO = []Move{}
	that.Turn = PlayerX
	that.Outcome = OutcomeInProgress
}

func (that *Game) history(player Player) *[]Move {
	if player == PlayerX {
		return &that.HistoryX
	}
	return &that.HistoryO
}

func (that *Game) hasThreeInARow(player Player) bool {
	mark := player.Cell()

	for _, line := range winLines {
		if that.Board[line[0].Row][line[0].Col] == mark &&
			that.Board[line[1].Row][line[1].Col] == mark &&
			that.Board[line[2].Row][line[2].Col] == mark {
			return true
		}
	}

	return false
}

func (that *Game) boardFull() bool {
	for _, row := range that.Board {
		for _, cell := range row {
			if cell == CellEmpty {
				return false
			}
		}
	}

	return true
}
