package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanishlabs/vanishing-tictactoe-backend/internal/apperror"
)

// playAll applies the moves in order, failing the test on any rejection.
func playAll(t *testing.T, game *Game, moves ...Move) {
	t.Helper()

	for _, move := range moves {
		_, err := game.MakeMove(move.Row, move.Col)
		require.NoError(t, err, "move (%d,%d)", move.Row, move.Col)
	}
}

// pieces collects the coordinates currently marked for a player.
func pieces(game *Game, player Player) map[Move]bool {
	found := make(map[Move]bool)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if game.Board[row][col] == player.Cell() {
				found[Move{row, col}] = true
			}
		}
	}
	return found
}

func TestGame_MakeMove(t *testing.T) {
	t.Run("First move marks the cell and passes the turn", func(t *testing.T) {
		// Given: a fresh game
		game := NewGame("123")

		// When: X places at (0,0)
		vanished, err := game.MakeMove(0, 0)

		// Then: the cell is marked, nothing vanished, and it is O's turn
		require.NoError(t, err)
		assert.Nil(t, vanished)
		assert.Equal(t, CellX, game.Board[0][0])
		assert.Equal(t, []Move{{0, 0}}, game.HistoryX)
		assert.Equal(t, PlayerO, game.Turn)
		assert.Equal(t, OutcomeInProgress, game.Outcome)
	})

	t.Run("Out of bounds move is rejected without state change", func(t *testing.T) {
		// Given: a fresh game
		game := NewGame("123")

		// When: a move outside the board is attempted
		vanished, err := game.MakeMove(3, 0)

		// Then: the move is rejected and nothing changed
		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
		assert.Nil(t, vanished)
		assert.Equal(t, NewGame("123"), game)
	})

	t.Run("Negative coordinates are rejected", func(t *testing.T) {
		game := NewGame("123")

		_, err := game.MakeMove(-1, 2)

		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
	})

	t.Run("Occupied cell is rejected without state change", func(t *testing.T) {
		// Given: a game where (1,1) is taken by X
		game := NewGame("123")
		playAll(t, game, Move{1, 1})

		// When: O tries the same cell
		_, err := game.MakeMove(1, 1)

		// Then: the move is rejected, board and turn are unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, CellX, game.Board[1][1])
		assert.Equal(t, PlayerO, game.Turn)
		assert.Empty(t, game.HistoryO)
	})

	t.Run("Moves after a win are rejected until reset", func(t *testing.T) {
		// Given: X completed row 0
		game := NewGame("123")
		playAll(t, game,
			Move{0, 0}, Move{1, 0},
			Move{0, 1}, Move{1, 1},
			Move{0, 2},
		)
		require.Equal(t, OutcomeXWins, game.Outcome)

		// When: any further move is attempted
		_, err := game.MakeMove(2, 2)

		// Then: it is rejected as a concluded game
		require.ErrorIs(t, err, apperror.ErrGameConcluded)

		// And: reset makes the board playable again
		game.Reset()
		_, err = game.MakeMove(2, 2)
		require.NoError(t, err)
	})

	t.Run("Precondition order puts concluded before bounds", func(t *testing.T) {
		// Given: a concluded game
		game := NewGame("123")
		playAll(t, game,
			Move{0, 0}, Move{1, 0},
			Move{0, 1}, Move{1, 1},
			Move{0, 2},
		)

		// When: an out-of-bounds move is attempted on it
		_, err := game.MakeMove(9, 9)

		// Then: the concluded rejection wins
		require.ErrorIs(t, err, apperror.ErrGameConcluded)
	})
}

func TestGame_VanishRule(t *testing.T) {
	t.Run("Fourth piece removes the oldest and only the oldest", func(t *testing.T) {
		// Given: X holds three pieces, O holds three pieces
		game := NewGame("123")
		playAll(t, game,
			Move{0, 0}, Move{1, 1},
			Move{0, 1}, Move{0, 2},
			Move{2, 2}, Move{2, 0},
		)
		require.Equal(t, []Move{{0, 0}, {0, 1}, {2, 2}}, game.HistoryX)
		require.Equal(t, []Move{{1, 1}, {0, 2}, {2, 0}}, game.HistoryO)

		// When: X places a fourth piece
		vanished, err := game.MakeMove(1, 0)

		// Then: X's oldest piece (0,0) vanished from board and history
		require.NoError(t, err)
		require.NotNil(t, vanished)
		assert.Equal(t, Move{0, 0}, *vanished)
		assert.Equal(t, CellEmpty, game.Board[0][0])
		assert.Equal(t, []Move{{0, 1}, {2, 2}, {1, 0}}, game.HistoryX)
		assert.Equal(t, PlayerO, game.Turn)

		// And: O's pieces were untouched
		assert.Equal(t, []Move{{1, 1}, {0, 2}, {2, 0}}, game.HistoryO)
	})

	t.Run("No piece vanishes while a player holds fewer than three", func(t *testing.T) {
		// Given: a fresh game
		game := NewGame("123")

		// When: the opening moves are played
		for _, move := range []Move{{0, 0}, {1, 1}, {0, 1}, {0, 2}, {2, 2}} {
			vanished, err := game.MakeMove(move.Row, move.Col)

			// Then: none of them removes anything
			require.NoError(t, err)
			assert.Nil(t, vanished)
		}
	})

	t.Run("History length never exceeds the cap over a long game", func(t *testing.T) {
		// Given: a long scripted exchange with plenty of vanishes
		game := NewGame("123")
		script := []Move{
			{0, 0}, {1, 1}, {0, 1}, {0, 2}, {2, 2}, {2, 0},
			{1, 0}, {1, 2}, {0, 0}, {2, 1}, {0, 2}, {1, 1},
			{2, 0}, {0, 1},
		}

		// When/Then: after every successful move both histories stay in [0,3]
		// and the board matches the histories cell for cell
		for _, move := range script {
			if game.Outcome.IsTerminal() {
				break
			}

			_, err := game.MakeMove(move.Row, move.Col)
			require.NoError(t, err, "move (%d,%d)", move.Row, move.Col)

			assert.LessOrEqual(t, len(game.HistoryX), MaxPieces)
			assert.LessOrEqual(t, len(game.HistoryO), MaxPieces)

			for _, player := range []Player{PlayerX, PlayerO} {
				marked := pieces(game, player)
				assert.Len(t, marked, len(game.History(player)))
				for _, held := range game.History(player) {
					assert.True(t, marked[held], "history entry (%d,%d) missing on board", held.Row, held.Col)
				}
			}
		}
	})

	t.Run("At most one side ever holds a completed line", func(t *testing.T) {
		// Given: a game steered close to simultaneous threats
		game := NewGame("123")
		script := []Move{
			{0, 0}, {2, 0}, {0, 1}, {2, 1}, {0, 2},
		}

		// When/Then: after every move only the mover can have a line
		for _, move := range script {
			if game.Outcome.IsTerminal() {
				break
			}

			_, err := game.MakeMove(move.Row, move.Col)
			require.NoError(t, err)

			winsX := game.hasThreeInARow(PlayerX)
			winsO := game.hasThreeInARow(PlayerO)
			assert.False(t, winsX && winsO, "both players hold a line at once")
		}

		require.Equal(t, OutcomeXWins, game.Outcome)
	})
}

func TestGame_SpecScenarios(t *testing.T) {
	t.Run("Opening exchange leaves X with three pieces and O to move", func(t *testing.T) {
		// Given/When: X(0,0) O(1,1) X(0,1) O(0,2) X(2,2)
		game := NewGame("123")
		playAll(t, game, Move{0, 0}, Move{1, 1}, Move{0, 1}, Move{0, 2}, Move{2, 2})

		// Then: X holds exactly its three placements, game still open
		assert.Equal(t, []Move{{0, 0}, {0, 1}, {2, 2}}, game.HistoryX)
		assert.Equal(t, OutcomeInProgress, game.Outcome)
		assert.Equal(t, PlayerO, game.Turn)
	})

	t.Run("Continuation vanishes X's opening piece", func(t *testing.T) {
		// Given: the opening exchange plus O(2,0)
		game := NewGame("123")
		playAll(t, game, Move{0, 0}, Move{1, 1}, Move{0, 1}, Move{0, 2}, Move{2, 2}, Move{2, 0})
		require.Equal(t, []Move{{1, 1}, {0, 2}, {2, 0}}, game.HistoryO)

		// When: X plays its fourth piece at (1,0)
		vanished, err := game.MakeMove(1, 0)

		// Then: (0,0) vanished and O is to move
		require.NoError(t, err)
		require.NotNil(t, vanished)
		assert.Equal(t, Move{0, 0}, *vanished)
		assert.Equal(t, CellEmpty, game.Board[0][0])
		assert.Equal(t, []Move{{0, 1}, {2, 2}, {1, 0}}, game.HistoryX)
		assert.Equal(t, PlayerO, game.Turn)
	})

	t.Run("Completing row zero wins for X", func(t *testing.T) {
		// Given: X working along row 0 while O plays elsewhere
		game := NewGame("123")
		playAll(t, game,
			Move{0, 0}, Move{1, 0},
			Move{0, 1}, Move{1, 1},
		)

		// When: X completes the row
		_, err := game.MakeMove(0, 2)

		// Then: X wins and the turn still passed to O
		require.NoError(t, err)
		assert.Equal(t, OutcomeXWins, game.Outcome)
		winner, ok := game.Outcome.Winner()
		require.True(t, ok)
		assert.Equal(t, PlayerX, winner)
		assert.Equal(t, PlayerO, game.Turn)
	})

	t.Run("Column and diagonal lines also win", func(t *testing.T) {
		// Given: O takes column 2 while X wanders
		game := NewGame("123")
		playAll(t, game,
			Move{0, 0}, Move{0, 2},
			Move{1, 0}, Move{1, 2},
			Move{1, 1}, Move{2, 2},
		)
		assert.Equal(t, OutcomeOWins, game.Outcome)

		// And: a diagonal win for X on a fresh board
		game = NewGame("456")
		playAll(t, game,
			Move{0, 0}, Move{0, 1},
			Move{1, 1}, Move{0, 2},
			Move{2, 2},
		)
		assert.Equal(t, OutcomeXWins, game.Outcome)
	})
}

func TestGame_TurnAlternation(t *testing.T) {
	t.Run("Turn alternates strictly and only on successful moves", func(t *testing.T) {
		// Given: a fresh game
		game := NewGame("123")
		require.Equal(t, PlayerX, game.Turn)

		// When: a rejected move happens
		_, err := game.MakeMove(5, 5)
		require.Error(t, err)

		// Then: the turn is unchanged
		assert.Equal(t, PlayerX, game.Turn)

		// And: every successful move flips it
		expected := PlayerX
		for _, move := range []Move{{0, 0}, {1, 1}, {2, 2}, {0, 2}} {
			require.Equal(t, expected, game.Turn)
			_, err = game.MakeMove(move.Row, move.Col)
			require.NoError(t, err)
			expected = expected.Opponent()
		}
	})
}

func TestGame_Draw(t *testing.T) {
	t.Run("Full board without a line is declared a draw", func(t *testing.T) {
		// A full board cannot arise from play under the piece cap, so the
		// state is constructed directly.
		game := NewGame("123")
		game.Board = [BoardSize][BoardSize]Cell{
			{CellX, CellO, CellX},
			{CellX, CellO, CellO},
			{CellO, CellX, CellX},
		}
		game.Board[1][2] = CellEmpty
		game.HistoryO = []Move{{1, 1}, {2, 0}}
		game.HistoryX = []Move{{0, 0}, {1, 0}, {2, 1}}
		game.Turn = PlayerO

		// When: O fills the last cell without making a line
		_, err := game.MakeMove(1, 2)

		// Then: the outcome is a draw
		require.NoError(t, err)
		assert.Equal(t, OutcomeDraw, game.Outcome)

		// And: further moves are rejected
		_, err = game.MakeMove(0, 0)
		require.ErrorIs(t, err, apperror.ErrGameConcluded)
	})
}

func TestGame_Queries(t *testing.T) {
	t.Run("OldestPiece tracks the head of the history", func(t *testing.T) {
		// Given: a fresh game
		game := NewGame("123")

		// Then: no oldest piece exists yet
		_, ok := game.OldestPiece(PlayerX)
		assert.False(t, ok)

		// When: X places twice
		playAll(t, game, Move{2, 2}, Move{1, 1}, Move{0, 0})

		// Then: X's oldest is its first placement
		oldest, ok := game.OldestPiece(PlayerX)
		require.True(t, ok)
		assert.Equal(t, Move{2, 2}, oldest)

		oldest, ok = game.OldestPiece(PlayerO)
		require.True(t, ok)
		assert.Equal(t, Move{1, 1}, oldest)
	})

	t.Run("WillVanishNext turns on at three held pieces", func(t *testing.T) {
		// Given: X holds three pieces
		game := NewGame("123")
		playAll(t, game, Move{0, 0}, Move{1, 1}, Move{0, 1}, Move{0, 2}, Move{2, 2})

		// Then: only X is at the cap
		assert.True(t, game.WillVanishNext(PlayerX))
		assert.False(t, game.WillVanishNext(PlayerO))
	})

	t.Run("History returns a copy", func(t *testing.T) {
		// Given: X holds a piece
		game := NewGame("123")
		playAll(t, game, Move{0, 0})

		// When: the returned slice is mutated
		history := game.History(PlayerX)
		history[0] = Move{2, 2}

		// Then: the game's own record is untouched
		assert.Equal(t, []Move{{0, 0}}, game.HistoryX)
	})
}

func TestGame_Reset(t *testing.T) {
	t.Run("Reset restores the initial state from mid-game", func(t *testing.T) {
		// Given: a game in full swing
		game := NewGame("123")
		playAll(t, game, Move{0, 0}, Move{1, 1}, Move{0, 1}, Move{0, 2}, Move{2, 2}, Move{2, 0}, Move{1, 0})

		// When: the game is reset
		game.Reset()

		// Then: it matches a brand-new game
		assert.Equal(t, NewGame("123"), game)
	})

	t.Run("Reset restores the initial state from a terminal one", func(t *testing.T) {
		// Given: a concluded game
		game := NewGame("123")
		playAll(t, game, Move{0, 0}, Move{1, 0}, Move{0, 1}, Move{1, 1}, Move{0, 2})
		require.True(t, game.Outcome.IsTerminal())

		// When: the game is reset
		game.Reset()

		// Then: board empty, histories empty, X to move, in progress
		assert.Equal(t, [BoardSize][BoardSize]Cell{}, game.Board)
		assert.Empty(t, game.HistoryX)
		assert.Empty(t, game.HistoryO)
		assert.Equal(t, PlayerX, game.Turn)
		assert.Equal(t, OutcomeInProgress, game.Outcome)
	})
}

func TestGame_JSONRoundTrip(t *testing.T) {
	t.Run("A mid-game state survives marshal and unmarshal", func(t *testing.T) {
		// Given: a game with vanished pieces and mixed history lengths
		game := NewGame("123")
		playAll(t, game, Move{0, 0}, Move{1, 1}, Move{0, 1}, Move{0, 2}, Move{2, 2}, Move{2, 0}, Move{1, 0})

		// When: the game goes through JSON
		raw, err := json.Marshal(game)
		require.NoError(t, err)

		var restored Game
		require.NoError(t, json.Unmarshal(raw, &restored))

		// Then: the restored game is identical
		assert.Equal(t, *game, restored)
	})

	t.Run("Empty cells serialize as null and marks as symbols", func(t *testing.T) {
		// Given: a game with a single X at (0,0)
		game := NewGame("123")
		playAll(t, game, Move{0, 0})

		// When: marshaled
		raw, err := json.Marshal(game)
		require.NoError(t, err)

		// Then: the wire form uses "X" and null
		assert.Contains(t, string(raw), `"board":[["X",null,null]`)
		assert.Contains(t, string(raw), `"player_turn":"O"`)
		assert.Contains(t, string(raw), `"outcome":"in_progress"`)
		assert.Contains(t, string(raw), `"move_history_x":[[0,0]]`)
	})
}
