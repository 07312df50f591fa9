package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrUnknownCell    = errors.New("unknown cell value")
	ErrUnknownOutcome = errors.New("unknown outcome")
)

// Player is one of the two sides of a match. The zero value is invalid.
type Player uint8

const (
	PlayerX Player = iota + 1
	PlayerO
)

func (that Player) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return fmt.Sprintf("Player(%d)", uint8(that))
	}
}

func (that Player) Opponent() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Cell returns the mark this player leaves on the board.
func (that Player) Cell() Cell {
	if that == PlayerX {
		return CellX
	}
	return CellO
}

func (that Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.String())
}

func (that *Player) UnmarshalJSON(data []byte) error {
	var symbol string
	if err := json.Unmarshal(data, &symbol); err != nil {
		return fmt.Errorf("failed to unmarshal player: %w", err)
	}

	player, err := ParsePlayer(symbol)
	if err != nil {
		return err
	}

	*that = player

	return nil
}

// ParsePlayer maps the wire symbols "X" and "O" to a Player.
func ParsePlayer(symbol string) (Player, error) {
	switch symbol {
	case "X":
		return PlayerX, nil
	case "O":
		return PlayerO, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlayer, symbol)
	}
}

// Cell is the content of one board square.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellX
	CellO
)

// MarshalJSON encodes an empty cell as null and an occupied one as the
// owning player's symbol.
func (that Cell) MarshalJSON() ([]byte, error) {
	switch that {
	case CellEmpty:
		return []byte("null"), nil
	case CellX:
		return json.Marshal(PlayerX.String())
	case CellO:
		return json.Marshal(PlayerO.String())
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCell, uint8(that))
	}
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*that = CellEmpty
		return nil
	}

	var player Player
	if err := json.Unmarshal(data, &player); err != nil {
		return fmt.Errorf("failed to unmarshal cell: %w", err)
	}

	*that = player.Cell()

	return nil
}

// Outcome classifies a match as still running or terminal.
type Outcome uint8

const (
	OutcomeInProgress Outcome = iota
	OutcomeXWins
	OutcomeOWins
	OutcomeDraw
)

func (that Outcome) String() string {
	switch that {
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeXWins:
		return "x_wins"
	case OutcomeOWins:
		return "o_wins"
	case OutcomeDraw:
		return "draw"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(that))
	}
}

// IsTerminal reports whether no further moves are accepted.
func (that Outcome) IsTerminal() bool {
	return that != OutcomeInProgress
}

// Winner returns the winning player, if this outcome names one.
func (that Outcome) Winner() (Player, bool) {
	switch that {
	case OutcomeXWins:
		return PlayerX, true
	case OutcomeOWins:
		return PlayerO, true
	default:
		return 0, false
	}
}

func (that Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.String())
}

func (that *Outcome) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("failed to unmarshal outcome: %w", err)
	}

	switch name {
	case "in_progress":
		*that = OutcomeInProgress
	case "x_wins":
		*that = OutcomeXWins
	case "o_wins":
		*that = OutcomeOWins
	case "draw":
		*that = OutcomeDraw
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, name)
	}

	return nil
}

// Move is one placed coordinate, recorded at the moment of placement.
type Move struct {
	Row int
	Col int
}

// MarshalJSON encodes a move as a [row, col] pair.
func (that Move) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{that.Row, that.Col})
}

func (that *Move) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("failed to unmarshal move: %w", err)
	}

	that.Row, that.Col = pair[0], pair[1]

	return nil
}
