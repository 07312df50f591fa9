package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vanishlabs/vanishing-tictactoe-backend/internal/entity"
)

// ArchiveRepository records concluded matches. The hot game state lives in
// Redis; this table is an append-only log of how each match ended.
type ArchiveRepository interface {
	Record(ctx context.Context, game *entity.Game, finishedAt time.Time) error
}

type dbArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &dbArchive{
		conn: conn,
	}
}

func (that *dbArchive) Record(ctx context.Context, game *entity.Game, finishedAt time.Time) error {
	var winner sql.NullString
	if player, ok := game.Outcome.Winner(); ok {
		winner = sql.NullString{String: player.String(), Valid: true}
	}

	query := `INSERT INTO matches (game_id, outcome, winner, finished_at) VALUES (?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, game.ID, game.Outcome.String(), winner, finishedAt)
	if err != nil {
		return fmt.Errorf("failed to record match: %w", err)
	}

	return nil
}
