package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vanishlabs/vanishing-tictactoe-backend/internal/apperror"
	"github.com/vanishlabs/vanishing-tictactoe-backend/internal/entity"
	"github.com/vanishlabs/vanishing-tictactoe-backend/internal/pkg"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
	ListIDs(ctx context.Context) ([]string, error)
}

type archiveRepo interface {
	Record(ctx context.Context, game *entity.Game, finishedAt time.Time) error
}

// GameManager is the session registry: it owns the mapping from session ids
// to game instances and serializes all operations on one game, because the
// engine itself assumes exclusive access.
type GameManager struct {
	logger      *slog.Logger
	gameRepo    gameRepo
	archiveRepo archiveRepo

	locksMutex sync.Mutex
	locks      map[string]*sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, archiveRepo archiveRepo) *GameManager {
	return &GameManager{
		logger: logger,

		gameRepo:    gameRepo,
		archiveRepo: archiveRepo,

		locks: make(map[string]*sync.Mutex),
	}
}

// CreateGame registers a fresh game under a new session id.
func (that *GameManager) CreateGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(pkg.GenerateSessionID())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeTurn applies one move for the acting player, enforcing that it is in
// fact that player's turn. The returned move is the coordinate vanished by
// the piece cap, if the placement removed one.
func (that *GameManager) MakeTurn(ctx context.Context, id string, player entity.Player, row, col int) (*entity.Game, *entity.Move, error) {
	lock := that.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game: %w", err)
	}

	if !game.Outcome.IsTerminal() && game.Turn != player {
		return nil, nil, fmt.Errorf("%w: it's %s's turn", apperror.ErrNotYourTurn, game.Turn)
	}

	vanished, err := game.MakeMove(row, col)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.Outcome.IsTerminal() {
		that.archiveGame(ctx, game)
	}

	return game, vanished, nil
}

// ResetGame restores a session's game to the initial state, whatever state
// it is in now.
func (that *GameManager) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	lock := that.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game.Reset()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Info("game reset", "gameID", id)

	return game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	lock := that.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.locksMutex.Lock()
	delete(that.locks, id)
	that.locksMutex.Unlock()

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

func (that *GameManager) ListGames(ctx context.Context) ([]string, error) {
	ids, err := that.gameRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return ids, nil
}

// archiveGame logs the concluded match. Archiving is best effort and never
// fails the move that ended the game.
func (that *GameManager) archiveGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "archiveGame", "gameID", game.ID)

	if err := that.archiveRepo.Record(ctx, game, time.Now().UTC()); err != nil {
		log.Error("failed to archive game", "error", err)
		return
	}

	log.Info("game archived", "outcome", game.Outcome.String())
}

func (that *GameManager) sessionLock(id string) *sync.Mutex {
	that.locksMutex.Lock()
	defer that.locksMutex.Unlock()

	lock, ok := that.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[id] = lock
	}

	return lock
}
