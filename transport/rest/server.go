package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vanishlabs/vanishing-tictactoe-backend/internal/entity"
)

type gameManager interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, player entity.Player, row, col int) (*entity.Game, *entity.Move, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
	ListGames(ctx context.Context) ([]string, error)
}

type Server struct {
	logger  *slog.Logger
	manager gameManager
}

func New(logger *slog.Logger, manager gameManager) *Server {
	return &Server{
		logger:  logger,
		manager: manager,
	}
}

// Start - starts the HTTP server and blocks until the context is canceled
// or the listener fails.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      corsMiddleware(that.routes()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", that.handlePing)
	mux.HandleFunc("POST /game", that.handleCreateGame)
	mux.HandleFunc("GET /games", that.handleListGames)
	mux.HandleFunc("POST /game/{id}/move", that.handleMove)
	mux.HandleFunc("GET /game/{id}/state", that.handleState)
	mux.HandleFunc("POST /game/{id}/reset", that.handleReset)
	mux.HandleFunc("DELETE /game/{id}", that.handleDelete)

	return mux
}

// corsMiddleware mirrors the permissive browser policy the game client
// expects; preflight requests are answered here.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
