// internal/wire/wire.go
package wire

import (
	"net/http"
	"time"

	"ticket-desk/internal/adaptor"
	"ticket-desk/internal/data/draft"
	"ticket-desk/internal/data/gateway"
	"ticket-desk/internal/data/repository"
	"ticket-desk/internal/usecase"
	"ticket-desk/pkg/middleware"
	"ticket-desk/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring initializes all dependencies.
func Wiring(repo *repository.Repository, rdb *redis.Client, config *utils.Config, logger *zap.Logger) *App {
	backendTimeout := time.Duration(config.Backend.TimeoutSeconds) * time.Second
	seats := gateway.NewSeatClient(config.Backend.BaseURL, backendTimeout, logger)
	booking := gateway.NewBookingClient(config.Backend.BaseURL, backendTimeout, logger)
	drafts := draft.NewRedisStore(rdb, time.Duration(config.Session.DraftTTLMinutes)*time.Minute, logger)

	service := usecase.NewService(repo, seats, booking, drafts, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireSession(r, handler.Session)
	wireHistory(r, handler.History)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
