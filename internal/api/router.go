package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/numbermaster/internal/api/apierr"
	"github.com/mcoot/numbermaster/internal/api/handler"
	"github.com/mcoot/numbermaster/internal/api/middleware"
	"github.com/mcoot/numbermaster/internal/api/response"
	"github.com/mcoot/numbermaster/internal/services/coordinator"
	"github.com/mcoot/numbermaster/internal/services/results"
	"github.com/mcoot/numbermaster/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Coordinator *coordinator.Coordinator
	Archiver    *results.Archiver
	Storage     storage.Storage
	// WebSocket is mounted at /ws
	WebSocket http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	statsHandler := handler.NewStatsHandler(cfg.Coordinator)
	resultsHandler := handler.NewResultsHandler(cfg.Archiver, cfg.Logger)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// Game transport
	if cfg.WebSocket != nil {
		ws := r.PathPrefix("/ws").Subrouter()
		ws.Use(recoveryMiddleware)
		ws.Use(loggingMiddleware)
		ws.Handle("", cfg.WebSocket).Methods(http.MethodGet)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler(cfg.Storage)).Methods(http.MethodGet)
	api.HandleFunc("/stats", statsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/results", resultsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/{name}/record", resultsHandler.PlayerRecord).Methods(http.MethodGet)

	return r
}

func healthHandler(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			apierr.WriteError(w, apierr.NewStoreUnavailableError())
			return
		}
		response.JSON(w, http.StatusOK, response.Health{Status: "ok", Store: "ok"})
	}
}
