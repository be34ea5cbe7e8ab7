package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/numbermaster/internal/api/request"
	"github.com/mcoot/numbermaster/internal/api/response"
	"github.com/mcoot/numbermaster/internal/services/results"
)

// ResultsHandler serves the round results archive
type ResultsHandler struct {
	archiver *results.Archiver
	logger   *slog.Logger
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(archiver *results.Archiver, logger *slog.Logger) *ResultsHandler {
	return &ResultsHandler{
		archiver: archiver,
		logger:   logger,
	}
}

// List handles GET /api/v1/results
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := request.Limit(r)
	if !ok {
		WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
		return
	}

	recent, err := h.archiver.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list results", slog.Any("error", err))
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResultsFromModel(recent))
}

// PlayerRecord handles GET /api/v1/players/{name}/record
func (h *ResultsHandler) PlayerRecord(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(mux.Vars(r)["name"])
	if name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	rec, err := h.archiver.PlayerRecord(r.Context(), name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerRecordFromModel(rec))
}
