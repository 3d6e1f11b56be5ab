package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// AnalysisHistoryService exposes persisted run history.
type AnalysisHistoryService interface {
	RecentRuns(ctx context.Context, opts domain.ListOpts) ([]domain.RunSummary, error)
	GetRun(ctx context.Context, runID string) (domain.Report, error)
}

// AnalysisHandler serves analysis run history endpoints.
type AnalysisHandler struct {
	history AnalysisHistoryService
	logger  *slog.Logger
}

// NewAnalysisHandler creates an AnalysisHandler.
func NewAnalysisHandler(history AnalysisHistoryService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		history: history,
		logger:  logger,
	}
}

// recentRunsResponse wraps the run history listing with metadata.
type recentRunsResponse struct {
	Runs   []domain.RunSummary `json:"runs"`
	Count  int                 `json:"count"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// ListRecent returns persisted run summaries, newest first.
// GET /api/analysis/recent?limit=20&offset=0
func (h *AnalysisHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)

	runs, err := h.history.RecentRuns(r.Context(), opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list recent runs failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []domain.RunSummary{}
	}

	writeJSON(w, http.StatusOK, recentRunsResponse{
		Runs:   runs,
		Count:  len(runs),
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// GetRun returns one persisted report by run id.
// GET /api/analysis/runs/{run_id}
func (h *AnalysisHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("run_id")
	if runID == "" {
		writeError(w, http.StatusBadRequest, "missing run_id")
		return
	}

	report, err := h.history.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get run failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
