package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sntlabs/evetradetool/internal/domain"
	"github.com/sntlabs/evetradetool/internal/platform/esi"
	"github.com/sntlabs/evetradetool/internal/universe"
)

// UniverseService defines the universe metadata lookups the handler needs.
type UniverseService interface {
	KnownRegions(ctx context.Context) []universe.Entry
	KnownSystems(ctx context.Context) []universe.Entry
	AllRegionIDs(ctx context.Context) ([]int64, error)
	RegionInfo(ctx context.Context, regionID int64) (esi.RegionInfo, error)
	SystemInfo(ctx context.Context, systemID int64) (esi.SystemInfo, error)
	Search(ctx context.Context, name string) (esi.ResolvedIDs, error)
}

// UniverseHandler serves region and system metadata endpoints.
type UniverseHandler struct {
	universe UniverseService
	logger   *slog.Logger
}

// NewUniverseHandler creates a UniverseHandler.
func NewUniverseHandler(universeService UniverseService, logger *slog.Logger) *UniverseHandler {
	return &UniverseHandler{
		universe: universeService,
		logger:   logger,
	}
}

// ListRegions returns the static trade-region table, or the id of every
// region in the universe when scope=all is requested.
// GET /api/universe/regions?scope=all
func (h *UniverseHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("scope") != "all" {
		writeJSON(w, http.StatusOK, map[string]any{
			"regions": h.universe.KnownRegions(r.Context()),
		})
		return
	}

	ids, err := h.universe.AllRegionIDs(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list all regions failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "failed to list regions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"region_ids": ids,
		"count":      len(ids),
	})
}

// ListSystems returns the static trade-hub system table.
// GET /api/universe/systems
func (h *UniverseHandler) ListSystems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"systems": h.universe.KnownSystems(r.Context()),
	})
}

// GetRegion returns live metadata for one region.
// GET /api/universe/regions/{id}
func (h *UniverseHandler) GetRegion(w http.ResponseWriter, r *http.Request) {
	regionID, ok := pathID(r, "id")
	if !ok || regionID <= 0 {
		writeError(w, http.StatusBadRequest, "missing or invalid region id")
		return
	}

	info, err := h.universe.RegionInfo(r.Context(), regionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "region not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get region failed",
			slog.Int64("region_id", regionID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "failed to get region")
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// GetSystem returns live metadata for one solar system.
// GET /api/universe/systems/{id}
func (h *UniverseHandler) GetSystem(w http.ResponseWriter, r *http.Request) {
	systemID, ok := pathID(r, "id")
	if !ok || systemID <= 0 {
		writeError(w, http.StatusBadRequest, "missing or invalid system id")
		return
	}

	info, err := h.universe.SystemInfo(r.Context(), systemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "system not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get system failed",
			slog.Int64("system_id", systemID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "failed to get system")
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// Search resolves an exact name across universe categories.
// GET /api/universe/search/{name}
func (h *UniverseHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing name")
		return
	}

	resolved, err := h.universe.Search(r.Context(), name)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: universe search failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, resolved)
}
