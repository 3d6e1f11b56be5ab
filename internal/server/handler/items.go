package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sntlabs/evetradetool/internal/domain"
	"github.com/sntlabs/evetradetool/internal/platform/esi"
)

// ItemService defines the item metadata lookups the handler needs.
type ItemService interface {
	TypeInfo(ctx context.Context, typeID int64) (esi.TypeInfo, error)
	TypeIDsPage(ctx context.Context, page int) ([]int64, int, error)
	SearchTypes(ctx context.Context, name string) (map[string]int64, error)
}

// ItemHandler serves item type metadata endpoints.
type ItemHandler struct {
	items  ItemService
	logger *slog.Logger
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(items ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		items:  items,
		logger: logger,
	}
}

// ListItems returns one page of the full type id listing.
// GET /api/items?page=2
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = n
	}

	ids, pages, err := h.items.TypeIDsPage(r.Context(), page)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list items failed",
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "failed to list items")
		return
	}

	if ids == nil {
		ids = []int64{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"page":     page,
		"pages":    pages,
		"type_ids": ids,
		"count":    len(ids),
	})
}

// GetItem returns metadata for one item type.
// GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	typeID, ok := pathID(r, "id")
	if !ok || typeID <= 0 {
		writeError(w, http.StatusBadRequest, "missing or invalid item id")
		return
	}

	info, err := h.items.TypeInfo(r.Context(), typeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get item failed",
			slog.Int64("type_id", typeID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "failed to get item")
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// SearchItems resolves an exact item name to its type id.
// GET /api/items/search/{name}
func (h *ItemHandler) SearchItems(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing name")
		return
	}

	matches, err := h.items.SearchTypes(r.Context(), name)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: item search failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}
