package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// OrderService defines the methods the market handler requires from the
// service layer. It is declared locally so the handler package does not
// depend on the concrete service implementation.
type OrderService interface {
	RegionOrders(ctx context.Context, regionID int64, q domain.OrderQuery) ([]domain.MarketOrder, error)
	SystemOrders(ctx context.Context, systemID int64, q domain.OrderQuery) ([]domain.MarketOrder, error)
}

// AnalysisService runs cached region analysis.
type AnalysisService interface {
	Analyze(ctx context.Context, regionID int64, params domain.AnalysisParams) (domain.Report, error)
}

// MarketHandler serves market order and analysis HTTP endpoints.
type MarketHandler struct {
	orders   OrderService
	analysis AnalysisService
	logger   *slog.Logger
}

// NewMarketHandler creates a MarketHandler with the given services and logger.
func NewMarketHandler(orders OrderService, analysis AnalysisService, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{
		orders:   orders,
		analysis: analysis,
		logger:   logger,
	}
}

// ordersResponse wraps order list output with metadata.
type ordersResponse struct {
	Orders []domain.MarketOrder `json:"orders"`
	Count  int                  `json:"count"`
}

// GetRegionOrders returns the order snapshot for a region.
// GET /api/market/orders?region_id=10000002&type_id=34&order_type=sell
func (h *MarketHandler) GetRegionOrders(w http.ResponseWriter, r *http.Request) {
	regionID, ok := queryInt64(r, "region_id")
	if !ok || regionID <= 0 {
		writeError(w, http.StatusBadRequest, "missing or invalid region_id")
		return
	}

	orders, err := h.orders.RegionOrders(r.Context(), regionID, parseOrderQuery(r))
	if err != nil {
		h.writeOrdersError(w, r, "region", regionID, err)
		return
	}

	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders, Count: len(orders)})
}

// GetSystemOrders returns the order snapshot for a single solar system.
// GET /api/market/orders/system?system_id=30000142&type_id=34
func (h *MarketHandler) GetSystemOrders(w http.ResponseWriter, r *http.Request) {
	systemID, ok := queryInt64(r, "system_id")
	if !ok || systemID <= 0 {
		writeError(w, http.StatusBadRequest, "missing or invalid system_id")
		return
	}

	orders, err := h.orders.SystemOrders(r.Context(), systemID, parseOrderQuery(r))
	if err != nil {
		h.writeOrdersError(w, r, "system", systemID, err)
		return
	}

	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders, Count: len(orders)})
}

// AnalyzeRegion runs (or serves from cache) the opportunity analysis for a
// region.
// GET /api/market/analyze/{region_id}?min_volume=100&min_spread=5&limit=20&offset=0&analysis_cap=100
func (h *MarketHandler) AnalyzeRegion(w http.ResponseWriter, r *http.Request) {
	regionID, ok := pathID(r, "region_id")
	if !ok || regionID <= 0 {
		writeError(w, http.StatusBadRequest, "missing or invalid region_id")
		return
	}

	params := parseAnalysisParams(r)

	report, err := h.analysis.Analyze(r.Context(), regionID, params)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "region not found")
			return
		}
		if errors.Is(err, domain.ErrRateLimited) {
			writeError(w, http.StatusServiceUnavailable, "upstream rate limited")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: analyze region failed",
			slog.Int64("region_id", regionID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadGateway, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// parseAnalysisParams reads threshold and pagination overrides from the
// query string. Absent or malformed values are left zero; the analysis layer
// substitutes its defaults.
func parseAnalysisParams(r *http.Request) domain.AnalysisParams {
	q := r.URL.Query()
	var params domain.AnalysisParams

	if v := q.Get("min_volume"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			params.MinVolume = n
		}
	}
	if v := q.Get("min_spread"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params.MinSpread = f
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.Offset = n
		}
	}
	if v := q.Get("analysis_cap"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.AnalysisCap = n
		}
	}

	return params
}

func (h *MarketHandler) writeOrdersError(w http.ResponseWriter, r *http.Request, scope string, id int64, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, scope+" not found")
		return
	}
	if errors.Is(err, domain.ErrRateLimited) {
		writeError(w, http.StatusServiceUnavailable, "upstream rate limited")
		return
	}
	h.logger.ErrorContext(r.Context(), "handler: fetch orders failed",
		slog.String("scope", scope),
		slog.Int64("id", id),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusBadGateway, "failed to fetch orders")
}
