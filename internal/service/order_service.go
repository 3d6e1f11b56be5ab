package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sntlabs/evetradetool/internal/domain"
	"github.com/sntlabs/evetradetool/internal/platform/esi"
)

// OrderService exposes raw order book queries for the HTTP layer.
type OrderService struct {
	market   *esi.MarketClient
	universe *esi.UniverseClient
	logger   *slog.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(market *esi.MarketClient, universeClient *esi.UniverseClient, logger *slog.Logger) *OrderService {
	return &OrderService{
		market:   market,
		universe: universeClient,
		logger:   logger.With(slog.String("component", "order_service")),
	}
}

// RegionOrders returns the full order snapshot for a region.
func (s *OrderService) RegionOrders(ctx context.Context, regionID int64, q domain.OrderQuery) ([]domain.MarketOrder, error) {
	orders, err := s.market.GetRegionOrders(ctx, regionID, q)
	if err != nil {
		return nil, fmt.Errorf("order_service: region %d orders: %w", regionID, err)
	}

	s.logger.DebugContext(ctx, "order_service: fetched region orders",
		slog.Int64("region_id", regionID),
		slog.Int("count", len(orders)),
	)
	return orders, nil
}

// SystemOrders returns the order snapshot for a single solar system.
func (s *OrderService) SystemOrders(ctx context.Context, systemID int64, q domain.OrderQuery) ([]domain.MarketOrder, error) {
	orders, err := s.market.GetSystemOrders(ctx, s.universe, systemID, q)
	if err != nil {
		return nil, fmt.Errorf("order_service: system %d orders: %w", systemID, err)
	}

	s.logger.DebugContext(ctx, "order_service: fetched system orders",
		slog.Int64("system_id", systemID),
		slog.Int("count", len(orders)),
	)
	return orders, nil
}
