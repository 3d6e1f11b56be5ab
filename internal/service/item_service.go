package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sntlabs/evetradetool/internal/platform/esi"
)

// ItemService exposes item type metadata for the HTTP layer.
type ItemService struct {
	items  *esi.ItemsClient
	logger *slog.Logger
}

// NewItemService creates an ItemService.
func NewItemService(items *esi.ItemsClient, logger *slog.Logger) *ItemService {
	return &ItemService{
		items:  items,
		logger: logger.With(slog.String("component", "item_service")),
	}
}

// TypeInfo returns metadata for one item type.
func (s *ItemService) TypeInfo(ctx context.Context, typeID int64) (esi.TypeInfo, error) {
	info, err := s.items.GetTypeInfo(ctx, typeID)
	if err != nil {
		return esi.TypeInfo{}, fmt.Errorf("item_service: type %d: %w", typeID, err)
	}
	return info, nil
}

// TypeIDsPage returns one page of the full type id listing and the total
// page count.
func (s *ItemService) TypeIDsPage(ctx context.Context, page int) ([]int64, int, error) {
	ids, pages, err := s.items.GetTypeIDsPage(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("item_service: type ids page %d: %w", page, err)
	}
	return ids, pages, nil
}

// SearchTypes resolves exact item names to type ids.
func (s *ItemService) SearchTypes(ctx context.Context, name string) (map[string]int64, error) {
	resolved, err := s.items.ResolveTypeNames(ctx, []string{name})
	if err != nil {
		return nil, fmt.Errorf("item_service: search %q: %w", name, err)
	}
	return resolved, nil
}
