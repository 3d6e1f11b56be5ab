package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sntlabs/evetradetool/internal/domain"
	"github.com/sntlabs/evetradetool/internal/platform/esi"
	"github.com/sntlabs/evetradetool/internal/universe"
)

// Name cache kinds.
const (
	nameKindItem   = "item"
	nameKindRegion = "region"
	nameKindSystem = "system"
)

// NameService resolves display names for item types, regions, and solar
// systems. Resolution order: the static startup table, then the redis name
// cache, then ESI. It implements domain.NameResolver; callers substitute
// placeholders on error.
type NameService struct {
	cache    domain.NameCache
	items    *esi.ItemsClient
	universe *esi.UniverseClient
	ttl      time.Duration
	logger   *slog.Logger
}

// NewNameService creates a NameService. cache may be nil, in which case every
// lookup outside the static table goes to ESI.
func NewNameService(
	cache domain.NameCache,
	items *esi.ItemsClient,
	universeClient *esi.UniverseClient,
	ttl time.Duration,
	logger *slog.Logger,
) *NameService {
	return &NameService{
		cache:    cache,
		items:    items,
		universe: universeClient,
		ttl:      ttl,
		logger:   logger.With(slog.String("component", "name_service")),
	}
}

// ItemName resolves an item type id to its display name.
func (s *NameService) ItemName(ctx context.Context, typeID int64) (string, error) {
	if name, ok := s.fromCache(ctx, nameKindItem, typeID); ok {
		return name, nil
	}

	info, err := s.items.GetTypeInfo(ctx, typeID)
	if err != nil {
		return "", fmt.Errorf("name_service: item %d: %w", typeID, err)
	}

	s.backfill(ctx, nameKindItem, typeID, info.Name)
	return info.Name, nil
}

// RegionName resolves a region id to its display name.
func (s *NameService) RegionName(ctx context.Context, regionID int64) (string, error) {
	if name, ok := universe.RegionName(regionID); ok {
		return name, nil
	}
	if name, ok := s.fromCache(ctx, nameKindRegion, regionID); ok {
		return name, nil
	}

	info, err := s.universe.GetRegionInfo(ctx, regionID)
	if err != nil {
		return "", fmt.Errorf("name_service: region %d: %w", regionID, err)
	}

	s.backfill(ctx, nameKindRegion, regionID, info.Name)
	return info.Name, nil
}

// SystemName resolves a solar system id to its display name.
func (s *NameService) SystemName(ctx context.Context, systemID int64) (string, error) {
	if name, ok := universe.SystemName(systemID); ok {
		return name, nil
	}
	if name, ok := s.fromCache(ctx, nameKindSystem, systemID); ok {
		return name, nil
	}

	info, err := s.universe.GetSystemInfo(ctx, systemID)
	if err != nil {
		return "", fmt.Errorf("name_service: system %d: %w", systemID, err)
	}

	s.backfill(ctx, nameKindSystem, systemID, info.Name)
	return info.Name, nil
}

func (s *NameService) fromCache(ctx context.Context, kind string, id int64) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	name, err := s.cache.GetName(ctx, kind, id)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// backfill writes a resolved name to the cache; cache write errors are
// logged and otherwise ignored.
func (s *NameService) backfill(ctx context.Context, kind string, id int64, name string) {
	if s.cache == nil || name == "" {
		return
	}
	if err := s.cache.SetName(ctx, kind, id, name, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "name_service: cache set failed",
			slog.String("kind", kind),
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
	}
}
