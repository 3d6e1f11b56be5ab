package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sntlabs/evetradetool/internal/platform/esi"
	"github.com/sntlabs/evetradetool/internal/universe"
)

// UniverseService exposes region and solar system metadata for the HTTP
// layer, combining the static trade-hub table with live ESI lookups.
type UniverseService struct {
	universe *esi.UniverseClient
	logger   *slog.Logger
}

// NewUniverseService creates a UniverseService.
func NewUniverseService(universeClient *esi.UniverseClient, logger *slog.Logger) *UniverseService {
	return &UniverseService{
		universe: universeClient,
		logger:   logger.With(slog.String("component", "universe_service")),
	}
}

// KnownRegions returns the static trade-region table.
func (s *UniverseService) KnownRegions(ctx context.Context) []universe.Entry {
	return universe.Regions()
}

// KnownSystems returns the static trade-hub system table.
func (s *UniverseService) KnownSystems(ctx context.Context) []universe.Entry {
	return universe.Systems()
}

// AllRegionIDs returns the id of every region in the universe from ESI.
func (s *UniverseService) AllRegionIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.universe.GetAllRegionIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("universe_service: all region ids: %w", err)
	}
	return ids, nil
}

// RegionInfo returns live metadata for one region.
func (s *UniverseService) RegionInfo(ctx context.Context, regionID int64) (esi.RegionInfo, error) {
	info, err := s.universe.GetRegionInfo(ctx, regionID)
	if err != nil {
		return esi.RegionInfo{}, fmt.Errorf("universe_service: region %d: %w", regionID, err)
	}
	return info, nil
}

// SystemInfo returns live metadata for one solar system.
func (s *UniverseService) SystemInfo(ctx context.Context, systemID int64) (esi.SystemInfo, error) {
	info, err := s.universe.GetSystemInfo(ctx, systemID)
	if err != nil {
		return esi.SystemInfo{}, fmt.Errorf("universe_service: system %d: %w", systemID, err)
	}
	return info, nil
}

// Search resolves an exact name to its universe ids across all categories.
func (s *UniverseService) Search(ctx context.Context, name string) (esi.ResolvedIDs, error) {
	resolved, err := s.universe.ResolveNames(ctx, []string{name})
	if err != nil {
		return esi.ResolvedIDs{}, fmt.Errorf("universe_service: search %q: %w", name, err)
	}
	return resolved, nil
}
