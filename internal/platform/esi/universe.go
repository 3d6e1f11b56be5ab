package esi

import (
	"context"
	"encoding/json"
	"fmt"
)

// UniverseClient fetches universe metadata (regions, constellations, solar
// systems) from ESI.
type UniverseClient struct {
	client *Client
}

// NewUniverseClient creates a universe client on top of the shared transport.
func NewUniverseClient(client *Client) *UniverseClient {
	return &UniverseClient{client: client}
}

// GetAllRegionIDs returns the IDs of every region in the universe.
func (u *UniverseClient) GetAllRegionIDs(ctx context.Context) ([]int64, error) {
	body, _, err := u.client.doGet(ctx, "/universe/regions/")
	if err != nil {
		return nil, fmt.Errorf("esi: get region ids: %w", err)
	}

	var ids []int64
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("esi: decode region ids: %w", err)
	}
	return ids, nil
}

// GetRegionInfo returns metadata for a single region.
func (u *UniverseClient) GetRegionInfo(ctx context.Context, regionID int64) (RegionInfo, error) {
	path := fmt.Sprintf("/universe/regions/%d/", regionID)

	body, _, err := u.client.doGet(ctx, path)
	if err != nil {
		return RegionInfo{}, fmt.Errorf("esi: get region %d: %w", regionID, err)
	}

	var info RegionInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return RegionInfo{}, fmt.Errorf("esi: decode region %d: %w", regionID, err)
	}
	return info, nil
}

// GetConstellationInfo returns metadata for a single constellation.
func (u *UniverseClient) GetConstellationInfo(ctx context.Context, constellationID int64) (ConstellationInfo, error) {
	path := fmt.Sprintf("/universe/constellations/%d/", constellationID)

	body, _, err := u.client.doGet(ctx, path)
	if err != nil {
		return ConstellationInfo{}, fmt.Errorf("esi: get constellation %d: %w", constellationID, err)
	}

	var info ConstellationInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return ConstellationInfo{}, fmt.Errorf("esi: decode constellation %d: %w", constellationID, err)
	}
	return info, nil
}

// GetSystemInfo returns metadata for a single solar system.
func (u *UniverseClient) GetSystemInfo(ctx context.Context, systemID int64) (SystemInfo, error) {
	path := fmt.Sprintf("/universe/systems/%d/", systemID)

	body, _, err := u.client.doGet(ctx, path)
	if err != nil {
		return SystemInfo{}, fmt.Errorf("esi: get system %d: %w", systemID, err)
	}

	var info SystemInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return SystemInfo{}, fmt.Errorf("esi: decode system %d: %w", systemID, err)
	}
	return info, nil
}

// RegionIDForSystem walks a solar system up through its constellation to the
// owning region.
func (u *UniverseClient) RegionIDForSystem(ctx context.Context, systemID int64) (int64, error) {
	system, err := u.GetSystemInfo(ctx, systemID)
	if err != nil {
		return 0, err
	}

	constellation, err := u.GetConstellationInfo(ctx, system.ConstellationID)
	if err != nil {
		return 0, err
	}
	return constellation.RegionID, nil
}

// ResolveNames resolves exact names to IDs via POST /universe/ids/ and returns
// the categorized response.
func (u *UniverseClient) ResolveNames(ctx context.Context, names []string) (ResolvedIDs, error) {
	payload, err := json.Marshal(names)
	if err != nil {
		return ResolvedIDs{}, fmt.Errorf("esi: encode names: %w", err)
	}

	body, err := u.client.doPost(ctx, "/universe/ids/", payload)
	if err != nil {
		return ResolvedIDs{}, fmt.Errorf("esi: resolve names: %w", err)
	}

	var resp ResolvedIDs
	if err := json.Unmarshal(body, &resp); err != nil {
		return ResolvedIDs{}, fmt.Errorf("esi: decode resolved names: %w", err)
	}
	return resp, nil
}
