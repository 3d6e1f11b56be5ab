package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sntlabs/evetradetool/internal/platform/esi"
	"github.com/sntlabs/evetradetool/internal/universe"
)

type fakeUniverseService struct {
	allIDs []int64
	err    error
}

func (f *fakeUniverseService) KnownRegions(ctx context.Context) []universe.Entry {
	return universe.Regions()
}

func (f *fakeUniverseService) KnownSystems(ctx context.Context) []universe.Entry {
	return universe.Systems()
}

func (f *fakeUniverseService) AllRegionIDs(ctx context.Context) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.allIDs, nil
}

func (f *fakeUniverseService) RegionInfo(ctx context.Context, regionID int64) (esi.RegionInfo, error) {
	return esi.RegionInfo{}, f.err
}

func (f *fakeUniverseService) SystemInfo(ctx context.Context, systemID int64) (esi.SystemInfo, error) {
	return esi.SystemInfo{}, f.err
}

func (f *fakeUniverseService) Search(ctx context.Context, name string) (esi.ResolvedIDs, error) {
	return esi.ResolvedIDs{}, f.err
}

func newUniverseMux(svc *fakeUniverseService) *http.ServeMux {
	h := NewUniverseHandler(svc, testLogger())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/universe/regions", h.ListRegions)
	return mux
}

func TestUniverseHandler_ListRegions_StaticTable(t *testing.T) {
	mux := newUniverseMux(&fakeUniverseService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/universe/regions", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Regions []universe.Entry `json:"regions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, universe.Regions(), resp.Regions)
}

func TestUniverseHandler_ListRegions_ScopeAll(t *testing.T) {
	svc := &fakeUniverseService{allIDs: []int64{10000001, 10000002, 10000043}}
	mux := newUniverseMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/universe/regions?scope=all", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		RegionIDs []int64 `json:"region_ids"`
		Count     int     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, svc.allIDs, resp.RegionIDs)
	assert.Equal(t, 3, resp.Count)
}

func TestUniverseHandler_ListRegions_ScopeAllUpstreamFailure(t *testing.T) {
	mux := newUniverseMux(&fakeUniverseService{err: errors.New("esi down")})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/universe/regions?scope=all", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
