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
)

type fakeItemService struct {
	info    esi.TypeInfo
	ids     []int64
	pages   int
	matches map[string]int64
	err     error
	gotPage int
}

func (f *fakeItemService) TypeInfo(ctx context.Context, typeID int64) (esi.TypeInfo, error) {
	if f.err != nil {
		return esi.TypeInfo{}, f.err
	}
	return f.info, nil
}

func (f *fakeItemService) TypeIDsPage(ctx context.Context, page int) ([]int64, int, error) {
	f.gotPage = page
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.ids, f.pages, nil
}

func (f *fakeItemService) SearchTypes(ctx context.Context, name string) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func newItemsMux(items *fakeItemService) *http.ServeMux {
	h := NewItemHandler(items, testLogger())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items", h.ListItems)
	mux.HandleFunc("GET /api/items/{id}", h.GetItem)
	mux.HandleFunc("GET /api/items/search/{name}", h.SearchItems)
	return mux
}

func TestItemHandler_ListItems(t *testing.T) {
	items := &fakeItemService{ids: []int64{34, 35, 36}, pages: 17}
	mux := newItemsMux(items)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items?page=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, items.gotPage)

	var resp struct {
		Page    int     `json:"page"`
		Pages   int     `json:"pages"`
		TypeIDs []int64 `json:"type_ids"`
		Count   int     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Page)
	assert.Equal(t, 17, resp.Pages)
	assert.Equal(t, []int64{34, 35, 36}, resp.TypeIDs)
	assert.Equal(t, 3, resp.Count)
}

func TestItemHandler_ListItems_DefaultsToFirstPage(t *testing.T) {
	items := &fakeItemService{ids: []int64{34}, pages: 1}
	mux := newItemsMux(items)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, items.gotPage)
}

func TestItemHandler_ListItems_BadPage(t *testing.T) {
	mux := newItemsMux(&fakeItemService{})

	for _, page := range []string{"abc", "0", "-2"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items?page="+page, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "page=%s", page)
	}
}

func TestItemHandler_ListItems_UpstreamFailure(t *testing.T) {
	mux := newItemsMux(&fakeItemService{err: errors.New("esi down")})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
