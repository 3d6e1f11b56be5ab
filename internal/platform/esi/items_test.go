package esi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsClient_GetTypeIDsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/universe/types/", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		w.Header().Set(pagesHeader, "17")
		json.NewEncoder(w).Encode([]int64{34, 35, 36})
	}))
	defer srv.Close()

	ic := NewItemsClient(NewClient(srv.URL))

	ids, pages, err := ic.GetTypeIDsPage(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{34, 35, 36}, ids)
	assert.Equal(t, 17, pages)
}

func TestItemsClient_GetTypeIDsPage_NoPagesHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]int64{34})
	}))
	defer srv.Close()

	ic := NewItemsClient(NewClient(srv.URL))

	ids, pages, err := ic.GetTypeIDsPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, pages, "missing header means a single page")
}
