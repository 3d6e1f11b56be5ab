package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sntlabs/evetradetool/internal/domain"
	"github.com/sntlabs/evetradetool/internal/platform/esi"
)

type fakeNameCache struct {
	names  map[string]string
	setErr error
}

func (f *fakeNameCache) key(kind string, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func (f *fakeNameCache) GetName(ctx context.Context, kind string, id int64) (string, error) {
	if name, ok := f.names[f.key(kind, id)]; ok {
		return name, nil
	}
	return "", domain.ErrNotFound
}

func (f *fakeNameCache) SetName(ctx context.Context, kind string, id int64, name string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.names == nil {
		f.names = map[string]string{}
	}
	f.names[f.key(kind, id)] = name
	return nil
}

func newNameService(t *testing.T, srvURL string, cache *fakeNameCache) *NameService {
	t.Helper()
	client := esi.NewClient(srvURL)
	return NewNameService(
		cache,
		esi.NewItemsClient(client),
		esi.NewUniverseClient(client),
		time.Hour,
		testLogger(),
	)
}

func TestNameService_ItemName(t *testing.T) {
	var esiCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/universe/types/34/", r.URL.Path)
		esiCalls.Add(1)
		json.NewEncoder(w).Encode(esi.TypeInfo{TypeID: 34, Name: "Tritanium"})
	}))
	defer srv.Close()

	cache := &fakeNameCache{}
	svc := newNameService(t, srv.URL, cache)

	name, err := svc.ItemName(context.Background(), 34)
	require.NoError(t, err)
	assert.Equal(t, "Tritanium", name)
	assert.Equal(t, int32(1), esiCalls.Load())

	// Second lookup is served from the cache backfill.
	name, err = svc.ItemName(context.Background(), 34)
	require.NoError(t, err)
	assert.Equal(t, "Tritanium", name)
	assert.Equal(t, int32(1), esiCalls.Load())
}

func TestNameService_RegionName_StaticTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("well-known regions must not hit ESI, got %s", r.URL.Path)
	}))
	defer srv.Close()

	svc := newNameService(t, srv.URL, &fakeNameCache{})

	name, err := svc.RegionName(context.Background(), 10000002)
	require.NoError(t, err)
	assert.Equal(t, "The Forge", name)
}

func TestNameService_SystemName_StaticTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("well-known systems must not hit ESI, got %s", r.URL.Path)
	}))
	defer srv.Close()

	svc := newNameService(t, srv.URL, &fakeNameCache{})

	name, err := svc.SystemName(context.Background(), 30000142)
	require.NoError(t, err)
	assert.Equal(t, "Jita", name)
}

func TestNameService_NilCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(esi.TypeInfo{TypeID: 34, Name: "Tritanium"})
	}))
	defer srv.Close()

	client := esi.NewClient(srv.URL)
	svc := NewNameService(nil, esi.NewItemsClient(client), esi.NewUniverseClient(client), time.Hour, testLogger())

	name, err := svc.ItemName(context.Background(), 34)
	require.NoError(t, err)
	assert.Equal(t, "Tritanium", name)
}
