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

	"github.com/sntlabs/evetradetool/internal/domain"
)

type fakeHistoryService struct {
	runs    []domain.RunSummary
	report  domain.Report
	err     error
	gotOpts domain.ListOpts
	gotRun  string
}

func (f *fakeHistoryService) RecentRuns(ctx context.Context, opts domain.ListOpts) ([]domain.RunSummary, error) {
	f.gotOpts = opts
	return f.runs, f.err
}

func (f *fakeHistoryService) GetRun(ctx context.Context, runID string) (domain.Report, error) {
	f.gotRun = runID
	if f.err != nil {
		return domain.Report{}, f.err
	}
	return f.report, nil
}

func newAnalysisMux(history *fakeHistoryService) *http.ServeMux {
	h := NewAnalysisHandler(history, testLogger())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/analysis/recent", h.ListRecent)
	mux.HandleFunc("GET /api/analysis/runs/{run_id}", h.GetRun)
	return mux
}

func TestAnalysisHandler_ListRecent(t *testing.T) {
	history := &fakeHistoryService{
		runs: []domain.RunSummary{{RunID: "run-1"}, {RunID: "run-2"}},
	}
	mux := newAnalysisMux(history)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/recent?limit=50&offset=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ListOpts{Limit: 50, Offset: 10}, history.gotOpts)

	var resp struct {
		Runs  []domain.RunSummary `json:"runs"`
		Count int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestAnalysisHandler_ListRecent_EmptyIsNotNull(t *testing.T) {
	mux := newAnalysisMux(&fakeHistoryService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/recent", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"runs":[]`)
}

func TestAnalysisHandler_ListRecent_LimitClamped(t *testing.T) {
	history := &fakeHistoryService{}
	mux := newAnalysisMux(history)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/recent?limit=9999", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200, history.gotOpts.Limit)
}

func TestAnalysisHandler_GetRun(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		history := &fakeHistoryService{report: domain.Report{RunID: "run-1"}}
		mux := newAnalysisMux(history)

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/runs/run-1", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "run-1", history.gotRun)
	})

	t.Run("not found", func(t *testing.T) {
		mux := newAnalysisMux(&fakeHistoryService{err: domain.ErrNotFound})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/runs/missing", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		mux := newAnalysisMux(&fakeHistoryService{err: errors.New("pg down")})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/runs/run-1", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
