package domain

import "context"

// ListOpts provides pagination for list queries.
type ListOpts struct {
	Limit  int
	Offset int
}

// RunSummary is a persisted analysis run without its opportunity rows,
// suitable for history listings.
type RunSummary struct {
	RunID              string         `json:"run_id"`
	RegionID           int64          `json:"region_id"`
	RegionName         string         `json:"region_name"`
	TotalItemsAnalyzed int            `json:"total_items_analyzed"`
	TotalOpportunities int            `json:"total_opportunities"`
	AnalyzedAt         string         `json:"analyzed_at"`
	Params             AnalysisParams `json:"parameters"`
}

// ReportStore persists analysis run history. Persistence happens outside the
// analysis core; the analyzer itself never writes anywhere.
type ReportStore interface {
	Insert(ctx context.Context, report Report) error
	GetByRunID(ctx context.Context, runID string) (Report, error)
	ListRecent(ctx context.Context, opts ListOpts) ([]RunSummary, error)
}
