package domain

import (
	"context"
	"time"
)

// ReportCache stores completed analysis reports keyed by region id and the
// full parameter set. Entries expire after the TTL passed to Set; reads of an
// expired entry behave as a miss (ErrNotFound). Implementations are injected
// by constructor; there is no process-wide cache singleton.
type ReportCache interface {
	Get(ctx context.Context, regionID int64, params AnalysisParams) (Report, error)
	Set(ctx context.Context, report Report, ttl time.Duration) error
	Invalidate(ctx context.Context, regionID int64) error
}

// NameCache stores resolved display names so repeated runs do not hammer the
// upstream name endpoints.
type NameCache interface {
	GetName(ctx context.Context, kind string, id int64) (string, error)
	SetName(ctx context.Context, kind string, id int64, name string, ttl time.Duration) error
}
