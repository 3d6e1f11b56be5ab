package domain

import (
	"context"
	"time"
)

// OrderSource supplies the complete, already-flattened order snapshot for a
// region. Implementations own their own pagination and may parallelize the
// fetch internally; the analyzer treats the call as a single operation and
// propagates its failure as fatal.
type OrderSource interface {
	GetRegionOrders(ctx context.Context, regionID int64, q OrderQuery) ([]MarketOrder, error)
}

// NameResolver turns ids into display names. Resolution is best-effort; any
// failure is reported as an error and callers substitute a placeholder. A
// shared resolver must be safe for concurrent read-only use.
type NameResolver interface {
	ItemName(ctx context.Context, typeID int64) (string, error)
	RegionName(ctx context.Context, regionID int64) (string, error)
}

// SignalBus provides pub/sub fan-out of analysis events to interested
// consumers (the websocket hub, primarily).
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// RateLimiter throttles calls against an upstream error budget. Allow counts
// and admits a request under a sliding window; Wait blocks until a request
// is admitted or the context is cancelled.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Wait(ctx context.Context, key string) error
}
