package domain

import (
	"context"
	"io"
)

// BlobWriter writes objects to blob storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// SnapshotArchiver archives the raw order snapshot behind an analysis run so
// a run can later be replayed or audited. Archiving is best-effort and never
// blocks the analysis result.
type SnapshotArchiver interface {
	ArchiveOrders(ctx context.Context, regionID int64, runID string, orders []MarketOrder) (string, error)
}
