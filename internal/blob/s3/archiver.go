package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// snapshotEnvelope is the stored form of an archived order snapshot. The
// envelope carries enough metadata to replay the run without consulting the
// run history table.
type snapshotEnvelope struct {
	RunID      string               `json:"run_id"`
	RegionID   int64                `json:"region_id"`
	ArchivedAt time.Time            `json:"archived_at"`
	OrderCount int                  `json:"order_count"`
	Orders     []domain.MarketOrder `json:"orders"`
}

// SnapshotArchiver implements domain.SnapshotArchiver by serializing the raw
// order snapshot behind an analysis run and uploading it as
// snapshots/{regionID}/{runID}.json.
type SnapshotArchiver struct {
	writer domain.BlobWriter
	now    func() time.Time
}

// NewSnapshotArchiver creates a SnapshotArchiver on top of a blob writer.
func NewSnapshotArchiver(writer domain.BlobWriter) *SnapshotArchiver {
	return &SnapshotArchiver{
		writer: writer,
		now:    time.Now,
	}
}

// ArchiveOrders uploads the order snapshot for a run and returns the object
// path it was stored under.
func (a *SnapshotArchiver) ArchiveOrders(ctx context.Context, regionID int64, runID string, orders []domain.MarketOrder) (string, error) {
	envelope := snapshotEnvelope{
		RunID:      runID,
		RegionID:   regionID,
		ArchivedAt: a.now().UTC(),
		OrderCount: len(orders),
		Orders:     orders,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("s3blob: marshal snapshot %s: %w", runID, err)
	}

	path := fmt.Sprintf("snapshots/%d/%s.json", regionID, runID)
	if err := a.writer.Put(ctx, path, bytes.NewReader(data), "application/json"); err != nil {
		return "", fmt.Errorf("s3blob: archive snapshot %s: %w", runID, err)
	}
	return path, nil
}

// Compile-time interface check.
var _ domain.SnapshotArchiver = (*SnapshotArchiver)(nil)
