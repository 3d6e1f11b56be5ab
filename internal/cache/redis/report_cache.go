package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// ReportCache implements domain.ReportCache using JSON-serialized reports.
// Keys encode the full parameter set so runs with different thresholds never
// collide; redis eviction on TTL expiry makes stale entries read as misses.
//
// Key schema:
//
//	report:{regionID}:{minVolume}:{minSpread}:{limit}:{offset}:{cap}
type ReportCache struct {
	rdb *redis.Client
}

// NewReportCache creates a ReportCache backed by the given Client.
func NewReportCache(c *Client) *ReportCache {
	return &ReportCache{rdb: c.Underlying()}
}

func reportKey(regionID int64, p domain.AnalysisParams) string {
	return fmt.Sprintf("report:%d:%d:%g:%d:%d:%d",
		regionID, p.MinVolume, p.MinSpread, p.Limit, p.Offset, p.AnalysisCap)
}

// Get retrieves a cached report for the exact region and parameter set.
// It returns domain.ErrNotFound when no fresh entry exists.
func (rc *ReportCache) Get(ctx context.Context, regionID int64, params domain.AnalysisParams) (domain.Report, error) {
	data, err := rc.rdb.Get(ctx, reportKey(regionID, params)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Report{}, domain.ErrNotFound
		}
		return domain.Report{}, fmt.Errorf("redis: get report for region %d: %w", regionID, err)
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return domain.Report{}, fmt.Errorf("redis: unmarshal report for region %d: %w", regionID, err)
	}
	return report, nil
}

// Set stores a report under its region and echoed parameter set with the
// given TTL.
func (rc *ReportCache) Set(ctx context.Context, report domain.Report, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("redis: marshal report %s: %w", report.RunID, err)
	}

	key := reportKey(report.RegionID, report.Params)
	if err := rc.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set report %s: %w", report.RunID, err)
	}
	return nil
}

// Invalidate removes every cached report for a region, across all parameter
// sets, using SCAN to avoid blocking the server.
func (rc *ReportCache) Invalidate(ctx context.Context, regionID int64) error {
	pattern := fmt.Sprintf("report:%d:*", regionID)

	iter := rc.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := rc.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis: invalidate reports for region %d: %w", regionID, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis: invalidate reports for region %d: %w", regionID, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.ReportCache = (*ReportCache)(nil)
