package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// ReportStore implements domain.ReportStore using PostgreSQL. A report is an
// analysis_runs row plus its ranked opportunities rows; both are written in
// one transaction so history never contains a half-persisted run.
type ReportStore struct {
	pool *pgxpool.Pool
}

// NewReportStore creates a ReportStore backed by the given connection pool.
func NewReportStore(pool *pgxpool.Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

const runSelectCols = `run_id, region_id, region_name,
	total_items_analyzed, total_opportunities,
	min_volume, min_spread, result_limit, result_offset, analysis_cap,
	analyzed_at`

// Insert persists a completed analysis run and its opportunity rows.
func (s *ReportStore) Insert(ctx context.Context, report domain.Report) error {
	const runQuery = `
		INSERT INTO analysis_runs (
			run_id, region_id, region_name,
			total_items_analyzed, total_opportunities,
			min_volume, min_spread, result_limit, result_offset, analysis_cap,
			analyzed_at
		) VALUES (
			$1, $2, $3,
			$4, $5,
			$6, $7, $8, $9, $10,
			$11
		)`

	const oppQuery = `
		INSERT INTO opportunities (
			run_id, rank, type_id, type_name,
			best_buy_price, best_sell_price, spread, spread_percentage,
			buy_volume, sell_volume, confidence, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12
		)`

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin insert run %s: %w", report.RunID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p := report.Params
	if _, err := tx.Exec(ctx, runQuery,
		report.RunID, report.RegionID, report.RegionName,
		report.TotalItemsAnalyzed, report.TotalOpportunities,
		p.MinVolume, p.MinSpread, p.Limit, p.Offset, p.AnalysisCap,
		report.AnalyzedAt,
	); err != nil {
		return fmt.Errorf("postgres: insert run %s: %w", report.RunID, err)
	}

	for rank, opp := range report.Opportunities {
		if _, err := tx.Exec(ctx, oppQuery,
			report.RunID, rank+1, opp.TypeID, opp.Name,
			opp.BestBuyPrice, opp.BestSellPrice, opp.Spread, opp.SpreadPercentage,
			opp.BuyVolume, opp.SellVolume, opp.Confidence, opp.UpdatedAt,
		); err != nil {
			return fmt.Errorf("postgres: insert opportunity %s/%d: %w", report.RunID, rank+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit run %s: %w", report.RunID, err)
	}
	return nil
}

// GetByRunID loads one persisted report including its opportunity rows.
func (s *ReportStore) GetByRunID(ctx context.Context, runID string) (domain.Report, error) {
	query := `SELECT ` + runSelectCols + ` FROM analysis_runs WHERE run_id = $1`

	var report domain.Report
	err := s.pool.QueryRow(ctx, query, runID).Scan(
		&report.RunID, &report.RegionID, &report.RegionName,
		&report.TotalItemsAnalyzed, &report.TotalOpportunities,
		&report.Params.MinVolume, &report.Params.MinSpread,
		&report.Params.Limit, &report.Params.Offset, &report.Params.AnalysisCap,
		&report.AnalyzedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Report{}, domain.ErrNotFound
		}
		return domain.Report{}, fmt.Errorf("postgres: get run %s: %w", runID, err)
	}

	const oppQuery = `
		SELECT type_id, type_name,
			best_buy_price, best_sell_price, spread, spread_percentage,
			buy_volume, sell_volume, confidence, updated_at
		FROM opportunities
		WHERE run_id = $1
		ORDER BY rank`

	rows, err := s.pool.Query(ctx, oppQuery, runID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("postgres: get run %s opportunities: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var opp domain.Opportunity
		if err := rows.Scan(
			&opp.TypeID, &opp.Name,
			&opp.BestBuyPrice, &opp.BestSellPrice, &opp.Spread, &opp.SpreadPercentage,
			&opp.BuyVolume, &opp.SellVolume, &opp.Confidence, &opp.UpdatedAt,
		); err != nil {
			return domain.Report{}, fmt.Errorf("postgres: scan opportunity: %w", err)
		}
		opp.RegionID = report.RegionID
		opp.RegionName = report.RegionName
		report.Opportunities = append(report.Opportunities, opp)
	}
	if err := rows.Err(); err != nil {
		return domain.Report{}, fmt.Errorf("postgres: iterate opportunities: %w", err)
	}

	return report, nil
}

// ListRecent returns run summaries, newest first.
func (s *ReportStore) ListRecent(ctx context.Context, opts domain.ListOpts) ([]domain.RunSummary, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + runSelectCols + `
		FROM analysis_runs
		ORDER BY analyzed_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunSummary
	for rows.Next() {
		var run domain.RunSummary
		var analyzedAt time.Time
		if err := rows.Scan(
			&run.RunID, &run.RegionID, &run.RegionName,
			&run.TotalItemsAnalyzed, &run.TotalOpportunities,
			&run.Params.MinVolume, &run.Params.MinSpread,
			&run.Params.Limit, &run.Params.Offset, &run.Params.AnalysisCap,
			&analyzedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan run: %w", err)
		}
		run.AnalyzedAt = analyzedAt.UTC().Format(time.RFC3339)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate runs: %w", err)
	}

	return runs, nil
}

// Compile-time interface check.
var _ domain.ReportStore = (*ReportStore)(nil)
