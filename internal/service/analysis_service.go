package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// AnalysisChannel is the signal bus channel carrying run summaries to the
// websocket hub.
const AnalysisChannel = "analysis"

// RegionAnalyzer runs the analysis pipeline and returns the report together
// with the raw snapshot it was computed from.
type RegionAnalyzer interface {
	AnalyzeWithOrders(ctx context.Context, regionID int64, params domain.AnalysisParams) (domain.Report, []domain.MarketOrder, error)
}

// Alerter delivers out-of-band notifications for completed runs.
type Alerter interface {
	OpportunityFound(ctx context.Context, report domain.Report) error
}

// RunSignal is the JSON payload published on the analysis channel after each
// completed run.
type RunSignal struct {
	Event              string              `json:"event"`
	RunID              string              `json:"run_id"`
	RegionID           int64               `json:"region_id"`
	RegionName         string              `json:"region_name"`
	TotalOpportunities int                 `json:"total_opportunities"`
	Top                *domain.Opportunity `json:"top_opportunity,omitempty"`
}

// AnalysisService orchestrates cached region analysis. Cache, store, archive,
// signal, and notification failures are logged at warn and never fail the
// request; only the analysis itself is load-bearing.
type AnalysisService struct {
	analyzer RegionAnalyzer
	cache    domain.ReportCache
	store    domain.ReportStore
	archiver domain.SnapshotArchiver
	bus      domain.SignalBus
	alerter  Alerter
	ttl      time.Duration
	logger   *slog.Logger
}

// NewAnalysisService creates an AnalysisService. Every collaborator except
// the analyzer may be nil; nil collaborators are skipped.
func NewAnalysisService(
	analyzer RegionAnalyzer,
	cache domain.ReportCache,
	store domain.ReportStore,
	archiver domain.SnapshotArchiver,
	bus domain.SignalBus,
	alerter Alerter,
	ttl time.Duration,
	logger *slog.Logger,
) *AnalysisService {
	return &AnalysisService{
		analyzer: analyzer,
		cache:    cache,
		store:    store,
		archiver: archiver,
		bus:      bus,
		alerter:  alerter,
		ttl:      ttl,
		logger:   logger.With(slog.String("component", "analysis_service")),
	}
}

// Analyze returns the analysis report for a region, serving from the report
// cache when an entry for the exact parameter set is still fresh.
func (s *AnalysisService) Analyze(ctx context.Context, regionID int64, params domain.AnalysisParams) (domain.Report, error) {
	params = params.Normalize()

	if s.cache != nil {
		report, err := s.cache.Get(ctx, regionID, params)
		if err == nil {
			s.logger.DebugContext(ctx, "analysis_service: cache hit",
				slog.Int64("region_id", regionID),
			)
			return report, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "analysis_service: report cache read failed",
				slog.Int64("region_id", regionID),
				slog.String("error", err.Error()),
			)
		}
	}

	report, orders, err := s.analyzer.AnalyzeWithOrders(ctx, regionID, params)
	if err != nil {
		return domain.Report{}, fmt.Errorf("analysis_service: analyze region %d: %w", regionID, err)
	}

	s.afterRun(ctx, report, orders)

	return report, nil
}

// RecentRuns lists persisted run summaries, newest first.
func (s *AnalysisService) RecentRuns(ctx context.Context, opts domain.ListOpts) ([]domain.RunSummary, error) {
	if s.store == nil {
		return []domain.RunSummary{}, nil
	}
	runs, err := s.store.ListRecent(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("analysis_service: list recent runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one persisted report by its run id.
func (s *AnalysisService) GetRun(ctx context.Context, runID string) (domain.Report, error) {
	if s.store == nil {
		return domain.Report{}, domain.ErrNotFound
	}
	report, err := s.store.GetByRunID(ctx, runID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("analysis_service: get run %s: %w", runID, err)
	}
	return report, nil
}

// afterRun performs the best-effort side effects of a completed run.
func (s *AnalysisService) afterRun(ctx context.Context, report domain.Report, orders []domain.MarketOrder) {
	if s.cache != nil {
		if err := s.cache.Set(ctx, report, s.ttl); err != nil {
			s.warn(ctx, "cache set failed", report, err)
		}
	}

	if s.store != nil {
		if err := s.store.Insert(ctx, report); err != nil {
			s.warn(ctx, "store insert failed", report, err)
		}
	}

	if s.archiver != nil {
		if _, err := s.archiver.ArchiveOrders(ctx, report.RegionID, report.RunID, orders); err != nil {
			s.warn(ctx, "snapshot archive failed", report, err)
		}
	}

	if s.bus != nil {
		s.publishSignal(ctx, report)
	}

	if s.alerter != nil {
		if top, ok := report.TopOpportunity(); ok && top.IsHighConfidence() {
			if err := s.alerter.OpportunityFound(ctx, report); err != nil {
				s.warn(ctx, "notify failed", report, err)
			}
		}
	}
}

func (s *AnalysisService) publishSignal(ctx context.Context, report domain.Report) {
	signal := RunSignal{
		Event:              "analysis_complete",
		RunID:              report.RunID,
		RegionID:           report.RegionID,
		RegionName:         report.RegionName,
		TotalOpportunities: report.TotalOpportunities,
	}
	if top, ok := report.TopOpportunity(); ok {
		signal.Top = &top
	}

	payload, err := json.Marshal(signal)
	if err != nil {
		s.warn(ctx, "encode signal failed", report, err)
		return
	}
	if err := s.bus.Publish(ctx, AnalysisChannel, payload); err != nil {
		s.warn(ctx, "publish signal failed", report, err)
	}
}

func (s *AnalysisService) warn(ctx context.Context, msg string, report domain.Report, err error) {
	s.logger.WarnContext(ctx, "analysis_service: "+msg,
		slog.String("run_id", report.RunID),
		slog.Int64("region_id", report.RegionID),
		slog.String("error", err.Error()),
	)
}
