package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sntlabs/evetradetool/internal/analyzer"
	"github.com/sntlabs/evetradetool/internal/domain"
	"github.com/sntlabs/evetradetool/internal/notify"
	"github.com/sntlabs/evetradetool/internal/server"
	"github.com/sntlabs/evetradetool/internal/server/handler"
	"github.com/sntlabs/evetradetool/internal/server/ws"
	"github.com/sntlabs/evetradetool/internal/service"
)

const shutdownTimeout = 10 * time.Second

// services bundles the application-layer services built on top of the wired
// dependencies. All modes share the same construction.
type services struct {
	names    *service.NameService
	orders   *service.OrderService
	universe *service.UniverseService
	items    *service.ItemService
	analysis *service.AnalysisService
}

func (a *App) buildServices(deps *Dependencies) *services {
	nameSvc := service.NewNameService(
		deps.NameCache,
		deps.ItemsClient,
		deps.UniverseClient,
		a.cfg.Analysis.NameTTL.Duration,
		a.logger,
	)

	regionAnalyzer := analyzer.New(deps.MarketClient, nameSvc, a.logger)

	var alerter service.Alerter
	if deps.Notifier != nil && deps.Notifier.HasSenders() {
		alerter = notify.NewOpportunityAlerter(deps.Notifier)
	}

	analysisSvc := service.NewAnalysisService(
		regionAnalyzer,
		deps.ReportCache,
		deps.ReportStore,
		deps.Archiver,
		deps.SignalBus,
		alerter,
		a.cfg.Analysis.ReportTTL.Duration,
		a.logger,
	)

	return &services{
		names:    nameSvc,
		orders:   service.NewOrderService(deps.MarketClient, deps.UniverseClient, a.logger),
		universe: service.NewUniverseService(deps.UniverseClient, a.logger),
		items:    service.NewItemService(deps.ItemsClient, a.logger),
		analysis: analysisSvc,
	}
}

// ServerMode runs the HTTP API and, when a signal bus is available, the
// WebSocket hub that streams analysis completions to connected clients.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	svcs := a.buildServices(deps)

	g, ctx := errgroup.WithContext(ctx)

	// The hub only makes sense with a bus to relay from.
	var hub *ws.Hub
	if deps.SignalBus != nil {
		hub = ws.NewHub(deps.SignalBus, a.logger)
		g.Go(func() error {
			return hub.Run(ctx)
		})
	}

	srv := a.newServer(svcs, hub, deps)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newServer assembles the HTTP server from the shared service set.
func (a *App) newServer(svcs *services, hub *ws.Hub, deps *Dependencies) *server.Server {
	return server.NewServer(
		server.Config{
			Port:            a.cfg.Server.Port,
			CORSOrigins:     a.cfg.Server.CORSOrigins,
			APIKey:          a.cfg.Server.APIKey,
			Limiter:         deps.RateLimiter,
			RateLimitPerMin: a.cfg.Server.RateLimitPerMin,
		},
		server.Handlers{
			Health:   handler.NewHealthHandler(a.logger),
			Market:   handler.NewMarketHandler(svcs.orders, svcs.analysis, a.logger),
			Analysis: handler.NewAnalysisHandler(svcs.analysis, a.logger),
			Universe: handler.NewUniverseHandler(svcs.universe, a.logger),
			Items:    handler.NewItemHandler(svcs.items, a.logger),
		},
		hub,
		a.logger,
	)
}

// AnalyzeMode runs a single analysis of the configured default region and
// writes the report as JSON to stdout. Persistence, archival, and alerting
// still happen when their backends are wired.
func (a *App) AnalyzeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting analyze mode",
		slog.Int64("region_id", a.cfg.Analysis.DefaultRegionID),
	)

	svcs := a.buildServices(deps)

	report, err := svcs.analysis.Analyze(ctx, a.cfg.Analysis.DefaultRegionID, a.analysisParams())
	if err != nil {
		return fmt.Errorf("app: analyze region %d: %w", a.cfg.Analysis.DefaultRegionID, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("app: encode report: %w", err)
	}
	return nil
}

// FullMode runs the HTTP API plus a background loop that re-analyzes the
// default region every report TTL, so the cache is always warm and alerts
// fire without anyone hitting the API.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	svcs := a.buildServices(deps)

	g, ctx := errgroup.WithContext(ctx)

	var hub *ws.Hub
	if deps.SignalBus != nil {
		hub = ws.NewHub(deps.SignalBus, a.logger)
		g.Go(func() error {
			return hub.Run(ctx)
		})
	}

	srv := a.newServer(svcs, hub, deps)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.analysisLoop(ctx, svcs.analysis)
	})

	return g.Wait()
}

// analysisLoop periodically re-analyzes the default region. An analysis
// failure is logged and the loop keeps going; ESI being down for one tick
// should not take the whole process with it.
func (a *App) analysisLoop(ctx context.Context, analysisSvc *service.AnalysisService) error {
	interval := a.cfg.Analysis.ReportTTL.Duration
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.InfoContext(ctx, "background analysis loop started",
		slog.Int64("region_id", a.cfg.Analysis.DefaultRegionID),
		slog.Duration("interval", interval),
	)

	run := func() {
		runCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		report, err := analysisSvc.Analyze(runCtx, a.cfg.Analysis.DefaultRegionID, a.analysisParams())
		if err != nil {
			a.logger.WarnContext(ctx, "background analysis failed",
				slog.Int64("region_id", a.cfg.Analysis.DefaultRegionID),
				slog.String("error", err.Error()),
			)
			return
		}
		a.logger.InfoContext(ctx, "background analysis complete",
			slog.String("run_id", report.RunID),
			slog.Int("opportunities", report.TotalOpportunities),
		)
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			run()
		}
	}
}

// analysisParams translates the configured analysis knobs into domain
// parameters. Zero values fall through to the domain defaults.
func (a *App) analysisParams() domain.AnalysisParams {
	return domain.AnalysisParams{
		MinVolume:   a.cfg.Analysis.MinVolume,
		MinSpread:   a.cfg.Analysis.MinSpread,
		Limit:       a.cfg.Analysis.Limit,
		AnalysisCap: a.cfg.Analysis.AnalysisCap,
	}.Normalize()
}
