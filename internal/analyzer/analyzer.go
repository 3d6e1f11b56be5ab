package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// RegionAnalyzer runs the full analysis pipeline for one region: fetch the
// order snapshot, group by item type, evaluate each group, rank, paginate,
// and assemble the report.
//
// The pipeline is strictly sequential; any fan-out belongs inside the order
// source's own pagination. Concurrent Analyze calls are independent: the
// analyzer holds no mutable state between calls.
type RegionAnalyzer struct {
	orders    domain.OrderSource
	names     domain.NameResolver
	evaluator Evaluator
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a RegionAnalyzer with the default opportunity Builder.
func New(orders domain.OrderSource, names domain.NameResolver, logger *slog.Logger) *RegionAnalyzer {
	return &RegionAnalyzer{
		orders:    orders,
		names:     names,
		evaluator: NewBuilder(names, logger),
		logger:    logger.With(slog.String("component", "analyzer")),
		now:       time.Now,
	}
}

// NewWithEvaluator creates a RegionAnalyzer with a custom Evaluator.
func NewWithEvaluator(orders domain.OrderSource, names domain.NameResolver, ev Evaluator, logger *slog.Logger) *RegionAnalyzer {
	a := New(orders, names, logger)
	a.evaluator = ev
	return a
}

// Analyze fetches the region's order snapshot and produces a ranked report.
// An order-fetch failure is fatal: no partial report is ever returned. A
// failure while evaluating a single item group is logged and the item
// skipped; it still counts towards TotalItemsAnalyzed.
func (a *RegionAnalyzer) Analyze(ctx context.Context, regionID int64, params domain.AnalysisParams) (domain.Report, error) {
	report, _, err := a.AnalyzeWithOrders(ctx, regionID, params)
	return report, err
}

// AnalyzeWithOrders is Analyze but also returns the raw order snapshot the
// report was computed from, so callers can archive it.
func (a *RegionAnalyzer) AnalyzeWithOrders(ctx context.Context, regionID int64, params domain.AnalysisParams) (domain.Report, []domain.MarketOrder, error) {
	params = params.Normalize()

	a.logger.InfoContext(ctx, "analyzing region",
		slog.Int64("region_id", regionID),
		slog.Int64("min_volume", params.MinVolume),
		slog.Float64("min_spread", params.MinSpread),
	)

	allOrders, err := a.orders.GetRegionOrders(ctx, regionID, domain.OrderQuery{})
	if err != nil {
		return domain.Report{}, nil, fmt.Errorf("analyzer: fetch orders for region %d: %w", regionID, err)
	}

	typeIDs, grouped := groupOrdersByType(allOrders)

	// The cap is a hard performance ceiling, not a quality filter. Groups are
	// taken in first-encounter order of the snapshot; how the order source
	// orders its snapshot is its own business.
	if len(typeIDs) > params.AnalysisCap {
		typeIDs = typeIDs[:params.AnalysisCap]
	}

	var opportunities []domain.Opportunity
	totalAnalyzed := 0
	for _, typeID := range typeIDs {
		if err := ctx.Err(); err != nil {
			return domain.Report{}, nil, fmt.Errorf("analyzer: region %d: %w", regionID, err)
		}
		totalAnalyzed++

		opp, viable, err := a.evaluator.Evaluate(ctx, regionID, typeID, grouped[typeID], params)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Report{}, nil, fmt.Errorf("analyzer: region %d: %w", regionID, ctx.Err())
			}
			a.logger.WarnContext(ctx, "item evaluation failed, skipping",
				slog.Int64("type_id", typeID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if viable {
			opportunities = append(opportunities, opp)
		}
	}

	// Rank by percentage spread, best first. The sort is stable so that equal
	// spreads keep their collection order.
	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].SpreadPercentage > opportunities[j].SpreadPercentage
	})

	totalOpportunities := len(opportunities)
	page := paginate(opportunities, params.Offset, params.Limit)

	regionName, err := a.names.RegionName(ctx, regionID)
	if err != nil || regionName == "" {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Report{}, nil, fmt.Errorf("analyzer: region %d: %w", regionID, ctxErr)
		}
		regionName = placeholderName("region", regionID)
	}

	report := domain.Report{
		RunID:              uuid.NewString(),
		RegionID:           regionID,
		RegionName:         regionName,
		Opportunities:      page,
		TotalItemsAnalyzed: totalAnalyzed,
		TotalOpportunities: totalOpportunities,
		AnalyzedAt:         a.now(),
		Params:             params,
	}

	a.logger.InfoContext(ctx, "region analysis complete",
		slog.Int64("region_id", regionID),
		slog.Int("items_analyzed", totalAnalyzed),
		slog.Int("opportunities", totalOpportunities),
	)

	return report, allOrders, nil
}

// groupOrdersByType partitions orders by type id, returning the type ids in
// first-encounter order alongside the grouped orders.
func groupOrdersByType(orders []domain.MarketOrder) ([]int64, map[int64][]domain.MarketOrder) {
	grouped := make(map[int64][]domain.MarketOrder)
	var typeIDs []int64
	for _, o := range orders {
		if _, seen := grouped[o.TypeID]; !seen {
			typeIDs = append(typeIDs, o.TypeID)
		}
		grouped[o.TypeID] = append(grouped[o.TypeID], o)
	}
	return typeIDs, grouped
}

// paginate slices opportunities to [offset, offset+limit), clamping both
// bounds. The slice shares backing storage with the input, which the report
// then exclusively owns.
func paginate(opps []domain.Opportunity, offset, limit int) []domain.Opportunity {
	if offset >= len(opps) {
		return nil
	}
	end := offset + limit
	if end > len(opps) {
		end = len(opps)
	}
	return opps[offset:end]
}
