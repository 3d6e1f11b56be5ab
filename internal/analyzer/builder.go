// Package analyzer implements the market opportunity analysis engine: it
// turns a region's raw order snapshot into a ranked, paginated report of
// viable station-trading opportunities.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// Evaluator scores a single item type's order group. A false second return
// with a nil error means the item is simply not viable (missing a side, or
// thresholds not cleared); an error means the evaluation itself failed.
type Evaluator interface {
	Evaluate(ctx context.Context, regionID, typeID int64, orders []domain.MarketOrder, params domain.AnalysisParams) (domain.Opportunity, bool, error)
}

// Builder is the default Evaluator. It partitions an item's orders into buy
// and sell sides, computes the spread, applies the viability thresholds, and
// resolves display names best-effort.
type Builder struct {
	names  domain.NameResolver
	logger *slog.Logger
	now    func() time.Time
}

// NewBuilder creates a Builder using the given name resolver.
func NewBuilder(names domain.NameResolver, logger *slog.Logger) *Builder {
	return &Builder{
		names:  names,
		logger: logger.With(slog.String("component", "builder")),
		now:    time.Now,
	}
}

// Evaluate implements Evaluator.
func (b *Builder) Evaluate(ctx context.Context, regionID, typeID int64, orders []domain.MarketOrder, params domain.AnalysisParams) (domain.Opportunity, bool, error) {
	var buys, sells []domain.MarketOrder
	for _, o := range orders {
		if o.IsBuyOrder {
			buys = append(buys, o)
		} else {
			sells = append(sells, o)
		}
	}

	// No buyer or no seller present: there is no spread to form. This is an
	// ordinary negative result, not an error.
	if len(buys) == 0 || len(sells) == 0 {
		return domain.Opportunity{}, false, nil
	}

	spread := domain.NewSpread(buys, sells)
	if !spread.IsViable(params.MinSpread, params.MinVolume) {
		return domain.Opportunity{}, false, nil
	}

	// Names are best-effort; a resolver failure must never sink an otherwise
	// viable opportunity. Cancellation, however, aborts the run.
	itemName := b.resolveName(ctx, "item", typeID)
	regionName := b.resolveName(ctx, "region", regionID)
	if err := ctx.Err(); err != nil {
		return domain.Opportunity{}, false, fmt.Errorf("analyzer: evaluate type %d: %w", typeID, err)
	}

	return domain.Opportunity{
		TypeID:           typeID,
		Name:             itemName,
		RegionID:         regionID,
		RegionName:       regionName,
		BestBuyPrice:     spread.BestBuy,
		BestSellPrice:    spread.BestSell,
		Spread:           spread.AbsoluteSpread(),
		SpreadPercentage: spread.PercentageSpread(),
		BuyVolume:        spread.BuyVolume,
		SellVolume:       spread.SellVolume,
		Confidence:       domain.ConfidenceScore(spread),
		UpdatedAt:        b.now(),
	}, true, nil
}

// resolveName looks up a display name, falling back to a synthetic
// "<Kind>_<id>" placeholder on any resolver failure.
func (b *Builder) resolveName(ctx context.Context, kind string, id int64) string {
	var (
		name string
		err  error
	)
	switch kind {
	case "region":
		name, err = b.names.RegionName(ctx, id)
	default:
		name, err = b.names.ItemName(ctx, id)
	}
	if err != nil || name == "" {
		b.logger.DebugContext(ctx, "name resolution failed, using placeholder",
			slog.String("kind", kind),
			slog.Int64("id", id),
		)
		return placeholderName(kind, id)
	}
	return name
}

// placeholderName builds the synthetic fallback name for an unresolvable id.
func placeholderName(kind string, id int64) string {
	switch kind {
	case "region":
		return fmt.Sprintf("Region_%d", id)
	default:
		return fmt.Sprintf("Item_%d", id)
	}
}
