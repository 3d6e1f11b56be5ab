package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sntlabs/evetradetool/internal/domain"
)

type fakeOrderSource struct {
	orders []domain.MarketOrder
	err    error
	calls  int
}

func (f *fakeOrderSource) GetRegionOrders(ctx context.Context, regionID int64, q domain.OrderQuery) ([]domain.MarketOrder, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

// viableGroup produces a buy/sell pair for typeID whose percentage spread is
// spreadPct and whose tradable volume comfortably clears the defaults.
func viableGroup(typeID int64, spreadPct float64) []domain.MarketOrder {
	sell := 100.0
	buy := sell * (1 - spreadPct/100)
	return []domain.MarketOrder{
		buyOrder(typeID, buy, 1000),
		sellOrder(typeID, sell, 1000),
	}
}

func TestRegionAnalyzer_Analyze_RanksBySpread(t *testing.T) {
	var orders []domain.MarketOrder
	orders = append(orders, viableGroup(34, 5)...)
	orders = append(orders, viableGroup(35, 12)...)
	orders = append(orders, viableGroup(36, 8)...)

	source := &fakeOrderSource{orders: orders}
	resolver := &fakeResolver{regions: map[int64]string{10000002: "The Forge"}}
	a := New(source, resolver, testLogger())

	report, err := a.Analyze(context.Background(), 10000002, domain.AnalysisParams{})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, int64(10000002), report.RegionID)
	assert.Equal(t, "The Forge", report.RegionName)
	assert.Equal(t, 3, report.TotalItemsAnalyzed)
	assert.Equal(t, 3, report.TotalOpportunities)

	require.Len(t, report.Opportunities, 3)
	assert.Equal(t, int64(35), report.Opportunities[0].TypeID)
	assert.Equal(t, int64(36), report.Opportunities[1].TypeID)
	assert.Equal(t, int64(34), report.Opportunities[2].TypeID)

	// Normalized parameters are echoed back.
	assert.Equal(t, domain.DefaultAnalysisParams(), report.Params)
}

func TestRegionAnalyzer_Analyze_FetchFailureIsFatal(t *testing.T) {
	source := &fakeOrderSource{err: domain.ErrUpstream}
	a := New(source, &fakeResolver{}, testLogger())

	_, err := a.Analyze(context.Background(), 10000002, domain.AnalysisParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestRegionAnalyzer_Analyze_Pagination(t *testing.T) {
	var orders []domain.MarketOrder
	for i := int64(1); i <= 5; i++ {
		// Spreads 15, 14, 13, 12, 11 so ranking matches type id order.
		orders = append(orders, viableGroup(i, float64(16-i))...)
	}
	source := &fakeOrderSource{orders: orders}
	a := New(source, &fakeResolver{}, testLogger())

	t.Run("offset and limit window", func(t *testing.T) {
		report, err := a.Analyze(context.Background(), 1, domain.AnalysisParams{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, 5, report.TotalOpportunities)
		require.Len(t, report.Opportunities, 2)
		assert.Equal(t, int64(2), report.Opportunities[0].TypeID)
		assert.Equal(t, int64(3), report.Opportunities[1].TypeID)
	})

	t.Run("offset past the end yields empty page", func(t *testing.T) {
		report, err := a.Analyze(context.Background(), 1, domain.AnalysisParams{Limit: 2, Offset: 10})
		require.NoError(t, err)
		assert.Equal(t, 5, report.TotalOpportunities)
		assert.Empty(t, report.Opportunities)
	})

	t.Run("limit past the end clamps", func(t *testing.T) {
		report, err := a.Analyze(context.Background(), 1, domain.AnalysisParams{Limit: 50, Offset: 3})
		require.NoError(t, err)
		require.Len(t, report.Opportunities, 2)
	})
}

func TestRegionAnalyzer_Analyze_CapFirstEncounterOrder(t *testing.T) {
	var orders []domain.MarketOrder
	for i := int64(1); i <= 4; i++ {
		orders = append(orders, viableGroup(i, 10)...)
	}
	source := &fakeOrderSource{orders: orders}
	a := New(source, &fakeResolver{}, testLogger())

	report, err := a.Analyze(context.Background(), 1, domain.AnalysisParams{AnalysisCap: 2})
	require.NoError(t, err)

	// Only the first two encountered types are analyzed.
	assert.Equal(t, 2, report.TotalItemsAnalyzed)
	assert.Equal(t, 2, report.TotalOpportunities)
	seen := []int64{report.Opportunities[0].TypeID, report.Opportunities[1].TypeID}
	assert.ElementsMatch(t, []int64{1, 2}, seen)
}

type failingEvaluator struct {
	failOn int64
	inner  Evaluator
}

func (f *failingEvaluator) Evaluate(ctx context.Context, regionID, typeID int64, orders []domain.MarketOrder, params domain.AnalysisParams) (domain.Opportunity, bool, error) {
	if typeID == f.failOn {
		return domain.Opportunity{}, false, errors.New("evaluation blew up")
	}
	return f.inner.Evaluate(ctx, regionID, typeID, orders, params)
}

func TestRegionAnalyzer_Analyze_SkipsFailedItems(t *testing.T) {
	var orders []domain.MarketOrder
	orders = append(orders, viableGroup(34, 10)...)
	orders = append(orders, viableGroup(35, 10)...)
	orders = append(orders, viableGroup(36, 10)...)

	source := &fakeOrderSource{orders: orders}
	resolver := &fakeResolver{}
	ev := &failingEvaluator{failOn: 35, inner: NewBuilder(resolver, testLogger())}
	a := NewWithEvaluator(source, resolver, ev, testLogger())

	report, err := a.Analyze(context.Background(), 1, domain.AnalysisParams{})
	require.NoError(t, err)

	// The failed item is skipped but still counted as analyzed.
	assert.Equal(t, 3, report.TotalItemsAnalyzed)
	assert.Equal(t, 2, report.TotalOpportunities)
	for _, o := range report.Opportunities {
		assert.NotEqual(t, int64(35), o.TypeID)
	}
}

func TestRegionAnalyzer_Analyze_Cancelled(t *testing.T) {
	source := &fakeOrderSource{orders: viableGroup(34, 10)}
	a := New(source, &fakeResolver{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, 1, domain.AnalysisParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGroupOrdersByType(t *testing.T) {
	orders := []domain.MarketOrder{
		buyOrder(35, 80, 10),
		sellOrder(34, 100, 10),
		buyOrder(35, 85, 10),
		sellOrder(35, 100, 10),
	}

	typeIDs, grouped := groupOrdersByType(orders)
	assert.Equal(t, []int64{35, 34}, typeIDs, "first-encounter order")
	assert.Len(t, grouped[35], 3)
	assert.Len(t, grouped[34], 1)
}
