package analyzer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sntlabs/evetradetool/internal/domain"
)

type fakeResolver struct {
	items   map[int64]string
	regions map[int64]string
	err     error
}

func (f *fakeResolver) ItemName(ctx context.Context, typeID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.items[typeID], nil
}

func (f *fakeResolver) RegionName(ctx context.Context, regionID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.regions[regionID], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buyOrder(typeID int64, price float64, volume int64) domain.MarketOrder {
	return domain.MarketOrder{TypeID: typeID, Price: price, VolumeRemain: volume, IsBuyOrder: true}
}

func sellOrder(typeID int64, price float64, volume int64) domain.MarketOrder {
	return domain.MarketOrder{TypeID: typeID, Price: price, VolumeRemain: volume}
}

func TestBuilder_Evaluate_Viable(t *testing.T) {
	resolver := &fakeResolver{
		items:   map[int64]string{34: "Tritanium"},
		regions: map[int64]string{10000002: "The Forge"},
	}
	b := NewBuilder(resolver, testLogger())

	orders := []domain.MarketOrder{
		buyOrder(34, 80, 500),
		buyOrder(34, 90, 500),
		sellOrder(34, 100, 500),
		sellOrder(34, 110, 500),
	}

	opp, viable, err := b.Evaluate(context.Background(), 10000002, 34, orders, domain.DefaultAnalysisParams())
	require.NoError(t, err)
	require.True(t, viable)

	assert.Equal(t, "Tritanium", opp.Name)
	assert.Equal(t, "The Forge", opp.RegionName)
	assert.Equal(t, 90.0, opp.BestBuyPrice)
	assert.Equal(t, 100.0, opp.BestSellPrice)
	assert.Equal(t, 10.0, opp.Spread)
	assert.InDelta(t, 10.0, opp.SpreadPercentage, 1e-9)
	assert.Equal(t, int64(1000), opp.BuyVolume)
	assert.Equal(t, int64(1000), opp.SellVolume)
	assert.InDelta(t, 0.8, opp.Confidence, 1e-9)
	assert.False(t, opp.UpdatedAt.IsZero())
}

func TestBuilder_Evaluate_MissingSide(t *testing.T) {
	b := NewBuilder(&fakeResolver{}, testLogger())
	params := domain.DefaultAnalysisParams()

	t.Run("only buys", func(t *testing.T) {
		_, viable, err := b.Evaluate(context.Background(), 1, 34,
			[]domain.MarketOrder{buyOrder(34, 80, 500)}, params)
		require.NoError(t, err)
		assert.False(t, viable)
	})

	t.Run("only sells", func(t *testing.T) {
		_, viable, err := b.Evaluate(context.Background(), 1, 34,
			[]domain.MarketOrder{sellOrder(34, 100, 500)}, params)
		require.NoError(t, err)
		assert.False(t, viable)
	})

	t.Run("no orders", func(t *testing.T) {
		_, viable, err := b.Evaluate(context.Background(), 1, 34, nil, params)
		require.NoError(t, err)
		assert.False(t, viable)
	})
}

func TestBuilder_Evaluate_BelowThresholds(t *testing.T) {
	b := NewBuilder(&fakeResolver{}, testLogger())
	params := domain.DefaultAnalysisParams()

	// 2% spread, default minimum is 5%.
	orders := []domain.MarketOrder{
		buyOrder(34, 98, 500),
		sellOrder(34, 100, 500),
	}
	_, viable, err := b.Evaluate(context.Background(), 1, 34, orders, params)
	require.NoError(t, err)
	assert.False(t, viable)

	// Good spread, but only 10 units tradable against a minimum of 100.
	orders = []domain.MarketOrder{
		buyOrder(34, 80, 10),
		sellOrder(34, 100, 500),
	}
	_, viable, err = b.Evaluate(context.Background(), 1, 34, orders, params)
	require.NoError(t, err)
	assert.False(t, viable)
}

func TestBuilder_Evaluate_PlaceholderNames(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("esi down")}
	b := NewBuilder(resolver, testLogger())

	orders := []domain.MarketOrder{
		buyOrder(34, 80, 500),
		sellOrder(34, 100, 500),
	}

	opp, viable, err := b.Evaluate(context.Background(), 10000002, 34, orders, domain.DefaultAnalysisParams())
	require.NoError(t, err, "resolver failure must not sink the opportunity")
	require.True(t, viable)
	assert.Equal(t, "Item_34", opp.Name)
	assert.Equal(t, "Region_10000002", opp.RegionName)
}

func TestBuilder_Evaluate_Cancelled(t *testing.T) {
	b := NewBuilder(&fakeResolver{err: context.Canceled}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orders := []domain.MarketOrder{
		buyOrder(34, 80, 500),
		sellOrder(34, 100, 500),
	}

	_, _, err := b.Evaluate(ctx, 10000002, 34, orders, domain.DefaultAnalysisParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
