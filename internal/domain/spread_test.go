package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpread(t *testing.T) {
	buys := []MarketOrder{
		{OrderID: 1, Price: 80, VolumeRemain: 150, IsBuyOrder: true},
		{OrderID: 2, Price: 90, VolumeRemain: 50, IsBuyOrder: true},
	}
	sells := []MarketOrder{
		{OrderID: 3, Price: 110, VolumeRemain: 300},
		{OrderID: 4, Price: 100, VolumeRemain: 100},
	}

	s := NewSpread(buys, sells)

	assert.Equal(t, 90.0, s.BestBuy, "best buy is the highest buy price")
	assert.Equal(t, 100.0, s.BestSell, "best sell is the lowest sell price")
	assert.Equal(t, int64(200), s.BuyVolume)
	assert.Equal(t, int64(400), s.SellVolume)
	assert.Equal(t, 10.0, s.AbsoluteSpread())
	assert.InDelta(t, 10.0, s.PercentageSpread(), 1e-9)
	assert.Equal(t, int64(200), s.TradableVolume())
}

func TestSpread_PercentageSpread_ZeroSell(t *testing.T) {
	s := Spread{BestBuy: 50, BestSell: 0}
	assert.Equal(t, 0.0, s.PercentageSpread())
}

func TestSpread_IsViable(t *testing.T) {
	tests := []struct {
		name      string
		spread    Spread
		minSpread float64
		minVolume int64
		want      bool
	}{
		{
			name:      "clears both thresholds",
			spread:    Spread{BestBuy: 80, BestSell: 100, BuyVolume: 500, SellVolume: 500},
			minSpread: 5.0,
			minVolume: 100,
			want:      true,
		},
		{
			name:      "exactly at both thresholds is viable",
			spread:    Spread{BestBuy: 95, BestSell: 100, BuyVolume: 100, SellVolume: 200},
			minSpread: 5.0,
			minVolume: 100,
			want:      true,
		},
		{
			name:      "spread below threshold",
			spread:    Spread{BestBuy: 98, BestSell: 100, BuyVolume: 500, SellVolume: 500},
			minSpread: 5.0,
			minVolume: 100,
			want:      false,
		},
		{
			name:      "tradable volume below threshold",
			spread:    Spread{BestBuy: 80, BestSell: 100, BuyVolume: 99, SellVolume: 5000},
			minSpread: 5.0,
			minVolume: 100,
			want:      false,
		},
		{
			name:      "negative spread never viable",
			spread:    Spread{BestBuy: 120, BestSell: 100, BuyVolume: 500, SellVolume: 500},
			minSpread: 5.0,
			minVolume: 100,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spread.IsViable(tt.minSpread, tt.minVolume))
		})
	}
}

func TestSpread_TradableVolume_ThinnerSide(t *testing.T) {
	s := Spread{BuyVolume: 30, SellVolume: 70}
	require.Equal(t, int64(30), s.TradableVolume())

	s = Spread{BuyVolume: 70, SellVolume: 30}
	require.Equal(t, int64(30), s.TradableVolume())
}
