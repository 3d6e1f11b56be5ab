package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceScore(t *testing.T) {
	tests := []struct {
		name   string
		spread Spread
		want   float64
	}{
		{
			name:   "both components saturated",
			spread: Spread{BestBuy: 50, BestSell: 100, BuyVolume: 5000, SellVolume: 5000},
			want:   1.0,
		},
		{
			name:   "volume at half ceiling, spread at half ceiling",
			spread: Spread{BestBuy: 90, BestSell: 100, BuyVolume: 500, SellVolume: 500},
			// 0.6*0.5 + 0.4*0.5
			want: 0.5,
		},
		{
			name:   "zero volume, zero spread",
			spread: Spread{BestBuy: 100, BestSell: 100},
			want:   0.0,
		},
		{
			name:   "volume saturated, no spread",
			spread: Spread{BestBuy: 100, BestSell: 100, BuyVolume: 2000, SellVolume: 2000},
			want:   0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConfidenceScore(tt.spread), 1e-9)
		})
	}
}

func TestOpportunity_IsHighConfidence(t *testing.T) {
	assert.True(t, Opportunity{Confidence: 0.7}.IsHighConfidence(), "threshold is inclusive")
	assert.True(t, Opportunity{Confidence: 0.9}.IsHighConfidence())
	assert.False(t, Opportunity{Confidence: 0.69}.IsHighConfidence())
}

func TestOpportunity_Profit(t *testing.T) {
	o := Opportunity{Spread: 100, BuyVolume: 50, SellVolume: 80}

	assert.InDelta(t, 92.0, o.ProfitPerUnit(0.08), 1e-9)
	assert.InDelta(t, 92.0*50, o.TotalProfitPotential(0.08), 1e-9)
}

func TestAnalysisParams_Normalize(t *testing.T) {
	t.Run("zero values get defaults", func(t *testing.T) {
		p := AnalysisParams{}.Normalize()
		assert.Equal(t, DefaultAnalysisParams(), p)
	})

	t.Run("set values survive", func(t *testing.T) {
		p := AnalysisParams{MinVolume: 10, MinSpread: 2.5, Limit: 5, Offset: 40, AnalysisCap: 30}
		assert.Equal(t, p, p.Normalize())
	})

	t.Run("negative offset clamps to zero", func(t *testing.T) {
		p := AnalysisParams{Offset: -3}.Normalize()
		assert.Equal(t, 0, p.Offset)
	})
}

func TestReport_Accessors(t *testing.T) {
	r := Report{
		Opportunities: []Opportunity{
			{TypeID: 34, SpreadPercentage: 12, Confidence: 0.9},
			{TypeID: 35, SpreadPercentage: 8, Confidence: 0.4},
			{TypeID: 36, SpreadPercentage: 5, Confidence: 0.75},
		},
	}

	top, ok := r.TopOpportunity()
	assert.True(t, ok)
	assert.Equal(t, int64(34), top.TypeID)

	high := r.HighConfidence()
	assert.Len(t, high, 2)
	assert.Equal(t, int64(34), high[0].TypeID)
	assert.Equal(t, int64(36), high[1].TypeID)

	above := r.AboveSpread(8)
	assert.Len(t, above, 2)

	_, ok = Report{}.TopOpportunity()
	assert.False(t, ok)
}
