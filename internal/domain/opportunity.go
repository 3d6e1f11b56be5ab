package domain

import "time"

// Confidence scoring constants. The ceilings mark the point at which each
// component saturates at 1.0. These are fixed, tunable defaults chosen for
// regional station trading, not values derived from market data.
const (
	// ConfidenceVolumeCeiling is the tradable volume at which the volume
	// component of the confidence score reaches its maximum.
	ConfidenceVolumeCeiling = 1000.0

	// ConfidenceSpreadCeiling is the percentage spread at which the spread
	// component of the confidence score reaches its maximum.
	ConfidenceSpreadCeiling = 20.0

	// confidenceVolumeWeight and confidenceSpreadWeight blend the two
	// components; they sum to 1 so the score stays within [0, 1].
	confidenceVolumeWeight = 0.6
	confidenceSpreadWeight = 0.4

	// HighConfidenceThreshold classifies an opportunity as high confidence.
	HighConfidenceThreshold = 0.7
)

// Opportunity is one viable item's trading signal within a region. It is
// created once per analysis run and never modified afterwards.
type Opportunity struct {
	TypeID           int64     `json:"type_id"`
	Name             string    `json:"name"`
	RegionID         int64     `json:"region_id"`
	RegionName       string    `json:"region_name"`
	BestBuyPrice     float64   `json:"best_buy_price"`
	BestSellPrice    float64   `json:"best_sell_price"`
	Spread           float64   `json:"spread"`
	SpreadPercentage float64   `json:"spread_percentage"`
	BuyVolume        int64     `json:"buy_volume"`
	SellVolume       int64     `json:"sell_volume"`
	Confidence       float64   `json:"confidence"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ConfidenceScore blends volume adequacy and spread attractiveness into a
// score in [0, 1]. Each component is capped at 1.0 at its ceiling.
func ConfidenceScore(s Spread) float64 {
	volume := float64(s.TradableVolume()) / ConfidenceVolumeCeiling
	if volume > 1 {
		volume = 1
	}
	spread := s.PercentageSpread() / ConfidenceSpreadCeiling
	if spread > 1 {
		spread = 1
	}
	return volume*confidenceVolumeWeight + spread*confidenceSpreadWeight
}

// IsHighConfidence reports whether the opportunity clears the high-confidence
// threshold (inclusive).
func (o Opportunity) IsHighConfidence() bool {
	return o.Confidence >= HighConfidenceThreshold
}

// ProfitPerUnit returns the per-unit spread after the given tax rate.
func (o Opportunity) ProfitPerUnit(taxRate float64) float64 {
	return o.Spread * (1 - taxRate)
}

// TotalProfitPotential returns the after-tax profit across the full tradable
// volume, bounded by the thinner side of the book.
func (o Opportunity) TotalProfitPotential(taxRate float64) float64 {
	tradable := o.BuyVolume
	if o.SellVolume < tradable {
		tradable = o.SellVolume
	}
	return o.ProfitPerUnit(taxRate) * float64(tradable)
}
