package domain

// Default viability thresholds. Callers supply their own per run; these are
// the values used when a request leaves them unset.
const (
	DefaultMinSpreadPercentage = 5.0
	DefaultMinVolume           = 100
)

// Spread captures the bid/ask statistics for one item type within a region,
// derived from its matched buy-side and sell-side orders.
//
// Note the sign convention: AbsoluteSpread is best sell minus best buy, where
// best buy is the highest buy price and best sell is the lowest sell price.
type Spread struct {
	BestBuy    float64 // highest price among buy orders
	BestSell   float64 // lowest price among sell orders
	BuyVolume  int64   // sum of remaining volume across buy orders
	SellVolume int64   // sum of remaining volume across sell orders
}

// NewSpread computes a Spread from pre-partitioned buy and sell orders.
// Both slices must be non-empty; the builder guarantees this.
func NewSpread(buyOrders, sellOrders []MarketOrder) Spread {
	var s Spread
	for i, o := range buyOrders {
		if i == 0 || o.Price > s.BestBuy {
			s.BestBuy = o.Price
		}
		s.BuyVolume += o.VolumeRemain
	}
	for i, o := range sellOrders {
		if i == 0 || o.Price < s.BestSell {
			s.BestSell = o.Price
		}
		s.SellVolume += o.VolumeRemain
	}
	return s
}

// AbsoluteSpread returns best sell minus best buy in ISK.
func (s Spread) AbsoluteSpread() float64 {
	return s.BestSell - s.BestBuy
}

// PercentageSpread returns the absolute spread as a percentage of the best
// sell price, or 0 when the best sell price is not positive.
func (s Spread) PercentageSpread() float64 {
	if s.BestSell > 0 {
		return s.AbsoluteSpread() / s.BestSell * 100
	}
	return 0
}

// TradableVolume returns the volume that can actually change hands, bounded
// by the thinner side of the book.
func (s Spread) TradableVolume() int64 {
	if s.BuyVolume < s.SellVolume {
		return s.BuyVolume
	}
	return s.SellVolume
}

// IsViable reports whether the spread clears both caller-supplied thresholds.
// Both comparisons are inclusive.
func (s Spread) IsViable(minSpreadPercentage float64, minVolume int64) bool {
	return s.PercentageSpread() >= minSpreadPercentage &&
		s.TradableVolume() >= minVolume
}
