package domain

import "time"

// OrderRange describes how far from its station a buy order will match.
// ESI reports it as "station", "region", "solarsystem", or a jump count.
type OrderRange string

const (
	RangeStation     OrderRange = "station"
	RangeRegion      OrderRange = "region"
	RangeSolarSystem OrderRange = "solarsystem"
)

// OrderType filters market order queries by side.
type OrderType string

const (
	OrderTypeAll  OrderType = "all"
	OrderTypeBuy  OrderType = "buy"
	OrderTypeSell OrderType = "sell"
)

// MarketOrder is a single raw order from a regional order-book snapshot.
// Orders are immutable once fetched; the analysis core never mutates them.
type MarketOrder struct {
	OrderID      int64
	TypeID       int64
	Price        float64
	VolumeRemain int64
	VolumeTotal  int64
	IsBuyOrder   bool
	LocationID   int64
	SystemID     int64
	Range        OrderRange
	Duration     int
	Issued       time.Time
}

// OrderQuery narrows a market order fetch to a single item type and/or side.
// The zero value requests every order in the region.
type OrderQuery struct {
	TypeID    int64     // 0 = all types
	OrderType OrderType // "" = all
}
