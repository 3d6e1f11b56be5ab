// Package esi implements REST clients for the EVE Swagger Interface (ESI),
// the public API that serves market order snapshots and universe metadata.
package esi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// pagesHeader is the ESI response header carrying the total page count for
// paginated endpoints.
const pagesHeader = "X-Pages"

// defaultTimeout bounds every individual ESI request.
const defaultTimeout = 30 * time.Second

// apiOrder is the wire representation of a market order as returned by
// GET /markets/{region_id}/orders/.
type apiOrder struct {
	OrderID      int64   `json:"order_id"`
	TypeID       int64   `json:"type_id"`
	Price        float64 `json:"price"`
	VolumeRemain int64   `json:"volume_remain"`
	VolumeTotal  int64   `json:"volume_total"`
	IsBuyOrder   bool    `json:"is_buy_order"`
	LocationID   int64   `json:"location_id"`
	SystemID     int64   `json:"system_id"`
	Range        string  `json:"range"`
	Duration     int     `json:"duration"`
	Issued       string  `json:"issued"`
}

// ToDomain converts an apiOrder into the domain representation. A malformed
// issued timestamp is left as the zero time; orders remain usable without it.
func (o apiOrder) ToDomain() domain.MarketOrder {
	issued, _ := time.Parse(time.RFC3339, o.Issued)
	return domain.MarketOrder{
		OrderID:      o.OrderID,
		TypeID:       o.TypeID,
		Price:        o.Price,
		VolumeRemain: o.VolumeRemain,
		VolumeTotal:  o.VolumeTotal,
		IsBuyOrder:   o.IsBuyOrder,
		LocationID:   o.LocationID,
		SystemID:     o.SystemID,
		Range:        domain.OrderRange(o.Range),
		Duration:     o.Duration,
		Issued:       issued,
	}
}

// TypeInfo is the subset of GET /universe/types/{type_id}/ that the service
// exposes.
type TypeInfo struct {
	TypeID      int64   `json:"type_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	GroupID     int64   `json:"group_id"`
	Volume      float64 `json:"volume"`
	Published   bool    `json:"published"`
}

// RegionInfo is the subset of GET /universe/regions/{region_id}/ that the
// service exposes.
type RegionInfo struct {
	RegionID       int64   `json:"region_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Constellations []int64 `json:"constellations"`
}

// ConstellationInfo carries the region linkage needed for the system walk.
type ConstellationInfo struct {
	ConstellationID int64  `json:"constellation_id"`
	Name            string `json:"name"`
	RegionID        int64  `json:"region_id"`
}

// SystemInfo carries the constellation linkage needed for the system walk.
type SystemInfo struct {
	SystemID        int64   `json:"system_id"`
	Name            string  `json:"name"`
	ConstellationID int64   `json:"constellation_id"`
	SecurityStatus  float64 `json:"security_status"`
}

// ResolvedEntry is one id/name pair in a POST /universe/ids/ response
// category.
type ResolvedEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ResolvedIDs is the categorized response of POST /universe/ids/.
type ResolvedIDs struct {
	Regions        []ResolvedEntry `json:"regions"`
	Systems        []ResolvedEntry `json:"systems"`
	Constellations []ResolvedEntry `json:"constellations"`
	InventoryTypes []ResolvedEntry `json:"inventory_types"`
}

// checkHTTPStatus maps an ESI status code onto the domain error taxonomy.
// ESI signals error-limit throttling with 420 in addition to the usual 429.
func checkHTTPStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == 420 || status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", domain.ErrRateLimited, status)
	default:
		return fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, status, truncate(body, 256))
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
