package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// maxConcurrentPages caps how many order pages are fetched in parallel for a
// single region. ESI tolerates modest concurrency but throttles bursts.
const maxConcurrentPages = 8

// MarketClient fetches market order books from ESI.
type MarketClient struct {
	client *Client
}

// NewMarketClient creates a market client on top of the shared transport.
func NewMarketClient(client *Client) *MarketClient {
	return &MarketClient{client: client}
}

// GetRegionOrders returns every order in the region matching the query,
// fetching all X-Pages of the endpoint. Pages beyond the first are fetched
// concurrently; any page failure fails the whole call.
func (m *MarketClient) GetRegionOrders(ctx context.Context, regionID int64, q domain.OrderQuery) ([]domain.MarketOrder, error) {
	orderType := q.OrderType
	if orderType == "" {
		orderType = domain.OrderTypeAll
	}

	params := url.Values{}
	params.Set("order_type", string(orderType))
	if q.TypeID > 0 {
		params.Set("type_id", strconv.FormatInt(q.TypeID, 10))
	}

	basePath := fmt.Sprintf("/markets/%d/orders/?%s", regionID, params.Encode())

	firstPage, pages, err := m.getOrderPage(ctx, basePath, 1)
	if err != nil {
		return nil, fmt.Errorf("esi: get region %d orders: %w", regionID, err)
	}
	if pages <= 1 {
		return toDomainOrders(firstPage), nil
	}

	// Index 0 is unused so results line up with ESI's 1-based page numbers.
	pageResults := make([][]apiOrder, pages+1)
	pageResults[1] = firstPage

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPages)
	for page := 2; page <= pages; page++ {
		g.Go(func() error {
			res, _, err := m.getOrderPage(gctx, basePath, page)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			pageResults[page] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("esi: get region %d orders: %w", regionID, err)
	}

	var all []apiOrder
	for page := 1; page <= pages; page++ {
		all = append(all, pageResults[page]...)
	}
	return toDomainOrders(all), nil
}

// GetSystemOrders returns the region-wide order book filtered down to orders
// placed in the given solar system. ESI has no per-system order endpoint, so
// the system is walked up to its region first.
func (m *MarketClient) GetSystemOrders(ctx context.Context, universe *UniverseClient, systemID int64, q domain.OrderQuery) ([]domain.MarketOrder, error) {
	regionID, err := universe.RegionIDForSystem(ctx, systemID)
	if err != nil {
		return nil, fmt.Errorf("esi: resolve region for system %d: %w", systemID, err)
	}

	orders, err := m.GetRegionOrders(ctx, regionID, q)
	if err != nil {
		return nil, err
	}

	filtered := orders[:0]
	for _, o := range orders {
		if o.SystemID == systemID {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// getOrderPage fetches one page of the order endpoint and reports the total
// page count from the X-Pages header (1 when the header is absent).
func (m *MarketClient) getOrderPage(ctx context.Context, basePath string, page int) ([]apiOrder, int, error) {
	path := basePath + "&page=" + strconv.Itoa(page)

	body, header, err := m.client.doGet(ctx, path)
	if err != nil {
		return nil, 0, err
	}

	var orders []apiOrder
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}

	pages := 1
	if v := header.Get(pagesHeader); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pages = n
		}
	}
	return orders, pages, nil
}

func toDomainOrders(apiOrders []apiOrder) []domain.MarketOrder {
	orders := make([]domain.MarketOrder, 0, len(apiOrders))
	for i := range apiOrders {
		orders = append(orders, apiOrders[i].ToDomain())
	}
	return orders
}
