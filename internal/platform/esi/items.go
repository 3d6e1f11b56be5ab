package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ItemsClient fetches item type metadata from ESI.
type ItemsClient struct {
	client *Client
}

// NewItemsClient creates an items client on top of the shared transport.
func NewItemsClient(client *Client) *ItemsClient {
	return &ItemsClient{client: client}
}

// GetTypeInfo returns metadata for a single item type.
func (i *ItemsClient) GetTypeInfo(ctx context.Context, typeID int64) (TypeInfo, error) {
	path := fmt.Sprintf("/universe/types/%d/", typeID)

	body, _, err := i.client.doGet(ctx, path)
	if err != nil {
		return TypeInfo{}, fmt.Errorf("esi: get type %d: %w", typeID, err)
	}

	var info TypeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return TypeInfo{}, fmt.Errorf("esi: decode type %d: %w", typeID, err)
	}
	if info.TypeID == 0 {
		info.TypeID = typeID
	}
	return info, nil
}

// GetTypeIDsPage returns one page of the full type ID listing along with the
// total page count.
func (i *ItemsClient) GetTypeIDsPage(ctx context.Context, page int) ([]int64, int, error) {
	path := "/universe/types/?page=" + strconv.Itoa(page)

	body, header, err := i.client.doGet(ctx, path)
	if err != nil {
		return nil, 0, fmt.Errorf("esi: get type ids page %d: %w", page, err)
	}

	var ids []int64
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, 0, fmt.Errorf("esi: decode type ids: %w", err)
	}

	pages := 1
	if v := header.Get(pagesHeader); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pages = n
		}
	}
	return ids, pages, nil
}

// ResolveTypeNames resolves exact item names to type IDs via the universe
// name resolution endpoint. Names that do not match are absent from the
// returned map. Matching is case-insensitive on the ESI side.
func (i *ItemsClient) ResolveTypeNames(ctx context.Context, names []string) (map[string]int64, error) {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if s := strings.TrimSpace(n); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return map[string]int64{}, nil
	}

	payload, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("esi: encode type names: %w", err)
	}

	body, err := i.client.doPost(ctx, "/universe/ids/", payload)
	if err != nil {
		return nil, fmt.Errorf("esi: resolve type names: %w", err)
	}

	var resp ResolvedIDs
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("esi: decode resolved type names: %w", err)
	}

	out := make(map[string]int64, len(resp.InventoryTypes))
	for _, e := range resp.InventoryTypes {
		out[e.Name] = e.ID
	}
	return out, nil
}
