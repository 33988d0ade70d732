package exporter

import (
	"context"

	"github.com/ovesterberg/azure-price-report/retail"
)

// mockPricesClient implements PricesClient for testing.
type mockPricesClient struct {
	FetchSKUPricesFn func(ctx context.Context, q retail.PriceQuery) ([]retail.PriceItem, error)
}

func (m *mockPricesClient) FetchSKUPrices(ctx context.Context, q retail.PriceQuery) ([]retail.PriceItem, error) {
	if m.FetchSKUPricesFn != nil {
		return m.FetchSKUPricesFn(ctx, q)
	}
	return nil, nil
}
