package exporter

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/ovesterberg/azure-price-report/retail"
)

// collectMetrics drains a Collect pass into decoded dto metrics.
func collectMetrics(t *testing.T, e *Exporter) []*dto.Metric {
	t.Helper()
	ch := make(chan prometheus.Metric, 100)
	e.Collect(ch)
	close(ch)

	var out []*dto.Metric
	for m := range ch {
		var d dto.Metric
		if err := m.Write(&d); err != nil {
			t.Fatalf("decoding metric: %v", err)
		}
		out = append(out, &d)
	}
	return out
}

// priceGauges filters decoded metrics down to the retail_price gauge samples.
func priceGauges(metrics []*dto.Metric) []*dto.Metric {
	var out []*dto.Metric
	for _, m := range metrics {
		if len(m.Label) > 0 && m.Gauge != nil {
			for _, l := range m.Label {
				if l.GetName() == "sku" {
					out = append(out, m)
					break
				}
			}
		}
	}
	return out
}

func TestCollect_SetsPriceGauges(t *testing.T) {
	client := &mockPricesClient{
		FetchSKUPricesFn: func(ctx context.Context, q retail.PriceQuery) ([]retail.PriceItem, error) {
			if q.Region != "swedencentral" {
				t.Errorf("expected region swedencentral, got %q", q.Region)
			}
			return []retail.PriceItem{
				{RetailPrice: 0.096, ArmSkuName: "Standard_D2s_v5", ArmRegionName: "swedencentral", MeterName: "D2s v5", Type: "Consumption", CurrencyCode: "USD"},
				{RetailPrice: 0.192, ArmSkuName: "Standard_D4s_v5", ArmRegionName: "swedencentral", MeterName: "D4s v5", Type: "Consumption", CurrencyCode: "USD"},
			}, nil
		},
	}

	e := New(client, []string{"swedencentral"}, []string{"Standard_D2s_v5", "Standard_D4s_v5"}, "USD")
	gauges := priceGauges(collectMetrics(t, e))

	if len(gauges) != 2 {
		t.Fatalf("expected 2 price gauges, got %d", len(gauges))
	}
}

func TestCollect_SkipsNonPositiveAndUnnamed(t *testing.T) {
	client := &mockPricesClient{
		FetchSKUPricesFn: func(ctx context.Context, q retail.PriceQuery) ([]retail.PriceItem, error) {
			return []retail.PriceItem{
				{RetailPrice: 0.096, ArmSkuName: "Standard_D2s_v5", MeterName: "D2s v5"},
				{RetailPrice: 0, ArmSkuName: "Standard_D4s_v5", MeterName: "D4s v5"},
				{RetailPrice: 0.2, ArmSkuName: "", MeterName: "mystery meter"},
			}, nil
		},
	}

	e := New(client, []string{"swedencentral"}, []string{"Standard_D2s_v5"}, "USD")
	gauges := priceGauges(collectMetrics(t, e))

	if len(gauges) != 1 {
		t.Fatalf("expected 1 price gauge after skips, got %d", len(gauges))
	}
}

func TestCollect_CountsScrapeErrors(t *testing.T) {
	client := &mockPricesClient{
		FetchSKUPricesFn: func(ctx context.Context, q retail.PriceQuery) ([]retail.PriceItem, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}

	e := New(client, []string{"swedencentral", "westeurope"}, []string{"Standard_D2s_v5"}, "USD")
	e.mu.Lock()
	ctx := context.Background()
	e.scrape(ctx)
	e.mu.Unlock()

	var d dto.Metric
	if err := e.scrapeErrors.Write(&d); err != nil {
		t.Fatalf("decoding scrape_error gauge: %v", err)
	}
	if got := d.Gauge.GetValue(); got != 2 {
		t.Errorf("expected 2 scrape errors, got %v", got)
	}
}

func TestDescribe(t *testing.T) {
	e := New(&mockPricesClient{}, nil, nil, "USD")
	ch := make(chan *prometheus.Desc, 10)
	e.Describe(ch)
	close(ch)

	count := 0
	for range ch {
		count++
	}
	if count == 0 {
		t.Error("expected at least one metric description")
	}
}
