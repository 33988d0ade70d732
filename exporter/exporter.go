// Package exporter exposes Azure retail prices as Prometheus metrics for the
// serve mode, so price movements can be scraped and graphed over time.
package exporter

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/ovesterberg/azure-price-report/retail"
)

// PricesClient fetches SKU-scoped pricing, enabling mock injection in tests.
type PricesClient interface {
	FetchSKUPrices(ctx context.Context, q retail.PriceQuery) ([]retail.PriceItem, error)
}

// Exporter implements prometheus.Collector over the Retail Prices API.
type Exporter struct {
	client   PricesClient
	regions  []string
	skuNames []string
	currency string

	duration     prometheus.Gauge
	totalScrapes prometheus.Counter
	scrapeErrors prometheus.Gauge
	price        *prometheus.GaugeVec

	mu sync.Mutex
}

// New returns an Exporter scraping the given SKUs in each region.
func New(client PricesClient, regions, skuNames []string, currency string) *Exporter {
	return &Exporter{
		client:   client,
		regions:  regions,
		skuNames: skuNames,
		currency: currency,
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "azure_pricing",
			Name:      "scrape_duration_seconds",
			Help:      "The scrape duration.",
		}),
		totalScrapes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "azure_pricing",
			Name:      "scrapes_total",
			Help:      "Total retail price scrapes.",
		}),
		scrapeErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "azure_pricing",
			Name:      "scrape_error",
			Help:      "The scrape error status.",
		}),
		price: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "azure_pricing",
			Name:      "retail_price",
			Help:      "Current retail price of the SKU meter.",
		}, []string{"sku", "meter", "region", "price_type", "currency"}),
	}
}

// Describe outputs metric descriptions.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	e.price.Describe(ch)
	ch <- e.duration.Desc()
	ch <- e.totalScrapes.Desc()
	ch <- e.scrapeErrors.Desc()
}

// Collect fetches prices region by region. Regions are scraped sequentially:
// the API is public and throttles aggressively, so there is no fan-out.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	e.scrape(ctx)

	e.duration.Collect(ch)
	e.totalScrapes.Collect(ch)
	e.scrapeErrors.Collect(ch)
	e.price.Collect(ch)
}

func (e *Exporter) scrape(ctx context.Context) {
	now := time.Now()
	e.totalScrapes.Inc()
	e.price.Reset()

	var errorCount uint64
	for _, region := range e.regions {
		log.Debugf("querying retail prices [region=%s]", region)
		items, err := e.client.FetchSKUPrices(ctx, retail.PriceQuery{
			ServiceName: "Virtual Machines",
			Region:      region,
			Currency:    e.currency,
			SKUNames:    e.skuNames,
			PriceType:   retail.PriceTypeConsumption,
		})
		if err != nil {
			log.WithError(err).Errorf("error while fetching retail prices [region=%s]", region)
			errorCount++
			continue
		}

		for _, item := range items {
			if item.ArmSkuName == "" {
				log.Debugf("Skipping item with empty armSkuName: meterName=%s region=%s", item.MeterName, item.ArmRegionName)
				continue
			}
			if item.RetailPrice <= 0 {
				log.Debugf("Skipping item with non-positive price: sku=%s region=%s price=%f", item.ArmSkuName, item.ArmRegionName, item.RetailPrice)
				continue
			}
			e.price.With(prometheus.Labels{
				"sku":        item.ArmSkuName,
				"meter":      item.MeterName,
				"region":     item.ArmRegionName,
				"price_type": item.Type,
				"currency":   item.CurrencyCode,
			}).Set(item.RetailPrice)
		}
	}

	e.scrapeErrors.Set(float64(errorCount))
	e.duration.Set(time.Since(now).Seconds())
}
