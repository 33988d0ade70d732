package cmd

import (
	"context"
	"io"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ovesterberg/azure-price-report/config"
	"github.com/ovesterberg/azure-price-report/report"
	"github.com/ovesterberg/azure-price-report/retail"
)

var storageHeaders = []string{
	"Friendly Name",
	"Storage Type",
	"Product Name",
	"Capacity (GB)",
	"Currency",
	"PayGo Unit Price",
	"PayGo Est @Capacity",
	"RI 1Yr Unit Price",
	"RI 1Yr Est @Capacity",
	"RI 3Yr Unit Price",
	"RI 3Yr Est @Capacity",
	"Unit of Measure",
	"Meter Name",
	"Sku Name",
}

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Look up PAYG and reserved-capacity prices for the configured storage SKUs",
	RunE:  runStorage,
}

func init() {
	rootCmd.AddCommand(storageCmd)
}

func runStorage(cmd *cobra.Command, args []string) error {
	return storageReport(cmd.Context(), newRetailClient(), cfg, outDir, os.Stdout)
}

// storageReport mirrors vmReport: fetch everything, then render, so a failed
// run leaves no CSV behind.
func storageReport(ctx context.Context, client *retail.Client, cfg *config.Config, outDir string, w io.Writer) error {
	rows, err := buildStorageRows(ctx, client, cfg)
	if err != nil {
		return err
	}

	report.Table(w, storageHeaders, rows)

	path, err := report.WriteCSV(outDir, "storage_prices", storageHeaders, rows)
	if err != nil {
		return err
	}
	log.Infof("Wrote %d rows to %s", len(rows), path)
	return nil
}

// buildStorageRows produces one row per configured SKU and redundancy. As
// with the VM report, the first fetch failure aborts the whole run.
func buildStorageRows(ctx context.Context, client *retail.Client, cfg *config.Config) ([][]string, error) {
	var rows [][]string

	for _, sku := range cfg.Storage.SKUs {
		skuRegion := cfg.StorageRegion(sku)

		for _, redundancy := range sku.Redundancies {
			friendly := config.Expand(sku.FriendlyName, redundancy, skuRegion)

			paygoPick, err := fetchMeterPick(ctx, client, cfg, sku, retail.PriceQuery{
				ServiceFamily: sku.ServiceFamily,
				Region:        skuRegion,
				Currency:      cfg.Currency,
				ProductName:   sku.PAYG.ProductName,
			}, friendly, expandTokens(sku.PAYG.MeterContainsAll, redundancy, skuRegion))
			if err != nil {
				return nil, err
			}

			riPicks := map[string]*retail.PriceItem{}
			for _, term := range sku.RI.Terms {
				pick, err := fetchMeterPick(ctx, client, cfg, sku, retail.PriceQuery{
					ServiceFamily:   sku.ServiceFamily,
					Region:          skuRegion,
					Currency:        cfg.Currency,
					ProductName:     sku.RI.ProductName,
					ReservationTerm: term,
				}, friendly, expandTokens(sku.RI.MeterContainsAll, redundancy, skuRegion))
				if err != nil {
					return nil, err
				}
				riPicks[term] = pick
			}

			paygoPrice, paygoUnit := pickPriceUnit(paygoPick)
			ri1yPrice, ri1yUnit := pickPriceUnit(riPicks["1 Year"])
			ri3yPrice, ri3yUnit := pickPriceUnit(riPicks["3 Years"])

			unit := firstNonEmpty(paygoUnit, ri1yUnit, ri3yUnit)

			meterName, skuName := "", ""
			if paygoPick != nil {
				meterName = paygoPick.MeterName
				skuName = paygoPick.SkuName
			}
			productName := firstNonEmpty(sku.PAYG.ProductName, sku.RI.ProductName)

			rows = append(rows, []string{
				friendly,
				redundancy,
				productName,
				strconv.FormatFloat(sku.CapacityGB, 'f', -1, 64),
				cfg.Currency,
				report.FormatPrice(paygoPrice),
				report.FormatPrice(scale(paygoPrice, sku.CapacityGB)),
				report.FormatPrice(ri1yPrice),
				report.FormatPrice(scale(ri1yPrice, sku.CapacityGB)),
				report.FormatPrice(ri3yPrice),
				report.FormatPrice(scale(ri3yPrice, sku.CapacityGB)),
				unit,
				meterName,
				skuName,
			})
		}
	}

	return rows, nil
}

// fetchMeterPick fetches one product's rows, narrows them to the meter tokens
// and returns the cheapest match. An empty match logs probe samples so the
// configured filters can be sanity-checked against what the API actually has.
func fetchMeterPick(ctx context.Context, client *retail.Client, cfg *config.Config, sku config.StorageSKU, q retail.PriceQuery, friendly string, tokens []string) (*retail.PriceItem, error) {
	items, err := client.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	matched := filterMeterContainsAll(items, tokens)
	if len(matched) == 0 {
		log.Warnf("%s: no matches for product=%q meter contains %v", friendly, q.ProductName, tokens)
		hint := ""
		if len(tokens) > 0 {
			hint = tokens[0]
		}
		logProbeSamples(ctx, client, cfg, q.Region, sku.ServiceFamily, hint)
		return nil, nil
	}
	return pickCheapest(matched), nil
}

const maxProbeSamples = 5

// logProbeSamples makes a cheap single-page call and logs a handful of
// distinct product/sku/meter names so a misconfigured filter is easy to spot.
// Probe failures are advisory only and never fail the run.
func logProbeSamples(ctx context.Context, client *retail.Client, cfg *config.Config, region, serviceFamily, hint string) {
	items, err := client.FetchPages(ctx, retail.PriceQuery{
		ServiceFamily: serviceFamily,
		Region:        region,
		Currency:      cfg.Currency,
	}, 1)
	if err != nil {
		log.WithError(err).Warn("probe lookup failed")
		return
	}

	samples := probeSamples(items, hint, maxProbeSamples)
	for _, s := range samples {
		log.Warnf("    product=%s, sku=%s, meter=%s, priceType=%s", s.ProductName, s.SkuName, s.MeterName, s.PriceType)
	}
}

// probeSamples returns up to max distinct items whose meter or SKU name
// contains hint (case-insensitive). An empty hint matches everything.
func probeSamples(items []retail.PriceItem, hint string, max int) []retail.PriceItem {
	var out []retail.PriceItem
	seen := map[[3]string]struct{}{}
	for _, item := range items {
		if hint != "" && !containsFold(item.MeterName, hint) && !containsFold(item.SkuName, hint) {
			continue
		}
		key := [3]string{item.ProductName, item.SkuName, item.MeterName}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
		if len(out) >= max {
			break
		}
	}
	return out
}

func pickPriceUnit(item *retail.PriceItem) (*float64, string) {
	if item == nil {
		return nil, ""
	}
	return priceOrNil(item.UnitPrice), item.UnitOfMeasure
}

func scale(price *float64, capacity float64) *float64 {
	if price == nil {
		return nil
	}
	v := *price * capacity
	return &v
}

func expandTokens(tokens []string, redundancy, region string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = config.Expand(tok, redundancy, region)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
