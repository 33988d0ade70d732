package cmd

import (
	"context"
	"io"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ovesterberg/azure-price-report/config"
	"github.com/ovesterberg/azure-price-report/report"
	"github.com/ovesterberg/azure-price-report/retail"
)

var vmHeaders = []string{
	"Friendly Name",
	"armSkuName",
	"Currency",
	"Spot Unit Price",
	"PayGo Unit Price",
	"Unit of Measure",
	"Region",
	"Meter Name",
	"Product Name",
}

var vmCmd = &cobra.Command{
	Use:   "vm",
	Short: "Look up Spot and PAYG prices for the configured VM SKUs",
	RunE:  runVM,
}

func init() {
	rootCmd.AddCommand(vmCmd)
}

func runVM(cmd *cobra.Command, args []string) error {
	return vmReport(cmd.Context(), newRetailClient(), cfg, outDir, os.Stdout)
}

// vmReport fetches everything first and only then renders. A fetch failure
// terminates the run before any CSV is created.
func vmReport(ctx context.Context, client *retail.Client, cfg *config.Config, outDir string, w io.Writer) error {
	rows, unitsSeen, err := buildVMRows(ctx, client, cfg)
	if err != nil {
		return err
	}

	report.Table(w, vmHeaders, rows)

	path, err := report.WriteCSV(outDir, "spot_prices", vmHeaders, rows)
	if err != nil {
		return err
	}
	log.Infof("Wrote %d rows to %s", len(rows), path)

	if len(unitsSeen) > 0 {
		units := make([]string, 0, len(unitsSeen))
		for u := range unitsSeen {
			units = append(units, u)
		}
		sort.Strings(units)
		log.Infof("Units observed: %v", units)
	}
	return nil
}

// buildVMRows fetches Spot and PAYG prices for every configured SKU. All
// fetches complete before anything is rendered; the first failure aborts the
// run so no partial CSV is ever written.
func buildVMRows(ctx context.Context, client *retail.Client, cfg *config.Config) ([][]string, map[string]struct{}, error) {
	var rows [][]string
	unitsSeen := map[string]struct{}{}

	for _, sku := range cfg.VM.SKUs {
		spotItems, err := client.FetchSKUPrices(ctx, retail.PriceQuery{
			ServiceName:   "Virtual Machines",
			Region:        cfg.Region,
			Currency:      cfg.Currency,
			SKUNames:      []string{sku.ArmSKUName},
			PriceType:     retail.PriceTypeConsumption,
			MeterContains: "Spot",
		})
		if err != nil {
			return nil, nil, err
		}

		paygoItems, err := client.FetchSKUPrices(ctx, retail.PriceQuery{
			ServiceName: "Virtual Machines",
			Region:      cfg.Region,
			Currency:    cfg.Currency,
			SKUNames:    []string{sku.ArmSKUName},
			PriceType:   retail.PriceTypeConsumption,
		})
		if err != nil {
			return nil, nil, err
		}

		paygoPick := pickCheapestPAYG(dropDisallowedMeters(paygoItems))
		var paygoPrice *float64
		paygoUnit := ""
		if paygoPick != nil {
			paygoPrice = &paygoPick.UnitPrice
			paygoUnit = paygoPick.UnitOfMeasure
			unitsSeen[paygoUnit] = struct{}{}
		}

		if len(spotItems) == 0 {
			log.Warnf("%s (%s): no Spot prices found in %s", sku.Name, sku.ArmSKUName, cfg.Region)
			continue
		}

		// Multiple rows per SKU are normal (Linux vs Windows products).
		for _, item := range spotItems {
			spotPrice := priceOrNil(item.UnitPrice)
			unit := item.UnitOfMeasure
			if unit == "" {
				unit = paygoUnit
			}
			if unit != "" {
				unitsSeen[unit] = struct{}{}
			}

			if paygoPrice != nil && spotPrice != nil && *paygoPrice < *spotPrice {
				log.Warnf("%s: PAYG (%f) is below Spot (%f); verify filtering", sku.Name, *paygoPrice, *spotPrice)
			}

			rows = append(rows, []string{
				sku.Name,
				sku.ArmSKUName,
				item.CurrencyCode,
				report.FormatPrice(spotPrice),
				report.FormatPrice(paygoPrice),
				unit,
				item.ArmRegionName,
				item.MeterName,
				item.ProductName,
			})
		}
	}

	return rows, unitsSeen, nil
}
