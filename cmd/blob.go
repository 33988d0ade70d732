package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ovesterberg/azure-price-report/config"
	"github.com/ovesterberg/azure-price-report/retail"
)

// Azure retail prices use decimal units.
const gbPerPB = 1_000_000

var (
	blobProductName = "General Block Blob v2"
	blobMeterTokens = []string{"Hot LRS", "Data Stored"}
	blobCapacityPB  float64
)

var blobCmd = &cobra.Command{
	Use:   "blob",
	Short: "Show the PAYG price for Blob Hot LRS and a petabyte-scale monthly estimate",
	RunE:  runBlob,
}

func init() {
	blobCmd.Flags().Float64Var(&blobCapacityPB, "capacity-pb", 1, "Capacity in PB for the monthly cost estimate")
	rootCmd.AddCommand(blobCmd)
}

func runBlob(cmd *cobra.Command, args []string) error {
	return blobReport(cmd.Context(), newRetailClient(), cfg, blobCapacityPB, os.Stdout)
}

func blobReport(ctx context.Context, client *retail.Client, cfg *config.Config, capacityPB float64, w io.Writer) error {
	items, err := client.Fetch(ctx, retail.PriceQuery{
		ServiceFamily: "Storage",
		Region:        cfg.Region,
		Currency:      cfg.Currency,
		ProductName:   blobProductName,
	})
	if err != nil {
		return err
	}

	pick := pickCheapest(filterMeterContainsAll(items, blobMeterTokens))
	if pick == nil {
		return fmt.Errorf("no PAYG Hot LRS price found in %s", cfg.Region)
	}

	unit := pick.UnitOfMeasure
	if unit == "" {
		unit = "GB/Month"
	}
	monthlyCost := pick.UnitPrice * gbPerPB * capacityPB

	fmt.Fprintf(w, "Region: %s\n", cfg.Region)
	fmt.Fprintf(w, "Product: %s\n", blobProductName)
	fmt.Fprintf(w, "Meter: %s\n", pick.MeterName)
	fmt.Fprintf(w, "Currency: %s\n", cfg.Currency)
	fmt.Fprintf(w, "Unit price: %g per %s\n", pick.UnitPrice, unit)
	fmt.Fprintf(w, "%g PB monthly cost: %.2f\n", capacityPB, monthlyCost)
	return nil
}
