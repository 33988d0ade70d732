package cmd

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ovesterberg/azure-price-report/config"
	"github.com/ovesterberg/azure-price-report/retail"
)

var (
	cfgFile  string
	rawLevel string
	region   string
	currency string
	outDir   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "azure-price-report",
	Short: "Azure retail price lookup and reporting",
	Long: `Queries the Azure Retail Prices API for VM and storage SKUs, prints a
price table and writes a timestamped CSV snapshot.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to YAML config (defaults to built-in SKU set)")
	rootCmd.PersistentFlags().StringVar(&rawLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "Azure ARM region name (overrides config)")
	rootCmd.PersistentFlags().StringVar(&currency, "currency", "", "Currency code, e.g. USD or EUR (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&outDir, "output-dir", "o", ".", "Directory for CSV output")
}

func setup(cmd *cobra.Command, args []string) error {
	parsedLevel, err := log.ParseLevel(rawLevel)
	if err != nil {
		log.WithError(err).Warnf("Couldn't parse log level, using default: %s", log.GetLevel())
	} else {
		log.SetLevel(parsedLevel)
		log.Debugf("Set log level to %s", parsedLevel)
	}

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}

	if region != "" {
		cfg.Region = region
	}
	if currency != "" {
		cfg.Currency = currency
	}
	return cfg.Validate()
}

// newRetailClient builds the API client from the loaded config.
func newRetailClient() *retail.Client {
	client := retail.NewClient()
	client.HTTPClient.Timeout = time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	if cfg.HTTP.MaxPages > 0 {
		client.MaxPages = cfg.HTTP.MaxPages
	}
	return client
}
