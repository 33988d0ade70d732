package cmd

import (
	"context"
	"html"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ovesterberg/azure-price-report/exporter"
)

var (
	serveAddr        string
	serveMetricsPath string
	serveRegions     string
	serveSKUs        string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured SKU prices as Prometheus metrics",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "listen-address", ":8080", "The address to listen on for HTTP requests.")
	serveCmd.Flags().StringVar(&serveMetricsPath, "metrics-path", "/metrics", "path to metrics endpoint")
	serveCmd.Flags().StringVar(&serveRegions, "regions", "", "Comma separated list of regions (defaults to the configured region)")
	serveCmd.Flags().StringVar(&serveSKUs, "skus", "", "Comma separated list of armSkuName values (defaults to the configured VM SKUs)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	regions := splitAndTrim(serveRegions)
	if len(regions) == 0 {
		regions = []string{cfg.Region}
	}

	skus := splitAndTrim(serveSKUs)
	if len(skus) == 0 {
		for _, sku := range cfg.VM.SKUs {
			skus = append(skus, sku.ArmSKUName)
		}
	}

	exp := exporter.New(newRetailClient(), regions, skus, cfg.Currency)
	prometheus.MustRegister(exp)

	mux := http.NewServeMux()
	mux.Handle(serveMetricsPath, promhttp.Handler())
	mux.HandleFunc("/", rootHandler)

	srv := &http.Server{
		Addr:         serveAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		log.Infof("Received %s, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Infof("Starting metric http endpoint [address=%s, path=%s, regions=%v, skus=%d]", serveAddr, serveMetricsPath, regions, len(skus))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	safePath := html.EscapeString(serveMetricsPath)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<html>
		<head><title>Azure Price Report</title></head>
		<body>
		<h1>Azure Price Report</h1>
		<p><a href="` + safePath + `">Metrics</a></p>
		</body>
		</html>
	`))
}
