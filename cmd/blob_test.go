package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ovesterberg/azure-price-report/config"
	"github.com/ovesterberg/azure-price-report/retail"
)

func TestBlobReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := []retail.PriceItem{
			{UnitPrice: 0.0196, ProductName: "General Block Blob v2", MeterName: "Hot LRS Data Stored", UnitOfMeasure: "1 GB/Month"},
			{UnitPrice: 0.01, ProductName: "General Block Blob v2", MeterName: "Cool LRS Data Stored", UnitOfMeasure: "1 GB/Month"},
		}
		_ = json.NewEncoder(w).Encode(retail.PriceResponse{Items: items, Count: len(items)})
	}))
	defer srv.Close()

	var sb strings.Builder
	err := blobReport(context.Background(), clientFor(srv), config.Default(), 1, &sb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := sb.String()
	if !strings.Contains(out, "Meter: Hot LRS Data Stored") {
		t.Errorf("expected hot meter in output, got:\n%s", out)
	}
	// 0.0196 per GB/Month * 1e6 GB/PB.
	if !strings.Contains(out, "1 PB monthly cost: 19600.00") {
		t.Errorf("expected monthly cost 19600.00, got:\n%s", out)
	}
}

func TestBlobReport_NoMatchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(retail.PriceResponse{Count: 0})
	}))
	defer srv.Close()

	var sb strings.Builder
	err := blobReport(context.Background(), clientFor(srv), config.Default(), 1, &sb)
	if err == nil {
		t.Fatal("expected error when no price matches")
	}
}
