package retail

import (
	"strings"
	"testing"
)

func TestFilter_SingleSKU(t *testing.T) {
	q := PriceQuery{
		ServiceName: "Virtual Machines",
		Region:      "swedencentral",
		Currency:    "USD",
		SKUNames:    []string{"Standard_D2s_v5"},
		PriceType:   PriceTypeConsumption,
	}

	got := q.Filter()
	want := "serviceName eq 'Virtual Machines' and armRegionName eq 'swedencentral' and currencyCode eq 'USD' and armSkuName eq 'Standard_D2s_v5' and priceType eq 'Consumption'"
	if got != want {
		t.Errorf("filter mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestFilter_MultiSKUDisjunction(t *testing.T) {
	q := PriceQuery{
		ServiceName: "Virtual Machines",
		Region:      "swedencentral",
		Currency:    "USD",
		SKUNames:    []string{"Standard_D2s_v5", "Standard_D4s_v5", "Standard_E8s_v5"},
	}

	got := q.Filter()
	if !strings.Contains(got, "(armSkuName eq 'Standard_D2s_v5' or armSkuName eq 'Standard_D4s_v5' or armSkuName eq 'Standard_E8s_v5')") {
		t.Errorf("expected parenthesized SKU disjunction, got %q", got)
	}
}

func TestFilter_OneRegionOneCurrencyClause(t *testing.T) {
	// Region and currency appear exactly once no matter how many SKUs are asked for.
	for _, skus := range [][]string{
		{"Standard_D2s_v5"},
		{"Standard_D2s_v5", "Standard_D4s_v5"},
		{"Standard_D2s_v5", "Standard_D4s_v5", "Standard_NC16as_T4_v3", "Standard_E32ads_v5"},
	} {
		q := PriceQuery{Region: "swedencentral", Currency: "USD", SKUNames: skus}
		got := q.Filter()
		if n := strings.Count(got, "armRegionName eq"); n != 1 {
			t.Errorf("skus=%d: expected 1 armRegionName clause, got %d in %q", len(skus), n, got)
		}
		if n := strings.Count(got, "currencyCode eq"); n != 1 {
			t.Errorf("skus=%d: expected 1 currencyCode clause, got %d in %q", len(skus), n, got)
		}
	}
}

func TestFilter_ReservationTerm(t *testing.T) {
	q := PriceQuery{
		ServiceFamily:   "Storage",
		Region:          "swedencentral",
		Currency:        "USD",
		ProductName:     "Storage Reserved Capacity",
		ReservationTerm: "3 Years",
	}

	got := q.Filter()
	if !strings.Contains(got, "serviceFamily eq 'Storage'") {
		t.Errorf("missing serviceFamily clause in %q", got)
	}
	if !strings.Contains(got, "productName eq 'Storage Reserved Capacity'") {
		t.Errorf("missing productName clause in %q", got)
	}
	if !strings.Contains(got, "reservationTerm eq '3 Years'") {
		t.Errorf("missing reservationTerm clause in %q", got)
	}
}

func TestFilter_MeterContains(t *testing.T) {
	q := PriceQuery{
		ServiceName:   "Virtual Machines",
		Region:        "swedencentral",
		Currency:      "USD",
		SKUNames:      []string{"Standard_NC16as_T4_v3"},
		PriceType:     PriceTypeConsumption,
		MeterContains: "Spot",
	}

	got := q.Filter()
	if !strings.HasSuffix(got, "contains(meterName, 'Spot')") {
		t.Errorf("expected trailing contains clause, got %q", got)
	}
}

func TestFilter_OmitsEmptyFields(t *testing.T) {
	q := PriceQuery{Region: "swedencentral", Currency: "USD"}

	got := q.Filter()
	for _, fragment := range []string{"serviceName", "serviceFamily", "productName", "armSkuName", "priceType", "reservationTerm", "contains("} {
		if strings.Contains(got, fragment) {
			t.Errorf("unexpected %s clause in %q", fragment, got)
		}
	}
}
