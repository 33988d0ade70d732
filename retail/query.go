package retail

import (
	"fmt"
	"strings"
)

// PriceType matches the values of the API's priceType field.
type PriceType string

const (
	PriceTypeConsumption PriceType = "Consumption"
	PriceTypeReservation PriceType = "Reservation"
)

// PriceQuery describes one retail-prices lookup. Empty optional fields omit
// their clause from the generated filter. A query is immutable for the
// duration of a run.
type PriceQuery struct {
	ServiceName   string
	ServiceFamily string
	ProductName   string

	Region   string
	Currency string

	// SKUNames restricts results to a disjunction of armSkuName values.
	SKUNames []string

	PriceType       PriceType
	ReservationTerm string

	// MeterContains adds a contains(meterName, ...) clause. The API rejects
	// negated contains, so exclusions stay client-side.
	MeterContains string
}

// Filter builds the OData $filter expression for the query. Region and
// currency each contribute exactly one clause regardless of SKU count.
func (q PriceQuery) Filter() string {
	var clauses []string

	if q.ServiceName != "" {
		clauses = append(clauses, fmt.Sprintf("serviceName eq '%s'", q.ServiceName))
	}
	if q.ServiceFamily != "" {
		clauses = append(clauses, fmt.Sprintf("serviceFamily eq '%s'", q.ServiceFamily))
	}
	if q.ProductName != "" {
		clauses = append(clauses, fmt.Sprintf("productName eq '%s'", q.ProductName))
	}
	if q.Region != "" {
		clauses = append(clauses, fmt.Sprintf("armRegionName eq '%s'", q.Region))
	}
	if q.Currency != "" {
		clauses = append(clauses, fmt.Sprintf("currencyCode eq '%s'", q.Currency))
	}

	if len(q.SKUNames) > 0 {
		skus := make([]string, len(q.SKUNames))
		for i, name := range q.SKUNames {
			skus[i] = fmt.Sprintf("armSkuName eq '%s'", name)
		}
		clause := strings.Join(skus, " or ")
		if len(skus) > 1 {
			clause = "(" + clause + ")"
		}
		clauses = append(clauses, clause)
	}

	if q.PriceType != "" {
		clauses = append(clauses, fmt.Sprintf("priceType eq '%s'", q.PriceType))
	}
	if q.ReservationTerm != "" {
		clauses = append(clauses, fmt.Sprintf("reservationTerm eq '%s'", q.ReservationTerm))
	}
	if q.MeterContains != "" {
		clauses = append(clauses, fmt.Sprintf("contains(meterName, '%s')", q.MeterContains))
	}

	return strings.Join(clauses, " and ")
}
