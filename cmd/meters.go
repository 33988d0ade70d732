package cmd

import (
	"strings"

	"github.com/ovesterberg/azure-price-report/retail"
)

// disallowedPAYGMeters are meter-name fragments that are not plain
// pay-as-you-go rows. The API rejects negated contains() filters, so
// Consumption results are fetched wholesale and pruned here.
var disallowedPAYGMeters = []string{"spot", "dev/test", "devtest", "promo", "low priority"}

// dropDisallowedMeters removes spot, dev/test, promo and low-priority rows.
func dropDisallowedMeters(items []retail.PriceItem) []retail.PriceItem {
	var out []retail.PriceItem
	for _, item := range items {
		meter := strings.ToLower(item.MeterName)
		disallowed := false
		for _, tag := range disallowedPAYGMeters {
			if strings.Contains(meter, tag) {
				disallowed = true
				break
			}
		}
		if !disallowed {
			out = append(out, item)
		}
	}
	return out
}

// filterMeterContainsAll keeps items whose meter name contains every token,
// case-insensitively.
func filterMeterContainsAll(items []retail.PriceItem, tokens []string) []retail.PriceItem {
	if len(tokens) == 0 {
		return items
	}
	lowered := make([]string, len(tokens))
	for i, tok := range tokens {
		lowered[i] = strings.ToLower(tok)
	}

	var out []retail.PriceItem
	for _, item := range items {
		meter := strings.ToLower(item.MeterName)
		match := true
		for _, tok := range lowered {
			if !strings.Contains(meter, tok) {
				match = false
				break
			}
		}
		if match {
			out = append(out, item)
		}
	}
	return out
}

// pickCheapest returns the item with the lowest positive unit price, or nil.
// The API reports absent prices as null, which decodes to zero.
func pickCheapest(items []retail.PriceItem) *retail.PriceItem {
	var best *retail.PriceItem
	for i := range items {
		if items[i].UnitPrice <= 0 {
			continue
		}
		if best == nil || items[i].UnitPrice < best.UnitPrice {
			best = &items[i]
		}
	}
	return best
}

// pickCheapestPAYG prefers "1 Hour" meters; when none exist it falls back to
// the cheapest priced item of any unit.
func pickCheapestPAYG(items []retail.PriceItem) *retail.PriceItem {
	var hourly []retail.PriceItem
	for _, item := range items {
		if strings.EqualFold(item.UnitOfMeasure, "1 Hour") {
			hourly = append(hourly, item)
		}
	}
	if len(hourly) > 0 {
		return pickCheapest(hourly)
	}
	return pickCheapest(items)
}

// containsFold is a case-insensitive strings.Contains.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// priceOrNil treats non-positive prices as absent.
func priceOrNil(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

// splitAndTrim splits a comma-separated flag value into trimmed parts.
func splitAndTrim(str string) []string {
	if str == "" {
		return []string{}
	}
	parts := strings.Split(str, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
