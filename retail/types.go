package retail

// PriceResponse represents one page of the Azure Retail Prices API response.
type PriceResponse struct {
	Items        []PriceItem `json:"Items"`
	NextPageLink string      `json:"NextPageLink"`
	Count        int         `json:"Count"`
}

// PriceItem represents a single pricing line item from the Azure Retail Prices API.
// Items are never mutated after decoding.
type PriceItem struct {
	RetailPrice          float64 `json:"retailPrice"`
	UnitPrice            float64 `json:"unitPrice"`
	ArmRegionName        string  `json:"armRegionName"`
	ArmSkuName           string  `json:"armSkuName"`
	SkuName              string  `json:"skuName"`
	ProductName          string  `json:"productName"`
	MeterName            string  `json:"meterName"`
	UnitOfMeasure        string  `json:"unitOfMeasure"`
	ServiceName          string  `json:"serviceName"`
	ServiceFamily        string  `json:"serviceFamily"`
	CurrencyCode         string  `json:"currencyCode"`
	Type                 string  `json:"type"`
	PriceType            string  `json:"priceType"`
	ReservationTerm      string  `json:"reservationTerm"`
	IsPrimaryMeterRegion bool    `json:"isPrimaryMeterRegion"`
}
