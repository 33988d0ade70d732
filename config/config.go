// Package config holds the run configuration. Defaults mirror the historical
// compiled-in constants; a YAML file can override any of them so tests and
// one-off lookups don't require editing source.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Region   string        `yaml:"region"`
	Currency string        `yaml:"currency"`
	HTTP     HTTPConfig    `yaml:"http"`
	VM       VMConfig      `yaml:"vm"`
	Storage  StorageConfig `yaml:"storage"`
}

type HTTPConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	MaxPages       int `yaml:"max_pages"`
}

type VMConfig struct {
	SKUs []VMSKU `yaml:"skus"`
}

// VMSKU maps a friendly display name to its armSkuName.
type VMSKU struct {
	Name       string `yaml:"name"`
	ArmSKUName string `yaml:"arm_sku_name"`
}

type StorageConfig struct {
	SKUs []StorageSKU `yaml:"skus"`
}

// StorageSKU describes one storage lookup. FriendlyName and meter tokens may
// carry {redundancy} and {region} placeholders, expanded per redundancy.
type StorageSKU struct {
	FriendlyName  string         `yaml:"friendly_name"`
	Region        string         `yaml:"region"`
	ServiceFamily string         `yaml:"service_family"`
	Redundancies  []string       `yaml:"redundancies"`
	CapacityGB    float64        `yaml:"capacity_gb"`
	PAYG          MeterFilter    `yaml:"paygo"`
	RI            ReservedFilter `yaml:"ri"`
}

// MeterFilter narrows API results to a product plus meter-name substrings.
// Meter matching happens client-side because the API rejects negated or
// repeated contains() clauses.
type MeterFilter struct {
	ProductName      string   `yaml:"product_name"`
	MeterContainsAll []string `yaml:"meter_contains_all"`
}

type ReservedFilter struct {
	MeterFilter `yaml:",inline"`
	Terms       []string `yaml:"terms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Region:   "swedencentral",
		Currency: "USD",
		HTTP: HTTPConfig{
			TimeoutSeconds: 15,
			MaxPages:       100,
		},
		VM: VMConfig{
			SKUs: []VMSKU{
				{Name: "NC16asT4 v3", ArmSKUName: "Standard_NC16as_T4_v3"},
				{Name: "D96ads v5", ArmSKUName: "Standard_D96ads_v5"},
				{Name: "NV36ads A10 v5", ArmSKUName: "Standard_NV36ads_A10_v5"},
				{Name: "D32ads v5", ArmSKUName: "Standard_D32ads_v5"},
				{Name: "NC24ads_A100_v4", ArmSKUName: "Standard_NC24ads_A100_v4"},
				{Name: "NC64asT4 v3", ArmSKUName: "Standard_NC64as_T4_v3"},
				{Name: "E32ads v5", ArmSKUName: "Standard_E32ads_v5"},
			},
		},
		Storage: StorageConfig{
			SKUs: []StorageSKU{
				{
					FriendlyName:  "Blob Hot {redundancy} ({region})",
					Region:        "swedencentral",
					ServiceFamily: "Storage",
					Redundancies:  []string{"LRS"},
					CapacityGB:    1000,
					PAYG: MeterFilter{
						ProductName:      "General Block Blob v2",
						MeterContainsAll: []string{"Hot {redundancy}", "Data Stored"},
					},
					RI: ReservedFilter{
						MeterFilter: MeterFilter{
							ProductName:      "Storage Reserved Capacity",
							MeterContainsAll: []string{"Hot", "{redundancy}", "Data Stored"},
						},
						Terms: []string{"1 Year", "3 Years"},
					},
				},
			},
		},
	}
}

// Load reads a YAML config on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region must not be empty")
	}
	if c.Currency == "" {
		return fmt.Errorf("currency must not be empty")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		c.HTTP.TimeoutSeconds = 15
	}
	for _, sku := range c.VM.SKUs {
		if sku.ArmSKUName == "" {
			return fmt.Errorf("vm sku %q: arm_sku_name must not be empty", sku.Name)
		}
	}
	for _, sku := range c.Storage.SKUs {
		if sku.ServiceFamily == "" {
			return fmt.Errorf("storage sku %q: service_family must not be empty", sku.FriendlyName)
		}
	}
	return nil
}

// StorageRegion returns the entry's region, falling back to the global one.
func (c *Config) StorageRegion(sku StorageSKU) string {
	if sku.Region != "" {
		return sku.Region
	}
	return c.Region
}

// Expand substitutes {redundancy} and {region} placeholders in s.
func Expand(s, redundancy, region string) string {
	s = strings.ReplaceAll(s, "{redundancy}", redundancy)
	return strings.ReplaceAll(s, "{region}", region)
}
