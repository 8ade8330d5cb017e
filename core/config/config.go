// Package config holds the process-start configuration for the marketplace
// core. Values are loaded once, before any component is constructed, and are
// immutable for the life of the session.
package config

import (
	"os"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration surface of the core.
type Config struct {
	// AllowedChains is the chain ID allow-list gating purchase actions.
	AllowedChains []int64 `yaml:"allowed_chains" env:"MARKET_ALLOWED_CHAINS" envSeparator:"," validate:"min=1,dive,gt=0"`

	// MaxPageSize bounds QuerySpec.PageSize to prevent unbounded scans.
	MaxPageSize int `yaml:"max_page_size" env:"MARKET_MAX_PAGE_SIZE" validate:"gt=0,lte=500"`

	// CurrencyPrecision is the number of fractional digits fee amounts are
	// rounded to (round half up).
	CurrencyPrecision uint32 `yaml:"currency_precision" env:"MARKET_CURRENCY_PRECISION" validate:"gt=0,lte=18"`

	// SearchDebounce is how long search input must be stable before the
	// query engine is re-run.
	SearchDebounce time.Duration `yaml:"search_debounce" env:"MARKET_SEARCH_DEBOUNCE" validate:"gte=0"`

	// ProviderTimeout bounds a wallet connect attempt before it is treated
	// as a provider timeout.
	ProviderTimeout time.Duration `yaml:"provider_timeout" env:"MARKET_PROVIDER_TIMEOUT" validate:"gt=0"`
}

// ChainNames maps the allow-listed chain IDs shipped by default to display
// names, for logging only.
var ChainNames = map[int64]string{
	1:        "Ethereum",
	10:       "Optimism",
	137:      "Polygon",
	42161:    "Arbitrum One",
	11155111: "Sepolia",
}

// Default returns the configuration used when no file or environment
// overrides are present. The chain list matches the marketplace's supported
// networks: mainnet, optimism, polygon, arbitrum, sepolia.
func Default() Config {
	return Config{
		AllowedChains:     []int64{1, 10, 137, 42161, 11155111},
		MaxPageSize:       100,
		CurrencyPrecision: 4,
		SearchDebounce:    300 * time.Millisecond,
		ProviderTimeout:   30 * time.Second,
	}
}

// Load builds the configuration in three layers: defaults, then the YAML
// file at path (skipped when path is empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse environment overrides")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its declared constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// ChainAllowed reports whether id is in the allow-list.
func (c *Config) ChainAllowed(id int64) bool {
	for _, allowed := range c.AllowedChains {
		if allowed == id {
			return true
		}
	}
	return false
}
