package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	Catalog      CatalogConfig
	Cart         CartConfig
	View         ViewConfig
	Checkout     CheckoutConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !c.FeatureFlags.UseMemoryStore && c.Redis.URL == "" && c.Redis.Address == "" {
		return fmt.Errorf("either %s_REDIS_URL or %s_REDIS_ADDR is required unless %s_USE_MEMORY_STORE is set", EnvPrefix, EnvPrefix, EnvPrefix)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"development"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CatalogConfig struct {
	EndpointURL      string        `envconfig:"STOREFRONT_CATALOG_ENDPOINT_URL" default:"https://fakestoreapi.com/products"`
	RequestTimeout   time.Duration `envconfig:"STOREFRONT_CATALOG_REQUEST_TIMEOUT" default:"10s"`
	PlaceholderImage string        `envconfig:"STOREFRONT_CATALOG_PLACEHOLDER_IMAGE" default:"/static/media/placeholder.png"`
}

type CartConfig struct {
	StorageKey string `envconfig:"STOREFRONT_CART_STORAGE_KEY" default:"tienda3x1_carrito"`
}

type ViewConfig struct {
	SearchDebounce time.Duration `envconfig:"STOREFRONT_VIEW_SEARCH_DEBOUNCE" default:"300ms"`
}

type CheckoutConfig struct {
	ProcessingDelay time.Duration `envconfig:"STOREFRONT_CHECKOUT_PROCESSING_DELAY" default:"2s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseMemoryStore bool `envconfig:"STOREFRONT_USE_MEMORY_STORE" default:"false"`
}
