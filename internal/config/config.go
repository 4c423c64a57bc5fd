package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress   string
	DatabaseURI  string
	RedisAddress string
	AuthSecret   string

	GuestCartTTL      time.Duration
	StockPollInterval time.Duration
	WorkerPoolSize    int
	MaxProductsBatch  int
	ShutdownTimeout   time.Duration

	FreeShippingThreshold float64
	ShippingFee           float64
	TaxRate               float64
	HighValueSpend        float64
}

const (
	defaultRunAddress        = ":8080"
	defaultRedisAddress      = "localhost:6379"
	defaultAuthSecret        = "change-me-in-production"
	defaultGuestCartTTL      = 7 * 24 * time.Hour
	defaultStockPollInterval = 30 * time.Second
	defaultWorkerPoolSize    = 4
	defaultMaxProductsBatch  = 32
	defaultShutdownTimeout   = 10 * time.Second

	defaultFreeShippingThreshold = 50
	defaultShippingFee           = 9.99
	defaultTaxRate               = 0.07
	defaultHighValueSpend        = 1000
)

// Load parses configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		RedisAddress:          getString(lookup, "REDIS_ADDRESS", defaultRedisAddress),
		AuthSecret:            getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		GuestCartTTL:          getDuration(lookup, "GUEST_CART_TTL", defaultGuestCartTTL),
		StockPollInterval:     getDuration(lookup, "STOCK_POLL_INTERVAL", defaultStockPollInterval),
		WorkerPoolSize:        getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		MaxProductsBatch:      getInt(lookup, "STOCK_BATCH_SIZE", defaultMaxProductsBatch),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		FreeShippingThreshold: getFloat(lookup, "FREE_SHIPPING_THRESHOLD", defaultFreeShippingThreshold),
		ShippingFee:           getFloat(lookup, "SHIPPING_FEE", defaultShippingFee),
		TaxRate:               getFloat(lookup, "TAX_RATE", defaultTaxRate),
		HighValueSpend:        getFloat(lookup, "HIGH_VALUE_SPEND", defaultHighValueSpend),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		guestCartTTLStr    = cfg.GuestCartTTL.String()
		pollIntervalStr    = cfg.StockPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddress, "r", cfg.RedisAddress, "Redis address for guest carts")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing auth tokens")
	fs.StringVar(&guestCartTTLStr, "guest-cart-ttl", guestCartTTLStr, "Guest cart expiry")
	fs.StringVar(&pollIntervalStr, "stock-poll-interval", pollIntervalStr, "Interval between stock reconcile passes")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconcile workers")
	fs.IntVar(&cfg.MaxProductsBatch, "stock-batch", cfg.MaxProductsBatch, "Maximum products per reconcile batch")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.GuestCartTTL, err = time.ParseDuration(guestCartTTLStr); err != nil {
		return nil, fmt.Errorf("invalid guest cart ttl: %w", err)
	}

	if cfg.StockPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid stock poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxProductsBatch <= 0 {
		cfg.MaxProductsBatch = defaultMaxProductsBatch
	}

	if cfg.StockPollInterval <= 0 {
		cfg.StockPollInterval = defaultStockPollInterval
	}

	if cfg.GuestCartTTL <= 0 {
		cfg.GuestCartTTL = defaultGuestCartTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return nil, fmt.Errorf("tax rate must be in [0, 1)")
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
