package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Record store drivers accepted in STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

const devJWTSecret = "dev-only-secret"

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	SessionTTL        time.Duration `env:"SESSION_TTL,         default=30m"`
	BcryptCost        int           `env:"BCRYPT_COST,         default=10"`
	LowStockThreshold int           `env:"LOW_STOCK_THRESHOLD, default=5"`
	LedgerCacheSize   int           `env:"LEDGER_CACHE_SIZE,   default=4096"`
	// LowStockScan is the cron spec of the background low-stock scan;
	// "off" disables it.
	LowStockScan string `env:"LOW_STOCK_SCAN, default=@every 1m"`

	LoginRate  float64 `env:"LOGIN_RATE,  default=1"`
	LoginBurst int     `env:"LOGIN_BURST, default=5"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER, default=sqlite"`
	SQLitePath  string `env:"SQLITE_PATH,  default=records.db"`
	DatabaseURL string `env:"DATABASE_URL"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=records"`
}

// RedisConfig selects the session store. An empty Addr keeps sessions in
// process memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes configuration from the given lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("config: JWT_SECRET is required outside development")
		}
		c.JWTSecret = devJWTSecret
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("config: SQLITE_PATH must not be empty")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres driver")
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("config: MONGO_URI and MONGO_DB are required for the mongo driver")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if c.LoginRate <= 0 || c.LoginBurst <= 0 {
		return errors.New("config: LOGIN_RATE and LOGIN_BURST must be positive")
	}
	if c.LowStockThreshold < 0 {
		return errors.New("config: LOW_STOCK_THRESHOLD must not be negative")
	}
	if c.LedgerCacheSize <= 0 {
		return errors.New("config: LEDGER_CACHE_SIZE must be positive")
	}
	return nil
}
