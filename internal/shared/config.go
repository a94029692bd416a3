package shared

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	AppEnv       string `env:"APP_ENV" envDefault:"prod"`
	MCPTransport string `env:"MCP_TRANSPORT" envDefault:"stdio"`
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8080"`
	// MetricsAddr serves /metrics on its own listener; empty disables it.
	MetricsAddr string `env:"METRICS_ADDR"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"hotel_concierge.db"`
	MySQLDSN    string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/concierge?parseTime=true&charset=utf8mb4,utf8&loc=UTC"`

	// RedisAddr enables the reference-data cache when set.
	RedisAddr      string  `env:"REDIS_ADDR"`
	RedisPass      string  `env:"REDIS_PASSWORD"`
	RedisDB        int     `env:"REDIS_DB" envDefault:"0"`
	CacheTTLSecs   int     `env:"CACHE_TTL_SECONDS" envDefault:"900"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	SeedDemo bool `env:"SEED_DEMO_RESERVATIONS" envDefault:"false"`
}

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSecs) * time.Second }

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	if c.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR is empty, reference data is not cached")
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.MCPTransport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("MCP_TRANSPORT %q is not supported (stdio, http)", c.MCPTransport)
	}
	switch c.StoreDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case DriverMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required for the mysql store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER %q is not supported (sqlite, mysql)", c.StoreDriver)
	}
	if c.CacheTTLSecs < 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must not be negative")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
