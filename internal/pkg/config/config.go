package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/supportinsights/hub/internal/core/domain"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	JWT   JWTConfig
	Store StoreConfig
	HTTP  HTTPConfig

	Mongo MongoConfig
}

type JWTConfig struct {
	Secret   string        `env:"JWT_SECRET"`
	Issuer   string        `env:"JWT_ISSUER"`
	Audience string        `env:"JWT_AUDIENCE"`
	TTL      time.Duration `env:"JWT_TTL, default=24h"`
}

type StoreConfig struct {
	Driver    string `env:"STORE_DRIVER,   default=sqlite"`
	SQLiteDSN string `env:"SQLITE_DSN,     default=file:support-hub?mode=memory&cache=shared"`
	SeedDemo  bool   `env:"SEED_DEMO_DATA, default=true"`
}

type HTTPConfig struct {
	// CORSOrigins is a space separated origin list.
	CORSOrigins string  `env:"CORS_ORIGINS,       default=http://localhost:5173 http://localhost:3000"`
	LoginRate   float64 `env:"LOGIN_RATE_PER_SEC, default=5"`
	LoginBurst  int     `env:"LOGIN_BURST,        default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=support_hub"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit source, e.g. envconfig.MapLookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var missing []string
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.JWT.Issuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	if c.JWT.Audience == "" {
		missing = append(missing, "JWT_AUDIENCE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrConfiguration, strings.Join(missing, ", "))
	}

	switch c.Store.Driver {
	case DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", domain.ErrConfiguration, c.Store.Driver)
	}
	if c.HTTP.LoginRate < 0 || c.HTTP.LoginBurst < 0 {
		return fmt.Errorf("%w: login rate and burst must not be negative", domain.ErrConfiguration)
	}
	return nil
}

func (c *Config) AllowedOrigins() []string {
	return strings.Fields(c.HTTP.CORSOrigins)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
