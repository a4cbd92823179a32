package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	defaultConfigPath = "config.yaml"
)

// Config is read from an optional YAML file (CONFIG_PATH, falling back to
// config.yaml when present) and then overridden by the environment. Secrets
// only come from the environment.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Seed     SeedConfig     `yaml:"seed"`
}

type AppConfig struct {
	AppName     string `yaml:"name" env:"APP_NAME" env-default:"skill-matrix"`
	Environment string `yaml:"env" env:"APP_ENV" env-default:"development"`
	HTTPPort    string `yaml:"http_port" env:"HTTP_PORT" env-default:"8080"`
	StoreDriver string `yaml:"store_driver" env:"STORE_DRIVER" env-default:"postgres"`
}

type DatabaseConfig struct {
	DBHost     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	DBPort     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	DBName     string `yaml:"name" env:"DB_NAME" env-default:"skill_matrix"`
	DBUser     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	DBPassword string `yaml:"-" env:"DB_PASSWORD"`
	DBSSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`

	ConnectTimeout        time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"5s"`
	PoolMaxConns          int32         `yaml:"pool_max_conns" env:"DB_POOL_MAX_CONNS" env-default:"10"`
	PoolMinConns          int32         `yaml:"pool_min_conns" env:"DB_POOL_MIN_CONNS" env-default:"1"`
	PoolMaxConnLifetime   time.Duration `yaml:"pool_max_conn_lifetime" env:"DB_POOL_MAX_CONN_LIFETIME" env-default:"1h"`
	PoolMaxConnIdleTime   time.Duration `yaml:"pool_max_conn_idle_time" env:"DB_POOL_MAX_CONN_IDLE_TIME" env-default:"30m"`
	PoolHealthCheckPeriod time.Duration `yaml:"pool_health_check_period" env:"DB_POOL_HEALTH_CHECK_PERIOD" env-default:"1m"`

	AutoMigrate bool `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"5m"`
}

type JWTConfig struct {
	AccessSecret  string        `yaml:"-" env:"JWT_ACCESS_SECRET"`
	RefreshSecret string        `yaml:"-" env:"JWT_REFRESH_SECRET"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL" env-default:"15m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL" env-default:"168h"`
	Issuer        string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"skill-matrix"`
}

// SeedConfig controls the startup seed. An empty admin email skips the
// bootstrap manager account.
type SeedConfig struct {
	Enabled       bool   `yaml:"enabled" env:"SEED_ENABLED" env-default:"true"`
	AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME" env-default:"Administrator"`
	AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `yaml:"-" env:"SEED_ADMIN_PASSWORD"`
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	var cfg Config

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if strings.TrimSpace(c.JWT.AccessSecret) == "" {
		missing = append(missing, "JWT_ACCESS_SECRET")
	}
	if c.Seed.Enabled && strings.TrimSpace(c.Seed.AdminEmail) != "" && c.Seed.AdminPassword == "" {
		missing = append(missing, "SEED_ADMIN_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	c.App.StoreDriver = strings.ToLower(strings.TrimSpace(c.App.StoreDriver))
	switch c.App.StoreDriver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.App.StoreDriver)
	}

	if c.JWT.RefreshSecret == "" {
		c.JWT.RefreshSecret = c.JWT.AccessSecret
	}
	return nil
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
