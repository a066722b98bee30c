package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Booking      BookingConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TABLEBOOK_APP_ENV" required:"true"`
	Port         string `envconfig:"TABLEBOOK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TABLEBOOK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TABLEBOOK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"TABLEBOOK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"TABLEBOOK_DB_DSN"`
	Driver string `envconfig:"TABLEBOOK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TABLEBOOK_DB_HOST"`
	LegacyPort     int    `envconfig:"TABLEBOOK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TABLEBOOK_DB_USER"`
	LegacyPassword string `envconfig:"TABLEBOOK_DB_PASSWORD"`
	LegacyName     string `envconfig:"TABLEBOOK_DB_NAME"`
	LegacySSLMode  string `envconfig:"TABLEBOOK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TABLEBOOK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TABLEBOOK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TABLEBOOK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TABLEBOOK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds a DSN from the legacy discrete variables when one is not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either TABLEBOOK_DB_DSN or TABLEBOOK_DB_HOST/USER/NAME must be set")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TABLEBOOK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TABLEBOOK_REDIS_ADDR"`
	Password     string        `envconfig:"TABLEBOOK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TABLEBOOK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TABLEBOOK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TABLEBOOK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TABLEBOOK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TABLEBOOK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TABLEBOOK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type BookingConfig struct {
	// HorizonDays controls how far ahead the availability seeder keeps
	// ledger entries for every restaurant.
	HorizonDays  int `envconfig:"TABLEBOOK_BOOKING_HORIZON_DAYS" default:"7"`
	MaxPartySize int `envconfig:"TABLEBOOK_BOOKING_MAX_PARTY_SIZE" default:"100"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TABLEBOOK_AUTO_MIGRATE" default:"false"`
}
