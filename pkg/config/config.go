package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "MERCADIA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Checkout CheckoutConfig
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
	Env          string `envconfig:"MERCADIA_APP_ENV" required:"true"`
	Port         string `envconfig:"MERCADIA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MERCADIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MERCADIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MERCADIA_DB_DSN"`
	Driver string `envconfig:"MERCADIA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"MERCADIA_DB_HOST"`
	Port     int    `envconfig:"MERCADIA_DB_PORT" default:"5432"`
	User     string `envconfig:"MERCADIA_DB_USER"`
	Password string `envconfig:"MERCADIA_DB_PASSWORD"`
	Name     string `envconfig:"MERCADIA_DB_NAME"`
	SSLMode  string `envconfig:"MERCADIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MERCADIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MERCADIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MERCADIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MERCADIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds a DSN from the discrete fields when one is not provided.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"MERCADIA_REDIS_URL"`
	Address      string        `envconfig:"MERCADIA_REDIS_ADDR"`
	Password     string        `envconfig:"MERCADIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"MERCADIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MERCADIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MERCADIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MERCADIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MERCADIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MERCADIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MERCADIA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MERCADIA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MERCADIA_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CORSConfig struct {
	// AllowedOrigins supplements the localhost defaults used by the
	// storefront during development.
	AllowedOrigins []string `envconfig:"MERCADIA_CORS_ALLOWED_ORIGINS"`
}

type CheckoutConfig struct {
	// AutoMigrate runs pending migrations at boot outside prod.
	AutoMigrate bool `envconfig:"MERCADIA_AUTO_MIGRATE" default:"false"`
	// OrderIdempotencyTTL bounds replay protection for order creation.
	OrderIdempotencyTTL time.Duration `envconfig:"MERCADIA_ORDER_IDEMPOTENCY_TTL" default:"168h"`
}
