package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Cart    CartConfig
	Cleanup CleanupConfig
	Admin   AdminConfig
	CORS    CORSConfig
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
	Env          string `envconfig:"CARTKEEPER_APP_ENV" default:"dev"`
	Port         string `envconfig:"CARTKEEPER_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"CARTKEEPER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARTKEEPER_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"CARTKEEPER_AUTO_MIGRATE" default:"true"`
	StaticDir    string `envconfig:"CARTKEEPER_STATIC_DIR"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"CARTKEEPER_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"CARTKEEPER_DB_DSN"`

	MaxOpenConns    int           `envconfig:"CARTKEEPER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARTKEEPER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARTKEEPER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARTKEEPER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	OpTimeout       time.Duration `envconfig:"CARTKEEPER_DB_OP_TIMEOUT" default:"5s"`

	SlowQueryThreshold time.Duration `envconfig:"CARTKEEPER_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

// IsSQLite reports whether the embedded SQLite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"CARTKEEPER_REDIS_URL"`
	Address      string        `envconfig:"CARTKEEPER_REDIS_ADDR"`
	Password     string        `envconfig:"CARTKEEPER_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARTKEEPER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARTKEEPER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARTKEEPER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARTKEEPER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARTKEEPER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARTKEEPER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CartConfig struct {
	CookieName   string        `envconfig:"CARTKEEPER_CART_COOKIE_NAME" default:"cartId"`
	CookieMaxAge time.Duration `envconfig:"CARTKEEPER_CART_COOKIE_MAX_AGE" default:"168h"`
	CookieSecure bool          `envconfig:"CARTKEEPER_CART_COOKIE_SECURE" default:"false"`
}

type CleanupConfig struct {
	Enabled       bool          `envconfig:"CARTKEEPER_CLEANUP_ENABLED" default:"true"`
	RetentionDays int           `envconfig:"CARTKEEPER_CLEANUP_RETENTION_DAYS" default:"7"`
	Interval      time.Duration `envconfig:"CARTKEEPER_CLEANUP_INTERVAL" default:"1h"`
}

type AdminConfig struct {
	JWTSecret         string `envconfig:"CARTKEEPER_ADMIN_JWT_SECRET"`
	JWTIssuer         string `envconfig:"CARTKEEPER_ADMIN_JWT_ISSUER" default:"cartkeeper"`
	ExpirationMinutes int    `envconfig:"CARTKEEPER_ADMIN_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Protected reports whether admin routes require a bearer token.
func (a AdminConfig) Protected() bool {
	return strings.TrimSpace(a.JWTSecret) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CARTKEEPER_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	driver := strings.ToLower(strings.TrimSpace(db.Driver))
	switch driver {
	case "":
		driver = DBDriverSQLite
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("%s must be one of %s, %s", EnvDBDriver, DBDriverSQLite, DBDriverPostgres)
	}
	db.Driver = driver

	if db.DSN != "" {
		return nil
	}
	if driver == DBDriverPostgres {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverPostgres)
	}
	db.DSN = DefaultSQLiteDSN
	return nil
}
