package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

// Env variable names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv   = "RECORDHUB_APP_ENV"
	EnvPort     = "RECORDHUB_APP_PORT"
	EnvDBDSN    = "RECORDHUB_DB_DSN"
	EnvDBHost   = "RECORDHUB_DB_HOST"
	EnvDBUser   = "RECORDHUB_DB_USER"
	EnvDBName   = "RECORDHUB_DB_NAME"
	EnvRedisURL = "RECORDHUB_REDIS_URL"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Cache CacheConfig
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
	Env          string `envconfig:"RECORDHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"RECORDHUB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RECORDHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RECORDHUB_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"RECORDHUB_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RECORDHUB_DB_DSN"`
	Driver string `envconfig:"RECORDHUB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"RECORDHUB_DB_HOST"`
	Port     int    `envconfig:"RECORDHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"RECORDHUB_DB_USER"`
	Password string `envconfig:"RECORDHUB_DB_PASSWORD"`
	Name     string `envconfig:"RECORDHUB_DB_NAME"`
	SSLMode  string `envconfig:"RECORDHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RECORDHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RECORDHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RECORDHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RECORDHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional: when neither URL nor Address is set the API runs
// without the search cache and the readiness probe skips Redis.
type RedisConfig struct {
	URL          string        `envconfig:"RECORDHUB_REDIS_URL"`
	Address      string        `envconfig:"RECORDHUB_REDIS_ADDR"`
	Password     string        `envconfig:"RECORDHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"RECORDHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RECORDHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RECORDHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RECORDHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RECORDHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RECORDHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type CacheConfig struct {
	SearchTTL time.Duration `envconfig:"RECORDHUB_CACHE_SEARCH_TTL" default:"30s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range []string{EnvDBHost, EnvDBUser, EnvDBName} {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
