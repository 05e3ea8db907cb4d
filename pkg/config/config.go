package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Redis   RedisConfig
	Session SessionConfig
	Admin   AdminConfig
	CORS    CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CAFEAPP_APP_ENV" required:"true"`
	Port         string `envconfig:"CAFEAPP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CAFEAPP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAFEAPP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the café REST API that owns catalog, orders,
// payments and inventory.
type BackendConfig struct {
	BaseURL      string        `envconfig:"CAFEAPP_BACKEND_BASE_URL" required:"true"`
	ServiceToken string        `envconfig:"CAFEAPP_BACKEND_SERVICE_TOKEN"`
	Timeout      time.Duration `envconfig:"CAFEAPP_BACKEND_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CAFEAPP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CAFEAPP_REDIS_ADDR"`
	Password     string        `envconfig:"CAFEAPP_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAFEAPP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAFEAPP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAFEAPP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAFEAPP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAFEAPP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAFEAPP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig controls the browsing-session registry.
type SessionConfig struct {
	TTL             time.Duration `envconfig:"CAFEAPP_SESSION_TTL" default:"4h"`
	JanitorInterval time.Duration `envconfig:"CAFEAPP_SESSION_JANITOR_INTERVAL" default:"5m"`
	CookieName      string        `envconfig:"CAFEAPP_SESSION_COOKIE" default:"cafeapp_session"`
	CookieSecure    bool          `envconfig:"CAFEAPP_SESSION_COOKIE_SECURE" default:"true"`
}

// AdminConfig guards the back-office routes.
type AdminConfig struct {
	Token string `envconfig:"CAFEAPP_ADMIN_TOKEN" required:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CAFEAPP_CORS_ALLOWED_ORIGINS"`
}
