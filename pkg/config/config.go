package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the server reads.
const EnvPrefix = "HSN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Snapshot      SnapshotConfig
	FeatureFlags  FeatureFlagsConfig
	AuthRateLimit AuthRateLimitConfig
	The7Space     The7SpaceConfig
	WordPress     WordPressConfig
	Notion        NotionConfig
	Gateway       GatewayConfig
	Worker        WorkerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.DemoMode {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HSN_APP_ENV" default:"dev"`
	Port         string `envconfig:"HSN_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"HSN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HSN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HSN_DB_DSN"`
	Driver string `envconfig:"HSN_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"HSN_DB_HOST"`
	Port     int    `envconfig:"HSN_DB_PORT" default:"5432"`
	User     string `envconfig:"HSN_DB_USER"`
	Password string `envconfig:"HSN_DB_PASSWORD"`
	Name     string `envconfig:"HSN_DB_NAME"`
	SSLMode  string `envconfig:"HSN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HSN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HSN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HSN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HSN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HSN_REDIS_URL"`
	Address      string        `envconfig:"HSN_REDIS_ADDR"`
	Password     string        `envconfig:"HSN_REDIS_PASSWORD"`
	DB           int           `envconfig:"HSN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HSN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HSN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HSN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HSN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HSN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"HSN_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"HSN_JWT_ISSUER" default:"higherself-network"`
	ExpirationMinutes      int    `envconfig:"HSN_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"HSN_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"HSN_BCRYPT_COST" default:"12"`
}

type SnapshotConfig struct {
	EmployeePath  string `envconfig:"HSN_EMPLOYEE_SNAPSHOT_PATH" default:"data/employees.json"`
	Deterministic bool   `envconfig:"HSN_SNAPSHOT_DETERMINISTIC" default:"false"`
}

type FeatureFlagsConfig struct {
	DemoMode        bool `envconfig:"HSN_DEMO_MODE" default:"false"`
	DisableWebhooks bool `envconfig:"HSN_DISABLE_WEBHOOKS" default:"false"`
	AutoMigrate     bool `envconfig:"HSN_AUTO_MIGRATE" default:"false"`
}

type AuthRateLimitConfig struct {
	LoginWindow          time.Duration `envconfig:"HSN_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentifierLimit int           `envconfig:"HSN_AUTH_RATE_LIMIT_LOGIN_IDENTIFIER_LIMIT" default:"5"`
	LoginIPLimit         int           `envconfig:"HSN_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// The7SpaceConfig holds the shared API key the WordPress plugin presents.
type The7SpaceConfig struct {
	APIKey string `envconfig:"HSN_THE7SPACE_API_KEY"`
}

type WordPressConfig struct {
	BaseURL string        `envconfig:"HSN_WORDPRESS_BASE_URL"`
	APIKey  string        `envconfig:"HSN_WORDPRESS_API_KEY"`
	Timeout time.Duration `envconfig:"HSN_WORDPRESS_TIMEOUT" default:"10s"`
}

type NotionConfig struct {
	BaseURL string        `envconfig:"HSN_NOTION_SYNC_BASE_URL"`
	APIKey  string        `envconfig:"HSN_NOTION_SYNC_API_KEY"`
	Timeout time.Duration `envconfig:"HSN_NOTION_SYNC_TIMEOUT" default:"10s"`
}

type GatewayConfig struct {
	BaseURL string        `envconfig:"HSN_GATEWAY_BASE_URL"`
	APIKey  string        `envconfig:"HSN_GATEWAY_API_KEY"`
	Timeout time.Duration `envconfig:"HSN_GATEWAY_TIMEOUT" default:"10s"`
}

type WorkerConfig struct {
	PollInterval time.Duration `envconfig:"HSN_WORKER_POLL_INTERVAL" default:"30s"`
	BatchSize    int           `envconfig:"HSN_WORKER_BATCH_SIZE" default:"20"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for _, pair := range []struct{ env, val string }{
		{"HSN_DB_HOST", db.Host},
		{"HSN_DB_USER", db.User},
		{"HSN_DB_NAME", db.Name},
	} {
		if pair.val == "" {
			missing = append(missing, pair.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either HSN_DB_DSN or %s are required", strings.Join(missing, ", "))
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
