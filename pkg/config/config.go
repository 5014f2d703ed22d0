package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "TALENTBRIDGE"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv     = "TALENTBRIDGE_APP_ENV"
	EnvPort       = "TALENTBRIDGE_APP_PORT"
	EnvDBDSN      = "TALENTBRIDGE_DB_DSN"
	EnvRedisURL   = "TALENTBRIDGE_REDIS_URL"
	EnvJWTSecret  = "TALENTBRIDGE_JWT_SECRET"
	EnvJWTIssuer  = "TALENTBRIDGE_JWT_ISSUER"
	EnvJWTExpMins = "TALENTBRIDGE_JWT_EXPIRATION_MINUTES"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Wallet       WalletConfig
	Webhook      WebhookConfig
	Cron         CronConfig
	Security     SecurityConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TALENTBRIDGE_APP_ENV" required:"true"`
	Port         string `envconfig:"TALENTBRIDGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TALENTBRIDGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TALENTBRIDGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"TALENTBRIDGE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"TALENTBRIDGE_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"TALENTBRIDGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TALENTBRIDGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TALENTBRIDGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TALENTBRIDGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TALENTBRIDGE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TALENTBRIDGE_REDIS_ADDR"`
	Password     string        `envconfig:"TALENTBRIDGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"TALENTBRIDGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TALENTBRIDGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TALENTBRIDGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TALENTBRIDGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TALENTBRIDGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TALENTBRIDGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TALENTBRIDGE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TALENTBRIDGE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TALENTBRIDGE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// WalletConfig fixes the point price of each gated action.
type WalletConfig struct {
	JobPostingCost    int `envconfig:"TALENTBRIDGE_WALLET_JOB_POSTING_COST" default:"1"`
	JobInvitationCost int `envconfig:"TALENTBRIDGE_WALLET_JOB_INVITATION_COST" default:"1"`
}

// WebhookConfig guards the payment-confirmation credit endpoint. The stored
// value is an argon2id hash of the shared secret, never the secret itself.
type WebhookConfig struct {
	CreditSecretHash string `envconfig:"TALENTBRIDGE_WEBHOOK_CREDIT_SECRET_HASH"`
}

type CronConfig struct {
	Interval    time.Duration `envconfig:"TALENTBRIDGE_CRON_INTERVAL" default:"1h"`
	SweepLimit  int           `envconfig:"TALENTBRIDGE_CRON_SWEEP_LIMIT" default:"250"`
	LockTTL     time.Duration `envconfig:"TALENTBRIDGE_CRON_LOCK_TTL" default:"2h"`
	MetricsPort string        `envconfig:"TALENTBRIDGE_CRON_METRICS_PORT" default:"9102"`
}

type SecurityConfig struct {
	ArgonMemoryKB    int `envconfig:"TALENTBRIDGE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TALENTBRIDGE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TALENTBRIDGE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TALENTBRIDGE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TALENTBRIDGE_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TALENTBRIDGE_AUTO_MIGRATE" default:"false"`
}
