package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "FORGEFIT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FORGEFIT_DB_DSN"
	EnvDBHost = "FORGEFIT_DB_HOST"
	EnvDBUser = "FORGEFIT_DB_USER"
	EnvDBName = "FORGEFIT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	Checkout      CheckoutConfig
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
	Env          string `envconfig:"FORGEFIT_APP_ENV" required:"true"`
	Port         string `envconfig:"FORGEFIT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FORGEFIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FORGEFIT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FORGEFIT_DB_DSN"`
	Driver string `envconfig:"FORGEFIT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FORGEFIT_DB_HOST"`
	LegacyPort     int    `envconfig:"FORGEFIT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FORGEFIT_DB_USER"`
	LegacyPassword string `envconfig:"FORGEFIT_DB_PASSWORD"`
	LegacyName     string `envconfig:"FORGEFIT_DB_NAME"`
	LegacySSLMode  string `envconfig:"FORGEFIT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FORGEFIT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FORGEFIT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FORGEFIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FORGEFIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FORGEFIT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FORGEFIT_REDIS_ADDR"`
	Password     string        `envconfig:"FORGEFIT_REDIS_PASSWORD"`
	DB           int           `envconfig:"FORGEFIT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FORGEFIT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FORGEFIT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FORGEFIT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FORGEFIT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FORGEFIT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FORGEFIT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FORGEFIT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FORGEFIT_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FORGEFIT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FORGEFIT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FORGEFIT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FORGEFIT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FORGEFIT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FORGEFIT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FORGEFIT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FORGEFIT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FORGEFIT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FORGEFIT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FORGEFIT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FORGEFIT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FORGEFIT_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey string `envconfig:"FORGEFIT_STRIPE_API_KEY"`
	Secret string `envconfig:"FORGEFIT_STRIPE_SECRET"`
	Env    string `envconfig:"FORGEFIT_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// CheckoutConfig carries the storefront origin used to build the hosted
// payment session redirect targets.
type CheckoutConfig struct {
	Origin      string `envconfig:"FORGEFIT_CHECKOUT_ORIGIN" required:"true"`
	SuccessPath string `envconfig:"FORGEFIT_CHECKOUT_SUCCESS_PATH" default:"/checkout/success"`
	CancelPath  string `envconfig:"FORGEFIT_CHECKOUT_CANCEL_PATH" default:"/checkout/cancel"`
}

// SuccessURL appends the hosted session id placeholder expected by Stripe.
func (c CheckoutConfig) SuccessURL() string {
	return strings.TrimRight(c.Origin, "/") + c.SuccessPath + "?session_id={CHECKOUT_SESSION_ID}"
}

func (c CheckoutConfig) CancelURL() string {
	return strings.TrimRight(c.Origin, "/") + c.CancelPath
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
