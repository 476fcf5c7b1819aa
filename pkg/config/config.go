package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the app reads.
	EnvPrefix = "PETPAL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PETPAL_DB_DSN"
	EnvDBHost = "PETPAL_DB_HOST"
	EnvDBUser = "PETPAL_DB_USER"
	EnvDBName = "PETPAL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Password     PasswordConfig
	Pricing      PricingConfig
	Uploads      UploadConfig
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
	Env          string `envconfig:"PETPAL_APP_ENV" required:"true"`
	Port         string `envconfig:"PETPAL_APP_PORT" default:"8080"`
	BaseURL      string `envconfig:"PETPAL_BASE_URL" default:"http://localhost:8080"`
	LogLevel     string `envconfig:"PETPAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PETPAL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PETPAL_DB_DSN"`
	Driver string `envconfig:"PETPAL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PETPAL_DB_HOST"`
	LegacyPort     int    `envconfig:"PETPAL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PETPAL_DB_USER"`
	LegacyPassword string `envconfig:"PETPAL_DB_PASSWORD"`
	LegacyName     string `envconfig:"PETPAL_DB_NAME"`
	LegacySSLMode  string `envconfig:"PETPAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PETPAL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PETPAL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PETPAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PETPAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PETPAL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PETPAL_REDIS_ADDR"`
	Password     string        `envconfig:"PETPAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PETPAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PETPAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PETPAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PETPAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PETPAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PETPAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	TTL          time.Duration `envconfig:"PETPAL_SESSION_TTL" default:"168h"`
	CookieName   string        `envconfig:"PETPAL_SESSION_COOKIE_NAME" default:"petpal_session"`
	CookieSecure bool          `envconfig:"PETPAL_SESSION_COOKIE_SECURE" default:"false"`
	CookieDomain string        `envconfig:"PETPAL_SESSION_COOKIE_DOMAIN"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PETPAL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PETPAL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PETPAL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PETPAL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PETPAL_ARGON_KEY_LEN" default:"32"`
}

// PricingConfig holds the single checkout policy applied everywhere. The
// defaults match the storefront: free shipping above 50.00, otherwise a 5.99
// flat fee, with 8% tax on the subtotal.
type PricingConfig struct {
	FreeShippingThreshold string `envconfig:"PETPAL_FREE_SHIPPING_THRESHOLD" default:"50.00"`
	FlatShippingFee       string `envconfig:"PETPAL_FLAT_SHIPPING_FEE" default:"5.99"`
	TaxRate               string `envconfig:"PETPAL_TAX_RATE" default:"0.08"`
}

type UploadConfig struct {
	Dir        string `envconfig:"PETPAL_UPLOAD_DIR" default:"uploads/pets"`
	PublicBase string `envconfig:"PETPAL_UPLOAD_PUBLIC_BASE" default:"/uploads/pets"`
	MaxBytes   int64  `envconfig:"PETPAL_UPLOAD_MAX_BYTES" default:"5242880"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PETPAL_AUTO_MIGRATE" default:"false"`
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
