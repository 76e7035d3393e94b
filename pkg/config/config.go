package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Admin         AdminConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RATEBOARD_APP_ENV" default:"dev"`
	Port         string `envconfig:"RATEBOARD_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"RATEBOARD_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"RATEBOARD_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"RATEBOARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"RATEBOARD_DB_DSN"`

	LegacyHost     string `envconfig:"RATEBOARD_DB_HOST"`
	LegacyPort     int    `envconfig:"RATEBOARD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RATEBOARD_DB_USER"`
	LegacyPassword string `envconfig:"RATEBOARD_DB_PASSWORD"`
	LegacyName     string `envconfig:"RATEBOARD_DB_NAME"`
	LegacySSLMode  string `envconfig:"RATEBOARD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RATEBOARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RATEBOARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RATEBOARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RATEBOARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RATEBOARD_REDIS_URL"`
	Address      string        `envconfig:"RATEBOARD_REDIS_ADDR"`
	Password     string        `envconfig:"RATEBOARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"RATEBOARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RATEBOARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RATEBOARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RATEBOARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RATEBOARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RATEBOARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret     string        `envconfig:"RATEBOARD_JWT_SECRET"`
	Issuer     string        `envconfig:"RATEBOARD_JWT_ISSUER" default:"rateboard"`
	Expiration time.Duration `envconfig:"RATEBOARD_JWT_EXPIRATION" default:"168h"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RATEBOARD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RATEBOARD_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RATEBOARD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RATEBOARD_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RATEBOARD_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RATEBOARD_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"RATEBOARD_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RATEBOARD_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"RATEBOARD_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"RATEBOARD_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"RATEBOARD_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// AdminConfig holds the bootstrap admin credentials seeded at API start.
type AdminConfig struct {
	Email    string `envconfig:"RATEBOARD_ADMIN_EMAIL"`
	Password string `envconfig:"RATEBOARD_ADMIN_PASSWORD"`
	Name     string `envconfig:"RATEBOARD_ADMIN_NAME" default:"System Administrator"`
	Address  string `envconfig:"RATEBOARD_ADMIN_ADDRESS" default:"Head Office"`
}

// Enabled reports whether admin bootstrap has enough input to run.
func (a AdminConfig) Enabled() bool {
	return strings.TrimSpace(a.Email) != "" && a.Password != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"RATEBOARD_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RATEBOARD_AUTO_MIGRATE" default:"false"`
}

// applyEnvDefaults fills secrets that are only allowed to default outside production.
func (c *Config) applyEnvDefaults() error {
	if c.App.IsProd() {
		if strings.TrimSpace(c.JWT.Secret) == "" {
			return fmt.Errorf("%s is required in production", EnvJWTSecret)
		}
		return nil
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		c.JWT.Secret = devJWTSecret
	}
	if strings.TrimSpace(c.Admin.Email) == "" {
		c.Admin.Email = devAdminEmail
	}
	if c.Admin.Password == "" {
		c.Admin.Password = devAdminPassword
	}
	return nil
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
