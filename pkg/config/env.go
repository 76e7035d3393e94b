package config

const EnvPrefix = "RATEBOARD"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "RATEBOARD_APP_ENV"
	EnvPort          = "RATEBOARD_APP_PORT"
	EnvLogLevel      = "RATEBOARD_LOG_LEVEL"
	EnvDBDSN         = "RATEBOARD_DB_DSN"
	EnvDBHost        = "RATEBOARD_DB_HOST"
	EnvDBUser        = "RATEBOARD_DB_USER"
	EnvDBPassword    = "RATEBOARD_DB_PASSWORD"
	EnvDBName        = "RATEBOARD_DB_NAME"
	EnvRedisURL      = "RATEBOARD_REDIS_URL"
	EnvJWTSecret     = "RATEBOARD_JWT_SECRET"
	EnvJWTIssuer     = "RATEBOARD_JWT_ISSUER"
	EnvJWTExpiration = "RATEBOARD_JWT_EXPIRATION"
	EnvAdminEmail    = "RATEBOARD_ADMIN_EMAIL"
	EnvAdminPassword = "RATEBOARD_ADMIN_PASSWORD"
	EnvCORSOrigins   = "RATEBOARD_CORS_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// dev-only fallbacks; Load refuses to start production without real values.
const (
	devJWTSecret     = "rateboard-dev-secret"
	devAdminEmail    = "admin@rateboard.local"
	devAdminPassword = "Admin@1234"
)
