package config

const (
	EnvPrefix = "CARTKEEPER"

	EnvAppEnv          = "CARTKEEPER_APP_ENV"
	EnvPort            = "CARTKEEPER_APP_PORT"
	EnvDBDriver        = "CARTKEEPER_DB_DRIVER"
	EnvDBDSN           = "CARTKEEPER_DB_DSN"
	EnvDBOpTimeout     = "CARTKEEPER_DB_OP_TIMEOUT"
	EnvRedisURL        = "CARTKEEPER_REDIS_URL"
	EnvRetentionDays   = "CARTKEEPER_CLEANUP_RETENTION_DAYS"
	EnvCleanupInterval = "CARTKEEPER_CLEANUP_INTERVAL"
	EnvAdminJWTSecret  = "CARTKEEPER_ADMIN_JWT_SECRET"
	EnvCORSOrigins     = "CARTKEEPER_CORS_ALLOWED_ORIGINS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	// busy_timeout keeps concurrent writers waiting instead of failing fast with SQLITE_BUSY.
	DefaultSQLiteDSN = "file:cartkeeper.db?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
)
