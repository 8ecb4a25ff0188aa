package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort          = 8080
	defaultEnv           = "development"
	defaultDBDriver      = DriverMySQL
	defaultDBHost        = "127.0.0.1"
	defaultDBPort        = 3306
	defaultDBUser        = "root"
	defaultDBName        = "blog"
	defaultDBCharset     = "utf8mb4"
	defaultSQLitePath    = "blog.db"
	defaultUploadDriver  = UploadLocal
	defaultUploadMaxMB   = 5
	defaultUploadFormats = "jpg,jpeg,png,gif,webp,svg"

	EnvJWTSecret = "BLOG_JWT_SECRET"
	EnvDSN       = "BLOG_DSN"
	EnvRedisURL  = "BLOG_REDIS_URL"
)

// Database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Upload storage drivers.
const (
	UploadLocal = "local"
	UploadS3    = "s3"
)
