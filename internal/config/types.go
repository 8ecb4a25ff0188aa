package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"` // "development" | "production"
	Database       DatabaseConfig     `yaml:"database"`
	RedisURL       string             `yaml:"redis_url"`
	JWTSecret      string             `yaml:"jwt_secret"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	Timezone       string             `yaml:"timezone"`
	Paths          RuntimePathsConfig `yaml:"paths"`
	Upload         UploadConfig       `yaml:"upload"`
	BootstrapAdmin BootstrapAdmin     `yaml:"bootstrap_admin"`
}

type DatabaseConfig struct {
	Driver   string            `yaml:"driver"` // mysql | sqlite
	DSN      string            `yaml:"dsn"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	Charset  string            `yaml:"charset"`
	Path     string            `yaml:"path"` // sqlite file
	Params   map[string]string `yaml:"params"`
}

type RuntimePathsConfig struct {
	Logs   string `yaml:"logs"`
	Static string `yaml:"static"`
}

type UploadConfig struct {
	Driver         string   `yaml:"driver"` // local | s3
	MaxSizeMB      int      `yaml:"max_size_mb"`
	AllowedFormats string   `yaml:"allowed_formats"`
	PublicBaseURL  string   `yaml:"public_base_url"`
	S3             S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
	CustomDomain    string `yaml:"custom_domain"`
	Prefix          string `yaml:"prefix"`
}

// BootstrapAdmin seeds an admin account when none exists.
type BootstrapAdmin struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Enabled reports whether enough fields are set to seed an account.
func (b BootstrapAdmin) Enabled() bool {
	return b.Username != "" && b.Email != "" && b.Password != ""
}
