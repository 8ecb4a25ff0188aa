package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at configPath, applies env overrides and validates it.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML content on top of the defaults.
func Parse(content []byte) (*AppConfig, error) {
	cfg := Default()
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(&cfg)
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Driver:  defaultDBDriver,
			Host:    defaultDBHost,
			Port:    defaultDBPort,
			User:    defaultDBUser,
			Name:    defaultDBName,
			Charset: defaultDBCharset,
			Path:    defaultSQLitePath,
		},
		Upload: UploadConfig{
			Driver:         defaultUploadDriver,
			MaxSizeMB:      defaultUploadMaxMB,
			AllowedFormats: defaultUploadFormats,
		},
	}
}

func applyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvJWTSecret)); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDSN)); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisURL)); v != "" {
		cfg.RedisURL = v
	}
}

func normalize(cfg *AppConfig) {
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = defaultDBDriver
	}
	cfg.Upload.Driver = strings.ToLower(strings.TrimSpace(cfg.Upload.Driver))
	if cfg.Upload.Driver == "" {
		cfg.Upload.Driver = defaultUploadDriver
	}
	if cfg.Upload.MaxSizeMB <= 0 {
		cfg.Upload.MaxSizeMB = defaultUploadMaxMB
	}
	if strings.TrimSpace(cfg.Upload.AllowedFormats) == "" {
		cfg.Upload.AllowedFormats = defaultUploadFormats
	}
	cfg.Upload.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.Upload.PublicBaseURL), "/")
	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.AllowedOrigins = origins
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
}

// Validate checks ranges and driver-specific requirements.
func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	switch c.Database.Driver {
	case DriverMySQL:
		if c.Database.DSN == "" && (c.Database.Port < 1 || c.Database.Port > 65535) {
			return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown database.driver %q, expected mysql or sqlite", c.Database.Driver)
	}
	switch c.Upload.Driver {
	case UploadLocal:
	case UploadS3:
		s3 := c.Upload.S3
		if s3.Bucket == "" || s3.Region == "" {
			return fmt.Errorf("upload.s3 requires bucket and region")
		}
	default:
		return fmt.Errorf("unknown upload.driver %q, expected local or s3", c.Upload.Driver)
	}
	return nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// LogDir returns the resolved log directory.
func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}

// StaticDir returns the resolved static file directory.
func (c *AppConfig) StaticDir() string {
	return ResolveRuntimePath(c.Paths.Static, "static")
}

// DSNValue builds the driver DSN from the database section.
func (c DatabaseConfig) DSNValue() string {
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		return dsn
	}
	if c.Driver == DriverSQLite {
		return c.Path
	}

	params := map[string]string{
		"charset":   c.Charset,
		"parseTime": "True",
		"loc":       "Local",
	}
	for k, v := range c.Params {
		params[k] = v
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	query := make([]string, 0, len(keys))
	for _, k := range keys {
		query = append(query, url.QueryEscape(k)+"="+url.QueryEscape(params[k]))
	}

	auth := c.User
	if c.Password != "" {
		auth += ":" + c.Password
	}
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?%s", auth, c.Host, c.Port, c.Name, strings.Join(query, "&"))
}
