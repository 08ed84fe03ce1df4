package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Auth     AuthConfig     `koanf:"auth"`
	Session  SessionConfig  `koanf:"session"`
	Admin    AdminConfig    `koanf:"admin"`
	Log      LogConfig      `koanf:"log"`
	Database DatabaseConfig `koanf:"database"`
	Audit    AuditConfig    `koanf:"audit"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string `koanf:"host"`
	Port           string `koanf:"port"`
	StaticDir      string `koanf:"static_dir"`      // built console assets; empty = JSON shells only
	AllowedOrigins string `koanf:"allowed_origins"` // comma separated; "*" allows any
}

// APIConfig points at the remote reports API
type APIConfig struct {
	BaseURL        string `koanf:"base_url"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

// AuthConfig holds identity token verification settings
type AuthConfig struct {
	Issuer                string `koanf:"issuer"`
	Audience              string `koanf:"audience"`
	JWKSURL               string `koanf:"jwks_url"`                 // derived from Issuer when empty
	VerifyCacheTTLSeconds int    `koanf:"verify_cache_ttl_seconds"` // 0 disables the cache
}

// SessionConfig holds the session cookie contract
type SessionConfig struct {
	CookieName    string `koanf:"cookie_name"`
	MaxAgeSeconds int    `koanf:"max_age_seconds"`
	LoginPath     string `koanf:"login_path"`
	AdminPath     string `koanf:"admin_path"`
}

// AdminConfig holds admin console defaults
type AdminConfig struct {
	PageSize int `koanf:"page_size"`
}

// LogConfig holds logger settings; file output is rotated by lumberjack
type LogConfig struct {
	Debug      bool   `koanf:"debug"`
	File       bool   `koanf:"file"`
	Filename   string `koanf:"filename"`
	MaxSize    int    `koanf:"max_size"`
	MaxAge     int    `koanf:"max_age"`
	MaxBackups int    `koanf:"max_backups"`
	Compress   bool   `koanf:"compress"`
}

// DatabaseConfig holds the optional audit database configuration
type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"name"`
}

// Enabled reports whether an audit database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.Host != "" && d.DBName != ""
}

// DSN builds the MySQL connection string (UTC, parseTime, utf8mb4)
func (d DatabaseConfig) DSN() string {
	c := mysql.NewConfig()
	c.User = d.User
	c.Passwd = d.Password
	c.Net = "tcp"
	c.Addr = d.Host + ":" + d.Port
	c.DBName = d.DBName
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// AuditConfig controls the moderation audit worker
type AuditConfig struct {
	QueueSize            int `koanf:"queue_size"`
	FlushIntervalSeconds int `koanf:"flush_interval_seconds"`
	BatchSize            int `koanf:"batch_size"`
}

// Default returns the built-in configuration used as the lowest layer.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           "8080",
			AllowedOrigins: "*",
		},
		API: APIConfig{
			BaseURL:        "http://localhost:5000",
			TimeoutSeconds: 15,
		},
		Auth: AuthConfig{
			VerifyCacheTTLSeconds: 60,
		},
		Session: SessionConfig{
			CookieName:    "crimewatch_session",
			MaxAgeSeconds: 60 * 60 * 8,
			LoginPath:     "/login",
			AdminPath:     "/admin",
		},
		Admin: AdminConfig{
			PageSize: 20,
		},
		Log: LogConfig{
			Filename:   "logs/crimewatch.log",
			MaxSize:    50,
			MaxAge:     28,
			MaxBackups: 5,
			Compress:   true,
		},
		Database: DatabaseConfig{
			Port: "3306",
		},
		Audit: AuditConfig{
			QueueSize:            256,
			FlushIntervalSeconds: 5,
			BatchSize:            50,
		},
	}
}

// envKeys maps the flat environment variable names to configuration keys.
// PORT is kept for Render/fly.io; SERVER_PORT wins when both are set.
var envKeys = map[string]string{
	"SERVER_HOST":              "server.host",
	"PORT":                     "server.port",
	"STATIC_DIR":               "server.static_dir",
	"ALLOWED_ORIGINS":          "server.allowed_origins",
	"API_BASE_URL":             "api.base_url",
	"API_TIMEOUT_SECONDS":      "api.timeout_seconds",
	"AUTH_ISSUER":              "auth.issuer",
	"AUTH_AUDIENCE":            "auth.audience",
	"AUTH_JWKS_URL":            "auth.jwks_url",
	"VERIFY_CACHE_TTL_SECONDS": "auth.verify_cache_ttl_seconds",
	"SESSION_COOKIE_NAME":      "session.cookie_name",
	"SESSION_MAX_AGE_SECONDS":  "session.max_age_seconds",
	"PAGE_SIZE":                "admin.page_size",
	"LOG_DEBUG":                "log.debug",
	"LOG_FILE":                 "log.file",
	"LOG_FILENAME":             "log.filename",
	"DB_HOST":                  "database.host",
	"DB_PORT":                  "database.port",
	"DB_USER":                  "database.user",
	"DB_PASSWORD":              "database.password",
	"DB_NAME":                  "database.name",
	"AUDIT_QUEUE_SIZE":         "audit.queue_size",
	"AUDIT_FLUSH_SECONDS":      "audit.flush_interval_seconds",
	"AUDIT_BATCH_SIZE":         "audit.batch_size",
}

// LoadConfig layers defaults, an optional JSON file and environment variables.
// A missing file is not an error; an unreadable or malformed one is.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), json.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	return &cfg, cfg.Validate()
}

// envKey translates an environment variable name; unknown names are dropped.
func envKey(name string) string {
	return envKeys[strings.ToUpper(name)]
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	var problems []string
	if c.API.BaseURL == "" {
		problems = append(problems, "API_BASE_URL is required")
	}
	if c.Session.CookieName == "" {
		problems = append(problems, "SESSION_COOKIE_NAME must not be empty")
	}
	if c.Session.MaxAgeSeconds <= 0 {
		problems = append(problems, "SESSION_MAX_AGE_SECONDS must be positive")
	}
	if c.Admin.PageSize <= 0 {
		problems = append(problems, "PAGE_SIZE must be positive")
	}
	if !strings.HasPrefix(c.Session.LoginPath, "/") || !strings.HasPrefix(c.Session.AdminPath, "/") {
		problems = append(problems, "login and admin paths must start with /")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// KeySetURL returns the configured key set URL, or the issuer's default discovery path.
func (a AuthConfig) KeySetURL() string {
	if a.JWKSURL != "" {
		return a.JWKSURL
	}
	if a.Issuer == "" {
		return ""
	}
	return strings.TrimSuffix(strings.TrimSuffix(a.Issuer, "/"), "/v2.0") + "/discovery/v2.0/keys"
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}
