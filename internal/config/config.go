package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Source    SourceConfig    `yaml:"source"`
	Database  DatabaseConfig  `yaml:"database"`
	Admin     AdminConfig     `yaml:"admin"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// SourceConfig describes where weekly menu files come from and how long
// local copies are kept.
type SourceConfig struct {
	BaseURL     string `yaml:"base_url"     env:"SOURCE_BASE_URL"     env-required:"true"`
	StorageDir  string `yaml:"storage_dir"  env:"SOURCE_STORAGE_DIR"  env-default:"./data"`
	DatePattern string `yaml:"date_pattern" env:"SOURCE_DATE_PATTERN" env-default:"02.01.2006"`
	// MaxAge is the age after which a local file is purged and fetched again.
	MaxAge time.Duration `yaml:"max_age" env:"SOURCE_MAX_AGE" env-default:"24h"`
	// FetchTimeout bounds one download. Zero means no timeout.
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"SOURCE_FETCH_TIMEOUT"`
	// PurgeInterval schedules PurgeExpired in the server. Zero disables it.
	PurgeInterval time.Duration `yaml:"purge_interval" env:"SOURCE_PURGE_INTERVAL"`
}

// DatabaseConfig holds PostgreSQL connection settings for the menu archive.
// An empty DSN disables the archive.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	Retention       time.Duration `yaml:"retention"          env:"DATABASE_RETENTION"          env-default:"2160h"`
}

// Enabled reports whether an archive database is configured.
func (c DatabaseConfig) Enabled() bool { return c.DSN != "" }

// AdminConfig protects the maintenance endpoints. With an empty token the
// endpoints are not mounted.
type AdminConfig struct {
	Token string `yaml:"token" env:"ADMIN_TOKEN"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig limits requests per client IP on the public API.
type RateLimitConfig struct {
	// RequestsPerMinute of zero disables the limit.
	RequestsPerMinute int `yaml:"requests_per_minute" env:"RATE_LIMIT_REQUESTS_PER_MINUTE"`
}

// defaults returns the settings whose zero value is meaningful ("disabled"),
// so they cannot use env-default tags: cleanenv fills a default into every
// zero field, including one set to zero in YAML.
func defaults() Config {
	return Config{
		Source: SourceConfig{
			FetchTimeout:  30 * time.Second,
			PurgeInterval: time.Hour,
		},
		RateLimit: RateLimitConfig{RequestsPerMinute: 60},
	}
}
