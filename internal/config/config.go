package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host" json:"host"`
	Port            int           `mapstructure:"port" yaml:"port" json:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	// PublicBaseURL prefixes uploaded image URLs. When empty the URL is
	// derived from the upload request.
	PublicBaseURL string   `mapstructure:"public_base_url" yaml:"public_base_url" json:"public_base_url"`
	CORSOrigins   []string `mapstructure:"cors_origins" yaml:"cors_origins" json:"cors_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" yaml:"driver" json:"driver"`
	DSN             string        `mapstructure:"dsn" yaml:"dsn" json:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" yaml:"conn_max_idle_time" json:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
}

// RedisConfig represents the optional token revocation store
type RedisConfig struct {
	Address  string `mapstructure:"address" yaml:"address" json:"address"`
	Password string `mapstructure:"password" yaml:"password" json:"password"`
	DB       int    `mapstructure:"db" yaml:"db" json:"db"`
}

// JWTConfig represents admin token configuration
type JWTConfig struct {
	Secret          string `mapstructure:"secret" yaml:"secret" json:"-"`
	ExpirationHours int    `mapstructure:"expiration_hours" yaml:"expiration_hours" json:"expiration_hours"`
}

// UploadsConfig represents image storage configuration
type UploadsConfig struct {
	Dir      string `mapstructure:"dir" yaml:"dir" json:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes" yaml:"max_bytes" json:"max_bytes"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// TracingConfig represents tracing configuration
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name" json:"service_name"`
}

// AuthConfig represents login throttling
type AuthConfig struct {
	LoginRPS   float64 `mapstructure:"login_rps" yaml:"login_rps" json:"login_rps"`
	LoginBurst int     `mapstructure:"login_burst" yaml:"login_burst" json:"login_burst"`
}

// AdminConfig holds the bootstrap admin created on startup when no admin exists.
type AdminConfig struct {
	Username string `mapstructure:"username" yaml:"username" json:"username"`
	Password string `mapstructure:"password" yaml:"password" json:"-"`
}

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database" json:"database"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis" json:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt" yaml:"jwt" json:"jwt"`
	Uploads  UploadsConfig  `mapstructure:"uploads" yaml:"uploads" json:"uploads"`
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing" yaml:"tracing" json:"tracing"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth" json:"auth"`
	Admin    AdminConfig    `mapstructure:"admin" yaml:"admin" json:"admin"`
}

// JWTExpiration returns the admin token lifetime.
func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWT.ExpirationHours) * time.Hour
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.public_base_url", "")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "qrmenu.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 15*time.Minute)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_hours", 24*7)

	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.max_bytes", 5<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "qrmenu")

	v.SetDefault("auth.login_rps", 0.2)
	v.SetDefault("auth.login_burst", 5)

	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password", "")
}

// LoadConfig loads the application configuration from defaults, an optional
// config file and QRMENU_ prefixed environment variables, in that order of
// precedence. An empty path searches the default locations.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("QRMENU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/qrmenu")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.JWT.Secret == "" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.JWT.ExpirationHours <= 0 {
		return fmt.Errorf("jwt.expiration_hours must be positive")
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("uploads.max_bytes must be positive")
	}
	if c.Auth.LoginRPS <= 0 || c.Auth.LoginBurst <= 0 {
		return fmt.Errorf("auth.login_rps and auth.login_burst must be positive")
	}
	return nil
}
