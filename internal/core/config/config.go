package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string        `mapstructure:"app_env"`
	AppHost        string        `mapstructure:"app_host"`
	AppVersion     string        `mapstructure:"app_version"`
	DatabaseURL    string        `mapstructure:"database_url"`
	DBRowSecurity  bool          `mapstructure:"db_row_security"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
	RedisURL       string        `mapstructure:"redis_url"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTL         time.Duration `mapstructure:"jwt_ttl"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CORSOrigin     string        `mapstructure:"cors_origin"`
	Log            LogConfig     `mapstructure:",squash"`
	Google         GoogleConfig  `mapstructure:",squash"`
	PasswordReset  string        `mapstructure:"password_reset_url"`
}

type LogConfig struct {
	Level      string `mapstructure:"log_level"`
	File       string `mapstructure:"log_file"`
	MaxSize    int    `mapstructure:"log_max_size"`
	MaxBackups int    `mapstructure:"log_max_backups"`
	MaxAge     int    `mapstructure:"log_max_age"`
}

type GoogleConfig struct {
	ClientID     string `mapstructure:"google_client_id"`
	ClientSecret string `mapstructure:"google_client_secret"`
	RedirectURL  string `mapstructure:"google_redirect_url"`
}

var keys = []string{
	"app_env", "app_host", "app_version", "database_url", "db_row_security", "migrations_dir", "redis_url",
	"jwt_secret", "jwt_ttl", "request_timeout", "cors_origin",
	"log_level", "log_file", "log_max_size", "log_max_backups", "log_max_age",
	"google_client_id", "google_client_secret", "google_redirect_url", "password_reset_url",
}

// Load reads .env (without overriding the environment) and then the
// environment itself.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", ":8080")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("db_row_security", false)
	v.SetDefault("migrations_dir", "migrations")
	v.SetDefault("jwt_ttl", 24*time.Hour)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_max_size", 100)
	v.SetDefault("log_max_backups", 7)
	v.SetDefault("log_max_age", 30)
	v.SetDefault("password_reset_url", "http://localhost:5173/reset-password")
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return nil
}
