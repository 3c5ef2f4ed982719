package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port           string
		Mode           string   // gin mode: debug, release, test
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	}
	Backend struct {
		BaseURL string `mapstructure:"base_url"`
		Timeout time.Duration
	}
	Storage struct {
		Driver string // "database" (gorm) or "memory" (in-process caches)
	}
	Database struct {
		DSN string // "memory" for sqlite in memory, otherwise a postgres DSN
	}
	Session struct {
		Secret    string
		TTL       time.Duration
		TokenSkew time.Duration `mapstructure:"token_skew"`
	}
	Cache struct {
		AppointmentsTTL time.Duration `mapstructure:"appointments_ttl"`
		FlowTTL         time.Duration `mapstructure:"flow_ttl"`
		SweepInterval   time.Duration `mapstructure:"sweep_interval"`
	}
	Log struct {
		Level       string
		Development bool
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("storage.driver", "database")
	v.SetDefault("database.dsn", "memory")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.token_skew", 30*time.Second)
	v.SetDefault("cache.appointments_ttl", time.Minute)
	v.SetDefault("cache.flow_ttl", 24*time.Hour)
	v.SetDefault("cache.sweep_interval", 10*time.Minute)
	v.SetDefault("log.level", "info")
}

// Load reads .env, then config.yaml from the usual paths, then HAIRLINE_*
// environment variables (HAIRLINE_BACKEND_BASE_URL overrides backend.base_url).
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", ".", "../config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("HAIRLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	if c.Storage.Driver != "database" && c.Storage.Driver != "memory" {
		return fmt.Errorf("storage.driver must be database or memory, got %q", c.Storage.Driver)
	}
	if len(c.Session.Secret) < 16 {
		return errors.New("session.secret must be at least 16 characters (HAIRLINE_SESSION_SECRET)")
	}
	return nil
}
