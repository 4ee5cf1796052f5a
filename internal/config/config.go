package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/storefront/internal/log"
)

type Application struct {
	Env       string `mapstructure:"env"        json:"env"`
	Host      string `mapstructure:"host"       json:"host"`
	SecretKey string `mapstructure:"secret_key" json:"-"`
	Port      int    `mapstructure:"port"       json:"port"`
}

type Database struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"-"`
	TimeZone       string `mapstructure:"timezone"        json:"timezone"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int    `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int    `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

// Storage selects where session snapshots are written. Backend is "redis" or "postgres".
type Storage struct {
	Backend          string        `mapstructure:"backend"           json:"backend"`
	Key              string        `mapstructure:"key"               json:"key"`
	TTL              time.Duration `mapstructure:"ttl"               json:"ttl"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"      json:"idle_timeout"`
	EvictionInterval time.Duration `mapstructure:"eviction_interval" json:"eviction_interval"`
}

type Session struct {
	CookieName   string        `mapstructure:"cookie_name"   json:"cookie_name"`
	TTL          time.Duration `mapstructure:"ttl"           json:"ttl"`
	SecureCookie bool          `mapstructure:"secure_cookie" json:"secure_cookie"`
}

type Order struct {
	SubmissionURL string        `mapstructure:"submission_url" json:"submission_url"`
	Timeout       time.Duration `mapstructure:"timeout"        json:"timeout"`
}

type Config struct {
	Database    `mapstructure:"db"          json:"db"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Application `mapstructure:"application" json:"application"`
	Otel        `mapstructure:"otel"        json:"otel"`
	Storage     `mapstructure:"storage"     json:"storage"`
	Session     `mapstructure:"session"     json:"session"`
	Order       `mapstructure:"order"       json:"order"`
}

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "production")
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 8080)
	v.SetDefault("db.migration_path", "file://migrations")
	v.SetDefault("db.max_connections", 10)
	v.SetDefault("db.min_connections", 2)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)
	v.SetDefault("storage.backend", "redis")
	v.SetDefault("storage.key", "cart-storage")
	v.SetDefault("storage.ttl", 30*24*time.Hour)
	v.SetDefault("storage.idle_timeout", 15*time.Minute)
	v.SetDefault("storage.eviction_interval", time.Minute)
	v.SetDefault("session.cookie_name", "session_token")
	v.SetDefault("session.ttl", 30*24*time.Hour)
	v.SetDefault("session.secure_cookie", false)
	v.SetDefault("order.timeout", 10*time.Second)
}

// Load reads <filename>.yaml from the given paths. Environment variables override file values,
// with "." replaced by "_" (STORAGE_BACKEND overrides storage.backend).
func Load(filename string, paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(filename)
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("error when reading config with error=%w", err)
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config with error=%w", err)
	}
	return cfg, nil
}

func InitConfig(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
		logger.Info().Msg("reading config")
		cfg, err := Load(filename, "./env", "/etc/storefront")
		if err != nil {
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger = logger.With().Any(log.KeyConfig, cfg).Logger()
		logger.Info().Msg("read config")
	})
	return config
}
