package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the record store backend.
type StoreConfig struct {
	Driver      string     `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	DatabaseURL string     `yaml:"database_url" mapstructure:"database_url"`
	Pool        PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig holds optional Postgres connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the report API server.
type ServerConfig struct {
	Port            int     `yaml:"port" mapstructure:"port"`
	ShareTTLHours   int     `yaml:"share_ttl_hours" mapstructure:"share_ttl_hours"`
	ShareRatePerMin float64 `yaml:"share_rate_per_min" mapstructure:"share_rate_per_min"`
}

// CatalogConfig configures metric catalog loading.
type CatalogConfig struct {
	// OverridesPath points to an optional YAML file with per-tenant
	// threshold overrides. Empty means the canonical table.
	OverridesPath string `yaml:"overrides_path" mapstructure:"overrides_path"`
}

// ScoringConfig allows deployments to override the canonical weight
// tables. Empty maps and zero category weights fall back to defaults.
type ScoringConfig struct {
	AirWeights      map[string]float64 `yaml:"air_weights" mapstructure:"air_weights"`
	WaterWeights    map[string]float64 `yaml:"water_weights" mapstructure:"water_weights"`
	EtherWeights    map[string]float64 `yaml:"ether_weights" mapstructure:"ether_weights"`
	CategoryWeights struct {
		Air   float64 `yaml:"air" mapstructure:"air"`
		Water float64 `yaml:"water" mapstructure:"water"`
		Ether float64 `yaml:"ether" mapstructure:"ether"`
	} `yaml:"category_weights" mapstructure:"category_weights"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ASSESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "assess.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.share_ttl_hours", 168)
	v.SetDefault("server.share_rate_per_min", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
