// Package config loads server settings from the environment.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-campaign/internal/errors"
)

// Repository backends
const (
	RepoMemory = "memory"
	RepoRedis  = "redis"
)

// Config holds every setting the server reads at startup. Command-line flags
// override these values.
type Config struct {
	Port int `env:"RPG_CAMPAIGN_PORT" envDefault:"50051"`

	// Repo selects the battle store: memory or redis
	Repo          string        `env:"RPG_CAMPAIGN_REPO" envDefault:"memory"`
	RedisAddrs    []string      `env:"RPG_CAMPAIGN_REDIS_ADDRS" envSeparator:"," envDefault:"localhost:6379"`
	RedisPassword string        `env:"RPG_CAMPAIGN_REDIS_PASSWORD"`
	RedisDB       int           `env:"RPG_CAMPAIGN_REDIS_DB" envDefault:"0"`
	RedisTLS      bool          `env:"RPG_CAMPAIGN_REDIS_TLS"`
	BattleTTL     time.Duration `env:"RPG_CAMPAIGN_BATTLE_TTL" envDefault:"24h"`

	// ContentPath replaces the built-in effect catalog when set
	ContentPath string `env:"RPG_CAMPAIGN_CONTENT_PATH"`

	// Seed makes every roll reproducible; zero draws a random seed
	Seed     uint64 `env:"RPG_CAMPAIGN_SEED" envDefault:"0"`
	Parallel bool   `env:"RPG_CAMPAIGN_PARALLEL"`
	Workers  int    `env:"RPG_CAMPAIGN_WORKERS" envDefault:"0"`

	LogLevel  string `env:"RPG_CAMPAIGN_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"RPG_CAMPAIGN_LOG_FORMAT" envDefault:"text"`

	ShutdownTimeout time.Duration `env:"RPG_CAMPAIGN_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Port < 0 || c.Port > 65535 {
		vb.Field("Port", "must be between 0 and 65535")
	}
	errors.ValidateEnum("Repo", c.Repo, []string{RepoMemory, RepoRedis}, vb)
	if c.Repo == RepoRedis && len(c.RedisAddrs) == 0 {
		vb.Field("RedisAddrs", "at least one address is required for the redis repository")
	}
	if c.BattleTTL < 0 {
		vb.Field("BattleTTL", "must not be negative")
	}
	if c.Workers < 0 {
		vb.Field("Workers", "must not be negative")
	}
	if _, err := c.SlogLevel(); err != nil {
		vb.Field("LogLevel", err.Error())
	}
	errors.ValidateEnum("LogFormat", c.LogFormat, []string{"text", "json"}, vb)

	return vb.Build()
}

// SlogLevel parses LogLevel
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, errors.InvalidArgumentf("unknown log level %q", c.LogLevel)
	}
	return level, nil
}
