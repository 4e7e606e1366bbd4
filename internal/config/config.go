// Package config loads the cadence CLI configuration from a file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/cadence/pkg/scoring"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CADENCE_TICK_PERIOD.
const EnvPrefix = "CADENCE"

// Config is the full CLI configuration.
type Config struct {
	Tick    TickConfig     `mapstructure:"tick"`
	Scoring scoring.Config `mapstructure:"scoring"`
	HTTP    HTTPConfig     `mapstructure:"http"`
	Redis   RedisConfig    `mapstructure:"redis"`
	Log     LogConfig      `mapstructure:"log"`
}

type TickConfig struct {
	Period time.Duration `mapstructure:"period"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// RedisConfig configures the flag publisher. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
	Channel  string `mapstructure:"channel"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// Format is "text" or "json".
	Format string `mapstructure:"format"`
}

// SlogLevel parses Level. Unknown values fall back to INFO.
func (c LogConfig) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func setDefaults(v *viper.Viper) {
	sc := scoring.DefaultConfig()
	v.SetDefault("tick.period", 20*time.Millisecond)
	v.SetDefault("scoring.score_time", sc.ScoreTime)
	v.SetDefault("scoring.auton_score_time", sc.AutonScoreTime)
	v.SetDefault("scoring.twist_at_reef_delay", sc.TwistAtReefDelay)
	v.SetDefault("scoring.score_after_align", sc.ScoreAfterAlign)
	v.SetDefault("scoring.auton_score_after_align", sc.AutonScoreAfterAlign)
	v.SetDefault("scoring.action_prep_to_action", sc.ActionPrepToAction)
	v.SetDefault("scoring.disable_clear_window", sc.DisableClearWindow)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "cadence:")
	v.SetDefault("redis.channel", "cadence:flags")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration.
//
// When path is empty, cadence.yaml or cadence.toml is looked up in the
// working directory and a missing file is not an error. Environment variables
// prefixed with CADENCE_ override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("cadence")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Tick.Period <= 0 {
		return nil, fmt.Errorf("tick.period must be positive, got %s", cfg.Tick.Period)
	}
	return &cfg, nil
}
