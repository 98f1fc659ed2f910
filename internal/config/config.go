package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"quick-sums/internal/domain"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Game GameConfig `yaml:"game"`
	Log  struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`
}

// GameConfig holds the quiz tunables. Durations are Go duration strings.
type GameConfig struct {
	Players           int    `yaml:"players"`
	QuestionsPerLevel int    `yaml:"questions_per_level"`
	InitialTimeLimit  string `yaml:"initial_time_limit"`
	TimeLimitStep     string `yaml:"time_limit_step"`
	MinTimeLimit      string `yaml:"min_time_limit"`
	PointsPerAnswer   int    `yaml:"points_per_answer"`
	OperandMin        int    `yaml:"operand_min"`
	OperandMax        int    `yaml:"operand_max"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{
		Game: GameConfig{
			Players:           5,
			QuestionsPerLevel: 5,
			InitialTimeLimit:  "10s",
			TimeLimitStep:     "2s",
			MinTimeLimit:      "2s",
			PointsPerAnswer:   100,
			OperandMin:        1,
			OperandMax:        50,
		},
	}
	cfg.Log.Level = "warn"
	cfg.Cache.TTL = "30s"
	return cfg
}

// Load reads YAML config from path on top of Default, then applies env overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.URL = v
	}
}

// Validate rejects game settings the quiz loop cannot run with.
func (c Config) Validate() error {
	g := c.Game
	switch {
	case g.Players < 1:
		return fmt.Errorf("%w: game.players must be at least 1", domain.ErrInvalidConfig)
	case g.QuestionsPerLevel < 1:
		return fmt.Errorf("%w: game.questions_per_level must be at least 1", domain.ErrInvalidConfig)
	case g.OperandMin > g.OperandMax:
		return fmt.Errorf("%w: game.operand_min > game.operand_max", domain.ErrInvalidConfig)
	case g.PointsPerAnswer < 0:
		return fmt.Errorf("%w: game.points_per_answer must not be negative", domain.ErrInvalidConfig)
	}
	for name, raw := range map[string]string{
		"game.initial_time_limit": g.InitialTimeLimit,
		"game.time_limit_step":    g.TimeLimitStep,
		"game.min_time_limit":     g.MinTimeLimit,
		"cache.ttl":               c.Cache.TTL,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, name, err)
		}
	}
	return nil
}

// Duration parses a duration string or returns the fallback if empty.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
