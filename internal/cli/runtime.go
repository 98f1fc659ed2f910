package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"quick-sums/internal/app"
	"quick-sums/internal/config"
	"quick-sums/internal/infra/memory"
	pgstore "quick-sums/internal/infra/postgres"
	pgmigrations "quick-sums/internal/infra/postgres/migrations"
	redisstore "quick-sums/internal/infra/redis"
	"quick-sums/internal/metrics"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// loadRuntime reads the config and builds the stderr logger every command shares.
func loadRuntime(path, levelFlag string) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	level := cfg.Log.Level
	if levelFlag != "" {
		level = levelFlag
	}
	logger, err := newLogger(os.Stderr, level)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func storeConfigured(cfg config.Config) bool {
	return cfg.Postgres.URL != "" || cfg.Redis.Addr != ""
}

// stores bundles the hall-of-fame backends opened for a command.
type stores struct {
	store app.ScoreStore
	cache *memory.CachedStore
	feed  *redisstore.RoundFeed

	closers []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores picks Postgres when configured, then Redis, then memory. When both are
// configured, Postgres keeps the scores and Redis only carries round notifications.
func openStores(ctx context.Context, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) (*stores, error) {
	s := &stores{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func() { _ = redisClient.Close() })
		if err := redisClient.Ping(ctx).Err(); err != nil {
			s.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		s.feed = redisstore.NewRoundFeed(redisClient)
	}

	switch {
	case cfg.Postgres.URL != "":
		if err := pgmigrations.Apply(ctx, cfg.Postgres.URL, logger); err != nil {
			s.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		s.cache = memory.NewCachedStore(pgstore.NewScoreStore(pool), config.Duration(cfg.Cache.TTL, 30*time.Second), m)
		s.store = s.cache
		logger.Info("hall of fame backed by postgres")
	case redisClient != nil:
		s.store = redisstore.NewScoreStore(redisClient, logger)
		logger.Info("hall of fame backed by redis", slog.String("addr", cfg.Redis.Addr))
	default:
		s.store = memory.NewScoreStore()
		logger.Warn("no score store configured; hall of fame lives in memory only")
	}
	return s, nil
}

func (s *stores) notifier() app.Notifier {
	if s.feed == nil {
		return nil
	}
	return s.feed
}
