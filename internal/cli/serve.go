package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quick-sums/internal/app"
	"quick-sums/internal/metrics"
	transport "quick-sums/internal/transport/http"

	"github.com/spf13/cobra"
)

// NewServeCmd builds the CLI subcommand to serve the hall of fame.
func NewServeCmd(configPath, logLevel *string) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the hall of fame over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *logLevel, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (default: config server.port, then 8080)")
	return cmd
}

func runServer(ctx context.Context, configPath, logLevel, portFlag string) error {
	cfg, logger, err := loadRuntime(configPath, logLevel)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()
	s, err := openStores(ctx, cfg, m, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	hall := app.NewHallOfFame(s.store, nil, m, logger)
	if s.feed != nil {
		go watchRounds(ctx, s, hall, logger)
	}

	mux := http.NewServeMux()
	transport.NewHandler(hall, m, logger).Routes(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting hall of fame server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", slog.Any("error", err))
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		logger.Info("shutting down server...")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

// watchRounds refreshes live subscribers whenever a play process records a round.
func watchRounds(ctx context.Context, s *stores, hall *app.HallOfFame, logger *slog.Logger) {
	err := s.feed.Watch(ctx, func(ctx context.Context, roundID string) {
		if s.cache != nil {
			s.cache.Invalidate()
		}
		if err := hall.Publish(ctx); err != nil {
			logger.Warn("leaderboard refresh failed", slog.String("round_id", roundID), slog.Any("error", err))
			return
		}
		logger.Debug("leaderboard refreshed", slog.String("round_id", roundID))
	})
	if err != nil {
		logger.Error("round feed stopped", slog.Any("error", err))
	}
}
