package cli

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quick-sums/internal/app"
	"quick-sums/internal/arith"
	"quick-sums/internal/console"

	"github.com/spf13/cobra"
)

// NewPlayCmd plays one round on the terminal.
func NewPlayCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a round of quick sums on this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPlay(ctx, cmd, *configPath, *logLevel)
		},
	}
}

func runPlay(ctx context.Context, cmd *cobra.Command, configPath, logLevel string) error {
	cfg, logger, err := loadRuntime(configPath, logLevel)
	if err != nil {
		return err
	}

	var recorder app.Recorder
	if storeConfigured(cfg) {
		s, err := openStores(ctx, cfg, nil, logger)
		if err != nil {
			return err
		}
		defer s.Close()
		recorder = app.NewHallOfFame(s.store, s.notifier(), nil, logger)
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	game := app.NewGame(
		console.New(cmd.InOrStdin(), cmd.OutOrStdout()),
		arith.NewGenerator(rnd, cfg.Game.OperandMin, cfg.Game.OperandMax),
		app.SettingsFromConfig(cfg.Game),
		recorder,
		logger,
	)
	_, err = game.PlayRound(ctx)
	return err
}
