package cli

import (
	"context"
	"fmt"

	"quick-sums/internal/app"
	"quick-sums/internal/domain"

	"github.com/spf13/cobra"
)

// NewTopCmd prints the all-time best scores.
func NewTopCmd(configPath, logLevel *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the hall of fame",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(cmd.Context(), cmd, *configPath, *logLevel, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "number of scores to show")
	return cmd
}

func runTop(ctx context.Context, cmd *cobra.Command, configPath, logLevel string, limit int) error {
	cfg, logger, err := loadRuntime(configPath, logLevel)
	if err != nil {
		return err
	}
	if !storeConfigured(cfg) {
		return fmt.Errorf("top: %w (set redis.addr or postgres.url)", domain.ErrStoreNotConfigured)
	}
	s, err := openStores(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	lb, err := app.NewHallOfFame(s.store, nil, nil, logger).Top(ctx, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "--- HALL OF FAME (TOP %d) ---\n", limit)
	if len(lb.Entries) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		return nil
	}
	for i, e := range lb.Entries {
		fmt.Fprintf(out, "%d. %s - %d points (%s)\n", i+1, e.Name, e.Score, e.PlayedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
