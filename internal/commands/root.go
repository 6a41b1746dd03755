package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/plata-app/plata-core/internal/core/domain"
	"github.com/plata-app/plata-core/internal/core/services"
	"github.com/plata-app/plata-core/internal/platform/config"
	"github.com/plata-app/plata-core/internal/platform/logging"
	"github.com/plata-app/plata-core/internal/repositories/database/pgsql"
	"github.com/plata-app/plata-core/pkg/database"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "platacore",
		Short: "Personal multi-currency double-entry ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newTransactionsCommand())
	rootCmd.AddCommand(newSnapshotCommand())
	rootCmd.AddCommand(newCloseCommand())
	rootCmd.AddCommand(newRevalueCommand())

	return rootCmd
}

// app bundles everything a subcommand needs to run against the database.
type app struct {
	ctx      context.Context
	cfg      *config.Config
	services *services.Container
	close    func()
}

// newApp loads config, connects the PostgreSQL pool and wires the service
// container. The returned close func releases the pool.
func newApp(ctx context.Context) (*app, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	repos := pgsql.NewRepositoryProvider(pool)
	container, err := services.NewContainer(repos, domain.DefaultRegistry(), services.Options{
		BaseCurrencyCode:          cfg.BaseCurrencyCode,
		FxGainLossAccountCode:     cfg.FxGainLossAccountCode,
		RevaluationThresholdMinor: cfg.RevaluationThresholdMinor,
		Actor:                     cfg.Actor,
	})
	if err != nil {
		database.ClosePgxPool(pool)
		return nil, fmt.Errorf("wiring services: %w", err)
	}

	return &app{
		ctx:      ctx,
		cfg:      cfg,
		services: container,
		close:    func() { database.ClosePgxPool(pool) },
	}, nil
}
