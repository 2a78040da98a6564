package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/scripture"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/config"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/services"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/logger"
)

type rootOptions struct {
	Timeout time.Duration
	Debug   bool
	cfg     *config.Config
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Seed reference data and user progress",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadStore()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return logger.Init(logger.Config{Debug: opts.Debug || cfg.LogDebug, File: cfg.LogFile})
		},
	}

	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", time.Minute, "overall deadline")
	cmd.PersistentFlags().BoolVarP(&opts.Debug, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newCatalogCommand(opts))
	cmd.AddCommand(newUserCommand(opts))

	return cmd
}

func newCatalogCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Fetch the 114-surah catalog and upsert it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), opts, func(ctx context.Context, db *sqlx.DB) error {
				client := scripture.NewClient(opts.cfg.ScriptureAPIURL, 30*time.Second)
				n, err := services.NewCatalogService(client, repository.NewPostgresCatalogRepository(db)).Seed(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d surahs\n", n)
				return nil
			})
		},
	}
}

func newUserCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Create missing progress rows for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			return withStore(cmd.Context(), opts, func(ctx context.Context, db *sqlx.DB) error {
				if _, err := repository.NewPostgresUserRepository(db).GetByID(ctx, userID); err != nil {
					return fmt.Errorf("user %s: %w", userID, err)
				}

				n, err := repository.NewPostgresProgressRepository(db).InitializeUser(ctx, userID)
				if err != nil {
					return err
				}
				if n == 0 {
					logger.Warn("No rows created; the user is complete or the catalog is empty", "user", userID, "surahs", domain.SurahCount)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d progress rows for %s\n", n, userID)
				return nil
			})
		},
	}
}

func withStore(parent context.Context, opts *rootOptions, fn func(ctx context.Context, db *sqlx.DB) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, opts.Timeout)
	defer cancel()

	db, err := repository.Connect(ctx, opts.cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		return err
	}
	return fn(ctx, db)
}
