// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/foodgram/cliparse"
	"github.com/danielhkuo/foodgram/db"
)

// NewRootCmd builds the foodgram command tree. Configuration flags are
// shared by every subcommand.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "foodgram",
		Short: "Recipe sharing API server",
		Long: `foodgram serves a recipe sharing API: users publish recipes built from
shared tags and ingredients, follow authors, keep favorites and a
shopping cart, and download a merged shopping list.`,
		SilenceUsage: true,
	}

	flags := cliparse.AddFlags(root.PersistentFlags())
	var cfg cliparse.Config
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = flags.Resolve()
		if err != nil {
			return err
		}
		level, err := cfg.SlogLevel()
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		return nil
	}

	config := func() cliparse.Config { return cfg }
	root.AddCommand(newServeCmd(config))
	root.AddCommand(newMigrateCmd(config))
	root.AddCommand(newSeedCmd(config))

	return root
}

// Execute runs the root command until it finishes or the process is
// interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB connects and brings the schema up to date
func openDB(ctx context.Context, cfg cliparse.Config) (*sqlx.DB, error) {
	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("database schema ready", "type", cfg.DatabaseType)
	return conn, nil
}
