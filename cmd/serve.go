// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/foodgram/cliparse"
	"github.com/danielhkuo/foodgram/router"
)

// ShutdownTimeout bounds how long in-flight requests may run after a signal
const ShutdownTimeout = 10 * time.Second

func newServeCmd(config func() cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config())
		},
	}
}

func serve(ctx context.Context, cfg cliparse.Config) error {
	conn, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	server := &http.Server{
		Handler:           router.NewRouter(conn, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("listening", "port", cfg.Port, "media_dir", cfg.MediaDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	slog.Info("server closed", "error", err)
	return err
}
