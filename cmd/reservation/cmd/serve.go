package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hotelbooking/reservation-client/internal/api"
)

const shutdownTimeout = 10 * time.Second

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local reservation gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, rootLog, true)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		addr := cfg.ListenAddr
		if listenAddr != "" {
			addr = listenAddr
		}

		server := &http.Server{
			Addr:              addr,
			Handler:           api.NewRouter(a.routerDeps()),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		rootLog.Info().
			Str("addr", addr).
			Str("backend", cfg.API.BaseURL).
			Str("credential_store", cfg.Credential.Store).
			Bool("journal", cfg.JournalEnabled()).
			Msg("gateway listening")

		select {
		case <-ctx.Done():
			rootLog.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Address to listen on (overrides LISTEN_ADDR)")
}
