package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/infrastructure/config"
	"github.com/hotelbooking/reservation-client/pkg/logger"
)

var (
	apiURL   string
	logLevel string

	cfg     *config.Config
	rootLog zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reservation",
	Short: "Hotel reservation client and local gateway",
	Long: `A client for the hotel reservation service. Sign in once and every later
invocation, including the local gateway started with "serve", shares the session.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Reservation backend base URL (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (overrides LOG_LEVEL)")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if apiURL != "" {
		c.API.BaseURL = apiURL
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	cfg = c
	rootLog = logger.Init(logger.Options{
		Level:   c.LogLevel,
		Pretty:  c.IsDevelopment(),
		Service: "reservation-client",
	})
	return nil
}

// describe turns an error into the line shown to the person at the terminal.
func describe(err error) string {
	var (
		refreshErr *domain.RefreshError
		valErr     *domain.ValidationError
		appErr     *domain.ApplicationError
		netErr     *domain.NetworkError
	)
	switch {
	case errors.As(err, &refreshErr),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrNotAuthenticated):
		return "not signed in or the session expired, run `reservation login`"
	case errors.As(err, &valErr), errors.As(err, &appErr), errors.As(err, &netErr):
		return domain.FailureReason(err)
	default:
		return err.Error()
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
