package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
)

type whoamiView struct {
	Authenticated bool         `json:"authenticated"`
	UserID        string       `json:"userId,omitempty"`
	Role          string       `json:"role,omitempty"`
	Profile       *domain.User `json:"profile,omitempty"`
}

func sessionView(s domain.Session) whoamiView {
	return whoamiView{Authenticated: s.Authenticated(), UserID: s.UserID, Role: string(s.Role)}
}

var (
	loginUser     string
	loginPassword string
	whoamiRemote  bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			line, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			password = line
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runLogin(ctx, a, cmd.OutOrStdout(), loginUser, password)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the credential and forget the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runLogout(ctx, a)
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runWhoami(ctx, a, cmd.OutOrStdout(), whoamiRemote)
		})
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Replace the stored credential with a fresh one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.session.Refresh(ctx); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sessionView(a.session.Snapshot()))
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, refreshCmd)

	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "Account username or email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (read from stdin when omitted)")
	_ = loginCmd.MarkFlagRequired("username")

	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "Also fetch the profile from the backend")
}

// withApp runs fn against a freshly wired app and releases it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, rootLog, true)
	if err != nil {
		return err
	}
	defer a.close(context.WithoutCancel(ctx))
	return fn(ctx, a)
}

func runLogin(ctx context.Context, a *app, out io.Writer, username, password string) error {
	if username == "" || password == "" {
		return &domain.ValidationError{Field: "password", Message: "username and password are required", Err: domain.ErrMissingField}
	}
	token, err := a.client.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	if err := a.session.Login(ctx, token); err != nil {
		return err
	}
	return printJSON(out, sessionView(a.session.Snapshot()))
}

// runLogout revokes on the backend when possible and always clears locally.
func runLogout(ctx context.Context, a *app) error {
	if token := a.session.Token(); token != "" {
		if err := a.client.RevokeToken(ctx, token); err != nil {
			a.log.Warn().Err(err).Msg("credential revocation failed")
		}
	}
	a.session.Logout(ctx)
	return nil
}

func runWhoami(ctx context.Context, a *app, out io.Writer, remote bool) error {
	view := sessionView(a.session.Snapshot())
	if remote && view.Authenticated {
		profile, err := a.client.Me(ctx)
		if err != nil {
			return err
		}
		view.Profile = profile
	}
	return printJSON(out, view)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
