package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-site/internal/gateway"
	"github.com/spec-kit/restaurant-site/internal/session"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				p, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = p
			}
			if password == "" {
				password = os.Getenv("SITE_ADMIN_PASSWORD")
			}
			return a.login(cmd.Context(), email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", os.Getenv("SITE_ADMIN_EMAIL"), "Admin email (default from SITE_ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (default from SITE_ADMIN_PASSWORD)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) login(ctx context.Context, email, password string) error {
	if a.session.State().Mode == session.ExpiredPending {
		a.session.ContinueWithExpiredToken()
	}

	token, err := a.api.Login(ctx, email, password)
	if err != nil {
		return a.explain(err)
	}
	if err := a.session.Login(token); err != nil {
		if errors.Is(err, session.ErrTokenExpired) {
			return errors.New("the server issued a token that is already expired; check the system clock")
		}
		return err
	}

	remaining := a.session.Remaining()
	a.print(
		fmt.Sprintf("%s  session valid for %s", okStyle.Render("logged in"), formatCountdown(remaining)),
		map[string]any{"mode": session.Authenticated.String(), "expiresInSeconds": int(remaining.Seconds())},
	)
	return nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.session.State().Mode == session.Authenticated {
				if err := a.api.Logout(cmd.Context()); err != nil && !errors.Is(err, gateway.ErrUnauthorized) {
					a.logger.Warn("server side logout failed", zap.Error(err))
				}
			}
			a.session.Logout()
			a.print("logged out", map[string]any{"mode": session.Unauthenticated.String()})
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active and when it expires",
		RunE: func(*cobra.Command, []string) error {
			state := a.session.State()
			remaining := a.session.Remaining()
			a.print(formatSession(state, remaining), map[string]any{
				"mode":             state.Mode.String(),
				"isExpired":        state.IsExpired,
				"expiresInSeconds": int(remaining.Seconds()),
				"sessionFile":      a.store.Path(),
				"apiUrl":           a.api.BaseURL(),
			})
			if state.Mode == session.ExpiredPending {
				a.session.ReturnToMain()
			}
			return nil
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show a live countdown until the session expires",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return a.watch(ctx, time.Second)
		},
	}
}

// watch prints the countdown every refresh until the session ends or ctx is done. Expiry itself
// is detected by the controller's own ticker.
func (a *app) watch(ctx context.Context, refresh time.Duration) error {
	ended := make(chan session.State, 1)
	a.session.Subscribe(func(s session.State) {
		if s.Mode != session.Authenticated {
			select {
			case ended <- s:
			default:
			}
		}
	})
	a.session.Start(ctx)
	defer a.session.Stop()

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()
	fmt.Fprintf(a.out, "session expires in %s\n", formatCountdown(a.session.Remaining()))
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-ended:
			if s.Mode == session.ExpiredPending {
				fmt.Fprintln(a.out, expiredPrompt())
				a.session.ReturnToMain()
				return nil
			}
			fmt.Fprintln(a.out, "logged out")
			return nil
		case <-ticker.C:
			fmt.Fprintf(a.out, "session expires in %s\n", formatCountdown(a.session.Remaining()))
		}
	}
}
