// Package cli implements the site-admin command line console.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-site/internal/config"
	"github.com/spec-kit/restaurant-site/internal/gateway"
	"github.com/spec-kit/restaurant-site/internal/observability"
	"github.com/spec-kit/restaurant-site/internal/session"
)

// ErrNotLoggedIn is returned by admin commands without an active session.
var ErrNotLoggedIn = errors.New("not logged in; run `site-admin login` first")

// app carries what every command needs. It is built once per invocation by the root command.
type app struct {
	apiURL  string
	json    bool
	verbose bool

	cfg     *config.Config
	logger  *zap.Logger
	out     io.Writer
	store   *session.FileStore
	session *session.Controller
	api     *gateway.Client
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "site-admin",
		Short: "Admin console for the restaurant site",
		Long: `site-admin edits the restaurant site menu and metadata through the backend API.

Environment Variables:
  SITE_API_URL               Backend API URL (default: http://localhost:8080)
  SITE_SESSION_FILE          Where the session token is kept
  SITE_EXPIRY_CHECK_SECONDS  How often "session watch" re-checks expiry (default: 60)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Backend API URL (overrides SITE_API_URL)")
	root.PersistentFlags().BoolVar(&a.json, "json", false, "Output JSON instead of human-readable text")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log session and request details to stderr")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newWatchCmd(a),
		newMenuCmd(a),
		newCategoriesCmd(a),
		newItemsCmd(a),
		newRestaurantCmd(a),
		newImagesCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	logger, err := observability.NewCLILogger(config.LoggerConfig{Level: level})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = logger
	a.out = cmd.OutOrStdout()

	a.store = session.NewFileStore(cfg.Client.SessionFile)
	a.session = session.New(
		a.store,
		session.WithLogger(logger),
		session.WithCheckInterval(cfg.Client.ExpiryCheckInterval()),
	)
	if err := a.session.Restore(); err != nil {
		logger.Warn("could not read saved session", zap.Error(err))
	}

	url := a.apiURL
	if url == "" {
		url = cfg.Client.APIURL
	}
	a.api = gateway.New(url,
		gateway.WithTimeout(cfg.Client.Timeout()),
		gateway.WithTokenSource(a.session),
		gateway.WithUnauthorizedHandler(a.session.HandleUnauthorized),
	)
	return nil
}

// requireSession fails admin commands early when there is nothing to authenticate with.
func (a *app) requireSession() error {
	switch a.session.State().Mode {
	case session.Authenticated:
		return nil
	case session.ExpiredPending:
		fmt.Fprintln(a.out, expiredPrompt())
		a.session.ReturnToMain()
	}
	return ErrNotLoggedIn
}

// explain turns gateway errors into what the user should do next.
func (a *app) explain(err error) error {
	var validation *gateway.ValidationError
	var network *gateway.NetworkError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gateway.ErrUnauthorized):
		return errors.New("the server ended this session; run `site-admin login` again")
	case errors.As(err, &validation):
		return err
	case errors.As(err, &network):
		return fmt.Errorf("%w (check --api-url and retry)", err)
	}
	return err
}

func (a *app) print(human string, v any) {
	if a.json {
		fmt.Fprintln(a.out, formatJSON(v))
		return
	}
	fmt.Fprintln(a.out, human)
}
