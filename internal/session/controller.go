// Package session owns the admin session: which token is active, whether it has expired and
// whether the user still has to acknowledge that. Presentation code only reads State and calls
// the transition methods.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-site/internal/tokenclock"
)

// DefaultCheckInterval is how often an authenticated session re-checks its token.
const DefaultCheckInterval = 60 * time.Second

// ErrTokenExpired is returned by Login for expired or malformed tokens.
var ErrTokenExpired = errors.New("session: token expired or malformed")

// Mode is one of the three session states.
type Mode int

const (
	Unauthenticated Mode = iota
	Authenticated
	ExpiredPending
)

func (m Mode) String() string {
	switch m {
	case Authenticated:
		return "authenticated"
	case ExpiredPending:
		return "expired"
	default:
		return "unauthenticated"
	}
}

// State is a snapshot of the session.
type State struct {
	Mode                 Mode
	Token                string
	IsExpired            bool
	ShowExpirationPrompt bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithCheckInterval sets the expiry ticker period.
func WithCheckInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the logger used for transitions and store failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller is the session state machine. Create one per process and pass it to whatever
// needs it; all methods are safe for concurrent use.
type Controller struct {
	store    Store
	now      func() time.Time
	interval time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	state     State
	observers []func(State)

	base   context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a controller in the Unauthenticated state. Call Restore to pick up a persisted token.
func New(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		now:      time.Now,
		interval: DefaultCheckInterval,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Token returns the bearer token while authenticated, otherwise an empty string.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Mode != Authenticated {
		return ""
	}
	return c.state.Token
}

// Remaining is the time left on the active token.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Mode != Authenticated {
		return 0
	}
	return tokenclock.Remaining(c.state.Token, c.now())
}

// Subscribe registers fn to receive every new state. fn runs on the goroutine that caused the
// transition and must not call back into the controller synchronously.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Login activates token. Expired or malformed tokens are rejected and leave the state untouched.
func (c *Controller) Login(token string) error {
	c.mu.Lock()
	if tokenclock.IsExpired(token, c.now()) {
		c.mu.Unlock()
		c.logger.Info("rejected expired token at login")
		return ErrTokenExpired
	}
	if err := c.store.Save(token); err != nil {
		c.logger.Warn("persisting session token failed", zap.Error(err))
	}
	c.state = State{Mode: Authenticated, Token: token}
	c.startTickerLocked()
	c.unlockAndNotify("login")
	return nil
}

// Restore reads the persisted token at startup. A stale token is purged and reported as
// ExpiredPending so the user is told their session ended.
func (c *Controller) Restore() error {
	token, err := c.store.Load()
	if err != nil {
		c.logger.Warn("loading session token failed", zap.Error(err))
	}

	c.mu.Lock()
	switch {
	case token == "":
		c.state = State{Mode: Unauthenticated}
	case tokenclock.IsExpired(token, c.now()):
		c.purgeLocked()
		c.state = State{Mode: ExpiredPending, IsExpired: true, ShowExpirationPrompt: true}
	default:
		c.state = State{Mode: Authenticated, Token: token}
		c.startTickerLocked()
	}
	c.unlockAndNotify("restore")
	return err
}

// CheckExpiry moves an authenticated session whose token has run out to ExpiredPending. It is
// what the ticker calls; calling it directly is fine.
func (c *Controller) CheckExpiry() {
	c.mu.Lock()
	if c.state.Mode != Authenticated || !tokenclock.IsExpired(c.state.Token, c.now()) {
		c.mu.Unlock()
		return
	}
	c.stopTickerLocked()
	c.purgeLocked()
	c.state = State{Mode: ExpiredPending, IsExpired: true, ShowExpirationPrompt: true}
	c.unlockAndNotify("expired")
}

// Logout ends the session from any state.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.stopTickerLocked()
	c.purgeLocked()
	c.state = State{Mode: Unauthenticated}
	c.unlockAndNotify("logout")
}

// HandleUnauthorized is called when the backend rejects the token. The server is authoritative,
// so this logs out regardless of what the local clock says.
func (c *Controller) HandleUnauthorized() {
	c.logger.Info("backend rejected session token")
	c.Logout()
}

// ContinueWithExpiredToken dismisses the expiry prompt. It returns true when the caller should
// present the login form again; the old token is never reused.
func (c *Controller) ContinueWithExpiredToken() bool {
	return c.leaveExpired("continue")
}

// ReturnToMain dismisses the expiry prompt without offering a new login.
func (c *Controller) ReturnToMain() {
	c.leaveExpired("return")
}

func (c *Controller) leaveExpired(reason string) bool {
	c.mu.Lock()
	if c.state.Mode != ExpiredPending {
		c.mu.Unlock()
		return false
	}
	c.state = State{Mode: Unauthenticated}
	c.unlockAndNotify(reason)
	return true
}

// Start runs the expiry ticker whenever the session is authenticated, until ctx is done or
// Stop is called.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = ctx
	if c.state.Mode == Authenticated {
		c.startTickerLocked()
	}
}

// Stop cancels the ticker and waits for it to exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	done := c.done
	c.stopTickerLocked()
	c.base = nil
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (c *Controller) startTickerLocked() {
	if c.base == nil || c.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(c.base)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	go c.run(ctx, done)
}

func (c *Controller) stopTickerLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel, c.done = nil, nil
	}
}

func (c *Controller) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckExpiry()
		}
	}
}

func (c *Controller) purgeLocked() {
	if err := c.store.Clear(); err != nil {
		c.logger.Warn("clearing session token failed", zap.Error(err))
	}
}

// unlockAndNotify releases the lock and publishes the new state to observers.
func (c *Controller) unlockAndNotify(reason string) {
	state := c.state
	observers := append([]func(State){}, c.observers...)
	c.mu.Unlock()

	c.logger.Info("session state changed", zap.String("reason", reason), zap.Stringer("mode", state.Mode))
	for _, fn := range observers {
		fn(state)
	}
}
