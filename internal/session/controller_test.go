package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_750_000_000, 0)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func stored(t *testing.T, store Store) string {
	t.Helper()
	token, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return token
}

func TestLogin_ValidTokenSurvivesReload(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	token := tokenExpiringAt(t, clock.Now().Add(time.Hour))

	c := New(store, WithClock(clock.Now))
	if err := c.Login(token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.State(); got.Mode != Authenticated || got.Token != token || got.ShowExpirationPrompt {
		t.Fatalf("unexpected state %+v", got)
	}
	if stored(t, store) != token {
		t.Error("token must be persisted")
	}

	reloaded := New(store, WithClock(clock.Now))
	if err := reloaded.Restore(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.State().Mode != Authenticated || reloaded.Token() != token {
		t.Errorf("reload must restore the session, got %+v", reloaded.State())
	}
}

func TestLogin_RejectsExpiredAndMalformed(t *testing.T) {
	clock := newFakeClock()
	for name, token := range map[string]string{
		"expired":   tokenExpiringAt(t, clock.Now().Add(-time.Second)),
		"at expiry": tokenExpiringAt(t, clock.Now()),
		"malformed": "not.a-token",
	} {
		t.Run(name, func(t *testing.T) {
			store := NewMemoryStore()
			c := New(store, WithClock(clock.Now))
			before := c.State()

			if err := c.Login(token); !errors.Is(err, ErrTokenExpired) {
				t.Fatalf("expected ErrTokenExpired, got %v", err)
			}
			if c.State() != before {
				t.Errorf("state must not change, got %+v", c.State())
			}
			if stored(t, store) != "" {
				t.Error("rejected token must not be stored")
			}
		})
	}
}

func TestLogin_RejectedTokenKeepsExistingSession(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	good := tokenExpiringAt(t, clock.Now().Add(time.Hour))
	c := New(store, WithClock(clock.Now))
	_ = c.Login(good)

	if err := c.Login(tokenExpiringAt(t, clock.Now().Add(-time.Hour))); err == nil {
		t.Fatal("expected rejection")
	}
	if c.Token() != good || stored(t, store) != good {
		t.Error("the active session must survive a rejected login")
	}
}

func TestRestore_StaleTokenIsPurged(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	_ = store.Save(tokenExpiringAt(t, clock.Now().Add(-time.Minute)))

	c := New(store, WithClock(clock.Now))
	_ = c.Restore()

	got := c.State()
	if got.Mode != ExpiredPending || !got.IsExpired || !got.ShowExpirationPrompt || got.Token != "" {
		t.Fatalf("unexpected state %+v", got)
	}
	if stored(t, store) != "" {
		t.Error("stale token must be purged on restore")
	}
	if c.Token() != "" {
		t.Error("expired sessions expose no token")
	}

	if !c.ContinueWithExpiredToken() {
		t.Error("continue must ask for the login form")
	}
	if got := c.State(); got.Mode != Unauthenticated || got.ShowExpirationPrompt {
		t.Errorf("unexpected state after continue %+v", got)
	}
	if c.ContinueWithExpiredToken() {
		t.Error("continue outside ExpiredPending is a no-op")
	}
}

func TestRestore_NothingStored(t *testing.T) {
	c := New(NewMemoryStore())
	if err := c.Restore(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State().Mode != Unauthenticated {
		t.Errorf("expected unauthenticated, got %s", c.State().Mode)
	}
}

func TestCheckExpiry(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	c := New(store, WithClock(clock.Now))
	_ = c.Login(tokenExpiringAt(t, clock.Now().Add(2*time.Minute)))

	clock.Advance(time.Minute)
	c.CheckExpiry()
	if c.State().Mode != Authenticated {
		t.Fatal("token is still valid")
	}

	clock.Advance(time.Minute)
	c.CheckExpiry()
	got := c.State()
	if got.Mode != ExpiredPending || !got.ShowExpirationPrompt {
		t.Fatalf("expected ExpiredPending with prompt, got %+v", got)
	}
	if stored(t, store) != "" || got.Token != "" {
		t.Error("expiry must purge the token")
	}

	c.ReturnToMain()
	if got := c.State(); got.Mode != Unauthenticated || got.ShowExpirationPrompt {
		t.Errorf("unexpected state after return %+v", got)
	}
}

func TestLogoutAndUnauthorized(t *testing.T) {
	clock := newFakeClock()
	for name, end := range map[string]func(*Controller){
		"logout":       (*Controller).Logout,
		"unauthorized": (*Controller).HandleUnauthorized,
	} {
		t.Run(name, func(t *testing.T) {
			store := NewMemoryStore()
			c := New(store, WithClock(clock.Now))
			_ = c.Login(tokenExpiringAt(t, clock.Now().Add(time.Hour)))

			end(c)
			if c.State() != (State{Mode: Unauthenticated}) {
				t.Errorf("unexpected state %+v", c.State())
			}
			if stored(t, store) != "" {
				t.Error("token must be purged")
			}
		})
	}
}

func TestUnauthorizedOverridesExpiredPending(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	_ = store.Save(tokenExpiringAt(t, clock.Now().Add(-time.Minute)))
	c := New(store, WithClock(clock.Now))
	_ = c.Restore()

	c.HandleUnauthorized()
	if got := c.State(); got.Mode != Unauthenticated || got.ShowExpirationPrompt {
		t.Errorf("unexpected state %+v", got)
	}
}

func TestTickerDetectsExpiry(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	c := New(store, WithClock(clock.Now), WithCheckInterval(5*time.Millisecond))

	expired := make(chan State, 1)
	c.Subscribe(func(s State) {
		if s.Mode == ExpiredPending {
			expired <- s
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)
	defer c.Stop()

	_ = c.Login(tokenExpiringAt(t, clock.Now().Add(time.Minute)))
	clock.Advance(2 * time.Minute)

	select {
	case s := <-expired:
		if !s.ShowExpirationPrompt {
			t.Error("expected the expiration prompt")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not detect expiry")
	}
}

func TestStopWithoutStart(t *testing.T) {
	c := New(NewMemoryStore())
	c.Stop()
	c.Logout()
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	clock := newFakeClock()
	c := New(NewMemoryStore(), WithClock(clock.Now))
	var modes []Mode
	c.Subscribe(func(s State) { modes = append(modes, s.Mode) })

	_ = c.Login(tokenExpiringAt(t, clock.Now().Add(time.Hour)))
	c.Logout()

	if len(modes) != 2 || modes[0] != Authenticated || modes[1] != Unauthenticated {
		t.Errorf("unexpected transitions %v", modes)
	}
}

type brokenStore struct{}

func (brokenStore) Load() (string, error) { return "", errors.New("disk on fire") }
func (brokenStore) Save(string) error { return errors.New("disk on fire") }
func (brokenStore) Clear() error { return errors.New("disk on fire") }

func TestStoreFailuresDoNotBlockTransitions(t *testing.T) {
	clock := newFakeClock()
	c := New(brokenStore{}, WithClock(clock.Now))

	if err := c.Restore(); err == nil {
		t.Error("expected the load error to be reported")
	}
	if c.State().Mode != Unauthenticated {
		t.Error("unreadable store means no session")
	}
	if err := c.Login(tokenExpiringAt(t, clock.Now().Add(time.Hour))); err != nil {
		t.Fatalf("login must not fail on store errors: %v", err)
	}
	c.Logout()
	if c.State().Mode != Unauthenticated {
		t.Error("logout must always succeed")
	}
}

func TestRemaining(t *testing.T) {
	clock := newFakeClock()
	c := New(NewMemoryStore(), WithClock(clock.Now))
	if c.Remaining() != 0 {
		t.Error("no session, no time")
	}
	_ = c.Login(tokenExpiringAt(t, clock.Now().Add(90*time.Second)))
	if got := c.Remaining(); got != 90*time.Second {
		t.Errorf("expected 90s, got %s", got)
	}
}
