// Package session owns the signed-in state of the client: the bearer
// token, the cached user and the theme preference.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/custodykeeper/internal/api"
	"github.com/dukerupert/custodykeeper/internal/model"
	"github.com/dukerupert/custodykeeper/internal/secure"
	"github.com/dukerupert/custodykeeper/internal/store"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotSignedIn       = errors.New("not signed in")
	ErrTwoFactorRequired = errors.New("two-factor code required")
)

// Manager is created once per process and passed to whatever needs the
// session. Init must run before use and Logout tears the session down.
type Manager struct {
	mu     sync.RWMutex
	token  string
	user   *model.User
	theme  model.Theme
	signal chan struct{} // closed and replaced on every sign-in change

	state    *store.StateStore
	sealer   *secure.Sealer
	client   *api.Client
	logger   *slog.Logger
	now      func() time.Time
	onLogout []func()
}

// NewManager creates a signed-out Manager. Call Init to restore a stored
// session.
func NewManager(state *store.StateStore, sealer *secure.Sealer, client *api.Client, logger *slog.Logger) *Manager {
	return &Manager{
		theme:  model.ThemeLight,
		signal: make(chan struct{}),
		state:  state,
		sealer: sealer,
		client: client,
		logger: logger.With("component", "session"),
		now:    time.Now,
	}
}

// OnLogout registers fn to run after credentials are cleared, whether by
// Logout or by a rejected token.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	m.onLogout = append(m.onLogout, fn)
	m.mu.Unlock()
}

// Init restores the persisted session. A stored token is checked against
// /auth/me and dropped, with the cached user, if that fails. Tokens whose
// exp has passed are dropped without a request.
func (m *Manager) Init(ctx context.Context) error {
	theme, err := m.state.Theme()
	if err != nil {
		return fmt.Errorf("load theme: %w", err)
	}
	m.mu.Lock()
	m.theme = theme
	m.mu.Unlock()

	raw, err := m.state.Get(store.KeyToken)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}

	token, err := m.sealer.Open(raw)
	if err != nil {
		m.logger.Warn("stored token unreadable, signing out", "error", err)
		return m.clear()
	}
	if m.expired(token) {
		m.logger.Info("stored token expired, signing out")
		return m.clear()
	}

	user, err := m.client.WithToken(token).Me(ctx)
	if err != nil {
		m.logger.Info("stored token rejected, signing out", "error", err)
		return m.clear()
	}

	if err := m.persist(token, *user); err != nil {
		return err
	}
	m.logger.Info("session restored", "user_id", user.UserID)
	return nil
}

// expired reads exp without verifying the signature; only the backend can
// verify it. Tokens that are not JWTs are left to the backend.
func (m *Manager) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !m.now().Before(exp.Time)
}

func (m *Manager) Login(ctx context.Context, in model.LoginInput) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	resp, err := m.client.Login(ctx, in)
	if err != nil {
		return nil, err
	}
	return m.establish(resp)
}

func (m *Manager) Register(ctx context.Context, in model.RegisterInput) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	resp, err := m.client.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return m.establish(resp)
}

// CompleteGoogleSession finishes a Google sign-in redirect.
func (m *Manager) CompleteGoogleSession(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, &model.ValidationError{Field: "session_id", Message: "Invalid authentication response"}
	}
	resp, err := m.client.GoogleSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return m.establish(resp)
}

// VerifyTwoFactor completes a login that returned ErrTwoFactorRequired.
func (m *Manager) VerifyTwoFactor(ctx context.Context, email, code string) (*model.User, error) {
	resp, err := m.client.VerifyTwoFactor(ctx, email, code)
	if err != nil {
		return nil, err
	}
	return m.establish(resp)
}

func (m *Manager) establish(resp *model.TokenResponse) (*model.User, error) {
	if resp.AccessToken == "" {
		if resp.RequiresTwoFactor {
			return nil, ErrTwoFactorRequired
		}
		return nil, fmt.Errorf("backend returned no access token")
	}
	if err := m.persist(resp.AccessToken, resp.User); err != nil {
		return nil, err
	}
	m.logger.Info("signed in", "user_id", resp.User.UserID)
	u := resp.User
	return &u, nil
}

func (m *Manager) persist(token string, user model.User) error {
	sealed, err := m.sealer.Seal(token)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}
	if err := m.state.SaveCredentials(sealed, user); err != nil {
		return err
	}

	m.mu.Lock()
	changed := m.token != token
	m.token = token
	m.user = &user
	if changed {
		m.notifyLocked()
	}
	m.mu.Unlock()
	return nil
}

// UpdateProfile saves the profile and refreshes the cached user.
func (m *Manager) UpdateProfile(ctx context.Context, in model.ProfileInput) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	client, err := m.Client()
	if err != nil {
		return nil, err
	}
	user, err := client.UpdateProfile(ctx, in)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()
	if err := m.persist(token, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the token and user. The theme is kept.
func (m *Manager) Logout() error {
	m.logger.Info("signed out")
	return m.clear()
}

// HandleUnauthorized drops the credentials after the backend rejected
// token. It is a no-op when token is no longer the current one, so a late
// 401 for an old token cannot sign out a newer session.
func (m *Manager) HandleUnauthorized(token string) {
	if token == "" {
		return
	}
	if err := m.clearIf(token); err != nil {
		m.logger.Error("clear credentials", "error", err)
	}
}

func (m *Manager) clear() error {
	return m.clearIf("")
}

// clearIf signs out when the current token is want, or unconditionally
// when want is empty.
func (m *Manager) clearIf(want string) error {
	m.mu.Lock()
	if want != "" && m.token != want {
		m.mu.Unlock()
		return nil
	}
	if want != "" {
		m.logger.Warn("token rejected by backend, signing out")
	}
	err := m.state.ClearCredentials()
	wasSignedIn := m.token != ""
	m.token = ""
	m.user = nil
	if wasSignedIn {
		m.notifyLocked()
	}
	hooks := append([]func(){}, m.onLogout...)
	m.mu.Unlock()

	if wasSignedIn {
		for _, fn := range hooks {
			fn()
		}
	}
	return err
}

func (m *Manager) notifyLocked() {
	close(m.signal)
	m.signal = make(chan struct{})
}

// Changed returns a channel closed on the next sign-in or sign-out.
func (m *Manager) Changed() <-chan struct{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.signal
}

func (m *Manager) SignedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

func (m *Manager) User() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return model.User{}, false
	}
	return *m.user, true
}

// Client returns an API client authenticated as the current user. A 401 on
// it signs the session out.
func (m *Manager) Client() (*api.Client, error) {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	return m.client.With(
		api.WithToken(token),
		api.WithUnauthorizedHandler(func() { m.HandleUnauthorized(token) }),
	), nil
}

// Public returns the unauthenticated API client.
func (m *Manager) Public() *api.Client {
	return m.client
}

func (m *Manager) Theme() model.Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

func (m *Manager) SetTheme(t model.Theme) error {
	if err := m.state.SetTheme(t); err != nil {
		return err
	}
	m.mu.Lock()
	m.theme = t
	m.mu.Unlock()
	return nil
}

func (m *Manager) ToggleTheme() (model.Theme, error) {
	next := m.Theme().Toggled()
	if err := m.SetTheme(next); err != nil {
		return m.Theme(), err
	}
	return next, nil
}
