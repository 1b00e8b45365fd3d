package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ProfileCallback receives the result of GetProfile exactly once.
type ProfileCallback func(profile *Profile, err error)

// Manager ties the provider, the session store and the application's
// navigation together.
type Manager struct {
	cfg      Config
	provider Provider
	store    *Store
	nav      Navigator
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time

	profileLock sync.RWMutex
	profile     *Profile
}

type Option func(*Manager)

// WithNotifier shows callback errors to the user in addition to logging them.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(cfg Config, provider Provider, store *Store, nav Navigator, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("[session NewManager] %w", err)
	}
	if provider == nil {
		return nil, errors.New("[session NewManager] provider is required")
	}
	if store == nil {
		return nil, errors.New("[session NewManager] store is required")
	}
	if nav == nil {
		return nil, errors.New("[session NewManager] navigator is required")
	}

	m := &Manager{
		cfg:      cfg,
		provider: provider,
		store:    store,
		nav:      nav,
		logger:   log.Logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Login redirects to the provider. Local state is not touched; a login that
// goes wrong at the provider shows up later as a callback error.
func (m *Manager) Login(ctx context.Context) error {
	if err := m.provider.Authorize(ctx); err != nil {
		m.logger.Error().Err(err).Msg("authorize redirect failed")
		return fmt.Errorf("[session Login] %w", err)
	}
	return nil
}

// HandleAuthentication processes the provider's redirect back to the
// application.
//
// On success the session record is written and the post-login route is
// shown. On a provider error nothing is written, the home route is shown and
// the *ProviderError is logged, notified and returned. A callback with neither
// tokens nor an error is ignored.
func (m *Manager) HandleAuthentication(ctx context.Context, callback string) error {
	switch r := m.provider.ParseCallback(ctx, callback).(type) {
	case *Success:
		if r.AccessToken == "" || r.IDToken == "" {
			m.logger.Debug().Msg("callback without access and identity token ignored")
			return nil
		}
		record := Record{
			AccessToken:   r.AccessToken,
			IDToken:       r.IDToken,
			ExpiresAt:     m.now().Add(time.Duration(r.ExpiresInSeconds) * time.Second),
			GrantedScopes: EffectiveScopes(r.GrantedScope, m.cfg.RequestedScopes),
		}
		if err := m.store.Set(ctx, record); err != nil {
			m.logger.Error().Err(err).Msg("failed to store session")
			m.nav.NavigateTo(m.cfg.Routes.Home)
			return fmt.Errorf("[session HandleAuthentication] %w", err)
		}
		m.logger.Info().
			Str("subject", r.Claims.Subject).
			Strs("scopes", record.GrantedScopes).
			Time("expires_at", record.ExpiresAt).
			Msg("session established")
		m.nav.NavigateTo(m.cfg.Routes.PostLogin)
		return nil

	case *Failure:
		perr := &ProviderError{Code: r.ErrorCode, Description: r.ErrorDescription}
		m.nav.NavigateTo(m.cfg.Routes.Home)
		m.logger.Error().
			Err(perr).
			Str("error_code", r.ErrorCode).
			Str("error_description", r.ErrorDescription).
			Msg("authentication failed")
		if m.notifier != nil {
			m.notifier.Notify(fmt.Sprintf("Error: %s. Check the console for further details.", r.ErrorCode))
		}
		return perr

	default:
		return nil
	}
}

// IsAuthenticated reports whether a stored session has not yet expired.
// Expired records are left in storage.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	expiresAt, ok, err := m.store.ExpiresAt(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("reading session expiry")
		return false
	}
	return ok && m.now().Before(expiresAt)
}

// UserHasScopes reports whether the session was granted every scope in
// required. Without a stored session it is always false.
func (m *Manager) UserHasScopes(ctx context.Context, required []string) bool {
	granted, ok, err := m.store.GrantedScopes(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("reading granted scopes")
		return false
	}
	if !ok {
		return false
	}
	return HasScopes(granted, required)
}

// Logout clears the session and shows the root route. Navigation happens
// even when clearing storage fails.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.store.Clear(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to clear session")
	}
	m.nav.NavigateTo(m.cfg.Routes.Root)
	if err != nil {
		return fmt.Errorf("[session Logout] %w", err)
	}
	return nil
}

// GetProfile fetches the user profile for accessToken and hands the result
// to cb. An empty token fails with ErrMissingAccessToken before any request
// is made and cb is not called. Otherwise cb is called exactly once, with a
// *ProfileLookupError when the request failed.
func (m *Manager) GetProfile(ctx context.Context, accessToken string, cb ProfileCallback) error {
	if accessToken == "" {
		return ErrMissingAccessToken
	}
	if cb == nil {
		cb = func(*Profile, error) {}
	}

	profile, err := m.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		cb(nil, &ProfileLookupError{Err: err})
		return nil
	}
	if profile == nil {
		cb(nil, &ProfileLookupError{Err: ErrEmptyProfile})
		return nil
	}
	m.profileLock.Lock()
	m.profile = profile
	m.profileLock.Unlock()
	cb(profile, nil)
	return nil
}

// Profile returns the profile cached by the last successful GetProfile.
func (m *Manager) Profile() (*Profile, bool) {
	m.profileLock.RLock()
	defer m.profileLock.RUnlock()
	return m.profile, m.profile != nil
}

// AccessToken returns the stored access token.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	token, ok, err := m.store.AccessToken(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoSession
	}
	return token, nil
}

// Session returns the full stored record, expired or not.
func (m *Manager) Session(ctx context.Context) (*Record, error) {
	return m.store.Get(ctx)
}
