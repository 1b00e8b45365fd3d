package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-spa-session/internal/config"
	apperrors "github.com/jrsteele09/go-spa-session/internal/errors"
	"github.com/jrsteele09/go-spa-session/session"
	"github.com/stretchr/testify/require"
)

func TestSessionConfig_Defaults(t *testing.T) {
	t.Setenv("AUTH_DOMAIN", "tenant.auth0.com")
	t.Setenv("AUTH_CLIENT_ID", "client-1")

	cfg, err := config.New().SessionConfig()
	require.NoError(t, err)
	require.Equal(t, "tenant.auth0.com", cfg.Domain)
	require.Equal(t, "client-1", cfg.ClientID)
	require.Equal(t, "http://localhost:4200/callback", cfg.RedirectURI)
	require.Equal(t, "https://tenant.auth0.com/userinfo", cfg.Audience)
	require.Equal(t, []string{"openid", "profile", "read:messages", "write:messages"}, cfg.RequestedScopes)
	require.Equal(t, session.ResponseTypeTokenIDToken, cfg.ResponseType)
	require.Equal(t, session.Routes{PostLogin: "/home", Home: "/home", Root: "/"}, cfg.Routes)
	require.Equal(t, "https://tenant.auth0.com/authorize", cfg.AuthorizeURL())
}

func TestSessionConfig_Overrides(t *testing.T) {
	t.Setenv("AUTH_DOMAIN", "tenant.auth0.com")
	t.Setenv("AUTH_CLIENT_ID", "client-1")
	t.Setenv("AUTH_AUDIENCE", "https://api.example.com")
	t.Setenv("AUTH_SCOPES", "openid  email")
	t.Setenv("ROUTE_POST_LOGIN", "/profile")

	cfg, err := config.New().SessionConfig()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.Audience)
	require.Equal(t, []string{"openid", "email"}, cfg.RequestedScopes)
	require.Equal(t, "/profile", cfg.Routes.PostLogin)
}

func TestSessionConfig_Invalid(t *testing.T) {
	t.Setenv("AUTH_DOMAIN", "")
	t.Setenv("AUTH_CLIENT_ID", "client-1")

	_, err := config.New().SessionConfig()
	require.ErrorIs(t, err, apperrors.ErrInvalidConfig)

	t.Setenv("AUTH_DOMAIN", "tenant.auth0.com")
	t.Setenv("AUTH_CALLBACK_URL", "not a url")
	_, err = config.New().SessionConfig()
	require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_BACKEND=redis\nREDIS_DB=3\nAUTH_FLOW_TIMEOUT=2m\n"), 0o600))
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("AUTH_FLOW_TIMEOUT", "")
	os.Unsetenv("STORAGE_BACKEND")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("AUTH_FLOW_TIMEOUT")

	c, err := config.Load(filepath.Join(t.TempDir(), "missing.env"), path)
	require.NoError(t, err)
	require.Equal(t, config.StorageRedis, c.GetStorageBackend())
	require.Equal(t, 3, c.GetRedisDB())
	require.Equal(t, 2*time.Minute, c.GetAuthFlowTimeout())
}

func TestStorageDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("REDIS_DB", "not-a-number")

	c := config.New()
	require.Equal(t, config.StorageSQLite, c.GetStorageBackend())
	require.Equal(t, 0, c.GetRedisDB())
	require.Equal(t, "./data/session.db", c.GetSQLitePath())
	require.Equal(t, 15*time.Minute, c.GetAuthFlowTimeout())
}
