package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jrsteele09/go-spa-session/internal/config"
	apperrors "github.com/jrsteele09/go-spa-session/internal/errors"
	"github.com/jrsteele09/go-spa-session/kvstore"
	"github.com/jrsteele09/go-spa-session/provider"
	"github.com/jrsteele09/go-spa-session/provider/authflow"
	"github.com/jrsteele09/go-spa-session/session"
	"github.com/rs/zerolog/log"
)

// app wires the session manager to terminal output and the configured store.
type app struct {
	out     io.Writer
	manager *session.Manager
	close   func() error
}

func newApp(ctx context.Context, c config.Config, out io.Writer) (*app, error) {
	cfg, err := c.SessionConfig()
	if err != nil {
		return nil, err
	}

	repo, closeRepo, err := openRepo(ctx, c)
	if err != nil {
		return nil, err
	}

	idp, err := provider.New(ctx, cfg, provider.WriterRedirector{W: out}, authflow.NewKVRepo(repo),
		provider.WithFlowTimeout(c.GetAuthFlowTimeout()),
	)
	if err != nil {
		_ = closeRepo()
		return nil, err
	}

	manager, err := session.NewManager(cfg, idp, session.NewStore(repo), terminalNavigator{out: out},
		session.WithNotifier(terminalNotifier{out: out}),
	)
	if err != nil {
		_ = closeRepo()
		return nil, err
	}
	return &app{out: out, manager: manager, close: closeRepo}, nil
}

func openRepo(ctx context.Context, c config.Config) (kvstore.Batch, func() error, error) {
	switch backend := c.GetStorageBackend(); backend {
	case config.StorageSQLite:
		repo, err := kvstore.OpenSQLiteRepo(c.GetSQLitePath())
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	case config.StorageRedis:
		repo, err := kvstore.NewRedisRepo(ctx, kvstore.RedisOptions{
			Addr:      c.GetRedisAddr(),
			Password:  c.GetRedisPassword(),
			DB:        c.GetRedisDB(),
			KeyPrefix: c.GetRedisKeyPrefix(),
		})
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	case config.StorageMemory:
		log.Warn().Msg("memory storage does not survive between commands")
		return kvstore.NewInMemoryRepo(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedStore, backend)
	}
}

func (a *app) Close() error {
	return a.close()
}

func (a *app) Login(ctx context.Context) error {
	return a.manager.Login(ctx)
}

func (a *app) Callback(ctx context.Context, callback string) error {
	err := a.manager.HandleAuthentication(ctx, callback)
	var perr *session.ProviderError
	if apperrors.As(err, &perr) {
		// Already logged and shown by the manager.
		return nil
	}
	return err
}

func (a *app) Status(ctx context.Context) error {
	record, err := a.manager.Session(ctx)
	if apperrors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	state := "expired"
	if a.manager.IsAuthenticated(ctx) {
		state = "valid"
	}
	fmt.Fprintf(a.out, "session: %s\nexpires at: %s\nscopes: %s\n",
		state, record.ExpiresAt.Format("2006-01-02 15:04:05 MST"), strings.Join(record.GrantedScopes, " "))
	return nil
}

func (a *app) Scopes(ctx context.Context, required []string) error {
	if a.manager.UserHasScopes(ctx, required) {
		fmt.Fprintln(a.out, "granted")
		return nil
	}
	return fmt.Errorf("session lacks scopes %s", strings.Join(required, " "))
}

func (a *app) Profile(ctx context.Context) error {
	token, err := a.manager.AccessToken(ctx)
	if err != nil && !apperrors.Is(err, session.ErrNoSession) {
		return err
	}

	var cbErr error
	err = a.manager.GetProfile(ctx, token, func(profile *session.Profile, err error) {
		if err != nil {
			cbErr = err
			return
		}
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		cbErr = enc.Encode(profile)
	})
	if err != nil {
		return err
	}
	return cbErr
}

func (a *app) Logout(ctx context.Context) error {
	return a.manager.Logout(ctx)
}

type terminalNavigator struct {
	out io.Writer
}

func (n terminalNavigator) NavigateTo(route string) {
	log.Debug().Str("route", route).Msg("navigate")
	fmt.Fprintf(n.out, "-> %s\n", route)
}

type terminalNotifier struct {
	out io.Writer
}

func (n terminalNotifier) Notify(message string) {
	fmt.Fprintln(n.out, message)
}
