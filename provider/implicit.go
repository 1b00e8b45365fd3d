// Package provider implements session.Provider for identity providers that
// support the OAuth 2.0 implicit grant with OpenID Connect identity tokens.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-spa-session/internal/errors"
	"github.com/jrsteele09/go-spa-session/oauthmodel"
	"github.com/jrsteele09/go-spa-session/provider/authflow"
	"github.com/jrsteele09/go-spa-session/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

var _ session.Provider = (*Implicit)(nil)

// Implicit talks to the provider's /authorize and /userinfo endpoints.
type Implicit struct {
	cfg         session.Config
	oauth       *oauth2.Config
	oidc        *oidc.Provider
	redirector  Redirector
	flows       authflow.Repo
	flowTimeout time.Duration
	httpClient  *http.Client
	now         func() time.Time
}

type Option func(*Implicit)

// WithFlowTimeout bounds how long an authorize request may stay unanswered.
func WithFlowTimeout(d time.Duration) Option {
	return func(p *Implicit) { p.flowTimeout = d }
}

// WithHTTPClient sets the client used for user-info requests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Implicit) { p.httpClient = c }
}

func WithClock(now func() time.Time) Option {
	return func(p *Implicit) { p.now = now }
}

func New(ctx context.Context, cfg session.Config, redirector Redirector, flows authflow.Repo, opts ...Option) (*Implicit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("[provider New] %w", err)
	}
	if redirector == nil {
		return nil, errors.New("[provider New] redirector is required")
	}
	if flows == nil {
		return nil, errors.New("[provider New] auth flow repo is required")
	}

	p := &Implicit{
		cfg:         cfg,
		redirector:  redirector,
		flows:       flows,
		flowTimeout: 15 * time.Minute,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	providerConfig := &oidc.ProviderConfig{
		IssuerURL:   cfg.IssuerURL() + "/",
		AuthURL:     cfg.AuthorizeURL(),
		UserInfoURL: cfg.UserInfoURL(),
	}
	p.oidc = providerConfig.NewProvider(p.clientContext(ctx))
	p.oauth = &oauth2.Config{
		ClientID:    cfg.ClientID,
		Endpoint:    p.oidc.Endpoint(),
		RedirectURL: cfg.RedirectURI,
		Scopes:      cfg.RequestedScopes,
	}
	return p, nil
}

func (p *Implicit) clientContext(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	return oidc.ClientContext(ctx, p.httpClient)
}

// AuthorizeURL starts a new authorize transaction and returns the URL to send
// the browser to.
func (p *Implicit) AuthorizeURL() (string, error) {
	state := uuid.NewString()
	nonce := uuid.NewString()

	err := p.flows.Upsert(state, &authflow.State{
		Nonce:     nonce,
		CreatedAt: p.now(),
	})
	if err != nil {
		return "", fmt.Errorf("[provider AuthorizeURL] save state: %w", err)
	}

	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam(oauthmodel.ParamResponseType, string(p.cfg.ResponseType)),
		oauth2.SetAuthURLParam(oauthmodel.ParamResponseMode, string(oauthmodel.FragmentResponseMode)),
		oauth2.SetAuthURLParam(oauthmodel.ParamNonce, nonce),
	}
	if p.cfg.Audience != "" {
		opts = append(opts, oauth2.SetAuthURLParam(oauthmodel.ParamAudience, p.cfg.Audience))
	}
	return p.oauth.AuthCodeURL(state, opts...), nil
}

// Authorize redirects the browsing context to the provider.
func (p *Implicit) Authorize(ctx context.Context) error {
	authURL, err := p.AuthorizeURL()
	if err != nil {
		return err
	}
	if err := p.redirector.Redirect(ctx, authURL); err != nil {
		return fmt.Errorf("[provider Authorize] redirect: %w", err)
	}
	return nil
}

// ParseCallback decodes the fragment the provider redirected back with.
// It returns nil when the fragment carries neither tokens nor an error.
func (p *Implicit) ParseCallback(_ context.Context, callback string) session.CallbackResult {
	values, err := parseFragment(callback)
	if err != nil {
		log.Warn().Err(err).Msg("ignoring malformed callback fragment")
		return nil
	}
	state := values.Get(oauthmodel.ParamState)

	if code := values.Get(oauthmodel.ParamError); code != "" {
		if state != "" {
			_ = p.flows.Delete(state)
		}
		return &session.Failure{
			ErrorCode:        code,
			ErrorDescription: values.Get(oauthmodel.ParamErrorDescription),
		}
	}

	accessToken := values.Get(oauthmodel.ParamAccessToken)
	idToken := values.Get(oauthmodel.ParamIDToken)
	if accessToken == "" && idToken == "" {
		return nil
	}

	flow, err := p.consumeFlow(state)
	if err != nil {
		log.Warn().Err(err).Msg("callback state rejected")
		return invalidToken(oauthmodel.ErrorDescStateMismatch)
	}

	expiresIn, err := strconv.ParseInt(values.Get(oauthmodel.ParamExpiresIn), 10, 64)
	if err != nil {
		return invalidToken(oauthmodel.ErrorDescInvalidExpiresIn)
	}

	result := &session.Success{
		AccessToken:      accessToken,
		IDToken:          idToken,
		ExpiresInSeconds: expiresIn,
	}
	if values.Has(oauthmodel.ParamScope) {
		granted := values.Get(oauthmodel.ParamScope)
		result.GrantedScope = &granted
	}

	if idToken != "" {
		claims, err := DecodeIDToken(idToken)
		if err != nil {
			log.Warn().Err(err).Msg("identity token could not be decoded")
			return invalidToken(err.Error())
		}
		if claims.Nonce != flow.Nonce {
			return invalidToken(oauthmodel.ErrorDescNonceMismatch)
		}
		result.Claims = claims
	}
	return result
}

// consumeFlow loads and deletes the authorize transaction for state.
func (p *Implicit) consumeFlow(state string) (*authflow.State, error) {
	flow, err := p.flows.Get(state)
	if err != nil {
		return nil, err
	}
	if err := p.flows.Delete(state); err != nil {
		return nil, err
	}
	if flow.Expired(p.now(), p.flowTimeout) {
		return nil, apperrors.ErrStateExpired
	}
	return flow, nil
}

// FetchProfile calls the provider's user-info endpoint with accessToken as
// bearer credential.
func (p *Implicit) FetchProfile(ctx context.Context, accessToken string) (*session.Profile, error) {
	if accessToken == "" {
		return nil, session.ErrMissingAccessToken
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	info, err := p.oidc.UserInfo(p.clientContext(ctx), ts)
	if err != nil {
		return nil, fmt.Errorf("[provider FetchProfile] %w", err)
	}

	profile := &session.Profile{
		Subject:       info.Subject,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
	}
	if err := info.Claims(&profile.Claims); err != nil {
		return nil, fmt.Errorf("[provider FetchProfile] decode claims: %w", err)
	}
	profile.Name = stringClaim(profile.Claims, "name")
	profile.Nickname = stringClaim(profile.Claims, "nickname")
	profile.Picture = stringClaim(profile.Claims, "picture")
	profile.UpdatedAt = stringClaim(profile.Claims, "updated_at")
	return profile, nil
}

func stringClaim(claims map[string]any, name string) string {
	s, _ := claims[name].(string)
	return s
}

func invalidToken(description string) *session.Failure {
	return &session.Failure{ErrorCode: oauthmodel.ErrorCodeInvalidToken, ErrorDescription: description}
}

// parseFragment accepts a full callback URL, "#fragment" or a bare fragment.
func parseFragment(callback string) (url.Values, error) {
	callback = strings.TrimSpace(callback)
	if i := strings.Index(callback, "#"); i >= 0 {
		callback = callback[i+1:]
	} else if strings.Contains(callback, "://") {
		return url.Values{}, nil
	}
	return url.ParseQuery(callback)
}
