// Package session manages the client-side state of an implicit-grant login:
// it starts the provider redirect, turns the provider's callback into a
// persisted session record, and answers validity and scope queries against it.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/jrsteele09/go-spa-session/internal/errors"
	"github.com/jrsteele09/go-spa-session/oauthmodel"
)

const ResponseTypeTokenIDToken = oauthmodel.TokenIDTokenResponseType

var validate = validator.New(validator.WithRequiredStructEnabled())

// Routes are the application routes the manager navigates to.
type Routes struct {
	PostLogin string `validate:"required"` // after a successful callback
	Home      string `validate:"required"` // after a failed callback
	Root      string `validate:"required"` // after logout
}

// Config is the static session configuration, loaded once at startup.
type Config struct {
	Domain          string                  `validate:"required"`
	ClientID        string                  `validate:"required"`
	RedirectURI     string                  `validate:"required,url"`
	Audience        string                  `validate:"omitempty,url"`
	RequestedScopes []string                `validate:"dive,required"`
	ResponseType    oauthmodel.ResponseType `validate:"required"`
	Routes          Routes
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
	}
	if c.ResponseType != ResponseTypeTokenIDToken {
		return fmt.Errorf("%w: response type must be %q", apperrors.ErrInvalidConfig, ResponseTypeTokenIDToken)
	}
	return nil
}

// IssuerURL is the provider base URL. A bare domain is served over https.
func (c Config) IssuerURL() string {
	if strings.Contains(c.Domain, "://") {
		return strings.TrimRight(c.Domain, "/")
	}
	return "https://" + strings.TrimRight(c.Domain, "/")
}

func (c Config) AuthorizeURL() string {
	return c.IssuerURL() + "/authorize"
}

func (c Config) UserInfoURL() string {
	return c.IssuerURL() + "/userinfo"
}

// RequestedScope is the space separated scope parameter sent to the provider.
func (c Config) RequestedScope() string {
	return strings.Join(c.RequestedScopes, " ")
}

// Record is the persisted representation of the current session.
type Record struct {
	AccessToken   string
	IDToken       string
	ExpiresAt     time.Time
	GrantedScopes []string
}

// CallbackResult is the outcome of parsing one provider redirect. It is
// either *Success or *Failure; a nil CallbackResult means the callback held
// neither tokens nor an error.
type CallbackResult interface {
	callbackResult()
}

type Success struct {
	AccessToken      string
	IDToken          string
	ExpiresInSeconds int64
	// GrantedScope is nil when the provider did not return a scope parameter.
	GrantedScope *string
	Claims       IDTokenClaims
}

type Failure struct {
	ErrorCode        string
	ErrorDescription string
}

func (*Success) callbackResult() {}
func (*Failure) callbackResult() {}

// IDTokenClaims are the identity token claims as delivered by the provider.
// The token signature is not verified here.
type IDTokenClaims struct {
	Issuer        string
	Subject       string
	Audience      []string
	IssuedAt      time.Time
	ExpiresAt     time.Time
	Nonce         string
	Email         string
	EmailVerified bool
	Name          string
	Nickname      string
	Picture       string
}

// Profile is the user-info response for an access token.
type Profile struct {
	Subject       string         `json:"sub"`
	Name          string         `json:"name,omitempty"`
	Nickname      string         `json:"nickname,omitempty"`
	Picture       string         `json:"picture,omitempty"`
	Email         string         `json:"email,omitempty"`
	EmailVerified bool           `json:"email_verified,omitempty"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
	Claims        map[string]any `json:"-"`
}

// Provider is the identity provider integration.
type Provider interface {
	// Authorize sends the browsing context to the provider's authorization endpoint.
	Authorize(ctx context.Context) error

	// ParseCallback decodes the redirect the provider sent back. callback may be the
	// full callback URL or just its fragment.
	ParseCallback(ctx context.Context, callback string) CallbackResult

	// FetchProfile looks up the user profile for accessToken.
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

type Navigator interface {
	NavigateTo(route string)
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(message string)
}
