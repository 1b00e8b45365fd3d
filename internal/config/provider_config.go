package config

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/go-spa-session/session"
)

const defaultRequestedScopes = "openid profile read:messages write:messages"

type ProviderConfig interface {
	GetDomain() string
	GetClientID() string
	GetCallbackURL() string
	GetAudience() string
	GetRequestedScopes() []string
	GetRoutes() session.Routes
	SessionConfig() (session.Config, error)
}

type Provider struct{}

var _ ProviderConfig = Provider{}

func (Provider) GetDomain() string {
	return GetEnv("AUTH_DOMAIN", "")
}

func (Provider) GetClientID() string {
	return GetEnv("AUTH_CLIENT_ID", "")
}

func (Provider) GetCallbackURL() string {
	return GetEnv("AUTH_CALLBACK_URL", "http://localhost:4200/callback")
}

// GetAudience defaults to the provider's user-info API so the issued access
// token can always be used for profile lookups.
func (p Provider) GetAudience() string {
	return GetEnv("AUTH_AUDIENCE", fmt.Sprintf("https://%s/userinfo", p.GetDomain()))
}

func (Provider) GetRequestedScopes() []string {
	return strings.Fields(GetEnv("AUTH_SCOPES", defaultRequestedScopes))
}

func (Provider) GetRoutes() session.Routes {
	return session.Routes{
		PostLogin: GetEnv("ROUTE_POST_LOGIN", "/home"),
		Home:      GetEnv("ROUTE_HOME", "/home"),
		Root:      GetEnv("ROUTE_ROOT", "/"),
	}
}

func (p Provider) SessionConfig() (session.Config, error) {
	cfg := session.Config{
		Domain:          p.GetDomain(),
		ClientID:        p.GetClientID(),
		RedirectURI:     p.GetCallbackURL(),
		Audience:        p.GetAudience(),
		RequestedScopes: p.GetRequestedScopes(),
		ResponseType:    session.ResponseTypeTokenIDToken,
		Routes:          p.GetRoutes(),
	}
	if err := cfg.Validate(); err != nil {
		return session.Config{}, fmt.Errorf("[config SessionConfig] %w", err)
	}
	return cfg, nil
}
