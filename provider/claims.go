package provider

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-spa-session/session"
)

type idTokenClaims struct {
	jwt.RegisteredClaims
	Nonce         string `json:"nonce,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	Nickname      string `json:"nickname,omitempty"`
	Picture       string `json:"picture,omitempty"`
}

// DecodeIDToken reads the claims of a compact identity token without
// checking its signature or time-based claims.
func DecodeIDToken(raw string) (session.IDTokenClaims, error) {
	var c idTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &c); err != nil {
		return session.IDTokenClaims{}, fmt.Errorf("decode id_token: %w", err)
	}
	return session.IDTokenClaims{
		Issuer:        c.Issuer,
		Subject:       c.Subject,
		Audience:      []string(c.Audience),
		IssuedAt:      numericTime(c.IssuedAt),
		ExpiresAt:     numericTime(c.ExpiresAt),
		Nonce:         c.Nonce,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Name:          c.Name,
		Nickname:      c.Nickname,
		Picture:       c.Picture,
	}, nil
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
