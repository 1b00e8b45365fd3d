// Package authflow keeps the short-lived state of an authorize request while
// the browser is away at the identity provider.
package authflow

import "time"

// State is what an authorize request leaves behind for its callback.
type State struct {
	Nonce     string    `json:"nonce"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the state is older than timeout at now.
func (s *State) Expired(now time.Time, timeout time.Duration) bool {
	return timeout > 0 && now.Sub(s.CreatedAt) > timeout
}

type Repo interface {
	Upsert(state string, authState *State) error
	Get(state string) (*State, error)
	Delete(state string) error
}
