package config

import "time"

type SecurityConfig interface {
	GetAuthFlowTimeout() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetAuthFlowTimeout is how long an authorize transaction (state + nonce)
// stays valid while the browser is away at the provider.
func (Security) GetAuthFlowTimeout() time.Duration {
	return GetEnvDuration("AUTH_FLOW_TIMEOUT", 15*time.Minute)
}
