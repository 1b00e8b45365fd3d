package session

import "strings"

// EffectiveScopes picks the scopes to store for a session: the granted scope
// string when the provider returned a non-empty one, the requested scopes
// otherwise. Provider rules may narrow or widen what was requested, so a
// granted value always wins.
func EffectiveScopes(granted *string, requested []string) []string {
	if granted != nil && strings.TrimSpace(*granted) != "" {
		return strings.Fields(*granted)
	}
	scopes := strings.Fields(strings.Join(requested, " "))
	if scopes == nil {
		return []string{}
	}
	return scopes
}

// HasScopes reports whether every entry of required is in granted.
func HasScopes(granted, required []string) bool {
	set := make(map[string]struct{}, len(granted))
	for _, s := range granted {
		set[s] = struct{}{}
	}
	for _, s := range required {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
