package oauthmodel

// Authorization request parameters the implicit flow adds on top of the
// standard client_id / redirect_uri / scope / state set.
const (
	// ParamAudience names the API the access token is issued for.
	// Required: No (provider default API is used when absent)
	// Example: "https://api.example.com" or "https://tenant.auth0.com/userinfo"
	ParamAudience = "audience"

	// ParamNonce binds the identity token to this authorize request.
	// Required: Yes for response types containing id_token
	// Validated against: the "nonce" claim of the returned identity token
	ParamNonce = "nonce"

	ParamResponseType = "response_type"
	ParamResponseMode = "response_mode"
)

// Callback fragment parameters returned to the redirect URI.
const (
	ParamAccessToken      = "access_token"
	ParamIDToken          = "id_token"
	ParamExpiresIn        = "expires_in"
	ParamScope            = "scope"
	ParamState            = "state"
	ParamError            = "error"
	ParamErrorDescription = "error_description"
)
