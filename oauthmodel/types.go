package oauthmodel

// ResponseType represents the OAuth 2.0 response type.
// Determines what is returned from the authorization endpoint.
type ResponseType string

const (
	// TokenIDTokenResponseType requests both an access token and an identity token.
	// Used in: Implicit Flow (browser based single-page applications)
	// Returns the tokens directly in the redirect fragment, no code exchange step.
	// Example: /authorize?response_type=token%20id_token&client_id=...
	TokenIDTokenResponseType ResponseType = "token id_token"
)

// ResponseModeType denotes how the authorization response parameters are returned to the client.
type ResponseModeType string

const (
	// FragmentResponseMode returns parameters in the URL fragment (after #).
	// Used in: Implicit Flow
	// Example: https://client.example.com/callback#access_token=ABC123&state=xyz
	// Security: Fragment not sent to the application's server, only readable in the browser
	FragmentResponseMode ResponseModeType = "fragment"
)
