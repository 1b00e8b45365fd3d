package oauthmodel

// Error codes carried in the "error" fragment parameter, or produced locally
// when a callback fails integrity checks.
const (
	// ErrorCodeInvalidToken is raised locally when state or nonce checks fail
	// or the identity token cannot be decoded.
	ErrorCodeInvalidToken = "invalid_token"

	// ErrorCodeAccessDenied is sent by the provider when the user or a
	// provider rule rejected the authorization.
	ErrorCodeAccessDenied = "access_denied"

	ErrorCodeLoginRequired = "login_required"
)

const (
	ErrorDescStateMismatch    = "`state` does not match."
	ErrorDescNonceMismatch    = "`nonce` does not match."
	ErrorDescInvalidExpiresIn = "`expires_in` is not a number."
)
