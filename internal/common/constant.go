package common

const (
	// AuthorizationHeaderName carries the bearer token on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix must precede the token, case-sensitive, single space.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName is echoed back on every response.
	RequestIDHeaderName = "X-Request-ID"

	// AnonymousReviewer is the display name of reviews without an author.
	AnonymousReviewer = "Anonymous"
)
