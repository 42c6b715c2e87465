package common

const (
	// AuthorizationHeader carries "Bearer <token>" on HTTP requests and gRPC metadata.
	AuthorizationHeader = "Authorization"

	// TokenCookieName is the cookie the browser client keeps the token in.
	TokenCookieName = "token"

	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "
)
