// Package client talks to the Venus HTTP API on behalf of venus-cli.
//
// Client is the transport-agnostic contract; HTTPClient implements it over
// net/http and carries the bearer token in the Authorization header.
//
// Non-2xx responses become *APIError values. They unwrap to ErrUnauthorized,
// ErrNotFound or ErrConflict where the status code says so, so callers match
// with errors.Is. Transport failures wrap ErrUnavailable.
package client
