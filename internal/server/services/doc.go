// Package services holds the server's use cases. Handlers for every transport
// call into these services with the caller's resolved user id; the services
// enforce ownership through owner-filtered repository calls and auth.CheckOwner.
package services
