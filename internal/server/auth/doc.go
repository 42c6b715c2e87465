// Package auth is the authentication and ownership core of the server.
//
// It is made of five small pieces, leaves first:
//
//   - PasswordHasher: bcrypt hashing and verification, bounded by a HashLimiter.
//   - TokenCodec: HS256 JWT issuing and decoding with claims {sub, uid, username, exp}.
//   - ExtractToken: finds a bearer token in request metadata (header first, then cookie).
//   - Resolver: ExtractToken + TokenCodec, yielding a user id or ErrUnauthenticated.
//   - Authorize / CheckOwner: the single-owner check for resources loaded by a
//     secondary key.
//
// The package carries no transport vocabulary. HTTP and gRPC adapters build a
// RequestMetadata and map the sentinel errors to their own status codes.
package auth
