// Package middleware exposes HTTP adapters for session and admin
// enforcement built on top of shopauth.Engine authentication.
//
// # Guards
//
//   - [Guard] resolves the session token and injects the caller's
//     identity into the request context.
//   - [RequireAdmin] additionally rejects callers without the admin
//     role.
//
// Each guard reads the session cookie (or a Bearer Authorization
// header), calls Engine.Authenticate, and stores the result in the
// request context for handlers to read via [AuthResultFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself. All decisions are delegated to
// Engine.Authenticate, and [StatusCode] maps engine errors to the HTTP
// status handlers should write.
package middleware
