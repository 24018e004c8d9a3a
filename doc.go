// Package shopauth is the account and credential-lifecycle core for a
// web storefront. It covers registration with email verification,
// credential login with failure-driven account lockout, password reset
// via signed single-use action tokens, profile management with password
// history enforcement, and administrative user management.
//
// The engine is storage and transport agnostic: callers supply a
// UserDirectory for persistence and a Mailer for outbound email, and
// map the engine's sentinel errors onto their HTTP boundary. Redis backs
// the login lockout window and reset-token redemption tracking.
package shopauth
