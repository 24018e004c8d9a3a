// Package token issues and verifies the two bearer token kinds used by
// the account engine: long-lived session tokens delivered as cookies and
// short-lived password-reset action tokens embedded in emailed links.
package token
