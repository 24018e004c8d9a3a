package shopauth

import (
	"errors"
	"strings"
	"time"
)

// Config defines a public type used by shopauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token      TokenConfig
	Password   PasswordConfig
	NameCipher NameCipherConfig
	Lockout    LockoutConfig
	Mail       MailConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by shopauth APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	SessionTTL    time.Duration
	ResetTTL      time.Duration
	SigningMethod string // "hs256" (default), "ed25519" optional
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by shopauth APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Cost         int
	HistoryDepth int
}

// NameCipherConfig defines a public type used by shopauth APIs.
//
// NameCipherConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type NameCipherConfig struct {
	Key []byte // 32 bytes
}

/*
====================================
LOCKOUT CONFIG
====================================
*/

// LockoutConfig defines a public type used by shopauth APIs.
//
// LockoutConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LockoutConfig struct {
	Enabled   bool
	Threshold int
	Window    time.Duration
}

/*
====================================
MAIL CONFIG
====================================
*/

// MailConfig defines a public type used by shopauth APIs.
//
// MailConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MailConfig struct {
	From string

	// VerificationLinkFormat takes the verification token.
	VerificationLinkFormat string
	// ResetLinkFormat takes the user id followed by the reset token.
	ResetLinkFormat string
}

// AuditConfig defines a public type used by shopauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by shopauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The returned value still needs signing key material and a name cipher
// key before it validates.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			SessionTTL:    72 * time.Hour,
			ResetTTL:      15 * time.Minute,
			SigningMethod: "hs256",
		},
		Password: PasswordConfig{
			Cost:         10,
			HistoryDepth: 5,
		},
		Lockout: LockoutConfig{
			Enabled:   true,
			Threshold: 5,
			Window:    15 * time.Minute,
		},
		Mail: MailConfig{
			From:                   "no-reply@localhost",
			VerificationLinkFormat: "http://localhost:3000/verify-email/%s",
			ResetLinkFormat:        "http://localhost:3000/reset-password/%s/%s",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	out.NameCipher.Key = cloneBytes(cfg.NameCipher.Key)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Token
	if c.Token.SessionTTL <= 0 {
		return errors.New("Token SessionTTL must be > 0")
	}
	if c.Token.ResetTTL <= 0 {
		return errors.New("Token ResetTTL must be > 0")
	}

	if c.Token.SigningMethod != "hs256" && c.Token.SigningMethod != "ed25519" {
		return errors.New("unsupported token signing method")
	}

	if c.Token.SigningMethod == "hs256" && len(c.Token.PrivateKey) == 0 {
		return errors.New("hs256 requires PrivateKey")
	}
	if c.Token.SigningMethod == "ed25519" && len(c.Token.PrivateKey) == 0 {
		return errors.New("ed25519 requires PrivateKey")
	}
	if c.Token.SigningMethod == "ed25519" && len(c.Token.PublicKey) == 0 {
		return errors.New("ed25519 requires PublicKey")
	}
	if c.Token.Leeway < 0 {
		return errors.New("Token Leeway must be >= 0")
	}

	// Password
	if c.Password.Cost < 4 || c.Password.Cost > 31 {
		return errors.New("Password Cost must be between 4 and 31")
	}
	if c.Password.HistoryDepth < 1 {
		return errors.New("Password HistoryDepth must be >= 1")
	}

	// Name cipher
	if len(c.NameCipher.Key) != 32 {
		return errors.New("NameCipher Key must be 32 bytes")
	}

	// Lockout
	if c.Lockout.Enabled {
		if c.Lockout.Threshold <= 0 {
			return errors.New("Lockout Threshold must be > 0 when lockout is enabled")
		}
		if c.Lockout.Window <= 0 {
			return errors.New("Lockout Window must be > 0 when lockout is enabled")
		}
	}

	// Mail
	if strings.TrimSpace(c.Mail.From) == "" {
		return errors.New("Mail From is required")
	}
	if strings.Count(c.Mail.VerificationLinkFormat, "%s") != 1 {
		return errors.New("Mail VerificationLinkFormat must contain exactly one %s")
	}
	if strings.Count(c.Mail.ResetLinkFormat, "%s") != 2 {
		return errors.New("Mail ResetLinkFormat must contain exactly two %s")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	return nil
}
