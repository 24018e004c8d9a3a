package shopauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mercato/shopauth/namecipher"
	"github.com/mercato/shopauth/password"
	"github.com/mercato/shopauth/token"
)

// Engine defines a public type used by shopauth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config      Config
	directory   UserDirectory
	mailer      Mailer
	tokens      *token.Manager
	hasher      *password.Bcrypt
	cipher      *namecipher.Cipher
	lockout     *loginLockoutLimiter
	resetMarker *resetTokenMarker
	audit       *auditDispatcher
	metrics     *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Authenticate resolves a session token into the caller's identity. It
// verifies the signature and expiry, then confirms the subject still
// exists in the directory; any failure surfaces as [ErrSessionInvalid].
func (e *Engine) Authenticate(ctx context.Context, sessionToken string) (*AuthResult, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}
	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
	}

	claims, err := e.tokens.ParseSession(sessionToken)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	user, err := e.directory.FindByID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, directoryError(err)
	}

	return &AuthResult{
		UserID: user.ID,
		Email:  user.Email,
		Admin:  user.Admin,
	}, nil
}

// Logout records the end of a session. Session tokens are stateless, so
// the engine has nothing to revoke; discarding the cookie is the HTTP
// layer's job.
func (e *Engine) Logout(ctx context.Context, userID string) {
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, userID, "", nil, nil)
}

func (e *Engine) decryptedName(user *User) (string, error) {
	if user.Name == "" {
		return "", nil
	}
	return e.cipher.Decrypt(namecipher.Box{Ciphertext: user.Name, IV: user.NameIV})
}

func (e *Engine) profileFromUser(user *User) (*Profile, error) {
	name, err := e.decryptedName(user)
	if err != nil {
		return nil, err
	}

	return &Profile{
		UserID:    user.ID,
		Name:      name,
		Email:     user.Email,
		Admin:     user.Admin,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, nil
}

// directoryError passes through the directory's sentinel outcomes and
// wraps everything else as a dependency failure.
func directoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrEmailExists):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
}
