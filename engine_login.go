package shopauth

import (
	"context"
	"errors"
	"strconv"
)

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Outcomes are ordered: an unknown email reports [ErrUserNotFound], a
// locked account reports [ErrAccountLocked] before the password is
// checked, and a wrong password reports [ErrInvalidCredentials] while
// counting toward the lockout threshold.
func (e *Engine) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", email, ErrUserNotFound, nil)
			return nil, ErrUserNotFound
		}
		return nil, directoryError(err)
	}

	if user.IsLocked() {
		e.metricInc(MetricLoginLocked)
		e.emitAudit(ctx, auditEventLoginLocked, false, user.ID, user.Email, ErrAccountLocked, nil)
		return nil, ErrAccountLocked
	}

	ok, err := e.hasher.Verify(plainPassword, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, e.recordLoginFailure(ctx, user)
	}

	if user.FailedLoginAttempts > 0 {
		user.RecordSuccess()
		if err := e.directory.Save(ctx, user); err != nil {
			return nil, directoryError(err)
		}
	}
	if e.lockout != nil {
		// Best effort. A stale window only shortens the runway for a
		// real attacker, never extends it.
		_ = e.lockout.Reset(ctx, user.ID)
	}

	sessionToken, err := e.tokens.CreateSession(user.ID)
	if err != nil {
		return nil, err
	}

	name, err := e.decryptedName(user)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, user.Email, nil, nil)

	return &LoginResult{
		SessionToken: sessionToken,
		UserID:       user.ID,
		Name:         name,
		Email:        user.Email,
		Admin:        user.Admin,
	}, nil
}

// recordLoginFailure persists the failed attempt, consults the rolling
// window, and locks the account when the threshold is crossed. When the
// limiter backend is unreachable the persisted counter alone decides.
func (e *Engine) recordLoginFailure(ctx context.Context, user *User) error {
	attempts := user.RecordFailedAttempt()

	shouldLock := false
	if e.config.Lockout.Enabled {
		if e.lockout != nil {
			windowLock, limiterErr := e.lockout.RecordFailure(ctx, user.ID)
			if limiterErr != nil {
				shouldLock = attempts >= e.config.Lockout.Threshold
			} else {
				shouldLock = windowLock
			}
		} else {
			shouldLock = attempts >= e.config.Lockout.Threshold
		}
	}

	if shouldLock {
		user.Lock()
	}

	if err := e.directory.Save(ctx, user); err != nil {
		return directoryError(err)
	}

	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, user.Email, ErrInvalidCredentials, func() map[string]string {
		return map[string]string{"failed_attempts": strconv.Itoa(attempts)}
	})

	if shouldLock {
		e.metricInc(MetricAccountLocked)
		e.emitAudit(ctx, auditEventAccountLocked, false, user.ID, user.Email, ErrAccountLocked, func() map[string]string {
			return map[string]string{"failed_attempts": strconv.Itoa(attempts)}
		})
	}

	return ErrInvalidCredentials
}
