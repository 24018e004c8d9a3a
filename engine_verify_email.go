package shopauth

import (
	"context"
	"errors"
	"time"
)

// VerifyEmail describes the verifyemail operation and its observable behavior.
//
// VerifyEmail may return an error when input validation, dependency calls, or security checks fail.
// VerifyEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Verification is one way. The token is cleared on first use, so a
// replay of a consumed token reports [ErrVerificationInvalid] exactly
// like an unknown token.
func (e *Engine) VerifyEmail(ctx context.Context, verificationToken string) error {
	if e == nil || e.directory == nil {
		return ErrEngineNotReady
	}

	if verificationToken == "" {
		e.metricInc(MetricEmailVerificationFailure)
		e.emitAudit(ctx, auditEventEmailVerificationConfirm, false, "", "", ErrVerificationInvalid, nil)
		return ErrVerificationInvalid
	}

	user, err := e.directory.FindByVerificationToken(ctx, verificationToken)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricEmailVerificationFailure)
			e.emitAudit(ctx, auditEventEmailVerificationConfirm, false, "", "", ErrVerificationInvalid, nil)
			return ErrVerificationInvalid
		}
		return directoryError(err)
	}

	user.MarkVerified()
	user.UpdatedAt = time.Now().UTC()

	if err := e.directory.Save(ctx, user); err != nil {
		return directoryError(err)
	}

	e.metricInc(MetricEmailVerificationSuccess)
	e.emitAudit(ctx, auditEventEmailVerificationConfirm, true, user.ID, user.Email, nil, nil)

	return nil
}
