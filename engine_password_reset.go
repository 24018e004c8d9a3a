package shopauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mercato/shopauth/password"
)

// RequestPasswordReset describes the requestpasswordreset operation and its observable behavior.
//
// RequestPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// RequestPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The signed reset token is both mailed to the account's address and
// returned to the caller so embedding applications can deliver it over
// a channel of their own.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if e == nil || e.directory == nil {
		return "", ErrEngineNotReady
	}

	user, err := e.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.emitAudit(ctx, auditEventPasswordResetRequest, false, "", email, ErrUserNotFound, nil)
			return "", ErrUserNotFound
		}
		return "", directoryError(err)
	}

	resetToken, claims, err := e.tokens.CreateReset(user.ID)
	if err != nil {
		return "", err
	}

	if err := e.sendResetMail(ctx, user, resetToken); err != nil {
		e.emitAudit(ctx, auditEventPasswordResetRequest, false, user.ID, user.Email, ErrMailerUnavailable, nil)
		return "", fmt.Errorf("%w: %v", ErrMailerUnavailable, err)
	}

	e.metricInc(MetricPasswordResetRequest)
	e.emitAudit(ctx, auditEventPasswordResetRequest, true, user.ID, user.Email, nil, func() map[string]string {
		return map[string]string{"token_id": claims.ID}
	})

	return resetToken, nil
}

// ConfirmPasswordReset describes the confirmpasswordreset operation and its observable behavior.
//
// ConfirmPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// ConfirmPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Each reset token redeems at most once. The redemption marker is
// claimed only after the replacement password has passed the policy and
// reuse checks, so a rejected password does not burn the token.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	if e == nil || e.directory == nil {
		return ErrEngineNotReady
	}

	claims, err := e.tokens.ParseReset(resetToken)
	if err != nil {
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", "", ErrResetTokenInvalid, nil)
		return ErrResetTokenInvalid
	}

	user, err := e.directory.FindByID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricPasswordResetConfirmFailure)
			e.emitAudit(ctx, auditEventPasswordResetConfirm, false, claims.UID, "", ErrResetTokenInvalid, nil)
			return ErrResetTokenInvalid
		}
		return directoryError(err)
	}

	if !password.ValidatePolicy(newPassword) {
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, user.ID, user.Email, ErrPasswordPolicy, nil)
		return ErrPasswordPolicy
	}

	for _, previousHash := range user.PasswordHistory {
		match, verifyErr := e.hasher.Verify(newPassword, previousHash)
		if verifyErr != nil {
			return verifyErr
		}
		if match {
			e.metricInc(MetricPasswordChangeReuseRejected)
			e.emitAudit(ctx, auditEventPasswordChangeReuse, false, user.ID, user.Email, ErrPasswordReuse, nil)
			return ErrPasswordReuse
		}
	}

	if e.resetMarker != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		fresh, markerErr := e.resetMarker.Consume(ctx, claims.ID, ttl)
		if markerErr != nil {
			return markerErr
		}
		if !fresh {
			e.metricInc(MetricPasswordResetReplay)
			e.emitAudit(ctx, auditEventPasswordResetReplay, false, user.ID, user.Email, ErrResetTokenInvalid, func() map[string]string {
				return map[string]string{"token_id": claims.ID}
			})
			return ErrResetTokenInvalid
		}
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.SetPassword(hash, e.config.Password.HistoryDepth, time.Now().UTC())
	user.UpdatedAt = time.Now().UTC()

	if err := e.directory.Save(ctx, user); err != nil {
		return directoryError(err)
	}

	e.metricInc(MetricPasswordResetConfirmSuccess)
	e.emitAudit(ctx, auditEventPasswordResetConfirm, true, user.ID, user.Email, nil, func() map[string]string {
		return map[string]string{"token_id": claims.ID}
	})

	return nil
}

func (e *Engine) sendResetMail(ctx context.Context, user *User, resetToken string) error {
	if e.mailer == nil {
		return nil
	}

	link := fmt.Sprintf(e.config.Mail.ResetLinkFormat, user.ID, resetToken)
	text := fmt.Sprintf("A password reset was requested for your account. Visit %s to choose a new password. The link expires in %s.", link, e.config.Token.ResetTTL)
	html := fmt.Sprintf(`<p>A password reset was requested for your account.</p><p><a href=%q>Choose a new password</a>. The link expires in %s.</p>`, link, e.config.Token.ResetTTL)

	return e.mailer.Send(ctx, user.Email, "Reset your password", text, html)
}
