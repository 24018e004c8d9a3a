package shopauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mercato/shopauth/internal"
	"github.com/mercato/shopauth/password"
)

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The account record is persisted before the verification mail is sent.
// A mail delivery failure therefore leaves a valid unverified account
// behind and reports [ErrMailerUnavailable] to the caller.
func (e *Engine) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	if !password.ValidatePolicy(input.Password) {
		e.metricInc(MetricRegistrationPolicyRejected)
		e.emitAudit(ctx, auditEventRegistrationFailure, false, "", input.Email, ErrPasswordPolicy, nil)
		return nil, ErrPasswordPolicy
	}

	hash, err := e.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	nameBox, err := e.cipher.Encrypt(input.Name)
	if err != nil {
		return nil, err
	}

	verificationToken, err := internal.NewVerificationToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &User{
		ID:                 uuid.NewString(),
		Name:               nameBox.Ciphertext,
		NameIV:             nameBox.IV,
		Email:              input.Email,
		PasswordHash:       hash,
		PasswordHistory:    []string{hash},
		LastPasswordChange: now,
		VerificationToken:  verificationToken,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := e.directory.Save(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			e.metricInc(MetricRegistrationDuplicate)
			e.emitAudit(ctx, auditEventRegistrationDuplicate, false, "", input.Email, ErrEmailExists, nil)
			return nil, ErrEmailExists
		}
		return nil, directoryError(err)
	}

	if err := e.sendVerificationMail(ctx, user, verificationToken); err != nil {
		e.emitAudit(ctx, auditEventRegistrationFailure, false, user.ID, user.Email, ErrMailerUnavailable, nil)
		return nil, fmt.Errorf("%w: %v", ErrMailerUnavailable, err)
	}

	e.metricInc(MetricRegistrationSuccess)
	e.emitAudit(ctx, auditEventRegistrationSuccess, true, user.ID, user.Email, nil, nil)

	return &RegisterResult{UserID: user.ID, Email: user.Email}, nil
}

func (e *Engine) sendVerificationMail(ctx context.Context, user *User, verificationToken string) error {
	if e.mailer == nil {
		return nil
	}

	link := fmt.Sprintf(e.config.Mail.VerificationLinkFormat, verificationToken)
	text := fmt.Sprintf("Welcome! Confirm your email address by visiting %s", link)
	html := fmt.Sprintf(`<p>Welcome!</p><p>Confirm your email address by clicking <a href=%q>this link</a>.</p>`, link)

	return e.mailer.Send(ctx, user.Email, "Confirm your email address", text, html)
}
