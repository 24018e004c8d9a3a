package shopauth

import (
	"context"
	"strings"
	"time"

	"github.com/mercato/shopauth/password"
)

// Profile describes the profile operation and its observable behavior.
//
// Profile may return an error when input validation, dependency calls, or security checks fail.
// Profile does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Profile(ctx context.Context, userID string) (*Profile, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, directoryError(err)
	}

	return e.profileFromUser(user)
}

// UpdateProfile describes the updateprofile operation and its observable behavior.
//
// UpdateProfile may return an error when input validation, dependency calls, or security checks fail.
// UpdateProfile does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Empty input fields keep the stored value. A non-empty Password is
// validated against the composition policy and against the retained
// password history before it replaces the current hash.
func (e *Engine) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*Profile, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, directoryError(err)
	}

	changed := make([]string, 0, 3)

	if input.Password != "" {
		if err := e.rotatePassword(ctx, user, input.Password); err != nil {
			return nil, err
		}
		changed = append(changed, "password")
	}

	if input.Name != "" {
		nameBox, err := e.cipher.Encrypt(input.Name)
		if err != nil {
			return nil, err
		}
		user.Name = nameBox.Ciphertext
		user.NameIV = nameBox.IV
		changed = append(changed, "name")
	}

	if input.Email != "" && input.Email != user.Email {
		user.Email = input.Email
		changed = append(changed, "email")
	}

	user.UpdatedAt = time.Now().UTC()

	if err := e.directory.Save(ctx, user); err != nil {
		return nil, directoryError(err)
	}

	if containsField(changed, "password") {
		e.metricInc(MetricPasswordChangeSuccess)
	}
	e.metricInc(MetricProfileUpdate)
	e.emitAudit(ctx, auditEventProfileUpdate, true, user.ID, user.Email, nil, func() map[string]string {
		return map[string]string{"fields": strings.Join(changed, ",")}
	})

	return e.profileFromUser(user)
}

// rotatePassword applies the composition policy and the reuse check,
// then installs the new hash and trims the history window.
func (e *Engine) rotatePassword(ctx context.Context, user *User, plainPassword string) error {
	if !password.ValidatePolicy(plainPassword) {
		return ErrPasswordPolicy
	}

	for _, previousHash := range user.PasswordHistory {
		match, err := e.hasher.Verify(plainPassword, previousHash)
		if err != nil {
			return err
		}
		if match {
			e.metricInc(MetricPasswordChangeReuseRejected)
			e.emitAudit(ctx, auditEventPasswordChangeReuse, false, user.ID, user.Email, ErrPasswordReuse, nil)
			return ErrPasswordReuse
		}
	}

	hash, err := e.hasher.Hash(plainPassword)
	if err != nil {
		return err
	}

	user.SetPassword(hash, e.config.Password.HistoryDepth, time.Now().UTC())
	return nil
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
