package shopauth

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// Admin operations double-check the actor's role inside the engine so
// that a misconfigured HTTP guard cannot expose them.

// AdminListUsers describes the adminlistusers operation and its observable behavior.
//
// AdminListUsers may return an error when input validation, dependency calls, or security checks fail.
// AdminListUsers does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AdminListUsers(ctx context.Context, actorID string, filter ListFilter) ([]*Profile, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}
	if err := e.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	users, err := e.directory.List(ctx, filter)
	if err != nil {
		return nil, directoryError(err)
	}

	profiles := make([]*Profile, 0, len(users))
	for _, user := range users {
		profile, err := e.profileFromUser(user)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// AdminGetUser describes the admingetuser operation and its observable behavior.
//
// AdminGetUser may return an error when input validation, dependency calls, or security checks fail.
// AdminGetUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AdminGetUser(ctx context.Context, actorID, userID string) (*Profile, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}
	if err := e.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	user, err := e.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, directoryError(err)
	}

	return e.profileFromUser(user)
}

// AdminUpdateUser describes the adminupdateuser operation and its observable behavior.
//
// AdminUpdateUser may return an error when input validation, dependency calls, or security checks fail.
// AdminUpdateUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Name and Email keep the stored value when empty. The Admin flag is
// applied unconditionally, so demoting an administrator is expressed by
// sending Admin set to false.
func (e *Engine) AdminUpdateUser(ctx context.Context, actorID, userID string, input AdminUpdateInput) (*Profile, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}
	if err := e.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	user, err := e.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, directoryError(err)
	}

	if input.Name != "" {
		nameBox, err := e.cipher.Encrypt(input.Name)
		if err != nil {
			return nil, err
		}
		user.Name = nameBox.Ciphertext
		user.NameIV = nameBox.IV
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	user.Admin = input.Admin
	user.UpdatedAt = time.Now().UTC()

	if err := e.directory.Save(ctx, user); err != nil {
		return nil, directoryError(err)
	}

	e.emitAudit(ctx, auditEventAdminUserUpdate, true, user.ID, user.Email, nil, func() map[string]string {
		return map[string]string{
			"actor_id": actorID,
			"admin":    strconv.FormatBool(user.Admin),
		}
	})

	return e.profileFromUser(user)
}

// AdminDeleteUser describes the admindeleteuser operation and its observable behavior.
//
// AdminDeleteUser may return an error when input validation, dependency calls, or security checks fail.
// AdminDeleteUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AdminDeleteUser(ctx context.Context, actorID, userID string) error {
	if e == nil || e.directory == nil {
		return ErrEngineNotReady
	}
	if err := e.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	if err := e.directory.Delete(ctx, userID); err != nil {
		return directoryError(err)
	}

	e.metricInc(MetricAccountDeleted)
	e.emitAudit(ctx, auditEventAdminUserDelete, true, userID, "", nil, func() map[string]string {
		return map[string]string{"actor_id": actorID}
	})

	return nil
}

// AdminUnlockUser describes the adminunlockuser operation and its observable behavior.
//
// AdminUnlockUser may return an error when input validation, dependency calls, or security checks fail.
// AdminUnlockUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Unlocking is the only path out of a lockout. It clears the persisted
// failure counter and discards the rolling window state.
func (e *Engine) AdminUnlockUser(ctx context.Context, actorID, userID string) error {
	if e == nil || e.directory == nil {
		return ErrEngineNotReady
	}
	if err := e.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	user, err := e.directory.FindByID(ctx, userID)
	if err != nil {
		return directoryError(err)
	}

	user.Unlock()
	user.UpdatedAt = time.Now().UTC()

	if err := e.directory.Save(ctx, user); err != nil {
		return directoryError(err)
	}

	if e.lockout != nil {
		if err := e.lockout.Reset(ctx, user.ID); err != nil {
			return err
		}
	}

	e.metricInc(MetricAccountUnlocked)
	e.emitAudit(ctx, auditEventAccountUnlocked, true, user.ID, user.Email, nil, func() map[string]string {
		return map[string]string{"actor_id": actorID}
	})

	return nil
}

func (e *Engine) requireAdmin(ctx context.Context, actorID string) error {
	if actorID == "" {
		return ErrUnauthorized
	}

	actor, err := e.directory.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUnauthorized
		}
		return directoryError(err)
	}
	if !actor.Admin {
		return ErrUnauthorized
	}

	return nil
}
