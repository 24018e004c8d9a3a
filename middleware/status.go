package middleware

import (
	"errors"
	"net/http"

	shopauth "github.com/mercato/shopauth"
)

// StatusCode maps an engine error to the HTTP status a handler should
// respond with. Unknown errors map to 500.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, shopauth.ErrPasswordPolicy),
		errors.Is(err, shopauth.ErrPasswordReuse),
		errors.Is(err, shopauth.ErrVerificationInvalid):
		return http.StatusBadRequest
	case errors.Is(err, shopauth.ErrInvalidCredentials),
		errors.Is(err, shopauth.ErrSessionInvalid),
		errors.Is(err, shopauth.ErrResetTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, shopauth.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, shopauth.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, shopauth.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, shopauth.ErrAccountLocked):
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}
