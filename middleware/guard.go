package middleware

import (
	"context"
	"net/http"
	"strings"

	shopauth "github.com/mercato/shopauth"
)

// SessionCookieName is the cookie the guards look for before falling
// back to the Authorization header.
const SessionCookieName = "shopauth_session"

type authResultContextKey struct{}

// AuthResultFromContext returns the identity a guard stored for this
// request, if any.
func AuthResultFromContext(ctx context.Context) (*shopauth.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*shopauth.AuthResult)
	return res, ok
}

// Guard returns middleware that authenticates the request's session
// token and injects the resulting identity into the request context.
func Guard(engine *shopauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := sessionToken(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := engine.Authenticate(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns middleware that authenticates the request like
// [Guard] and then rejects callers without the admin role.
func RequireAdmin(engine *shopauth.Engine) func(http.Handler) http.Handler {
	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := AuthResultFromContext(r.Context())
			if !ok || !res.Admin {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func sessionToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
