package middleware

import (
	"context"
	"net/http"

	"github.com/cafesol/cafeapp/api/responses"
	"github.com/cafesol/cafeapp/internal/session"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/logger"
)

type sessionCtxKey struct{}

// SessionCookieOptions controls the session cookie the middleware issues.
type SessionCookieOptions struct {
	Name   string
	Secure bool
}

// Session resolves the browsing session from the request cookie, minting a
// new session (and cookie) when none exists or the old one expired. The
// session is attached to the request context for handlers downstream.
func Session(manager *session.Manager, opts SessionCookieOptions, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cookieID string
			if cookie, err := r.Cookie(opts.Name); err == nil {
				cookieID = cookie.Value
			}

			sess, err := manager.GetOrCreate(r.Context(), cookieID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve session"))
				return
			}

			if sess.ID != cookieID {
				http.SetCookie(w, &http.Cookie{
					Name:     opts.Name,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sess.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session attached by the Session middleware.
func SessionFromContext(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionCtxKey{}).(*session.Session); ok {
		return s
	}
	return nil
}

// SessionIDFromContext returns the session ID, or "" outside the middleware.
func SessionIDFromContext(ctx context.Context) string {
	if s := SessionFromContext(ctx); s != nil {
		return s.ID
	}
	return ""
}
