package middleware

import (
	"context"
	"net/http"

	"github.com/natichat/natichat/internal/service/session"
)

// CookieName carries the self-assigned user identity. No authentication is
// attached to it.
const CookieName = "chat_uid"

type ctxKey int

const identityKey ctxKey = iota

// Identity is the resolved user identity for a request.
type Identity struct {
	UserID      string
	DisplayName string
}

// WithIdentity resolves (or mints) the caller's identity from the chat_uid
// cookie and stores it in the request context.
func WithIdentity(registry *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var existing string
			if c, err := r.Cookie(CookieName); err == nil {
				existing = c.Value
			}

			userID, displayName := registry.EnsureSession(existing)
			if userID != existing {
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    userID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), identityKey, Identity{
				UserID:      userID,
				DisplayName: displayName,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
