package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/openmenu/storefront/internal/session"
)

// CookieName carries the storefront session identifier.
const CookieName = "storefront_session"

type ctxKeySession struct{}

// Session middleware resolves the browser's session from its cookie,
// issuing a fresh identifier when the cookie is missing or malformed, and
// injects the session into the request context.
func Session(store *session.Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionID(r)
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sess := store.GetOrCreate(id)
			ctx := context.WithValue(r.Context(), ctxKeySession{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

// SessionFrom returns the session injected by the Session middleware, nil
// when the middleware did not run.
func SessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(ctxKeySession{}).(*session.Session)
	return s
}
