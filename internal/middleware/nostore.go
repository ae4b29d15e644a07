package middleware

import "net/http"

// NoStore marks responses as uncacheable. Catalog and order state must
// reflect the backend's current truth, so intermediaries may not cache it.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
