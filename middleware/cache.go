package middleware

import "net/http"

// NoCache keeps intermediaries from serving stale access decisions.
func NoCache(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		h.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
