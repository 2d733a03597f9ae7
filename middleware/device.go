package middleware

import (
	"context"
	"net/http"
	"strings"
)

// WithDeviceInfo records the client IP; access tokens are bound to it.
func WithDeviceInfo(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ip := strings.Split(r.RemoteAddr, ":")[0]
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
		ctx := context.WithValue(r.Context(), "deviceIP", ip)
		h.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}
