package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/maktse/pollloop-backend/db"
	"github.com/maktse/pollloop-backend/db/model"
	"github.com/maktse/pollloop-backend/env"
	"gorm.io/gorm"
)

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie("accessToken"); err == nil {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); len(h) > 7 && h[:7] == "Bearer " {
		return h[7:]
	}
	return ""
}

func resolveUser(r *http.Request) (*model.User, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return nil, nil
	}
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return env.HS256_SECRET, nil
	})
	if err != nil || !t.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || claims["aud"] != r.Context().Value("deviceIP") {
		return nil, errors.New("invalid token")
	}
	uid, _ := claims["sub"].(string)
	var u model.User
	if err := db.GetDB(r.Context()).Preload("Sessions").First(&u, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid token")
		}
		return nil, err
	}
	ip, _ := claims["aud"].(string)
	for _, s := range u.Sessions {
		if s.IP == ip {
			return &u, nil
		}
	}
	return nil, errors.New("session does not exist")
}

// Authenticator requires a signed-in viewer and puts it on the context.
func Authenticator(logger *log.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			u, err := resolveUser(r)
			if err != nil {
				logger.Println(err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if u == nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), "user", u)
			h.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// MaybeAuthenticator resolves the viewer when credentials are present but
// lets anonymous requests through: read paths decide visibility themselves.
// A token that is present but bad is still rejected.
func MaybeAuthenticator(logger *log.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			u, err := resolveUser(r)
			if err != nil {
				logger.Println(err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := r.Context()
			if u != nil {
				ctx = context.WithValue(ctx, "user", u)
			}
			h.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
