package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/maktse/pollloop-backend/env"
)

// HS256 access tokens, bound to the device IP they were issued for.
func genAccessToken(aud, sub string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(2 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
		"iss": "https://pollloop.app",
		"aud": aud,
		"sub": sub,
	})
	return token.SignedString(env.HS256_SECRET)
}
