package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const anonymous = "unknown"

// Subject returns the "sub" claim of a bearer token for log correlation.
// The signature is NOT verified; token validation belongs to the auth service
// in front of this API.
func Subject(authorization string) string {
	token := strings.TrimSpace(authorization)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return anonymous
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return anonymous
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return anonymous
	}
	return sub
}
