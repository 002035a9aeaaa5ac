package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const adminClaimsKey contextKey = "adminClaims"

// AdminJWT enforces a simple HMAC-signed JWT for admin endpoints. The token
// carries an explicit expiry; there is no ambient "logged in" flag anywhere.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "admin auth disabled", http.StatusUnauthorized)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := ParseAdminToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseAdminToken validates an admin session token and returns its claims.
// Expiry is enforced by the jwt library during parsing.
func ParseAdminToken(secret, tokenString string) (jwt.RegisteredClaims, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return jwt.RegisteredClaims{}, err
	}
	if !token.Valid {
		return jwt.RegisteredClaims{}, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// AdminClaimsFromContext returns admin JWT claims if present.
func AdminClaimsFromContext(ctx context.Context) (jwt.RegisteredClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(jwt.RegisteredClaims)
	return claims, ok
}

// AdminSubjectFromContext returns the authenticated admin identity.
func AdminSubjectFromContext(ctx context.Context) (string, bool) {
	claims, ok := AdminClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}

// IsAdmin is the capability check callers use instead of inspecting claims.
func IsAdmin(ctx context.Context) bool {
	_, ok := AdminClaimsFromContext(ctx)
	return ok
}
