package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

type userIDKey struct{}

// UserIDFrom returns the authenticated user id stored by RequireAuth.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// RequireAuth verifies the Authorization bearer token with the shared HMAC
// secret and stores the subject claim as the user id. Every failure is a 401
// before any handler work runs.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeError(w, r, fmt.Errorf("%w: auth not configured", domain.ErrUnauthenticated), nil)
				return
			}
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			const prefix = "Bearer "
			if !strings.HasPrefix(raw, prefix) {
				writeError(w, r, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthenticated), nil)
				return
			}
			token, err := jwt.Parse(strings.TrimPrefix(raw, prefix), func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
				}
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
			if err != nil || !token.Valid {
				writeError(w, r, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated), nil)
				return
			}
			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				writeError(w, r, fmt.Errorf("%w: token missing subject", domain.ErrUnauthenticated), nil)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey{}, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
