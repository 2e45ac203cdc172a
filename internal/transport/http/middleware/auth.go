package middleware

import (
	"context"
	"net/http"
	"strings"

	"staffing/internal/domain/auth"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// TokenVerifier is satisfied by *auth.Service.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth attaches the caller when a valid bearer token is present. Requests
// without one pass through anonymous; RequirePermission rejects them.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil || !auth.ValidRole(claims.Role) {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), auth.UserContext{
				Username: claims.Username,
				Role:     claims.Role,
			})))
		})
	}
}

func WithUser(ctx context.Context, user auth.UserContext) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}
