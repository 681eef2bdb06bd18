package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/paytrack/authd/internal/domain"
	"github.com/paytrack/authd/internal/service"
	"github.com/paytrack/authd/pkg/httpx"
	"github.com/paytrack/authd/pkg/slogx"
)

type principalKey struct{}

func contextWithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// BearerMiddleware resolves the Authorization bearer token to a principal
// via the access gate and injects it into the request context.
func BearerMiddleware(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			principal, err := auth.Identify(ctx, raw)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrNotAuthenticated):
					writeError(w, http.StatusUnauthorized, "Not authenticated")
				case errors.Is(err, service.ErrTokenExpired):
					writeError(w, http.StatusUnauthorized, "Token is expired")
				case errors.Is(err, service.ErrUserNotFound):
					writeError(w, http.StatusNotFound, "User not found")
				default:
					log.Error("identify failed", "error", err)
					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithPrincipal(ctx, principal)))
		})
	}
}
