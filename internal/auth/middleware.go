package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

type claimsKey struct{}

// RequireEditor guards mutating routes with a bearer token carrying the
// editor role. A nil manager disables the check.
func RequireEditor(tokens *jwt.Manager, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tokens == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Parse "Bearer <token>"
			parts := strings.Split(r.Header.Get("Authorization"), " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httperrors.RespondUnauthorized(w)
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("token validation failed")
				httperrors.RespondUnauthorized(w)
				return
			}
			if claims.Role != jwt.RoleEditor {
				logger.Warn().Str("subject", claims.Subject).Str("role", claims.Role).Msg("editor role required")
				httperrors.RespondUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the editor claims injected by RequireEditor.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}
