package middleware

import (
	"net/http"

	"github.com/mercadia/mercadia-backend/api/responses"
	pkgauth "github.com/mercadia/mercadia-backend/pkg/auth"
	"github.com/mercadia/mercadia-backend/pkg/config"
	pkgerrors "github.com/mercadia/mercadia-backend/pkg/errors"
	"github.com/mercadia/mercadia-backend/pkg/logger"
	pkgredis "github.com/mercadia/mercadia-backend/pkg/redis"
)

// Auth resolves the authenticated customer from the bearer token and seeds
// the request context with the user id. Every failure mode produces the same
// 401 body the storefront matches on.
func Auth(cfg config.JWTConfig, sessions pkgredis.SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := pkgauth.BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if sessions != nil && claims.ID != "" {
				ok, err := sessions.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithUserID(r.Context(), claims.UserID.String())
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
