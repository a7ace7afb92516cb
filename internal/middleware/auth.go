package middleware

import (
	"context"
	"errors"
	"net/http"

	"spareparts-be/internal/auth"
	"spareparts-be/internal/logger"
	"spareparts-be/internal/user"
	"spareparts-be/internal/utils"

	"go.uber.org/zap"
)

// AuthMiddleware resolves the caller from the access token. Requests without
// a token pass through anonymously; a token that fails validation is rejected.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ParseJWT(tokenStr)
		if err != nil {
			logger.FromCtx(r.Context()).Warn("rejected access token",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Username, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountLookup loads the current state of an authenticated account.
type AccountLookup interface {
	Get(ctx context.Context, id int64) (*user.User, error)
}

// ActiveAccount re-reads the caller's account on every authenticated request.
// Deleted or deactivated accounts are rejected, and the stored role replaces
// the one carried by the token.
func ActiveAccount(accounts AccountLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID, ok := utils.GetUserIDFromContext(ctx)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			log := logger.FromCtx(ctx)

			u, err := accounts.Get(ctx, userID)
			if errors.Is(err, user.ErrUserNotFound) {
				log.Warn("token for unknown account")
				utils.WriteJSONError(w, "account no longer exists", http.StatusUnauthorized)
				return
			}
			if err != nil {
				log.Error("failed to load account", zap.Error(err))
				utils.WriteJSONError(w, "failed to verify account", http.StatusInternalServerError)
				return
			}
			if !u.IsActive {
				log.Warn("token for inactive account")
				utils.WriteJSONError(w, "account is inactive", http.StatusUnauthorized)
				return
			}

			ctx = utils.SetUserContext(ctx, u.ID, u.Username, u.Role.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
