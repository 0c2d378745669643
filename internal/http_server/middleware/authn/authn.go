// Package authn gates protected routes on the x-auth-token bearer header and
// attaches the authenticated user id to the request context.
package authn

import (
	"context"
	"log/slog"
	"net/http"

	resp "contact_keeper/internal/lib/api/response"
	"contact_keeper/internal/lib/jwt"
	sl "contact_keeper/internal/lib/logger"

	"github.com/go-chi/render"
)

const HeaderName = "x-auth-token"

type ctxKey struct{}

func New(log *slog.Logger, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderName)

			if token == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Access denied! No token!"))

				return
			}

			userID, err := jwt.ParseToken(token, secret)
			if err != nil {
				log.Info("token rejected", sl.Err(err))

				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Invalid token!"))

				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserID returns the identity the gate attached to the context.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}
