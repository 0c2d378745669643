package me

import (
	"errors"
	"log/slog"
	"net/http"

	"contact_keeper/internal/auth"
	"contact_keeper/internal/http_server/middleware/authn"
	resp "contact_keeper/internal/lib/api/response"
	sl "contact_keeper/internal/lib/logger"
	"contact_keeper/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// New returns the authenticated user's record, without the password hash.
func New(log *slog.Logger, authService *auth.Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.me.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID, ok := authn.UserID(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("Invalid token!"))

			return
		}

		user, err := authService.UserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Invalid token!"))

				return
			}

			log.Error("failed to get user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal server error!"))

			return
		}

		render.JSON(w, r, user)
	}
}
