package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"contact_keeper/internal/auth"
	resp "contact_keeper/internal/lib/api/response"
	sl "contact_keeper/internal/lib/logger"
	"contact_keeper/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
}

type Response struct {
	Token string `json:"token"`
}

var validationMessages = map[string]string{
	"Name":     "Please enter a valid name",
	"Email":    "Please enter a valid email address!",
	"Password": "Please enter a valid password with atleast 5 or more characters!",
}

// EventPublisher announces new registrations to the broker. May be nil when
// the broker is not configured.
type EventPublisher interface {
	SendEvent(ctx context.Context, event models.Event) error
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	authService *auth.Auth,
	events EventPublisher,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.register.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Info("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr, validationMessages))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		token, userID, err := authService.Register(ctx, req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrUserExists) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("User with that email already exists!"))

				return
			}

			log.Error("failed to register user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal server error!"))

			return
		}

		if events != nil {
			event := models.Event{
				Type:   "user.registered",
				UserID: userID,
				Email:  req.Email,
				At:     time.Now(),
			}
			// Best effort: a broker hiccup must not fail the registration.
			if err := events.SendEvent(ctx, event); err != nil {
				log.Error("failed to publish registration event", sl.Err(err))
			}
		}

		render.JSON(w, r, Response{Token: token})
	}
}
