package create

import (
	"errors"
	"log/slog"
	"net/http"

	"contact_keeper/internal/contacts"
	"contact_keeper/internal/http_server/middleware/authn"
	resp "contact_keeper/internal/lib/api/response"
	sl "contact_keeper/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
	Type  string `json:"type"`
}

var validationMessages = map[string]string{
	"Name":  "Name is required!",
	"Email": "Please provide a valid email!",
	"Phone": "Phone number is required!",
}

func New(log *slog.Logger, validate *validator.Validate, contactsService *contacts.Contacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contact.create.New"

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

		contact, err := contactsService.Create(r.Context(), userID, req.Name, req.Email, req.Phone, req.Type)
		if err != nil {
			if errors.Is(err, contacts.ErrDuplicateEmail) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Duplicate entry attempt! Contact Email already exists!"))

				return
			}
			if errors.Is(err, contacts.ErrDuplicatePhone) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Duplicate entry attempt! Contact Phone Number already exists!"))

				return
			}

			log.Error("failed to create contact", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal server error!"))

			return
		}

		render.JSON(w, r, contact)
	}
}
