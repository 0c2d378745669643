package update

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"contact_keeper/internal/contacts"
	"contact_keeper/internal/http_server/middleware/authn"
	resp "contact_keeper/internal/lib/api/response"
	sl "contact_keeper/internal/lib/logger"
	"contact_keeper/internal/models"
	"contact_keeper/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// Request fields left empty are treated as not submitted and keep their
// stored values.
type Request struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
	Type  string `json:"type"`
}

var validationMessages = map[string]string{
	"Email": "Please Provide a valid email!",
}

func New(log *slog.Logger, validate *validator.Validate, contactsService *contacts.Contacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contact.update.New"

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

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, resp.Error("Contact not found!"))

			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
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

		patch := models.ContactPatch{}
		if req.Name != "" {
			patch.Name = &req.Name
		}
		if req.Email != "" {
			patch.Email = &req.Email
		}
		if req.Phone != "" {
			patch.Phone = &req.Phone
		}
		if req.Type != "" {
			patch.Type = &req.Type
		}

		contact, err := contactsService.Update(r.Context(), userID, id, patch)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrContactNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Contact not found!"))
			case errors.Is(err, contacts.ErrNotOwner):
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Un-authorized attempt!"))
			case errors.Is(err, contacts.ErrDuplicateEmail):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Duplicate update attempt! A contact with that Email already exists!"))
			case errors.Is(err, contacts.ErrDuplicatePhone):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Duplicate update attempt! A contact with that Phone Number already exists!"))
			default:
				log.Error("failed to update contact", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("Internal server error!"))
			}

			return
		}

		render.JSON(w, r, contact)
	}
}
