package remove

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"contact_keeper/internal/contacts"
	"contact_keeper/internal/http_server/middleware/authn"
	resp "contact_keeper/internal/lib/api/response"
	sl "contact_keeper/internal/lib/logger"
	"contact_keeper/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// New deletes the caller's contact and returns its last representation.
func New(log *slog.Logger, contactsService *contacts.Contacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contact.remove.New"

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

		contact, err := contactsService.Delete(r.Context(), userID, id)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrContactNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Contact not found!"))
			case errors.Is(err, contacts.ErrNotOwner):
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Un-authorized attempt!"))
			default:
				log.Error("failed to delete contact", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("Internal server error!"))
			}

			return
		}

		render.JSON(w, r, contact)
	}
}
