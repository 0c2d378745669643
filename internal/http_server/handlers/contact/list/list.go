package list

import (
	"log/slog"
	"net/http"

	"contact_keeper/internal/contacts"
	"contact_keeper/internal/http_server/middleware/authn"
	resp "contact_keeper/internal/lib/api/response"
	sl "contact_keeper/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

func New(log *slog.Logger, contactsService *contacts.Contacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contact.list.New"

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

		found, err := contactsService.List(r.Context(), userID)
		if err != nil {
			log.Error("failed to list contacts", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal server error!"))

			return
		}

		// Zero contacts is a client-visible condition, not an error.
		if len(found) == 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("No contacts found!"))

			return
		}

		render.JSON(w, r, found)
	}
}
