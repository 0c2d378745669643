package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "contact_keeper/internal/lib/logger"
	"contact_keeper/internal/models"
	"contact_keeper/internal/storage"
)

var (
	// ErrDuplicateEmail wins over ErrDuplicatePhone when both fields collide.
	ErrDuplicateEmail = errors.New("duplicate contact email")
	ErrDuplicatePhone = errors.New("duplicate contact phone")
	ErrNotOwner       = errors.New("contact owned by another user")
)

type Contacts struct {
	log     *slog.Logger
	storage ContactStorage
}

type ContactStorage interface {
	SaveContact(ctx context.Context, c models.Contact) (models.Contact, error)
	ContactByID(ctx context.Context, id int64) (models.Contact, error)
	ContactsByOwner(ctx context.Context, ownerID int64) ([]models.Contact, error)
	FindDuplicates(ctx context.Context, ownerID int64, email, phone *string, excludeID int64) ([]models.Contact, error)
	UpdateContact(ctx context.Context, id int64, patch models.ContactPatch) (models.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}

func New(log *slog.Logger, storage ContactStorage) *Contacts {
	return &Contacts{
		log:     log,
		storage: storage,
	}
}

// List returns the caller's contacts in stored order. An empty result is not
// an error here; the handler reports it to the client.
func (c *Contacts) List(ctx context.Context, ownerID int64) ([]models.Contact, error) {
	const op = "contacts.List"

	found, err := c.storage.ContactsByOwner(ctx, ownerID)
	if err != nil {
		c.log.Error("failed to list contacts", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return found, nil
}

// Create inserts a contact owned by the caller after checking that no sibling
// contact shares the email or phone.
func (c *Contacts) Create(ctx context.Context, ownerID int64, name, email, phone, ctype string) (models.Contact, error) {
	const op = "contacts.Create"

	log := c.log.With(slog.String("op", op))

	if err := c.checkDuplicates(ctx, ownerID, &email, &phone, 0); err != nil {
		return models.Contact{}, err
	}

	contact, err := c.storage.SaveContact(ctx, models.Contact{
		UserID: ownerID,
		Name:   name,
		Email:  email,
		Phone:  phone,
		Type:   ctype,
	})
	if err != nil {
		log.Error("failed to save contact", sl.Err(err))
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("contact created", slog.Int64("id", contact.ID))

	return contact, nil
}

// Update applies a partial field set to the caller's contact. The duplicate
// scan runs against the submitted values over the caller's other contacts.
func (c *Contacts) Update(ctx context.Context, ownerID, id int64, patch models.ContactPatch) (models.Contact, error) {
	const op = "contacts.Update"

	log := c.log.With(slog.String("op", op))

	contact, err := c.storage.ContactByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrContactNotFound) {
			return models.Contact{}, storage.ErrContactNotFound
		}

		log.Error("failed to fetch contact", sl.Err(err))
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	if contact.UserID != ownerID {
		log.Warn("unauthorized update attempt", slog.Int64("id", id), slog.Int64("uid", ownerID))
		return models.Contact{}, ErrNotOwner
	}

	if err := c.checkDuplicates(ctx, ownerID, patch.Email, patch.Phone, id); err != nil {
		return models.Contact{}, err
	}

	updated, err := c.storage.UpdateContact(ctx, id, patch)
	if err != nil {
		log.Error("failed to update contact", sl.Err(err))
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("contact updated", slog.Int64("id", id))

	return updated, nil
}

// Delete removes the caller's contact and returns its last representation.
func (c *Contacts) Delete(ctx context.Context, ownerID, id int64) (models.Contact, error) {
	const op = "contacts.Delete"

	log := c.log.With(slog.String("op", op))

	contact, err := c.storage.ContactByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrContactNotFound) {
			return models.Contact{}, storage.ErrContactNotFound
		}

		log.Error("failed to fetch contact", sl.Err(err))
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	if contact.UserID != ownerID {
		log.Warn("unauthorized delete attempt", slog.Int64("id", id), slog.Int64("uid", ownerID))
		return models.Contact{}, ErrNotOwner
	}

	if err := c.storage.DeleteContact(ctx, id); err != nil {
		log.Error("failed to delete contact", sl.Err(err))
		return models.Contact{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("contact deleted", slog.Int64("id", id))

	return contact, nil
}

func (c *Contacts) checkDuplicates(ctx context.Context, ownerID int64, email, phone *string, excludeID int64) error {
	const op = "contacts.checkDuplicates"

	if email == nil && phone == nil {
		return nil
	}

	dups, err := c.storage.FindDuplicates(ctx, ownerID, email, phone, excludeID)
	if err != nil {
		c.log.Error("failed to check duplicates", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(dups) == 0 {
		return nil
	}

	// Email takes priority when both fields collide.
	if email != nil {
		for _, d := range dups {
			if d.Email == *email {
				return ErrDuplicateEmail
			}
		}
	}

	return ErrDuplicatePhone
}
