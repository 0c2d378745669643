package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Contact struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Type      string    `json:"type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactPatch carries the fields of a partial update. Nil means the field
// was not submitted and keeps its stored value.
type ContactPatch struct {
	Name  *string
	Email *string
	Phone *string
	Type  *string
}

// Event is published to the broker after state changes worth announcing.
type Event struct {
	Type   string    `json:"type"`
	UserID int64     `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	At     time.Time `json:"at"`
}
