package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message for a user
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationInfo is the default notification kind.
const NotificationInfo = "INFO"
