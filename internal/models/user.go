package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an operator of the back office.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Not serialized
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	LastAccess   *time.Time `json:"last_access,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Roles
const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERADOR"
)
