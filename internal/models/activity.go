package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity is one entry of the audit trail
type Activity struct {
	ID        uuid.UUID      `json:"id"`
	UserID    *uuid.UUID     `json:"user_id"`
	UserEmail string         `json:"user_email"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

// Activity actions
const (
	ActionCreate  = "CRIAR"
	ActionUpdate  = "ATUALIZAR"
	ActionDelete  = "EXCLUIR"
	ActionPayment = "PAGAMENTO"
)

// ActivityFilter holds the optional list criteria. ClientID and LoanID match
// either the entity id or the same key inside details.
type ActivityFilter struct {
	ClientID string
	LoanID   string
	Limit    int
}
