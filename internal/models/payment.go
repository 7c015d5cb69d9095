package models

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records money received against a charge
type Payment struct {
	ID        uuid.UUID       `json:"id"`
	ChargeID  uuid.UUID       `json:"charge_id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidOn    civil.Date      `json:"paid_on"`
	Method    string          `json:"method"`
	Receipt   string          `json:"receipt,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
