package models

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dan9191/loan-service/internal/billing"
)

// Charge is one installment of a loan ("cobrança")
type Charge struct {
	ID        uuid.UUID            `json:"id"`
	LoanID    uuid.UUID            `json:"loan_id"`
	Number    int                  `json:"number"`
	Amount    decimal.Decimal      `json:"amount"`
	DueDate   civil.Date           `json:"due_date"`
	PaidOn    *civil.Date          `json:"paid_on"`
	Status    billing.ChargeStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`

	Loan *Loan `json:"loan,omitempty"`
}

// Snapshot returns the fields balance calculation needs.
func (c Charge) Snapshot() billing.ChargeSnapshot {
	return billing.ChargeSnapshot{Amount: c.Amount, Status: c.Status, PaidOn: c.PaidOn}
}

// ChargeFilter holds the optional list criteria.
type ChargeFilter struct {
	LoanID   *uuid.UUID
	Statuses []billing.ChargeStatus
	DueFrom  *civil.Date
	DueTo    *civil.Date
	Search   ClientSearch
	Limit    int
}
