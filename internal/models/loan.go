package models

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dan9191/loan-service/internal/billing"
)

// Loan represents a credit extended to a client
type Loan struct {
	ID           uuid.UUID           `json:"id"`
	ClientID     uuid.UUID           `json:"client_id"`
	Amount       decimal.Decimal     `json:"amount"`
	StartDate    civil.Date          `json:"start_date"`
	Periodicity  billing.Periodicity `json:"periodicity"`
	Installments int                 `json:"installments"`
	Status       billing.LoanStatus  `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	Client  *Client  `json:"client,omitempty"`
	Charges []Charge `json:"charges,omitempty"`
}

// Balance computes paid and remaining amounts from the loaded charges.
func (l Loan) Balance() billing.LoanBalance {
	snaps := make([]billing.ChargeSnapshot, len(l.Charges))
	for i, c := range l.Charges {
		snaps[i] = c.Snapshot()
	}
	return billing.Balance(l.Amount, snaps)
}

// LoanFilter holds the optional list criteria.
type LoanFilter struct {
	ClientID    *uuid.UUID
	Status      *billing.LoanStatus
	Periodicity *billing.Periodicity
	Search      ClientSearch
	StartFrom   *civil.Date
	StartTo     *civil.Date
	// RecentFirst orders by creation time instead of start date.
	RecentFirst bool
	Limit       int
}
