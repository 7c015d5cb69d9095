package service

import (
	"context"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/billing"
	"github.com/Dan9191/loan-service/internal/models"
	"github.com/Dan9191/loan-service/internal/utils"
)

// DefaultPaymentMethod is used when a payment names no method.
const DefaultPaymentMethod = "DINHEIRO"

// Charges manages installments and the payments made against them
type Charges struct {
	store      ChargeStore
	docs       documents
	activities *Activities
	clock      Clock
	log        *logrus.Logger
}

// NewCharges initializes the charge service
func NewCharges(store ChargeStore, cipher *utils.DocumentCipher, activities *Activities, clock Clock, log *logrus.Logger) *Charges {
	return &Charges{store: store, docs: documents{cipher: cipher, log: log}, activities: activities, clock: clock, log: log}
}

// ChargeQuery holds the list criteria accepted from the UI.
type ChargeQuery struct {
	LoanID   *uuid.UUID
	Statuses []billing.ChargeStatus
	DueFrom  *civil.Date
	DueTo    *civil.Date
	Search   string
}

// ChargeUpdate carries the fields a PUT may change. Nil means unchanged.
type ChargeUpdate struct {
	Amount  *decimal.Decimal      `json:"amount"`
	DueDate *civil.Date           `json:"due_date"`
	PaidOn  *civil.Date           `json:"paid_on"`
	Status  *billing.ChargeStatus `json:"status"`
}

// PaymentInput records money received for a charge. Amount defaults to the
// charge amount and PaidOn to today.
type PaymentInput struct {
	ChargeID uuid.UUID        `json:"charge_id"`
	Amount   *decimal.Decimal `json:"amount"`
	PaidOn   *civil.Date      `json:"paid_on"`
	Method   string           `json:"method"`
	Receipt  string           `json:"receipt"`
	Notes    string           `json:"notes"`
}

// Today returns the current business date.
func (s *Charges) Today() civil.Date {
	return s.clock.Today()
}

// List returns charges with their loan and client, ordered by due date.
func (s *Charges) List(ctx context.Context, q ChargeQuery) ([]models.Charge, error) {
	charges, err := s.store.ListCharges(ctx, models.ChargeFilter{
		LoanID:   q.LoanID,
		Statuses: q.Statuses,
		DueFrom:  q.DueFrom,
		DueTo:    q.DueTo,
		Search:   s.docs.search(q.Search),
	})
	if err != nil {
		return nil, err
	}
	s.docs.revealCharges(charges)
	return charges, nil
}

// Get returns a charge with its loan and client.
func (s *Charges) Get(ctx context.Context, id uuid.UUID) (*models.Charge, error) {
	c, err := s.store.GetCharge(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Loan != nil {
		s.docs.reveal(c.Loan.Client)
	}
	return c, nil
}

// Update edits a charge. When it becomes PAGO and every charge of the loan is
// paid, the loan is settled.
func (s *Charges) Update(ctx context.Context, id uuid.UUID, in ChargeUpdate) (*models.Charge, error) {
	c, err := s.store.GetCharge(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		if err := validAmount("amount", *in.Amount); err != nil {
			return nil, err
		}
		c.Amount = *in.Amount
	}
	if in.DueDate != nil {
		if !in.DueDate.IsValid() {
			return nil, apperrors.Invalid("due_date", "invalid date")
		}
		c.DueDate = *in.DueDate
	}
	if in.Status != nil {
		st, err := billing.ParseChargeStatus(string(*in.Status))
		if err != nil {
			return nil, err
		}
		c.Status = st
	}
	if in.PaidOn != nil {
		if !in.PaidOn.IsValid() {
			return nil, apperrors.Invalid("paid_on", "invalid date")
		}
		c.PaidOn = in.PaidOn
	}
	switch {
	case c.Status == billing.ChargePaid && c.PaidOn == nil:
		today := s.clock.Today()
		c.PaidOn = &today
	case c.Status != billing.ChargePaid:
		c.PaidOn = nil
	}

	if err := s.store.UpdateCharge(ctx, c); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"charge_id": c.ID, "status": c.Status}).Info("Charge updated")
	s.activities.Record(ctx, models.ActionUpdate, "cobranca", c.ID.String(), map[string]any{
		"loan_id": c.LoanID.String(),
		"status":  string(c.Status),
	})

	if c.Status == billing.ChargePaid {
		if err := s.settleLoan(ctx, c); err != nil {
			return nil, err
		}
	}
	if c.Loan != nil {
		s.docs.reveal(c.Loan.Client)
	}
	return c, nil
}

// RegisterPayment stores a payment and marks its charge paid. Paying a paid
// charge is a conflict.
func (s *Charges) RegisterPayment(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	if in.ChargeID == uuid.Nil {
		return nil, apperrors.Invalid("charge_id", "is required")
	}
	c, err := s.store.GetCharge(ctx, in.ChargeID)
	if err != nil {
		return nil, err
	}
	if c.Status == billing.ChargePaid {
		return nil, apperrors.Conflict("charge already paid")
	}

	p := &models.Payment{
		ChargeID: c.ID,
		Amount:   c.Amount,
		PaidOn:   s.clock.Today(),
		Method:   strings.ToUpper(strings.TrimSpace(in.Method)),
		Receipt:  strings.TrimSpace(in.Receipt),
		Notes:    strings.TrimSpace(in.Notes),
	}
	if in.Amount != nil {
		if err := validAmount("amount", *in.Amount); err != nil {
			return nil, err
		}
		if in.Amount.LessThan(c.Amount) {
			return nil, apperrors.Invalid("amount", "must cover the charge amount %s", c.Amount.StringFixed(billing.CurrencyPlaces))
		}
		p.Amount = *in.Amount
	}
	if in.PaidOn != nil {
		if !in.PaidOn.IsValid() {
			return nil, apperrors.Invalid("paid_on", "invalid date")
		}
		p.PaidOn = *in.PaidOn
	}
	if p.Method == "" {
		p.Method = DefaultPaymentMethod
	}

	if err := s.store.RecordPayment(ctx, p); err != nil {
		return nil, err
	}
	c.Status = billing.ChargePaid
	c.PaidOn = &p.PaidOn

	s.log.WithFields(logrus.Fields{
		"charge_id": c.ID,
		"loan_id":   c.LoanID,
		"amount":    p.Amount.StringFixed(billing.CurrencyPlaces),
	}).Info("Payment registered")
	s.activities.Record(ctx, models.ActionPayment, "cobranca", c.ID.String(), map[string]any{
		"loan_id": c.LoanID.String(),
		"valor":   p.Amount.StringFixed(billing.CurrencyPlaces),
		"metodo":  p.Method,
	})

	if err := s.settleLoan(ctx, c); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPayments returns the payments of a charge.
func (s *Charges) ListPayments(ctx context.Context, chargeID uuid.UUID) ([]models.Payment, error) {
	if _, err := s.store.GetCharge(ctx, chargeID); err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, chargeID)
}

// MarkOverdue moves pending charges due before today to VENCIDO.
func (s *Charges) MarkOverdue(ctx context.Context, today civil.Date) (int64, error) {
	n, err := s.store.MarkOverdue(ctx, today)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"today": today.String(), "updated": n}).Info("Overdue charges marked")
	return n, nil
}

// settleLoan marks the loan of c QUITADO once all of its charges are paid.
func (s *Charges) settleLoan(ctx context.Context, c *models.Charge) error {
	statuses, err := s.store.LoanChargeStatuses(ctx, c.LoanID)
	if err != nil {
		return err
	}
	if !billing.AllPaid(statuses) {
		return nil
	}
	if err := s.store.UpdateLoanStatus(ctx, c.LoanID, billing.LoanSettled); err != nil {
		return err
	}
	if c.Loan != nil {
		c.Loan.Status = billing.LoanSettled
	}
	s.log.WithField("loan_id", c.LoanID).Info("Loan settled")
	return nil
}

func validAmount(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return apperrors.Invalid(field, "must be greater than zero")
	}
	if !v.Equal(v.Round(billing.CurrencyPlaces)) {
		return apperrors.Invalid(field, "must have at most %d decimal places", billing.CurrencyPlaces)
	}
	return nil
}
