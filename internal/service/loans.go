package service

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/loan-service/internal/billing"
	"github.com/Dan9191/loan-service/internal/models"
	"github.com/Dan9191/loan-service/internal/utils"
)

// Loans manages loans and the charges generated for them
type Loans struct {
	store      LoanStore
	docs       documents
	activities *Activities
	log        *logrus.Logger
}

// NewLoans initializes the loan service
func NewLoans(store LoanStore, cipher *utils.DocumentCipher, activities *Activities, log *logrus.Logger) *Loans {
	return &Loans{store: store, docs: documents{cipher: cipher, log: log}, activities: activities, log: log}
}

// LoanInput holds the terms of a new loan.
type LoanInput struct {
	ClientID     uuid.UUID           `json:"client_id"`
	Amount       decimal.Decimal     `json:"amount"`
	StartDate    civil.Date          `json:"start_date"`
	Periodicity  billing.Periodicity `json:"periodicity"`
	Installments int                 `json:"installments"`
}

func (in LoanInput) plan() billing.PlanRequest {
	return billing.PlanRequest{
		Principal:   in.Amount,
		Count:       in.Installments,
		StartDate:   in.StartDate,
		Periodicity: in.Periodicity,
	}
}

// LoanQuery holds the list criteria accepted from the UI.
type LoanQuery struct {
	ClientID    *uuid.UUID
	Status      *billing.LoanStatus
	Periodicity *billing.Periodicity
	Search      string
}

// List returns loans with their client and charges.
func (s *Loans) List(ctx context.Context, q LoanQuery) ([]models.Loan, error) {
	loans, err := s.store.ListLoans(ctx, models.LoanFilter{
		ClientID:    q.ClientID,
		Status:      q.Status,
		Periodicity: q.Periodicity,
		Search:      s.docs.search(q.Search),
	})
	if err != nil {
		return nil, err
	}
	s.docs.revealLoans(loans)
	return loans, nil
}

// Get returns a loan with its client and charges sorted by due date.
func (s *Loans) Get(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	l, err := s.store.GetLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	s.docs.reveal(l.Client)
	return l, nil
}

// Create persists a loan and its installment charges. If the charges cannot
// be generated or stored the loan is deleted again and the original error is
// returned.
func (s *Loans) Create(ctx context.Context, in LoanInput) (*models.Loan, error) {
	plan := in.plan()
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	client, err := s.store.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}

	loan := &models.Loan{
		ClientID:     in.ClientID,
		Amount:       in.Amount,
		StartDate:    in.StartDate,
		Periodicity:  in.Periodicity,
		Installments: in.Installments,
		Status:       billing.LoanOpen,
	}
	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, err
	}

	charges, err := s.createCharges(ctx, loan.ID, plan)
	if err != nil {
		s.discard(ctx, loan.ID, err)
		return nil, fmt.Errorf("failed to create charges for loan %s: %w", loan.ID, err)
	}
	loan.Charges = charges
	loan.Client = client

	s.log.WithFields(logrus.Fields{
		"loan_id":      loan.ID,
		"client_id":    loan.ClientID,
		"amount":       loan.Amount.StringFixed(billing.CurrencyPlaces),
		"installments": loan.Installments,
		"periodicity":  loan.Periodicity.String(),
	}).Info("Loan created")
	s.activities.Record(ctx, models.ActionCreate, "emprestimo", loan.ID.String(), map[string]any{
		"client_id":     loan.ClientID.String(),
		"valor":         loan.Amount.StringFixed(billing.CurrencyPlaces),
		"parcelas":      loan.Installments,
		"periodicidade": loan.Periodicity.String(),
	})
	s.docs.reveal(loan.Client)
	return loan, nil
}

func (s *Loans) createCharges(ctx context.Context, loanID uuid.UUID, plan billing.PlanRequest) ([]models.Charge, error) {
	installments, err := billing.GenerateInstallments(plan)
	if err != nil {
		return nil, err
	}
	charges := make([]models.Charge, len(installments))
	for i, inst := range installments {
		charges[i] = models.Charge{
			LoanID:  loanID,
			Number:  inst.Number,
			Amount:  inst.Amount,
			DueDate: inst.DueDate,
			Status:  inst.Status,
		}
	}
	if err := s.store.CreateCharges(ctx, loanID, charges); err != nil {
		return nil, err
	}
	return charges, nil
}

// discard deletes a loan whose charges failed. A failure here is logged only.
func (s *Loans) discard(ctx context.Context, loanID uuid.UUID, cause error) {
	entry := s.log.WithField("loan_id", loanID).WithField("cause", cause.Error())
	if err := s.store.DeleteLoan(context.WithoutCancel(ctx), loanID); err != nil {
		entry.WithError(err).Error("Failed to delete loan after charge creation failed")
		return
	}
	entry.Warn("Loan deleted after charge creation failed")
}

// UpdateStatus sets the lifecycle status of a loan.
func (s *Loans) UpdateStatus(ctx context.Context, id uuid.UUID, status billing.LoanStatus) (*models.Loan, error) {
	if _, err := billing.ParseLoanStatus(string(status)); err != nil {
		return nil, err
	}
	if err := s.store.UpdateLoanStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"loan_id": id, "status": status}).Info("Loan status updated")
	s.activities.Record(ctx, models.ActionUpdate, "emprestimo", id.String(), map[string]any{"status": string(status)})
	return s.Get(ctx, id)
}

// Delete removes a loan and its charges.
func (s *Loans) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteLoan(ctx, id); err != nil {
		return err
	}
	s.log.WithField("loan_id", id).Info("Loan deleted")
	s.activities.Record(ctx, models.ActionDelete, "emprestimo", id.String(), nil)
	return nil
}
