// Package service holds the business rules of the loan back office. Each
// service depends on a narrow store interface implemented by
// repository.Repository.
package service

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/loan-service/internal/billing"
	"github.com/Dan9191/loan-service/internal/models"
	"github.com/Dan9191/loan-service/internal/utils"
)

// ClientStore persists clients.
type ClientStore interface {
	ListClients(ctx context.Context, search models.ClientSearch) ([]models.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	ClientCPFTaken(ctx context.Context, cpfHMAC string, except uuid.UUID) (bool, error)
	CreateClient(ctx context.Context, c *models.Client) error
	UpdateClient(ctx context.Context, c *models.Client) error
	DeleteClient(ctx context.Context, id uuid.UUID) error
	ListLoans(ctx context.Context, f models.LoanFilter) ([]models.Loan, error)
}

// LoanStore persists loans and their charge batch.
type LoanStore interface {
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	ListLoans(ctx context.Context, f models.LoanFilter) ([]models.Loan, error)
	GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	CreateLoan(ctx context.Context, l *models.Loan) error
	CreateCharges(ctx context.Context, loanID uuid.UUID, charges []models.Charge) error
	UpdateLoanStatus(ctx context.Context, id uuid.UUID, status billing.LoanStatus) error
	DeleteLoan(ctx context.Context, id uuid.UUID) error
}

// ChargeStore persists charges and payments.
type ChargeStore interface {
	ListCharges(ctx context.Context, f models.ChargeFilter) ([]models.Charge, error)
	GetCharge(ctx context.Context, id uuid.UUID) (*models.Charge, error)
	UpdateCharge(ctx context.Context, c *models.Charge) error
	MarkOverdue(ctx context.Context, today civil.Date) (int64, error)
	RecordPayment(ctx context.Context, p *models.Payment) error
	ListPayments(ctx context.Context, chargeID uuid.UUID) ([]models.Payment, error)
	LoanChargeStatuses(ctx context.Context, loanID uuid.UUID) ([]billing.ChargeStatus, error)
	UpdateLoanStatus(ctx context.Context, id uuid.UUID, status billing.LoanStatus) error
}

// ReportStore reads everything the reports aggregate.
type ReportStore interface {
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	ListLoans(ctx context.Context, f models.LoanFilter) ([]models.Loan, error)
	ListCharges(ctx context.Context, f models.ChargeFilter) ([]models.Charge, error)
	DashboardCounts(ctx context.Context) (models.DashboardCounts, error)
}

// UserStore persists back office users.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateUser(ctx context.Context, u *models.User) error
	TouchLastAccess(ctx context.Context, id uuid.UUID) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// NotificationStore persists in-app notifications.
type NotificationStore interface {
	ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
	MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ActivityStore persists the audit trail.
type ActivityStore interface {
	ListActivities(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error)
	CreateActivity(ctx context.Context, a *models.Activity) error
}

// EntityStore answers existence checks by entity kind.
type EntityStore interface {
	EntityExists(ctx context.Context, kind models.EntityKind, id uuid.UUID) (bool, error)
}

// Clock yields the current calendar date in the business time zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// NewClock returns a wall clock for loc.
func NewClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

// Today returns the current date in the clock's location.
func (c Clock) Today() civil.Date {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(now().In(loc))
}

// documents decrypts client CPFs on the way out and turns free-text searches
// into client criteria.
type documents struct {
	cipher *utils.DocumentCipher
	log    *logrus.Logger
}

func (d documents) search(q string) models.ClientSearch {
	q = strings.TrimSpace(q)
	if q == "" {
		return models.ClientSearch{}
	}
	s := models.ClientSearch{Name: q}
	if utils.LooksLikeCPF(q) {
		s.CPFHMAC = d.cipher.Index(q)
	}
	return s
}

func (d documents) reveal(c *models.Client) {
	if c == nil || c.CPF == "" {
		return
	}
	plain, err := d.cipher.Open(c.CPF)
	if err != nil {
		d.log.WithError(err).WithField("client_id", c.ID).Warn("Failed to decrypt client CPF")
		c.CPF = ""
		return
	}
	c.CPF = utils.FormatCPF(plain)
	for i := range c.Loans {
		d.reveal(c.Loans[i].Client)
	}
}

func (d documents) revealLoans(loans []models.Loan) {
	for i := range loans {
		d.reveal(loans[i].Client)
	}
}

func (d documents) revealCharges(charges []models.Charge) {
	for i := range charges {
		if charges[i].Loan != nil {
			d.reveal(charges[i].Loan.Client)
		}
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
