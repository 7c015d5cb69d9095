// Package mocks provides testify mocks of the service store interfaces.
package mocks

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Dan9191/loan-service/internal/billing"
	"github.com/Dan9191/loan-service/internal/models"
)

// MockStore implements every store interface of the service package.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListClients(ctx context.Context, search models.ClientSearch) ([]models.Client, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *MockStore) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockStore) ClientCPFTaken(ctx context.Context, cpfHMAC string, except uuid.UUID) (bool, error) {
	args := m.Called(ctx, cpfHMAC, except)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) CreateClient(ctx context.Context, c *models.Client) error {
	args := m.Called(ctx, c)
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockStore) UpdateClient(ctx context.Context, c *models.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockStore) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ListLoans(ctx context.Context, f models.LoanFilter) ([]models.Loan, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockStore) GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockStore) CreateLoan(ctx context.Context, l *models.Loan) error {
	args := m.Called(ctx, l)
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockStore) CreateCharges(ctx context.Context, loanID uuid.UUID, charges []models.Charge) error {
	return m.Called(ctx, loanID, charges).Error(0)
}

func (m *MockStore) UpdateLoanStatus(ctx context.Context, id uuid.UUID, status billing.LoanStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockStore) DeleteLoan(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ListCharges(ctx context.Context, f models.ChargeFilter) ([]models.Charge, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Charge), args.Error(1)
}

func (m *MockStore) GetCharge(ctx context.Context, id uuid.UUID) (*models.Charge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Charge), args.Error(1)
}

func (m *MockStore) UpdateCharge(ctx context.Context, c *models.Charge) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockStore) MarkOverdue(ctx context.Context, today civil.Date) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) RecordPayment(ctx context.Context, p *models.Payment) error {
	args := m.Called(ctx, p)
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockStore) ListPayments(ctx context.Context, chargeID uuid.UUID) ([]models.Payment, error) {
	args := m.Called(ctx, chargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockStore) LoanChargeStatuses(ctx context.Context, loanID uuid.UUID) ([]billing.ChargeStatus, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.ChargeStatus), args.Error(1)
}

func (m *MockStore) DashboardCounts(ctx context.Context) (models.DashboardCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.DashboardCounts), args.Error(1)
}

func (m *MockStore) CreateUser(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStore) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) UpdateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockStore) TouchLastAccess(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockStore) MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockStore) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) ListActivities(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

func (m *MockStore) CreateActivity(ctx context.Context, a *models.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockStore) EntityExists(ctx context.Context, kind models.EntityKind, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}
