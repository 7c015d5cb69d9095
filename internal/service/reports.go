package service

import (
	"context"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/loan-service/internal/billing"
	"github.com/Dan9191/loan-service/internal/models"
	"github.com/Dan9191/loan-service/internal/utils"
)

// Dashboard list sizes
const (
	dashboardListLimit = 5
	upcomingWindowDays = 7
)

// StatusAll selects both pending and overdue charges in PendingCharges.
const StatusAll = "TODOS"

// Reports builds read-only aggregates. Every balance goes through
// billing.Balance.
type Reports struct {
	store ReportStore
	docs  documents
	clock Clock
	log   *logrus.Logger
}

// NewReports initializes the report service
func NewReports(store ReportStore, cipher *utils.DocumentCipher, clock Clock, log *logrus.Logger) *Reports {
	return &Reports{store: store, docs: documents{cipher: cipher, log: log}, clock: clock, log: log}
}

// OpenLoans lists loans still being paid, with their balance.
func (s *Reports) OpenLoans(ctx context.Context, busca string) ([]models.LoanReport, error) {
	status := billing.LoanOpen
	return s.loanReports(ctx, models.LoanFilter{Status: &status, Search: s.docs.search(busca)})
}

// SettledLoans lists settled loans started within [from, to]; either bound
// may be nil. SettledOn is the latest payment date.
func (s *Reports) SettledLoans(ctx context.Context, busca string, from, to *civil.Date) ([]models.LoanReport, error) {
	status := billing.LoanSettled
	return s.loanReports(ctx, models.LoanFilter{
		Status:    &status,
		Search:    s.docs.search(busca),
		StartFrom: from,
		StartTo:   to,
	})
}

func (s *Reports) loanReports(ctx context.Context, f models.LoanFilter) ([]models.LoanReport, error) {
	loans, err := s.store.ListLoans(ctx, f)
	if err != nil {
		return nil, err
	}
	s.docs.revealLoans(loans)
	out := make([]models.LoanReport, len(loans))
	for i, l := range loans {
		out[i] = models.LoanReport{Loan: l, LoanBalance: l.Balance()}
	}
	return out, nil
}

// PendingCharges lists unpaid charges. status may be PENDENTE, VENCIDO or
// empty/TODOS for both. Overdue charges carry the number of days past due.
func (s *Reports) PendingCharges(ctx context.Context, busca, status string) ([]models.ChargeReport, error) {
	statuses := []billing.ChargeStatus{billing.ChargePending, billing.ChargeOverdue}
	if status = strings.TrimSpace(status); status != "" && !strings.EqualFold(status, StatusAll) {
		st, err := billing.ParseChargeStatus(status)
		if err != nil {
			return nil, err
		}
		statuses = []billing.ChargeStatus{st}
	}

	charges, err := s.store.ListCharges(ctx, models.ChargeFilter{Statuses: statuses, Search: s.docs.search(busca)})
	if err != nil {
		return nil, err
	}
	s.docs.revealCharges(charges)

	today := s.clock.Today()
	out := make([]models.ChargeReport, len(charges))
	for i, c := range charges {
		out[i] = models.ChargeReport{Charge: c}
		if c.Status == billing.ChargeOverdue {
			days := billing.DaysOverdue(c.DueDate, today)
			out[i].DaysOverdue = &days
		}
	}
	return out, nil
}

// ClientReport returns the statement of one client.
func (s *Reports) ClientReport(ctx context.Context, id uuid.UUID) (*models.ClientReport, error) {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	s.docs.reveal(c)

	loans, err := s.store.ListLoans(ctx, models.LoanFilter{ClientID: &id})
	if err != nil {
		return nil, err
	}

	report := &models.ClientReport{
		Client: *c,
		Loans:  make([]models.LoanReport, len(loans)),
		Stats: models.ClientStats{
			TotalLent:      decimal.Zero,
			TotalPaid:      decimal.Zero,
			TotalRemaining: decimal.Zero,
		},
	}
	for i, l := range loans {
		l.Client = nil
		bal := l.Balance()
		report.Loans[i] = models.LoanReport{Loan: l, LoanBalance: bal}

		st := &report.Stats
		st.TotalLoans++
		if l.Status == billing.LoanSettled {
			st.SettledLoans++
		} else {
			st.OpenLoans++
		}
		st.TotalLent = st.TotalLent.Add(l.Amount)
		st.TotalPaid = st.TotalPaid.Add(bal.PaidAmount)
		st.TotalRemaining = st.TotalRemaining.Add(bal.Remaining)
	}
	return report, nil
}

// Dashboard returns counts, charges due within the next week, overdue
// charges and the latest loans.
func (s *Reports) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	today := s.clock.Today()

	counts, err := s.store.DashboardCounts(ctx)
	if err != nil {
		return nil, err
	}

	until := today.AddDays(upcomingWindowDays)
	upcoming, err := s.store.ListCharges(ctx, models.ChargeFilter{
		Statuses: []billing.ChargeStatus{billing.ChargePending},
		DueFrom:  &today,
		DueTo:    &until,
		Limit:    dashboardListLimit,
	})
	if err != nil {
		return nil, err
	}

	overdue, err := s.store.ListCharges(ctx, models.ChargeFilter{
		Statuses: []billing.ChargeStatus{billing.ChargeOverdue},
		Limit:    dashboardListLimit,
	})
	if err != nil {
		return nil, err
	}

	recent, err := s.store.ListLoans(ctx, models.LoanFilter{RecentFirst: true, Limit: dashboardListLimit})
	if err != nil {
		return nil, err
	}

	s.docs.revealCharges(upcoming)
	s.docs.revealCharges(overdue)
	s.docs.revealLoans(recent)
	return &models.Dashboard{
		Counts:          counts,
		UpcomingCharges: upcoming,
		OverdueCharges:  overdue,
		RecentLoans:     recent,
		GeneratedOn:     today,
	}, nil
}
