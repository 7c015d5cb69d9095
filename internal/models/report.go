package models

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/Dan9191/loan-service/internal/billing"
)

// LoanReport is a loan with its balance figures
type LoanReport struct {
	Loan
	billing.LoanBalance
}

// ChargeReport is a pending or overdue charge with days past due
type ChargeReport struct {
	Charge
	DaysOverdue *int `json:"days_overdue"`
}

// ClientStats aggregates every loan of one client
type ClientStats struct {
	TotalLoans     int             `json:"total_loans"`
	OpenLoans      int             `json:"open_loans"`
	SettledLoans   int             `json:"settled_loans"`
	TotalLent      decimal.Decimal `json:"total_lent"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}

// ClientReport is the per-client statement
type ClientReport struct {
	Client Client       `json:"client"`
	Loans  []LoanReport `json:"loans"`
	Stats  ClientStats  `json:"stats"`
}

// DashboardCounts are the headline numbers of the dashboard
type DashboardCounts struct {
	Clients        int             `json:"clients"`
	OpenLoans      int             `json:"open_loans"`
	PendingCharges int             `json:"pending_charges"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
}

// Dashboard is the landing page payload
type Dashboard struct {
	Counts          DashboardCounts `json:"counts"`
	UpcomingCharges []Charge        `json:"upcoming_charges"`
	OverdueCharges  []Charge        `json:"overdue_charges"`
	RecentLoans     []Loan          `json:"recent_loans"`
	GeneratedOn     civil.Date      `json:"generated_on"`
}
