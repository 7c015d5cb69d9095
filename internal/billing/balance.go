package billing

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ChargeSnapshot is the part of a charge that balance calculation needs.
type ChargeSnapshot struct {
	Amount decimal.Decimal
	Status ChargeStatus
	PaidOn *civil.Date
}

// LoanBalance summarizes how much of a loan has been paid.
type LoanBalance struct {
	PaidInstallments int             `json:"paid_installments"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	Remaining        decimal.Decimal `json:"remaining_amount"`
	SettledOn        *civil.Date     `json:"settled_on,omitempty"`
}

// Balance is the single place reports compute paid and remaining amounts.
// SettledOn is the latest payment date among paid charges.
func Balance(principal decimal.Decimal, charges []ChargeSnapshot) LoanBalance {
	b := LoanBalance{PaidAmount: decimal.Zero}
	for _, c := range charges {
		if c.Status != ChargePaid {
			continue
		}
		b.PaidInstallments++
		b.PaidAmount = b.PaidAmount.Add(c.Amount)
		if c.PaidOn != nil && (b.SettledOn == nil || c.PaidOn.After(*b.SettledOn)) {
			d := *c.PaidOn
			b.SettledOn = &d
		}
	}
	b.Remaining = principal.Sub(b.PaidAmount)
	return b
}

// AllPaid reports whether every status is PAGO. An empty list is not paid.
func AllPaid(statuses []ChargeStatus) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, s := range statuses {
		if s != ChargePaid {
			return false
		}
	}
	return true
}

// DaysOverdue returns how many days past due a charge is on today.
func DaysOverdue(due, today civil.Date) int {
	if !today.After(due) {
		return 0
	}
	return today.DaysSince(due)
}
