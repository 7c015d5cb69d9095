// Package billing holds the pure money and date arithmetic behind loans:
// installment schedule generation and loan balance calculation.
package billing

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/Dan9191/loan-service/internal/apperrors"
)

// CurrencyPlaces is the number of minor-unit digits kept on every amount.
const CurrencyPlaces = 2

// MaxInstallments caps the schedule length.
const MaxInstallments = 360

var minorUnit = decimal.New(1, -CurrencyPlaces)

// PlanRequest holds the terms a schedule is generated from.
type PlanRequest struct {
	Principal   decimal.Decimal
	Count       int
	StartDate   civil.Date
	Periodicity Periodicity
}

// Installment is one generated charge, not yet persisted.
type Installment struct {
	Number  int             `json:"number"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate civil.Date      `json:"due_date"`
	Status  ChargeStatus    `json:"status"`
}

// Validate checks the request without generating anything.
func (r PlanRequest) Validate() error {
	if !r.Principal.IsPositive() {
		return apperrors.Invalid("amount", "must be greater than zero")
	}
	if !r.Principal.Equal(r.Principal.Round(CurrencyPlaces)) {
		return apperrors.Invalid("amount", "must have at most %d decimal places", CurrencyPlaces)
	}
	if r.Count < 1 {
		return apperrors.Invalid("installments", "must be at least 1")
	}
	if r.Count > MaxInstallments {
		return apperrors.Invalid("installments", "must be at most %d", MaxInstallments)
	}
	if !r.Periodicity.Valid() {
		return apperrors.Invalid("periodicity", "unknown periodicity")
	}
	if !r.StartDate.IsValid() {
		return apperrors.Invalid("start_date", "invalid date")
	}
	base, last := r.amounts()
	if base.LessThan(minorUnit) || last.LessThan(minorUnit) {
		return apperrors.Invalid("installments", "amount %s cannot be split into %d installments", r.Principal, r.Count)
	}
	return nil
}

// amounts returns the regular installment amount and the last one, which
// absorbs the rounding residual.
func (r PlanRequest) amounts() (base, last decimal.Decimal) {
	n := decimal.NewFromInt(int64(r.Count))
	base = r.Principal.Div(n).Round(CurrencyPlaces)
	last = r.Principal.Sub(base.Mul(n.Sub(decimal.NewFromInt(1)))).Round(CurrencyPlaces)
	return base, last
}

// GenerateInstallments builds the charge schedule for a loan. The first
// charge is due on the start date; the amounts sum exactly to the principal.
func GenerateInstallments(req PlanRequest) ([]Installment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	base, last := req.amounts()
	out := make([]Installment, req.Count)
	due := req.StartDate
	for i := range out {
		if i > 0 {
			due = NextDueDate(due, req.Periodicity)
		}
		amount := base
		if i == req.Count-1 {
			amount = last
		}
		out[i] = Installment{
			Number:  i + 1,
			Amount:  amount,
			DueDate: due,
			Status:  ChargePending,
		}
	}
	return out, nil
}

// NextDueDate advances d by one period. Monthly steps follow time.AddDate
// normalization, so Jan 31 + 1 month lands on Mar 3 (or Mar 2 in leap years).
func NextDueDate(d civil.Date, p Periodicity) civil.Date {
	switch p {
	case Daily:
		return d.AddDays(1)
	case Weekly:
		return d.AddDays(7)
	case Biweekly:
		return d.AddDays(15)
	default:
		return civil.DateOf(d.In(time.UTC).AddDate(0, 1, 0))
	}
}
