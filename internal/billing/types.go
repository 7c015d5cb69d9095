package billing

import (
	"encoding/json"
	"strings"

	"github.com/Dan9191/loan-service/internal/apperrors"
)

// Periodicity is the interval between installment due dates.
type Periodicity int

const (
	Daily Periodicity = iota + 1
	Weekly
	Biweekly
	Monthly
)

var periodicityLabels = map[Periodicity]string{
	Daily:    "DIARIA",
	Weekly:   "SEMANAL",
	Biweekly: "QUINZENAL",
	Monthly:  "MENSAL",
}

var periodicityAliases = map[string]Periodicity{
	"DIARIA":    Daily,
	"DAILY":     Daily,
	"SEMANAL":   Weekly,
	"WEEKLY":    Weekly,
	"QUINZENAL": Biweekly,
	"BIWEEKLY":  Biweekly,
	"MENSAL":    Monthly,
	"MONTHLY":   Monthly,
}

// ParsePeriodicity accepts the stored labels (DIARIA, SEMANAL, QUINZENAL,
// MENSAL) and their English names, case-insensitive.
func ParsePeriodicity(s string) (Periodicity, error) {
	p, ok := periodicityAliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, apperrors.Invalid("periodicity", "unknown periodicity %q", s)
	}
	return p, nil
}

// String returns the stored label.
func (p Periodicity) String() string {
	if l, ok := periodicityLabels[p]; ok {
		return l
	}
	return "UNKNOWN"
}

// Valid reports whether p is one of the four known periodicities.
func (p Periodicity) Valid() bool {
	_, ok := periodicityLabels[p]
	return ok
}

func (p Periodicity) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Periodicity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return apperrors.Invalid("periodicity", "must be a string")
	}
	parsed, err := ParsePeriodicity(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ChargeStatus is the lifecycle state of a single installment charge.
type ChargeStatus string

const (
	ChargePending ChargeStatus = "PENDENTE"
	ChargePaid    ChargeStatus = "PAGO"
	ChargeOverdue ChargeStatus = "VENCIDO"
)

// ParseChargeStatus validates a status label.
func ParseChargeStatus(s string) (ChargeStatus, error) {
	switch st := ChargeStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case ChargePending, ChargePaid, ChargeOverdue:
		return st, nil
	}
	return "", apperrors.Invalid("status", "unknown charge status %q", s)
}

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanOpen    LoanStatus = "EM_ANDAMENTO"
	LoanSettled LoanStatus = "QUITADO"
)

// ParseLoanStatus validates a status label.
func ParseLoanStatus(s string) (LoanStatus, error) {
	switch st := LoanStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case LoanOpen, LoanSettled:
		return st, nil
	}
	return "", apperrors.Invalid("status", "unknown loan status %q", s)
}
