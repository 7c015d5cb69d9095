package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/billing"
	"github.com/Dan9191/loan-service/internal/models"
)

const loanColumns = `l.id, l.client_id, l.amount, l.start_date, l.periodicity, l.installments, l.status,
	l.created_at, l.updated_at`

type loanRow struct {
	l           models.Loan
	start       time.Time
	periodicity string
	status      string
}

func (r *loanRow) targets() []any {
	return []any{&r.l.ID, &r.l.ClientID, &r.l.Amount, &r.start, &r.periodicity, &r.l.Installments,
		&r.status, &r.l.CreatedAt, &r.l.UpdatedAt}
}

func (r *loanRow) loan() (models.Loan, error) {
	p, err := billing.ParsePeriodicity(r.periodicity)
	if err != nil {
		return models.Loan{}, err
	}
	r.l.Periodicity = p
	r.l.StartDate = civil.DateOf(r.start)
	r.l.Status = billing.LoanStatus(r.status)
	return r.l, nil
}

// ListLoans returns loans with their client and charges
func (r *Repository) ListLoans(ctx context.Context, f models.LoanFilter) ([]models.Loan, error) {
	var w where
	if f.ClientID != nil {
		w.add("l.client_id = ?", *f.ClientID)
	}
	if f.Status != nil {
		w.add("l.status = ?", string(*f.Status))
	}
	if f.Periodicity != nil {
		w.add("l.periodicity = ?", f.Periodicity.String())
	}
	if f.StartFrom != nil {
		w.add("l.start_date >= ?", dateArg(*f.StartFrom))
	}
	if f.StartTo != nil {
		w.add("l.start_date <= ?", dateArg(*f.StartTo))
	}
	w.addClientSearch("l.client_id", f.Search)

	order := " ORDER BY l.start_date DESC, l.created_at DESC"
	if f.RecentFirst {
		order = " ORDER BY l.created_at DESC"
	}
	query := `SELECT ` + loanColumns + `, ` + clientColumns + `
		FROM loans l JOIN clients c ON c.id = l.client_id` + w.String() + order + limitClause(&w, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, translate("failed to list loans", err)
	}
	defer rows.Close()

	loans := make([]models.Loan, 0)
	for rows.Next() {
		l, err := scanLoanWithClient(rows)
		if err != nil {
			return nil, translate("failed to scan loan", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("failed to list loans", err)
	}

	if err := r.attachCharges(ctx, loans); err != nil {
		return nil, err
	}
	return loans, nil
}

func scanLoanWithClient(s rowScanner) (models.Loan, error) {
	var lr loanRow
	var cr clientRow
	if err := s.Scan(append(lr.targets(), cr.targets()...)...); err != nil {
		return models.Loan{}, err
	}
	l, err := lr.loan()
	if err != nil {
		return models.Loan{}, err
	}
	c := cr.client()
	l.Client = &c
	return l, nil
}

// attachCharges loads the charges of every loan in one query.
func (r *Repository) attachCharges(ctx context.Context, loans []models.Loan) error {
	if len(loans) == 0 {
		return nil
	}
	ids := make([]string, len(loans))
	index := make(map[uuid.UUID]int, len(loans))
	for i, l := range loans {
		ids[i] = l.ID.String()
		index[l.ID] = i
		loans[i].Charges = make([]models.Charge, 0, l.Installments)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+chargeColumns+`
		FROM charges ch
		WHERE ch.loan_id = ANY($1::uuid[])
		ORDER BY ch.due_date, ch.number`, pq.Array(ids))
	if err != nil {
		return translate("failed to load charges", err)
	}
	defer rows.Close()

	for rows.Next() {
		ch, err := scanCharge(rows)
		if err != nil {
			return translate("failed to scan charge", err)
		}
		i := index[ch.LoanID]
		loans[i].Charges = append(loans[i].Charges, ch)
	}
	return translate("failed to load charges", rows.Err())
}

// GetLoan retrieves a loan with its client and charges sorted by due date
func (r *Repository) GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+loanColumns+`, `+clientColumns+`
		FROM loans l JOIN clients c ON c.id = l.client_id
		WHERE l.id = $1`, id)
	l, err := scanLoanWithClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("loan")
	}
	if err != nil {
		return nil, translate("failed to get loan", err)
	}

	loans := []models.Loan{l}
	if err := r.attachCharges(ctx, loans); err != nil {
		return nil, err
	}
	return &loans[0], nil
}

// CreateLoan creates a new loan record. Charges are written separately.
func (r *Repository) CreateLoan(ctx context.Context, l *models.Loan) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	query := `
		INSERT INTO loans (id, client_id, amount, start_date, periodicity, installments, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, l.ID, l.ClientID, l.Amount, dateArg(l.StartDate),
		l.Periodicity.String(), l.Installments, string(l.Status)).Scan(&l.CreatedAt, &l.UpdatedAt)
	return translate("failed to create loan", err)
}

// CreateCharges inserts the charges of one loan in a single transaction
func (r *Repository) CreateCharges(ctx context.Context, loanID uuid.UUID, charges []models.Charge) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translate("failed to begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO charges (id, loan_id, number, amount, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`)
	if err != nil {
		return translate("failed to prepare charge insert", err)
	}
	defer stmt.Close()

	for i := range charges {
		c := &charges[i]
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.LoanID = loanID
		err := stmt.QueryRowContext(ctx, c.ID, loanID, c.Number, c.Amount, dateArg(c.DueDate), string(c.Status)).
			Scan(&c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return translate("failed to create charges", err)
		}
	}

	return translate("failed to commit charges", tx.Commit())
}

// UpdateLoanStatus sets the status of a loan
func (r *Repository) UpdateLoanStatus(ctx context.Context, id uuid.UUID, status billing.LoanStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE loans SET status = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id, string(status))
	if err != nil {
		return translate("failed to update loan", err)
	}
	return mustAffect(res, "loan")
}

// DeleteLoan removes a loan; its charges cascade
func (r *Repository) DeleteLoan(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return translate("failed to delete loan", err)
	}
	return mustAffect(res, "loan")
}

// LoanChargeStatuses returns the status of every charge of a loan
func (r *Repository) LoanChargeStatuses(ctx context.Context, loanID uuid.UUID) ([]billing.ChargeStatus, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status FROM charges WHERE loan_id = $1`, loanID)
	if err != nil {
		return nil, translate("failed to list charge statuses", err)
	}
	defer rows.Close()

	var out []billing.ChargeStatus
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, translate("failed to scan charge status", err)
		}
		out = append(out, billing.ChargeStatus(s))
	}
	return out, translate("failed to list charge statuses", rows.Err())
}
