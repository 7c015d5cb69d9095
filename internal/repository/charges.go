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

const chargeColumns = `ch.id, ch.loan_id, ch.number, ch.amount, ch.due_date, ch.paid_on, ch.status,
	ch.created_at, ch.updated_at`

type chargeRow struct {
	c      models.Charge
	due    time.Time
	paidOn sql.NullTime
	status string
}

func (r *chargeRow) targets() []any {
	return []any{&r.c.ID, &r.c.LoanID, &r.c.Number, &r.c.Amount, &r.due, &r.paidOn, &r.status,
		&r.c.CreatedAt, &r.c.UpdatedAt}
}

func (r *chargeRow) charge() models.Charge {
	r.c.DueDate = civil.DateOf(r.due)
	r.c.PaidOn = nullDate(r.paidOn)
	r.c.Status = billing.ChargeStatus(r.status)
	return r.c
}

func scanCharge(s rowScanner) (models.Charge, error) {
	var row chargeRow
	if err := s.Scan(row.targets()...); err != nil {
		return models.Charge{}, err
	}
	return row.charge(), nil
}

// scanChargeWithLoan scans chargeColumns, loanColumns and clientColumns.
func scanChargeWithLoan(s rowScanner) (models.Charge, error) {
	var chr chargeRow
	var lr loanRow
	var cr clientRow
	targets := append(chr.targets(), lr.targets()...)
	targets = append(targets, cr.targets()...)
	if err := s.Scan(targets...); err != nil {
		return models.Charge{}, err
	}
	ch := chr.charge()
	l, err := lr.loan()
	if err != nil {
		return models.Charge{}, err
	}
	c := cr.client()
	l.Client = &c
	ch.Loan = &l
	return ch, nil
}

const chargeWithLoanFrom = `
	FROM charges ch
	JOIN loans l ON l.id = ch.loan_id
	JOIN clients c ON c.id = l.client_id`

// ListCharges returns charges with their loan and client, by due date
func (r *Repository) ListCharges(ctx context.Context, f models.ChargeFilter) ([]models.Charge, error) {
	var w where
	if f.LoanID != nil {
		w.add("ch.loan_id = ?", *f.LoanID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		w.add("ch.status = ANY(?)", pq.Array(statuses))
	}
	if f.DueFrom != nil {
		w.add("ch.due_date >= ?", dateArg(*f.DueFrom))
	}
	if f.DueTo != nil {
		w.add("ch.due_date <= ?", dateArg(*f.DueTo))
	}
	w.addClientSearch("l.client_id", f.Search)

	query := `SELECT ` + chargeColumns + `, ` + loanColumns + `, ` + clientColumns + chargeWithLoanFrom +
		w.String() + ` ORDER BY ch.due_date, ch.number` + limitClause(&w, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, translate("failed to list charges", err)
	}
	defer rows.Close()

	out := make([]models.Charge, 0)
	for rows.Next() {
		ch, err := scanChargeWithLoan(rows)
		if err != nil {
			return nil, translate("failed to scan charge", err)
		}
		out = append(out, ch)
	}
	return out, translate("failed to list charges", rows.Err())
}

// GetCharge retrieves a charge with its loan and client
func (r *Repository) GetCharge(ctx context.Context, id uuid.UUID) (*models.Charge, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+chargeColumns+`, `+loanColumns+`, `+clientColumns+
		chargeWithLoanFrom+` WHERE ch.id = $1`, id)
	ch, err := scanChargeWithLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("charge")
	}
	if err != nil {
		return nil, translate("failed to get charge", err)
	}
	return &ch, nil
}

// UpdateCharge overwrites amount, due date, paid date and status
func (r *Repository) UpdateCharge(ctx context.Context, c *models.Charge) error {
	query := `
		UPDATE charges
		SET amount = $2, due_date = $3, paid_on = $4, status = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, c.ID, c.Amount, dateArg(c.DueDate), nullDateArg(c.PaidOn),
		string(c.Status)).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("charge")
	}
	return translate("failed to update charge", err)
}

// MarkOverdue flips every pending charge due before today to VENCIDO
func (r *Repository) MarkOverdue(ctx context.Context, today civil.Date) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE charges
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE status = $2 AND due_date < $3`,
		string(billing.ChargeOverdue), string(billing.ChargePending), dateArg(today))
	if err != nil {
		return 0, translate("failed to mark overdue charges", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.Persistence("rows affected", err)
	}
	return n, nil
}

// RecordPayment stores the payment and marks the charge paid in one
// transaction. A charge that is already paid yields ErrConflict.
func (r *Repository) RecordPayment(ctx context.Context, p *models.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translate("failed to begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE charges
		SET status = $2, paid_on = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status <> $2`, p.ChargeID, string(billing.ChargePaid), dateArg(p.PaidOn))
	if err != nil {
		return translate("failed to mark charge paid", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return apperrors.Persistence("rows affected", err)
	} else if n == 0 {
		return apperrors.Conflict("charge already paid or missing")
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO payments (id, charge_id, amount, paid_on, method, receipt, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING created_at`,
		p.ID, p.ChargeID, p.Amount, dateArg(p.PaidOn), p.Method, p.Receipt, p.Notes).Scan(&p.CreatedAt)
	if err != nil {
		return translate("failed to create payment", err)
	}

	return translate("failed to commit payment", tx.Commit())
}

// ListPayments returns the payments of a charge, newest first
func (r *Repository) ListPayments(ctx context.Context, chargeID uuid.UUID) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, charge_id, amount, paid_on, method, receipt, notes, created_at
		FROM payments
		WHERE charge_id = $1
		ORDER BY paid_on DESC, created_at DESC`, chargeID)
	if err != nil {
		return nil, translate("failed to list payments", err)
	}
	defer rows.Close()

	out := make([]models.Payment, 0)
	for rows.Next() {
		var p models.Payment
		var paidOn time.Time
		if err := rows.Scan(&p.ID, &p.ChargeID, &p.Amount, &paidOn, &p.Method, &p.Receipt, &p.Notes, &p.CreatedAt); err != nil {
			return nil, translate("failed to scan payment", err)
		}
		p.PaidOn = civil.DateOf(paidOn)
		out = append(out, p)
	}
	return out, translate("failed to list payments", rows.Err())
}
