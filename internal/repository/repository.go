package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/lib/pq"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping checks that the database answers.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return apperrors.Persistence("ping database", err)
	}
	return nil
}

// Postgres error codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translate maps driver errors onto the application taxonomy.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return apperrors.Conflict(fmt.Sprintf("%s: duplicate %s", op, pqErr.Constraint))
		case foreignKeyViolation:
			return fmt.Errorf("%s: referenced record %w", op, apperrors.ErrNotFound)
		}
	}
	return apperrors.Persistence(op, err)
}

// mustAffect turns "zero rows affected" into a not found error.
func mustAffect(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Persistence("rows affected", err)
	}
	if n == 0 {
		return apperrors.NotFound(entity)
	}
	return nil
}

// where accumulates AND-ed clauses. Each '?' in a clause becomes the next
// positional parameter.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	var b strings.Builder
	n := 0
	for _, r := range clause {
		if r == '?' {
			w.args = append(w.args, args[n])
			n++
			fmt.Fprintf(&b, "$%d", len(w.args))
			continue
		}
		b.WriteRune(r)
	}
	w.clauses = append(w.clauses, b.String())
}

// arg appends a parameter and returns its placeholder.
func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// addClientSearch restricts column (a client id) to clients matching s.
func (w *where) addClientSearch(column string, s models.ClientSearch) {
	switch {
	case s.Name != "" && s.CPFHMAC != "":
		w.add(column+" IN (SELECT id FROM clients WHERE lower(name) LIKE ? OR cpf_hmac = ?)",
			likePattern(s.Name), s.CPFHMAC)
	case s.Name != "":
		w.add(column+" IN (SELECT id FROM clients WHERE lower(name) LIKE ?)", likePattern(s.Name))
	case s.CPFHMAC != "":
		w.add(column+" IN (SELECT id FROM clients WHERE cpf_hmac = ?)", s.CPFHMAC)
	}
}

func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func limitClause(w *where, limit int) string {
	if limit <= 0 {
		return ""
	}
	return " LIMIT " + w.arg(limit)
}

func dateArg(d civil.Date) string {
	return d.String()
}

func nullDate(t sql.NullTime) *civil.Date {
	if !t.Valid {
		return nil
	}
	d := civil.DateOf(t.Time)
	return &d
}

func nullDateArg(d *civil.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

type rowScanner interface {
	Scan(dest ...any) error
}
