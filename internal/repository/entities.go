package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Dan9191/loan-service/internal/models"
)

// EntityExists checks whether a record of the given kind exists
func (r *Repository) EntityExists(ctx context.Context, kind models.EntityKind, id uuid.UUID) (bool, error) {
	var query string
	switch kind {
	case models.EntityClient:
		query = `SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)`
	case models.EntityLoan:
		query = `SELECT EXISTS(SELECT 1 FROM loans WHERE id = $1)`
	case models.EntityCharge:
		query = `SELECT EXISTS(SELECT 1 FROM charges WHERE id = $1)`
	default:
		return false, fmt.Errorf("unsupported entity kind %d", kind)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, translate(fmt.Sprintf("failed to check %s", kind), err)
	}
	return exists, nil
}
