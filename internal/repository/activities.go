package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Dan9191/loan-service/internal/models"
)

// ListActivities returns the newest activity entries matching the filter
func (r *Repository) ListActivities(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	var w where
	if f.ClientID != "" {
		w.add("(a.entity_id = ? OR a.details->>'client_id' = ?)", f.ClientID, f.ClientID)
	}
	if f.LoanID != "" {
		w.add("(a.entity_id = ? OR a.details->>'loan_id' = ?)", f.LoanID, f.LoanID)
	}
	query := `
		SELECT a.id, a.user_id, COALESCE(u.email, 'Sistema'), a.action, a.entity, a.entity_id, a.details, a.created_at
		FROM activities a
		LEFT JOIN users u ON u.id = a.user_id` + w.String() + ` ORDER BY a.created_at DESC` + limitClause(&w, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, translate("failed to list activities", err)
	}
	defer rows.Close()

	out := make([]models.Activity, 0)
	for rows.Next() {
		var a models.Activity
		var userID uuid.NullUUID
		var details []byte
		if err := rows.Scan(&a.ID, &userID, &a.UserEmail, &a.Action, &a.Entity, &a.EntityID, &details, &a.CreatedAt); err != nil {
			return nil, translate("failed to scan activity", err)
		}
		if userID.Valid {
			id := userID.UUID
			a.UserID = &id
		}
		if err := json.Unmarshal(details, &a.Details); err != nil {
			return nil, fmt.Errorf("failed to decode activity details: %w", err)
		}
		out = append(out, a)
	}
	return out, translate("failed to list activities", rows.Err())
}

// CreateActivity appends an entry to the activity log
func (r *Repository) CreateActivity(ctx context.Context, a *models.Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Details == nil {
		a.Details = map[string]any{}
	}
	details, err := json.Marshal(a.Details)
	if err != nil {
		return fmt.Errorf("failed to encode activity details: %w", err)
	}
	var userID uuid.NullUUID
	if a.UserID != nil {
		userID = uuid.NullUUID{UUID: *a.UserID, Valid: true}
	}
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO activities (id, user_id, action, entity, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING created_at`,
		a.ID, userID, a.Action, a.Entity, a.EntityID, string(details)).Scan(&a.CreatedAt)
	return translate("failed to create activity", err)
}
