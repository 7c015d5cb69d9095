package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/middleware"
	"github.com/Dan9191/loan-service/internal/models"
)

// DefaultActivityLimit caps activity listings when no limit is given.
const DefaultActivityLimit = 10

// Activities records and lists the audit trail
type Activities struct {
	store ActivityStore
	log   *logrus.Logger
}

// NewActivities initializes the activity service
func NewActivities(store ActivityStore, log *logrus.Logger) *Activities {
	return &Activities{store: store, log: log}
}

// ActivityInput is an entry posted by the UI.
type ActivityInput struct {
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entity_id"`
	Details  map[string]any `json:"details"`
}

// List returns the latest entries related to a client or a loan.
func (s *Activities) List(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultActivityLimit
	}
	return s.store.ListActivities(ctx, f)
}

// Create stores an entry on behalf of the authenticated user.
func (s *Activities) Create(ctx context.Context, in ActivityInput) (*models.Activity, error) {
	if in.Action == "" {
		return nil, apperrors.Invalid("action", "is required")
	}
	if in.Entity == "" {
		return nil, apperrors.Invalid("entity", "is required")
	}
	a := s.entry(ctx, in.Action, in.Entity, in.EntityID, in.Details)
	if err := s.store.CreateActivity(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Record stores an entry and only logs a failure; the audit trail never
// fails the operation that triggered it.
func (s *Activities) Record(ctx context.Context, action, entity, entityID string, details map[string]any) {
	if s == nil {
		return
	}
	a := s.entry(ctx, action, entity, entityID, details)
	if err := s.store.CreateActivity(ctx, a); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"action":    action,
			"entity":    entity,
			"entity_id": entityID,
		}).Warn("Failed to record activity")
	}
}

func (s *Activities) entry(ctx context.Context, action, entity, entityID string, details map[string]any) *models.Activity {
	a := &models.Activity{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	if id, ok := middleware.UserIDFromContext(ctx); ok {
		a.UserID = &id
	}
	return a
}
