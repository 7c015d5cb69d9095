package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/models"
)

// Entities answers "does this record exist" for any entity kind
type Entities struct {
	store EntityStore
}

// NewEntities initializes the entity lookup service
func NewEntities(store EntityStore) *Entities {
	return &Entities{store: store}
}

// Exists returns ErrNotFound when no record of kind has the id.
func (s *Entities) Exists(ctx context.Context, kind models.EntityKind, id uuid.UUID) error {
	ok, err := s.store.EntityExists(ctx, kind, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound(kind.String())
	}
	return nil
}
