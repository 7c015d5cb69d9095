package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/middleware"
	"github.com/Dan9191/loan-service/internal/mocks"
	"github.com/Dan9191/loan-service/internal/models"
)

func TestNotifications(t *testing.T) {
	store := newStore()
	log, _ := newLogger()
	svc := NewNotifications(store, log)
	ctx := context.Background()
	caller := uuid.New()

	store.On("ListNotifications", mock.Anything, caller, NotificationListLimit).Return([]models.Notification{}, nil)
	_, err := svc.List(ctx, caller)
	require.NoError(t, err)

	store.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == caller && n.Kind == models.NotificationInfo
	})).Return(nil)
	n, err := svc.Create(ctx, caller, NotificationInput{Title: "Cobrança vencida"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, n.ID)

	_, err = svc.Create(ctx, caller, NotificationInput{Title: "  "})
	assert.True(t, apperrors.IsValidation(err))

	id := uuid.New()
	store.On("MarkNotificationRead", mock.Anything, caller, id).Return(apperrors.NotFound("notification"))
	assert.ErrorIs(t, svc.MarkRead(ctx, caller, id), apperrors.ErrNotFound)

	store.On("MarkAllNotificationsRead", mock.Anything, caller).Return(int64(4), nil)
	count, err := svc.MarkAllRead(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestActivities_ListDefaultsLimit(t *testing.T) {
	store := newStore()
	log, _ := newLogger()
	svc := NewActivities(store, log)

	store.On("ListActivities", mock.Anything, models.ActivityFilter{ClientID: "c1", Limit: DefaultActivityLimit}).
		Return([]models.Activity{{Action: models.ActionCreate}}, nil)

	got, err := svc.List(context.Background(), models.ActivityFilter{ClientID: "c1"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestActivities_CreateUsesCaller(t *testing.T) {
	store := newStore()
	log, _ := newLogger()
	svc := NewActivities(store, log)

	caller := uuid.New()
	ctx := middleware.WithUserID(context.Background(), caller)
	a, err := svc.Create(ctx, ActivityInput{Action: "VISUALIZAR", Entity: "cliente", EntityID: "c1"})
	require.NoError(t, err)
	require.NotNil(t, a.UserID)
	assert.Equal(t, caller, *a.UserID)

	_, err = svc.Create(ctx, ActivityInput{Entity: "cliente"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestActivities_RecordFailureIsLogged(t *testing.T) {
	store := &mocks.MockStore{}
	log, hook := newLogger()
	svc := NewActivities(store, log)

	store.On("CreateActivity", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	svc.Record(context.Background(), models.ActionCreate, "emprestimo", "l1", nil)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Failed to record activity", hook.LastEntry().Message)

	var nilSvc *Activities
	assert.NotPanics(t, func() { nilSvc.Record(context.Background(), models.ActionCreate, "x", "y", nil) })
}

func TestEntitiesExists(t *testing.T) {
	store := newStore()
	svc := NewEntities(store)
	id := uuid.New()

	store.On("EntityExists", mock.Anything, models.EntityLoan, id).Return(true, nil)
	store.On("EntityExists", mock.Anything, models.EntityCharge, id).Return(false, nil)

	assert.NoError(t, svc.Exists(context.Background(), models.EntityLoan, id))
	assert.ErrorIs(t, svc.Exists(context.Background(), models.EntityCharge, id), apperrors.ErrNotFound)
}
