package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/loan-service/internal/apperrors"
	"github.com/Dan9191/loan-service/internal/models"
)

// NotificationListLimit is how many notifications List returns.
const NotificationListLimit = 10

// Notifications manages in-app notifications
type Notifications struct {
	store NotificationStore
	log   *logrus.Logger
}

// NewNotifications initializes the notification service
func NewNotifications(store NotificationStore, log *logrus.Logger) *Notifications {
	return &Notifications{store: store, log: log}
}

// NotificationInput is a new notification. UserID defaults to the caller.
type NotificationInput struct {
	UserID  uuid.UUID `json:"user_id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Kind    string    `json:"kind"`
	Link    string    `json:"link"`
}

// List returns the latest notifications of a user
func (s *Notifications) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.store.ListNotifications(ctx, userID, NotificationListLimit)
}

// Create stores an unread notification
func (s *Notifications) Create(ctx context.Context, caller uuid.UUID, in NotificationInput) (*models.Notification, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperrors.Invalid("title", "is required")
	}
	n := &models.Notification{
		UserID:  in.UserID,
		Title:   in.Title,
		Message: strings.TrimSpace(in.Message),
		Kind:    strings.ToUpper(strings.TrimSpace(in.Kind)),
		Link:    strings.TrimSpace(in.Link),
	}
	if n.UserID == uuid.Nil {
		n.UserID = caller
	}
	if n.Kind == "" {
		n.Kind = models.NotificationInfo
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"notification_id": n.ID, "user_id": n.UserID}).Debug("Notification created")
	return n, nil
}

// MarkRead marks one notification of the user as read
func (s *Notifications) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.store.MarkNotificationRead(ctx, userID, id)
}

// MarkAllRead marks every notification of the user as read
func (s *Notifications) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}
