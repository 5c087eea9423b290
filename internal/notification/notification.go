// Package notification records durable notifications, one row per recipient and event.
package notification

import (
	"context"
	"fmt"

	db "github.com/katatrina/postboard/internal/db/sqlc"
	"github.com/rs/zerolog/log"
)

// Store is what the lifecycle needs from the notification storage.
type Store interface {
	SendNotification(ctx context.Context, notification *Notification) (db.Notification, error)
	ListNotifications(ctx context.Context, recipientID string) ([]db.Notification, error)
}

type NotificationService struct {
	querier db.Querier
}

var _ Store = (*NotificationService)(nil)

func NewNotificationService(querier db.Querier) *NotificationService {
	return &NotificationService{
		querier: querier,
	}
}

// SendNotification persists a single notification. Each call is its own write.
func (s *NotificationService) SendNotification(ctx context.Context, notification *Notification) (db.Notification, error) {
	created, err := s.querier.CreateNotification(ctx, notification.params())
	if err != nil {
		return db.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	log.Debug().
		Str("recipient_id", created.UserID).
		Str("subject", created.Subject.String()).
		Str("action", string(created.Action)).
		Msg("notification created")

	return created, nil
}

// ListNotifications returns the notifications of recipientID, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, recipientID string) ([]db.Notification, error) {
	notifications, err := s.querier.ListNotificationsByUserID(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}
