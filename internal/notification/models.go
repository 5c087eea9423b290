package notification

import (
	"github.com/google/uuid"
	db "github.com/katatrina/postboard/internal/db/sqlc"
)

// Notification is a notification that has not been persisted yet.
type Notification struct {
	RecipientID     string
	Subject         uuid.UUID
	Action          db.NotificationAction
	SubjectAuthorID string
}

func (n *Notification) params() db.CreateNotificationParams {
	return db.CreateNotificationParams{
		ID:              uuid.Must(uuid.NewV7()),
		UserID:          n.RecipientID,
		Subject:         n.Subject,
		Action:          n.Action,
		SubjectAuthorID: n.SubjectAuthorID,
	}
}
