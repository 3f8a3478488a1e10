package services

import (
	"context"
	"fmt"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"go.uber.org/zap"
)

// MaxNotificationMessageLength bounds the stored message text
const MaxNotificationMessageLength = 500

// Notifier is the single entry point for creating notifications. It
// suppresses self-notification and honors the recipient's per-type
// preference flags; both suppressions return (nil, nil), not an error.
type Notifier struct {
	log           *zap.Logger
	notifications repositories.NotificationRepository
}

// NewNotifier creates a new Notifier
func NewNotifier(log *zap.Logger, notifications repositories.NotificationRepository) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{log: log, notifications: notifications}
}

// Emit creates one notification row, or silently creates none when the
// actor is the recipient or the recipient disabled the type.
func (n *Notifier) Emit(ctx context.Context, recipientID, actorID uint, notificationType, referenceID, message string) (*models.Notification, error) {
	if len(message) > MaxNotificationMessageLength {
		return nil, fmt.Errorf("notification message exceeds %d characters", MaxNotificationMessageLength)
	}

	valid := false
	for _, t := range models.NotificationTypes {
		if t == notificationType {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("invalid notification type: %s", notificationType)
	}

	if recipientID == actorID {
		return nil, nil
	}

	enabled, err := n.notifications.IsTypeEnabled(recipientID, notificationType)
	if err != nil {
		return nil, err
	}
	if !enabled {
		n.log.Debug("notification suppressed by preference",
			zap.Uint("recipient_id", recipientID),
			zap.String("type", notificationType),
		)
		return nil, nil
	}

	notification := &models.Notification{
		Type:        notificationType,
		ActorID:     actorID,
		RecipientID: recipientID,
		ReferenceID: referenceID,
		Message:     message,
	}
	if err := n.notifications.CreateNotification(notification); err != nil {
		return nil, err
	}
	return notification, nil
}
