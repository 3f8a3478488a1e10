package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/campuslink/backend/internal/models"
	"github.com/campuslink/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]{3,30})`)

// MentionScanner extracts @username mentions from new content and
// notifies the mentioned users. Runs as a scheduled task.
type MentionScanner struct {
	log      *zap.Logger
	users    repositories.UserRepository
	notifier *Notifier
}

// NewMentionScanner creates a new MentionScanner
func NewMentionScanner(log *zap.Logger, users repositories.UserRepository, notifier *Notifier) *MentionScanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &MentionScanner{log: log, users: users, notifier: notifier}
}

// ScanAndNotify emits one mention notification per distinct mentioned
// username that resolves to a real user. Unknown usernames are skipped.
func (m *MentionScanner) ScanAndNotify(ctx context.Context, actorID uint, content, referenceID string) error {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	actor, err := m.users.GetUserByID(actorID)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, match := range matches {
		username := match[1]
		if seen[username] {
			continue
		}
		seen[username] = true

		mentioned, err := m.users.GetUserByUsername(username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}

		message := fmt.Sprintf("%s mentioned you", actor.Name)
		if _, err := m.notifier.Emit(ctx, mentioned.ID, actorID, models.NotificationMention, referenceID, message); err != nil {
			m.log.Error("mention notification failed",
				zap.Uint("mentioned_id", mentioned.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}
