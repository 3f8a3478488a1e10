package services

import (
	"context"
	"strings"
	"testing"

	"github.com/campuslink/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitCreatesNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := env.createUser(t, "Ada", "ada")
	recipient := env.createUser(t, "Bob", "bob")

	n, err := env.notifier.Emit(ctx, recipient.ID, actor.ID, models.NotificationFollow, "", "Ada started following you")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, recipient.ID, n.RecipientID)
	assert.Equal(t, actor.ID, n.ActorID)
	assert.False(t, n.IsRead)

	count, err := env.notificationRepo.GetUnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEmitSuppressesSelfNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Ada", "ada")

	n, err := env.notifier.Emit(ctx, user.ID, user.ID, models.NotificationReaction, "ref", "you reacted to your own post")
	require.NoError(t, err, "self-notification is silent, not an error")
	assert.Nil(t, n)

	count, err := env.notificationRepo.GetUnreadCount(user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEmitHonorsDisabledPreference(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := env.createUser(t, "Ada", "ada")
	recipient := env.createUser(t, "Bob", "bob")

	require.NoError(t, env.notificationRepo.UpsertPreference(recipient.ID, models.NotificationMention, false))

	n, err := env.notifier.Emit(ctx, recipient.ID, actor.ID, models.NotificationMention, "ref", "Ada mentioned you")
	require.NoError(t, err)
	assert.Nil(t, n)

	// Other types stay enabled by default.
	n, err = env.notifier.Emit(ctx, recipient.ID, actor.ID, models.NotificationFollow, "", "Ada started following you")
	require.NoError(t, err)
	assert.NotNil(t, n)

	// Re-enabling lifts the suppression.
	require.NoError(t, env.notificationRepo.UpsertPreference(recipient.ID, models.NotificationMention, true))
	n, err = env.notifier.Emit(ctx, recipient.ID, actor.ID, models.NotificationMention, "ref", "Ada mentioned you")
	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestEmitRejectsOversizedMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := env.createUser(t, "Ada", "ada")
	recipient := env.createUser(t, "Bob", "bob")

	long := strings.Repeat("x", MaxNotificationMessageLength+1)
	_, err := env.notifier.Emit(ctx, recipient.ID, actor.ID, models.NotificationComment, "", long)
	assert.Error(t, err)
}

func TestEmitRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := env.createUser(t, "Ada", "ada")
	recipient := env.createUser(t, "Bob", "bob")

	_, err := env.notifier.Emit(ctx, recipient.ID, actor.ID, "poke", "", "Ada poked you")
	assert.Error(t, err)
}
