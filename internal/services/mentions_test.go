package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanAndNotifyMentionedUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := env.createUser(t, "Ada", "ada")
	bob := env.createUser(t, "Bob", "bob_smith")
	carol := env.createUser(t, "Carol", "carol99")

	content := "great work @bob_smith and @carol99, also @bob_smith again and @nobody_here"
	require.NoError(t, env.mentions.ScanAndNotify(ctx, actor.ID, content, "post-1"))

	bobCount, err := env.notificationRepo.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobCount, "duplicate mention collapses to one notification")

	carolCount, err := env.notificationRepo.GetUnreadCount(carol.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), carolCount)
}

func TestScanAndNotifySkipsSelfMention(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := env.createUser(t, "Ada", "ada_l")

	require.NoError(t, env.mentions.ScanAndNotify(ctx, actor.ID, "note to self @ada_l", "post-1"))

	count, err := env.notificationRepo.GetUnreadCount(actor.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestScanAndNotifyNoMentions(t *testing.T) {
	env := newTestEnv(t)
	actor := env.createUser(t, "Ada", "ada")
	assert.NoError(t, env.mentions.ScanAndNotify(context.Background(), actor.ID, "plain text, no handles", "post-1"))
}
