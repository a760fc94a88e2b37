package services

import (
	"context"
	"testing"
	"time"

	"remote-admin-svc/app/domains"
	"remote-admin-svc/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedChat(t *testing.T, store *memory.Store, server *domains.GameServer, message string, age time.Duration) *domains.ChatMessage {
	t.Helper()
	msg := &domains.ChatMessage{
		ServerID:  server.ID,
		UserID:    42,
		Username:  "player1",
		Message:   message,
		Timestamp: time.Now().Add(-age),
	}
	require.NoError(t, store.CreateChatMessage(context.Background(), msg))
	return msg
}

func TestChatTimeRange(t *testing.T) {
	now := time.Now()
	assert.Equal(t, now.Add(-time.Hour), ChatTimeRange("1h", now))
	assert.Equal(t, now.Add(-7*24*time.Hour), ChatTimeRange("7d", now))
	assert.Equal(t, now.Add(-30*24*time.Hour), ChatTimeRange("30d", now))
	assert.Equal(t, now.Add(-24*time.Hour), ChatTimeRange("24h", now))
	assert.Equal(t, now.Add(-24*time.Hour), ChatTimeRange("fortnight", now))
}

func TestListMessagesHonorsTimeRange(t *testing.T) {
	store := memory.NewStore()
	svc := NewChatService(store)
	server := newTestServer(t, store, 1, "lobby")
	seedChat(t, store, server, "recent", 30*time.Minute)
	seedChat(t, store, server, "stale", 2*time.Hour)

	messages, err := svc.ListMessages(context.Background(), ChatFilter{
		WorkspaceGroupID: 1,
		Since:            ChatTimeRange("1h", time.Now()),
	})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "recent", messages[0].Message)
}

func TestListMessagesFlaggedOnly(t *testing.T) {
	store := memory.NewStore()
	svc := NewChatService(store)
	server := newTestServer(t, store, 1, "lobby")
	seedChat(t, store, server, "clean", time.Minute)
	flagged := seedChat(t, store, server, "nasty", time.Minute)
	require.NoError(t, store.SetChatFlag(context.Background(), flagged.ID, true, 7))

	messages, err := svc.ListMessages(context.Background(), ChatFilter{
		WorkspaceGroupID: 1,
		Since:            ChatTimeRange("24h", time.Now()),
		FlaggedOnly:      true,
	})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "nasty", messages[0].Message)
	require.NotNil(t, messages[0].ModeratedBy)
	assert.Equal(t, int64(7), *messages[0].ModeratedBy)
}

func TestModerateFlagUnflagDelete(t *testing.T) {
	store := memory.NewStore()
	svc := NewChatService(store)
	server := newTestServer(t, store, 1, "lobby")
	msg := seedChat(t, store, server, "borderline", time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Moderate(ctx, 1, 7, msg.ID, domains.ModerationFlag))
	got, err := store.GetChatMessageInWorkspace(ctx, msg.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Flagged)

	require.NoError(t, svc.Moderate(ctx, 1, 7, msg.ID, domains.ModerationUnflag))
	got, err = store.GetChatMessageInWorkspace(ctx, msg.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Flagged)

	require.NoError(t, svc.Moderate(ctx, 1, 7, msg.ID, domains.ModerationDelete))
	got, err = store.GetChatMessageInWorkspace(ctx, msg.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestModerateScopedToWorkspace(t *testing.T) {
	store := memory.NewStore()
	svc := NewChatService(store)
	server := newTestServer(t, store, 2, "other")
	msg := seedChat(t, store, server, "elsewhere", time.Minute)

	err := svc.Moderate(context.Background(), 1, 7, msg.ID, domains.ModerationFlag)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModerateRejectsUnknownAction(t *testing.T) {
	store := memory.NewStore()
	svc := NewChatService(store)
	server := newTestServer(t, store, 1, "lobby")
	msg := seedChat(t, store, server, "hi", time.Minute)

	err := svc.Moderate(context.Background(), 1, 7, msg.ID, domains.ModerationAction("shadowban"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
