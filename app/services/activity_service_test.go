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

func seedActivity(t *testing.T, store *memory.Store, server *domains.GameServer, base time.Time) {
	t.Helper()
	ctx := context.Background()
	userID := int64(42)
	username := "player1"

	for i := 0; i < 4; i++ {
		require.NoError(t, store.CreateEvent(ctx, &domains.GameEvent{
			ServerID:  &server.ID,
			EventType: "player_join",
			UserID:    &userID,
			Username:  &username,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, store.CreateChatMessage(ctx, &domains.ChatMessage{
			ServerID:  server.ID,
			UserID:    userID,
			Username:  username,
			Message:   "hello",
			Timestamp: base.Add(time.Duration(i)*time.Minute + 20*time.Second),
		}))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, store.CreatePlayerAction(ctx, &domains.PlayerAction{
			ServerID:   server.ID,
			UserID:     userID,
			Username:   username,
			ActionType: "opened_chest",
			Timestamp:  base.Add(time.Duration(i)*time.Minute + 40*time.Second),
		}))
	}
}

func TestFeedMergesNewestFirstAcrossSources(t *testing.T) {
	store := memory.NewStore()
	svc := NewActivityService(store)
	server := newTestServer(t, store, 1, "lobby")
	base := time.Now().Add(-time.Hour)
	seedActivity(t, store, server, base)

	feed, err := svc.Feed(context.Background(), FeedFilter{
		WorkspaceGroupID: 1,
		IncludeChat:      true,
		Limit:            6,
	})
	require.NoError(t, err)
	require.Len(t, feed, 6)

	// The 6 globally most recent records interleave the three streams.
	wantTypes := []string{"player_action", "chat_message", "player_join", "player_action", "chat_message", "player_join"}
	for i, env := range feed {
		assert.Equal(t, wantTypes[i], env.Type, "position %d", i)
	}
	for i := 1; i < len(feed); i++ {
		assert.True(t, feed[i-1].Timestamp >= feed[i].Timestamp, "feed not newest first at %d", i)
	}
}

func TestFeedTypeFilter(t *testing.T) {
	store := memory.NewStore()
	svc := NewActivityService(store)
	server := newTestServer(t, store, 1, "lobby")
	seedActivity(t, store, server, time.Now().Add(-time.Hour))

	chatOnly, err := svc.Feed(context.Background(), FeedFilter{WorkspaceGroupID: 1, EventType: "chat_message", IncludeChat: true, Limit: 50})
	require.NoError(t, err)
	require.NotEmpty(t, chatOnly)
	for _, env := range chatOnly {
		assert.Equal(t, "chat_message", env.Type)
		require.NotNil(t, env.Message)
	}

	actionsOnly, err := svc.Feed(context.Background(), FeedFilter{WorkspaceGroupID: 1, EventType: "player_action", IncludeChat: true, Limit: 50})
	require.NoError(t, err)
	require.Len(t, actionsOnly, 4)
	for _, env := range actionsOnly {
		assert.Equal(t, "player_action", env.Type)
		assert.Equal(t, "opened_chest", env.Data["actionType"])
	}
}

func TestFeedGameEventFilterSkipsPresence(t *testing.T) {
	store := memory.NewStore()
	svc := NewActivityService(store)
	server := newTestServer(t, store, 1, "lobby")

	userID := int64(42)
	username := "player1"
	require.NoError(t, store.CreateEvent(context.Background(), &domains.GameEvent{
		ServerID:  &server.ID,
		EventType: "player_join",
		UserID:    &userID,
		Username:  &username,
	}))
	require.NoError(t, store.CreateEvent(context.Background(), &domains.GameEvent{
		ServerID:  &server.ID,
		EventType: "boss_defeated",
		UserID:    &userID,
		Username:  &username,
	}))

	feed, err := svc.Feed(context.Background(), FeedFilter{WorkspaceGroupID: 1, EventType: "game_event", IncludeChat: true, Limit: 50})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "game_event", feed[0].Type)
}

func TestFeedExcludesChatWhenDisabled(t *testing.T) {
	store := memory.NewStore()
	svc := NewActivityService(store)
	server := newTestServer(t, store, 1, "lobby")
	seedActivity(t, store, server, time.Now().Add(-time.Hour))

	feed, err := svc.Feed(context.Background(), FeedFilter{WorkspaceGroupID: 1, IncludeChat: false, Limit: 50})
	require.NoError(t, err)
	require.NotEmpty(t, feed)
	for _, env := range feed {
		assert.NotEqual(t, "chat_message", env.Type)
	}
}

func TestFeedMapsArbitraryEventsToGameEvent(t *testing.T) {
	store := memory.NewStore()
	svc := NewActivityService(store)
	server := newTestServer(t, store, 1, "lobby")

	userID := int64(42)
	username := "player1"
	require.NoError(t, store.CreateEvent(context.Background(), &domains.GameEvent{
		ServerID:  &server.ID,
		EventType: "boss_defeated",
		UserID:    &userID,
		Username:  &username,
		Data:      map[string]interface{}{"boss": "dragon"},
	}))

	feed, err := svc.Feed(context.Background(), FeedFilter{WorkspaceGroupID: 1, IncludeChat: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "game_event", feed[0].Type)
	assert.Equal(t, server.ID.String(), feed[0].ServerID)
	assert.Equal(t, "lobby", feed[0].ServerName)
}

func TestFeedScopedToWorkspace(t *testing.T) {
	store := memory.NewStore()
	svc := NewActivityService(store)
	mine := newTestServer(t, store, 1, "mine")
	theirs := newTestServer(t, store, 2, "theirs")
	seedActivity(t, store, mine, time.Now().Add(-time.Hour))
	seedActivity(t, store, theirs, time.Now().Add(-time.Hour))

	feed, err := svc.Feed(context.Background(), FeedFilter{WorkspaceGroupID: 1, IncludeChat: true, Limit: 100})
	require.NoError(t, err)
	require.NotEmpty(t, feed)
	for _, env := range feed {
		assert.Equal(t, mine.ID.String(), env.ServerID)
	}
}
