package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"remote-admin-svc/app/domains"
	"remote-admin-svc/storage/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateServerDefaults(t *testing.T) {
	store := memory.NewStore()
	svc := NewServerService(store)

	server, err := svc.Create(context.Background(), 1, "lobby", nil, 123456, nil, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(server.APIKey, "ra_"))
	assert.Len(t, server.APIKey, 3+48)
	assert.Equal(t, 100, server.MaxPlayers)
	assert.True(t, server.IsActive)
	assert.NotEqual(t, uuid.Nil, server.ID)

	// Keys are unique across servers.
	other, err := svc.Create(context.Background(), 1, "arena", nil, 123456, nil, 20)
	require.NoError(t, err)
	assert.NotEqual(t, server.APIKey, other.APIKey)
	assert.Equal(t, 20, other.MaxPlayers)
}

func TestListServersWithActivityCounts(t *testing.T) {
	store := memory.NewStore()
	svc := NewServerService(store)
	server := newTestServer(t, store, 1, "lobby")
	ctx := context.Background()

	require.NoError(t, store.CreateChatMessage(ctx, &domains.ChatMessage{
		ServerID: server.ID, UserID: 42, Username: "player1", Message: "recent",
	}))
	require.NoError(t, store.CreateChatMessage(ctx, &domains.ChatMessage{
		ServerID: server.ID, UserID: 42, Username: "player1", Message: "old",
		Timestamp: time.Now().Add(-48 * time.Hour),
	}))
	userID := int64(42)
	username := "player1"
	require.NoError(t, store.CreateEvent(ctx, &domains.GameEvent{
		ServerID: &server.ID, EventType: "player_join", UserID: &userID, Username: &username,
	}))

	listed, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(1), listed[0].ChatMessages24h)
	assert.Equal(t, int64(1), listed[0].Events24h)
}

func TestUpdateServerPartial(t *testing.T) {
	store := memory.NewStore()
	svc := NewServerService(store)
	server := newTestServer(t, store, 1, "lobby")
	ctx := context.Background()

	inactive := false
	updated, err := svc.Update(ctx, 1, server.ID, nil, nil, nil, &inactive)
	require.NoError(t, err)
	assert.Equal(t, "lobby", updated.Name, "unset fields keep current values")
	assert.False(t, updated.IsActive)

	_, err = svc.Update(ctx, 2, server.ID, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteServerScopedToWorkspace(t *testing.T) {
	store := memory.NewStore()
	svc := NewServerService(store)
	server := newTestServer(t, store, 1, "lobby")
	ctx := context.Background()

	err := svc.Delete(ctx, 2, server.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, 1, server.ID))
	listed, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
