package services

import (
	"context"
	"sync"
	"testing"

	"remote-admin-svc/app/domains"
	"remote-admin-svc/storage/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, store *memory.Store, workspaceGroupID int64, name string) *domains.GameServer {
	t.Helper()
	server := &domains.GameServer{
		ID:               uuid.New(),
		WorkspaceGroupID: workspaceGroupID,
		Name:             name,
		GameID:           123456,
		APIKey:           "ra_test_" + name,
		MaxPlayers:       50,
		IsActive:         true,
	}
	require.NoError(t, store.CreateServer(context.Background(), server))
	return server
}

func TestEnqueueRejectsUnknownCommand(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommandService(store)

	_, err := svc.Enqueue(context.Background(), 1, Operator{UserID: 7, Username: "admin"},
		"format_disk", domains.BroadcastTarget(), nil, nil, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEnqueueRequiresTargetUser(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommandService(store)

	_, err := svc.Enqueue(context.Background(), 1, Operator{UserID: 7, Username: "admin"},
		"kick_player", domains.BroadcastTarget(), nil, nil, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	// broadcast_message has no target user requirement
	_, err = svc.Enqueue(context.Background(), 1, Operator{UserID: 7, Username: "admin"},
		"broadcast_message", domains.BroadcastTarget(), nil, map[string]interface{}{"message": "hi"}, 0)
	require.NoError(t, err)
}

func TestEnqueueRejectsForeignServer(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommandService(store)
	other := newTestServer(t, store, 2, "other-workspace")

	_, err := svc.Enqueue(context.Background(), 1, Operator{UserID: 7, Username: "admin"},
		"server_restart", domains.ServerTarget(other.ID), nil, nil, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnqueueWritesExactlyOneAuditEvent(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommandService(store)
	server := newTestServer(t, store, 1, "lobby")

	target := int64(42)
	cmd, err := svc.Enqueue(context.Background(), 1, Operator{UserID: 7, Username: "admin"},
		"ban_player", domains.ServerTarget(server.ID), &target, map[string]interface{}{"reason": "cheating"}, 5)
	require.NoError(t, err)
	require.NotZero(t, cmd.ID)

	audits := store.EventsByType(domains.EventTypeAdminCommand)
	require.Len(t, audits, 1)
	assert.Equal(t, "ban_player", audits[0].Data["command"])
	assert.Equal(t, cmd.ID, audits[0].Data["queueId"])
	require.NotNil(t, audits[0].UserID)
	assert.Equal(t, int64(7), *audits[0].UserID)
}

func TestPollOrdering(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommandService(store)
	server := newTestServer(t, store, 1, "lobby")
	op := Operator{UserID: 7, Username: "admin"}

	// Same priority resolves oldest first; higher priority jumps the line.
	low1, err := svc.Enqueue(context.Background(), 1, op, "server_restart", domains.ServerTarget(server.ID), nil, nil, 0)
	require.NoError(t, err)
	low2, err := svc.Enqueue(context.Background(), 1, op, "server_shutdown", domains.ServerTarget(server.ID), nil, nil, 0)
	require.NoError(t, err)
	high, err := svc.Enqueue(context.Background(), 1, op, "broadcast_message", domains.ServerTarget(server.ID), nil, nil, 10)
	require.NoError(t, err)

	polled, err := svc.Poll(context.Background(), server, 10)
	require.NoError(t, err)
	require.Len(t, polled, 3)
	assert.Equal(t, high.ID, polled[0].ID)
	assert.Equal(t, low1.ID, polled[1].ID)
	assert.Equal(t, low2.ID, polled[2].ID)
	for _, cmd := range polled {
		assert.Equal(t, domains.CommandStatusDelivered, cmd.Status)
		assert.NotNil(t, cmd.DeliveredAt)
	}
}

func TestPollDeliversOnce(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommandService(store)
	server := newTestServer(t, store, 1, "lobby")
	op := Operator{UserID: 7, Username: "admin"}

	_, err := svc.Enqueue(context.Background(), 1, op, "server_restart", domains.ServerTarget(server.ID), nil, nil, 0)
	require.NoError(t, err)

	first, err := svc.Poll(context.Background(), server, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Poll(context.Background(), server, 10)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestPollConcurrentNoDoubleDelivery(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommandService(store)
	server := newTestServer(t, store, 1, "lobby")
	op := Operator{UserID: 7, Username: "admin"}

	const total = 30
	for i := 0; i < total; i++ {
		_, err := svc.Enqueue(context.Background(), 1, op, "server_restart", domains.ServerTarget(server.ID), nil, nil, 0)
		require.NoError(t, err)
	}

	const pollers = 5
	results := make([][]domains.QueuedCommand, pollers)
	var wg sync.WaitGroup
	for i := 0; i < pollers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for {
				cmds, err := svc.Poll(context.Background(), server, 10)
				assert.NoError(t, err)
				if len(cmds) == 0 {
					return
				}
				results[i] = append(results[i], cmds...)
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	delivered := 0
	for _, batch := range results {
		for _, cmd := range batch {
			assert.False(t, seen[cmd.ID], "command %d delivered twice", cmd.ID)
			seen[cmd.ID] = true
			delivered++
		}
	}
	assert.Equal(t, total, delivered)
	assert.Empty(t, store.PendingCommands())
}

func TestBroadcastScopedToWorkspace(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommandService(store)
	mine := newTestServer(t, store, 1, "mine")
	theirs := newTestServer(t, store, 2, "theirs")
	op := Operator{UserID: 7, Username: "admin"}

	_, err := svc.Enqueue(context.Background(), 1, op, "broadcast_message", domains.BroadcastTarget(), nil,
		map[string]interface{}{"message": "maintenance in 5"}, 0)
	require.NoError(t, err)

	foreign, err := svc.Poll(context.Background(), theirs, 10)
	require.NoError(t, err)
	assert.Empty(t, foreign, "broadcast must not cross workspaces")

	local, err := svc.Poll(context.Background(), mine, 10)
	require.NoError(t, err)
	require.Len(t, local, 1)
	assert.Nil(t, local[0].ServerID)
}

func TestBroadcastDeliveredToFirstPoller(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommandService(store)
	a := newTestServer(t, store, 1, "a")
	b := newTestServer(t, store, 1, "b")
	op := Operator{UserID: 7, Username: "admin"}

	_, err := svc.Enqueue(context.Background(), 1, op, "server_shutdown", domains.BroadcastTarget(), nil, nil, 0)
	require.NoError(t, err)

	first, err := svc.Poll(context.Background(), a, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Poll(context.Background(), b, 10)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestListQueueIncludesDelivered(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommandService(store)
	server := newTestServer(t, store, 1, "lobby")
	op := Operator{UserID: 7, Username: "admin"}

	_, err := svc.Enqueue(context.Background(), 1, op, "server_restart", domains.ServerTarget(server.ID), nil, nil, 0)
	require.NoError(t, err)
	_, err = svc.Enqueue(context.Background(), 1, op, "server_shutdown", domains.ServerTarget(server.ID), nil, nil, 0)
	require.NoError(t, err)

	_, err = svc.Poll(context.Background(), server, 1)
	require.NoError(t, err)

	queue, err := svc.ListQueue(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	statuses := map[string]int{}
	for _, cmd := range queue {
		statuses[cmd.Status]++
		require.NotNil(t, cmd.ServerName)
		assert.Equal(t, "lobby", *cmd.ServerName)
	}
	assert.Equal(t, 1, statuses[domains.CommandStatusPending])
	assert.Equal(t, 1, statuses[domains.CommandStatusDelivered])
}
