package services

import (
	"context"
	"testing"
	"time"

	"remote-admin-svc/app/domains"
	"remote-admin-svc/storage/memory"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperPurgesOnlyStaleDelivered(t *testing.T) {
	store := memory.NewStore()
	svc := NewCommandService(store)
	server := newTestServer(t, store, 1, "lobby")
	op := Operator{UserID: 7, Username: "admin"}
	ctx := context.Background()

	stale, err := svc.Enqueue(ctx, 1, op, "server_restart", domains.ServerTarget(server.ID), nil, nil, 0)
	require.NoError(t, err)
	fresh, err := svc.Enqueue(ctx, 1, op, "server_shutdown", domains.ServerTarget(server.ID), nil, nil, 0)
	require.NoError(t, err)
	_, err = svc.Enqueue(ctx, 1, op, "broadcast_message", domains.ServerTarget(server.ID), nil, nil, 0)
	require.NoError(t, err)

	store.MarkDelivered(stale.ID, time.Now().Add(-25*time.Hour))
	store.MarkDelivered(fresh.ID, time.Now().Add(-time.Hour))

	sweeper := NewSweeper(store, time.Hour, DefaultRetention, zerolog.Nop())
	sweeper.RunOnce(ctx)

	// Stale delivered is gone; recent delivered and pending survive.
	assert.Equal(t, 2, store.CommandCount())
	assert.Len(t, store.PendingCommands(), 1)
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	store := memory.NewStore()
	sweeper := NewSweeper(store, 10*time.Millisecond, DefaultRetention, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
}
